package cmd

import (
	"fmt"

	"github.com/drrakendu78/unicreate/internal/config"
	"github.com/drrakendu78/unicreate/internal/history"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyLimitFlag int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List submitted pull requests",
	Long: `List pull requests submitted with UniCreate, newest first.

Entries are added by publish and by recover.`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submitted pull requests",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every history entry",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.PersistentFlags().IntVar(&historyLimitFlag, "limit", 0, "Maximum entries to show (0 = all)")
	historyCmd.AddCommand(historyListCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	return runHistoryListWithDeps(cmd, historyLimitFlag, nil, nil)
}

func runHistoryListWithDeps(cmd *cobra.Command, limit int, deps *appDeps, cfg *config.Config) error {
	ctx := commandContext(cmd)
	app, err := initAppContext(ctx, deps, cfg)
	if err != nil {
		return err
	}

	store, release, err := app.openHistory(ctx)
	if err != nil {
		return err
	}
	defer release()

	entries, err := store.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	return outputHistoryTable(cmd, entries)
}

func outputHistoryTable(cmd *cobra.Command, entries []history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No submissions yet.")
		return err
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			truncateString(e.PackageID, 40),
			e.Version,
			e.PRURL,
			e.User,
			humanize.Time(e.CreatedAt),
		}
	}

	t := newTable([]string{"Package", "Version", "Pull request", "User", "Submitted"}, rows)
	_, err := fmt.Fprintln(cmd.OutOrStdout(), t)
	return err
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	return runHistoryClearWithDeps(cmd, nil, nil)
}

func runHistoryClearWithDeps(cmd *cobra.Command, deps *appDeps, cfg *config.Config) error {
	ctx := commandContext(cmd)
	app, err := initAppContext(ctx, deps, cfg)
	if err != nil {
		return err
	}

	store, release, err := app.openHistory(ctx)
	if err != nil {
		return err
	}
	defer release()

	n, err := store.Clear(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entr%s.\n", n, pluralY(n))
	return err
}

func pluralY(n int64) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
