package cmd

import (
	"fmt"

	"github.com/drrakendu78/unicreate/internal/config"
	"github.com/drrakendu78/unicreate/internal/credential"
	"github.com/drrakendu78/unicreate/internal/pr"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [pr-url...]",
	Short: "Show live status of submitted pull requests",
	Long: `Show merge status and health for pull requests.

Without arguments the most recent submissions from history are checked
(status.limit, 5 by default).

Requests use the stored token and fall back to anonymous access when the
token is rejected. A rejected stored token is removed from the keyring.

A pull request has issues when it is closed without merge, a draft, or its
mergeable state is dirty, blocked, behind, unstable or draft.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	return runStatusWithDeps(cmd, args, nil, nil)
}

func runStatusWithDeps(cmd *cobra.Command, urls []string, deps *appDeps, cfg *config.Config) error {
	ctx := commandContext(cmd)
	app, err := initAppContext(ctx, deps, cfg)
	if err != nil {
		return err
	}

	if len(urls) == 0 {
		store, release, err := app.openHistory(ctx)
		if err != nil {
			return err
		}
		urls, err = store.URLs(ctx, app.cfg.Status.Limit)
		release()
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
	}
	if len(urls) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No pull requests to check.")
		return err
	}

	token, source := app.token()
	result := pr.NewReconciler(app.gh, nil).Reconcile(ctx, token, urls)

	if result.CredentialRejected && source == credential.SourceKeyring {
		if err := app.store.Clear(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to remove rejected token: %v\n", err)
		} else {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Stored token was rejected and has been removed. Run 'unicreate auth login' to sign in again.")
		}
	}

	return outputStatusTable(cmd, result.Records)
}

func outputStatusTable(cmd *cobra.Command, records []pr.Record) error {
	rows := make([][]string, len(records))
	for i, rec := range records {
		health := "✓"
		if rec.HasIssues {
			health = "!"
		}
		mergeable := rec.MergeableState
		if mergeable == "" {
			mergeable = "-"
		}
		rows[i] = []string{truncateString(rec.URL, 60), rec.Status.String(), health, mergeable}
	}

	t := newTable([]string{"Pull request", "Status", "Health", "Mergeable"}, rows)
	_, err := fmt.Fprintln(cmd.OutOrStdout(), t)
	return err
}
