package cmd

import (
	"fmt"
	"strings"

	"github.com/drrakendu78/unicreate/internal/config"
	"github.com/drrakendu78/unicreate/internal/publish"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <Publisher.Package>",
	Short: "Check whether a package exists upstream",
	Long: `Look up a package in the upstream manifest repository and list the
versions already published for it.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	return runLookupWithDeps(cmd, args[0], nil, nil)
}

func runLookupWithDeps(cmd *cobra.Command, id string, deps *appDeps, cfg *config.Config) error {
	ctx := commandContext(cmd)
	app, err := initAppContext(ctx, deps, cfg)
	if err != nil {
		return err
	}

	// Anonymous lookups work but share a low rate limit.
	gh := app.gh
	if token, _ := app.token(); token != "" {
		gh = gh.WithToken(token)
	}

	info, err := publish.LookupPackage(ctx, gh, app.cfg.Publish.UpstreamOwner, app.cfg.Publish.UpstreamRepo, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !info.Exists {
		_, err := fmt.Fprintf(out, "%s is not in %s/%s yet (new package).\n", info.ID, app.cfg.Publish.UpstreamOwner, app.cfg.Publish.UpstreamRepo)
		return err
	}
	_, err = fmt.Fprintf(out, "%s exists upstream.\nVersions: %s\nLatest: %s\n",
		info.ID, strings.Join(info.Versions, ", "), info.Latest())
	return err
}
