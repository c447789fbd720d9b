package cmd

import (
	"fmt"

	"github.com/drrakendu78/unicreate/internal/config"
	"github.com/drrakendu78/unicreate/internal/credential"
	"github.com/drrakendu78/unicreate/internal/failure"
	"github.com/drrakendu78/unicreate/internal/github"
	"github.com/drrakendu78/unicreate/internal/history"
	"github.com/drrakendu78/unicreate/internal/naming"
	"github.com/spf13/cobra"
)

var recoverLimitFlag int

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Import your recent UniCreate pull requests into history",
	Long: `Search the upstream repository for pull requests you opened with UniCreate
and add the ones missing from the local history.

Pull requests are found by author and by the credit line in their body.`,
	Args: cobra.NoArgs,
	RunE: runRecover,
}

func init() {
	recoverCmd.Flags().IntVar(&recoverLimitFlag, "limit", 0, "Maximum pull requests to fetch (default status.recover_limit)")
	rootCmd.AddCommand(recoverCmd)
}

func runRecover(cmd *cobra.Command, _ []string) error {
	return runRecoverWithDeps(cmd, recoverLimitFlag, nil, nil)
}

func runRecoverWithDeps(cmd *cobra.Command, limit int, deps *appDeps, cfg *config.Config) error {
	ctx := commandContext(cmd)
	app, err := initAppContext(ctx, deps, cfg)
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = app.cfg.Status.RecoverLimit
	}

	gh, source, err := app.requireToken()
	if err != nil {
		return err
	}

	user, err := gh.GetUser(ctx)
	if err != nil {
		return expireOnRejection(cmd, app, source, err)
	}

	issues, err := gh.SearchPullRequests(ctx, github.PRQuery{
		Repo:     app.cfg.Publish.UpstreamOwner + "/" + app.cfg.Publish.UpstreamRepo,
		Author:   user.Login,
		BodyText: naming.BodyMarker,
	}, limit)
	if err != nil {
		return expireOnRejection(cmd, app, source, err)
	}

	entries := recoveredEntries(issues, user.Login)

	store, release, err := app.openHistory(ctx)
	if err != nil {
		return err
	}
	defer release()

	added, err := store.Merge(ctx, entries)
	if err != nil {
		return fmt.Errorf("failed to update history: %w", err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Found %d pull request(s), %d new.\n", len(entries), added)
	return err
}

// recoveredEntries maps search results to history entries. Titles not in
// the tool's format keep the whole title as package and "-" as version.
func recoveredEntries(issues []github.Issue, login string) []history.Entry {
	entries := make([]history.Entry, 0, len(issues))
	for _, issue := range issues {
		id, version, _ := naming.ParseTitle(issue.Title)
		url := issue.HTMLURL
		if issue.PullRequest != nil && issue.PullRequest.HTMLURL != "" {
			url = issue.PullRequest.HTMLURL
		}
		entries = append(entries, history.Entry{
			PackageID: id,
			Version:   version,
			PRURL:     url,
			User:      login,
			CreatedAt: issue.CreatedAt,
		})
	}
	return entries
}

// expireOnRejection clears a stored token that GitHub no longer accepts.
func expireOnRejection(cmd *cobra.Command, app *appContext, source credential.Source, err error) error {
	if !failure.Is(err, failure.KindAuth) {
		return err
	}
	if source == credential.SourceKeyring {
		if clearErr := app.store.Clear(); clearErr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to remove rejected token: %v\n", clearErr)
		}
	}
	return &failure.Error{
		Kind:       failure.KindAuth,
		Op:         "recover",
		StatusCode: failure.StatusCodeOf(err),
		Err:        fmt.Errorf("session expired: %w", err),
	}
}
