package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/drrakendu78/unicreate/internal/config"
	"github.com/drrakendu78/unicreate/internal/github"
	"github.com/drrakendu78/unicreate/internal/history"
	"github.com/drrakendu78/unicreate/internal/publish"
	"github.com/spf13/cobra"
)

var (
	publishIDFlag      string
	publishVersionFlag string
)

var publishCmd = &cobra.Command{
	Use:   "publish --id <Publisher.Package> --version <version> <file-or-dir>...",
	Short: "Open a pull request with manifest files",
	Long: `Publish manifest files to the upstream repository through your fork.

Files are committed under manifests/<p>/<Publisher>/<Package>/<version>/ in
the order given. A directory contributes its regular files sorted by name.

The steps run in order: identify, fork, base ref, blobs, tree, commit,
branch, pull request. A failure stops the run and nothing already created on
your fork is removed. Publishing the same version again fails at the branch
step until the branch from the earlier attempt is deleted.

Example:
  unicreate publish --id Publisher.Package --version 1.2.3 ./manifests/1.2.3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishIDFlag, "id", "", "Package identifier (Publisher.Package)")
	publishCmd.Flags().StringVar(&publishVersionFlag, "version", "", "Package version")
	_ = publishCmd.MarkFlagRequired("id")
	_ = publishCmd.MarkFlagRequired("version")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	return runPublishWithDeps(cmd, publishIDFlag, publishVersionFlag, args, nil, nil)
}

func runPublishWithDeps(cmd *cobra.Command, id, version string, paths []string, deps *appDeps, cfg *config.Config) error {
	ctx := commandContext(cmd)
	app, err := initAppContext(ctx, deps, cfg)
	if err != nil {
		return err
	}

	files, err := readPublishFiles(paths)
	if err != nil {
		return err
	}

	gh, _, err := app.requireToken()
	if err != nil {
		return err
	}

	warnIfPublished(ctx, cmd, app, gh, id, version)

	pipeline := publish.New(gh, publish.Options{
		UpstreamOwner: app.cfg.Publish.UpstreamOwner,
		UpstreamRepo:  app.cfg.Publish.UpstreamRepo,
		BaseBranch:    app.cfg.Publish.BaseBranch,
		SettleDelay:   app.cfg.Publish.ForkSettleDelay,
		Wait:          app.wait,
	})
	result, err := pipeline.Run(ctx, publish.Request{PackageID: id, Version: version, Files: files})
	if err != nil {
		return err
	}

	if err := recordSubmission(ctx, app, history.Entry{
		PackageID: id,
		Version:   version,
		PRURL:     result.URL,
		User:      result.State.User,
	}); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: pull request created but not saved to history: %v\n", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), result.URL)
	return err
}

// warnIfPublished is a pre-flight check; a failed lookup never blocks publishing.
func warnIfPublished(ctx context.Context, cmd *cobra.Command, app *appContext, gh github.GitHub, id, version string) {
	info, err := publish.LookupPackage(ctx, gh, app.cfg.Publish.UpstreamOwner, app.cfg.Publish.UpstreamRepo, id)
	if err != nil {
		return
	}
	if info.HasVersion(version) {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s %s already exists upstream\n", id, version)
	}
}

func recordSubmission(ctx context.Context, app *appContext, e history.Entry) error {
	store, release, err := app.openHistory(ctx)
	if err != nil {
		return err
	}
	defer release()
	_, err = store.Add(ctx, e)
	return err
}

// readPublishFiles expands paths into files. Order follows the arguments;
// a directory contributes its regular files sorted by name.
func readPublishFiles(paths []string) ([]publish.File, error) {
	var files []publish.File
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}

		if !info.IsDir() {
			f, err := readPublishFile(p)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			f, err := readPublishFile(filepath.Join(p, e.Name()))
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	}

	if len(files) == 0 {
		return nil, errors.New("no manifest files found")
	}
	return files, nil
}

func readPublishFile(path string) (publish.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return publish.File{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return publish.File{Name: filepath.Base(path), Content: string(data)}, nil
}
