package cmd

import (
	"fmt"

	clog "github.com/charmbracelet/log"
	"github.com/drrakendu78/unicreate/internal/config"
	"github.com/drrakendu78/unicreate/internal/failure"
	"github.com/drrakendu78/unicreate/internal/update"
	"github.com/spf13/cobra"
)

var (
	updateURLFlag  string
	updateNameFlag string
	updateAppFlag  string
	updatePIDFlag  uint32
	updateJSONFlag bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for and install UniCreate updates",
}

var updateCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a newer release is available",
	Args:  cobra.NoArgs,
	RunE:  runUpdateCheck,
}

var updateInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Download and install the latest release",
	Long: `Install the latest release in the background.

An updater process is started from a copy of this executable. It waits for
this process to exit, downloads the installer, runs it silently and starts
UniCreate again.`,
	Args: cobra.NoArgs,
	RunE: runUpdateInstall,
}

var updateRunCmd = &cobra.Command{
	Use:    "run --url <https-url> --app <path> --pid <pid> [--name <file>]",
	Short:  "Run the updater (started by update install)",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runUpdateRun,
}

var updateSilentCmd = &cobra.Command{
	Use:   "silent --url <https-url> [--name <file>]",
	Short: "Install an update with a detached PowerShell script (Windows)",
	Long: `Write and start a PowerShell script that waits for this process to exit,
downloads the installer, runs it silently and starts UniCreate again.

Only .exe and .msi installers served over https are accepted.`,
	Args: cobra.NoArgs,
	RunE: runUpdateSilent,
}

func init() {
	updateRunCmd.Flags().StringVar(&updateURLFlag, "url", "", "Installer download URL (https)")
	updateRunCmd.Flags().StringVar(&updateNameFlag, "name", "", "Installer file name")
	updateRunCmd.Flags().StringVar(&updateAppFlag, "app", "", "Application to relaunch")
	updateRunCmd.Flags().Uint32Var(&updatePIDFlag, "pid", 0, "Process to wait for")
	updateRunCmd.Flags().BoolVar(&updateJSONFlag, "json", false, "Emit progress as JSON lines on stdout")
	_ = updateRunCmd.MarkFlagRequired("url")
	_ = updateRunCmd.MarkFlagRequired("app")
	_ = updateRunCmd.MarkFlagRequired("pid")

	updateSilentCmd.Flags().StringVar(&updateURLFlag, "url", "", "Installer download URL (https)")
	updateSilentCmd.Flags().StringVar(&updateNameFlag, "name", "", "Installer file name")
	_ = updateSilentCmd.MarkFlagRequired("url")

	updateCmd.AddCommand(updateCheckCmd, updateInstallCmd, updateRunCmd, updateSilentCmd)
	rootCmd.AddCommand(updateCmd)
}

func runUpdateCheck(cmd *cobra.Command, _ []string) error {
	return runUpdateCheckWithDeps(cmd, Version, nil, nil)
}

func runUpdateCheckWithDeps(cmd *cobra.Command, current string, deps *appDeps, cfg *config.Config) error {
	ctx := commandContext(cmd)
	app, err := initAppContext(ctx, deps, cfg)
	if err != nil {
		return err
	}

	result, err := newChecker(app).Check(ctx, current)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case result.Skipped:
		_, err = fmt.Fprintf(out, "Development build (%s); update check skipped.\n", current)
	case result.Available:
		_, err = fmt.Fprintf(out, "Update available: %s (current %s)\n%s\n", result.Release.Tag, current, result.Release.HTMLURL)
	default:
		_, err = fmt.Fprintf(out, "UniCreate %s is up to date.\n", current)
	}
	return err
}

func runUpdateInstall(cmd *cobra.Command, _ []string) error {
	return runUpdateInstallWithDeps(cmd, Version, nil, nil)
}

func runUpdateInstallWithDeps(cmd *cobra.Command, current string, deps *appDeps, cfg *config.Config) error {
	ctx := commandContext(cmd)
	app, err := initAppContext(ctx, deps, cfg)
	if err != nil {
		return err
	}

	result, err := newChecker(app).Check(ctx, current)
	if err != nil {
		return err
	}
	if result.Skipped || !result.Available {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No update to install.")
		return err
	}
	if !result.HasAsset {
		return failure.Newf(failure.KindDomain, "update install", "release %s has no Windows installer", result.Release.Tag)
	}

	args := update.Args{
		URL:  result.Asset.URL,
		Name: result.Asset.Name,
		App:  app.executable,
		PID:  uint32(app.pid),
	}
	path, err := update.SpawnSidecar(app.platform, app.executable, app.updaterDir(), args)
	if err != nil {
		return err
	}

	clog.Debug("updater started", "path", path)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Installing %s. UniCreate will restart when the update is done.\n", result.Release.Tag)
	return err
}

func runUpdateRun(cmd *cobra.Command, _ []string) error {
	args := update.Args{URL: updateURLFlag, Name: updateNameFlag, App: updateAppFlag, PID: updatePIDFlag}
	return runUpdateRunWithDeps(cmd, args, updateJSONFlag, nil, nil)
}

func runUpdateRunWithDeps(cmd *cobra.Command, args update.Args, jsonOutput bool, deps *appDeps, cfg *config.Config) error {
	if err := args.Validate(); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	app, err := initAppContext(ctx, deps, cfg)
	if err != nil {
		return err
	}

	logger := clog.Default().WithPrefix("update")
	var observer update.Observer
	if jsonOutput {
		observer = update.JSONObserver(cmd.OutOrStdout())
	} else {
		observer = update.LogObserver(logger)
	}

	runner := update.NewRunner(update.RunnerOptions{
		TempDir:       app.updaterDir(),
		PollInterval:  app.cfg.Update.ProcessPollInterval,
		RelaunchDelay: app.cfg.Update.RelaunchDelay,
		ExitDelay:     app.cfg.Update.ExitDelay,
		Platform:      app.platform,
		Wait:          app.wait,
		Logger:        logger,
	}, update.NewBroadcaster(observer))

	return runner.Run(ctx, args)
}

func runUpdateSilent(cmd *cobra.Command, _ []string) error {
	return runUpdateSilentWithDeps(cmd, updateURLFlag, updateNameFlag, "", nil, nil)
}

func runUpdateSilentWithDeps(cmd *cobra.Command, url, name, goos string, deps *appDeps, cfg *config.Config) error {
	ctx := commandContext(cmd)
	app, err := initAppContext(ctx, deps, cfg)
	if err != nil {
		return err
	}

	scriptPath, err := update.StartSilentUpdate(
		update.Args{URL: url, Name: name, App: app.executable, PID: uint32(app.pid)},
		update.SilentOptions{
			GOOS:          goos,
			TempDir:       app.updaterDir(),
			PollInterval:  app.cfg.Update.ProcessPollInterval,
			RelaunchDelay: app.cfg.Update.RelaunchDelay,
			Platform:      app.platform,
		})
	if err != nil {
		return err
	}

	clog.Debug("silent update started", "script", scriptPath)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Update started. UniCreate will restart when it is done.")
	return err
}

func newChecker(app *appContext) *update.Checker {
	return update.NewChecker(app.gh, app.cfg.Update.ReleaseOwner, app.cfg.Update.ReleaseRepo, nil)
}
