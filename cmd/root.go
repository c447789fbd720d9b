package cmd

import (
	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "n/a"

// ClientID is the OAuth app used for the device flow, set at build time via
// ldflags. github.client_id in the config takes precedence.
var ClientID = ""

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "unicreate",
	Short: "Publish package manifests through GitHub pull requests",
	Long: `UniCreate publishes package manifests to the upstream manifest repository.

It signs in with the GitHub device flow, forks the upstream repository,
commits the manifest files on a new branch and opens a pull request.
Submitted pull requests are tracked locally so their status can be checked.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		if verboseFlag {
			clog.SetLevel(clog.DebugLevel)
		}
	},
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}
