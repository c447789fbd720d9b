package cmd

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/drrakendu78/unicreate/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print current configuration in TOML format",
	Long: `Print the current effective configuration in TOML format.

This outputs the merged configuration (defaults, then the user config file,
then ./unicreate.toml, then UNICREATE_* environment variables).
The GitHub token is never printed.
The output can be redirected to a file to create a new configuration:

  unicreate config > unicreate.toml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	return runConfigWithDeps(cmd, nil, nil)
}

func runConfigWithDeps(cmd *cobra.Command, deps *appDeps, cfg *config.Config) error {
	app, err := initAppContext(commandContext(cmd), deps, cfg)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(app.cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), buf.String())
	return err
}
