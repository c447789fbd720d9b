package cmd

import (
	"context"
	"fmt"

	"github.com/drrakendu78/unicreate/internal/config"
	"github.com/drrakendu78/unicreate/internal/deviceflow"
	"github.com/spf13/cobra"
)

var authNoStoreFlag bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage GitHub authentication",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with the GitHub device flow",
	Long: `Sign in to GitHub without pasting a token.

A one-time code is printed. Open the verification page in a browser,
enter the code and approve access. The token is stored in the OS keyring
unless --no-store is given.

UNICREATE_GITHUB_TOKEN, when set, takes precedence over the stored token.`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed-in GitHub account",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored GitHub token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

func init() {
	authLoginCmd.Flags().BoolVar(&authNoStoreFlag, "no-store", false, "Print the token instead of storing it in the keyring")
	authCmd.AddCommand(authLoginCmd, authStatusCmd, authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	return runAuthLoginWithDeps(cmd, authNoStoreFlag, nil, nil)
}

func runAuthLoginWithDeps(cmd *cobra.Command, noStore bool, deps *appDeps, cfg *config.Config) error {
	ctx := commandContext(cmd)
	app, err := initAppContext(ctx, deps, cfg)
	if err != nil {
		return err
	}

	auth, err := app.authenticator()
	if err != nil {
		return err
	}

	session, err := auth.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start sign-in: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	_, _ = fmt.Fprintf(stderr, "First copy your one-time code: %s\n", session.UserCode)
	_, _ = fmt.Fprintf(stderr, "Then open %s in your browser and enter the code.\n", session.VerificationURI)
	_, _ = fmt.Fprintln(stderr, "Waiting for authorization...")

	token, err := deviceflow.Await(ctx, auth, session, app.wait)
	if err != nil {
		return fmt.Errorf("sign-in did not complete: %w", err)
	}

	user, err := app.gh.WithToken(token).GetUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify token: %w", err)
	}
	_, _ = fmt.Fprintf(stderr, "Logged in as %s\n", user.Login)

	if noStore {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	}
	if err := app.store.Store(token); err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: could not store the token in the keyring: %v\n", err)
		_, _ = fmt.Fprintln(stderr, "Set UNICREATE_GITHUB_TOKEN to the token below to stay signed in.")
		_, err := fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	}
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	return runAuthStatusWithDeps(cmd, nil, nil)
}

func runAuthStatusWithDeps(cmd *cobra.Command, deps *appDeps, cfg *config.Config) error {
	ctx := commandContext(cmd)
	app, err := initAppContext(ctx, deps, cfg)
	if err != nil {
		return err
	}

	gh, source, err := app.requireToken()
	if err != nil {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		return err
	}

	user, err := gh.GetUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify token from %s: %w", source, err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (token from %s)\n", user.Login, source)
	return err
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	return runAuthLogoutWithDeps(cmd, nil)
}

func runAuthLogoutWithDeps(cmd *cobra.Command, deps *appDeps) error {
	app, err := initAppContext(commandContext(cmd), deps, nil)
	if err != nil {
		return err
	}
	if err := app.store.Clear(); err != nil {
		return fmt.Errorf("failed to remove stored token: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	return err
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
