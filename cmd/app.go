package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	clog "github.com/charmbracelet/log"
	"github.com/drrakendu78/unicreate/internal/clock"
	"github.com/drrakendu78/unicreate/internal/config"
	"github.com/drrakendu78/unicreate/internal/credential"
	"github.com/drrakendu78/unicreate/internal/deviceflow"
	"github.com/drrakendu78/unicreate/internal/failure"
	"github.com/drrakendu78/unicreate/internal/github"
	"github.com/drrakendu78/unicreate/internal/history"
	"github.com/drrakendu78/unicreate/internal/update"
)

// historyStore is the subset of *history.Store the commands use.
type historyStore interface {
	Add(ctx context.Context, e history.Entry) (bool, error)
	Merge(ctx context.Context, entries []history.Entry) (int, error)
	List(ctx context.Context, limit int) ([]history.Entry, error)
	URLs(ctx context.Context, limit int) ([]string, error)
	Clear(ctx context.Context) (int64, error)
}

// deviceAuthenticator is the device flow as used by auth login.
type deviceAuthenticator interface {
	Start(ctx context.Context) (deviceflow.Session, error)
	deviceflow.Poller
}

var errNotLoggedIn = failure.New(failure.KindAuth, "", errors.New("not logged in"))

// appDeps holds injectable dependencies for testing.
// Nil fields are built from the environment.
type appDeps struct {
	gh       github.GitHub
	store    credential.Store
	history  historyStore
	auth     deviceAuthenticator
	platform update.Platform
	wait     clock.SleepFunc
	// executable and pid describe the running process for the updater.
	executable string
	pid        int
}

// appContext holds the resolved configuration and clients for a command.
type appContext struct {
	cfg      config.Config
	gh       github.GitHub // anonymous; use withToken for authenticated calls
	store    credential.Store
	platform update.Platform
	wait     clock.SleepFunc

	executable string
	pid        int

	history     historyStore
	historyPath string
	auth        deviceAuthenticator
}

// initAppContext initializes the context from deps (for testing) or from the environment.
func initAppContext(ctx context.Context, deps *appDeps, cfg *config.Config) (*appContext, error) {
	if deps != nil {
		loadedCfg := config.DefaultConfig()
		if cfg != nil {
			loadedCfg = *cfg
		}
		return &appContext{
			cfg:        loadedCfg,
			gh:         deps.gh,
			store:      deps.store,
			platform:   deps.platform,
			wait:       deps.wait,
			executable: deps.executable,
			pid:        deps.pid,
			history:    deps.history,
			auth:       deps.auth,
		}, nil
	}

	return initAppContextFromEnv(ctx)
}

// initAppContextFromEnv loads config and creates clients from the environment.
func initAppContextFromEnv(ctx context.Context) (*appContext, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	loader := config.NewDefaultLoader()
	loadResult, err := loader.Load(ctx, config.ConfigPaths(cwd))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := loadResult.Config

	// Component loggers copy the level when created, so set it first.
	if !verboseFlag {
		level, err := clog.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log.level %q: %w", cfg.Log.Level, err)
		}
		clog.SetLevel(level)
	}

	gh, err := github.NewClient(github.Config{
		BaseURL:   cfg.GitHub.APIURL,
		UserAgent: cfg.GitHub.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	historyPath, err := cfg.HistoryPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve history path: %w", err)
	}

	executable, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}

	return &appContext{
		cfg:         cfg,
		gh:          gh,
		store:       credential.NewKeyring(),
		platform:    update.DefaultPlatform(),
		wait:        clock.Sleep,
		executable:  executable,
		pid:         os.Getpid(),
		historyPath: historyPath,
	}, nil
}

// token resolves the bearer token: UNICREATE_GITHUB_TOKEN, then the keyring.
func (a *appContext) token() (string, credential.Source) {
	return credential.Resolve(a.cfg.GitHub.Token, a.store)
}

// requireToken returns an authenticated client or an auth failure.
func (a *appContext) requireToken() (github.GitHub, credential.Source, error) {
	token, source := a.token()
	if token == "" {
		return nil, source, errNotLoggedIn
	}
	return a.gh.WithToken(token), source, nil
}

// openHistory returns the submission history and a func that releases it.
func (a *appContext) openHistory(ctx context.Context) (historyStore, func(), error) {
	if a.history != nil {
		return a.history, func() {}, nil
	}
	store, err := history.Open(ctx, a.historyPath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// authenticator returns the device flow client.
func (a *appContext) authenticator() (deviceAuthenticator, error) {
	if a.auth != nil {
		return a.auth, nil
	}
	clientID := a.cfg.GitHub.ClientID
	if clientID == "" {
		clientID = ClientID
	}
	auth, err := deviceflow.New(deviceflow.Config{
		LoginURL:  a.cfg.GitHub.LoginURL,
		ClientID:  clientID,
		UserAgent: a.cfg.GitHub.UserAgent,
	})
	if err != nil {
		return nil, err
	}
	return auth, nil
}

// updaterDir is the temp directory for the sidecar and downloaded installers.
func (a *appContext) updaterDir() string {
	return filepath.Join(os.TempDir(), a.cfg.Update.TempDirName)
}
