package config

import (
	"errors"
	"strings"
	"time"
)

// Config represents the complete unicreate configuration.
type Config struct {
	GitHub  GitHubConfig  `toml:"github" env:",prefix=GITHUB_"`
	History HistoryConfig `toml:"history" env:",prefix=HISTORY_"`
	Log     LogConfig     `toml:"log" env:",prefix=LOG_"`
	Publish PublishConfig `toml:"publish" env:",prefix=PUBLISH_"`
	Status  StatusConfig  `toml:"status" env:",prefix=STATUS_"`
	Update  UpdateConfig  `toml:"update" env:",prefix=UPDATE_"`
}

// Validate checks that all config values are valid.
// Returns an error describing the first invalid value found.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.GitHub.APIURL, "https://") {
		return errors.New("github.api_url must use https")
	}
	if !strings.HasPrefix(c.GitHub.LoginURL, "https://") {
		return errors.New("github.login_url must use https")
	}
	if c.Publish.UpstreamOwner == "" || c.Publish.UpstreamRepo == "" {
		return errors.New("publish.upstream_owner and publish.upstream_repo are required")
	}
	if c.Publish.BaseBranch == "" {
		return errors.New("publish.base_branch cannot be empty")
	}
	if c.Publish.ForkSettleDelay < 0 {
		return errors.New("publish.fork_settle_delay cannot be negative")
	}
	if c.Status.Limit < 0 {
		return errors.New("status.limit cannot be negative")
	}
	if c.Status.RecoverLimit < 0 {
		return errors.New("status.recover_limit cannot be negative")
	}
	if c.Update.ProcessPollInterval <= 0 {
		return errors.New("update.process_poll_interval must be positive")
	}
	if c.Update.RelaunchDelay < 0 {
		return errors.New("update.relaunch_delay cannot be negative")
	}
	if c.Update.ExitDelay < 0 {
		return errors.New("update.exit_delay cannot be negative")
	}
	if c.Update.TempDirName == "" {
		return errors.New("update.temp_dir_name cannot be empty")
	}
	return nil
}

// GitHubConfig configures access to the code-hosting API and the OAuth device flow.
type GitHubConfig struct {
	APIURL    string `toml:"api_url" env:"API_URL, overwrite"`
	LoginURL  string `toml:"login_url" env:"LOGIN_URL, overwrite"`
	ClientID  string `toml:"client_id" env:"CLIENT_ID, overwrite"`
	UserAgent string `toml:"user_agent" env:"USER_AGENT, overwrite"`
	// Token is never read from or written to a file.
	Token string `toml:"-" env:"TOKEN, overwrite"`
}

// HistoryConfig configures the local submission history.
type HistoryConfig struct {
	Path string `toml:"path" env:"PATH, overwrite"` // empty = <user config dir>/unicreate/history.db
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level" env:"LEVEL, overwrite"` // debug, info, warn, error
}

// PublishConfig configures the manifest publication pipeline.
type PublishConfig struct {
	UpstreamOwner   string        `toml:"upstream_owner" env:"UPSTREAM_OWNER, overwrite"`
	UpstreamRepo    string        `toml:"upstream_repo" env:"UPSTREAM_REPO, overwrite"`
	BaseBranch      string        `toml:"base_branch" env:"BASE_BRANCH, overwrite"`
	ForkSettleDelay time.Duration `toml:"fork_settle_delay" env:"FORK_SETTLE_DELAY, overwrite"` // e.g., "3s"
}

// StatusConfig configures pull request status reconciliation.
type StatusConfig struct {
	Limit        int `toml:"limit" env:"LIMIT, overwrite"`                 // history entries checked by default
	RecoverLimit int `toml:"recover_limit" env:"RECOVER_LIMIT, overwrite"` // PRs fetched by recover
}

// UpdateConfig configures self-update.
type UpdateConfig struct {
	ReleaseOwner        string        `toml:"release_owner" env:"RELEASE_OWNER, overwrite"`
	ReleaseRepo         string        `toml:"release_repo" env:"RELEASE_REPO, overwrite"`
	ProcessPollInterval time.Duration `toml:"process_poll_interval" env:"PROCESS_POLL_INTERVAL, overwrite"`
	RelaunchDelay       time.Duration `toml:"relaunch_delay" env:"RELAUNCH_DELAY, overwrite"`
	ExitDelay           time.Duration `toml:"exit_delay" env:"EXIT_DELAY, overwrite"`
	TempDirName         string        `toml:"temp_dir_name" env:"TEMP_DIR_NAME, overwrite"`
}
