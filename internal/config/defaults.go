package config

import "time"

// DefaultConfig returns sensible defaults for all configuration.
func DefaultConfig() Config {
	return Config{
		GitHub: GitHubConfig{
			APIURL:    "https://api.github.com",
			LoginURL:  "https://github.com",
			UserAgent: "UniCreate/1.0",
		},
		Log: LogConfig{
			Level: "info",
		},
		Publish: PublishConfig{
			UpstreamOwner:   "microsoft",
			UpstreamRepo:    "winget-pkgs",
			BaseBranch:      "master",
			ForkSettleDelay: 3 * time.Second,
		},
		Status: StatusConfig{
			Limit:        5,
			RecoverLimit: 10,
		},
		Update: UpdateConfig{
			ReleaseOwner:        "drrakendu78",
			ReleaseRepo:         "UniCreate",
			ProcessPollInterval: 200 * time.Millisecond,
			RelaunchDelay:       500 * time.Millisecond,
			ExitDelay:           300 * time.Millisecond,
			TempDirName:         "unicreate-updater",
		},
	}
}
