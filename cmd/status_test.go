package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/drrakendu78/unicreate/internal/failure"
	"github.com/drrakendu78/unicreate/internal/github"
	"github.com/drrakendu78/unicreate/internal/github/githubtest"
	"github.com/drrakendu78/unicreate/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rejected() error {
	return &failure.Error{Kind: failure.KindAuth, Op: "GET pulls", StatusCode: 401, Err: errors.New("Bad credentials")}
}

func TestRunStatus(t *testing.T) {
	tests := []struct {
		name        string
		urls        []string
		seed        []history.Entry
		store       *memStore
		getPR       func(ctx context.Context, token, owner, repo string, number int) (github.PullRequest, error)
		wantOut     []string
		wantStderr  string
		wantCleared int
	}{
		{
			name:    "no urls and empty history",
			store:   &memStore{},
			wantOut: []string{"No pull requests to check."},
		},
		{
			name:  "explicit urls",
			urls:  []string{"https://github.com/microsoft/winget-pkgs/pull/7"},
			store: &memStore{},
			getPR: func(_ context.Context, _, _, _ string, number int) (github.PullRequest, error) {
				return github.PullRequest{Number: number, State: github.PRStateOpen, MergeableState: "clean"}, nil
			},
			wantOut: []string{"pull/7", "open", "✓", "clean"},
		},
		{
			name: "falls back to history",
			seed: []history.Entry{
				{PackageID: "A.B", Version: "1", PRURL: "https://github.com/microsoft/winget-pkgs/pull/9"},
			},
			store: &memStore{},
			getPR: func(_ context.Context, _, _, _ string, _ int) (github.PullRequest, error) {
				return github.PullRequest{State: github.PRStateClosed}, nil
			},
			wantOut: []string{"pull/9", "closed", "!", "-"},
		},
		{
			name:  "rejected stored token is cleared",
			urls:  []string{"https://github.com/microsoft/winget-pkgs/pull/3"},
			store: &memStore{token: "stale"},
			getPR: func(_ context.Context, token, _, _ string, _ int) (github.PullRequest, error) {
				if token != "" {
					return github.PullRequest{}, rejected()
				}
				return github.PullRequest{State: github.PRStateOpen, Draft: true}, nil
			},
			wantOut:     []string{"pull/3", "open", "!"},
			wantStderr:  "Stored token was rejected",
			wantCleared: 1,
		},
		{
			name:  "rate-limited stored token is kept",
			urls:  []string{"https://github.com/microsoft/winget-pkgs/pull/4"},
			store: &memStore{token: "valid"},
			getPR: func(context.Context, string, string, string, int) (github.PullRequest, error) {
				return github.PullRequest{}, &failure.Error{
					Kind:       failure.KindHTTPStatus,
					Op:         "GET pulls",
					StatusCode: 403,
					Err:        errors.New("API rate limit exceeded"),
				}
			},
			wantOut:     []string{"pull/4", "unknown"},
			wantCleared: 0,
		},
		{
			name:    "invalid url keeps the batch going",
			urls:    []string{"not-a-url"},
			store:   &memStore{},
			wantOut: []string{"not-a-url", "unknown", "invalid-url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hist := openTestHistory(t)
			_, err := hist.Merge(context.Background(), tt.seed)
			require.NoError(t, err)

			gh := &githubtest.Mock{GetPullRequestFn: tt.getPR}
			cmd, stdout, stderr := newTestCmd()
			err = runStatusWithDeps(cmd, tt.urls, &appDeps{gh: gh, store: tt.store, history: hist}, testConfig())
			require.NoError(t, err)

			for _, want := range tt.wantOut {
				assert.Contains(t, stdout.String(), want)
			}
			if tt.wantStderr != "" {
				assert.Contains(t, stderr.String(), tt.wantStderr)
			}
			assert.Equal(t, tt.wantCleared, tt.store.cleared)
		})
	}
}

func TestRunStatus_EnvTokenIsNeverCleared(t *testing.T) {
	cfg := testConfig()
	cfg.GitHub.Token = "env-token"
	store := &memStore{token: "stored"}
	gh := &githubtest.Mock{
		GetPullRequestFn: func(_ context.Context, token, _, _ string, _ int) (github.PullRequest, error) {
			if token != "" {
				return github.PullRequest{}, rejected()
			}
			return github.PullRequest{State: github.PRStateOpen}, nil
		},
	}

	cmd, _, stderr := newTestCmd()
	err := runStatusWithDeps(cmd, []string{"https://github.com/o/r/pull/1"}, &appDeps{gh: gh, store: store}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, store.cleared)
	assert.Equal(t, "stored", store.token)
	assert.NotContains(t, stderr.String(), "rejected")
}
