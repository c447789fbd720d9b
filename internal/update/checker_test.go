package update

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/drrakendu78/unicreate/internal/github"
	"github.com/drrakendu78/unicreate/internal/github/githubtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecker_Check(t *testing.T) {
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	release := github.Release{
		TagName:     "v1.4.0",
		Body:        "notes",
		HTMLURL:     "https://github.com/drrakendu78/UniCreate/releases/tag/v1.4.0",
		PublishedAt: published,
		Assets: []github.ReleaseAsset{
			{Name: "UniCreate_1.4.0_x64-setup.exe", BrowserDownloadURL: "https://dl.example.com/setup.exe", Size: 1024},
			{Name: "UniCreate_1.4.0_x64_en-US.msi", BrowserDownloadURL: "https://dl.example.com/app.msi", Size: 2048},
		},
	}

	tests := []struct {
		name          string
		current       string
		wantAvailable bool
	}{
		{name: "older current", current: "1.3.2", wantAvailable: true},
		{name: "same version", current: "1.4.0", wantAvailable: false},
		{name: "newer current", current: "v1.5", wantAvailable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotOwner, gotRepo string
			gh := &githubtest.Mock{
				GetLatestReleaseFn: func(_ context.Context, owner, repo string) (github.Release, error) {
					gotOwner, gotRepo = owner, repo
					return release, nil
				},
			}

			checker := NewChecker(gh, "drrakendu78", "UniCreate", clog.New(io.Discard))
			result, err := checker.Check(context.Background(), tt.current)
			require.NoError(t, err)

			assert.Equal(t, "drrakendu78", gotOwner)
			assert.Equal(t, "UniCreate", gotRepo)
			assert.False(t, result.Skipped)
			assert.Equal(t, tt.wantAvailable, result.Available)
			assert.Equal(t, "v1.4.0", result.Release.Tag)
			assert.Equal(t, published, result.Release.PublishedAt)
			assert.Len(t, result.Release.Assets, 2)
			require.True(t, result.HasAsset)
			assert.Equal(t, Asset{Name: "UniCreate_1.4.0_x64-setup.exe", URL: "https://dl.example.com/setup.exe", Size: 1024}, result.Asset)
		})
	}
}

func TestChecker_SkipsDevBuild(t *testing.T) {
	gh := &githubtest.Mock{}
	checker := NewChecker(gh, "o", "r", clog.New(io.Discard))

	result, err := checker.Check(context.Background(), "dev")
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.False(t, result.Available)
}

func TestChecker_NoEligibleAsset(t *testing.T) {
	gh := &githubtest.Mock{
		GetLatestReleaseFn: func(context.Context, string, string) (github.Release, error) {
			return github.Release{TagName: "2.0.0", Assets: []github.ReleaseAsset{{Name: "app.msi"}}}, nil
		},
	}
	checker := NewChecker(gh, "o", "r", clog.New(io.Discard))

	result, err := checker.Check(context.Background(), "1.0.0")
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.False(t, result.HasAsset)
}

func TestChecker_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	gh := &githubtest.Mock{
		GetLatestReleaseFn: func(context.Context, string, string) (github.Release, error) {
			return github.Release{}, boom
		},
	}
	checker := NewChecker(gh, "o", "r", clog.New(io.Discard))

	_, err := checker.Check(context.Background(), "1.0.0")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
