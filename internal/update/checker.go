package update

import (
	"context"
	"fmt"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/drrakendu78/unicreate/internal/github"
)

// ReleaseSource fetches the newest published release.
type ReleaseSource interface {
	GetLatestRelease(ctx context.Context, owner, repo string) (github.Release, error)
}

// ReleaseDescriptor is fetched fresh on every check and never stored.
type ReleaseDescriptor struct {
	Tag         string
	Body        string
	HTMLURL     string
	PublishedAt time.Time
	Assets      []Asset
}

func describeRelease(r github.Release) ReleaseDescriptor {
	d := ReleaseDescriptor{
		Tag:         r.TagName,
		Body:        r.Body,
		HTMLURL:     r.HTMLURL,
		PublishedAt: r.PublishedAt,
		Assets:      make([]Asset, 0, len(r.Assets)),
	}
	for _, a := range r.Assets {
		d.Assets = append(d.Assets, Asset{Name: a.Name, URL: a.BrowserDownloadURL, Size: a.Size})
	}
	return d
}

// CheckResult is the outcome of a version check.
// Asset is only meaningful when HasAsset is true.
type CheckResult struct {
	Current   string
	Skipped   bool
	Available bool
	Release   ReleaseDescriptor
	Asset     Asset
	HasAsset  bool
}

// Checker compares the running version with the latest release.
type Checker struct {
	log   *clog.Logger
	owner string
	repo  string
	src   ReleaseSource
}

// NewChecker creates a Checker for owner/repo. A nil logger uses the default.
func NewChecker(src ReleaseSource, owner, repo string, logger *clog.Logger) *Checker {
	if logger == nil {
		logger = clog.Default().WithPrefix("update")
	}
	return &Checker{log: logger, owner: owner, repo: repo, src: src}
}

// Check returns Skipped for development builds without contacting the server.
func (c *Checker) Check(ctx context.Context, current string) (CheckResult, error) {
	result := CheckResult{Current: current}
	if IsDevBuild(current) {
		c.log.Debug("skipping update check for development build", "version", current)
		result.Skipped = true
		return result, nil
	}

	release, err := c.src.GetLatestRelease(ctx, c.owner, c.repo)
	if err != nil {
		return result, fmt.Errorf("failed to check for updates: %w", err)
	}

	result.Release = describeRelease(release)
	result.Available = IsNewer(result.Release.Tag, current)
	result.Asset, result.HasAsset = SelectAsset(result.Release.Assets)
	c.log.Debug("update check complete",
		"current", current,
		"latest", result.Release.Tag,
		"available", result.Available,
		"asset", result.Asset.Name)
	return result, nil
}
