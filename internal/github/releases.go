package github

import (
	"context"
	"fmt"
)

func (c *Client) GetLatestRelease(ctx context.Context, owner, repo string) (Release, error) {
	var release Release
	if err := c.get(ctx, repoPath(owner, repo)+"/releases/latest", &release); err != nil {
		return Release{}, fmt.Errorf("failed to get latest release of %s/%s: %w", owner, repo, err)
	}
	return release, nil
}
