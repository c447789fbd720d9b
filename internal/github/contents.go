package github

import (
	"context"
	"fmt"
)

func (c *Client) ListContents(ctx context.Context, owner, repo, path string) ([]ContentEntry, error) {
	var entries []ContentEntry
	if err := c.get(ctx, repoPath(owner, repo)+"/contents/"+escapePath(path), &entries); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}
	return entries, nil
}
