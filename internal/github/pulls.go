package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

func (c *Client) CreatePullRequest(ctx context.Context, owner, repo string, req CreatePullRequestRequest) (PullRequest, error) {
	var pr PullRequest
	if err := c.post(ctx, repoPath(owner, repo)+"/pulls", req, &pr); err != nil {
		return PullRequest{}, fmt.Errorf("failed to create pull request: %w", err)
	}
	return pr, nil
}

func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (PullRequest, error) {
	var pr PullRequest
	if err := c.get(ctx, repoPath(owner, repo)+"/pulls/"+strconv.Itoa(number), &pr); err != nil {
		return PullRequest{}, fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}
	return pr, nil
}

func (c *Client) SearchPullRequests(ctx context.Context, query PRQuery, limit int) ([]Issue, error) {
	params := url.Values{}
	params.Set("q", query.ToSearchQuery())
	params.Set("sort", "created")
	params.Set("order", "desc")
	if limit > 0 {
		params.Set("per_page", strconv.Itoa(limit))
	}

	var result struct {
		TotalCount int     `json:"total_count"`
		Items      []Issue `json:"items"`
	}
	if err := c.get(ctx, "/search/issues?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("failed to search pull requests: %w", err)
	}

	prs := make([]Issue, 0, len(result.Items))
	for _, item := range result.Items {
		if item.PullRequest != nil {
			prs = append(prs, item)
		}
	}
	return prs, nil
}
