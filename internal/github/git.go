package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/drrakendu78/unicreate/internal/failure"
)

var errMissingSHA = errors.New("response has no sha")

func repoPath(owner, repo string) string {
	return "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo)
}

// requireSHA rejects a 2xx response that carried no object SHA.
func requireSHA(op, sha string) (string, error) {
	if sha == "" {
		return "", failure.New(failure.KindParse, op, errMissingSHA)
	}
	return sha, nil
}

// escapePath escapes each segment of a slash-separated path.
func escapePath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func (c *Client) GetUser(ctx context.Context) (User, error) {
	var user User
	if err := c.get(ctx, "/user", &user); err != nil {
		return User{}, fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return user, nil
}

func (c *Client) CreateFork(ctx context.Context, owner, repo string) (Repository, error) {
	var fork Repository
	if err := c.post(ctx, repoPath(owner, repo)+"/forks", struct{}{}, &fork); err != nil {
		return Repository{}, fmt.Errorf("failed to fork %s/%s: %w", owner, repo, err)
	}
	return fork, nil
}

func (c *Client) GetBranchSHA(ctx context.Context, owner, repo, branch string) (string, error) {
	var ref struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	if err := c.get(ctx, repoPath(owner, repo)+"/git/ref/heads/"+escapePath(branch), &ref); err != nil {
		return "", fmt.Errorf("failed to get ref heads/%s of %s/%s: %w", branch, owner, repo, err)
	}
	return requireSHA("get ref heads/"+branch, ref.Object.SHA)
}

func (c *Client) CreateBlob(ctx context.Context, owner, repo, content string) (string, error) {
	req := struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}{Content: content, Encoding: "utf-8"}

	var blob struct {
		SHA string `json:"sha"`
	}
	if err := c.post(ctx, repoPath(owner, repo)+"/git/blobs", req, &blob); err != nil {
		return "", fmt.Errorf("failed to create blob: %w", err)
	}
	return requireSHA("create blob", blob.SHA)
}

func (c *Client) CreateTree(ctx context.Context, owner, repo string, req CreateTreeRequest) (string, error) {
	var tree struct {
		SHA string `json:"sha"`
	}
	if err := c.post(ctx, repoPath(owner, repo)+"/git/trees", req, &tree); err != nil {
		return "", fmt.Errorf("failed to create tree: %w", err)
	}
	return requireSHA("create tree", tree.SHA)
}

func (c *Client) CreateCommit(ctx context.Context, owner, repo string, req CreateCommitRequest) (string, error) {
	var commit struct {
		SHA string `json:"sha"`
	}
	if err := c.post(ctx, repoPath(owner, repo)+"/git/commits", req, &commit); err != nil {
		return "", fmt.Errorf("failed to create commit: %w", err)
	}
	return requireSHA("create commit", commit.SHA)
}

func (c *Client) CreateRef(ctx context.Context, owner, repo, ref, sha string) error {
	req := struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	}{Ref: ref, SHA: sha}

	if err := c.post(ctx, repoPath(owner, repo)+"/git/refs", req, nil); err != nil {
		return fmt.Errorf("failed to create ref %s: %w", ref, err)
	}
	return nil
}
