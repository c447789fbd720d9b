// Package githubtest provides a func-field test double for github.GitHub.
package githubtest

import (
	"context"
	"errors"

	"github.com/drrakendu78/unicreate/internal/github"
)

// ErrNotImplemented is returned by any method whose func field is nil.
var ErrNotImplemented = errors.New("githubtest: not implemented")

// Mock implements github.GitHub. Unset funcs return ErrNotImplemented.
// Tokens records the token of every WithToken call, in order.
type Mock struct {
	Token  string
	Tokens []string

	GetUserFn            func(ctx context.Context) (github.User, error)
	CreateForkFn         func(ctx context.Context, owner, repo string) (github.Repository, error)
	GetBranchSHAFn       func(ctx context.Context, owner, repo, branch string) (string, error)
	CreateBlobFn         func(ctx context.Context, owner, repo, content string) (string, error)
	CreateTreeFn         func(ctx context.Context, owner, repo string, req github.CreateTreeRequest) (string, error)
	CreateCommitFn       func(ctx context.Context, owner, repo string, req github.CreateCommitRequest) (string, error)
	CreateRefFn          func(ctx context.Context, owner, repo, ref, sha string) error
	CreatePullRequestFn  func(ctx context.Context, owner, repo string, req github.CreatePullRequestRequest) (github.PullRequest, error)
	GetPullRequestFn     func(ctx context.Context, token, owner, repo string, number int) (github.PullRequest, error)
	SearchPullRequestsFn func(ctx context.Context, query github.PRQuery, limit int) ([]github.Issue, error)
	ListContentsFn       func(ctx context.Context, owner, repo, path string) ([]github.ContentEntry, error)
	GetLatestReleaseFn   func(ctx context.Context, owner, repo string) (github.Release, error)

	parent *Mock
}

var _ github.GitHub = &Mock{}

// WithToken returns a view of m carrying token; calls are still served by m's funcs.
func (m *Mock) WithToken(token string) github.GitHub {
	root := m.root()
	root.Tokens = append(root.Tokens, token)
	return &Mock{Token: token, parent: root}
}

func (m *Mock) root() *Mock {
	if m.parent != nil {
		return m.parent
	}
	return m
}

func (m *Mock) GetUser(ctx context.Context) (github.User, error) {
	if fn := m.root().GetUserFn; fn != nil {
		return fn(ctx)
	}
	return github.User{}, ErrNotImplemented
}

func (m *Mock) CreateFork(ctx context.Context, owner, repo string) (github.Repository, error) {
	if fn := m.root().CreateForkFn; fn != nil {
		return fn(ctx, owner, repo)
	}
	return github.Repository{}, ErrNotImplemented
}

func (m *Mock) GetBranchSHA(ctx context.Context, owner, repo, branch string) (string, error) {
	if fn := m.root().GetBranchSHAFn; fn != nil {
		return fn(ctx, owner, repo, branch)
	}
	return "", ErrNotImplemented
}

func (m *Mock) CreateBlob(ctx context.Context, owner, repo, content string) (string, error) {
	if fn := m.root().CreateBlobFn; fn != nil {
		return fn(ctx, owner, repo, content)
	}
	return "", ErrNotImplemented
}

func (m *Mock) CreateTree(ctx context.Context, owner, repo string, req github.CreateTreeRequest) (string, error) {
	if fn := m.root().CreateTreeFn; fn != nil {
		return fn(ctx, owner, repo, req)
	}
	return "", ErrNotImplemented
}

func (m *Mock) CreateCommit(ctx context.Context, owner, repo string, req github.CreateCommitRequest) (string, error) {
	if fn := m.root().CreateCommitFn; fn != nil {
		return fn(ctx, owner, repo, req)
	}
	return "", ErrNotImplemented
}

func (m *Mock) CreateRef(ctx context.Context, owner, repo, ref, sha string) error {
	if fn := m.root().CreateRefFn; fn != nil {
		return fn(ctx, owner, repo, ref, sha)
	}
	return ErrNotImplemented
}

func (m *Mock) CreatePullRequest(ctx context.Context, owner, repo string, req github.CreatePullRequestRequest) (github.PullRequest, error) {
	if fn := m.root().CreatePullRequestFn; fn != nil {
		return fn(ctx, owner, repo, req)
	}
	return github.PullRequest{}, ErrNotImplemented
}

// GetPullRequest passes the receiver's token so tests can tell attempts apart.
func (m *Mock) GetPullRequest(ctx context.Context, owner, repo string, number int) (github.PullRequest, error) {
	if fn := m.root().GetPullRequestFn; fn != nil {
		return fn(ctx, m.Token, owner, repo, number)
	}
	return github.PullRequest{}, ErrNotImplemented
}

func (m *Mock) SearchPullRequests(ctx context.Context, query github.PRQuery, limit int) ([]github.Issue, error) {
	if fn := m.root().SearchPullRequestsFn; fn != nil {
		return fn(ctx, query, limit)
	}
	return nil, ErrNotImplemented
}

func (m *Mock) ListContents(ctx context.Context, owner, repo, path string) ([]github.ContentEntry, error) {
	if fn := m.root().ListContentsFn; fn != nil {
		return fn(ctx, owner, repo, path)
	}
	return nil, ErrNotImplemented
}

func (m *Mock) GetLatestRelease(ctx context.Context, owner, repo string) (github.Release, error) {
	if fn := m.root().GetLatestReleaseFn; fn != nil {
		return fn(ctx, owner, repo)
	}
	return github.Release{}, ErrNotImplemented
}
