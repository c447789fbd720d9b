package github

import "context"

// GitHub is the subset of the REST API used to publish manifests, reconcile
// pull requests and check for releases.
type GitHub interface {
	// WithToken returns a client sharing this one's transport that
	// authenticates with token. An empty token yields an anonymous client.
	WithToken(token string) GitHub

	// GetUser returns the authenticated user.
	GetUser(ctx context.Context) (User, error)

	// CreateFork forks owner/repo into the authenticated user's account.
	CreateFork(ctx context.Context, owner, repo string) (Repository, error)

	// GetBranchSHA returns the SHA at the tip of a branch.
	GetBranchSHA(ctx context.Context, owner, repo, branch string) (string, error)

	// CreateBlob stores UTF-8 content and returns the blob SHA.
	CreateBlob(ctx context.Context, owner, repo, content string) (string, error)

	// CreateTree creates a tree and returns its SHA.
	CreateTree(ctx context.Context, owner, repo string, req CreateTreeRequest) (string, error)

	// CreateCommit creates a commit and returns its SHA.
	CreateCommit(ctx context.Context, owner, repo string, req CreateCommitRequest) (string, error)

	// CreateRef creates a fully-qualified ref (refs/heads/...) pointing at sha.
	CreateRef(ctx context.Context, owner, repo, ref, sha string) error

	// CreatePullRequest opens a pull request against owner/repo.
	CreatePullRequest(ctx context.Context, owner, repo string, req CreatePullRequestRequest) (PullRequest, error)

	// GetPullRequest returns a single pull request by number.
	GetPullRequest(ctx context.Context, owner, repo string, number int) (PullRequest, error)

	// SearchPullRequests returns pull requests matching the query, newest first.
	SearchPullRequests(ctx context.Context, query PRQuery, limit int) ([]Issue, error)

	// ListContents lists a directory of owner/repo on the default branch.
	ListContents(ctx context.Context, owner, repo, path string) ([]ContentEntry, error)

	// GetLatestRelease returns the latest published release.
	GetLatestRelease(ctx context.Context, owner, repo string) (Release, error)
}
