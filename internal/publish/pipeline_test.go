package publish

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/drrakendu78/unicreate/internal/failure"
	"github.com/drrakendu78/unicreate/internal/github"
	"github.com/drrakendu78/unicreate/internal/github/githubtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls  []string
	tree   github.CreateTreeRequest
	commit github.CreateCommitRequest
	ref    string
	refSHA string
	pr     github.CreatePullRequestRequest
	blobs  []string
}

func successfulMock(rec *recorder) *githubtest.Mock {
	blobCount := 0
	return &githubtest.Mock{
		GetUserFn: func(ctx context.Context) (github.User, error) {
			rec.calls = append(rec.calls, "user")
			return github.User{Login: "octocat"}, nil
		},
		CreateForkFn: func(ctx context.Context, owner, repo string) (github.Repository, error) {
			rec.calls = append(rec.calls, "fork "+owner+"/"+repo)
			return github.Repository{Name: "winget-pkgs", Owner: github.User{Login: "octocat"}}, nil
		},
		GetBranchSHAFn: func(ctx context.Context, owner, repo, branch string) (string, error) {
			rec.calls = append(rec.calls, "ref "+owner+"/"+repo+"@"+branch)
			return "base-sha", nil
		},
		CreateBlobFn: func(ctx context.Context, owner, repo, content string) (string, error) {
			blobCount++
			rec.calls = append(rec.calls, "blob")
			rec.blobs = append(rec.blobs, content)
			return []string{"", "blob-1", "blob-2", "blob-3"}[blobCount], nil
		},
		CreateTreeFn: func(ctx context.Context, owner, repo string, req github.CreateTreeRequest) (string, error) {
			rec.calls = append(rec.calls, "tree")
			rec.tree = req
			return "tree-sha", nil
		},
		CreateCommitFn: func(ctx context.Context, owner, repo string, req github.CreateCommitRequest) (string, error) {
			rec.calls = append(rec.calls, "commit")
			rec.commit = req
			return "commit-sha", nil
		},
		CreateRefFn: func(ctx context.Context, owner, repo, ref, sha string) error {
			rec.calls = append(rec.calls, "branch "+owner+"/"+repo)
			rec.ref, rec.refSHA = ref, sha
			return nil
		},
		CreatePullRequestFn: func(ctx context.Context, owner, repo string, req github.CreatePullRequestRequest) (github.PullRequest, error) {
			rec.calls = append(rec.calls, "pr "+owner+"/"+repo)
			rec.pr = req
			return github.PullRequest{Number: 99, URL: "https://github.com/microsoft/winget-pkgs/pull/99"}, nil
		},
	}
}

func newTestPipeline(gh github.GitHub, waits *[]time.Duration) *Pipeline {
	return New(gh, Options{
		UpstreamOwner: "microsoft",
		UpstreamRepo:  "winget-pkgs",
		BaseBranch:    "master",
		SettleDelay:   3 * time.Second,
		Wait: func(_ context.Context, d time.Duration) error {
			if waits != nil {
				*waits = append(*waits, d)
			}
			return nil
		},
		Logger: clog.New(io.Discard),
	})
}

func twoFileRequest() Request {
	return Request{
		PackageID: "Publisher.Package",
		Version:   "1.2.3",
		Files: []File{
			{Name: "Publisher.Package.installer.yaml", Content: "installer"},
			{Name: "Publisher.Package.yaml", Content: "version"},
		},
	}
}

func TestPipeline_Run(t *testing.T) {
	rec := &recorder{}
	var waits []time.Duration
	p := newTestPipeline(successfulMock(rec), &waits)

	result, err := p.Run(context.Background(), twoFileRequest())
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/microsoft/winget-pkgs/pull/99", result.URL)
	assert.Equal(t, []string{
		"user",
		"fork microsoft/winget-pkgs",
		"ref octocat/winget-pkgs@master",
		"blob",
		"blob",
		"tree",
		"commit",
		"branch octocat/winget-pkgs",
		"pr microsoft/winget-pkgs",
	}, rec.calls)
	assert.Equal(t, []time.Duration{3 * time.Second}, waits)

	// Blobs in input order
	assert.Equal(t, []string{"installer", "version"}, rec.blobs)

	// Tree paths in input order
	assert.Equal(t, "base-sha", rec.tree.BaseTree)
	assert.Equal(t, []github.CreateTreeEntry{
		{Path: "manifests/p/Publisher/Package/1.2.3/Publisher.Package.installer.yaml", Mode: "100644", Type: "blob", SHA: "blob-1"},
		{Path: "manifests/p/Publisher/Package/1.2.3/Publisher.Package.yaml", Mode: "100644", Type: "blob", SHA: "blob-2"},
	}, rec.tree.Entries)

	assert.Equal(t, github.CreateCommitRequest{
		Message: "New version: Publisher.Package version 1.2.3",
		Tree:    "tree-sha",
		Parents: []string{"base-sha"},
	}, rec.commit)

	assert.Equal(t, "refs/heads/Publisher-Package-1-2-3", rec.ref)
	assert.Equal(t, "commit-sha", rec.refSHA)

	assert.Equal(t, "New version: Publisher.Package version 1.2.3", rec.pr.Title)
	assert.Equal(t, "octocat:Publisher-Package-1-2-3", rec.pr.Head)
	assert.Equal(t, "master", rec.pr.Base)
	assert.Contains(t, rec.pr.Body, "## Package: Publisher.Package")

	st := result.State
	assert.Equal(t, Steps, st.Completed)
	assert.Equal(t, "octocat", st.User)
	assert.Equal(t, "base-sha", st.BaseCommitSHA)
	assert.Equal(t, []string{"blob-1", "blob-2"}, st.BlobSHAs)
	assert.Equal(t, "tree-sha", st.TreeSHA)
	assert.Equal(t, "commit-sha", st.CommitSHA)
	assert.Equal(t, "Publisher-Package-1-2-3", st.BranchName)
	assert.Equal(t, result.URL, st.PRURL)
}

func TestPipeline_Run_ForkWithoutOwnerFallsBackToUser(t *testing.T) {
	rec := &recorder{}
	gh := successfulMock(rec)
	gh.CreateForkFn = func(ctx context.Context, owner, repo string) (github.Repository, error) {
		return github.Repository{}, nil
	}

	result, err := newTestPipeline(gh, nil).Run(context.Background(), twoFileRequest())
	require.NoError(t, err)
	assert.Equal(t, "octocat", result.State.ForkOwner)
	assert.Equal(t, "winget-pkgs", result.State.ForkRepo)
}

func TestPipeline_Run_StepFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name          string
		breakMock     func(*githubtest.Mock)
		wantStep      Step
		wantCompleted []Step
		wantLeftovers []string
		wantLastCall  string
	}{
		{
			name: "identify",
			breakMock: func(m *githubtest.Mock) {
				m.GetUserFn = func(ctx context.Context) (github.User, error) { return github.User{}, boom }
			},
			wantStep:     StepIdentify,
			wantLastCall: "",
		},
		{
			name: "base ref",
			breakMock: func(m *githubtest.Mock) {
				m.GetBranchSHAFn = func(ctx context.Context, owner, repo, branch string) (string, error) { return "", boom }
			},
			wantStep:      StepBaseRef,
			wantCompleted: []Step{StepIdentify, StepFork},
			wantLeftovers: []string{"fork octocat/winget-pkgs"},
			wantLastCall:  "fork microsoft/winget-pkgs",
		},
		{
			name: "tree",
			breakMock: func(m *githubtest.Mock) {
				m.CreateTreeFn = func(ctx context.Context, owner, repo string, req github.CreateTreeRequest) (string, error) {
					return "", boom
				}
			},
			wantStep:      StepTree,
			wantCompleted: []Step{StepIdentify, StepFork, StepBaseRef, StepBlobs},
			wantLeftovers: []string{"fork octocat/winget-pkgs", "2 blob(s) in octocat/winget-pkgs"},
			wantLastCall:  "blob",
		},
		{
			name: "branch already exists",
			breakMock: func(m *githubtest.Mock) {
				m.CreateRefFn = func(ctx context.Context, owner, repo, ref, sha string) error {
					return &failure.Error{Kind: failure.KindHTTPStatus, Op: "POST refs", StatusCode: http.StatusUnprocessableEntity, Err: boom}
				}
			},
			wantStep:      StepBranch,
			wantCompleted: []Step{StepIdentify, StepFork, StepBaseRef, StepBlobs, StepTree, StepCommit},
			wantLeftovers: []string{"fork octocat/winget-pkgs", "2 blob(s) in octocat/winget-pkgs", "tree tree-sha", "commit commit-sha"},
			wantLastCall:  "commit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			gh := successfulMock(rec)
			tt.breakMock(gh)

			_, err := newTestPipeline(gh, nil).Run(context.Background(), twoFileRequest())
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)

			var stepErr *StepError
			require.ErrorAs(t, err, &stepErr)
			assert.Equal(t, tt.wantStep, stepErr.Step)
			assert.Equal(t, tt.wantCompleted, stepErr.State.Completed)
			assert.Equal(t, tt.wantLeftovers, stepErr.State.Leftovers())
			assert.Contains(t, err.Error(), "publish failed at step "+string(tt.wantStep))

			// Nothing runs after the failing step
			if tt.wantLastCall == "" {
				assert.NotContains(t, rec.calls, "fork microsoft/winget-pkgs")
			} else {
				assert.Equal(t, tt.wantLastCall, rec.calls[len(rec.calls)-1])
			}
			assert.NotContains(t, rec.calls, "pr microsoft/winget-pkgs")
		})
	}
}

func TestPipeline_Run_InvalidTokenIsAuthFailure(t *testing.T) {
	rec := &recorder{}
	gh := successfulMock(rec)
	gh.GetUserFn = func(ctx context.Context) (github.User, error) {
		return github.User{}, &failure.Error{Kind: failure.KindHTTPStatus, Op: "GET /user", StatusCode: http.StatusForbidden, Err: errors.New("HTTP 403")}
	}

	_, err := newTestPipeline(gh, nil).Run(context.Background(), twoFileRequest())
	require.Error(t, err)
	assert.Equal(t, failure.KindAuth, failure.KindOf(err))
	assert.Empty(t, rec.calls)
}

func TestPipeline_Run_SettleCancelled(t *testing.T) {
	rec := &recorder{}
	p := New(successfulMock(rec), Options{
		UpstreamOwner: "microsoft",
		UpstreamRepo:  "winget-pkgs",
		BaseBranch:    "master",
		SettleDelay:   time.Hour,
		Logger:        clog.New(io.Discard),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, twoFileRequest())
	require.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, rec.calls, "blob")
}

func TestPipeline_Run_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{name: "bad identifier", req: Request{PackageID: "NoDot", Version: "1.0", Files: []File{{Name: "a.yaml"}}}},
		{name: "empty version", req: Request{PackageID: "A.B", Files: []File{{Name: "a.yaml"}}}},
		{name: "no files", req: Request{PackageID: "A.B", Version: "1.0"}},
		{name: "nested file name", req: Request{PackageID: "A.B", Version: "1.0", Files: []File{{Name: "x/a.yaml"}}}},
		{name: "duplicate file", req: Request{PackageID: "A.B", Version: "1.0", Files: []File{{Name: "a.yaml"}, {Name: "a.yaml"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			_, err := newTestPipeline(successfulMock(rec), nil).Run(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, failure.KindDomain, failure.KindOf(err))
			assert.Empty(t, rec.calls, "no request may be sent")
		})
	}
}
