// Package publish turns a set of manifest files into a pull request against
// the upstream manifest repository.
//
// The pipeline is strictly sequential and has no compensation: when step k
// fails, the objects created by steps 1..k-1 stay on the fork and are reported
// through StepError.State. Re-running for the same package and version fails
// at the branch step because the ref already exists.
package publish

import (
	"context"
	"errors"
	"fmt"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/drrakendu78/unicreate/internal/clock"
	"github.com/drrakendu78/unicreate/internal/failure"
	"github.com/drrakendu78/unicreate/internal/github"
	"github.com/drrakendu78/unicreate/internal/naming"
)

const (
	fileMode = "100644"
	blobType = "blob"
)

// File is one manifest file. Content is published as UTF-8 text.
type File struct {
	Name    string
	Content string
}

// Request is immutable once built and owned by a single Run.
type Request struct {
	PackageID string
	Version   string
	Files     []File
}

// Options configures a Pipeline.
type Options struct {
	UpstreamOwner string
	UpstreamRepo  string
	BaseBranch    string
	// SettleDelay is waited after the fork request; fork creation is asynchronous.
	SettleDelay time.Duration
	// Wait defaults to a context-aware sleep.
	Wait   clock.SleepFunc
	Logger *clog.Logger
}

// Pipeline publishes manifests through a user's fork.
type Pipeline struct {
	baseBranch    string
	gh            github.GitHub
	log           *clog.Logger
	settleDelay   time.Duration
	upstreamOwner string
	upstreamRepo  string
	wait          clock.SleepFunc
}

// New creates a Pipeline. gh must carry the user's token.
func New(gh github.GitHub, opts Options) *Pipeline {
	p := &Pipeline{
		baseBranch:    opts.BaseBranch,
		gh:            gh,
		log:           opts.Logger,
		settleDelay:   opts.SettleDelay,
		upstreamOwner: opts.UpstreamOwner,
		upstreamRepo:  opts.UpstreamRepo,
		wait:          opts.Wait,
	}
	if p.log == nil {
		p.log = clog.Default().WithPrefix("publish")
	}
	if p.wait == nil {
		p.wait = clock.Sleep
	}
	return p
}

// Result is returned on success.
type Result struct {
	URL   string
	State State
}

// Run executes identify, fork, base ref, blobs, tree, commit, branch and pull request in order.
// Local validation failures are KindDomain errors returned before any request is sent.
// Any remote failure is a *StepError.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	id, err := validate(req)
	if err != nil {
		return Result{}, err
	}

	st := &State{}
	fail := func(step Step, err error) (Result, error) {
		p.log.Warn("publication aborted", "step", step, "completed", st.Completed, "error", err)
		return Result{}, &StepError{Step: step, State: st.clone(), Err: err}
	}

	// 1. Identify
	user, err := p.gh.GetUser(ctx)
	if err != nil {
		if failure.Is(err, failure.KindAuth) || github.IsCredentialRejected(err) {
			err = &failure.Error{Kind: failure.KindAuth, Op: "identify", StatusCode: failure.StatusCodeOf(err), Err: err}
		}
		return fail(StepIdentify, err)
	}
	st.User = user.Login
	st.complete(StepIdentify)
	p.log.Info("Authenticated", "user", user.Login)

	// 2. Fork, then let the server finish creating it
	fork, err := p.gh.CreateFork(ctx, p.upstreamOwner, p.upstreamRepo)
	if err != nil {
		return fail(StepFork, err)
	}
	st.ForkOwner, st.ForkRepo = user.Login, p.upstreamRepo
	if fork.Owner.Login != "" {
		st.ForkOwner = fork.Owner.Login
	}
	if fork.Name != "" {
		st.ForkRepo = fork.Name
	}
	st.complete(StepFork)
	p.log.Info("Fork ready", "fork", st.ForkOwner+"/"+st.ForkRepo, "settle", p.settleDelay)
	if err := p.wait(ctx, p.settleDelay); err != nil {
		return fail(StepFork, err)
	}

	// 3. Base ref
	baseSHA, err := p.gh.GetBranchSHA(ctx, st.ForkOwner, st.ForkRepo, p.baseBranch)
	if err != nil {
		return fail(StepBaseRef, err)
	}
	st.BaseCommitSHA = baseSHA
	st.complete(StepBaseRef)

	// 4. Blobs, in input order
	entries := make([]github.CreateTreeEntry, 0, len(req.Files))
	for _, f := range req.Files {
		sha, err := p.gh.CreateBlob(ctx, st.ForkOwner, st.ForkRepo, f.Content)
		if err != nil {
			return fail(StepBlobs, fmt.Errorf("blob for %s: %w", f.Name, err))
		}
		st.BlobSHAs = append(st.BlobSHAs, sha)
		entries = append(entries, github.CreateTreeEntry{
			Path: id.ManifestPath(req.Version, f.Name),
			Mode: fileMode,
			Type: blobType,
			SHA:  sha,
		})
	}
	st.complete(StepBlobs)
	p.log.Debug("Blobs created", "count", len(st.BlobSHAs))

	// 5. Tree
	treeSHA, err := p.gh.CreateTree(ctx, st.ForkOwner, st.ForkRepo, github.CreateTreeRequest{
		BaseTree: baseSHA,
		Entries:  entries,
	})
	if err != nil {
		return fail(StepTree, err)
	}
	st.TreeSHA = treeSHA
	st.complete(StepTree)

	// 6. Commit
	commitSHA, err := p.gh.CreateCommit(ctx, st.ForkOwner, st.ForkRepo, github.CreateCommitRequest{
		Message: naming.CommitMessage(req.PackageID, req.Version),
		Tree:    treeSHA,
		Parents: []string{baseSHA},
	})
	if err != nil {
		return fail(StepCommit, err)
	}
	st.CommitSHA = commitSHA
	st.complete(StepCommit)

	// 7. Branch
	branch := naming.BranchName(req.PackageID, req.Version)
	if err := p.gh.CreateRef(ctx, st.ForkOwner, st.ForkRepo, naming.BranchRef(req.PackageID, req.Version), commitSHA); err != nil {
		return fail(StepBranch, err)
	}
	st.BranchName = branch
	st.complete(StepBranch)
	p.log.Info("Branch created", "branch", branch, "commit", commitSHA)

	// 8. Pull request
	pr, err := p.gh.CreatePullRequest(ctx, p.upstreamOwner, p.upstreamRepo, github.CreatePullRequestRequest{
		Title: naming.PRTitle(req.PackageID, req.Version),
		Head:  st.ForkOwner + ":" + branch,
		Base:  p.baseBranch,
		Body:  naming.PRBody(req.PackageID, req.Version),
	})
	if err != nil {
		return fail(StepPullRequest, err)
	}
	st.PRURL = pr.URL
	st.complete(StepPullRequest)
	p.log.Info("Pull request opened", "url", pr.URL)

	return Result{URL: pr.URL, State: st.clone()}, nil
}

func validate(req Request) (naming.Identifier, error) {
	id, err := naming.ParseIdentifier(req.PackageID)
	if err != nil {
		return naming.Identifier{}, err
	}
	if err := naming.ValidateVersion(req.Version); err != nil {
		return naming.Identifier{}, err
	}
	if len(req.Files) == 0 {
		return naming.Identifier{}, failure.New(failure.KindDomain, "validate request", errors.New("no manifest files to publish"))
	}
	seen := make(map[string]bool, len(req.Files))
	for _, f := range req.Files {
		if err := naming.ValidateFileName(f.Name); err != nil {
			return naming.Identifier{}, err
		}
		if seen[f.Name] {
			return naming.Identifier{}, failure.Newf(failure.KindDomain, "validate request", "duplicate manifest file %q", f.Name)
		}
		seen[f.Name] = true
	}
	return id, nil
}
