package pr

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/drrakendu78/unicreate/internal/failure"
	"github.com/drrakendu78/unicreate/internal/github"
)

// InvalidURLState is reported as the mergeable state of an unparseable URL.
const InvalidURLState = "invalid-url"

// Status is the reconciled lifecycle state of a pull request.
type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusMerged  Status = "merged"
	StatusUnknown Status = "unknown"
)

func (s Status) String() string {
	return string(s)
}

// Record is recomputed on every reconciliation and never cached.
type Record struct {
	URL            string `json:"pr_url"`
	Status         Status `json:"status"`
	HasIssues      bool   `json:"has_issues"`
	MergeableState string `json:"mergeable_state,omitempty"` // empty when absent
}

// Ref identifies a pull request.
type Ref struct {
	Owner  string
	Repo   string
	Number int
}

// ParseURL extracts owner, repo and number from https://<host>/<owner>/<repo>/pull/<number>[/...].
func ParseURL(raw string) (Ref, error) {
	const op = "parse pull request url"

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Ref{}, failure.New(failure.KindDomain, op, err)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 4 || segments[2] != "pull" || segments[0] == "" || segments[1] == "" {
		return Ref{}, failure.Newf(failure.KindDomain, op, "%q is not a pull request URL", raw)
	}
	number, err := strconv.Atoi(segments[3])
	if err != nil || number <= 0 {
		return Ref{}, failure.Newf(failure.KindDomain, op, "%q has no valid pull request number", raw)
	}
	return Ref{Owner: segments[0], Repo: segments[1], Number: number}, nil
}

// Classify maps a pull request to its status: merged when a merge time is present,
// otherwise the API state, otherwise unknown.
func Classify(pr github.PullRequest) Status {
	if pr.MergedAt != nil {
		return StatusMerged
	}
	if !pr.State.IsValid() {
		return StatusUnknown
	}
	// open and closed share their spelling with the API
	return Status(pr.State)
}

var problemStates = map[string]bool{
	"dirty":    true,
	"blocked":  true,
	"behind":   true,
	"unstable": true,
	"draft":    true,
}

// HasIssues evaluates, in order: merged is healthy, closed is not, a draft is not,
// then a problematic mergeable state is not.
func HasIssues(status Status, draft bool, mergeableState string) bool {
	switch {
	case status == StatusMerged:
		return false
	case status == StatusClosed:
		return true
	case draft:
		return true
	}
	return problemStates[mergeableState]
}

// Result is the outcome of one batch.
type Result struct {
	Records []Record
	// CredentialRejected is set when the supplied token got a 401. A 403 also
	// triggers the anonymous retry but may be a rate limit, so it never marks
	// the token as rejected.
	CredentialRejected bool
}

// Reconciler reports live status for previously created pull requests.
type Reconciler struct {
	gh  github.GitHub
	log *clog.Logger
}

// NewReconciler creates a Reconciler. A nil logger uses the default "prstatus" logger.
func NewReconciler(gh github.GitHub, logger *clog.Logger) *Reconciler {
	if logger == nil {
		logger = clog.Default().WithPrefix("prstatus")
	}
	return &Reconciler{gh: gh, log: logger}
}

// Reconcile processes urls sequentially. No item can fail the batch: an
// unparseable URL yields {unknown, has_issues, invalid-url}; a failed fetch
// yields the unresolved record {unknown, no issues, no mergeable state}.
func (r *Reconciler) Reconcile(ctx context.Context, token string, urls []string) Result {
	var result Result
	for _, raw := range urls {
		rec, rejected := r.reconcileOne(ctx, token, raw)
		result.Records = append(result.Records, rec)
		result.CredentialRejected = result.CredentialRejected || rejected
	}
	return result
}

func (r *Reconciler) reconcileOne(ctx context.Context, token, raw string) (Record, bool) {
	ref, err := ParseURL(raw)
	if err != nil {
		r.log.Warn("skipping unparseable pull request url", "url", raw, "error", err)
		return Record{URL: raw, Status: StatusUnknown, HasIssues: true, MergeableState: InvalidURLState}, false
	}

	unresolved := Record{URL: raw, Status: StatusUnknown}
	rejected := false

	for _, attempt := range credentialAttempts(token) {
		pr, err := r.gh.WithToken(attempt).GetPullRequest(ctx, ref.Owner, ref.Repo, ref.Number)
		if err == nil {
			status := Classify(pr)
			return Record{
				URL:            raw,
				Status:         status,
				HasIssues:      HasIssues(status, pr.Draft, pr.MergeableState),
				MergeableState: pr.MergeableState,
			}, rejected
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return unresolved, rejected
		}
		if !github.IsCredentialRejected(err) {
			r.log.Warn("could not fetch pull request", "url", raw, "error", err)
			return unresolved, rejected
		}
		if attempt != "" {
			rejected = rejected || failure.StatusCodeOf(err) == http.StatusUnauthorized
			r.log.Debug("Token refused, retrying anonymously", "url", raw, "status", failure.StatusCodeOf(err))
		} else {
			r.log.Warn("anonymous request rejected", "url", raw, "error", err)
		}
	}
	return unresolved, rejected
}

// credentialAttempts returns the ordered tokens to try: the supplied token, then anonymous.
func credentialAttempts(token string) []string {
	if token == "" {
		return []string{""}
	}
	return []string{token, ""}
}
