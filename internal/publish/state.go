package publish

import (
	"fmt"
	"strings"
)

// Step names a pipeline stage.
type Step string

const (
	StepIdentify    Step = "identify"
	StepFork        Step = "fork"
	StepBaseRef     Step = "base_ref"
	StepBlobs       Step = "blobs"
	StepTree        Step = "tree"
	StepCommit      Step = "commit"
	StepBranch      Step = "branch"
	StepPullRequest Step = "pull_request"
)

// Steps lists every step in execution order.
var Steps = []Step{StepIdentify, StepFork, StepBaseRef, StepBlobs, StepTree, StepCommit, StepBranch, StepPullRequest}

func (s Step) String() string {
	return string(s)
}

// State accumulates the output of each completed step. Fields are written
// once, in step order, and are never rolled back.
type State struct {
	User          string
	ForkOwner     string
	ForkRepo      string
	BaseCommitSHA string
	BlobSHAs      []string
	TreeSHA       string
	CommitSHA     string
	BranchName    string
	PRURL         string
	Completed     []Step
}

func (s *State) complete(step Step) {
	s.Completed = append(s.Completed, step)
}

func (s *State) clone() State {
	c := *s
	c.BlobSHAs = append([]string(nil), s.BlobSHAs...)
	c.Completed = append([]Step(nil), s.Completed...)
	return c
}

// Reached reports whether step completed.
func (s State) Reached(step Step) bool {
	for _, c := range s.Completed {
		if c == step {
			return true
		}
	}
	return false
}

// Leftovers describes the remote objects a failed run left on the fork.
func (s State) Leftovers() []string {
	var out []string
	fork := s.ForkOwner + "/" + s.ForkRepo
	for _, step := range Steps {
		switch step {
		case StepFork:
			if s.Reached(StepFork) {
				out = append(out, "fork "+fork)
			}
		case StepBlobs:
			// blobs created before a failing one are left too
			if len(s.BlobSHAs) > 0 {
				out = append(out, fmt.Sprintf("%d blob(s) in %s", len(s.BlobSHAs), fork))
			}
		case StepTree:
			if s.TreeSHA != "" {
				out = append(out, "tree "+s.TreeSHA)
			}
		case StepCommit:
			if s.CommitSHA != "" {
				out = append(out, "commit "+s.CommitSHA)
			}
		case StepBranch:
			if s.BranchName != "" {
				out = append(out, "branch "+s.BranchName+" in "+fork)
			}
		}
	}
	return out
}

// StepError reports the step that failed and the state reached before it.
type StepError struct {
	Step  Step
	State State
	Err   error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("publish failed at step %s: %v", e.Step, e.Err)
	if left := e.State.Leftovers(); len(left) > 0 {
		msg += " (left on server: " + strings.Join(left, ", ") + ")"
	}
	return msg
}

func (e *StepError) Unwrap() error {
	return e.Err
}
