package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/drrakendu78/unicreate/internal/failure"
	"github.com/drrakendu78/unicreate/internal/publish"
)

// hintFor returns a remediation hint for an error kind.
func hintFor(kind failure.Kind) string {
	switch kind {
	case failure.KindTransport:
		return "Check your network connection and try again."
	case failure.KindHTTPStatus:
		return "GitHub rejected the request. Check the repository and try again later."
	case failure.KindParse:
		return "GitHub returned an unexpected response. Try again later."
	case failure.KindAuth:
		return "Run 'unicreate auth login' to sign in again."
	case failure.KindDomain:
		return "Check the command arguments."
	case failure.KindProcess:
		return "The installer or a child process failed. Re-run with --verbose for details."
	case failure.KindUnknown:
		return ""
	}
	return ""
}

func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)

	var stepErr *publish.StepError
	if errors.As(err, &stepErr) && stepErr.Step == publish.StepBranch {
		_, _ = fmt.Fprintln(w, "Note: a branch from an earlier attempt may already exist on your fork. Delete it before publishing this version again.")
	}

	if hint := hintFor(failure.KindOf(err)); hint != "" {
		_, _ = fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}
