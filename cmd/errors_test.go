package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/drrakendu78/unicreate/internal/failure"
	"github.com/drrakendu78/unicreate/internal/publish"
	"github.com/stretchr/testify/assert"
)

func TestHintFor(t *testing.T) {
	kinds := []failure.Kind{
		failure.KindTransport,
		failure.KindHTTPStatus,
		failure.KindParse,
		failure.KindAuth,
		failure.KindDomain,
		failure.KindProcess,
	}
	for _, k := range kinds {
		t.Run(k.String(), func(t *testing.T) {
			assert.NotEmpty(t, hintFor(k))
		})
	}
	assert.Empty(t, hintFor(failure.KindUnknown))
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    []string
		notWant []string
	}{
		{
			name:    "plain error",
			err:     errors.New("boom"),
			want:    []string{"Error: boom\n"},
			notWant: []string{"Hint:", "Note:"},
		},
		{
			name: "auth failure",
			err:  errNotLoggedIn,
			want: []string{"Error: not logged in\n", "Hint: Run 'unicreate auth login'"},
		},
		{
			name: "branch step failure",
			err: &publish.StepError{
				Step: publish.StepBranch,
				Err:  &failure.Error{Kind: failure.KindHTTPStatus, StatusCode: 422, Err: errors.New("Reference already exists")},
			},
			want: []string{"publish failed at step branch", "Note: a branch from an earlier attempt", "Hint: GitHub rejected"},
		},
		{
			name: "other step failure",
			err: &publish.StepError{
				Step: publish.StepFork,
				Err:  &failure.Error{Kind: failure.KindTransport, Err: errors.New("connection reset")},
			},
			want:    []string{"publish failed at step fork", "Hint: Check your network"},
			notWant: []string{"Note:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printError(&buf, tt.err)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, buf.String(), w)
			}
		})
	}
}
