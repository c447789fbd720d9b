package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommitMessageAndTitle(t *testing.T) {
	assert.Equal(t, "New version: Publisher.Package version 1.2.3", CommitMessage("Publisher.Package", "1.2.3"))
	assert.Equal(t, CommitMessage("A.B", "1"), PRTitle("A.B", "1"))
}

func TestBranchName(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		version string
		want    string
	}{
		{name: "dots replaced", id: "Publisher.Package", version: "1.2.3", want: "Publisher-Package-1-2-3"},
		{name: "multi-dot id", id: "Microsoft.VisualStudio.Code", version: "1.90.0", want: "Microsoft-VisualStudio-Code-1-90-0"},
		{name: "no dots in version", id: "A.B", version: "20240601", want: "A-B-20240601"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BranchName(tt.id, tt.version))
			assert.Equal(t, "refs/heads/"+tt.want, BranchRef(tt.id, tt.version))
		})
	}
}

func TestPRBody(t *testing.T) {
	want := "## Package: Publisher.Package\n## Version: 1.2.3\n\nCreated with [UniCreate](https://github.com/drrakendu78/UniCreate)"
	assert.Equal(t, want, PRBody("Publisher.Package", "1.2.3"))
	assert.Contains(t, PRBody("A.B", "1"), BodyMarker)
}

func TestParseTitle(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		wantID      string
		wantVersion string
		wantOK      bool
	}{
		{
			name:        "generated title",
			title:       PRTitle("Publisher.Package", "1.2.3"),
			wantID:      "Publisher.Package",
			wantVersion: "1.2.3",
			wantOK:      true,
		},
		{
			name:        "extra whitespace",
			title:       "  New version:   A.B   version   2.0  ",
			wantID:      "A.B",
			wantVersion: "2.0",
			wantOK:      true,
		},
		{
			name:        "foreign title",
			title:       "Update A.B to 2.0",
			wantID:      "Update A.B to 2.0",
			wantVersion: "-",
			wantOK:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, version, ok := ParseTitle(tt.title)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantVersion, version)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
