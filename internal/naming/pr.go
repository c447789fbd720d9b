package naming

import (
	"bytes"
	"regexp"
	"strings"
	"text/template"
)

// ToolURL is credited in every pull request body.
const ToolURL = "https://github.com/drrakendu78/UniCreate"

// BodyMarker is the phrase used to find pull requests created by this tool.
const BodyMarker = "Created with"

var prBodyTemplate = template.Must(template.New("body").Parse(
	"## Package: {{.ID}}\n## Version: {{.Version}}\n\n" + BodyMarker + " [UniCreate]({{.ToolURL}})"))

// PRBodyData contains data available to the pull request body template.
type PRBodyData struct {
	ID      string
	Version string
	ToolURL string
}

// CommitMessage is also used as the pull request title.
func CommitMessage(id, version string) string {
	return "New version: " + id + " version " + version
}

// PRTitle returns the pull request title.
func PRTitle(id, version string) string {
	return CommitMessage(id, version)
}

// BranchName returns "<id>-<version>" with every dot replaced by a hyphen.
func BranchName(id, version string) string {
	return strings.ReplaceAll(id+"-"+version, ".", "-")
}

// BranchRef returns the fully qualified ref for BranchName.
func BranchRef(id, version string) string {
	return "refs/heads/" + BranchName(id, version)
}

// PRBody renders the pull request body crediting the tool.
func PRBody(id, version string) string {
	var buf bytes.Buffer
	// static template over string fields; Execute cannot fail
	_ = prBodyTemplate.Execute(&buf, PRBodyData{ID: id, Version: version, ToolURL: ToolURL})
	return buf.String()
}

var titleRegex = regexp.MustCompile(`^New version:\s+(.+?)\s+version\s+(.+)$`)

// ParseTitle recovers the package identifier and version from a pull request title.
// Titles not produced by PRTitle return the whole title as id and "-" as version.
func ParseTitle(title string) (id, version string, ok bool) {
	m := titleRegex.FindStringSubmatch(strings.TrimSpace(title))
	if m == nil {
		return title, "-", false
	}
	return m[1], m[2], true
}
