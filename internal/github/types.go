package github

import "time"

// User is an account as returned by GET /user.
type User struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// Repository is the subset of a repository payload we consume.
type Repository struct {
	FullName      string `json:"full_name"`
	Name          string `json:"name"`
	DefaultBranch string `json:"default_branch"`
	HTMLURL       string `json:"html_url"`
	Owner         User   `json:"owner"`
}

// CreateTreeEntry is one file in a CreateTreeRequest.
type CreateTreeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

// CreateTreeRequest creates a tree on top of BaseTree.
type CreateTreeRequest struct {
	BaseTree string            `json:"base_tree,omitempty"`
	Entries  []CreateTreeEntry `json:"tree"`
}

// CreateCommitRequest creates a commit object.
type CreateCommitRequest struct {
	Message string   `json:"message"`
	Tree    string   `json:"tree"`
	Parents []string `json:"parents"`
}

// CreatePullRequestRequest opens a pull request. Head is "<user>:<branch>" for cross-repo PRs.
type CreatePullRequestRequest struct {
	Title string `json:"title"`
	Head  string `json:"head"`
	Base  string `json:"base"`
	Body  string `json:"body"`
}

// Issue is a search result item. Pull requests are issues with PullRequest set.
type Issue struct {
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	HTMLURL     string    `json:"html_url"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	User        User      `json:"user"`
	PullRequest *struct {
		HTMLURL  string     `json:"html_url"`
		MergedAt *time.Time `json:"merged_at"`
	} `json:"pull_request"`
}

// ContentEntry is one item of a directory listing.
type ContentEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "file", "dir", "symlink", "submodule"
}

// ReleaseAsset is a downloadable file attached to a release.
type ReleaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	ContentType        string `json:"content_type"`
	Size               int64  `json:"size"`
}

// Release is a published release.
type Release struct {
	TagName     string         `json:"tag_name"`
	Name        string         `json:"name"`
	Body        string         `json:"body"`
	HTMLURL     string         `json:"html_url"`
	PublishedAt time.Time      `json:"published_at"`
	Draft       bool           `json:"draft"`
	Prerelease  bool           `json:"prerelease"`
	Assets      []ReleaseAsset `json:"assets"`
}
