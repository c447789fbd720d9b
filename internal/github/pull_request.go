package github

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PRState mirrors the API's "state" field of a pull request.
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
)

func (s PRState) String() string {
	return string(s)
}

func (s PRState) IsValid() bool {
	switch s {
	case PRStateOpen, PRStateClosed:
		return true
	}
	return false
}

// PRQuery specifies filters for searching pull requests.
type PRQuery struct {
	Repo     string // "owner/repo"
	Author   string // login; empty = any author
	BodyText string // phrase that must appear in the body
}

// ToSearchQuery converts the query to a GitHub issue search string.
func (q PRQuery) ToSearchQuery() string {
	parts := []string{}
	if q.Repo != "" {
		parts = append(parts, "repo:"+q.Repo)
	}
	parts = append(parts, "is:pr")
	if q.Author != "" {
		parts = append(parts, "author:"+q.Author)
	}
	if q.BodyText != "" {
		parts = append(parts, fmt.Sprintf("%q in:body", q.BodyText))
	}
	return strings.Join(parts, " ")
}

// PullRequest is a single pull request as returned by GET pulls/{number}.
type PullRequest struct {
	Number         int
	URL            string
	Title          string
	State          PRState // raw API state; may be empty or unrecognized
	Draft          bool
	MergedAt       *time.Time
	MergeableState string // empty when the API has not computed it
	AuthorLogin    string
	HeadRef        string
	CreatedAt      time.Time
}

func (pr *PullRequest) UnmarshalJSON(data []byte) error {
	type rawPR struct {
		Number         int        `json:"number"`
		HTMLURL        string     `json:"html_url"`
		Title          string     `json:"title"`
		State          string     `json:"state"`
		Draft          bool       `json:"draft"`
		MergedAt       *time.Time `json:"merged_at"`
		MergeableState *string    `json:"mergeable_state"`
		CreatedAt      time.Time  `json:"created_at"`
		User           struct {
			Login string `json:"login"`
		} `json:"user"`
		Head struct {
			Ref string `json:"ref"`
		} `json:"head"`
	}
	var raw rawPR
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	pr.Number = raw.Number
	pr.URL = raw.HTMLURL
	pr.Title = raw.Title
	pr.State = PRState(raw.State)
	pr.Draft = raw.Draft
	pr.MergedAt = raw.MergedAt
	pr.CreatedAt = raw.CreatedAt
	pr.AuthorLogin = raw.User.Login
	pr.HeadRef = raw.Head.Ref
	pr.MergeableState = ""
	if raw.MergeableState != nil {
		pr.MergeableState = *raw.MergeableState
	}

	return nil
}
