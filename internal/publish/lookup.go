package publish

import (
	"context"
	"fmt"
	"sort"

	"github.com/drrakendu78/unicreate/internal/github"
	"github.com/drrakendu78/unicreate/internal/naming"
)

// PackageInfo describes what the upstream repository already holds for a package.
type PackageInfo struct {
	ID       naming.Identifier
	Exists   bool
	Versions []string // version directory names, sorted
}

// Latest returns the last version in lexical order, or "".
func (pi PackageInfo) Latest() string {
	if len(pi.Versions) == 0 {
		return ""
	}
	return pi.Versions[len(pi.Versions)-1]
}

// HasVersion reports whether version is already published.
func (pi PackageInfo) HasVersion(version string) bool {
	for _, v := range pi.Versions {
		if v == version {
			return true
		}
	}
	return false
}

// LookupPackage lists the package directory upstream. A 404 means the package is new.
func LookupPackage(ctx context.Context, gh github.GitHub, owner, repo, packageID string) (PackageInfo, error) {
	id, err := naming.ParseIdentifier(packageID)
	if err != nil {
		return PackageInfo{}, err
	}

	entries, err := gh.ListContents(ctx, owner, repo, id.PackageDir())
	if github.IsNotFound(err) {
		return PackageInfo{ID: id}, nil
	}
	if err != nil {
		return PackageInfo{}, fmt.Errorf("failed to look up %s: %w", packageID, err)
	}

	info := PackageInfo{ID: id, Exists: true}
	for _, e := range entries {
		if e.Type == "dir" {
			info.Versions = append(info.Versions, e.Name)
		}
	}
	sort.Strings(info.Versions)
	return info, nil
}
