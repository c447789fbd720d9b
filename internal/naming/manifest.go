package naming

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/drrakendu78/unicreate/internal/failure"
)

// ManifestRoot is the top-level directory of the manifest repository.
const ManifestRoot = "manifests"

// Identifier is a package identifier split on its first dot,
// e.g. "Publisher.Package.Sub" -> {Publisher, "Package.Sub"}.
type Identifier struct {
	Publisher string
	Package   string
}

func (id Identifier) String() string {
	return id.Publisher + "." + id.Package
}

// ParseIdentifier splits and validates a package identifier.
// Malformed identifiers are domain failures.
func ParseIdentifier(raw string) (Identifier, error) {
	publisher, pkg, ok := strings.Cut(raw, ".")
	if !ok || publisher == "" || pkg == "" {
		return Identifier{}, failure.Newf(failure.KindDomain, "parse identifier",
			"invalid package identifier %q (expected Publisher.Package)", raw)
	}
	if !isValidSegment(publisher) || !isValidSegment(pkg) {
		return Identifier{}, failure.Newf(failure.KindDomain, "parse identifier",
			"invalid package identifier %q (contains a path separator, whitespace or control character)", raw)
	}
	return Identifier{Publisher: publisher, Package: pkg}, nil
}

// ValidateVersion rejects versions that cannot be used as a directory name.
func ValidateVersion(version string) error {
	if version == "" {
		return failure.New(failure.KindDomain, "validate version", errors.New("version cannot be empty"))
	}
	if !isValidSegment(version) || version == "." || version == ".." {
		return failure.Newf(failure.KindDomain, "validate version", "invalid version %q", version)
	}
	return nil
}

// ValidateFileName rejects manifest file names that are not a single path segment.
func ValidateFileName(name string) error {
	if !isValidSegment(name) || name == "." || name == ".." {
		return failure.Newf(failure.KindDomain, "validate file name", "invalid manifest file name %q", name)
	}
	return nil
}

// PackageDir returns manifests/<lowercased first letter of publisher>/<publisher>/<package>.
func (id Identifier) PackageDir() string {
	first := []rune(id.Publisher)[0]
	return path.Join(ManifestRoot, string(unicode.ToLower(first)), id.Publisher, id.Package)
}

// VersionDir returns the directory holding the manifests of one version.
func (id Identifier) VersionDir(version string) string {
	return path.Join(id.PackageDir(), version)
}

// ManifestPath returns the repository path of one manifest file.
func (id Identifier) ManifestPath(version, fileName string) string {
	return fmt.Sprintf("%s/%s", id.VersionDir(version), fileName)
}

// isValidSegment reports whether s can be used as a single path segment:
// no separators, no whitespace, no control characters.
func isValidSegment(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == '/' || r == '\\' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
