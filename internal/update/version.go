package update

import (
	"strconv"
	"strings"
)

// IsNewer reports whether latest is strictly newer than current.
// Both are normalized: a leading v/V is dropped, then everything after the
// first '-' and then the first '+'. Components compare numerically, missing
// trailing components count as 0.
func IsNewer(latest, current string) bool {
	l := versionParts(latest)
	c := versionParts(current)

	n := max(len(l), len(c))
	for i := 0; i < n; i++ {
		a, b := partAt(l, i), partAt(c, i)
		if a > b {
			return true
		}
		if a < b {
			return false
		}
	}
	return false
}

func versionParts(v string) []uint64 {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(strings.TrimPrefix(v, "v"), "V")
	v, _, _ = strings.Cut(v, "-")
	v, _, _ = strings.Cut(v, "+")

	fields := strings.Split(v, ".")
	parts := make([]uint64, len(fields))
	for i, f := range fields {
		parts[i] = numericPrefix(f)
	}
	return parts
}

// numericPrefix parses the leading digits of s. "3rc1" is 3, "beta" is 0.
func numericPrefix(s string) uint64 {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.ParseUint(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func partAt(parts []uint64, i int) uint64 {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

// IsDevBuild reports whether version names a local build that never updates.
func IsDevBuild(version string) bool {
	switch strings.ToLower(strings.TrimSpace(version)) {
	case "", "dev", "development", "n/a":
		return true
	}
	return false
}
