package update

import "strings"

// Asset is a downloadable release file.
type Asset struct {
	Name string
	URL  string
	Size int64
}

var (
	installerMarkers = []string{"setup", "installer"}
	x64Markers       = []string{"x64", "x86_64", "amd64", "win64"}
	armMarkers       = []string{"arm64", "aarch64", "-arm", "_arm"}
	debugMarkers     = []string{"debug", "symbols", "pdb", "dbg"}
)

// ScoreAsset rates an installer name. ok is false for anything but an .exe.
func ScoreAsset(name string) (score int, ok bool) {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".exe") {
		return 0, false
	}

	if containsAny(lower, installerMarkers) {
		score += 40
	}
	if containsAny(lower, x64Markers) {
		score += 10
	}
	if strings.Contains(lower, "portable") {
		score -= 12
	}
	if containsAny(lower, armMarkers) {
		score -= 4
	}
	if containsAny(lower, debugMarkers) {
		score -= 50
	}
	return score, true
}

// SelectAsset picks the highest scoring .exe asset. The first maximum wins.
// ok is false when no asset is eligible.
func SelectAsset(assets []Asset) (Asset, bool) {
	var (
		best      Asset
		bestScore int
		found     bool
	)
	for _, a := range assets {
		score, ok := ScoreAsset(a.Name)
		if !ok {
			continue
		}
		if !found || score > bestScore {
			best, bestScore, found = a, score, true
		}
	}
	return best, found
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
