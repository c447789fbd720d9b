// Package shell renders the PowerShell script used for the silent update.
package shell

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed scripts/silent-update.ps1
var silentUpdateScript string

var silentUpdateTemplate = template.Must(template.New("silent-update").
	Funcs(template.FuncMap{"quote": Quote}).
	Parse(silentUpdateScript))

// SilentUpdate holds the script inputs. Installer is the full download path.
type SilentUpdate struct {
	PID            uint32
	PollMillis     int64
	URL            string
	UserAgent      string
	Installer      string
	MSI            bool
	RelaunchMillis int64
	App            string
}

// ScriptGenerator generates shell scripts.
type ScriptGenerator struct{}

// NewScriptGenerator creates a new ScriptGenerator.
func NewScriptGenerator() *ScriptGenerator {
	return &ScriptGenerator{}
}

// GenerateSilentUpdate returns a script that waits for PID to exit, downloads
// URL to Installer, runs it silently and starts App again.
func (g *ScriptGenerator) GenerateSilentUpdate(p SilentUpdate) (string, error) {
	var b strings.Builder
	if err := silentUpdateTemplate.Execute(&b, p); err != nil {
		return "", fmt.Errorf("failed to render silent update script: %w", err)
	}
	return b.String(), nil
}

// Quote returns s as a single-quoted PowerShell literal. PowerShell ends a
// single-quoted string on the typographic quotes as well as on ', so every
// one of them is doubled.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		if isSingleQuote(r) {
			b.WriteRune(r)
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}

func isSingleQuote(r rune) bool {
	switch r {
	case '\'', '\u2018', '\u2019', '\u201a', '\u201b':
		return true
	}
	return false
}
