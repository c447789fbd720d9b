package update

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/drrakendu78/unicreate/internal/failure"
)

// DefaultFileName is used when neither --name nor the URL yields a name.
const DefaultFileName = "update.exe"

// Args are the sidecar's inputs. They are parsed once from flags and passed
// explicitly to the Runner.
type Args struct {
	URL  string
	Name string
	App  string
	PID  uint32
}

// Validate checks the required fields.
func (a Args) Validate() error {
	if err := requireHTTPS(a.URL); err != nil {
		return err
	}
	if strings.TrimSpace(a.App) == "" {
		return failure.Newf(failure.KindDomain, "update args", "--app is required")
	}
	if a.PID == 0 {
		return failure.Newf(failure.KindDomain, "update args", "--pid is required")
	}
	return nil
}

// FileName resolves the download file name: Name, else the last URL path
// segment, else DefaultFileName. The result never contains a directory.
func (a Args) FileName() string {
	if name := baseName(a.Name); name != "" {
		return name
	}
	if u, err := url.Parse(a.URL); err == nil {
		if name := baseName(u.Path); name != "" {
			return name
		}
	}
	return DefaultFileName
}

// Flags renders a as sidecar command-line flags.
func (a Args) Flags() []string {
	flags := []string{"--url", a.URL, "--app", a.App, "--pid", strconv.FormatUint(uint64(a.PID), 10)}
	if a.Name != "" {
		flags = append(flags, "--name", a.Name)
	}
	return flags
}

func baseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		p = p[i+1:]
	}
	p = strings.TrimSpace(p)
	if p == "." || p == ".." {
		return ""
	}
	return p
}

func requireHTTPS(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return failure.Newf(failure.KindDomain, "update args", "invalid download URL %q", raw)
	}
	if u.Scheme != "https" {
		return failure.Newf(failure.KindDomain, "update args", "download URL must use https: %s", raw)
	}
	return nil
}
