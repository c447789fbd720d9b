package update

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/drrakendu78/unicreate/internal/failure"
	"github.com/drrakendu78/unicreate/internal/shell"
)

// SilentScriptName is the file the silent update script is written to.
const SilentScriptName = "silent-update.ps1"

// utf8BOM makes Windows PowerShell read the script as UTF-8.
const utf8BOM = "\ufeff"

// SilentOptions configures StartSilentUpdate.
type SilentOptions struct {
	// GOOS defaults to runtime.GOOS.
	GOOS          string
	TempDir       string
	PollInterval  time.Duration
	RelaunchDelay time.Duration
	Platform      Platform
	Logger        *clog.Logger
}

// StartSilentUpdate writes a PowerShell script that performs the whole
// update (wait, download, install, relaunch) and launches it detached.
// Checks run in order: operating system, https, installer extension.
// It returns the script path.
func StartSilentUpdate(args Args, opts SilentOptions) (string, error) {
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	if goos != "windows" {
		return "", failure.Newf(failure.KindDomain, "silent update", "unsupported platform %s: silent update requires windows", goos)
	}
	if err := requireHTTPS(args.URL); err != nil {
		return "", err
	}
	name := args.FileName()
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".exe" && ext != ".msi" {
		return "", failure.Newf(failure.KindDomain, "silent update", "unsupported installer extension %q: expected .exe or .msi", ext)
	}
	if err := args.Validate(); err != nil {
		return "", err
	}

	logger := opts.Logger
	if logger == nil {
		logger = clog.Default().WithPrefix("update")
	}
	platform := opts.Platform
	if platform == nil {
		platform = DefaultPlatform()
	}
	tempDir := opts.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", tempDir, err)
	}

	script, err := shell.NewScriptGenerator().GenerateSilentUpdate(shell.SilentUpdate{
		PID:            args.PID,
		PollMillis:     opts.PollInterval.Milliseconds(),
		URL:            args.URL,
		UserAgent:      DownloadUserAgent,
		Installer:      filepath.Join(tempDir, name),
		MSI:            ext == ".msi",
		RelaunchMillis: opts.RelaunchDelay.Milliseconds(),
		App:            args.App,
	})
	if err != nil {
		return "", err
	}

	scriptPath := filepath.Join(tempDir, SilentScriptName)
	if err := os.WriteFile(scriptPath, []byte(utf8BOM+script), 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", scriptPath, err)
	}

	logger.Debug("launching silent update script", "path", scriptPath, "installer", name)
	err = platform.Launch("powershell.exe",
		"-NoProfile", "-NonInteractive",
		"-ExecutionPolicy", "Bypass",
		"-WindowStyle", "Hidden",
		"-File", scriptPath)
	if err != nil {
		return "", failure.New(failure.KindProcess, "silent update", err)
	}
	return scriptPath, nil
}
