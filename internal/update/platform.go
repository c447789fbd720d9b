package update

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/drrakendu78/unicreate/internal/failure"
)

// Platform is the set of OS operations the runner needs.
// One implementation exists per target OS; DefaultPlatform picks it at build time.
type Platform interface {
	// ProcessAlive reports whether pid is still running.
	ProcessAlive(pid uint32) bool
	// Install runs an installer without a window and blocks until it exits.
	// err is only set when the installer could not run at all.
	Install(ctx context.Context, name string, args []string) (exitCode int, err error)
	// Launch starts path detached from the current process.
	Launch(path string, args ...string) error
}

// DefaultPlatform returns the implementation for the running OS.
func DefaultPlatform() Platform {
	return newPlatform()
}

// InstallerCommand returns the silent invocation for an installer file:
// msiexec /i <path> /qn /norestart for an MSI, <path> /S for an EXE.
func InstallerCommand(path string) (name string, args []string, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msi":
		return "msiexec.exe", []string{"/i", path, "/qn", "/norestart"}, nil
	case ".exe":
		return path, []string{"/S"}, nil
	}
	return "", nil, failure.Newf(failure.KindDomain, "install", "unsupported installer extension %q", filepath.Ext(path))
}

// waitExit runs cmd and maps a non-zero exit to its code.
func waitExit(cmd *exec.Cmd) (int, error) {
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
