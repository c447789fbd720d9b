//go:build unix

package update

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"syscall"

	"github.com/drrakendu78/unicreate/internal/failure"
	"golang.org/x/sys/unix"
)

type unixPlatform struct{}

func newPlatform() Platform {
	return unixPlatform{}
}

// ProcessAlive probes pid with signal 0. EPERM means it exists under another user.
func (unixPlatform) ProcessAlive(pid uint32) bool {
	err := unix.Kill(int(pid), 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

func (unixPlatform) Install(context.Context, string, []string) (int, error) {
	return -1, failure.Newf(failure.KindDomain, "install", "installers are only supported on windows, not %s", runtime.GOOS)
}

func (unixPlatform) Launch(path string, args ...string) error {
	cmd := exec.Command(path, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
