package update

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/drrakendu78/unicreate/internal/failure"
)

// SidecarCommand is the subcommand path the sidecar is started with.
var SidecarCommand = []string{"update", "run"}

// SidecarDir is the subdirectory of the updater temp dir holding the sidecar
// copy. Installers are downloaded into the temp dir itself, so an asset named
// like the executable never overwrites the running sidecar.
const SidecarDir = "bin"

// SpawnSidecar copies the executable at self into tempDir/SidecarDir and
// starts the copy detached with args. Running from a copy lets the installer
// replace self while the update is in progress. It returns the copy's path.
func SpawnSidecar(p Platform, self, tempDir string, args Args) (string, error) {
	if err := args.Validate(); err != nil {
		return "", err
	}
	binDir := filepath.Join(tempDir, SidecarDir)
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", binDir, err)
	}

	dest := filepath.Join(binDir, filepath.Base(self))
	if filepath.Clean(self) != filepath.Clean(dest) {
		if err := copyExecutable(self, dest); err != nil {
			return "", err
		}
	}

	argv := append(append([]string{}, SidecarCommand...), args.Flags()...)
	if err := p.Launch(dest, argv...); err != nil {
		return "", failure.New(failure.KindProcess, "spawn updater", err)
	}
	return dest, nil
}

func copyExecutable(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	//nolint:gosec // the copy must stay executable
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
