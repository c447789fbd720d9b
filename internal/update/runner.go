package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	clog "github.com/charmbracelet/log"
	"github.com/drrakendu78/unicreate/internal/clock"
	"github.com/drrakendu78/unicreate/internal/failure"
	"github.com/dustin/go-humanize"
)

// DownloadUserAgent identifies the sidecar to the download host.
const DownloadUserAgent = "UniCreate-Updater/1.0"

var errStillRunning = errors.New("process still running")

// RunnerOptions configures a Runner. Zero delays are allowed and used by tests.
type RunnerOptions struct {
	// TempDir receives the downloaded installer. It is created if missing.
	TempDir       string
	PollInterval  time.Duration
	RelaunchDelay time.Duration
	ExitDelay     time.Duration
	HTTPClient    *http.Client
	Platform      Platform
	// Wait defaults to a context-aware sleep.
	Wait   clock.SleepFunc
	Logger *clog.Logger
}

// Runner performs one update: wait for the parent to exit, download the
// installer, run it, relaunch the application.
type Runner struct {
	exitDelay     time.Duration
	httpClient    *http.Client
	log           *clog.Logger
	platform      Platform
	pollInterval  time.Duration
	progress      *Broadcaster
	relaunchDelay time.Duration
	tempDir       string
	wait          clock.SleepFunc
}

// NewRunner creates a Runner that reports to progress.
func NewRunner(opts RunnerOptions, progress *Broadcaster) *Runner {
	r := &Runner{
		exitDelay:     opts.ExitDelay,
		httpClient:    opts.HTTPClient,
		log:           opts.Logger,
		platform:      opts.Platform,
		pollInterval:  opts.PollInterval,
		progress:      progress,
		relaunchDelay: opts.RelaunchDelay,
		tempDir:       opts.TempDir,
		wait:          opts.Wait,
	}
	if r.httpClient == nil {
		r.httpClient = http.DefaultClient
	}
	if r.log == nil {
		r.log = clog.Default().WithPrefix("update")
	}
	if r.platform == nil {
		r.platform = DefaultPlatform()
	}
	if r.progress == nil {
		r.progress = NewBroadcaster()
	}
	if r.tempDir == "" {
		r.tempDir = os.TempDir()
	}
	if r.wait == nil {
		r.wait = clock.Sleep
	}
	return r
}

// Run executes the phases in order. It returns after the relaunched
// application has started and the exit delay has passed; the caller then exits.
func (r *Runner) Run(ctx context.Context, args Args) error {
	if err := args.Validate(); err != nil {
		return err
	}

	r.progress.Emit(PhaseWaiting, 0, "Waiting for UniCreate to close...")
	if err := r.waitForExit(ctx, args.PID); err != nil {
		return err
	}
	r.progress.Emit(PhaseWaiting, 100, "UniCreate closed.")

	r.progress.Emit(PhaseDownloading, 0, "Starting download...")
	path, size, err := r.download(ctx, args)
	if err != nil {
		return fmt.Errorf("failed to download update: %w", err)
	}
	r.progress.Emit(PhaseDownloading, 100, fmt.Sprintf("Download complete (%s).", humanize.Bytes(uint64(size))))

	r.progress.Emit(PhaseInstalling, 0, "Installing update...")
	if err := r.install(ctx, path); err != nil {
		return fmt.Errorf("failed to install update: %w", err)
	}
	r.progress.Emit(PhaseInstalling, 100, "Installation complete.")

	r.progress.Emit(PhaseRelaunching, 0, "Launching UniCreate...")
	if err := r.wait(ctx, r.relaunchDelay); err != nil {
		return err
	}
	if err := r.platform.Launch(args.App); err != nil {
		return failure.New(failure.KindProcess, "relaunch", err)
	}
	r.progress.Emit(PhaseRelaunching, 100, "UniCreate launched.")

	return r.wait(ctx, r.exitDelay)
}

// waitForExit polls at a fixed interval with no attempt limit.
func (r *Runner) waitForExit(ctx context.Context, pid uint32) error {
	r.log.Debug("waiting for process to exit", "pid", pid, "interval", r.pollInterval)
	err := retry.Do(
		func() error {
			if r.platform.ProcessAlive(pid) {
				return errStillRunning
			}
			return nil
		},
		retry.Attempts(0),
		retry.Delay(r.pollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return fmt.Errorf("stopped waiting for process %d: %w", pid, err)
	}
	return nil
}

func (r *Runner) download(ctx context.Context, args Args) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, args.URL, nil)
	if err != nil {
		return "", 0, failure.New(failure.KindDomain, "download", err)
	}
	req.Header.Set("User-Agent", DownloadUserAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", 0, failure.New(failure.KindTransport, "download", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", 0, &failure.Error{
			Kind:       failure.KindHTTPStatus,
			Op:         "download",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("download returned status %d", resp.StatusCode),
		}
	}

	if err := os.MkdirAll(r.tempDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create %s: %w", r.tempDir, err)
	}
	dest := filepath.Join(r.tempDir, args.FileName())
	f, err := os.Create(dest)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create %s: %w", dest, err)
	}

	pw := &progressWriter{total: resp.ContentLength, report: r.reportDownload}
	if _, err := io.Copy(io.MultiWriter(f, pw), resp.Body); err != nil {
		_ = f.Close()
		return "", 0, failure.New(failure.KindTransport, "download", err)
	}
	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to write %s: %w", dest, err)
	}

	r.log.Debug("downloaded installer", "path", dest, "bytes", pw.written)
	return dest, pw.written, nil
}

func (r *Runner) reportDownload(percent int, written, total int64) {
	r.progress.Emit(PhaseDownloading, percent, fmt.Sprintf("Downloading... %d%% (%s of %s)",
		percent, humanize.Bytes(uint64(written)), humanize.Bytes(uint64(total))))
}

func (r *Runner) install(ctx context.Context, path string) error {
	name, argv, err := InstallerCommand(path)
	if err != nil {
		return err
	}

	r.log.Debug("running installer", "command", name, "args", argv)
	code, err := r.platform.Install(ctx, name, argv)
	if err != nil {
		if failure.KindOf(err) != failure.KindUnknown {
			return err
		}
		return failure.New(failure.KindProcess, "install", err)
	}
	if code != 0 {
		return failure.Newf(failure.KindProcess, "install", "installer exited with code %d", code)
	}
	return nil
}

// progressWriter reports only when the whole percentage changes. Without a
// known total it stays at 0 until the download completes.
type progressWriter struct {
	total   int64
	written int64
	last    int
	report  func(percent int, written, total int64)
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	if w.total <= 0 {
		return len(p), nil
	}
	percent := int(w.written * 100 / w.total)
	if percent > 100 {
		percent = 100
	}
	if percent != w.last {
		w.last = percent
		w.report(percent, w.written, w.total)
	}
	return len(p), nil
}
