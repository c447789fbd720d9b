package update

import (
	"context"
	"sync"
)

type launchCall struct {
	path string
	args []string
}

type installCall struct {
	name string
	args []string
}

// fakePlatform reports the process alive for the first aliveFor probes.
type fakePlatform struct {
	mu        sync.Mutex
	aliveFor  int
	probes    int
	installFn func(name string, args []string) (int, error)
	launchErr error
	installs  []installCall
	launches  []launchCall
}

func (f *fakePlatform) ProcessAlive(uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	return f.probes <= f.aliveFor
}

func (f *fakePlatform) Install(_ context.Context, name string, args []string) (int, error) {
	f.mu.Lock()
	f.installs = append(f.installs, installCall{name: name, args: args})
	f.mu.Unlock()
	if f.installFn != nil {
		return f.installFn(name, args)
	}
	return 0, nil
}

func (f *fakePlatform) Launch(path string, args ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launches = append(f.launches, launchCall{path: path, args: args})
	return f.launchErr
}

type recorder struct {
	snapshots []Snapshot
}

func (r *recorder) Observe(s Snapshot) {
	r.snapshots = append(r.snapshots, s)
}

// phases collapses consecutive snapshots of the same phase.
func (r *recorder) phases() []Phase {
	var out []Phase
	for _, s := range r.snapshots {
		if len(out) == 0 || out[len(out)-1] != s.Phase {
			out = append(out, s.Phase)
		}
	}
	return out
}

func (r *recorder) of(phase Phase) []Snapshot {
	var out []Snapshot
	for _, s := range r.snapshots {
		if s.Phase == phase {
			out = append(out, s)
		}
	}
	return out
}
