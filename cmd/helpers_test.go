package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/drrakendu78/unicreate/internal/config"
	"github.com/drrakendu78/unicreate/internal/history"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory credential.Store.
type memStore struct {
	token    string
	storeErr error
	cleared  int
}

func (m *memStore) Store(token string) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	m.token = token
	return nil
}

func (m *memStore) Get() (string, bool, error) {
	return m.token, m.token != "", nil
}

func (m *memStore) Clear() error {
	m.cleared++
	m.token = ""
	return nil
}

type launch struct {
	path string
	args []string
}

// fakePlatform records launches and never runs anything.
type fakePlatform struct {
	launches []launch
}

func (f *fakePlatform) ProcessAlive(uint32) bool { return false }

func (f *fakePlatform) Install(context.Context, string, []string) (int, error) { return 0, nil }

func (f *fakePlatform) Launch(path string, args ...string) error {
	f.launches = append(f.launches, launch{path: path, args: args})
	return nil
}

func noWait(context.Context, time.Duration) error { return nil }

func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetContext(context.Background())
	return cmd, &stdout, &stderr
}

func openTestHistory(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Publish.ForkSettleDelay = 0
	cfg.Update.ProcessPollInterval = time.Millisecond
	cfg.Update.RelaunchDelay = 0
	cfg.Update.ExitDelay = 0
	return &cfg
}
