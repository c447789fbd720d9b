package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/drrakendu78/unicreate/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedHistory(t *testing.T, store *history.Store, n int) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < n; i++ {
		_, err := store.Add(context.Background(), history.Entry{
			PackageID: "Publisher.Package",
			Version:   string(rune('1' + i)),
			PRURL:     "https://github.com/microsoft/winget-pkgs/pull/" + string(rune('1'+i)),
			User:      "octocat",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
}

func TestRunHistoryList(t *testing.T) {
	tests := []struct {
		name    string
		seed    int
		limit   int
		want    []string
		notWant []string
	}{
		{
			name: "empty",
			want: []string{"No submissions yet."},
		},
		{
			name: "newest first",
			seed: 2,
			want: []string{"Package", "Publisher.Package", "pull/2", "pull/1", "octocat", "ago"},
		},
		{
			name:    "limited",
			seed:    3,
			limit:   1,
			want:    []string{"pull/3"},
			notWant: []string{"pull/1", "pull/2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openTestHistory(t)
			seedHistory(t, store, tt.seed)

			cmd, stdout, _ := newTestCmd()
			err := runHistoryListWithDeps(cmd, tt.limit, &appDeps{history: store}, testConfig())
			require.NoError(t, err)

			for _, w := range tt.want {
				assert.Contains(t, stdout.String(), w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, stdout.String(), w)
			}
		})
	}
}

func TestRunHistoryClear(t *testing.T) {
	tests := []struct {
		name string
		seed int
		want string
	}{
		{name: "empty", seed: 0, want: "Removed 0 entries.\n"},
		{name: "one", seed: 1, want: "Removed 1 entry.\n"},
		{name: "several", seed: 3, want: "Removed 3 entries.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openTestHistory(t)
			seedHistory(t, store, tt.seed)

			cmd, stdout, _ := newTestCmd()
			err := runHistoryClearWithDeps(cmd, &appDeps{history: store}, testConfig())
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout.String())

			entries, err := store.List(context.Background(), 0)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}
