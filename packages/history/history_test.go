package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		err := store.Record(ctx, Run{
			ID:           id,
			ReportName:   "suite_20240309_140000",
			Descriptor:   "suite.json",
			Tests:        2,
			Environments: 1,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	runs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-3", runs[0].ID)
	assert.Equal(t, "run-2", runs[1].ID)
	assert.Equal(t, 2, runs[0].Tests)
	assert.Equal(t, 1, runs[0].Environments)
}

func TestRecordDuplicateIDFails(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := Run{ID: "run-1", ReportName: "r", Descriptor: "d", CreatedAt: time.Now()}
	require.NoError(t, store.Record(ctx, run))
	assert.Error(t, store.Record(ctx, run))
}

func TestRecentEmpty(t *testing.T) {
	store := openStore(t)

	runs, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
