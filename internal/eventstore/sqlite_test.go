package eventstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testBuildID = "0b6f4c1e-8a51-4c7c-9a0e-2f3f0f0d9b11"

func TestSQLiteStore_AppendAndRetrieve(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	payload := []byte(`{"output":"docs/elm-pacman.js"}`)
	require.NoError(t, store.Append(ctx, testBuildID, "BuildStarted", payload, map[string]string{"output": "docs/elm-pacman.js"}))
	require.NoError(t, store.Append(ctx, testBuildID, "BuildCompleted", nil, nil))
	require.NoError(t, store.Append(ctx, "other", "BuildStarted", nil, nil))

	events, err := store.GetByBuildID(ctx, testBuildID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "BuildStarted", events[0].Type)
	require.Equal(t, payload, events[0].Payload)
	require.Equal(t, "docs/elm-pacman.js", events[0].Metadata["output"])
	require.Equal(t, "BuildCompleted", events[1].Type)
	require.Nil(t, events[1].Metadata)
}

func TestSQLiteStore_Recent(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	base := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Second) }

	ctx := t.Context()
	for _, typ := range []string{"BuildStarted", "BuildCompleted", "BuildStarted", "BuildFailed"} {
		require.NoError(t, store.Append(ctx, testBuildID, typ, nil, nil))
	}

	events, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "BuildFailed", events[0].Type)
	require.Equal(t, "BuildStarted", events[1].Type)
	require.True(t, events[0].Timestamp.After(events[1].Timestamp))
}

func TestSQLiteStore_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(t.Context(), testBuildID, "BuildCompleted", []byte("{}"), nil))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	events, err := reopened.Recent(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

var _ Store = (*SQLiteStore)(nil)
