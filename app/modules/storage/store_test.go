package snapshotdb

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorepad-app/scorepad/app/eventbus"
	"github.com/scorepad-app/scorepad/app/events"
	"github.com/scorepad-app/scorepad/app/modules/ledger"
	"github.com/scorepad-app/scorepad/internal/metrics"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "scorepad.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := NewStore(db, slog.Default(), metrics.New(), DefaultExpiryWindow)
	require.NoError(t, store.Init(context.Background()))
	return store
}

func testSnapshot(t *testing.T) ledger.Snapshot {
	t.Helper()
	l := ledger.New()
	a := l.AddPlayer()
	b := l.AddPlayer()
	require.NoError(t, l.RenamePlayer(a.ID, "Alice"))
	five, nine := 5.0, 9.0
	require.NoError(t, l.SetScore(a.ID, 0, &five))
	require.NoError(t, l.SetScore(b.ID, 1, &nine))
	l.SetTitle("game night")
	return l.Snapshot()
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	snap := testSnapshot(t)

	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	assert.NotZero(t, loaded.Timestamp)
	snap.Version = ledger.SnapshotVersion
	snap.Timestamp = loaded.Timestamp
	if diff := cmp.Diff(snap, loaded); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadAbsentReturnsEmptyDefault(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Players)
	assert.Empty(t, snap.Title)
}

func TestLoadExpiryBoundary(t *testing.T) {
	base := time.Now()
	tests := []struct {
		name     string
		age      time.Duration
		retained bool
	}{
		{name: "just inside the window", age: DefaultExpiryWindow - time.Millisecond, retained: true},
		{name: "exactly the window", age: DefaultExpiryWindow, retained: false},
		{name: "just past the window", age: DefaultExpiryWindow + time.Millisecond, retained: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			ctx := context.Background()

			store.now = func() time.Time { return base }
			require.NoError(t, store.Save(ctx, testSnapshot(t)))

			store.now = func() time.Time { return base.Add(tt.age) }
			snap, err := store.Load(ctx)
			require.NoError(t, err)

			if tt.retained {
				assert.NotEmpty(t, snap.Players)
				return
			}
			assert.Empty(t, snap.Players)

			// The stale record is gone, not merely skipped.
			store.now = func() time.Time { return base }
			snap, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, snap.Players)
		})
	}
}

func TestLoadCorruptPayloadFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "not json", payload: []byte("{nope")},
		{name: "wrong version", payload: []byte(`{"version":42,"players":[],"title":"x","timestamp":1}`)},
		{
			name:    "ragged score rows",
			payload: []byte(`{"version":1,"players":[{"id":"3c2e1e87-15aa-4f17-8e10-5bbf2ad2f1a7","name":"a","scores":[1]},{"id":"b5ec23c0-9f2c-43f0-9c41-57b56e1b7f30","name":"b","scores":[1,2]}],"title":"x","timestamp":1}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			ctx := context.Background()

			record := SnapshotRecord{Key: SnapshotKey, Payload: tt.payload, SavedAt: time.Now().UnixMilli()}
			_, err := store.db.NewInsert().Model(&record).Exec(ctx)
			require.NoError(t, err)

			snap, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, snap.Players)
		})
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSnapshot(t)))
	require.NoError(t, store.Clear(ctx))

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Players)

	// Clearing an already-empty store is fine.
	require.NoError(t, store.Clear(ctx))
}

func TestWriteThroughPersistsPublishedSnapshots(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := eventbus.New(slog.Default())
	defer bus.Close()

	require.NoError(t, NewWriteThrough(store, slog.Default()).Start(ctx, bus))

	snap := testSnapshot(t)
	require.NoError(t, bus.Publish(events.LedgerUpdatedTopic, events.LedgerUpdatedPayload{
		Reason:   events.ReasonScoreSet,
		Snapshot: snap,
	}))

	require.Eventually(t, func() bool {
		loaded, err := store.Load(ctx)
		return err == nil && len(loaded.Players) == len(snap.Players)
	}, 2*time.Second, 10*time.Millisecond)
}
