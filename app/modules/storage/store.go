package snapshotdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/scorepad-app/scorepad/app/modules/ledger"
	"github.com/scorepad-app/scorepad/internal/metrics"
)

// SnapshotKey is the fixed key the single session snapshot lives under.
const SnapshotKey = "scorepad"

// DefaultExpiryWindow is how long a persisted session stays loadable.
// Snapshots at least this old are discarded on load.
const DefaultExpiryWindow = 10 * time.Hour

// Open opens (creating if needed) the embedded SQLite database at path.
func Open(path string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", path, err)
	}
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Store persists the session snapshot under a fixed key. Expiry is lazy:
// it is checked only when a snapshot is loaded, never swept proactively.
type Store struct {
	db      *bun.DB
	logger  *slog.Logger
	metrics *metrics.Metrics
	window  time.Duration
	now     func() time.Time
}

// NewStore creates a Store. A non-positive window falls back to
// DefaultExpiryWindow.
func NewStore(db *bun.DB, logger *slog.Logger, m *metrics.Metrics, window time.Duration) *Store {
	if window <= 0 {
		window = DefaultExpiryWindow
	}
	return &Store{
		db:      db,
		logger:  logger,
		metrics: m,
		window:  window,
		now:     time.Now,
	}
}

// Init creates the snapshots table if it does not exist yet.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*SnapshotRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return nil
}

// Save stamps the snapshot with the current time and upserts it under the
// fixed key. Called after every committed mutation; no batching.
func (s *Store) Save(ctx context.Context, snap ledger.Snapshot) error {
	snap.Version = ledger.SnapshotVersion
	snap.Timestamp = s.now().UnixMilli()

	payload, err := json.Marshal(snap)
	if err != nil {
		s.metrics.SnapshotSaves.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	record := SnapshotRecord{
		Key:     SnapshotKey,
		Payload: payload,
		SavedAt: snap.Timestamp,
	}
	if _, err := s.db.NewInsert().
		Model(&record).
		On("CONFLICT (key) DO UPDATE").
		Set("payload = EXCLUDED.payload, saved_at = EXCLUDED.saved_at").
		Exec(ctx); err != nil {
		s.metrics.SnapshotSaves.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	s.metrics.SnapshotSaves.WithLabelValues("ok").Inc()
	return nil
}

// Load reads the persisted snapshot. Absent, expired and malformed records
// all come back as the empty default; only infrastructure failures surface
// as errors. Expired and malformed records are deleted on the way out.
func (s *Store) Load(ctx context.Context) (ledger.Snapshot, error) {
	var record SnapshotRecord
	err := s.db.NewSelect().
		Model(&record).
		Where("key = ?", SnapshotKey).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.SnapshotLoads.WithLabelValues("empty").Inc()
			return ledger.Snapshot{}, nil
		}
		s.metrics.SnapshotLoads.WithLabelValues("error").Inc()
		return ledger.Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap ledger.Snapshot
	if err := json.Unmarshal(record.Payload, &snap); err != nil {
		return s.discard(ctx, "corrupt", slog.Any("error", err))
	}
	if err := snap.Validate(); err != nil {
		return s.discard(ctx, "corrupt", slog.Any("error", err))
	}

	if s.now().UnixMilli()-snap.Timestamp >= s.window.Milliseconds() {
		return s.discard(ctx, "expired", slog.Int64("saved_at", snap.Timestamp))
	}

	s.metrics.SnapshotLoads.WithLabelValues("ok").Inc()
	return snap, nil
}

// Clear deletes the persisted snapshot unconditionally.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.NewDelete().
		Model((*SnapshotRecord)(nil)).
		Where("key = ?", SnapshotKey).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}

// discard drops the stored record and returns the empty default. Never a
// blocking failure: a delete error is only logged.
func (s *Store) discard(ctx context.Context, outcome string, attrs ...any) (ledger.Snapshot, error) {
	s.logger.Warn("Discarding stored snapshot", append([]any{slog.String("outcome", outcome)}, attrs...)...)
	s.metrics.SnapshotLoads.WithLabelValues(outcome).Inc()
	if err := s.Clear(ctx); err != nil {
		s.logger.Error("Failed to delete discarded snapshot", slog.Any("error", err))
	}
	return ledger.Snapshot{}, nil
}
