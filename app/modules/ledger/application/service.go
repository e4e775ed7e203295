package ledgerservice

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/scorepad-app/scorepad/app/events"
	"github.com/scorepad-app/scorepad/app/modules/ledger"
	"github.com/scorepad-app/scorepad/internal/metrics"
)

// Publisher is the slice of the event bus the service needs.
type Publisher interface {
	Publish(topic string, payload any) error
}

// Service owns the live ledger and serializes every mutation. Each
// committed mutation publishes a full snapshot on the bus; persistence is a
// downstream subscriber, so a publish failure never rolls the mutation
// back (it is logged and the next mutation republishes the whole state).
type Service struct {
	mu        sync.Mutex
	ledger    *ledger.Ledger
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New restores the service from a persisted snapshot. A snapshot that
// fails validation falls back to an empty session rather than refusing to
// start.
func New(snap ledger.Snapshot, publisher Publisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	l, err := ledger.Restore(snap)
	if err != nil {
		logger.Warn("Discarding invalid snapshot on restore", slog.Any("error", err))
		l = ledger.New()
	}
	return &Service{
		ledger:    l,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
	}
}

// AddPlayer appends a new player and returns it.
func (s *Service) AddPlayer(ctx context.Context) ledger.Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.ledger.AddPlayer()
	s.logger.InfoContext(ctx, "Player added",
		slog.String("player_id", p.ID.String()),
		slog.String("name", p.Name),
	)
	s.commit(ctx, events.ReasonPlayerAdded)
	return p
}

// RemovePlayer deletes a player by ID.
func (s *Service) RemovePlayer(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.RemovePlayer(id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Player removed", slog.String("player_id", id.String()))
	s.commit(ctx, events.ReasonPlayerRemoved)
	return nil
}

// RenamePlayer replaces a player's display name.
func (s *Service) RenamePlayer(ctx context.Context, id uuid.UUID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.RenamePlayer(id, name); err != nil {
		return err
	}
	s.commit(ctx, events.ReasonPlayerRenamed)
	return nil
}

// SetScore parses raw cell input and records it for the player at the
// given round. Non-numeric input stores absent; the resulting value (nil
// for absent) is returned so the caller can echo the committed state.
func (s *Service) SetScore(ctx context.Context, id uuid.UUID, round int, raw string) (*float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := ledger.ParseScore(raw)
	if err := s.ledger.SetScore(id, round, value); err != nil {
		return nil, err
	}
	s.commit(ctx, events.ReasonScoreSet)
	return value, nil
}

// AddRound widens the sheet by one round (or bootstraps an empty session).
func (s *Service) AddRound(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.AddRound()
	s.commit(ctx, events.ReasonRoundAdded)
	return s.ledger.RoundCount()
}

// RemoveRound deletes the round at index from every player.
func (s *Service) RemoveRound(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.RemoveRound(index); err != nil {
		return err
	}
	s.commit(ctx, events.ReasonRoundRemoved)
	return nil
}

// Reset discards the session and starts over under newTitle.
func (s *Service) Reset(ctx context.Context, newTitle string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.ResetAll(newTitle)
	s.logger.InfoContext(ctx, "Session reset", slog.String("title", newTitle))
	s.commit(ctx, events.ReasonReset)
}

// Rename relabels the session without touching players.
func (s *Service) Rename(ctx context.Context, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.SetTitle(title)
	s.commit(ctx, events.ReasonRenamed)
}

// Replace swaps in a whole new session state (demo seeding).
func (s *Service) Replace(ctx context.Context, l *ledger.Ledger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger = l
	s.commit(ctx, events.ReasonSeeded)
}

// Read runs fn against the ledger under the service lock. fn must not
// retain the ledger past its return.
func (s *Service) Read(fn func(*ledger.Ledger)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ledger)
}

// Snapshot returns the current unstamped session snapshot.
func (s *Service) Snapshot() ledger.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot()
}

// commit records metrics and publishes the post-mutation snapshot. Caller
// holds the lock, so snapshots go out in mutation order.
func (s *Service) commit(ctx context.Context, reason string) {
	s.metrics.LedgerMutations.WithLabelValues(reason).Inc()
	payload := events.LedgerUpdatedPayload{
		Reason:   reason,
		Snapshot: s.ledger.Snapshot(),
	}
	if err := s.publisher.Publish(events.LedgerUpdatedTopic, payload); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger update",
			slog.String("reason", reason),
			slog.Any("error", err),
		)
	}
}
