package snapshotdb

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/scorepad-app/scorepad/app/eventbus"
	"github.com/scorepad-app/scorepad/app/events"
)

// WriteThrough subscribes to ledger updates and persists every snapshot as
// it arrives. Failures are logged and the message acked regardless: a
// missed write costs at most the delta to the next mutation, and the
// session itself is never blocked on storage.
type WriteThrough struct {
	store  *Store
	logger *slog.Logger
}

func NewWriteThrough(store *Store, logger *slog.Logger) *WriteThrough {
	return &WriteThrough{store: store, logger: logger}
}

// Start subscribes to the ledger update topic and consumes it on a
// background goroutine until ctx is canceled or the bus closes.
func (w *WriteThrough) Start(ctx context.Context, bus *eventbus.EventBus) error {
	messages, err := bus.Subscribe(ctx, events.LedgerUpdatedTopic)
	if err != nil {
		return err
	}
	go w.consume(ctx, messages)
	return nil
}

func (w *WriteThrough) consume(ctx context.Context, messages <-chan *message.Message) {
	for msg := range messages {
		w.handle(ctx, msg)
		msg.Ack()
	}
}

func (w *WriteThrough) handle(ctx context.Context, msg *message.Message) {
	var payload events.LedgerUpdatedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		w.logger.Error("Failed to decode ledger update",
			slog.String("message_id", msg.UUID),
			slog.Any("error", err),
		)
		return
	}
	if err := w.store.Save(ctx, payload.Snapshot); err != nil {
		w.logger.Error("Failed to persist snapshot",
			slog.String("reason", payload.Reason),
			slog.Any("error", err),
		)
		return
	}
	w.logger.Debug("Snapshot persisted", slog.String("reason", payload.Reason))
}
