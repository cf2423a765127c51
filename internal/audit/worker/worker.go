// Package worker decouples audit persistence from the submission pipeline:
// events go through a buffered channel so a slow store never blocks a
// registration.
package worker

import (
	"context"
	"log/slog"

	"motoreg/internal/audit"
)

// Inbox is the channel-backed Publisher side of the worker. Emit never
// blocks: when the buffer is full the event is dropped and counted against
// the logger, which is the accepted trade for a best-effort trail.
type Inbox struct {
	ch     chan audit.Event
	logger *slog.Logger
}

// NewInbox creates the publisher with the given buffer size.
func NewInbox(size int, logger *slog.Logger) *Inbox {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inbox{ch: make(chan audit.Event, size), logger: logger}
}

func (i *Inbox) Emit(_ context.Context, event audit.Event) error {
	select {
	case i.ch <- event:
	default:
		i.logger.Warn("audit inbox full, dropping event", "action", event.Action)
	}
	return nil
}

// Worker consumes audit events from the inbox and persists them.
type Worker struct {
	store  audit.Store
	inbox  *Inbox
	logger *slog.Logger
}

func New(store audit.Store, inbox *Inbox, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run drains the inbox until ctx is cancelled. Store failures are logged
// and the loop continues; audit is best-effort by design.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.inbox.ch:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.Warn("audit append failed",
					"action", event.Action,
					"error", err.Error(),
				)
			}
		}
	}
}
