package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel and persists them. A failed
// append is logged and the worker moves on; it stops when the inbox is
// closed or ctx is done.
type Worker struct {
	store  Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.store.Append(ctx, event); err != nil && w.logger != nil {
				w.logger.ErrorContext(ctx, "failed to append audit event",
					"action", event.Action,
					"user_id", event.UserID.String(),
					"error", err,
				)
			}
		}
	}
}
