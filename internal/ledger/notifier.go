// AngelaMos | 2026
// notifier.go

package ledger

import (
	"context"
	"log/slog"
)

// LogNotifier writes ledger events to the structured log. It stands in
// for a real delivery channel (mail, push) and never blocks the caller.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, event Event) {
	n.logger.Info("ledger event",
		"kind", event.Kind,
		"business_id", event.BusinessID,
		"entity_id", event.EntityID,
	)
}
