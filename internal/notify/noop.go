package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded opportunities. It
// is used when no webhook is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards opportunities with a
// log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendOpportunity logs and discards a single opportunity.
func (n *NoOpNotifier) SendOpportunity(_ context.Context, opp *OpportunityPayload) error {
	n.log.Debug("notification discarded (no backend configured)",
		"asin", opp.ASIN,
		"score", opp.Score,
		"band", opp.Band,
	)
	return nil
}

// SendBatch logs and discards a batch of opportunities.
func (n *NoOpNotifier) SendBatch(_ context.Context, opps []OpportunityPayload) error {
	n.log.Debug("batch notification discarded (no backend configured)",
		"count", len(opps),
	)
	return nil
}
