// Package notify defines the notification interface and implementations
// for opportunity delivery.
package notify

import (
	"context"

	domain "github.com/resellkit/listing-scout/pkg/types"
)

// OpportunityPayload contains the data needed to announce a scored
// opportunity.
type OpportunityPayload struct {
	ASIN      string             `json:"asin"`
	Title     string             `json:"title,omitempty"`
	Score     int                `json:"score"`
	Band      domain.Band        `json:"band"`
	Action    domain.Action      `json:"action"`
	Price     domain.Money       `json:"price"`
	MarginPct *float64           `json:"margin_pct,omitempty"`
	Buildable int                `json:"buildable_units"`
	Reasons   []domain.Reason    `json:"reasons,omitempty"`
}

// Notifier defines the interface for sending opportunity notifications.
type Notifier interface {
	SendOpportunity(ctx context.Context, opp *OpportunityPayload) error
	SendBatch(ctx context.Context, opps []OpportunityPayload) error
}
