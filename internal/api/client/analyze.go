package client

import (
	"context"

	"github.com/resellkit/listing-scout/internal/engine"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

// Analyze runs a batch analysis on the server.
func (c *Client) Analyze(ctx context.Context, req engine.Request) (*domain.BatchResult, error) {
	var result domain.BatchResult
	if err := c.post(ctx, "/api/v1/analyze", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
