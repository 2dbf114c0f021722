package client

import "context"

// watchlistResponse mirrors the watchlist list response body.
type watchlistResponse struct {
	ASINs []string `json:"asins"`
}

// ListWatchlist returns the watched identifiers.
func (c *Client) ListWatchlist(ctx context.Context) ([]string, error) {
	var resp watchlistResponse
	if err := c.get(ctx, "/api/v1/watchlist", &resp); err != nil {
		return nil, err
	}
	return resp.ASINs, nil
}

// AddWatchlistItem adds an identifier to the watchlist.
func (c *Client) AddWatchlistItem(ctx context.Context, asin string) error {
	body := map[string]string{"asin": asin}
	return c.post(ctx, "/api/v1/watchlist", body, nil)
}

// RemoveWatchlistItem removes an identifier from the watchlist.
func (c *Client) RemoveWatchlistItem(ctx context.Context, asin string) error {
	return c.del(ctx, "/api/v1/watchlist/"+asin)
}

// RunWatchlist triggers a watchlist analysis run.
func (c *Client) RunWatchlist(ctx context.Context) error {
	return c.post(ctx, "/api/v1/watchlist/run", nil, nil)
}
