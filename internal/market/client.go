package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resellkit/listing-scout/internal/metrics"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

const (
	defaultBaseURL = "https://api.pricewatch.example.com/v1/products"

	// maxBatchSize is the pricing API's per-request identifier limit.
	maxBatchSize = 100
)

// HTTPProvider implements Provider against the pricing-data API.
type HTTPProvider struct {
	baseURL     string
	apiKey      string
	client      *http.Client
	rateLimiter *RateLimiter
}

// HTTPOption configures the HTTPProvider.
type HTTPOption func(*HTTPProvider)

// WithBaseURL overrides the default API endpoint.
func WithBaseURL(u string) HTTPOption {
	return func(p *HTTPProvider) {
		p.baseURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		p.client = hc
	}
}

// WithRateLimiter injects a rate limiter that controls per-second and
// daily API call limits. When set, every GetSnapshots call goes through
// Wait() first.
func WithRateLimiter(r *RateLimiter) HTTPOption {
	return func(p *HTTPProvider) {
		p.rateLimiter = r
	}
}

// NewHTTPProvider creates a pricing API client.
func NewHTTPProvider(apiKey string, opts ...HTTPOption) *HTTPProvider {
	p := &HTTPProvider{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// productPayload is the wire shape of one product in the API response.
type productPayload struct {
	ASIN         string    `json:"asin"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	SizeTier     string    `json:"size_tier"`
	PricePence   *int64    `json:"price_pence"`
	SalesRank    *int      `json:"sales_rank"`
	OfferCount   *int      `json:"offer_count"`
	PriceHistory []int64   `json:"price_history_pence"`
	AsOf         time.Time `json:"as_of"`
}

type snapshotsResponse struct {
	Products []productPayload `json:"products"`
}

// GetSnapshots fetches market snapshots for up to maxBatchSize
// identifiers per API call, chunking larger batches. Identifiers the API
// does not know are absent from the result map.
func (p *HTTPProvider) GetSnapshots(
	ctx context.Context,
	asins []string,
) (map[string]domain.MarketSnapshot, error) {
	out := make(map[string]domain.MarketSnapshot, len(asins))

	for start := 0; start < len(asins); start += maxBatchSize {
		end := min(start+maxBatchSize, len(asins))

		if err := p.fetchChunk(ctx, asins[start:end], out); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (p *HTTPProvider) fetchChunk(
	ctx context.Context,
	asins []string,
	out map[string]domain.MarketSnapshot,
) error {
	if p.rateLimiter != nil {
		if err := p.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.MarketDailyLimitHits.Inc()
			}
			return fmt.Errorf("rate limit: %w", err)
		}
	}
	metrics.MarketAPICallsTotal.Inc()
	if p.rateLimiter != nil {
		metrics.MarketDailyUsage.Set(float64(p.rateLimiter.DailyCount()))
	}

	u := p.baseURL + "?asins=" + url.QueryEscape(strings.Join(asins, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("X-Api-Key", p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing snapshot request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf(
			"pricing API error (status %d): %s",
			resp.StatusCode, string(body),
		)
	}

	var apiResp snapshotsResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parsing snapshot response: %w", err)
	}

	for _, prod := range apiResp.Products {
		out[prod.ASIN] = toSnapshot(prod)
	}

	return nil
}

func toSnapshot(p productPayload) domain.MarketSnapshot {
	price := domain.UnknownMoney()
	if p.PricePence != nil {
		price = domain.NewMoney(*p.PricePence)
	}

	tier := domain.SizeTier(p.SizeTier)
	if tier == "" {
		tier = domain.TierStandard
	}

	return domain.MarketSnapshot{
		ASIN:         p.ASIN,
		Title:        p.Title,
		Category:     p.Category,
		SizeTier:     tier,
		Price:        price,
		SalesRank:    p.SalesRank,
		OfferCount:   p.OfferCount,
		PriceHistory: p.PriceHistory,
		AsOf:         p.AsOf,
	}
}
