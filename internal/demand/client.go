package demand

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/resellkit/listing-scout/internal/metrics"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

// ModelEstimator calls an external demand model service and falls back
// to the sales-rank heuristic when the model is unavailable or returns
// garbage.
type ModelEstimator struct {
	endpoint string
	client   *http.Client
	fallback Estimator
}

// ModelOption configures the ModelEstimator.
type ModelOption func(*ModelEstimator)

// WithModelHTTPClient overrides the default HTTP client.
func WithModelHTTPClient(hc *http.Client) ModelOption {
	return func(e *ModelEstimator) {
		e.client = hc
	}
}

// WithFallback overrides the estimator used when the model fails.
func WithFallback(f Estimator) ModelOption {
	return func(e *ModelEstimator) {
		e.fallback = f
	}
}

// NewModelEstimator creates an estimator backed by the demand model at
// the given endpoint.
func NewModelEstimator(endpoint string, opts ...ModelOption) *ModelEstimator {
	e := &ModelEstimator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		fallback: NewRankEstimator(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type predictRequest struct {
	SalesRank  *int   `json:"sales_rank"`
	OfferCount *int   `json:"offer_count"`
	PriceMinor *int64 `json:"price_minor_units"`
}

type predictResponse struct {
	UnitsPerDay *float64 `json:"units_per_day"`
}

// Predict asks the model for a velocity estimate. Any failure degrades
// to the fallback estimator; the returned forecast then carries
// Source=FALLBACK and the failure reason.
func (e *ModelEstimator) Predict(ctx context.Context, f Features) domain.DemandForecast {
	forecast, err := e.callModel(ctx, f)
	if err != nil {
		metrics.DemandFallbacksTotal.Inc()

		degraded := e.fallback.Predict(ctx, f)
		degraded.Source = domain.DemandFallback
		degraded.Error = err.Error()
		return degraded
	}
	return forecast
}

func (e *ModelEstimator) callModel(ctx context.Context, f Features) (domain.DemandForecast, error) {
	reqBody := predictRequest{
		SalesRank:  f.SalesRank,
		OfferCount: f.OfferCount,
	}
	if f.Price.Known {
		amount := f.Price.Amount
		reqBody.PriceMinor = &amount
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return domain.DemandForecast{}, fmt.Errorf("encoding predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload),
	)
	if err != nil {
		return domain.DemandForecast{}, fmt.Errorf("creating predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.DemandForecast{}, fmt.Errorf("calling demand model: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.DemandForecast{}, fmt.Errorf("reading predict response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return domain.DemandForecast{}, fmt.Errorf(
			"demand model error (status %d): %s", resp.StatusCode, string(body),
		)
	}

	var modelResp predictResponse
	if err := json.Unmarshal(body, &modelResp); err != nil {
		return domain.DemandForecast{}, fmt.Errorf("parsing predict response: %w", err)
	}

	return domain.DemandForecast{
		UnitsPerDay: modelResp.UnitsPerDay,
		Source:      domain.DemandModel,
	}, nil
}
