// Package engine orchestrates batch opportunity analysis: market data,
// BOM resolution, fee and margin math, feasibility, demand, and scoring.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/resellkit/listing-scout/internal/demand"
	"github.com/resellkit/listing-scout/internal/market"
	"github.com/resellkit/listing-scout/internal/metrics"
	"github.com/resellkit/listing-scout/internal/store"
	"github.com/resellkit/listing-scout/internal/titles"
	score "github.com/resellkit/listing-scout/pkg/scorer"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

// ErrNoValidIdentifiers is returned when a batch contains no usable
// marketplace identifiers after validation.
var ErrNoValidIdentifiers = errors.New("no valid identifiers in batch")

// identifierRe validates a normalized marketplace identifier.
var identifierRe = regexp.MustCompile(`^[A-Z0-9]{10}$`)

const defaultWorkers = 8

// Request is one batch analysis job. ScoringOverrides are merged over
// the configured thresholds field by field; omitted fields keep their
// configured values.
type Request struct {
	Identifiers      []string         `json:"identifiers"`
	Location         string           `json:"location,omitempty"`
	ForcedBomID      string           `json:"forced_bom_id,omitempty"`
	ScoringOverrides *score.Overrides `json:"scoring_overrides,omitempty"`
}

// BatchAnalyzer runs the full analysis pipeline over a batch of
// marketplace identifiers.
type BatchAnalyzer struct {
	store    store.Store
	market   market.Provider
	demand   demand.Estimator
	titles   titles.Parser
	fees     *domain.FeeConfig
	scoring  score.Config
	log      *slog.Logger
	tracer   trace.Tracer
	workers  int
	location string
}

// Option configures the BatchAnalyzer.
type Option func(*BatchAnalyzer)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *BatchAnalyzer) {
		a.log = l
	}
}

// WithWorkers sets the per-batch worker pool size.
func WithWorkers(n int) Option {
	return func(a *BatchAnalyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithStockLocation sets the default stock location for feasibility.
func WithStockLocation(loc string) Option {
	return func(a *BatchAnalyzer) {
		a.location = loc
	}
}

// NewBatchAnalyzer creates an analyzer with injected dependencies.
func NewBatchAnalyzer(
	s store.Store,
	m market.Provider,
	d demand.Estimator,
	t titles.Parser,
	feeCfg *domain.FeeConfig,
	scoreCfg score.Config,
	opts ...Option,
) *BatchAnalyzer {
	a := &BatchAnalyzer{
		store:    s,
		market:   m,
		demand:   d,
		titles:   t,
		fees:     feeCfg,
		scoring:  scoreCfg,
		log:      slog.Default(),
		tracer:   otel.Tracer("listing-scout/engine"),
		workers:  defaultWorkers,
		location: "main",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// batchContext holds the bulk-fetched inputs shared by every candidate.
// titleMemory caches title-match resolutions keyed by fingerprint hash so
// candidates sharing a listing title resolve their BOM once.
type batchContext struct {
	snapshots   map[string]domain.MarketSnapshot
	mappings    map[string]domain.ListingMapping
	catalog     []domain.BillOfMaterials
	stock       domain.StockSnapshot
	forced      *domain.BillOfMaterials
	scoring     score.Config
	warnings    []string
	titleMemory sync.Map
}

// Analyze validates the batch, bulk-fetches shared inputs, fans the
// candidates out over a worker pool, and returns results ranked by score.
//
// A panic inside the pipeline is recovered here and surfaced as a
// batch-level error; results computed before the panic are still
// returned alongside it.
func (a *BatchAnalyzer) Analyze(ctx context.Context, req Request) (result *domain.BatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("analysis panicked", "panic", r)
			err = fmt.Errorf("batch analysis panicked: %v", r)
		}
	}()

	start := time.Now()
	defer func() {
		metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	}()

	ctx, span := a.tracer.Start(ctx, "engine.Analyze", trace.WithAttributes(
		attribute.Int("batch.size", len(req.Identifiers)),
	))
	defer span.End()

	valid, invalid := normalizeIdentifiers(req.Identifiers)
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w (%d invalid)", ErrNoValidIdentifiers, len(invalid))
	}

	bc, err := a.fetchBatchInputs(ctx, req, valid)
	if err != nil {
		return nil, err
	}

	results, panicErr := a.analyzeAll(ctx, valid, bc)

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score.Value != results[j].Score.Value {
			return results[i].Score.Value > results[j].Score.Value
		}
		return results[i].ASIN < results[j].ASIN
	})

	// Unresolved means the market returned nothing for the identifier; a
	// snapshot whose price is simply unknown is resolved but priceless.
	var unresolved []string
	for _, r := range results {
		metrics.CandidatesAnalyzedTotal.Inc()
		metrics.ScoreDistribution.Observe(float64(r.Score.Value))
		if _, ok := bc.snapshots[r.ASIN]; !ok {
			unresolved = append(unresolved, r.ASIN)
			metrics.UnresolvedIdentifiersTotal.Inc()
		}
	}
	sort.Strings(unresolved)

	warnings := bc.warnings
	if panicErr != nil {
		warnings = append(warnings, "batch incomplete: "+panicErr.Error())
	}

	result = &domain.BatchResult{
		Results: results,
		Meta: domain.BatchMeta{
			TotalAnalyzed:         len(results),
			UnresolvedIdentifiers: unresolved,
			InvalidIdentifiers:    invalid,
			UsedDefaults:          req.ScoringOverrides == nil,
			Warnings:              warnings,
		},
	}

	a.log.Info("batch analysis complete",
		"analyzed", len(results),
		"unresolved", len(unresolved),
		"invalid", len(invalid),
		"elapsed", time.Since(start),
	)

	return result, panicErr
}

// normalizeIdentifiers uppercases, validates, and dedupes the batch.
// The first occurrence of a duplicate wins; rejects keep their original
// spelling so callers can recognize them.
func normalizeIdentifiers(ids []string) (valid, invalid []string) {
	seen := make(map[string]bool, len(ids))
	for _, raw := range ids {
		id := strings.ToUpper(strings.TrimSpace(raw))
		if !identifierRe.MatchString(id) {
			invalid = append(invalid, raw)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		valid = append(valid, id)
	}
	return valid, invalid
}

// fetchBatchInputs pulls market snapshots, listing mappings, and the BOM
// catalog in parallel, then stock for every cataloged component. Market
// failures degrade the batch to unresolved candidates; store failures
// abort it.
func (a *BatchAnalyzer) fetchBatchInputs(
	ctx context.Context,
	req Request,
	valid []string,
) (*batchContext, error) {
	bc := &batchContext{scoring: a.scoring.Merge(req.ScoringOverrides)}

	var (
		wg      sync.WaitGroup
		snapErr error
		mapErr  error
		catErr  error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		bc.snapshots, snapErr = a.market.GetSnapshots(ctx, valid)
	}()
	go func() {
		defer wg.Done()
		bc.mappings, mapErr = a.store.GetListingMappings(ctx, valid)
	}()
	go func() {
		defer wg.Done()
		bc.catalog, catErr = a.store.GetActiveBoms(ctx)
	}()
	wg.Wait()

	if snapErr != nil {
		// Candidates without market data still get analyzed; they just
		// come back unresolved.
		a.log.Warn("market snapshot fetch failed, proceeding without prices", "error", snapErr)
		bc.snapshots = map[string]domain.MarketSnapshot{}
		bc.warnings = append(bc.warnings, "market data unavailable: "+snapErr.Error())
	}
	if mapErr != nil {
		return nil, fmt.Errorf("fetching listing mappings: %w", mapErr)
	}
	if catErr != nil {
		return nil, fmt.Errorf("fetching bom catalog: %w", catErr)
	}

	if req.ForcedBomID != "" {
		forced, err := a.resolveForcedBom(ctx, req.ForcedBomID, bc.catalog)
		if err != nil {
			return nil, err
		}
		bc.forced = forced
	}

	location := req.Location
	if location == "" {
		location = a.location
	}

	componentIDs := collectComponentIDs(bc.catalog, bc.forced)
	if len(componentIDs) > 0 {
		stock, err := a.store.GetStockLevels(ctx, componentIDs, location)
		if err != nil {
			return nil, fmt.Errorf("fetching stock levels: %w", err)
		}
		bc.stock = stock
	} else {
		bc.stock = domain.StockSnapshot{}
	}

	return bc, nil
}

func (a *BatchAnalyzer) resolveForcedBom(
	ctx context.Context,
	bomID string,
	catalog []domain.BillOfMaterials,
) (*domain.BillOfMaterials, error) {
	for i := range catalog {
		if catalog[i].ID == bomID {
			return &catalog[i], nil
		}
	}

	b, err := a.store.GetBom(ctx, bomID)
	if err != nil {
		return nil, fmt.Errorf("resolving forced bom %s: %w", bomID, err)
	}
	return b, nil
}

func collectComponentIDs(catalog []domain.BillOfMaterials, forced *domain.BillOfMaterials) []string {
	seen := make(map[string]bool)
	var ids []string

	add := func(b *domain.BillOfMaterials) {
		for _, line := range b.Lines {
			if !seen[line.ComponentID] {
				seen[line.ComponentID] = true
				ids = append(ids, line.ComponentID)
			}
		}
	}

	for i := range catalog {
		add(&catalog[i])
	}
	if forced != nil {
		add(forced)
	}

	sort.Strings(ids)
	return ids
}

// analyzeAll fans candidates out over the worker pool. A panicking
// candidate poisons the batch error but not its siblings' results.
func (a *BatchAnalyzer) analyzeAll(
	ctx context.Context,
	valid []string,
	bc *batchContext,
) ([]domain.OpportunityResult, error) {
	slots := make([]*domain.OpportunityResult, len(valid))
	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		panicMu  sync.Mutex
		panicErr error
	)

	workers := min(a.workers, len(valid))
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				func() {
					defer func() {
						if r := recover(); r != nil {
							panicMu.Lock()
							if panicErr == nil {
								panicErr = fmt.Errorf(
									"analyzing %s panicked: %v", valid[idx], r,
								)
							}
							panicMu.Unlock()
						}
					}()
					r := a.analyzeCandidate(ctx, valid[idx], bc)
					slots[idx] = &r
				}()
			}
		}()
	}

	for idx := range valid {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	results := make([]domain.OpportunityResult, 0, len(valid))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, panicErr
}
