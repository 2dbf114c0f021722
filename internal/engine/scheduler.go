package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/resellkit/listing-scout/internal/metrics"
	"github.com/resellkit/listing-scout/internal/notify"
	domain "github.com/resellkit/listing-scout/pkg/types"
)

// Scheduler periodically re-analyzes the watchlist and pushes GREEN
// opportunities to the notifier.
type Scheduler struct {
	cron     *cron.Cron
	analyzer *BatchAnalyzer
	notifier notify.Notifier
	log      *slog.Logger
}

// NewScheduler creates a Scheduler that runs the watchlist job on a
// fixed interval.
func NewScheduler(
	analyzer *BatchAnalyzer,
	notifier notify.Notifier,
	watchlistInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:     c,
		analyzer: analyzer,
		notifier: notifier,
		log:      log,
	}

	if _, err := c.AddFunc(
		"@every "+watchlistInterval.String(),
		s.runWatchlist,
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runWatchlist() {
	ctx := context.Background()
	s.log.Info("scheduled watchlist analysis starting")
	if err := s.RunWatchlist(ctx); err != nil {
		s.log.Error("scheduled watchlist analysis failed", "error", err)
	}
}

// RunWatchlist analyzes every watched identifier and notifies about the
// ones that land in the GREEN band.
func (s *Scheduler) RunWatchlist(ctx context.Context) error {
	metrics.WatchlistRunsTotal.Inc()

	asins, err := s.analyzer.store.ListWatchlist(ctx)
	if err != nil {
		return fmt.Errorf("listing watchlist: %w", err)
	}
	if len(asins) == 0 {
		s.log.Debug("watchlist empty, nothing to analyze")
		return nil
	}

	batch, err := s.analyzer.Analyze(ctx, Request{Identifiers: asins})
	if err != nil {
		return fmt.Errorf("analyzing watchlist: %w", err)
	}

	var hits []notify.OpportunityPayload
	for i := range batch.Results {
		r := &batch.Results[i]
		if r.Score.Band != domain.BandGreen {
			continue
		}
		hits = append(hits, toPayload(r))
	}

	if len(hits) == 0 {
		return nil
	}

	if err := s.notifier.SendBatch(ctx, hits); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return fmt.Errorf("notifying opportunities: %w", err)
	}

	s.log.Info("watchlist opportunities notified", "count", len(hits))
	return nil
}

func toPayload(r *domain.OpportunityResult) notify.OpportunityPayload {
	p := notify.OpportunityPayload{
		ASIN:    r.ASIN,
		Title:   r.Title,
		Score:   r.Score.Value,
		Band:    r.Score.Band,
		Action:  r.Action,
		Price:   r.Price,
		Reasons: r.Score.Reasons,
	}
	if r.Profit != nil {
		margin := r.Profit.NetMarginPct
		p.MarginPct = &margin
	}
	if r.Feasibility != nil {
		p.Buildable = r.Feasibility.BuildableUnits
	}
	return p
}
