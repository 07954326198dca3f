package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zenday/pricewatch/internal/kroger"
	"github.com/zenday/pricewatch/internal/products"
)

// Catalog is what the scheduler needs from the vendor client.
type Catalog interface {
	AccessToken(ctx context.Context) (string, error)
	NearestLocation(ctx context.Context, token, zip string) (*kroger.Location, error)
	SearchProducts(ctx context.Context, token, term string, limit int, locationID string) ([]kroger.Product, error)
}

// Pipeline runs one mapped product through the price pipeline.
type Pipeline interface {
	Process(ctx context.Context, p products.Product) (products.PollResult, error)
}

// Config drives the poll loop.
type Config struct {
	Interval    time.Duration
	Watchlist   []string
	ZipCode     string
	SearchLimit int
}

// Scheduler polls the watchlist on a fixed interval. Identifiers are
// processed sequentially within one tick; a tick never overlaps the
// previous one.
type Scheduler struct {
	catalog  Catalog
	pipeline Pipeline
	cfg      Config
	log      *zap.Logger

	running sync.Mutex // held for the duration of a tick
}

func New(catalog Catalog, pipeline Pipeline, cfg Config, log *zap.Logger) *Scheduler {
	return &Scheduler{catalog: catalog, pipeline: pipeline, cfg: cfg, log: log.Named("scheduler")}
}

// Run blocks until ctx is cancelled, ticking once immediately and then on
// every interval.
func (s *Scheduler) Run(ctx context.Context) {
	interval := s.cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("scheduler started",
		zap.Duration("interval", interval),
		zap.Int("watched", len(s.cfg.Watchlist)))

	s.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one pass over the watchlist. A tick that would overlap a
// still-running one is skipped entirely rather than queued.
func (s *Scheduler) Tick(ctx context.Context) {
	if !s.running.TryLock() {
		s.log.Warn("previous tick still running, skipping")
		return
	}
	defer s.running.Unlock()

	token, err := s.catalog.AccessToken(ctx)
	if err != nil {
		s.log.Error("acquire token failed", zap.Error(err))
		return
	}

	loc, err := s.catalog.NearestLocation(ctx, token, s.cfg.ZipCode)
	if err != nil {
		s.log.Error("resolve store location failed", zap.Error(err))
		return
	}
	if loc == nil {
		s.log.Warn("no store location found", zap.String("zip", s.cfg.ZipCode))
		return
	}

	for _, id := range s.cfg.Watchlist {
		select {
		case <-ctx.Done():
			return
		default:
		}
		// one identifier's failure must not stop the rest of the tick
		if err := s.poll(ctx, token, loc.LocationID, id); err != nil {
			s.log.Error("poll failed", zap.String("id", id), zap.Error(err))
		}
	}
}

func (s *Scheduler) poll(ctx context.Context, token, locationID, id string) error {
	items, err := s.catalog.SearchProducts(ctx, token, id, s.cfg.SearchLimit, locationID)
	if err != nil {
		return err
	}

	var raw *kroger.Product
	for i := range items {
		if items[i].ProductID == id {
			raw = &items[i]
			break
		}
	}
	if raw == nil {
		s.log.Warn("watched product not in results", zap.String("id", id))
		return nil
	}

	result, err := s.pipeline.Process(ctx, products.MapProduct(*raw))
	if err != nil {
		return err
	}
	if result.Alert {
		s.log.Info("poll alert",
			zap.String("id", id),
			zap.Float64p("old_price", result.OldPrice),
			zap.Float64p("new_price", result.NewPrice))
	}
	return nil
}
