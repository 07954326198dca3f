package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zenday/pricewatch/internal/kroger"
	"github.com/zenday/pricewatch/internal/products"
)

type fakeCatalog struct {
	token     string
	tokenErr  error
	location  *kroger.Location
	locErr    error
	results   map[string][]kroger.Product
	searchErr map[string]error

	searched []string
}

func (f *fakeCatalog) AccessToken(context.Context) (string, error) {
	return f.token, f.tokenErr
}

func (f *fakeCatalog) NearestLocation(_ context.Context, _, _ string) (*kroger.Location, error) {
	return f.location, f.locErr
}

func (f *fakeCatalog) SearchProducts(_ context.Context, _, term string, _ int, _ string) ([]kroger.Product, error) {
	f.searched = append(f.searched, term)
	if err := f.searchErr[term]; err != nil {
		return nil, err
	}
	return f.results[term], nil
}

type recordingPipeline struct {
	processed []products.Product
	err       error
}

func (r *recordingPipeline) Process(_ context.Context, p products.Product) (products.PollResult, error) {
	r.processed = append(r.processed, p)
	return products.PollResult{Alert: true, NewPrice: p.PromoPrice}, r.err
}

func newTestScheduler(catalog *fakeCatalog, pipeline *recordingPipeline, watchlist ...string) *Scheduler {
	return New(catalog, pipeline, Config{
		Interval:    time.Minute,
		Watchlist:   watchlist,
		ZipCode:     "45202",
		SearchLimit: 5,
	}, zap.NewNop())
}

func vendorProduct(id string) kroger.Product {
	promo := 4.5
	return kroger.Product{
		ProductID: id,
		Items:     []kroger.Item{{Price: kroger.Price{Promo: &promo}}},
	}
}

func TestTickAbortsWhenLocationUnresolved(t *testing.T) {
	catalog := &fakeCatalog{token: "tok", location: nil}
	pipeline := &recordingPipeline{}
	s := newTestScheduler(catalog, pipeline, "A", "B")

	s.Tick(context.Background())

	assert.Empty(t, catalog.searched, "no catalog queries after an unresolved location")
	assert.Empty(t, pipeline.processed, "no writes for an aborted tick")
}

func TestTickAbortsWhenTokenUnavailable(t *testing.T) {
	catalog := &fakeCatalog{tokenErr: errors.New("auth down")}
	pipeline := &recordingPipeline{}
	s := newTestScheduler(catalog, pipeline, "A")

	s.Tick(context.Background())

	assert.Empty(t, pipeline.processed)
}

func TestTickSkipsIdentifierNotInResults(t *testing.T) {
	catalog := &fakeCatalog{
		token:    "tok",
		location: &kroger.Location{LocationID: "L1"},
		results: map[string][]kroger.Product{
			"A": {vendorProduct("other1"), vendorProduct("other2")},
			"B": {vendorProduct("B")},
		},
	}
	pipeline := &recordingPipeline{}
	s := newTestScheduler(catalog, pipeline, "A", "B")

	s.Tick(context.Background())

	require.Len(t, pipeline.processed, 1)
	assert.Equal(t, "B", pipeline.processed[0].ID)
	assert.Equal(t, []string{"A", "B"}, catalog.searched)
}

func TestTickIsolatesPerIdentifierFailures(t *testing.T) {
	catalog := &fakeCatalog{
		token:     "tok",
		location:  &kroger.Location{LocationID: "L1"},
		results:   map[string][]kroger.Product{"B": {vendorProduct("B")}},
		searchErr: map[string]error{"A": errors.New("upstream 500")},
	}
	pipeline := &recordingPipeline{}
	s := newTestScheduler(catalog, pipeline, "A", "B")

	s.Tick(context.Background())

	require.Len(t, pipeline.processed, 1, "failure on A must not stop B")
	assert.Equal(t, "B", pipeline.processed[0].ID)
}

func TestTickMapsBeforeProcessing(t *testing.T) {
	raw := vendorProduct("A")
	raw.Description = "Milk"
	catalog := &fakeCatalog{
		token:    "tok",
		location: &kroger.Location{LocationID: "L1"},
		results:  map[string][]kroger.Product{"A": {raw}},
	}
	pipeline := &recordingPipeline{}
	s := newTestScheduler(catalog, pipeline, "A")

	s.Tick(context.Background())

	require.Len(t, pipeline.processed, 1)
	got := pipeline.processed[0]
	assert.Equal(t, "A", got.ID)
	assert.Equal(t, "Milk", got.Name)
	require.NotNil(t, got.PromoPrice)
	assert.Equal(t, 4.5, *got.PromoPrice)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	catalog := &fakeCatalog{token: "tok", location: &kroger.Location{LocationID: "L1"}}
	s := newTestScheduler(catalog, &recordingPipeline{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestTickNeverOverlaps(t *testing.T) {
	catalog := &fakeCatalog{token: "tok", location: &kroger.Location{LocationID: "L1"}}
	pipeline := &recordingPipeline{}
	s := newTestScheduler(catalog, pipeline, "A")

	// simulate a tick in progress; the second invocation must be a no-op
	require.True(t, s.running.TryLock())
	s.Tick(context.Background())
	s.running.Unlock()

	assert.Empty(t, pipeline.processed)
	assert.Empty(t, catalog.searched)
}
