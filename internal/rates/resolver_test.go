package rates

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/muzammal-12/CarApp/internal/heuristics"
	"github.com/muzammal-12/CarApp/pkg/db/models"
	"github.com/muzammal-12/CarApp/pkg/enums"
)

type stubLookup struct {
	entry *models.CatalogEntry
	err   error
	calls int
}

func (s *stubLookup) GetWithQuotes(_ context.Context, _, _ string) (*models.CatalogEntry, error) {
	s.calls++
	return s.entry, s.err
}

type stubCache struct {
	values map[string]string
	sets   int
	dels   int
}

func newStubCache() *stubCache {
	return &stubCache{values: map[string]string{}}
}

func (s *stubCache) Get(_ context.Context, key string) (string, error) {
	if value, ok := s.values[key]; ok {
		return value, nil
	}
	return "", errors.New("cache miss")
}

func (s *stubCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.values[key] = value.(string)
	s.sets++
	return nil
}

func (s *stubCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	s.dels++
	return nil
}

func entryWithQuotes(prices ...float64) *models.CatalogEntry {
	quotes := make([]models.UserQuote, len(prices))
	for i, price := range prices {
		quotes[i] = models.UserQuote{Price: price}
	}
	return &models.CatalogEntry{
		Label:       "Oil change",
		Currency:    enums.CurrencyUSD,
		Quotes:      quotes,
		QuotesCount: len(quotes),
	}
}

func TestResolveCrowdTier(t *testing.T) {
	lookup := &stubLookup{entry: entryWithQuotes(100, 120, 110, 90, 130)}
	resolver := NewResolver(lookup, enums.CurrencyUSD)

	rate := resolver.Resolve(context.Background(), "global", "oil_change", "Oil change")
	if rate.Source != enums.RateSourceUserQuotes {
		t.Fatalf("source = %s, want crowd tier", rate.Source)
	}
	if rate.AvgPrice != 110 || rate.RangeMin != 100 || rate.RangeMax != 120 {
		t.Fatalf("unexpected band %v/%v/%v", rate.RangeMin, rate.AvgPrice, rate.RangeMax)
	}
	if rate.QuotesCount != 5 {
		t.Fatalf("quotes_count = %d, want 5", rate.QuotesCount)
	}
}

func TestResolveBaselineTierBelowSampleGate(t *testing.T) {
	min, max := 60.0, 100.0
	entry := entryWithQuotes(80, 85)
	entry.BaseRangeMin = &min
	entry.BaseRangeMax = &max
	resolver := NewResolver(&stubLookup{entry: entry}, enums.CurrencyUSD)

	rate := resolver.Resolve(context.Background(), "global", "oil_change", "")
	if rate.Source != enums.RateSourceBaseRange {
		t.Fatalf("source = %s, want baseline tier", rate.Source)
	}
	if rate.AvgPrice != 80 {
		t.Fatalf("avg = %v, want midpoint 80", rate.AvgPrice)
	}
}

func TestResolveHeuristicTier(t *testing.T) {
	resolver := NewResolver(&stubLookup{err: errors.New("boom")}, enums.CurrencyUSD)

	rate := resolver.Resolve(context.Background(), "global", "oil_change", "Oil change")
	if rate.Source != enums.RateSourceHeuristic {
		t.Fatalf("source = %s, want heuristic tier", rate.Source)
	}
	want := heuristics.RateFor("oil_change")
	if rate.AvgPrice != want.Avg || rate.RangeMin != want.Min || rate.RangeMax != want.Max {
		t.Fatalf("unexpected heuristic band %+v", rate)
	}
}

func TestResolveNeverFailsWithNilLookup(t *testing.T) {
	resolver := NewResolver(nil, enums.CurrencyUSD)

	rate := resolver.Resolve(context.Background(), "", "never_seen_before", "")
	if rate.Source != enums.RateSourceHeuristic {
		t.Fatalf("source = %s, want heuristic tier", rate.Source)
	}
	if rate.AvgPrice <= 0 || rate.RangeMin <= 0 || rate.RangeMax <= 0 {
		t.Fatalf("unusable fallback rate %+v", rate)
	}
	if rate.Currency != enums.CurrencyUSD {
		t.Fatalf("currency = %s, want default", rate.Currency)
	}
}

func TestResolveUsesCache(t *testing.T) {
	cache := newStubCache()
	lookup := &stubLookup{entry: entryWithQuotes(100, 120, 110, 90, 130)}
	resolver := NewResolver(lookup, enums.CurrencyUSD, WithCache(cache, time.Minute))

	first := resolver.Resolve(context.Background(), "global", "oil_change", "Oil change")
	second := resolver.Resolve(context.Background(), "global", "oil_change", "Oil change")

	if lookup.calls != 1 {
		t.Fatalf("lookup called %d times, want 1 (second read from cache)", lookup.calls)
	}
	if cache.sets != 1 {
		t.Fatalf("cache written %d times, want 1", cache.sets)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("cached rate diverged: %s vs %s", a, b)
	}
}

func TestResolveDefaultsEmptyRegion(t *testing.T) {
	cache := newStubCache()
	resolver := NewResolver(nil, enums.CurrencyUSD, WithCache(cache, time.Minute))

	resolver.Resolve(context.Background(), "", "oil_change", "")
	if _, ok := cache.values["carapp:rate:global:oil_change"]; !ok {
		t.Fatalf("empty region not cached under global scope: %v", cache.values)
	}

	// Invalidation applies the same default scope.
	resolver.Invalidate(context.Background(), "", "oil_change")
	if _, ok := cache.values["carapp:rate:global:oil_change"]; ok {
		t.Fatalf("empty-region invalidation missed the global key: %v", cache.values)
	}
}

func TestInvalidateDropsStaleCachedRate(t *testing.T) {
	ctx := context.Background()
	cache := newStubCache()
	lookup := &stubLookup{}
	resolver := NewResolver(lookup, enums.CurrencyUSD, WithCache(cache, time.Minute))

	first := resolver.Resolve(ctx, "global", "oil_change", "Oil change")
	if first.Source != enums.RateSourceHeuristic {
		t.Fatalf("source = %s, want heuristic before any quotes", first.Source)
	}

	// Five quotes arrive; the cached heuristic rate is now stale.
	lookup.entry = entryWithQuotes(100, 120, 110, 90, 130)
	stale := resolver.Resolve(ctx, "global", "oil_change", "Oil change")
	if stale.Source != enums.RateSourceHeuristic {
		t.Fatalf("expected cached heuristic rate before invalidation, got %s", stale.Source)
	}

	resolver.Invalidate(ctx, "global", "oil_change")
	fresh := resolver.Resolve(ctx, "global", "oil_change", "Oil change")
	if fresh.Source != enums.RateSourceUserQuotes {
		t.Fatalf("source = %s, want crowd tier after invalidation", fresh.Source)
	}
	if fresh.AvgPrice != 110 || fresh.RangeMin != 100 || fresh.RangeMax != 120 {
		t.Fatalf("unexpected band %v/%v/%v", fresh.RangeMin, fresh.AvgPrice, fresh.RangeMax)
	}
	if cache.dels != 1 {
		t.Fatalf("cache deletes = %d, want 1", cache.dels)
	}
}

func TestInvalidateIsSafeWithoutCache(t *testing.T) {
	resolver := NewResolver(nil, enums.CurrencyUSD)
	resolver.Invalidate(context.Background(), "global", "oil_change")

	var nilResolver *Resolver
	nilResolver.Invalidate(context.Background(), "global", "oil_change")
}
