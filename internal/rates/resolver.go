// Package rates picks the best available price estimate for a service key,
// degrading from crowd statistics to curated baselines to the static
// heuristic table. Resolution never fails.
package rates

import (
	"context"
	"encoding/json"
	"time"

	"github.com/muzammal-12/CarApp/internal/heuristics"
	"github.com/muzammal-12/CarApp/internal/stats"
	"github.com/muzammal-12/CarApp/pkg/db/models"
	"github.com/muzammal-12/CarApp/pkg/enums"
	"github.com/muzammal-12/CarApp/pkg/logger"
	"github.com/muzammal-12/CarApp/pkg/redis"
)

// ResolvedRate is the estimate published for one (region, key) pair.
type ResolvedRate struct {
	ServiceKey    string           `json:"service_key"`
	Label         string           `json:"label"`
	AvgPrice      float64          `json:"avg_price"`
	RangeMin      float64          `json:"range_min"`
	RangeMax      float64          `json:"range_max"`
	StandardHours *float64         `json:"standard_hours,omitempty"`
	Currency      enums.Currency   `json:"currency"`
	Source        enums.RateSource `json:"source"`
	QuotesCount   int              `json:"quotes_count"`
}

// CatalogLookup is the capability the resolver needs from the catalog store.
// A nil lookup degrades the resolver to heuristic-only behavior.
type CatalogLookup interface {
	GetWithQuotes(ctx context.Context, region, key string) (*models.CatalogEntry, error)
}

// Cache is the optional short-TTL cache in front of resolution. Errors from
// the cache are swallowed: a cache problem must never affect an estimate.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Resolver resolves rates against an abstract catalog lookup.
type Resolver struct {
	lookup          CatalogLookup
	cache           Cache
	cacheTTL        time.Duration
	defaultCurrency enums.Currency
	logg            *logger.Logger
}

// Option configures optional resolver behavior.
type Option func(*Resolver)

// WithCache attaches a short-TTL cache.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(r *Resolver) {
		if cache != nil && ttl > 0 {
			r.cache = cache
			r.cacheTTL = ttl
		}
	}
}

// WithLogger attaches a logger for cache diagnostics.
func WithLogger(logg *logger.Logger) Option {
	return func(r *Resolver) {
		r.logg = logg
	}
}

// NewResolver builds a resolver. lookup may be nil, in which case only the
// heuristic tier is available.
func NewResolver(lookup CatalogLookup, defaultCurrency enums.Currency, opts ...Option) *Resolver {
	if defaultCurrency == "" {
		defaultCurrency = enums.CurrencyUSD
	}
	r := &Resolver{
		lookup:          lookup,
		defaultCurrency: defaultCurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve returns the best available estimate for (region, key). Resolution
// order: crowd band from at least stats.MinSamples quotes, curated baseline
// midpoint, heuristic table. Absence of data is not an error.
func (r *Resolver) Resolve(ctx context.Context, region, key, label string) ResolvedRate {
	if region == "" {
		region = "global"
	}
	if cached, ok := r.fromCache(ctx, region, key); ok {
		return cached
	}

	rate := r.resolve(ctx, region, key, label)
	r.toCache(ctx, region, key, rate)
	return rate
}

func (r *Resolver) resolve(ctx context.Context, region, key, label string) ResolvedRate {
	if r.lookup != nil {
		entry, err := r.lookup.GetWithQuotes(ctx, region, key)
		if err == nil && entry != nil {
			if band, ok := stats.Compute(quotePrices(entry)); ok {
				return ResolvedRate{
					ServiceKey:    key,
					Label:         coalesce(entry.Label, label, key),
					AvgPrice:      band.Median,
					RangeMin:      band.P25,
					RangeMax:      band.P75,
					StandardHours: entry.StandardHours,
					Currency:      entry.Currency,
					Source:        enums.RateSourceUserQuotes,
					QuotesCount:   entry.QuotesCount,
				}
			}
			if entry.HasBaseRange() {
				min := *entry.BaseRangeMin
				max := *entry.BaseRangeMax
				return ResolvedRate{
					ServiceKey:    key,
					Label:         coalesce(entry.Label, label, key),
					AvgPrice:      (min + max) / 2,
					RangeMin:      min,
					RangeMax:      max,
					StandardHours: entry.StandardHours,
					Currency:      entry.Currency,
					Source:        enums.RateSourceBaseRange,
					QuotesCount:   entry.QuotesCount,
				}
			}
		} else if err != nil && r.logg != nil {
			// Catalog trouble degrades silently to the heuristic tier.
			r.logg.Warn(r.logg.WithServiceKey(ctx, key), "catalog lookup failed, using heuristic rate")
		}
	}

	heuristic := heuristics.RateFor(key)
	hours := heuristic.StandardHours
	return ResolvedRate{
		ServiceKey:    key,
		Label:         coalesce(label, key),
		AvgPrice:      heuristic.Avg,
		RangeMin:      heuristic.Min,
		RangeMax:      heuristic.Max,
		StandardHours: &hours,
		Currency:      r.defaultCurrency,
		Source:        enums.RateSourceHeuristic,
		QuotesCount:   0,
	}
}

// Invalidate drops the cached estimate for (region, key). Writers call this
// after mutating the backing entry so the next resolution reflects the new
// quote or baseline instead of waiting out the TTL. Cache errors are
// swallowed like everywhere else in the resolver.
func (r *Resolver) Invalidate(ctx context.Context, region, key string) {
	if r == nil || r.cache == nil {
		return
	}
	if region == "" {
		region = "global"
	}
	if err := r.cache.Del(ctx, redis.RateKey(region, key)); err != nil && r.logg != nil {
		r.logg.Warn(r.logg.WithServiceKey(ctx, key), "rate cache invalidation failed")
	}
}

func (r *Resolver) fromCache(ctx context.Context, region, key string) (ResolvedRate, bool) {
	if r.cache == nil {
		return ResolvedRate{}, false
	}
	raw, err := r.cache.Get(ctx, redis.RateKey(region, key))
	if err != nil {
		if !redis.IsMiss(err) && r.logg != nil {
			r.logg.Warn(r.logg.WithServiceKey(ctx, key), "rate cache read failed")
		}
		return ResolvedRate{}, false
	}
	var rate ResolvedRate
	if err := json.Unmarshal([]byte(raw), &rate); err != nil {
		return ResolvedRate{}, false
	}
	return rate, true
}

func (r *Resolver) toCache(ctx context.Context, region, key string, rate ResolvedRate) {
	if r.cache == nil {
		return
	}
	payload, err := json.Marshal(rate)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, redis.RateKey(region, key), string(payload), r.cacheTTL); err != nil && r.logg != nil {
		r.logg.Warn(r.logg.WithServiceKey(ctx, key), "rate cache write failed")
	}
}

func quotePrices(entry *models.CatalogEntry) []float64 {
	prices := make([]float64, len(entry.Quotes))
	for i, quote := range entry.Quotes {
		prices[i] = quote.Price
	}
	return prices
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
