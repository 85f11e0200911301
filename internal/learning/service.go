// Package learning appends assessed quotes to the catalog and keeps rollups
// consistent. Learning is best-effort: it never blocks or fails the primary
// price-fairness answer.
package learning

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/muzammal-12/CarApp/internal/assessment"
	"github.com/muzammal-12/CarApp/internal/catalog"
	"github.com/muzammal-12/CarApp/internal/compare"
	"github.com/muzammal-12/CarApp/internal/normalize"
	"github.com/muzammal-12/CarApp/pkg/db/models"
	"github.com/muzammal-12/CarApp/pkg/enums"
	"github.com/muzammal-12/CarApp/pkg/logger"
	"github.com/muzammal-12/CarApp/pkg/metrics"
)

// QuoteContext carries the submission metadata attached to a learned quote.
type QuoteContext struct {
	Label      string
	City       string
	VehicleRef string
	UserRef    string
	Notes      string
}

// RateInvalidator drops a cached resolved rate after the backing entry
// changes. Satisfied by *rates.Resolver.
type RateInvalidator interface {
	Invalidate(ctx context.Context, region, key string)
}

// Service is the crowd-learning writer.
type Service struct {
	repo          *catalog.Repository
	defaultRegion string
	currency      enums.Currency
	logg          *logger.Logger
	metrics       *metrics.PricingMetrics
	invalidator   RateInvalidator
}

// Option configures optional writer behavior.
type Option func(*Service)

// WithInvalidator wires rate-cache invalidation into every successful append,
// so cached estimates never lag a learned quote.
func WithInvalidator(inv RateInvalidator) Option {
	return func(s *Service) {
		s.invalidator = inv
	}
}

// NewService builds the writer on the catalog repository.
func NewService(repo *catalog.Repository, defaultRegion string, currency enums.Currency, logg *logger.Logger, m *metrics.PricingMetrics, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if defaultRegion == "" {
		defaultRegion = catalog.DefaultRegion
	}
	if currency == "" {
		currency = enums.CurrencyUSD
	}
	s := &Service{
		repo:          repo,
		defaultRegion: defaultRegion,
		currency:      currency,
		logg:          logg,
		metrics:       m,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// RecordQuote appends one quote with an optional assessment snapshot.
// Non-positive prices and empty keys are rejected silently: learning must
// never block the comparison flow, so there is nothing to report. Storage
// failures are logged and swallowed for the same reason.
func (s *Service) RecordQuote(ctx context.Context, region, key string, price float64, qctx QuoteContext, result *assessment.Assessment) {
	if key == "" || price <= 0 {
		return
	}
	if region == "" {
		region = s.defaultRegion
	}

	quote := models.UserQuote{
		Price:      price,
		City:       qctx.City,
		VehicleRef: qctx.VehicleRef,
		UserRef:    qctx.UserRef,
		Notes:      qctx.Notes,
	}
	applySnapshot(&quote, result)

	label := qctx.Label
	if label == "" {
		label = key
	}

	_, err := s.repo.AppendQuote(ctx, region, key, catalog.AppendQuoteInput{
		Label:    label,
		Currency: s.currency,
		Quote:    quote,
	})
	if err != nil {
		if s.logg != nil {
			lctx := s.logg.WithServiceKey(s.logg.WithRegion(ctx, region), key)
			s.logg.Error(lctx, "crowd-learning append failed", err)
		}
		return
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, region, key)
	}
	if s.metrics != nil {
		s.metrics.IncQuoteLearned()
	}
}

// LearnAssessed satisfies the comparison orchestrator's Learner capability.
func (s *Service) LearnAssessed(ctx context.Context, region, key string, item compare.LineItem, vehicle compare.VehicleContext, result *assessment.Assessment) {
	s.RecordQuote(ctx, region, key, item.Total(), QuoteContext{
		Label:      item.Label,
		City:       vehicle.City,
		VehicleRef: fmt.Sprintf("%d %s %s", vehicle.Year, vehicle.Make, vehicle.Model),
		UserRef:    vehicle.UserRef,
		Notes:      item.Notes,
	}, result)
}

// BatchLine is one raw ingestion line for the learn endpoint.
type BatchLine struct {
	Label string
	Qty   int
	Price float64
}

// RecordBatch ingests a fire-and-forget batch. Invalid lines are skipped, the
// rest are appended; skip reasons are aggregated into one log entry. The
// method always succeeds from the caller's perspective.
func (s *Service) RecordBatch(ctx context.Context, region, city, userRef string, lines []BatchLine) (accepted, skipped int) {
	var skips error
	for i, line := range lines {
		qty := line.Qty
		if qty < 1 {
			qty = 1
		}
		total := float64(qty) * line.Price
		if total <= 0 {
			skipped++
			skips = multierr.Append(skips, fmt.Errorf("line %d (%q): non-positive price", i, line.Label))
			continue
		}
		key := normalize.Key(line.Label)

		s.RecordQuote(ctx, region, key, total, QuoteContext{
			Label:   line.Label,
			City:    city,
			UserRef: userRef,
		}, nil)
		accepted++
	}

	if skips != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "skipped", skipped), "learn batch skipped invalid lines: "+skips.Error())
	}
	return accepted, skipped
}

func applySnapshot(quote *models.UserQuote, result *assessment.Assessment) {
	if result == nil {
		return
	}
	decision := result.Decision
	if !decision.IsValid() {
		decision = enums.VerdictUnknown
	}
	confidence := result.Confidence
	quote.AssessDecision = &decision
	quote.AssessConfidence = &confidence
	if result.Rationale != "" {
		rationale := result.Rationale
		quote.AssessRationale = &rationale
	}
	if result.FairRange != nil {
		min, max := result.FairRange.Min, result.FairRange.Max
		quote.AssessFairMin = &min
		quote.AssessFairMax = &max
	}
	if result.Provider != "" {
		provider := result.Provider
		quote.AssessProvider = &provider
	}
	if len(result.ProviderNotes) > 0 {
		quote.ProviderNotes = result.ProviderNotes
	}
}
