// Package compare orchestrates per-line fairness verdicts for a batch of
// quoted line items, degrading to a heuristic-only verdict generator when the
// AI path is unavailable.
package compare

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/muzammal-12/CarApp/internal/assessment"
	"github.com/muzammal-12/CarApp/internal/normalize"
	"github.com/muzammal-12/CarApp/internal/rates"
	"github.com/muzammal-12/CarApp/pkg/enums"
	pkgerrors "github.com/muzammal-12/CarApp/pkg/errors"
	"github.com/muzammal-12/CarApp/pkg/logger"
	"github.com/muzammal-12/CarApp/pkg/metrics"
)

// VehicleContext is the assessment context supplied by the caller. All three
// attributes are required for the AI path.
type VehicleContext struct {
	Make    string
	Model   string
	Year    int
	City    string
	Region  string
	UserRef string
}

// LineItem is one quoted line as submitted.
type LineItem struct {
	Label     string
	Quantity  int
	UnitPrice float64
	Notes     string
}

// Total is quantity times unit price with the quantity floor applied.
func (li LineItem) Total() float64 {
	qty := li.Quantity
	if qty < 1 {
		qty = 1
	}
	return float64(qty) * li.UnitPrice
}

// Row echoes a line item plus its resolved verdict. Verdict is always one of
// the three enumerated values, never empty.
type Row struct {
	Label      string         `json:"label"`
	ServiceKey string         `json:"service_key"`
	Quantity   int            `json:"quantity"`
	UnitPrice  float64        `json:"unit_price"`
	Total      float64        `json:"total"`
	Verdict    enums.Verdict  `json:"verdict"`
	Confidence *float64       `json:"confidence,omitempty"`
	FairMin    *float64       `json:"fair_min,omitempty"`
	FairMax    *float64       `json:"fair_max,omitempty"`
	Currency   enums.Currency `json:"currency"`
	// DeltaPercent is (total - fair midpoint) / midpoint * 100, one decimal,
	// omitted when either bound is missing.
	DeltaPercent *float64 `json:"delta_percent,omitempty"`
	Rationale    string   `json:"rationale,omitempty"`
	Note         string   `json:"note,omitempty"`
}

// Assessor is the AI client capability the orchestrator depends on.
type Assessor interface {
	Assess(ctx context.Context, req assessment.Request) (*assessment.Assessment, error)
	Configured() bool
	Provider() string
}

// Learner receives every assessed quote for crowd learning. Implementations
// are best-effort and must never fail the comparison.
type Learner interface {
	LearnAssessed(ctx context.Context, region, key string, item LineItem, vehicle VehicleContext, result *assessment.Assessment)
}

// Service wires the orchestrator's collaborators.
type Service struct {
	assessor Assessor
	resolver *rates.Resolver
	learner  Learner
	currency enums.Currency
	logg     *logger.Logger
	metrics  *metrics.PricingMetrics
}

// NewService builds the orchestrator. learner may be nil (no crowd learning),
// and metrics/logger are optional.
func NewService(assessor Assessor, resolver *rates.Resolver, learner Learner, currency enums.Currency, logg *logger.Logger, m *metrics.PricingMetrics) (*Service, error) {
	if assessor == nil {
		return nil, fmt.Errorf("assessor required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("rate resolver required")
	}
	if currency == "" {
		currency = enums.CurrencyUSD
	}
	return &Service{
		assessor: assessor,
		resolver: resolver,
		learner:  learner,
		currency: currency,
		logg:     logg,
		metrics:  m,
	}, nil
}

// Compare assesses each line item in input order. A missing provider
// credential aborts the whole batch (no partial results); invalid provider
// output degrades only the affected row.
func (s *Service) Compare(ctx context.Context, vehicle VehicleContext, items []LineItem) ([]Row, error) {
	if err := validateVehicle(vehicle); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required").
			WithDetails(map[string]string{"items": "must not be empty"})
	}
	if !s.assessor.Configured() {
		return nil, pkgerrors.Wrap(pkgerrors.CodeAINotConfigured, assessment.ErrNotConfigured, "assessment provider unavailable")
	}

	rows := make([]Row, 0, len(items))
	for _, item := range items {
		row := s.baseRow(item)

		// Fee-like lines (tax, disposal, shop supplies, bare labor) carry no
		// priceable service context: they stay in the output but are never
		// sent to the provider and score as unknown.
		if normalize.IsFeeLike(item.Label) {
			row.Verdict = enums.VerdictUnknown
			row.Note = "fee or overhead line, not scored"
			rows = append(rows, row)
			continue
		}

		result, err := s.assessor.Assess(ctx, assessment.Request{
			VehicleMake:  vehicle.Make,
			VehicleModel: vehicle.Model,
			VehicleYear:  vehicle.Year,
			ServiceName:  item.Label,
			QuotedPrice:  row.Total,
			Currency:     s.currency,
			City:         vehicle.City,
			Region:       vehicle.Region,
			Notes:        item.Notes,
		})
		switch {
		case errors.Is(err, assessment.ErrNotConfigured):
			// Configuration evaporated mid-batch; abort rather than return a
			// partial report.
			return nil, pkgerrors.Wrap(pkgerrors.CodeAINotConfigured, err, "assessment provider unavailable")
		case err != nil:
			row.Verdict = enums.VerdictUnknown
			row.Note = "assessment unavailable for this item"
			if s.logg != nil {
				s.logg.Warn(s.logg.WithServiceKey(ctx, row.ServiceKey), "provider output invalid, row degraded")
			}
		default:
			applyAssessment(&row, result)
			if s.learner != nil {
				s.learner.LearnAssessed(ctx, vehicle.Region, row.ServiceKey, item, vehicle, result)
			}
		}

		rows = append(rows, row)
	}

	if s.metrics != nil {
		s.metrics.IncComparison("ai")
	}
	return rows, nil
}

// AssessSingle answers one fairness question. The unavailable signal is
// surfaced distinctly; invalid output degrades to an unknown verdict with a
// rationale note, never to heuristic data.
func (s *Service) AssessSingle(ctx context.Context, vehicle VehicleContext, serviceName string, price float64) (*assessment.Assessment, error) {
	if err := validateVehicle(vehicle); err != nil {
		return nil, err
	}
	if serviceName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service name is required").
			WithDetails(map[string]string{"service": "is required"})
	}
	if price <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive").
			WithDetails(map[string]string{"price": "must be greater than zero"})
	}

	result, err := s.assessor.Assess(ctx, assessment.Request{
		VehicleMake:  vehicle.Make,
		VehicleModel: vehicle.Model,
		VehicleYear:  vehicle.Year,
		ServiceName:  serviceName,
		QuotedPrice:  price,
		Currency:     s.currency,
		City:         vehicle.City,
		Region:       vehicle.Region,
	})
	switch {
	case errors.Is(err, assessment.ErrNotConfigured):
		return nil, pkgerrors.Wrap(pkgerrors.CodeAINotConfigured, err, "assessment provider unavailable")
	case err != nil:
		return &assessment.Assessment{
			Decision:   enums.VerdictUnknown,
			Confidence: 0,
			Rationale:  "provider output could not be interpreted",
			Provider:   s.assessor.Provider(),
		}, nil
	}

	if s.learner != nil {
		s.learner.LearnAssessed(ctx, vehicle.Region, normalize.Key(serviceName), LineItem{
			Label:     serviceName,
			Quantity:  1,
			UnitPrice: price,
		}, vehicle, result)
	}
	return result, nil
}

func (s *Service) baseRow(item LineItem) Row {
	qty := item.Quantity
	if qty < 1 {
		qty = 1
	}
	return Row{
		Label:      item.Label,
		ServiceKey: normalize.Key(item.Label),
		Quantity:   qty,
		UnitPrice:  item.UnitPrice,
		Total:      item.Total(),
		Verdict:    enums.VerdictUnknown,
		Currency:   s.currency,
	}
}

func applyAssessment(row *Row, result *assessment.Assessment) {
	row.Verdict = result.Decision
	confidence := result.Confidence
	row.Confidence = &confidence
	row.Rationale = result.Rationale
	if result.FairRange != nil {
		min, max := result.FairRange.Min, result.FairRange.Max
		row.FairMin = &min
		row.FairMax = &max
		if delta, ok := deltaPercent(row.Total, min, max); ok {
			row.DeltaPercent = &delta
		}
	}
}

// deltaPercent compares the entered total against the midpoint of the fair
// range, rounded to one decimal.
func deltaPercent(total, min, max float64) (float64, bool) {
	midpoint := (min + max) / 2
	if midpoint <= 0 {
		return 0, false
	}
	delta := decimal.NewFromFloat(total).
		Sub(decimal.NewFromFloat(midpoint)).
		Div(decimal.NewFromFloat(midpoint)).
		Mul(decimal.NewFromInt(100)).
		Round(1)
	value, _ := delta.Float64()
	return value, true
}

func validateVehicle(vehicle VehicleContext) error {
	details := map[string]string{}
	if vehicle.Make == "" {
		details["vehicle.make"] = "is required"
	}
	if vehicle.Model == "" {
		details["vehicle.model"] = "is required"
	}
	if vehicle.Year <= 0 {
		details["vehicle.year"] = "is required"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "vehicle context incomplete").WithDetails(details)
	}
	return nil
}
