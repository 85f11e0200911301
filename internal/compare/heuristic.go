package compare

import (
	"context"

	"github.com/muzammal-12/CarApp/internal/normalize"
	"github.com/muzammal-12/CarApp/pkg/enums"
)

// Margin applied around the resolver's average price for the no-AI verdict.
const heuristicMargin = 0.20

// CompareHeuristic is the AI-free fallback path: each line is classified
// against ±20% of the resolver's average price. It never fails; any internal
// problem degrades the remaining rows to unknown with a note instead of
// raising.
func (s *Service) CompareHeuristic(ctx context.Context, region string, items []LineItem) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, s.heuristicRow(ctx, region, item))
	}
	if s.metrics != nil {
		s.metrics.IncComparison("heuristic")
	}
	return rows
}

func (s *Service) heuristicRow(ctx context.Context, region string, item LineItem) (row Row) {
	row = s.baseRow(item)
	row.Verdict = enums.VerdictUnknown
	row.Note = "questionable: could not evaluate"

	defer func() {
		if r := recover(); r != nil {
			row.Verdict = enums.VerdictUnknown
			row.Note = "questionable: could not evaluate"
			if s.logg != nil {
				s.logg.Warn(s.logg.WithServiceKey(ctx, row.ServiceKey), "heuristic verdict recovered from panic")
			}
		}
	}()

	if normalize.IsFeeLike(item.Label) {
		row.Note = "fee or overhead line, not scored"
		return row
	}

	rate := s.resolver.Resolve(ctx, region, row.ServiceKey, item.Label)
	if rate.AvgPrice <= 0 {
		return row
	}

	min := rate.AvgPrice * (1 - heuristicMargin)
	max := rate.AvgPrice * (1 + heuristicMargin)
	row.FairMin = &min
	row.FairMax = &max
	row.Currency = rate.Currency
	if delta, ok := deltaPercent(row.Total, min, max); ok {
		row.DeltaPercent = &delta
	}

	switch {
	case row.Total > max:
		row.Verdict = enums.VerdictOverpriced
		row.Note = "above the typical range for this service"
	case row.Total < min:
		row.Verdict = enums.VerdictUnknown
		row.Note = "questionable: well below the typical range"
	default:
		row.Verdict = enums.VerdictFair
		row.Note = ""
	}
	return row
}
