package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/muzammal-12/CarApp/api/responses"
	"github.com/muzammal-12/CarApp/api/validators"
	"github.com/muzammal-12/CarApp/internal/catalog"
	"github.com/muzammal-12/CarApp/internal/rates"
	"github.com/muzammal-12/CarApp/pkg/db/models"
	"github.com/muzammal-12/CarApp/pkg/enums"
	pkgerrors "github.com/muzammal-12/CarApp/pkg/errors"
	"github.com/muzammal-12/CarApp/pkg/logger"
)

var serviceKeyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

type catalogRollups struct {
	QuotesCount     int     `json:"quotes_count"`
	AvgUserPrice    float64 `json:"avg_user_price"`
	FairCount       int     `json:"fair_count"`
	OverpricedCount int     `json:"overpriced_count"`
	UnknownCount    int     `json:"unknown_count"`
}

type catalogBaseRange struct {
	Min       float64    `json:"min"`
	Max       float64    `json:"max"`
	Source    string     `json:"source,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type catalogEntryResponse struct {
	Region     string             `json:"region"`
	ServiceKey string             `json:"service_key"`
	Rate       rates.ResolvedRate `json:"rate"`
	Rollups    *catalogRollups    `json:"rollups,omitempty"`
	BaseRange  *catalogBaseRange  `json:"base_range,omitempty"`

	LastAssessmentProvider *string    `json:"last_assessment_provider,omitempty"`
	LastAssessedAt         *time.Time `json:"last_assessed_at,omitempty"`
}

// CatalogEntry returns the resolved rate plus the raw rollups for one service
// key. Rate resolution never fails, so 404 is reserved for malformed keys;
// entries that have never seen a quote answer with the heuristic rate and no
// rollup block.
func CatalogEntry(repo *catalog.Repository, resolver *rates.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if repo == nil || resolver == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		key := chi.URLParam(r, "key")
		if !serviceKeyPattern.MatchString(key) {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeNotFound, "unknown service key"))
			return
		}
		region := validators.QueryString(r, "region", catalog.DefaultRegion)

		resp := catalogEntryResponse{
			Region:     region,
			ServiceKey: key,
			Rate:       resolver.Resolve(ctx, region, key, ""),
		}

		entry, err := repo.Get(ctx, region, key)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			// No stored entry; the heuristic rate above is the whole answer.
		case err != nil:
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog read failed"))
			return
		default:
			attachEntry(&resp, entry)
		}

		responses.WriteSuccess(w, resp)
	}
}

func attachEntry(resp *catalogEntryResponse, entry *models.CatalogEntry) {
	resp.Rollups = &catalogRollups{
		QuotesCount:     entry.QuotesCount,
		AvgUserPrice:    entry.AvgUserPrice,
		FairCount:       entry.FairCount,
		OverpricedCount: entry.OverpricedCount,
		UnknownCount:    entry.UnknownCount,
	}
	if entry.HasBaseRange() {
		br := &catalogBaseRange{
			Min:       *entry.BaseRangeMin,
			Max:       *entry.BaseRangeMax,
			UpdatedAt: entry.BaseRangeUpdatedAt,
		}
		if entry.BaseRangeSource != nil {
			br.Source = *entry.BaseRangeSource
		}
		resp.BaseRange = br
	}
	resp.LastAssessmentProvider = entry.LastAssessmentProvider
	resp.LastAssessedAt = entry.LastAssessedAt
}

type baseRangePayload struct {
	Label    string  `json:"label"`
	Currency string  `json:"currency"`
	Min      float64 `json:"min" validate:"gt=0"`
	Max      float64 `json:"max" validate:"gt=0"`
	Source   string  `json:"source"`
}

// CatalogUpsertBaseRange records or replaces the curated baseline for a
// (region, key) pair. The resolver's cached estimate for the pair is dropped
// so the new baseline takes effect immediately.
func CatalogUpsertBaseRange(repo *catalog.Repository, resolver *rates.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if repo == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		key := chi.URLParam(r, "key")
		if !serviceKeyPattern.MatchString(key) {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeNotFound, "unknown service key"))
			return
		}

		var payload baseRangePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if payload.Max < payload.Min {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "max must not be below min").
					WithDetails(map[string]string{"max": "must be at least min"}))
			return
		}

		currency := enums.CurrencyUSD
		if payload.Currency != "" {
			parsed, err := enums.ParseCurrency(payload.Currency)
			if err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported currency").
						WithDetails(map[string]string{"currency": "is invalid"}))
				return
			}
			currency = parsed
		}

		region := validators.QueryString(r, "region", catalog.DefaultRegion)
		entry, err := repo.UpsertBaseRange(ctx, region, key, payload.Label,
			currency, payload.Min, payload.Max, payload.Source)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog write failed"))
			return
		}
		resolver.Invalidate(ctx, region, key)

		resp := catalogEntryResponse{Region: region, ServiceKey: key}
		attachEntry(&resp, entry)
		responses.WriteSuccess(w, resp)
	}
}
