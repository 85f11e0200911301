package controllers

import (
	"net/http"

	"github.com/muzammal-12/CarApp/api/middleware"
	"github.com/muzammal-12/CarApp/api/responses"
	"github.com/muzammal-12/CarApp/api/validators"
	"github.com/muzammal-12/CarApp/internal/compare"
	"github.com/muzammal-12/CarApp/internal/learning"
	pkgerrors "github.com/muzammal-12/CarApp/pkg/errors"
	"github.com/muzammal-12/CarApp/pkg/logger"
)

type vehiclePayload struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
}

type lineItemPayload struct {
	Label     string  `json:"label" validate:"required"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Notes     string  `json:"notes"`
}

type comparePayload struct {
	Vehicle vehiclePayload    `json:"vehicle"`
	City    string            `json:"city"`
	Region  string            `json:"region"`
	Items   []lineItemPayload `json:"items" validate:"dive"`
	// Lines are free-text quote lines, parsed server-side and appended after
	// the structured items.
	Lines []string `json:"lines"`
}

func (p comparePayload) toVehicle(userRef string) compare.VehicleContext {
	return compare.VehicleContext{
		Make:    p.Vehicle.Make,
		Model:   p.Vehicle.Model,
		Year:    p.Vehicle.Year,
		City:    p.City,
		Region:  p.Region,
		UserRef: userRef,
	}
}

func (p comparePayload) toItems() []compare.LineItem {
	items := make([]compare.LineItem, 0, len(p.Items)+len(p.Lines))
	for _, item := range p.Items {
		items = append(items, compare.LineItem{
			Label:     item.Label,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Notes:     item.Notes,
		})
	}
	for _, raw := range p.Lines {
		if item, ok := compare.ParseLine(raw); ok {
			items = append(items, item)
		}
	}
	return items
}

// QuotesCompare runs the full comparison pipeline over a batch of line items.
// `?mode=heuristic` skips the AI provider and answers from resolved rates
// alone; that path needs no vehicle context and never fails.
func QuotesCompare(svc *compare.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "comparison service unavailable"))
			return
		}

		var payload comparePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items := payload.toItems()
		if len(items) == 0 {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required").
					WithDetails(map[string]string{"items": "must not be empty"}))
			return
		}

		if validators.QueryFlag(r, "mode", "heuristic") {
			rows := svc.CompareHeuristic(ctx, payload.Region, items)
			responses.WriteSuccess(w, map[string]any{"mode": "heuristic", "rows": rows})
			return
		}

		rows, err := svc.Compare(ctx, payload.toVehicle(middleware.UserRefFromContext(ctx)), items)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"mode": "ai", "rows": rows})
	}
}

type assessPayload struct {
	Vehicle vehiclePayload `json:"vehicle"`
	Service string         `json:"service" validate:"required"`
	Price   float64        `json:"price" validate:"gt=0"`
	City    string         `json:"city"`
	Region  string         `json:"region"`
}

// QuotesAssess answers a single fairness question via the AI provider.
func QuotesAssess(svc *compare.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "comparison service unavailable"))
			return
		}

		var payload assessPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.AssessSingle(ctx, compare.VehicleContext{
			Make:    payload.Vehicle.Make,
			Model:   payload.Vehicle.Model,
			Year:    payload.Vehicle.Year,
			City:    payload.City,
			Region:  payload.Region,
			UserRef: middleware.UserRefFromContext(ctx),
		}, payload.Service, payload.Price)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type learnPayload struct {
	Region string `json:"region"`
	City   string `json:"city"`
	Lines  []struct {
		Label string  `json:"label" validate:"required"`
		Qty   int     `json:"qty"`
		Price float64 `json:"price"`
	} `json:"lines" validate:"required,min=1,dive"`
}

// QuotesLearn ingests a fire-and-forget batch of observed quotes. Invalid
// lines are skipped, never rejected; the response reports both counts.
func QuotesLearn(svc *learning.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "learning service unavailable"))
			return
		}

		var payload learnPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lines := make([]learning.BatchLine, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			lines = append(lines, learning.BatchLine{
				Label: line.Label,
				Qty:   line.Qty,
				Price: line.Price,
			})
		}

		accepted, skipped := svc.RecordBatch(ctx, payload.Region, payload.City, middleware.UserRefFromContext(ctx), lines)
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]int{
			"accepted": accepted,
			"skipped":  skipped,
		})
	}
}
