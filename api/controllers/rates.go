package controllers

import (
	"net/http"

	"github.com/muzammal-12/CarApp/api/responses"
	"github.com/muzammal-12/CarApp/api/validators"
	"github.com/muzammal-12/CarApp/internal/normalize"
	"github.com/muzammal-12/CarApp/internal/rates"
	pkgerrors "github.com/muzammal-12/CarApp/pkg/errors"
	"github.com/muzammal-12/CarApp/pkg/logger"
)

type rateLookupPayload struct {
	Region string `json:"region"`
	Items  []struct {
		Label string `json:"label" validate:"required"`
	} `json:"items" validate:"required,min=1,dive"`
}

type rateLookupItem struct {
	Label string             `json:"label"`
	Rate  rates.ResolvedRate `json:"rate"`
}

// RateLookup resolves the best available estimate for each submitted label.
// Resolution never fails, so the endpoint always answers 200 for valid input.
func RateLookup(resolver *rates.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if resolver == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rate resolver unavailable"))
			return
		}

		var payload rateLookupPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items := make([]rateLookupItem, 0, len(payload.Items))
		for _, item := range payload.Items {
			key := normalize.Key(item.Label)
			items = append(items, rateLookupItem{
				Label: item.Label,
				Rate:  resolver.Resolve(ctx, payload.Region, key, item.Label),
			})
		}

		responses.WriteSuccess(w, map[string]any{
			"region": normalizeRegionOrGlobal(payload.Region),
			"items":  items,
		})
	}
}

func normalizeRegionOrGlobal(region string) string {
	if region == "" {
		return "global"
	}
	return region
}
