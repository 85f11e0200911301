package controllers

import (
	"net/http"
	"time"

	"github.com/muzammal-12/CarApp/api/responses"
	"github.com/muzammal-12/CarApp/pkg/config"
	"github.com/muzammal-12/CarApp/pkg/db"
	pkgerrors "github.com/muzammal-12/CarApp/pkg/errors"
	"github.com/muzammal-12/CarApp/pkg/logger"
	"github.com/muzammal-12/CarApp/pkg/redis"
)

const readyCheckTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CarApp-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the datasources the pricing pipeline depends on. Redis is
// optional; a nil client is simply skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := contextWithTimeout(r, readyCheckTimeout)
		defer cancel()

		w.Header().Set("X-CarApp-Env", cfg.App.Env)

		checks := map[string]string{}
		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable").
						WithDetails(map[string]string{"dependency": "database"}))
				return
			}
			checks["database"] = "ok"
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable").
						WithDetails(map[string]string{"dependency": "redis"}))
				return
			}
			checks["redis"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
