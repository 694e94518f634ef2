package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/beanpass/beanpass-backend/api/responses"
	"github.com/beanpass/beanpass-backend/pkg/config"
	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
	"github.com/beanpass/beanpass-backend/pkg/logger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness only.
func HealthLive(cfg config.AppConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Beanpass-Env", cfg.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// HealthReady checks every backing dependency before reporting ready.
func HealthReady(cfg config.AppConfig, logg *logger.Logger, db, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var problems error
		if db != nil {
			if err := db.Ping(ctx); err != nil {
				problems = multierr.Append(problems, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				problems = multierr.Append(problems, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache unreachable"))
			}
		}

		w.Header().Set("X-Beanpass-Env", cfg.Env)
		if problems != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, problems, "service not ready"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
