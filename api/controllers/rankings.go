package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/beanpass/beanpass-backend/api/responses"
	"github.com/beanpass/beanpass-backend/api/validators"
	"github.com/beanpass/beanpass-backend/internal/rankings"
	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
	"github.com/beanpass/beanpass-backend/pkg/logger"
	"github.com/beanpass/beanpass-backend/pkg/pagination"
)

// RankingsLeaderboard returns one leaderboard, selected by kind.
func RankingsLeaderboard(svc rankings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rankings service unavailable"))
			return
		}

		kind := rankings.Kind(strings.TrimSpace(r.URL.Query().Get("kind")))
		if kind == "" {
			kind = rankings.KindVisits
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var shopID *uuid.UUID
		if raw := strings.TrimSpace(r.URL.Query().Get("shop_id")); raw != "" && !strings.EqualFold(raw, "all") {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shop id"))
				return
			}
			shopID = &id
		}

		entries, err := svc.Leaderboard(ctx, kind, shopID, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"kind":    kind,
			"entries": entries,
		})
	}
}

// RankingsSummary returns the top entry of every leaderboard at once.
func RankingsSummary(svc rankings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rankings service unavailable"))
			return
		}

		summary, err := svc.Summary(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
