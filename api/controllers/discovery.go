package controllers

import (
	"net/http"
	"strings"

	"github.com/beanpass/beanpass-backend/api/responses"
	"github.com/beanpass/beanpass-backend/api/validators"
	"github.com/beanpass/beanpass-backend/internal/discovery"
	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
	"github.com/beanpass/beanpass-backend/pkg/logger"
	"github.com/beanpass/beanpass-backend/pkg/pagination"
)

// ShopSearch filters the shop catalog. Identity is optional; anonymous
// viewers get unpersonalized results.
func ShopSearch(svc discovery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discovery service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		visited, err := discovery.ParseVisitedState(r.URL.Query().Get("visited"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		featureIDs, err := validators.ParseQueryUUIDs(r, "features")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Search(ctx, viewerID(ctx), discovery.Filter{
			Page:       page,
			Limit:      limit,
			Visited:    visited,
			FeatureIDs: featureIDs,
			TextQuery:  strings.TrimSpace(r.URL.Query().Get("q")),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
