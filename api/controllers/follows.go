package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/beanpass/beanpass-backend/api/responses"
	"github.com/beanpass/beanpass-backend/internal/follows"
	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
	"github.com/beanpass/beanpass-backend/pkg/logger"
)

// FollowUserToggle flips the follow edge toward another user.
func FollowUserToggle(svc follows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "follows service unavailable"))
			return
		}

		followerID, err := authenticatedUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		targetID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		result, err := svc.ToggleUserFollow(ctx, followerID, targetID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// FollowShopToggle flips the follow edge toward a shop.
func FollowShopToggle(svc follows.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "follows service unavailable"))
			return
		}

		userID, err := authenticatedUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		shopID, err := uuid.Parse(chi.URLParam(r, "shopID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shop id"))
			return
		}

		result, err := svc.ToggleShopFollow(ctx, userID, shopID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// FollowersList returns who follows the addressed user.
func FollowersList(svc follows.Service, logg *logger.Logger) http.HandlerFunc {
	return followEdgeList(svc, logg, func(ctx context.Context, s follows.Service, id uuid.UUID) (any, error) {
		return s.Followers(ctx, id)
	})
}

// FollowingList returns who the addressed user follows.
func FollowingList(svc follows.Service, logg *logger.Logger) http.HandlerFunc {
	return followEdgeList(svc, logg, func(ctx context.Context, s follows.Service, id uuid.UUID) (any, error) {
		return s.Following(ctx, id)
	})
}

// FollowedShopsList returns the shops the addressed user follows.
func FollowedShopsList(svc follows.Service, logg *logger.Logger) http.HandlerFunc {
	return followEdgeList(svc, logg, func(ctx context.Context, s follows.Service, id uuid.UUID) (any, error) {
		return s.FollowedShops(ctx, id)
	})
}

// FollowCounts returns the follow graph counters for the addressed user.
func FollowCounts(svc follows.Service, logg *logger.Logger) http.HandlerFunc {
	return followEdgeList(svc, logg, func(ctx context.Context, s follows.Service, id uuid.UUID) (any, error) {
		return s.Counts(ctx, id)
	})
}

// followEdgeList resolves the {userID} URL param, so the follow graph of any
// user is readable by any authenticated caller.
func followEdgeList(svc follows.Service, logg *logger.Logger, load func(context.Context, follows.Service, uuid.UUID) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "follows service unavailable"))
			return
		}

		userID, err := targetUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		data, err := load(ctx, svc, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, data)
	}
}

func targetUserID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "userID")
	if raw == "me" || raw == "" {
		return authenticatedUserID(r.Context())
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}
