package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/beanpass/beanpass-backend/api/middleware"
	"github.com/beanpass/beanpass-backend/api/responses"
	"github.com/beanpass/beanpass-backend/api/validators"
	"github.com/beanpass/beanpass-backend/internal/checkins"
	pkgerrors "github.com/beanpass/beanpass-backend/pkg/errors"
	"github.com/beanpass/beanpass-backend/pkg/logger"
)

type recordVisitPayload struct {
	Code string `json:"code" validate:"required,min=4,max=16"`
}

// CheckinRecord registers a visit scanned by the operating shop.
func CheckinRecord(svc checkins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkins service unavailable"))
			return
		}

		shopID := middleware.ShopIDFromContext(ctx)
		if shopID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "shop context missing"))
			return
		}
		sid, err := uuid.Parse(shopID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shop id"))
			return
		}

		var payload recordVisitPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.RecordVisit(ctx, sid, payload.Code)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
