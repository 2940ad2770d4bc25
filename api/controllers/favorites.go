package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mallexplorer/sme-backend/api/responses"
	"github.com/mallexplorer/sme-backend/api/validators"
	activitysvc "github.com/mallexplorer/sme-backend/internal/activity"
	favoritesvc "github.com/mallexplorer/sme-backend/internal/favorites"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/logger"
)

type addFavoritePayload struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// FavoritesList returns the caller's favorited products, overrides applied.
func FavoritesList(svc favoritesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		products, err := svc.List(ctx, uid)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// FavoriteAdd stores a favorite. Repeat adds are no-ops.
func FavoriteAdd(svc favoritesvc.Service, activity activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addFavoritePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.Add(ctx, uid, productID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if activity != nil {
			if err := activity.Record(ctx, uid, "favorite.added", "product", productID.String()); err != nil && logg != nil {
				logg.Warn(ctx, "activity.record_failed")
			}
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]bool{"added": true})
	}
}

// FavoriteRemove drops a favorite. Removing an absent row is a no-op.
func FavoriteRemove(svc favoritesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Remove(ctx, uid, productID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": true})
	}
}
