package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mallexplorer/sme-backend/api/responses"
	"github.com/mallexplorer/sme-backend/api/validators"
	activitysvc "github.com/mallexplorer/sme-backend/internal/activity"
	reviewsvc "github.com/mallexplorer/sme-backend/internal/reviews"
	usersvc "github.com/mallexplorer/sme-backend/internal/users"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/logger"
)

func parseEntityParams(r *http.Request) (enums.EntityType, uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "entityType"))
	entity, err := enums.ParseEntityType(raw)
	if err != nil {
		return "", uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entity type")
	}
	id, err := validators.ParseUUIDParam(r, "entityId")
	if err != nil {
		return "", uuid.Nil, err
	}
	return entity, id, nil
}

// ReviewsList returns the newest-first reviews for an entity.
func ReviewsList(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		entity, entityID, err := parseEntityParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		reviews, err := svc.List(ctx, entity, entityID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, reviews)
	}
}

// ReviewsAdd posts a review under the caller's display name. The activity
// trail write is best-effort and never fails the request.
func ReviewsAdd(svc reviewsvc.Service, users usersvc.Service, activity activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entity, entityID, err := parseEntityParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload reviewsvc.AddReviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		userName := ""
		if users != nil {
			if profile, err := users.GetProfile(ctx, uid); err == nil {
				userName = profile.Name
			}
		}

		review, err := svc.Add(ctx, uid, userName, entity, entityID, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if activity != nil {
			if err := activity.Record(ctx, uid, "review.posted", string(entity), entityID.String()); err != nil && logg != nil {
				logg.Warn(ctx, "activity.record_failed")
			}
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}
