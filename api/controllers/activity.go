package controllers

import (
	"net/http"

	"github.com/mallexplorer/sme-backend/api/responses"
	activitysvc "github.com/mallexplorer/sme-backend/internal/activity"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/logger"
)

// ActivityList returns the caller's recent activity trail, newest first.
func ActivityList(svc activitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activity service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entries, err := svc.List(ctx, uid)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
