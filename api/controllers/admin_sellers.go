package controllers

import (
	"net/http"
	"strings"

	"github.com/mallexplorer/sme-backend/api/responses"
	"github.com/mallexplorer/sme-backend/api/validators"
	sellersvc "github.com/mallexplorer/sme-backend/internal/sellers"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/logger"
)

// AdminSellerRequestsList lists access requests, optionally filtered by status.
func AdminSellerRequestsList(svc sellersvc.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seller admin service unavailable"))
			return
		}

		var status *enums.RequestStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseRequestStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		requests, err := svc.List(ctx, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, requests)
	}
}

// AdminSellerRequestApprove grants store access for a pending request.
func AdminSellerRequestApprove(svc sellersvc.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seller admin service unavailable"))
			return
		}

		adminID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		requestID, err := validators.ParseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		decided, err := svc.Approve(ctx, adminID, requestID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, decided)
	}
}

// AdminSellerRequestReject declines a pending request.
func AdminSellerRequestReject(svc sellersvc.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seller admin service unavailable"))
			return
		}

		adminID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		requestID, err := validators.ParseUUIDParam(r, "requestId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		decided, err := svc.Reject(ctx, adminID, requestID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, decided)
	}
}
