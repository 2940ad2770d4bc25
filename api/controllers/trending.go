package controllers

import (
	"net/http"
	"strings"

	"github.com/mallexplorer/sme-backend/api/responses"
	"github.com/mallexplorer/sme-backend/api/validators"
	trendingsvc "github.com/mallexplorer/sme-backend/internal/trending"
	"github.com/mallexplorer/sme-backend/pkg/enums"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/logger"
)

const maxTrendingLimit = 50

// TrendingTop returns the most-viewed entities of the requested type.
func TrendingTop(svc trendingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "trending service unavailable"))
			return
		}

		entity := enums.EntityTypeProduct
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			parsed, err := enums.ParseEntityType(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entity type"))
				return
			}
			entity = parsed
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxTrendingLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entries, err := svc.Top(ctx, entity, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
