package middleware

import (
	"context"
	"net/http"

	"github.com/mallexplorer/sme-backend/api/responses"
	"github.com/mallexplorer/sme-backend/pkg/config"
	pkgerrors "github.com/mallexplorer/sme-backend/pkg/errors"
	"github.com/mallexplorer/sme-backend/pkg/logger"
)

func RequireRole(role string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionRevoker invalidates a session by access id.
type SessionRevoker interface {
	Revoke(ctx context.Context, accessID string) error
}

// AdminGate re-checks the admin allow-list on every request. A token minted
// while the email was allow-listed stops working the moment the email is
// removed, and the backing session is revoked so refresh cannot resurrect it.
func AdminGate(cfg config.AdminConfig, revoker SessionRevoker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := EmailFromContext(r.Context())
			if email == "" || !cfg.IsAllowed(email) {
				if revoker != nil {
					if accessID := AccessIDFromContext(r.Context()); accessID != "" {
						if err := revoker.Revoke(r.Context(), accessID); err != nil && logg != nil {
							logg.Error(r.Context(), "admin_gate.revoke_failed", err)
						}
					}
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access revoked"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
