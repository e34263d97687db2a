package middleware

import (
	"context"
	"net/http"

	"github.com/lcanales/stockdeck-backend/api/responses"
	"github.com/lcanales/stockdeck-backend/internal/rbac"
	"github.com/lcanales/stockdeck-backend/pkg/enums"
	pkgerrors "github.com/lcanales/stockdeck-backend/pkg/errors"
	"github.com/lcanales/stockdeck-backend/pkg/logger"
)

// RoleResolver turns a role id claim into a known role name.
type RoleResolver interface {
	ResolveRole(ctx context.Context, roleID int) (enums.Role, error)
}

// Authorize gates a route on the caller's role having the given capability.
// The role name is resolved from storage on every request so a role change
// takes effect without reissuing tokens; the resolved name is stashed in the
// context for handlers that attribute writes.
func Authorize(resolver RoleResolver, action rbac.Action, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID := RoleIDFromContext(r.Context())
			if roleID == 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "missing role"))
				return
			}
			role, err := resolver.ResolveRole(r.Context(), roleID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if !rbac.RoleAllows(role, action) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxRoleName, string(role))
			if logg != nil {
				ctx = logg.WithRole(ctx, string(role))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
