package middleware

import (
	"net/http"
	"slices"

	"github.com/angelmondragon/autosallon-backend/api/responses"
	"github.com/angelmondragon/autosallon-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
	"github.com/angelmondragon/autosallon-backend/pkg/logger"
)

// RequireRole admits requests whose authenticated role is one of roles.
// It must run after Auth; a request without a role is treated as anonymous.
func RequireRole(logg *logger.Logger, roles ...enums.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := RoleFromContext(r.Context())
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !slices.Contains(roles, enums.UserRole(raw)) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role").
					WithDetails(map[string]any{"role": raw}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
