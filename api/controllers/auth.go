package controllers

import (
	"net/http"

	"github.com/lcanales/stockdeck-backend/api/middleware"
	"github.com/lcanales/stockdeck-backend/api/responses"
	"github.com/lcanales/stockdeck-backend/api/validators"
	"github.com/lcanales/stockdeck-backend/internal/auth"
	"github.com/lcanales/stockdeck-backend/internal/rbac"
	pkgerrors "github.com/lcanales/stockdeck-backend/pkg/errors"
	"github.com/lcanales/stockdeck-backend/pkg/logger"
)

// Login exchanges a username and password for a bearer token.
func Login(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}

// Signup creates an account with the requested role.
func Signup(svc auth.SignupService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var req auth.SignupRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Signup(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ValidateToken echoes the identity the auth middleware attached; reaching it
// at all means the token verified.
func ValidateToken(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		roleID := middleware.RoleIDFromContext(r.Context())
		if userID == "" || roleID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"userId": userID,
			"roleId": roleID,
		})
	}
}

// Capabilities returns the caller's declarative permission set, the same
// table the route guards consult.
func Capabilities(svc *rbac.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rbac service unavailable"))
			return
		}
		roleID := middleware.RoleIDFromContext(r.Context())
		caps, err := svc.ForRoleID(r.Context(), roleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, caps)
	}
}
