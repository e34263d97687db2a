package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/lcanales/stockdeck-backend/api/middleware"
	"github.com/lcanales/stockdeck-backend/api/responses"
	"github.com/lcanales/stockdeck-backend/api/validators"
	"github.com/lcanales/stockdeck-backend/internal/sales"
	pkgerrors "github.com/lcanales/stockdeck-backend/pkg/errors"
	"github.com/lcanales/stockdeck-backend/pkg/logger"
)

// SaleList returns every sale joined with its product name, newest first.
func SaleList(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// SaleCreate records a sale, consuming stock atomically.
func SaleCreate(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sales service unavailable"))
			return
		}

		var req sales.CreateSaleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := sales.CreateInput{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				input.CreatedBy = &id
			}
		}
		if role := middleware.RoleNameFromContext(r.Context()); role != "" {
			input.CreatorRole = &role
		}

		result, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
