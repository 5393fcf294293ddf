package controllers

import (
	"net/http"

	"github.com/leonfashion/fashionshop-backend/api/middleware"
	"github.com/leonfashion/fashionshop-backend/api/responses"
	"github.com/leonfashion/fashionshop-backend/api/validators"
	"github.com/leonfashion/fashionshop-backend/internal/customers"
	pkgerrors "github.com/leonfashion/fashionshop-backend/pkg/errors"
	"github.com/leonfashion/fashionshop-backend/pkg/logger"
)

// CustomerProfile returns the authenticated customer's own record.
func CustomerProfile(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		principal := middleware.PrincipalFromContext(r.Context())
		if principal == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		result, err := svc.ProfileByEmail(r.Context(), principal.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CustomerUpdateProfile(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		principal := middleware.PrincipalFromContext(r.Context())
		if principal == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var body customers.UpdateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateProfileByEmail(r.Context(), principal.Email, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CustomerDeactivate is the back office removal flow. Accounts with placed
// orders stay, so order history keeps its owner.
func CustomerDeactivate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
