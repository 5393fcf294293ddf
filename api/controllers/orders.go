package controllers

import (
	"net/http"

	"github.com/leonfashion/fashionshop-backend/api/middleware"
	"github.com/leonfashion/fashionshop-backend/api/responses"
	"github.com/leonfashion/fashionshop-backend/internal/customers"
	"github.com/leonfashion/fashionshop-backend/internal/orders"
	pkgerrors "github.com/leonfashion/fashionshop-backend/pkg/errors"
	"github.com/leonfashion/fashionshop-backend/pkg/logger"
	"github.com/leonfashion/fashionshop-backend/pkg/pagination"
	"github.com/leonfashion/fashionshop-backend/pkg/types"
)

// OrdersHistory lists the authenticated customer's placed orders, newest
// first.
func OrdersHistory(customersSvc customers.Service, repo *orders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customersSvc == nil || repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders unavailable"))
			return
		}

		principal := middleware.PrincipalFromContext(r.Context())
		if principal == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		profile, err := customersSvc.ProfileByEmail(r.Context(), principal.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.FromRequest(r)
		records, total, err := repo.ListByCustomer(r.Context(), profile.ID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders"))
			return
		}

		data := make([]orders.OrderResponse, 0, len(records))
		for _, record := range records {
			data = append(data, orders.ToResponse(record))
		}
		responses.WriteSuccess(w, types.Page[orders.OrderResponse]{
			Page:       params.Page,
			Size:       params.Size,
			Total:      total,
			TotalPages: params.TotalPages(total),
			Last:       params.Last(total),
			Data:       data,
		})
	}
}
