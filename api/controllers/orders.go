package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/powercore-shop/storefront/api/responses"
	"github.com/powercore-shop/storefront/internal/gateway"
	pkgerrors "github.com/powercore-shop/storefront/pkg/errors"
	"github.com/powercore-shop/storefront/pkg/logger"
)

// OrdersService is the slice of the gateway the order routes consume.
type OrdersService interface {
	MyOrders(ctx context.Context) ([]gateway.Order, error)
	GetOrder(ctx context.Context, id string) (gateway.Order, error)
}

func OrdersList(svc OrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := svc.MyOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

func OrdersDetail(svc OrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}

		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
