package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/powercore-shop/storefront/api/responses"
	"github.com/powercore-shop/storefront/api/validators"
	"github.com/powercore-shop/storefront/internal/gateway"
	pkgerrors "github.com/powercore-shop/storefront/pkg/errors"
	"github.com/powercore-shop/storefront/pkg/logger"
)

// CatalogService is the slice of the gateway the catalog routes consume.
type CatalogService interface {
	ListProducts(ctx context.Context, filters gateway.ProductFilters, page, limit int) (gateway.ProductPage, error)
	GetProduct(ctx context.Context, id string) (gateway.Product, error)
	SearchProducts(ctx context.Context, term string, page, limit int) (gateway.ProductPage, error)
}

func CatalogList(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 12, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := catalogFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.ListProducts(r.Context(), filters, page, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

func CatalogDetail(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CatalogSearch(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := strings.TrimSpace(r.URL.Query().Get("q"))
		if term == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "search term is required").WithDetails(map[string]string{"q": "is required"}))
			return
		}
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 12, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.SearchProducts(r.Context(), term, page, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

func catalogFilters(r *http.Request) (gateway.ProductFilters, error) {
	var filters gateway.ProductFilters
	var err error

	if filters.CapacityMin, err = validators.ParseQueryIntPtr(r, "capacity_min"); err != nil {
		return filters, err
	}
	if filters.CapacityMax, err = validators.ParseQueryIntPtr(r, "capacity_max"); err != nil {
		return filters, err
	}
	if filters.PowerMin, err = validators.ParseQueryIntPtr(r, "power_min"); err != nil {
		return filters, err
	}
	if filters.PowerMax, err = validators.ParseQueryIntPtr(r, "power_max"); err != nil {
		return filters, err
	}
	if filters.PriceMin, err = validators.ParseQueryFloat(r, "price_min"); err != nil {
		return filters, err
	}
	if filters.PriceMax, err = validators.ParseQueryFloat(r, "price_max"); err != nil {
		return filters, err
	}
	filters.BatteryType = strings.TrimSpace(r.URL.Query().Get("battery_type"))
	filters.Brand = strings.TrimSpace(r.URL.Query().Get("brand"))
	filters.Category = strings.TrimSpace(r.URL.Query().Get("category"))
	return filters, nil
}
