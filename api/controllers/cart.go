package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/powercore-shop/storefront/api/responses"
	"github.com/powercore-shop/storefront/api/validators"
	cartstore "github.com/powercore-shop/storefront/internal/cart"
	pkgerrors "github.com/powercore-shop/storefront/pkg/errors"
	"github.com/powercore-shop/storefront/pkg/logger"
)

// CartStore is the local cart state the cart routes drive.
type CartStore interface {
	Items() []cartstore.LineItem
	Totals() cartstore.Totals
	AddItem(ctx context.Context, item cartstore.LineItem)
	UpdateQuantity(ctx context.Context, productID string, quantity int)
	RemoveItem(ctx context.Context, productID string)
	Clear(ctx context.Context)
}

type cartView struct {
	Items      []cartstore.LineItem `json:"items"`
	TotalItems int                  `json:"total_items"`
	TotalPrice string               `json:"total_price"`
}

func newCartView(items []cartstore.LineItem, totals cartstore.Totals) cartView {
	return cartView{
		Items:      items,
		TotalItems: totals.Items,
		TotalPrice: totals.Price.StringFixed(2),
	}
}

type addCartItemRequest struct {
	ProductID   string  `json:"product_id" validate:"required"`
	ProductName string  `json:"product_name" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"min=0"`
	ImageURL    string  `json:"image_url"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func CartGet(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, newCartView(store.Items(), store.Totals()))
	}
}

func CartAddItem(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.AddItem(r.Context(), cartstore.LineItem{
			ProductID:   payload.ProductID,
			ProductName: payload.ProductName,
			UnitPrice:   payload.Price,
			Quantity:    payload.Quantity,
			ImageURL:    payload.ImageURL,
		})
		responses.WriteSuccess(w, newCartView(store.Items(), store.Totals()))
	}
}

func CartUpdateItem(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productID")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.UpdateQuantity(r.Context(), productID, payload.Quantity)
		responses.WriteSuccess(w, newCartView(store.Items(), store.Totals()))
	}
}

func CartRemoveItem(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productID")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		store.RemoveItem(r.Context(), productID)
		responses.WriteSuccess(w, newCartView(store.Items(), store.Totals()))
	}
}

func CartClear(store CartStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.Clear(r.Context())
		responses.WriteSuccess(w, newCartView(store.Items(), store.Totals()))
	}
}
