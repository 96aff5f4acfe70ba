package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	cartstore "github.com/powercore-shop/storefront/internal/cart"
	"github.com/powercore-shop/storefront/pkg/logger"
	"github.com/powercore-shop/storefront/pkg/storage"
)

func newCartRouter(t *testing.T) (*chi.Mux, *cartstore.Store) {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	store := cartstore.NewStore(context.Background(), storage.NewMemory(), "test", logg)

	r := chi.NewRouter()
	r.Get("/cart", CartGet(store, logg))
	r.Delete("/cart", CartClear(store, logg))
	r.Post("/cart/items", CartAddItem(store, logg))
	r.Put("/cart/items/{productID}", CartUpdateItem(store, logg))
	r.Delete("/cart/items/{productID}", CartRemoveItem(store, logg))
	return r, store
}

func decodeCartView(t *testing.T, rec *httptest.ResponseRecorder) cartView {
	t.Helper()
	var envelope struct {
		Data cartView `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return envelope.Data
}

func TestCartAddMergesAndTotals(t *testing.T) {
	r, _ := newCartRouter(t)

	add := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := add(`{"product_id":"p1","product_name":"PowerCore 500","price":100,"quantity":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = add(`{"product_id":"p1","product_name":"PowerCore 500","price":100,"quantity":3}`)

	view := decodeCartView(t, rec)
	if len(view.Items) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(view.Items))
	}
	if view.Items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", view.Items[0].Quantity)
	}
	if view.TotalPrice != "500.00" {
		t.Fatalf("expected total 500.00, got %s", view.TotalPrice)
	}
}

func TestCartAddRejectsMissingFields(t *testing.T) {
	r, store := newCartRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"quantity":1}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(store.Items()) != 0 {
		t.Fatal("invalid payload must not reach the store")
	}
}

func TestCartUpdateToZeroRemovesLine(t *testing.T) {
	r, store := newCartRouter(t)
	store.AddItem(context.Background(), cartstore.LineItem{ProductID: "p1", ProductName: "PowerCore 500", UnitPrice: 100, Quantity: 2})

	req := httptest.NewRequest(http.MethodPut, "/cart/items/p1", strings.NewReader(`{"quantity":0}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	view := decodeCartView(t, rec)
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(view.Items))
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	r, store := newCartRouter(t)
	store.AddItem(context.Background(), cartstore.LineItem{ProductID: "p1", ProductName: "A", UnitPrice: 10, Quantity: 1})
	store.AddItem(context.Background(), cartstore.LineItem{ProductID: "p2", ProductName: "B", UnitPrice: 20, Quantity: 1})

	req := httptest.NewRequest(http.MethodDelete, "/cart/items/p1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if view := decodeCartView(t, rec); len(view.Items) != 1 || view.Items[0].ProductID != "p2" {
		t.Fatalf("unexpected cart after removal: %+v", view.Items)
	}

	req = httptest.NewRequest(http.MethodDelete, "/cart", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if view := decodeCartView(t, rec); len(view.Items) != 0 || view.TotalPrice != "0.00" {
		t.Fatalf("expected cleared cart, got %+v", view)
	}
}

func TestCartGetEmpty(t *testing.T) {
	r, _ := newCartRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	view := decodeCartView(t, rec)
	if view.TotalItems != 0 || view.TotalPrice != "0.00" {
		t.Fatalf("expected zero totals, got %+v", view)
	}
}
