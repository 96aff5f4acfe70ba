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
	"github.com/powercore-shop/storefront/internal/checkout"
	"github.com/powercore-shop/storefront/internal/gateway"
	"github.com/powercore-shop/storefront/pkg/logger"
	"github.com/powercore-shop/storefront/pkg/storage"
)

type fakeOrderAPI struct {
	calls int
	resp  gateway.Order
	err   error
}

func (f *fakeOrderAPI) CreateOrder(context.Context, gateway.CreateOrderRequest) (gateway.Order, error) {
	f.calls++
	return f.resp, f.err
}

func newCheckoutRouter(t *testing.T, api *fakeOrderAPI) (*chi.Mux, *cartstore.Store) {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	store := cartstore.NewStore(context.Background(), storage.NewMemory(), "test", logg)
	wizard := checkout.NewWizard(api, store, logg)

	r := chi.NewRouter()
	r.Get("/checkout", CheckoutState(wizard, logg))
	r.Get("/checkout/summary", CheckoutSummary(wizard, logg))
	r.Put("/checkout/contact", CheckoutSetContact(wizard, logg))
	r.Put("/checkout/address", CheckoutSetAddress(wizard, logg))
	r.Put("/checkout/delivery", CheckoutSetDelivery(wizard, logg))
	r.Post("/checkout/advance", CheckoutAdvance(wizard, logg))
	r.Post("/checkout/back", CheckoutBack(wizard, logg))
	r.Post("/checkout/submit", CheckoutSubmit(wizard, logg))
	return r, store
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeCheckoutView(t *testing.T, rec *httptest.ResponseRecorder) checkoutView {
	t.Helper()
	var envelope struct {
		Data checkoutView `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return envelope.Data
}

func TestCheckoutAdvanceBlockedByFieldErrors(t *testing.T) {
	r, _ := newCheckoutRouter(t, &fakeOrderAPI{})

	doJSON(t, r, http.MethodPut, "/checkout/contact", `{"email":"abc","phone":"123"}`)
	rec := doJSON(t, r, http.MethodPost, "/checkout/advance", "")

	view := decodeCheckoutView(t, rec)
	if view.Step != "contact" {
		t.Fatalf("expected wizard to stay on contact, got %s", view.Step)
	}
	if view.Errors["email"] == "" || view.Errors["phone"] == "" {
		t.Fatalf("expected field errors, got %v", view.Errors)
	}
}

func TestCheckoutFlowAndSubmit(t *testing.T) {
	api := &fakeOrderAPI{resp: gateway.Order{ID: "ord-9"}}
	r, store := newCheckoutRouter(t, api)
	store.AddItem(context.Background(), cartstore.LineItem{ProductID: "p1", ProductName: "PowerCore 500", UnitPrice: 900, Quantity: 1})

	doJSON(t, r, http.MethodPut, "/checkout/contact", `{"email":"a@b.com","phone":"+380501234567"}`)
	doJSON(t, r, http.MethodPut, "/checkout/address", `{"street":"вул. Хрещатик 1","city":"Київ","postal_code":"01001"}`)
	doJSON(t, r, http.MethodPut, "/checkout/delivery", `{"delivery_method":"postal"}`)

	for i := 0; i < 4; i++ {
		rec := doJSON(t, r, http.MethodPost, "/checkout/advance", "")
		if view := decodeCheckoutView(t, rec); len(view.Errors) > 0 {
			t.Fatalf("advance %d blocked: %v", i, view.Errors)
		}
	}

	rec := doJSON(t, r, http.MethodGet, "/checkout/summary", "")
	var sumEnvelope struct {
		Data checkoutSummaryView `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&sumEnvelope); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if sumEnvelope.Data.DeliveryCost != "80.00" || sumEnvelope.Data.Total != "980.00" {
		t.Fatalf("unexpected summary %+v", sumEnvelope.Data)
	}

	rec = doJSON(t, r, http.MethodPost, "/checkout/submit", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if api.calls != 1 {
		t.Fatalf("expected one backend call, got %d", api.calls)
	}
	if len(store.Items()) != 0 {
		t.Fatal("cart must be cleared after submission")
	}
}

func TestCheckoutSubmitOutsideConfirmIs400(t *testing.T) {
	api := &fakeOrderAPI{}
	r, store := newCheckoutRouter(t, api)
	store.AddItem(context.Background(), cartstore.LineItem{ProductID: "p1", ProductName: "A", UnitPrice: 10, Quantity: 1})

	rec := doJSON(t, r, http.MethodPost, "/checkout/submit", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if api.calls != 0 {
		t.Fatal("backend must not be contacted")
	}
}

func TestCheckoutDeliveryRejectsUnknownMethod(t *testing.T) {
	r, _ := newCheckoutRouter(t, &fakeOrderAPI{})

	rec := doJSON(t, r, http.MethodPut, "/checkout/delivery", `{"delivery_method":"drone"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
