package controllers

import (
	"context"
	"net/http"

	"github.com/powercore-shop/storefront/api/responses"
	"github.com/powercore-shop/storefront/api/validators"
	"github.com/powercore-shop/storefront/internal/checkout"
	"github.com/powercore-shop/storefront/internal/gateway"
	"github.com/powercore-shop/storefront/pkg/logger"
)

// CheckoutWizard is the step-gated order flow the checkout routes drive.
type CheckoutWizard interface {
	Step() checkout.Step
	Draft() checkout.Draft
	Errors() checkout.FieldErrors
	SetContact(email, phone string)
	SetAddress(street, city, postalCode string)
	SetDelivery(method checkout.DeliveryMethod) error
	SetPayment(method checkout.PaymentMethod) error
	SetNotes(notes string)
	Advance() (checkout.Step, checkout.FieldErrors)
	Back() checkout.Step
	Summarize() checkout.Summary
	Submit(ctx context.Context) (gateway.Order, error)
	Reset()
}

type checkoutView struct {
	Step   string               `json:"step"`
	Draft  checkoutDraftView    `json:"draft"`
	Errors checkout.FieldErrors `json:"errors,omitempty"`
}

type checkoutDraftView struct {
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Delivery   string `json:"delivery_method"`
	Payment    string `json:"payment_method"`
	Notes      string `json:"notes,omitempty"`
}

type checkoutSummaryView struct {
	Items        []summaryItemView `json:"items"`
	ItemsTotal   string            `json:"items_total"`
	DeliveryCost string            `json:"delivery_cost"`
	Total        string            `json:"total"`
}

type summaryItemView struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

func newCheckoutView(wiz CheckoutWizard) checkoutView {
	draft := wiz.Draft()
	view := checkoutView{
		Step: wiz.Step().String(),
		Draft: checkoutDraftView{
			Email:      draft.Email,
			Phone:      draft.Phone,
			Street:     draft.Street,
			City:       draft.City,
			PostalCode: draft.PostalCode,
			Country:    draft.Country,
			Delivery:   string(draft.Delivery),
			Payment:    string(draft.Payment),
			Notes:      draft.Notes,
		},
	}
	if errs := wiz.Errors(); len(errs) > 0 {
		view.Errors = errs
	}
	return view
}

type checkoutContactRequest struct {
	Email string `json:"email" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

type checkoutAddressRequest struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
}

type checkoutDeliveryRequest struct {
	Method string `json:"delivery_method" validate:"required"`
}

type checkoutPaymentRequest struct {
	Method string `json:"payment_method" validate:"required"`
}

type checkoutNotesRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

func CheckoutState(wiz CheckoutWizard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, newCheckoutView(wiz))
	}
}

func CheckoutSummary(wiz CheckoutWizard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum := wiz.Summarize()
		view := checkoutSummaryView{
			Items:        make([]summaryItemView, 0, len(sum.Items)),
			ItemsTotal:   sum.ItemsTotal.StringFixed(2),
			DeliveryCost: sum.DeliveryCost.StringFixed(2),
			Total:        sum.Total.StringFixed(2),
		}
		for _, item := range sum.Items {
			view.Items = append(view.Items, summaryItemView{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Price:       item.UnitPrice,
				Quantity:    item.Quantity,
			})
		}
		responses.WriteSuccess(w, view)
	}
}

func CheckoutSetContact(wiz CheckoutWizard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutContactRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		wiz.SetContact(payload.Email, payload.Phone)
		responses.WriteSuccess(w, newCheckoutView(wiz))
	}
}

func CheckoutSetAddress(wiz CheckoutWizard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		wiz.SetAddress(payload.Street, payload.City, payload.PostalCode)
		responses.WriteSuccess(w, newCheckoutView(wiz))
	}
}

func CheckoutSetDelivery(wiz CheckoutWizard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutDeliveryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := wiz.SetDelivery(checkout.DeliveryMethod(payload.Method)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCheckoutView(wiz))
	}
}

func CheckoutSetPayment(wiz CheckoutWizard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := wiz.SetPayment(checkout.PaymentMethod(payload.Method)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCheckoutView(wiz))
	}
}

func CheckoutSetNotes(wiz CheckoutWizard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutNotesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		wiz.SetNotes(payload.Notes)
		responses.WriteSuccess(w, newCheckoutView(wiz))
	}
}

func CheckoutAdvance(wiz CheckoutWizard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wiz.Advance()
		responses.WriteSuccess(w, newCheckoutView(wiz))
	}
}

func CheckoutBack(wiz CheckoutWizard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wiz.Back()
		responses.WriteSuccess(w, newCheckoutView(wiz))
	}
}

func CheckoutSubmit(wiz CheckoutWizard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := wiz.Submit(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func CheckoutReset(wiz CheckoutWizard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wiz.Reset()
		responses.WriteSuccess(w, newCheckoutView(wiz))
	}
}
