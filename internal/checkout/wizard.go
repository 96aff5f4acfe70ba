package checkout

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/powercore-shop/storefront/internal/cart"
	"github.com/powercore-shop/storefront/internal/gateway"
	"github.com/powercore-shop/storefront/pkg/errors"
	"github.com/powercore-shop/storefront/pkg/logger"
)

// Step identifies a position in the linear checkout flow.
type Step int

const (
	StepContact Step = iota + 1
	StepAddress
	StepDelivery
	StepPayment
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepContact:
		return "contact"
	case StepAddress:
		return "address"
	case StepDelivery:
		return "delivery"
	case StepPayment:
		return "payment"
	case StepConfirm:
		return "confirm"
	}
	return "unknown"
}

const defaultCountry = "Україна"

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern  = regexp.MustCompile(`^\+?380\d{9}$`)
	postalPattern = regexp.MustCompile(`^\d{5}$`)
)

// Draft accumulates checkout input across steps. It is transient: discarded
// on Reset and never persisted.
type Draft struct {
	Email      string
	Phone      string
	Street     string
	City       string
	PostalCode string
	Country    string
	Delivery   DeliveryMethod
	Payment    PaymentMethod
	Notes      string
}

// FieldErrors maps a field name to the message blocking it.
type FieldErrors map[string]string

// OrderAPI is the slice of the gateway the wizard submits through.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (gateway.Order, error)
}

// CartSource supplies the line items an order is assembled from and is
// cleared after a successful submission.
type CartSource interface {
	Items() []cart.LineItem
	Clear(ctx context.Context)
}

// Summary prices the order as currently drafted.
type Summary struct {
	Items        []cart.LineItem
	ItemsTotal   decimal.Decimal
	DeliveryCost decimal.Decimal
	Total        decimal.Decimal
}

// Wizard drives the five-step checkout flow. Forward navigation is gated on
// per-step validation; backward navigation is unconditional with a floor at
// the first step.
type Wizard struct {
	mu         sync.Mutex
	step       Step
	draft      Draft
	errs       FieldErrors
	submitting bool

	api  OrderAPI
	cart CartSource
	logg *logger.Logger
}

func NewWizard(api OrderAPI, cartSrc CartSource, logg *logger.Logger) *Wizard {
	return &Wizard{
		step: StepContact,
		draft: Draft{
			Country:  defaultCountry,
			Delivery: DeliveryCourier,
			Payment:  PaymentCard,
		},
		errs: FieldErrors{},
		api:  api,
		cart: cartSrc,
		logg: logg,
	}
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Errors returns a copy of the field errors recorded by the last failed
// validation.
func (w *Wizard) Errors() FieldErrors {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(FieldErrors, len(w.errs))
	for k, v := range w.errs {
		out[k] = v
	}
	return out
}

func (w *Wizard) SetContact(email, phone string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Email = email
	w.draft.Phone = phone
}

func (w *Wizard) SetAddress(street, city, postalCode string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Street = street
	w.draft.City = city
	w.draft.PostalCode = postalCode
}

func (w *Wizard) SetDelivery(method DeliveryMethod) error {
	if !method.valid() {
		return errors.New(errors.CodeValidation, "unknown delivery method").
			WithDetails(map[string]string{"delivery_method": string(method)})
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Delivery = method
	return nil
}

func (w *Wizard) SetPayment(method PaymentMethod) error {
	if !method.valid() {
		return errors.New(errors.CodeValidation, "unknown payment method").
			WithDetails(map[string]string{"payment_method": string(method)})
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Payment = method
	return nil
}

func (w *Wizard) SetNotes(notes string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Notes = notes
}

// Advance validates the current step and moves forward on success, capped at
// the confirmation step. On failure the wizard stays put and the blocking
// field errors are recorded.
func (w *Wizard) Advance() (Step, FieldErrors) {
	w.mu.Lock()
	defer w.mu.Unlock()

	errs := validateStep(w.step, w.draft)
	w.errs = errs
	if len(errs) > 0 {
		return w.step, errs
	}
	if w.step < StepConfirm {
		w.step++
	}
	return w.step, nil
}

// Summarize prices the current cart against the drafted delivery method.
func (w *Wizard) Summarize() Summary {
	w.mu.Lock()
	method := w.draft.Delivery
	w.mu.Unlock()

	items := w.cart.Items()
	totals := cart.ComputeTotals(items)
	cost := DeliveryCost(totals.Price, method)
	return Summary{
		Items:        items,
		ItemsTotal:   totals.Price,
		DeliveryCost: cost,
		Total:        totals.Price.Add(cost),
	}
}

// Back moves one step down without re-validating, floored at the first step.
func (w *Wizard) Back() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > StepContact {
		w.step--
	}
	return w.step
}

// Submit places the order. It is only reachable from the confirmation step
// and re-validates the contact and address steps in full first; any failure
// there jumps the wizard back to the first step without touching the backend.
// A successful submission clears the cart and resets the wizard.
func (w *Wizard) Submit(ctx context.Context) (gateway.Order, error) {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return gateway.Order{}, errors.New(errors.CodeConflict, "order submission already in progress")
	}
	if w.step != StepConfirm {
		w.mu.Unlock()
		return gateway.Order{}, errors.New(errors.CodeValidation, "checkout is not at the confirmation step").
			WithDetails(map[string]string{"step": w.step.String()})
	}

	errs := validateStep(StepContact, w.draft)
	for field, msg := range validateStep(StepAddress, w.draft) {
		errs[field] = msg
	}
	if len(errs) > 0 {
		w.step = StepContact
		w.errs = errs
		w.mu.Unlock()
		return gateway.Order{}, errors.New(errors.CodeValidation, "checkout details failed validation").
			WithDetails(errs)
	}

	items := w.cart.Items()
	if len(items) == 0 {
		w.mu.Unlock()
		return gateway.Order{}, errors.New(errors.CodeValidation, "cannot place an order with an empty cart")
	}

	req := buildOrderRequest(w.draft, items)
	w.submitting = true
	w.errs = FieldErrors{}
	w.mu.Unlock()

	order, err := w.api.CreateOrder(ctx, req)

	w.mu.Lock()
	w.submitting = false
	w.mu.Unlock()

	if err != nil {
		if w.logg != nil {
			w.logg.Error(ctx, "order submission failed", err)
		}
		return gateway.Order{}, err
	}

	w.cart.Clear(ctx)
	w.Reset()
	if w.logg != nil {
		w.logg.Info(w.logg.WithField(ctx, "order_id", order.ID), "order placed")
	}
	return order, nil
}

// Reset discards the draft and returns the wizard to the first step.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = StepContact
	w.draft = Draft{
		Country:  defaultCountry,
		Delivery: DeliveryCourier,
		Payment:  PaymentCard,
	}
	w.errs = FieldErrors{}
}

func buildOrderRequest(draft Draft, items []cart.LineItem) gateway.CreateOrderRequest {
	orderItems := make([]gateway.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, gateway.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.UnitPrice,
		})
	}
	return gateway.CreateOrderRequest{
		Items: orderItems,
		Address: gateway.OrderAddress{
			Street:     draft.Street,
			City:       draft.City,
			PostalCode: draft.PostalCode,
			Country:    draft.Country,
			Phone:      draft.Phone,
		},
		Email:          draft.Email,
		Notes:          draft.Notes,
		PaymentMethod:  string(draft.Payment),
		DeliveryMethod: draft.Delivery.wireValue(),
	}
}

// validateStep checks the required fields of a single step. Steps past the
// address collect choices from fixed sets and have nothing to validate.
func validateStep(step Step, draft Draft) FieldErrors {
	errs := FieldErrors{}

	switch step {
	case StepContact:
		if draft.Email == "" {
			errs["email"] = "email is required"
		} else if !emailPattern.MatchString(draft.Email) {
			errs["email"] = "invalid email format"
		}
		if draft.Phone == "" {
			errs["phone"] = "phone is required"
		} else if !phonePattern.MatchString(strings.ReplaceAll(draft.Phone, " ", "")) {
			errs["phone"] = "invalid phone format, expected +380XXXXXXXXX"
		}
	case StepAddress:
		if strings.TrimSpace(draft.Street) == "" {
			errs["street"] = "street is required"
		}
		if strings.TrimSpace(draft.City) == "" {
			errs["city"] = "city is required"
		}
		if strings.TrimSpace(draft.PostalCode) == "" {
			errs["postal_code"] = "postal code is required"
		} else if !postalPattern.MatchString(draft.PostalCode) {
			errs["postal_code"] = "postal code must be 5 digits"
		}
	}

	return errs
}
