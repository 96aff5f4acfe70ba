package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/powercore-shop/storefront/api/responses"
	"github.com/powercore-shop/storefront/api/validators"
	"github.com/powercore-shop/storefront/internal/adminstats"
	"github.com/powercore-shop/storefront/internal/gateway"
	pkgerrors "github.com/powercore-shop/storefront/pkg/errors"
	"github.com/powercore-shop/storefront/pkg/logger"
)

// AdminService is the slice of the gateway the back-office routes consume.
type AdminService interface {
	AdminOrders(ctx context.Context) ([]gateway.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) (gateway.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID, status string) (gateway.Order, error)
	PendingReviews(ctx context.Context, limit int, includeAll bool) ([]gateway.Review, error)
	ModerateReview(ctx context.Context, reviewID string, approve bool, moderatorComment string) (gateway.Review, error)
	AdminDeleteReview(ctx context.Context, reviewID string) error
}

var orderStatuses = map[string]struct{}{
	"pending":    {},
	"processing": {},
	"shipped":    {},
	"delivered":  {},
	"cancelled":  {},
}

var paymentStatuses = map[string]struct{}{
	"pending":  {},
	"paid":     {},
	"failed":   {},
	"refunded": {},
}

type orderStatusRequest struct {
	Status string `json:"order_status" validate:"required"`
}

type paymentStatusRequest struct {
	Status string `json:"payment_status" validate:"required"`
}

type moderateReviewRequest struct {
	Approve          bool   `json:"is_approved"`
	ModeratorComment string `json:"moderator_comment" validate:"max=1000"`
}

func AdminOrdersList(svc AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := svc.AdminOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

func AdminOrderStatus(svc AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}

		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, ok := orderStatuses[payload.Status]; !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").WithDetails(map[string]string{"order_status": payload.Status}))
			return
		}

		order, err := svc.UpdateOrderStatus(r.Context(), orderID, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AdminPaymentStatus(svc AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}

		var payload paymentStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, ok := paymentStatuses[payload.Status]; !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment status").WithDetails(map[string]string{"payment_status": payload.Status}))
			return
		}

		order, err := svc.UpdatePaymentStatus(r.Context(), orderID, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AdminPendingReviews(svc AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		includeAll, err := validators.ParseQueryBool(r, "all_reviews", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reviews, err := svc.PendingReviews(r.Context(), limit, includeAll)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reviews)
	}
}

func AdminModerateReview(svc AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID := chi.URLParam(r, "reviewID")
		if reviewID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "review id is required"))
			return
		}

		var payload moderateReviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.ModerateReview(r.Context(), reviewID, payload.Approve, payload.ModeratorComment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, review)
	}
}

func AdminReviewDelete(svc AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID := chi.URLParam(r, "reviewID")
		if reviewID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "review id is required"))
			return
		}

		if err := svc.AdminDeleteReview(r.Context(), reviewID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminStatsSnapshot serves the poller's cached dashboard snapshot.
// ?refresh=true forces a fetch before responding.
func AdminStatsSnapshot(poller *adminstats.Poller, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refresh, err := validators.ParseQueryBool(r, "refresh", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if refresh {
			poller.Refresh(r.Context())
		}

		snap, ok := poller.Current()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnreachable, "dashboard stats not available yet"))
			return
		}

		payload := map[string]any{
			"stats":      snap.Stats,
			"fetched_at": snap.FetchedAt.UTC(),
			"stale":      snap.Stale,
		}
		if snap.LastError != "" {
			payload["last_error"] = snap.LastError
		}
		responses.WriteSuccess(w, payload)
	}
}
