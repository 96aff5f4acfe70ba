package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/powercore-shop/storefront/api/controllers"
	"github.com/powercore-shop/storefront/api/middleware"
	"github.com/powercore-shop/storefront/internal/adminstats"
	"github.com/powercore-shop/storefront/internal/cart"
	"github.com/powercore-shop/storefront/internal/checkout"
	"github.com/powercore-shop/storefront/internal/gateway"
	"github.com/powercore-shop/storefront/internal/health"
	"github.com/powercore-shop/storefront/internal/session"
	"github.com/powercore-shop/storefront/pkg/config"
	"github.com/powercore-shop/storefront/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gw *gateway.Client,
	cartStore *cart.Store,
	sessionStore *session.Store,
	wizard *checkout.Wizard,
	healthPoller *health.Poller,
	statsPoller *adminstats.Poller,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Get("/health", controllers.Status(cfg, healthPoller))
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(gw, logg))
			r.Get("/search", controllers.CatalogSearch(gw, logg))
			r.Get("/{id}", controllers.CatalogDetail(gw, logg))
			r.Get("/{productID}/reviews", controllers.ReviewsList(gw, logg))
			r.Post("/{productID}/reviews", controllers.ReviewsCreate(gw, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(middleware.RequireAuth(sessionStore, logg))
			r.Put("/{reviewID}", controllers.ReviewsUpdate(gw, logg))
			r.Delete("/{reviewID}", controllers.ReviewsDelete(gw, logg))
		})

		r.Route("/calculator", func(r chi.Router) {
			r.Post("/power-bank", controllers.CalculatorPowerBank(gw, logg))
			r.Post("/ups", controllers.CalculatorUPS(gw, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartStore, logg))
			r.Delete("/", controllers.CartClear(cartStore, logg))
			r.Post("/items", controllers.CartAddItem(cartStore, logg))
			r.Put("/items/{productID}", controllers.CartUpdateItem(cartStore, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(cartStore, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(sessionStore, logg))
			r.Post("/register", controllers.AuthRegister(sessionStore, logg))
			r.Post("/logout", controllers.AuthLogout(sessionStore, logg))
			r.Get("/me", controllers.AuthMe(sessionStore, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutState(wizard, logg))
			r.Get("/summary", controllers.CheckoutSummary(wizard, logg))
			r.Put("/contact", controllers.CheckoutSetContact(wizard, logg))
			r.Put("/address", controllers.CheckoutSetAddress(wizard, logg))
			r.Put("/delivery", controllers.CheckoutSetDelivery(wizard, logg))
			r.Put("/payment", controllers.CheckoutSetPayment(wizard, logg))
			r.Put("/notes", controllers.CheckoutSetNotes(wizard, logg))
			r.Post("/advance", controllers.CheckoutAdvance(wizard, logg))
			r.Post("/back", controllers.CheckoutBack(wizard, logg))
			r.Post("/submit", controllers.CheckoutSubmit(wizard, logg))
			r.Post("/reset", controllers.CheckoutReset(wizard, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireAuth(sessionStore, logg))
			r.Get("/", controllers.OrdersList(gw, logg))
			r.Get("/{id}", controllers.OrdersDetail(gw, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(sessionStore, logg))
			r.Get("/orders", controllers.AdminOrdersList(gw, logg))
			r.Put("/orders/{id}/status", controllers.AdminOrderStatus(gw, logg))
			r.Put("/orders/{id}/payment", controllers.AdminPaymentStatus(gw, logg))
			r.Get("/stats", controllers.AdminStatsSnapshot(statsPoller, logg))
			r.Get("/reviews/pending", controllers.AdminPendingReviews(gw, logg))
			r.Post("/reviews/{reviewID}/moderate", controllers.AdminModerateReview(gw, logg))
			r.Delete("/reviews/{reviewID}", controllers.AdminReviewDelete(gw, logg))
		})
	})

	return r
}
