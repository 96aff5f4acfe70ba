package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/powercore-shop/storefront/api/routes"
	"github.com/powercore-shop/storefront/internal/adminstats"
	"github.com/powercore-shop/storefront/internal/cart"
	"github.com/powercore-shop/storefront/internal/checkout"
	"github.com/powercore-shop/storefront/internal/gateway"
	"github.com/powercore-shop/storefront/internal/health"
	"github.com/powercore-shop/storefront/internal/session"
	"github.com/powercore-shop/storefront/pkg/config"
	"github.com/powercore-shop/storefront/pkg/logger"
	"github.com/powercore-shop/storefront/pkg/metrics"
	"github.com/powercore-shop/storefront/pkg/storage"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := storage.Open(ctx, cfg)
	if err != nil {
		logg.Error(ctx, "failed to open local storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logg.Error(context.Background(), "error closing local storage", err)
		}
	}()

	registry := prometheus.NewRegistry()
	clientMetrics := metrics.NewClientMetrics(registry)

	// The session store needs the gateway for login, and the gateway needs
	// the session's token for bearer auth. The indirection through a closure
	// breaks the construction cycle.
	var sessionStore *session.Store
	gw, err := gateway.New(gateway.Options{
		BaseURL: cfg.Backend.ResolveBaseURL(),
		Timeout: cfg.Backend.Timeout,
		Tokens: gateway.TokenFunc(func() string {
			if sessionStore == nil {
				return ""
			}
			return sessionStore.Token()
		}),
		Logger:  logg,
		Metrics: clientMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to build backend gateway", err)
		os.Exit(1)
	}

	namespace := cfg.Storage.Namespace
	sessionStore = session.NewStore(ctx, kv, namespace, gw, logg)
	cartStore := cart.NewStore(ctx, kv, namespace, logg)
	wizard := checkout.NewWizard(gw, cartStore, logg)

	healthPoller := health.NewPoller(gw, cfg.Poll.HealthInterval, logg, clientMetrics)
	statsPoller := adminstats.NewPoller(gw, sessionStore, cfg.Poll.AdminStatsInterval, logg, clientMetrics)
	go healthPoller.Run(ctx)
	go statsPoller.Run(ctx)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": gw.BaseURL(),
		"storage": cfg.Storage.Backend,
	})
	logg.Info(startCtx, "starting storefront client")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, gw, cartStore, sessionStore, wizard, healthPoller, statsPoller, registry),
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(startCtx, "storefront server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if serveErr := <-serverErr; serveErr != nil && serveErr != http.ErrServerClosed {
			err = multierr.Append(err, serveErr)
		}
		if err != nil {
			logg.Error(startCtx, "shutdown did not complete cleanly", err)
			os.Exit(1)
		}
		logg.Info(startCtx, "storefront client stopped")
	}
}
