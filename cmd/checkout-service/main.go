package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swifteats/checkout/internal/checkout/core/service"
	"github.com/swifteats/checkout/internal/checkout/infra/geo"
	"github.com/swifteats/checkout/internal/checkout/infra/httpx"
	"github.com/swifteats/checkout/internal/checkout/infra/platform"
	"github.com/swifteats/checkout/internal/checkout/infra/store"
	"github.com/swifteats/checkout/internal/gate"
	attemptsqlite "github.com/swifteats/checkout/internal/gate/attemptlog/sqlite"
	"github.com/swifteats/checkout/internal/pkg/cache"
	"github.com/swifteats/checkout/internal/pkg/events"
	"github.com/swifteats/checkout/internal/pkg/metrics"
	"github.com/swifteats/checkout/internal/pkg/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry.InitLogger()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "checkout-service"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	attempts, err := attemptsqlite.Open(getEnv("ATTEMPT_LOG_PATH", "./data/checkout.db"))
	if err != nil {
		slog.Error("failed to open attempt log", "error", err)
		os.Exit(1)
	}
	defer attempts.Close()

	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	carts := store.NewRedisCartStore(redisAddr)
	responseCache := cache.NewRedisCache(redisAddr, "checkout")

	platformClient := platform.NewClient(getEnv("PLATFORM_API_URL", "http://localhost:8090"))
	geocoder := geo.NewClient(getEnv("GEOCODER_URL", "http://localhost:8091"))

	publisher := events.NewPublisher(getEnv("KAFKA_BROKERS", ""), events.DefaultTopic)
	defer publisher.Close()

	checkoutMetrics := metrics.NewCheckoutMetrics("checkout")

	checkout := service.New(service.Deps{
		Carts:     carts,
		Profiles:  platformClient,
		Payments:  platformClient,
		Wallet:    platformClient,
		Addresses: platformClient,
		Coupons:   platformClient,
		Orders:    platformClient,
		Geocoder:  geocoder,
		Gate:      gate.New(attempts, checkoutMetrics),
		Attempts:  attempts,
		Cache:     responseCache,
		Events:    publisher,
		Metrics:   checkoutMetrics,
	})

	handler := httpx.NewHandler(checkout)
	router := httpx.NewRouter(handler)

	addr := ":" + getEnv("PORT", "8080")
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("checkout service running", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
