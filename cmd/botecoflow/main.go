package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/neomorfeo/botecoflow/internal/adapter/fsm"
	otelAdapter "github.com/neomorfeo/botecoflow/internal/adapter/otel"
	"github.com/neomorfeo/botecoflow/internal/adapter/provisioning"
	riverAdapter "github.com/neomorfeo/botecoflow/internal/adapter/river"
	"github.com/neomorfeo/botecoflow/internal/adapter/sqlite"
	"github.com/neomorfeo/botecoflow/internal/app"
	"github.com/neomorfeo/botecoflow/internal/config"

	handler "github.com/neomorfeo/botecoflow/internal/adapter/http"
)

const (
	serviceName    = "botecoflow"
	serviceVersion = "0.1.0"
)

func main() {
	if err := run(); err != nil {
		slog.Error("botecoflow exited", "error", err)
		os.Exit(1)
	}
}

// run wires every adapter, serves HTTP until SIGINT or SIGTERM and then
// shuts down in reverse order of startup.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Telemetry ---
	providers, err := otelAdapter.Setup(ctx, otelAdapter.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Error("otel shutdown", "error", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := otelAdapter.OpenDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	store, err := sqlite.NewFromDB(db, sqlite.WithCallTimeout(cfg.CallTimeout))
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	jobs, err := riverAdapter.Setup(ctx, db, logger)
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	// River stops hard when its start context is cancelled; shutdown below
	// stops it gracefully instead.
	if err := jobs.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("river start: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := jobs.Stop(stopCtx); err != nil {
			logger.Error("river stop", "error", err)
		}
	}()

	gateway := otelAdapter.NewTracingGateway(store)
	publisher := otelAdapter.NewTracingPublisher(riverAdapter.NewPublisher(jobs))
	provisioner := otelAdapter.NewTracingProvisioner(
		provisioning.New(cfg.ProvisioningBaseURL, provisioning.WithTimeout(cfg.CallTimeout)),
	)

	steps, err := otelAdapter.NewMeteredStepValidator(fsm.New(), providers.MeterProvider())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}

	// --- Application ---
	onboarding := app.NewOnboardingService(gateway, provisioner, publisher, steps,
		app.WithLogger(logger),
		app.WithCompensationTimeout(cfg.CompensationTimeout),
	)
	auth := app.NewAuthBridge(gateway, publisher, app.WithLogger(logger))
	sessions := app.NewSessionController(onboarding, auth, cfg.MaxSessions, cfg.SessionTTL)

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(router)))
	router.Use(requestLogger(logger))

	api := humachi.New(router, huma.DefaultConfig(serviceName, serviceVersion))
	handler.Register(api, sessions)

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("botecoflow listening", "port", cfg.Port, "docs", "http://localhost:"+cfg.Port+"/docs")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
