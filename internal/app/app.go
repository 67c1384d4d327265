// Package app wires every dependency of the API server and runs it.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/nossoguia/guia-compras/internal/api"
	"github.com/nossoguia/guia-compras/internal/domain/cart"
	"github.com/nossoguia/guia-compras/internal/session"
	"github.com/nossoguia/guia-compras/internal/storage/postgres"
	"github.com/nossoguia/guia-compras/pkg/health"
	"github.com/nossoguia/guia-compras/pkg/httpmiddleware"
)

// logSubmitter receives checked-out orders and records them in the log. The
// engine only requires a hand-off point; forwarding to a store's own channel
// is outside this service.
type logSubmitter struct {
	lg *zap.Logger
}

func (s *logSubmitter) Submit(_ context.Context, sub cart.Submission) error {
	s.lg.Info("order submitted",
		zap.String("store", sub.Store),
		zap.String("mode", string(sub.Mode)),
		zap.String("payment", string(sub.Payment)),
		zap.Int("lines", len(sub.Items)),
		zap.String("total", sub.Total.StringFixed(2)),
	)
	return nil
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(pool))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Repositories.
	directoryRepo := postgres.NewDirectoryRepository(pool)
	registrationRepo := postgres.NewRegistrationRepository(pool)
	adRepo := postgres.NewAdRepository(pool)

	// Cart sessions.
	submitter := &logSubmitter{lg: lg.Named("orders")}
	sessions := session.NewManager(cfg.Session.TTL, func() *cart.Controller {
		return cart.NewController(submitter)
	})
	sessions.Start(ctx, cfg.Session.SweepInterval)
	defer sessions.Stop()

	// HTTP handlers: API routes + health endpoints on one mux.
	h := api.NewHandler(directoryRepo, registrationRepo, adRepo, sessions)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/v1/", h.Routes())

	instrument, err := httpmiddleware.Instrument(m.MeterProvider().Meter("guia-api"))
	if err != nil {
		return errors.Wrap(err, "create metrics middleware")
	}

	handler := httpmiddleware.Wrap(mux,
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins: cfg.CORS.Origins,
			AllowHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:       86400,
		}),
		httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		instrument,
		httpmiddleware.LogRequests(),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: otelhttp.NewHandler(handler, "guia-api",
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
