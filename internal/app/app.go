// Package app wires the engine, scheduler, push channel and HTTP surface
// into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"marketsim/internal/config"
	"marketsim/internal/engine"
	"marketsim/internal/infrastructure"
	custommiddleware "marketsim/internal/middleware"
	"marketsim/internal/scheduler"
	handlers "marketsim/internal/transport/http"
	ws "marketsim/internal/websocket"
	"marketsim/pkg/contracts/domain"
)

const (
	Version = "1.0.0"
	AppName = "marketsim"
)

// Application is the main dependency container.
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.SimMetrics

	Engine    *engine.Engine
	Scheduler *scheduler.Scheduler
	Hub       *ws.Hub

	Router *chi.Mux
	Server *http.Server
}

// New loads configuration and builds the fully wired application.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig builds the application from an already loaded configuration.
func NewWithConfig(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	otelProviders, err := infrastructure.InitializeOTel(AppName, Version, cfg.Engine.Development, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize otel: %w", err)
	}

	metrics, err := infrastructure.NewSimMetrics()
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
	}

	app.initializeSimulation()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeSimulation builds the engine, the push hub and the tick loop,
// and connects the metric hooks.
func (a *Application) initializeSimulation() {
	a.Engine = engine.New(engine.Options{
		Seed:   a.Config.Engine.Seed,
		Logger: a.Logger,
	})

	a.Hub = ws.NewHub(a.Engine, a.Logger)
	a.Hub.OnDrop(func() {
		a.Metrics.DroppedSubscribers.Add(context.Background(), 1)
	})

	a.Scheduler = scheduler.New(
		a.Engine,
		a.countingPublisher(),
		a.Config.Engine.TickInterval,
		a.Config.Engine.BroadcastEvery,
		a.Logger,
	)
	a.Scheduler.OnTick(func(d time.Duration) {
		a.Metrics.RecordTick(context.Background(), d)
	})
}

// publisherFunc adapts a function to the scheduler's Publisher interface.
type publisherFunc func(snapshot domain.Snapshot)

func (f publisherFunc) Publish(snapshot domain.Snapshot) { f(snapshot) }

func (a *Application) countingPublisher() scheduler.Publisher {
	return publisherFunc(func(snapshot domain.Snapshot) {
		a.Metrics.Broadcasts.Add(context.Background(), 1)
		a.Hub.Publish(snapshot)
	})
}

// setupRouter configures the HTTP routes. The WebSocket endpoint sits outside
// the API middleware group: response-writer wrapping middleware breaks the
// upgrade handshake.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Get("/ws/market", ws.Handler(a.Hub, ws.UpgradeConfig{
		ReadBufferSize:  a.Config.WebSocket.ReadBufferSize,
		WriteBufferSize: a.Config.WebSocket.WriteBufferSize,
		CheckOrigin:     a.originChecker(),
	}, a.Logger))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(custommiddleware.StructuredLogger(a.Logger))
		r.Use(chimiddleware.Recoverer)
		r.Use(chimiddleware.Timeout(a.Config.Server.ReadTimeout))

		if a.Config.Security.EnableCORS {
			r.Use(custommiddleware.CORS(a.Config.Security.AllowedOrigins))
		}

		healthHandler := handlers.NewHealthHandler(a.Engine, a.Hub, Version)
		r.Mount("/health", healthHandler.Routes())

		// Data endpoints sit behind API-key auth and rate limiting; an empty
		// key set disables auth entirely.
		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.APIKeyAuth(a.Config.Security.APIKeySet(), a.Logger))

			if a.Config.Security.RateLimit.Enabled {
				limiter := custommiddleware.NewRateLimiter(
					a.Config.Security.RateLimit.RPS,
					a.Config.Security.RateLimit.Burst,
					a.Logger,
				)
				r.Use(limiter.Handler)
			}

			stocksHandler := handlers.NewStocksHandler(a.Engine, a.Logger)
			r.Mount("/stocks", stocksHandler.Routes())

			marketHandler := handlers.NewMarketHandler(a.Engine, a.Logger)
			r.Mount("/market", marketHandler.Routes())

			simHandler := handlers.NewSimulationHandler(
				a.Engine,
				a.Config.Engine.TickInterval,
				a.Config.Engine.BroadcastEvery,
				a.Logger,
			)
			r.Mount("/simulation", simHandler.Routes())
			r.Mount("/analytics", simHandler.AnalyticsRoutes())
		})
	})

	a.Router = r
}

// originChecker validates WebSocket upgrade origins against the configured
// allow list. Requests without an Origin header are accepted.
func (a *Application) originChecker() func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(a.Config.Security.AllowedOrigins))
	for _, o := range a.Config.Security.AllowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || a.Config.Engine.Development {
			return true
		}
		if _, ok := allowed[origin]; ok {
			return true
		}
		a.Logger.Warn("websocket origin rejected", slog.String("origin", origin))
		return false
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run starts the tick loop, the hub and the HTTP server, and blocks until an
// interrupt arrives or a component fails.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		err := a.Scheduler.Run(ctx)
		if err == context.Canceled {
			return nil
		}
		return err
	})

	g.Go(func() error {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return a.shutdown()
	})

	if err := g.Wait(); err != nil {
		return err
	}

	a.Logger.Info("application shutdown complete")
	return nil
}

// shutdown drains the HTTP server and flushes telemetry.
func (a *Application) shutdown() error {
	a.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("server shutdown error", slog.Any("error", err))
	}

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("otel shutdown error", slog.Any("error", err))
	}

	return nil
}
