package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/fstb-swiss/fstb-admin/app/modules/club"
	"github.com/fstb-swiss/fstb-admin/app/modules/competition"
	"github.com/fstb-swiss/fstb-admin/app/modules/member"
	"github.com/fstb-swiss/fstb-admin/config"
	"github.com/fstb-swiss/fstb-admin/internal/bundb"
	"github.com/fstb-swiss/fstb-admin/internal/eventbus"
	"github.com/fstb-swiss/fstb-admin/internal/observability"
)

// App wires configuration, storage, the event bus and the domain modules.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *bun.DB
	EventBus eventbus.EventBus
	Metrics  observability.OperationMetrics
	Tracer   trace.Tracer

	ClubModule        *club.Module
	MemberModule      *member.Module
	CompetitionModule *competition.Module

	metricsServer *http.Server
}

// Initialize sets up logging, storage, the event bus, observability and the
// three domain modules.
func (app *App) Initialize(ctx context.Context, cfg *config.Config) error {
	app.Config = cfg
	app.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := bundb.NewDB(cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.DB = db

	wmLogger := watermill.NewSlogLogger(app.Logger)
	if cfg.NATS.URL != "" {
		bus, err := eventbus.NewJetStreamBus(cfg.NATS.URL, wmLogger)
		if err != nil {
			return fmt.Errorf("failed to initialize event bus: %w", err)
		}
		app.EventBus = bus
	} else {
		// No broker configured: notifications stay in-process.
		app.EventBus = eventbus.NewInProcessBus(wmLogger)
	}

	registry := prometheus.NewRegistry()
	app.Metrics = observability.NewPrometheusMetrics(registry)
	app.Tracer = otel.Tracer("fstb-admin")

	if addr := cfg.Observability.MetricsAddress; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		app.metricsServer = &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			if err := app.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				app.Logger.Error("Metrics server stopped", slog.Any("error", err))
			}
		}()
	}

	app.ClubModule, err = club.NewClubModule(ctx, app.Logger, app.Metrics, app.Tracer, app.EventBus, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize club module: %w", err)
	}
	app.MemberModule, err = member.NewMemberModule(ctx, app.Logger, app.Metrics, app.Tracer, app.EventBus, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize member module: %w", err)
	}
	app.CompetitionModule, err = competition.NewCompetitionModule(ctx, app.Logger, app.Metrics, app.Tracer, app.EventBus, app.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize competition module: %w", err)
	}

	app.Logger.InfoContext(ctx, "Application initialized",
		slog.String("environment", cfg.Observability.Environment),
	)
	return nil
}

// Close releases the event bus, the metrics listener and the database pool.
func (app *App) Close(ctx context.Context) error {
	var firstErr error

	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close event bus: %w", err)
		}
	}
	if app.metricsServer != nil {
		if err := app.metricsServer.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to stop metrics server: %w", err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close database: %w", err)
		}
	}
	return firstErr
}
