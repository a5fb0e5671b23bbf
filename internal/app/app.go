// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/russofg/event-chaos-sub000/internal/bootstrap"
	"github.com/russofg/event-chaos-sub000/internal/config"
	"github.com/russofg/event-chaos-sub000/internal/server"
	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/content"
	"github.com/russofg/event-chaos-sub000/pkg/generator"
	"github.com/russofg/event-chaos-sub000/pkg/handler"
	"github.com/russofg/event-chaos-sub000/pkg/metrics"
	"github.com/russofg/event-chaos-sub000/pkg/pipeline"
	"github.com/russofg/event-chaos-sub000/pkg/random"
	"github.com/russofg/event-chaos-sub000/pkg/service"
	"github.com/russofg/event-chaos-sub000/pkg/session"
)

const healthCheckInterval = 10 * time.Second

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	store             service.Store
	pipeline          *pipeline.Manager
	sessions          *session.Manager
	director          *handler.Director
	collector         *metrics.Collector
	recorder          func(*session.Runner)
	grpcServer        *server.GRPCServer
	metricsServer     *server.MetricsServer
	shutdownTelemetry func(context.Context) error
}

// New creates and initializes a new application instance.
//
// ============================================================
// DEVELOPER: Application initialization order
// ============================================================
// Components are initialized in dependency order:
// 1. Content tables (scenarios, events, missions, upgrades)
// 2. Store (careers, leaderboards, notices)
// 3. Pipeline config (YAML configuration)
// 4. Pipeline components (signal → rule → action)
// 5. Session manager and Director
// 6. Servers (gRPC, metrics)
// 7. Telemetry (OpenTelemetry tracing)
//
// If you add new external dependencies, initialize them before
// step 4 and pass them to the bootstrap functions.
// ============================================================
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	// ============================================================
	// Step 1: Load content tables
	// ============================================================
	tables, err := content.LoadOrDefault(cfg.ContentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content: %w", err)
	}
	logrus.Infof("loaded %d scenarios", len(tables.ScenarioIDs()))

	// ============================================================
	// Step 2: Open the store
	// ============================================================
	store, err := openStore(ctx, cfg, career.KnownFrom(tables))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	app.store = store

	// ============================================================
	// Step 3: Load pipeline configuration
	// ============================================================
	pipelineConfig, err := pipeline.LoadConfig(cfg.ConfigPath)
	if err != nil {
		app.closeStore()
		return nil, fmt.Errorf("failed to load pipeline config from %s: %w", cfg.ConfigPath, err)
	}
	logrus.Infof("loaded pipeline configuration from %s", cfg.ConfigPath)

	// ============================================================
	// Step 4: Bootstrap pipeline components
	// ============================================================
	// The pipeline is built in this order:
	// Signal Processor → Rule Engine → Action Executor → Pipeline Manager
	// ============================================================
	if err := app.initPipeline(pipelineConfig); err != nil {
		app.closeStore()
		return nil, err
	}

	// ============================================================
	// Step 5: Session manager and Director
	// ============================================================
	app.sessions = session.NewManager(session.ManagerConfig{
		MaxSessions:  cfg.MaxSessions,
		TickInterval: cfg.TickInterval,
		Sink:         session.Fanout{app.collector, app.pipeline},
		OnStart:      func(*session.Runner) { app.collector.SessionStarted() },
		OnEnd: func(r *session.Runner) {
			app.collector.SessionStopped()
			app.recorder(r)
		},
	})

	app.director = handler.NewDirector(app.sessions, store, tables)
	if cfg.ProceduralEvents {
		delay := cfg.GeneratorDelay
		app.director.WithGenerator(func(src random.Source) generator.Generator {
			return generator.NewSimulated(tables, delay, src)
		})
		logrus.Infof("procedural events enabled (delay %s)", delay)
	}

	// ============================================================
	// Step 6: Setup servers
	// ============================================================
	app.grpcServer = server.NewGRPCServer(cfg.GRPCPort, app.director).
		WithHealthCheck(service.NewHealthChecker(store), healthCheckInterval)
	if err := app.grpcServer.Setup(); err != nil {
		app.closeStore()
		return nil, fmt.Errorf("failed to setup gRPC server: %w", err)
	}

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics", app.collector)
	if err := app.metricsServer.Setup(); err != nil {
		app.closeStore()
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	// ============================================================
	// Step 7: Setup telemetry
	// ============================================================
	if cfg.OtelEnabled {
		shutdownTelemetry, err := server.SetupTelemetry(ctx, common.TracerOptions{
			ServiceName: cfg.ServiceName,
			Environment: cfg.Environment,
			Endpoint:    cfg.ZipkinEndpoint,
			SampleRatio: cfg.TraceSampleRatio,
		})
		if err != nil {
			app.closeStore()
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdownTelemetry
	}

	logrus.Info("application initialized successfully")

	return app, nil
}

// initPipeline wires the director pipeline onto the opened store.
//
// ============================================================
// DEVELOPER: Pipeline services
// ============================================================
// Rules and actions reach storage only through the store
// handed to BuildDirectorPipeline. A custom action needing
// another service gets a field in actionBuiltin.Dependencies
// and is wired in bootstrap.BuildDirectorPipeline.
// ============================================================
func (a *App) initPipeline(pipelineConfig *pipeline.Config) error {
	manager, err := bootstrap.BuildDirectorPipeline(pipelineConfig, a.store, logrus.WithField("component", "pipeline"))
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	logrus.Info("pipeline wiring validation passed")

	a.collector = metrics.New()
	a.pipeline = manager.WithObserver(a.collector)
	a.recorder = handler.CareerRecorder(a.store, handler.DefaultRecordTimeout)

	return nil
}

func (a *App) closeStore() {
	if err := a.store.Close(); err != nil {
		logrus.Errorf("store close error: %v", err)
	}
}
