// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// ShutdownTimeout bounds the whole shutdown sequence.
const ShutdownTimeout = 15 * time.Second

// Run serves until ctx is cancelled or the process receives SIGINT or
// SIGTERM, then shuts down with a fresh ShutdownTimeout budget.
func (a *App) Run(ctx context.Context) error {
	// Detached so outcomes queued by the final sessions still drain.
	a.pipeline.Start(context.WithoutCancel(ctx))

	if err := a.grpcServer.Start(ctx); err != nil {
		return err
	}
	if err := a.metricsServer.Start(ctx); err != nil {
		return err
	}
	logrus.WithField("sessions_max", a.cfg.MaxSessions).Info("director serving")

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	logrus.WithField("cause", context.Cause(sigCtx)).Info("director stopping")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

type shutdownStep struct {
	name string
	run  func(context.Context) error
}

// Shutdown stops every component in order and always runs all steps.
//
// ============================================================
// DEVELOPER: Shutdown order matters
// ============================================================
//  1. listeners: no new sessions or scrapes arrive
//  2. sessions: running sessions end as stopped and report
//     their outcome to the pipeline and the career recorder
//  3. pipeline: the queue drains before the store goes away
//  4. store: Redis/SQLite connections close
//  5. telemetry: buffered spans are flushed last so the steps
//     above are still exported
//
// A failing step is logged and the sequence continues.
// ============================================================
func (a *App) Shutdown(ctx context.Context) error {
	steps := []shutdownStep{
		{"grpc", a.grpcServer.Shutdown},
		{"metrics", a.metricsServer.Shutdown},
		{"sessions", a.sessions.Shutdown},
		{"pipeline", a.drainPipeline},
		{"store", func(context.Context) error { return a.store.Close() }},
		{"telemetry", a.flushTelemetry},
	}

	for _, step := range steps {
		start := time.Now()
		log := logrus.WithField("step", step.name)
		if err := step.run(ctx); err != nil {
			log.WithError(err).Error("shutdown step failed")
			continue
		}
		log.WithField("took", time.Since(start)).Debug("shutdown step done")
	}

	logrus.Info("director stopped")
	return nil
}

func (a *App) drainPipeline(context.Context) error {
	a.pipeline.Stop()
	stats := a.pipeline.GetStats()
	logrus.WithFields(logrus.Fields{
		"triggered": stats.EngineStats.TriggersGenerated,
		"executed":  stats.ExecutorStats.TotalActionsExecuted,
		"dropped":   stats.ProcessorStats.EventsDropped,
	}).Info("pipeline drained")
	return nil
}

func (a *App) flushTelemetry(ctx context.Context) error {
	if a.shutdownTelemetry == nil {
		return nil
	}
	return a.shutdownTelemetry(ctx)
}
