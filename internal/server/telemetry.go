// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/russofg/event-chaos-sub000/pkg/common"
)

// SetupTelemetry installs the global tracer provider and propagators. The
// returned function flushes pending spans and must run on shutdown.
//
// ============================================================
// DEVELOPER: Tracing
// ============================================================
// Every director RPC gets a span from otelgrpc, and the
// handlers open a child span per call (common.StartScope)
// tagged with playerId / sessionId. Session ticks are not
// traced; they would drown the exporter.
//
// Spans go to Zipkin. Sampling of root spans is set with
// OTEL_TRACE_SAMPLE_RATIO; callers that already sampled a
// trace keep it. Incoming context is read as B3 or W3C.
// ============================================================
func SetupTelemetry(ctx context.Context, opts common.TracerOptions) (func(context.Context) error, error) {
	tracerProvider, err := common.NewTracerProvider(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer provider: %w", err)
	}

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		b3.New(b3.WithInjectEncoding(b3.B3MultipleHeader|b3.B3SingleHeader)),
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logrus.WithFields(logrus.Fields{
		"service":      opts.ServiceName,
		"environment":  opts.Environment,
		"sample_ratio": opts.SampleRatio,
	}).Info("tracing enabled")

	return func(ctx context.Context) error {
		if err := tracerProvider.ForceFlush(ctx); err != nil {
			logrus.WithError(err).Warn("failed to flush spans")
		}
		return tracerProvider.Shutdown(ctx)
	}, nil
}
