// Copyright (c) 2023 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package common

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// DefaultZipkinEndpoint is used when OTEL_EXPORTER_ZIPKIN_ENDPOINT is unset.
const DefaultZipkinEndpoint = "http://localhost:9411/api/v2/spans"

// TracerOptions describes the director instance spans are attributed to.
type TracerOptions struct {
	ServiceName string
	Environment string
	InstanceID  int64

	// Endpoint empty falls back to OTEL_EXPORTER_ZIPKIN_ENDPOINT and then
	// DefaultZipkinEndpoint.
	Endpoint string

	// SampleRatio is the share of root spans kept. Children follow their
	// parent's decision.
	SampleRatio float64
}

// NewTracerProvider creates a tracer provider exporting spans to Zipkin.
func NewTracerProvider(opts TracerOptions) (*sdktrace.TracerProvider, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = GetEnv("OTEL_EXPORTER_ZIPKIN_ENDPOINT", DefaultZipkinEndpoint)
	}

	exporter, err := zipkin.New(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create zipkin exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", opts.ServiceName),
		attribute.String("deployment.environment", opts.Environment),
		attribute.Int64("service.instance.id", opts.InstanceID),
	)

	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(Sampler(opts.SampleRatio)),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

// Sampler keeps ratio of root spans and follows the parent otherwise.
func Sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}
