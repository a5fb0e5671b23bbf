// Copyright (c) 2023 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package common

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer every director span comes from.
const TracerName = "event-chaos-director"

const traceIDLogField = "traceID"

// Scope carries one traced director call: the span context to pass on and a
// logger stamped with the trace ID and whatever the call has been tagged with.
type Scope struct {
	Ctx     context.Context
	TraceID string
	Log     *logrus.Entry
	span    oteltrace.Span
}

// StartScope opens a span named name under whatever span ctx already holds,
// such as the one otelgrpc starts for an incoming RPC.
func StartScope(ctx context.Context, name string) *Scope {
	spanCtx, span := otel.Tracer(TracerName).Start(ctx, name)
	traceID := span.SpanContext().TraceID().String()

	return &Scope{
		Ctx:     spanCtx,
		TraceID: traceID,
		Log:     logrus.WithField(traceIDLogField, traceID),
		span:    span,
	}
}

// Finish ends the span.
func (s *Scope) Finish() {
	s.span.End()
}

// Tag sets a span attribute and the matching log field.
func (s *Scope) Tag(key string, value interface{}) {
	if value == nil {
		return
	}
	s.span.SetAttributes(attributeOf(key, value))
	s.Log = s.Log.WithField(key, value)
}

// TraceError marks the span failed.
func (s *Scope) TraceError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func attributeOf(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case uint64:
		return attribute.String(key, fmt.Sprint(v))
	case float64:
		return attribute.Float64(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
