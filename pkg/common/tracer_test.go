package common

import (
	"context"
	"strings"
	"testing"
)

func TestSampler(t *testing.T) {
	tests := map[float64]string{
		1:    "root:AlwaysOnSampler",
		2:    "root:AlwaysOnSampler",
		0:    "root:AlwaysOffSampler",
		0.25: "root:TraceIDRatioBased{0.25}",
	}
	for ratio, want := range tests {
		if got := Sampler(ratio).Description(); !strings.Contains(got, want) {
			t.Errorf("Sampler(%v) = %s, expected it to contain %s", ratio, got, want)
		}
	}
}

func TestNewTracerProvider(t *testing.T) {
	tp, err := NewTracerProvider(TracerOptions{
		ServiceName: "EventChaosDirector",
		Environment: "test",
		Endpoint:    "http://127.0.0.1:1/api/v2/spans",
		SampleRatio: 0.5,
	})
	if err != nil {
		t.Fatalf("NewTracerProvider() error = %v", err)
	}
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	if _, err := NewTracerProvider(TracerOptions{Endpoint: "://bad"}); err == nil {
		t.Error("expected an error for a malformed endpoint")
	}
}
