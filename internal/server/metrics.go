// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/russofg/event-chaos-sub000/pkg/metrics"
)

// MetricsServer exposes Prometheus metrics over HTTP.
type MetricsServer struct {
	port      int
	endpoint  string
	collector *metrics.Collector

	server   *http.Server
	listener net.Listener
}

// NewMetricsServer serves collector on endpoint. A nil collector leaves only
// the Go runtime and process metrics.
func NewMetricsServer(port int, endpoint string, collector *metrics.Collector) *MetricsServer {
	return &MetricsServer{
		port:      port,
		endpoint:  endpoint,
		collector: collector,
	}
}

// Setup builds the registry and handler.
//
// ============================================================
// DEVELOPER: Director metrics
// ============================================================
// The registry is private to this server, so tests can build
// several without colliding on the global default registry.
// New director series belong in pkg/metrics; list them in
// Collector.Register and they show up here.
// ============================================================
func (m *MetricsServer) Setup() error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if m.collector != nil {
		if err := m.collector.Register(registry); err != nil {
			return fmt.Errorf("register director metrics: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle(m.endpoint, promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: logrus.WithField("component", "metrics"),
	}))

	m.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", m.port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return nil
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *MetricsServer) Handler() http.Handler {
	return m.server.Handler
}

// Start binds the port so a busy port fails startup, then serves in the
// background.
func (m *MetricsServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", m.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on metrics port %d: %w", m.port, err)
	}
	m.listener = lis

	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":     lis.Addr().String(),
			"endpoint": m.endpoint,
		}).Info("metrics server listening")
		if err := m.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("metrics server failed")
		}
	}()
	return nil
}

// Shutdown stops the server once in-flight scrapes finish.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}
