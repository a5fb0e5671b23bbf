// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/handler"
	"github.com/russofg/event-chaos-sub000/pkg/service"
)

// GRPCServer serves the Director service and the standard health service.
type GRPCServer struct {
	port     int
	director handler.DirectorServer

	server   *grpc.Server
	health   *health.Server
	listener net.Listener

	checker       *service.HealthChecker
	checkInterval time.Duration
	stopChecks    context.CancelFunc
}

func NewGRPCServer(port int, director handler.DirectorServer) *GRPCServer {
	return &GRPCServer{
		port:     port,
		director: director,
	}
}

// WithHealthCheck reports the Director as NOT_SERVING while checker fails.
func (s *GRPCServer) WithHealthCheck(checker *service.HealthChecker, interval time.Duration) *GRPCServer {
	s.checker = checker
	s.checkInterval = interval
	return s
}

// Setup builds the server. It must be called before Start.
//
// ============================================================
// DEVELOPER: Director gRPC surface
// ============================================================
// Every call passes through, outermost first:
//  1. otelgrpc stats handler (span per RPC, b3/W3C propagation)
//  2. panic recovery, turned into codes.Internal
//  3. request logging through logrus
//
// The Director speaks JSON over gRPC (content subtype "json").
// There are no generated stubs: use handler.NewDirectorClient or
// any client that sends application/grpc+json.
//
// Add auth or rate limiting to the interceptor chains below.
// ============================================================
func (s *GRPCServer) Setup() error {
	logger := common.InterceptorLogger(logrus.StandardLogger())
	recoverOpt := recovery.WithRecoveryHandlerContext(recoverPanic)

	s.server = grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recoverOpt),
			logging.UnaryServerInterceptor(logger),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoverOpt),
			logging.StreamServerInterceptor(logger),
		),
	)

	handler.RegisterDirectorServer(s.server, s.director)

	s.health = health.NewServer()
	grpc_health_v1.RegisterHealthServer(s.server, s.health)
	s.health.SetServingStatus(handler.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	logrus.WithField("service", handler.ServiceName).Info("gRPC services registered")
	return nil
}

func recoverPanic(ctx context.Context, p any) error {
	logrus.WithContext(ctx).WithField("panic", p).Error("director handler panicked")
	return status.Error(codes.Internal, "internal error")
}

// Addr returns the listening address once started.
func (s *GRPCServer) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start binds the port and serves in the background.
func (s *GRPCServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen on gRPC port %d: %w", s.port, err)
	}
	s.listener = lis

	if s.checker != nil {
		watchCtx, cancel := context.WithCancel(ctx)
		s.stopChecks = cancel
		go s.checker.Watch(watchCtx, s.checkInterval, s.setServing)
	}

	go func() {
		logrus.WithField("addr", lis.Addr().String()).Info("gRPC server listening")
		if err := s.server.Serve(lis); err != nil {
			logrus.WithError(err).Fatal("gRPC server failed")
		}
	}()
	return nil
}

func (s *GRPCServer) setServing(healthy bool) {
	st := grpc_health_v1.HealthCheckResponse_SERVING
	if !healthy {
		st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(handler.ServiceName, st)
	logrus.WithField("status", st.String()).Warn("director health changed")
}

// Shutdown drains in-flight calls, forcing a stop when ctx expires.
func (s *GRPCServer) Shutdown(ctx context.Context) error {
	if s.stopChecks != nil {
		s.stopChecks()
	}
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		s.server.Stop()
		return fmt.Errorf("gRPC graceful stop: %w", ctx.Err())
	}
	return nil
}
