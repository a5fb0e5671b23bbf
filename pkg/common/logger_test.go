package common

import (
	"context"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestInterceptorLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	l := InterceptorLogger(logger)
	l.Log(context.Background(), logging.LevelWarn, "slow call", "grpc.method", "StartSession", "grpc.code", "OK")

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Level != logrus.WarnLevel || entry.Message != "slow call" {
		t.Errorf("unexpected entry: level=%v message=%q", entry.Level, entry.Message)
	}
	if entry.Data["grpc.method"] != "StartSession" {
		t.Errorf("expected grpc.method field, got %v", entry.Data)
	}
}
