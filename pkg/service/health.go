// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultHealthTimeout bounds a single store ping.
const DefaultHealthTimeout = 2 * time.Second

// Pinger is anything that can report backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker pings the career store.
type HealthChecker struct {
	store   Pinger
	timeout time.Duration
}

func NewHealthChecker(store Pinger) *HealthChecker {
	return &HealthChecker{store: store, timeout: DefaultHealthTimeout}
}

// WithTimeout changes the per-ping deadline. Non-positive values are ignored.
func (h *HealthChecker) WithTimeout(d time.Duration) *HealthChecker {
	if d > 0 {
		h.timeout = d
	}
	return h
}

// Check pings the store once.
func (h *HealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		return fmt.Errorf("career store unreachable: %w", err)
	}
	return nil
}

// IsHealthy reports whether Check succeeds.
func (h *HealthChecker) IsHealthy(ctx context.Context) bool {
	return h.Check(ctx) == nil
}

// Watch checks the store every interval until ctx is done and calls onChange
// whenever the result differs from the previous one. The store is assumed
// healthy before the first check.
func (h *HealthChecker) Watch(ctx context.Context, interval time.Duration, onChange func(healthy bool)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		err := h.Check(ctx)
		if (err == nil) == healthy {
			continue
		}
		healthy = err == nil
		if err != nil {
			logrus.WithError(err).Warn("store health check failing")
		} else {
			logrus.Info("store health check recovered")
		}
		onChange(healthy)
	}
}
