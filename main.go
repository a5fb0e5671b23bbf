// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/russofg/event-chaos-sub000/internal/app"
	"github.com/russofg/event-chaos-sub000/internal/config"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("director config")
	}
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("director config rejected")
	}
	// Validate has already checked the level.
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	logrus.SetLevel(level)

	logrus.WithFields(logrus.Fields{
		"service":     cfg.ServiceName,
		"environment": cfg.Environment,
		"store":       cfg.StoreBackend,
	}).Info("starting director")

	ctx := context.Background()
	director, err := app.New(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("director init")
	}
	if err := director.Run(ctx); err != nil {
		logrus.WithError(err).Fatal("director exited")
	}
}
