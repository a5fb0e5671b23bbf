// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"github.com/russofg/event-chaos-sub000/pkg/signal"
	signalBuiltin "github.com/russofg/event-chaos-sub000/pkg/signal/builtin"
	"github.com/sirupsen/logrus"
)

// InitSignalProcessor creates and initializes a signal processor with the builtin outcome mappers.
//
// ============================================================
// DEVELOPER: Register custom signal mappers here.
// ============================================================
// Mappers turn session outcomes into typed signals and enrich
// them with the player's career and the session snapshot.
//
// Steps to add a new mapper:
// 1. Create your mapper in pkg/signal/builtin/mappers.go
// 2. Implement the SignalMapper interface (Kind + MapToSignal)
// 3. Register it in RegisterBuiltinMappers
//
// Outcome kinds without a mapper still reach rules as a
// generic OutcomeSignal.
// ============================================================
func InitSignalProcessor(careers signal.CareerLoader) *signal.Processor {
	processor := signal.NewProcessor(careers)

	signalBuiltin.RegisterBuiltinMappers(processor.GetMapperRegistry())

	logrus.WithField("kinds", processor.GetMapperRegistry().Kinds()).Info("signal processor ready")

	return processor
}
