// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/russofg/event-chaos-sub000/pkg/action"
	actionBuiltin "github.com/russofg/event-chaos-sub000/pkg/action/builtin"
	"github.com/russofg/event-chaos-sub000/pkg/pipeline"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/service"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
)

// InitPipeline connects the three stages into a pipeline.Manager using the
// rule → actions mapping of pipelineConfig.
//
// ============================================================
// DEVELOPER: Rule → action mapping
// ============================================================
// Outcome ─► signal.Processor ─► rule.Engine ─► action.Executor
//
// Each rule lists its reactions under `actions:` in
// config/pipeline.yaml. They run in that order, share one
// Trigger, and a failure rolls back the earlier ones.
// Rules with no actions still count in metrics.
// ============================================================
func InitPipeline(
	processor *signal.Processor,
	ruleEngine *rule.Engine,
	actionExecutor *action.Executor,
	pipelineConfig *pipeline.Config,
	logger logrus.FieldLogger,
) *pipeline.Manager {
	routes := pipeline.RoutesFromConfig(pipelineConfig)
	if silent := routes.Silent(); len(silent) > 0 {
		logrus.WithField("rules", silent).Info("rules without actions only feed metrics")
	}

	logrus.WithFields(logrus.Fields{
		"rules":      len(routes.Rules()),
		"queue_size": pipelineConfig.Settings.QueueSize,
	}).Info("pipeline manager ready")

	return pipeline.NewManager(processor, ruleEngine, actionExecutor, routes.Mapping(), logger).
		WithQueueSize(pipelineConfig.Settings.QueueSize)
}

// BuildDirectorPipeline runs every Init step against one store and checks
// the result with pipeline.ValidateWiring. The store backs career lookups,
// the podium rule and all four action types.
func BuildDirectorPipeline(pipelineConfig *pipeline.Config, store service.Store, logger logrus.FieldLogger) (*pipeline.Manager, error) {
	processor := InitSignalProcessor(store)

	engine, rules, err := InitRuleEngine(pipelineConfig, rule.NewRuleDependencies().WithLeaderboardService(store))
	if err != nil {
		return nil, fmt.Errorf("failed to init rule engine: %w", err)
	}

	executor, actions, err := InitActionExecutor(pipelineConfig, &actionBuiltin.Dependencies{
		Careers:     store,
		Leaderboard: store,
		Notices:     store,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init action executor: %w", err)
	}

	if err := pipeline.ValidateWiring(rules, actions, pipelineConfig); err != nil {
		return nil, err
	}

	return InitPipeline(processor, engine, executor, pipelineConfig, logger), nil
}
