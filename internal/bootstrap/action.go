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
)

// InitActionExecutor builds the actions listed in pipelineConfig on top of
// deps and returns an executor over them.
//
// ============================================================
// DEVELOPER: Director reactions live here.
// ============================================================
// unlock_achievement   career achievement (+ bonus points)
// grant_career_points  flat career points
// publish_notice       message on the player's notice board
// record_high_score    leaderboard submission
//
// A new reaction type goes in pkg/action/builtin and gets a
// RegisterActionType call in init.go. Per-action retry is set
// with a `retry:` block in config/pipeline.yaml; there is no
// code to touch for it.
//
// Leaving a service out of deps makes its actions log instead
// of writing, which is what the unit tests rely on.
// ============================================================
func InitActionExecutor(pipelineConfig *pipeline.Config, deps *actionBuiltin.Dependencies) (*action.Executor, *action.Registry, error) {
	actionBuiltin.RegisterActions(deps)

	registry := action.NewRegistry()
	if err := action.RegisterActions(registry, convertActionConfigs(pipelineConfig.Actions)); err != nil {
		return nil, nil, fmt.Errorf("failed to register actions: %w", err)
	}

	retrying := 0
	for _, a := range registry.GetAll() {
		if a.Config().Retry != nil {
			retrying++
		}
	}
	logrus.WithFields(logrus.Fields{
		"actions":    registry.Count(),
		"with_retry": retrying,
	}).Info("action executor ready")

	executor := action.NewExecutor(registry).WithLogger(logrus.WithField("component", "action_executor"))
	return executor, registry, nil
}

func convertActionConfigs(configs []pipeline.ActionConfig) []action.ActionConfig {
	out := make([]action.ActionConfig, 0, len(configs))
	for _, ac := range configs {
		out = append(out, action.ActionConfig{
			ID:         ac.ID,
			Name:       ac.Name,
			Type:       ac.Type,
			Enabled:    ac.Enabled,
			Retry:      ac.Retry,
			Parameters: ac.Parameters,
		})
	}
	return out
}
