// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/russofg/event-chaos-sub000/pkg/pipeline"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
	ruleBuiltin "github.com/russofg/event-chaos-sub000/pkg/rule/builtin"
)

// InitRuleEngine builds the rules listed in pipelineConfig.
//
// ============================================================
// DEVELOPER: Director rules live here.
// ============================================================
// threshold_warning  stress/budget crossing a line
// event_streak       N events handled without a failure
// combo_milestone    combo reaching configured marks
// scenario_victory   a won session, optionally flawless
// leaderboard_podium a finish inside the top N
// narrative_pool     one-off backstage beats
//
// New rule types go in pkg/rule/builtin and are registered in
// its init.go. Only leaderboard_podium needs a service; it is
// handed over through RuleDependencies and the rule stays
// silent without one.
// ============================================================
func InitRuleEngine(pipelineConfig *pipeline.Config, deps *rule.RuleDependencies) (*rule.Engine, *rule.Registry, error) {
	ruleBuiltin.RegisterRules(deps)

	registry := rule.NewRegistry()
	if err := rule.RegisterRules(registry, convertRuleConfigs(pipelineConfig.Rules)); err != nil {
		return nil, nil, fmt.Errorf("failed to register rules: %w", err)
	}

	logrus.WithField("rules", registry.Count()).Info("rule engine ready")
	return rule.NewEngine(registry), registry, nil
}

func convertRuleConfigs(configs []pipeline.RuleConfig) []rule.RuleConfig {
	out := make([]rule.RuleConfig, 0, len(configs))
	for _, rc := range configs {
		out = append(out, rule.RuleConfig{
			ID:         rc.ID,
			Name:       rc.Name,
			Type:       rc.Type,
			Enabled:    rc.Enabled,
			Priority:   rc.Priority,
			Cooldown:   rc.Cooldown,
			Parameters: rc.Parameters,
		})
	}
	return out
}
