package builtin

import (
	"github.com/russofg/event-chaos-sub000/pkg/rule"
)

// RegisterRules registers all built-in rule types with the factory.
// deps may be nil; rules that need a service skip evaluation without it.
func RegisterRules(deps *rule.RuleDependencies) {
	rule.RegisterRuleType(ThresholdWarningRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		r, err := NewThresholdWarningRule(config)
		if err != nil {
			return nil, err
		}
		return r, nil
	})

	rule.RegisterRuleType(EventStreakRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		return NewEventStreakRule(config), nil
	})

	rule.RegisterRuleType(ComboMilestoneRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		r, err := NewComboMilestoneRule(config)
		if err != nil {
			return nil, err
		}
		return r, nil
	})

	rule.RegisterRuleType(ScenarioVictoryRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		r, err := NewScenarioVictoryRule(config)
		if err != nil {
			return nil, err
		}
		return r, nil
	})

	rule.RegisterRuleType(NarrativePoolRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		r, err := NewNarrativePoolRule(config)
		if err != nil {
			return nil, err
		}
		return r, nil
	})

	rule.RegisterRuleType(LeaderboardPodiumRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		return NewLeaderboardPodiumRule(config, deps), nil
	})
}
