package builtin

import (
	"context"
	"fmt"

	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
	signalBuiltin "github.com/russofg/event-chaos-sub000/pkg/signal/builtin"
	"github.com/sirupsen/logrus"
)

// LeaderboardPodiumRuleID is the identifier for the leaderboard podium rule
const LeaderboardPodiumRuleID = "leaderboard_podium"

// LeaderboardPodiumRule detects a victory whose score would place in the top N
// of the scenario leaderboard.
// This demonstrates the two-stage evaluation pattern with lazy loading:
// 1. Quick check: the session was won with a positive score
// 2. Lazy load: only then fetch the leaderboard
type LeaderboardPodiumRule struct {
	config      rule.RuleConfig
	top         int
	leaderboard rule.LeaderboardService
}

// NewLeaderboardPodiumRule creates a new podium rule with external dependency
func NewLeaderboardPodiumRule(config rule.RuleConfig, deps *rule.RuleDependencies) *LeaderboardPodiumRule {
	var leaderboard rule.LeaderboardService
	if deps != nil {
		leaderboard = deps.LeaderboardService
	}

	return &LeaderboardPodiumRule{
		config:      config,
		top:         max(1, config.GetInt("top", 3)),
		leaderboard: leaderboard,
	}
}

// ID returns the rule identifier.
func (r *LeaderboardPodiumRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *LeaderboardPodiumRule) Name() string {
	return "Leaderboard Podium"
}

// SignalTypes returns the signal types this rule handles.
func (r *LeaderboardPodiumRule) SignalTypes() []string {
	return []string{signalBuiltin.TypeSessionEnded}
}

// Config returns the rule configuration.
func (r *LeaderboardPodiumRule) Config() rule.RuleConfig {
	return r.config
}

// Evaluate checks whether the score beats the current Nth place.
func (r *LeaderboardPodiumRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	end, ok := sig.(*signalBuiltin.SessionEndSignal)
	if !ok {
		return false, nil, fmt.Errorf("expected SessionEndSignal, got %T", sig)
	}

	// Stage 1: quick checks
	if !end.Victory() || end.Score <= 0 {
		return false, nil, nil
	}
	if r.leaderboard == nil {
		logrus.Debugf("leaderboard service not configured, skipping rule %s", r.ID())
		return false, nil, nil
	}

	// Stage 2: lazy load
	scenarioID := sig.Context().ScenarioID
	entries, err := r.leaderboard.TopScores(ctx, scenarioID, r.top)
	if err != nil {
		return false, nil, fmt.Errorf("failed to load leaderboard for %s: %w", scenarioID, err)
	}

	rank := 1
	for _, e := range entries {
		if e.PlayerID == sig.PlayerID() && e.Score >= end.Score {
			// already holds a better or equal entry
			return false, nil, nil
		}
		if e.Score >= end.Score {
			rank++
		}
	}
	if rank > r.top {
		return false, nil, nil
	}

	trigger := rule.NewTrigger(r.ID(), sig, "Leaderboard podium reached", r.config.Priority)
	trigger.Metadata["scenario_id"] = scenarioID
	trigger.Metadata["score"] = end.Score
	trigger.Metadata["rank"] = rank
	trigger.Metadata["message"] = fmt.Sprintf("New #%d on the %s leaderboard", rank, scenarioID)
	trigger.Metadata["level"] = "info"
	if id := r.config.GetString("achievement_id", ""); id != "" {
		trigger.Metadata["achievement_id"] = id
	}

	logrus.Infof("leaderboard podium for player %s on %s: rank=%d", sig.PlayerID(), scenarioID, rank)

	return true, trigger, nil
}
