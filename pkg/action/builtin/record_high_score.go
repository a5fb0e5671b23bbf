package builtin

import (
	"context"
	"fmt"

	"github.com/russofg/event-chaos-sub000/pkg/action"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/service"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// RecordHighScoreActionID is the identifier for leaderboard submissions
	RecordHighScoreActionID = "record_high_score"
)

// RecordHighScoreAction submits the trigger's score to the scenario
// leaderboard. It reads "score" and "scenario_id" from trigger metadata and
// falls back to the player context for the scenario.
type RecordHighScoreAction struct {
	config      action.ActionConfig
	leaderboard service.Leaderboard
}

// NewRecordHighScoreAction creates a new record high score action.
func NewRecordHighScoreAction(config action.ActionConfig, leaderboard service.Leaderboard) *RecordHighScoreAction {
	return &RecordHighScoreAction{
		config:      config,
		leaderboard: leaderboard,
	}
}

// ID returns the action identifier.
func (a *RecordHighScoreAction) ID() string {
	return a.config.ID
}

// Name returns the action name.
func (a *RecordHighScoreAction) Name() string {
	return "Record High Score"
}

// Config returns the action configuration.
func (a *RecordHighScoreAction) Config() action.ActionConfig {
	return a.config
}

// Execute submits the score.
func (a *RecordHighScoreAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	score := trigger.MetadataInt("score", -1)
	if score < 0 {
		return fmt.Errorf("%w: trigger %s carries no score", action.ErrInvalidConfig, trigger.RuleID)
	}

	scenarioID := trigger.MetadataString("scenario_id", "")
	if scenarioID == "" && playerCtx != nil {
		scenarioID = playerCtx.ScenarioID
	}
	if scenarioID == "" {
		return action.ErrMissingPlayerContext
	}

	if a.leaderboard == nil {
		logrus.Warnf("[TEST MODE] would record score %d on %s for player %s", score, scenarioID, trigger.PlayerID)
		return nil
	}

	if err := a.leaderboard.SubmitScore(ctx, scenarioID, trigger.PlayerID, score); err != nil {
		return fmt.Errorf("failed to record high score: %w", err)
	}

	logrus.Infof("recorded score %d on %s for player %s", score, scenarioID, trigger.PlayerID)
	return nil
}

// Rollback is not supported since the leaderboard keeps only the best score.
func (a *RecordHighScoreAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	return action.ErrRollbackNotSupported
}
