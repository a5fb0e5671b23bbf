package builtin

import (
	"context"
	"fmt"

	"github.com/russofg/event-chaos-sub000/pkg/action"
	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/service"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// UnlockAchievementActionID is the identifier for achievement unlocks
	UnlockAchievementActionID = "unlock_achievement"
)

// UnlockAchievementAction adds an achievement to the player's career.
// The id comes from the "achievement_id" parameter, falling back to the
// trigger's "achievement_id" metadata so one action can serve many rules.
type UnlockAchievementAction struct {
	config        action.ActionConfig
	careers       service.CareerStore
	achievementID string
	bonusPoints   int
}

// NewUnlockAchievementAction creates a new unlock achievement action.
func NewUnlockAchievementAction(config action.ActionConfig, careers service.CareerStore) (*UnlockAchievementAction, error) {
	bonus := config.GetParameterInt("bonus_points", 0)
	if bonus < 0 {
		return nil, fmt.Errorf("%w: bonus_points must not be negative", action.ErrInvalidConfig)
	}

	return &UnlockAchievementAction{
		config:        config,
		careers:       careers,
		achievementID: config.GetParameterString("achievement_id", ""),
		bonusPoints:   bonus,
	}, nil
}

// ID returns the action identifier.
func (a *UnlockAchievementAction) ID() string {
	return a.config.ID
}

// Name returns the action name.
func (a *UnlockAchievementAction) Name() string {
	return "Unlock Achievement"
}

// Config returns the action configuration.
func (a *UnlockAchievementAction) Config() action.ActionConfig {
	return a.config
}

func (a *UnlockAchievementAction) resolveID(trigger *rule.Trigger) string {
	if a.achievementID != "" {
		return a.achievementID
	}
	return trigger.MetadataString("achievement_id", "")
}

func (a *UnlockAchievementAction) markerKey() string {
	return "unlocked:" + a.config.ID
}

// Execute unlocks the achievement. Unlocking one the player already owns is
// a no-op.
func (a *UnlockAchievementAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	id := a.resolveID(trigger)
	if id == "" {
		return fmt.Errorf("%w: no achievement_id in parameters or trigger", action.ErrInvalidConfig)
	}

	if a.careers == nil {
		logrus.Warnf("[TEST MODE] would unlock achievement %s for player %s", id, trigger.PlayerID)
		return nil
	}

	unlocked := false
	updated, err := a.careers.UpdateCareer(ctx, trigger.PlayerID, func(d career.Data) (career.Data, error) {
		out, ok := career.UnlockAchievement(d, id)
		unlocked = ok
		if ok && a.bonusPoints > 0 {
			out = career.GrantPoints(out, a.bonusPoints)
		}
		return out, nil
	})
	if err != nil {
		return fmt.Errorf("failed to unlock achievement: %w", err)
	}

	if !unlocked {
		logrus.Debugf("player %s already holds achievement %s", trigger.PlayerID, id)
		return nil
	}

	trigger.WithMetadata(a.markerKey(), id)
	if playerCtx != nil && playerCtx.Career != nil {
		*playerCtx.Career = updated
	}

	logrus.Infof("unlocked achievement %s for player %s (rule: %s)", id, trigger.PlayerID, trigger.RuleID)
	return nil
}

// Rollback revokes the achievement if this action unlocked it for trigger.
func (a *UnlockAchievementAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	id := trigger.MetadataString(a.markerKey(), "")
	if id == "" || a.careers == nil {
		return nil
	}

	_, err := a.careers.UpdateCareer(ctx, trigger.PlayerID, func(d career.Data) (career.Data, error) {
		out := career.RevokeAchievement(d, id)
		if a.bonusPoints > 0 {
			out = career.GrantPoints(out, -a.bonusPoints)
		}
		return out, nil
	})
	if err != nil {
		return fmt.Errorf("failed to revoke achievement: %w", err)
	}

	delete(trigger.Metadata, a.markerKey())
	logrus.Infof("revoked achievement %s for player %s", id, trigger.PlayerID)
	return nil
}
