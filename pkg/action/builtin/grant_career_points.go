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
	// GrantCareerPointsActionID is the identifier for career point grants
	GrantCareerPointsActionID = "grant_career_points"
)

// GrantCareerPointsAction adds a fixed number of career points.
type GrantCareerPointsAction struct {
	config  action.ActionConfig
	careers service.CareerStore
	points  int
}

// NewGrantCareerPointsAction creates a new grant career points action.
func NewGrantCareerPointsAction(config action.ActionConfig, careers service.CareerStore) (*GrantCareerPointsAction, error) {
	points := config.GetParameterInt("points", 0)
	if points <= 0 {
		return nil, fmt.Errorf("%w: points must be positive", action.ErrInvalidConfig)
	}

	logrus.Infof("creating grant career points action: points=%d", points)

	return &GrantCareerPointsAction{
		config:  config,
		careers: careers,
		points:  points,
	}, nil
}

// ID returns the action identifier.
func (a *GrantCareerPointsAction) ID() string {
	return a.config.ID
}

// Name returns the action name.
func (a *GrantCareerPointsAction) Name() string {
	return "Grant Career Points"
}

// Config returns the action configuration.
func (a *GrantCareerPointsAction) Config() action.ActionConfig {
	return a.config
}

// Execute grants the configured points to the player.
func (a *GrantCareerPointsAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if a.careers == nil {
		logrus.Warnf("[TEST MODE] would grant %d career points to player %s", a.points, trigger.PlayerID)
		return nil
	}

	updated, err := a.careers.UpdateCareer(ctx, trigger.PlayerID, func(d career.Data) (career.Data, error) {
		return career.GrantPoints(d, a.points), nil
	})
	if err != nil {
		return fmt.Errorf("failed to grant career points: %w", err)
	}

	if playerCtx != nil && playerCtx.Career != nil {
		*playerCtx.Career = updated
	}

	logrus.Infof("granted %d career points to player %s (now %d)", a.points, trigger.PlayerID, updated.CareerPoints)
	return nil
}

// Rollback takes the granted points back.
func (a *GrantCareerPointsAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if a.careers == nil {
		return nil
	}

	_, err := a.careers.UpdateCareer(ctx, trigger.PlayerID, func(d career.Data) (career.Data, error) {
		return career.GrantPoints(d, -a.points), nil
	})
	if err != nil {
		return fmt.Errorf("failed to revoke career points: %w", err)
	}
	return nil
}
