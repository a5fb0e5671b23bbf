package action

import (
	"context"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
)

// Action is one of the director's reactions to a triggered rule: a career
// write, a leaderboard submission or a notice for the player.
type Action interface {
	ID() string
	Name() string

	// Execute applies the action. Trigger metadata written by earlier actions
	// of the same trigger is visible here.
	Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error

	// Rollback undoes a successful Execute when a later action of the same
	// trigger fails. Actions that cannot be undone return
	// ErrRollbackNotSupported.
	Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error

	Config() ActionConfig
}

// ActionResult reports how one action of a trigger went.
type ActionResult struct {
	ActionID   string
	Success    bool
	Error      error
	Attempts   int
	Duration   time.Duration
	RolledBack bool
}

func succeeded(actionID string, attempts int, took time.Duration) *ActionResult {
	return &ActionResult{ActionID: actionID, Success: true, Attempts: attempts, Duration: took}
}

func failed(actionID string, err error, attempts int, took time.Duration) *ActionResult {
	return &ActionResult{ActionID: actionID, Error: err, Attempts: attempts, Duration: took}
}
