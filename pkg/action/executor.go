package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
)

// Executor runs the actions a triggered rule maps to.
type Executor struct {
	registry *Registry
	logger   logrus.FieldLogger
}

// NewExecutor creates an executor over registry that logs to the standard
// logrus logger.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{
		registry: registry,
		logger:   logrus.StandardLogger(),
	}
}

// WithLogger replaces the executor's logger.
func (e *Executor) WithLogger(logger logrus.FieldLogger) *Executor {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// Execute runs a single action.
func (e *Executor) Execute(ctx context.Context, actionID string, trigger *rule.Trigger, playerCtx *signal.PlayerContext) (*ActionResult, error) {
	results, err := e.ExecuteMultiple(ctx, []string{actionID}, trigger, playerCtx, false)
	if len(results) == 0 {
		return nil, err
	}
	return results[0], err
}

// ExecuteMultiple runs actionIDs in order and stops at the first failure.
// With rollbackOnError the actions that already succeeded are rolled back
// newest first, and their results are marked RolledBack. The returned slice
// has one result per action that was attempted.
func (e *Executor) ExecuteMultiple(ctx context.Context, actionIDs []string, trigger *rule.Trigger, playerCtx *signal.PlayerContext, rollbackOnError bool) ([]*ActionResult, error) {
	log := e.logger.WithFields(logrus.Fields{
		"rule_id":   trigger.RuleID,
		"player_id": trigger.PlayerID,
	})
	if playerCtx != nil && playerCtx.SessionID != "" {
		log = log.WithField("session_id", playerCtx.SessionID)
	}

	results := make([]*ActionResult, 0, len(actionIDs))
	done := make([]Action, 0, len(actionIDs))

	for _, actionID := range actionIDs {
		act := e.registry.Get(actionID)
		if act == nil {
			err := fmt.Errorf("%w: %s", ErrActionNotFound, actionID)
			log.WithField("action_id", actionID).Error(err)
			if rollbackOnError {
				e.rollback(ctx, log, done, results, trigger, playerCtx)
			}
			return results, err
		}

		result := e.run(ctx, log.WithField("action_id", actionID), act, trigger, playerCtx)
		results = append(results, result)
		if result.Error != nil {
			if rollbackOnError {
				e.rollback(ctx, log, done, results[:len(results)-1], trigger, playerCtx)
			}
			return results, result.Error
		}
		done = append(done, act)
	}

	return results, nil
}

// run executes one action under its retry policy.
func (e *Executor) run(ctx context.Context, log logrus.FieldLogger, act Action, trigger *rule.Trigger, playerCtx *signal.PlayerContext) *ActionResult {
	retry := act.Config().Retry
	start := time.Now()
	attempts := 0

	err := backoff.RetryNotify(func() error {
		attempts++
		err := act.Execute(ctx, trigger, playerCtx)
		if err != nil && permanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(retry.policy(), ctx), func(err error, wait time.Duration) {
		log.WithError(err).WithField("attempt", attempts).Warnf("action failed, retrying in %s", wait)
	})
	took := time.Since(start)

	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		} else if retry.attempts() > 1 && attempts >= retry.attempts() {
			err = fmt.Errorf("%w after %d attempts: %w", ErrMaxRetriesExceeded, attempts, err)
		}
		log.WithError(err).Error("action failed")
		return failed(act.ID(), err, attempts, took)
	}

	log.WithField("attempts", attempts).Debug("action completed")
	return succeeded(act.ID(), attempts, took)
}

// rollback undoes done newest first and flags the matching results.
func (e *Executor) rollback(ctx context.Context, log logrus.FieldLogger, done []Action, results []*ActionResult, trigger *rule.Trigger, playerCtx *signal.PlayerContext) {
	if len(done) == 0 {
		return
	}
	log.WithField("count", len(done)).Warn("rolling back actions")

	for i := len(done) - 1; i >= 0; i-- {
		act := done[i]
		alog := log.WithField("action_id", act.ID())

		err := act.Rollback(ctx, trigger, playerCtx)
		switch {
		case errors.Is(err, ErrRollbackNotSupported):
			alog.Debug("action cannot be rolled back")
		case err != nil:
			alog.WithError(err).Error("rollback failed")
		default:
			results[i].RolledBack = true
		}
	}
}

// GetRegistry returns the action registry used by this executor.
func (e *Executor) GetRegistry() *Registry {
	return e.registry
}
