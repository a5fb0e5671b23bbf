package rule

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/russofg/event-chaos-sub000/pkg/signal"
)

// Engine evaluates a signal against the rules that listen to its type.
type Engine struct {
	registry *Registry
	logger   logrus.FieldLogger
}

// NewEngine creates an engine over registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry: registry,
		logger:   logrus.StandardLogger(),
	}
}

// WithLogger replaces the engine's logger.
func (e *Engine) WithLogger(logger logrus.FieldLogger) *Engine {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// Evaluate returns the triggers sig produces, highest trigger priority first.
// A rule that errors is logged and skipped so one broken rule cannot mute the
// others.
func (e *Engine) Evaluate(ctx context.Context, sig signal.Signal) ([]*Trigger, error) {
	if sig == nil {
		return nil, nil
	}

	rules := e.registry.GetBySignalType(sig.Type())
	if len(rules) == 0 {
		return nil, nil
	}

	log := e.logger.WithFields(logrus.Fields{
		"signal_type": sig.Type(),
		"player_id":   sig.PlayerID(),
		"session_id":  sig.SessionID(),
	})

	var triggers []*Trigger
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return triggers, err
		}

		matched, trigger, err := rule.Evaluate(ctx, sig)
		if err != nil {
			log.WithField("rule_id", rule.ID()).WithError(err).Error("rule evaluation failed")
			continue
		}
		if !matched || trigger == nil {
			continue
		}

		log.WithFields(logrus.Fields{
			"rule_id":  rule.ID(),
			"priority": trigger.Priority,
		}).Debugf("rule triggered: %s", trigger.Reason)
		triggers = append(triggers, trigger)
	}

	sort.SliceStable(triggers, func(i, j int) bool {
		return triggers[i].Priority > triggers[j].Priority
	})
	return triggers, nil
}

// GetRegistry returns the rule registry used by this engine.
func (e *Engine) GetRegistry() *Registry {
	return e.registry
}
