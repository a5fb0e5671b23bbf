package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/russofg/event-chaos-sub000/pkg/action"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/session"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
	"github.com/sirupsen/logrus"
)

// DefaultQueueSize is the outcome buffer used when none is configured.
const DefaultQueueSize = 1024

// Observer receives pipeline activity, typically for metrics.
type Observer interface {
	ObserveTrigger(ruleID string)
	ObserveAction(actionID string, err error)
}

// Manager orchestrates the director's reaction pipeline:
// Outcome → Signal → Rules → Actions
//
// It implements session.Sink. Published outcomes are queued and processed on
// a worker goroutine so the tick loop never waits on storage.
type Manager struct {
	processor   *signal.Processor
	engine      *rule.Engine
	executor    *action.Executor
	ruleActions map[string][]string // Maps rule ID to action IDs
	logger      logrus.FieldLogger
	observer    Observer

	// interested is nil when some rule listens to every signal type.
	interested map[string]bool

	queue    chan session.Outcome
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	received  atomic.Int64
	dropped   atomic.Int64
	signals   atomic.Int64
	evaluated atomic.Int64
	triggers  atomic.Int64
	executed  atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
}

// NewManager creates a new pipeline manager with all required components.
// ruleActions maps rule IDs to the action IDs they should trigger.
func NewManager(processor *signal.Processor, engine *rule.Engine, executor *action.Executor, ruleActions map[string][]string, logger logrus.FieldLogger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if ruleActions == nil {
		ruleActions = make(map[string][]string)
	}

	m := &Manager{
		processor:   processor,
		engine:      engine,
		executor:    executor,
		ruleActions: ruleActions,
		logger:      logger,
		queue:       make(chan session.Outcome, DefaultQueueSize),
		done:        make(chan struct{}),
	}
	m.interested = interestedTypes(engine)
	return m
}

// WithQueueSize replaces the outcome buffer. Call before Start.
func (m *Manager) WithQueueSize(n int) *Manager {
	if n > 0 {
		m.queue = make(chan session.Outcome, n)
	}
	return m
}

// WithObserver sets the observer notified of triggers and action results.
func (m *Manager) WithObserver(o Observer) *Manager {
	m.observer = o
	return m
}

func interestedTypes(engine *rule.Engine) map[string]bool {
	if engine == nil {
		return map[string]bool{}
	}
	types := make(map[string]bool)
	for _, r := range engine.GetRegistry().GetAll() {
		if !r.Config().Enabled {
			continue
		}
		st := r.SignalTypes()
		if len(st) == 0 {
			return nil
		}
		for _, t := range st {
			types[t] = true
		}
	}
	return types
}

// Wants reports whether any rule listens to outcomes of kind k.
func (m *Manager) Wants(k session.Kind) bool {
	return m.interested == nil || m.interested[string(k)]
}

// Start launches the worker that drains published outcomes.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			select {
			case o := <-m.queue:
				m.handle(ctx, o)
			case <-m.done:
				m.drain(ctx)
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	m.logger.WithField("queue_size", cap(m.queue)).Info("pipeline worker started")
}

func (m *Manager) drain(ctx context.Context) {
	for {
		select {
		case o := <-m.queue:
			m.handle(ctx, o)
		default:
			return
		}
	}
}

func (m *Manager) handle(ctx context.Context, o session.Outcome) {
	if err := m.ProcessOutcome(ctx, o); err != nil {
		m.logger.WithFields(logrus.Fields{
			"kind":       o.Kind,
			"player_id":  o.PlayerID,
			"session_id": o.SessionID,
		}).WithError(err).Error("pipeline failed to process outcome")
	}
}

// Stop processes what is already queued and waits for the worker to exit.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
	m.wg.Wait()
}

// Publish implements session.Sink. Outcomes no rule listens to are ignored;
// a full queue drops the outcome rather than blocking the caller.
func (m *Manager) Publish(o session.Outcome) {
	if !m.Wants(o.Kind) {
		return
	}
	select {
	case <-m.done:
		return
	default:
	}

	m.received.Add(1)
	select {
	case m.queue <- o:
	default:
		m.dropped.Add(1)
		m.logger.WithFields(logrus.Fields{
			"kind":       o.Kind,
			"session_id": o.SessionID,
		}).Warn("pipeline queue full, dropping outcome")
	}
}

// ProcessOutcome processes a session outcome through the complete pipeline.
// Returns any error encountered during pipeline execution.
func (m *Manager) ProcessOutcome(ctx context.Context, o session.Outcome) error {
	// Step 1: Convert outcome to signal
	sig, err := m.processor.ProcessOutcome(ctx, o)
	if err != nil {
		return fmt.Errorf("signal processing failed: %w", err)
	}

	if sig == nil {
		m.logger.WithField("kind", o.Kind).Debug("outcome did not generate a signal, skipping pipeline")
		return nil
	}
	m.signals.Add(1)

	// Step 2: Evaluate rules
	return m.evaluateAndExecute(ctx, sig)
}

// evaluateAndExecute evaluates rules for a signal and executes triggered actions.
func (m *Manager) evaluateAndExecute(ctx context.Context, sig signal.Signal) error {
	log := m.logger.WithFields(logrus.Fields{
		"signal_type": sig.Type(),
		"player_id":   sig.PlayerID(),
		"session_id":  sig.SessionID(),
	})

	m.evaluated.Add(1)
	triggers, err := m.engine.Evaluate(ctx, sig)
	if err != nil {
		log.WithError(err).Error("rule evaluation failed")
		return fmt.Errorf("rule evaluation failed: %w", err)
	}

	if len(triggers) == 0 {
		return nil
	}

	m.triggers.Add(int64(len(triggers)))
	log.WithField("trigger_count", len(triggers)).Info("rules triggered")

	// Step 3: Execute actions for each trigger
	for _, trigger := range triggers {
		if m.observer != nil {
			m.observer.ObserveTrigger(trigger.RuleID)
		}

		actionIDs, ok := m.ruleActions[trigger.RuleID]
		if !ok || len(actionIDs) == 0 {
			log.WithField("rule_id", trigger.RuleID).Info("trigger has no actions configured")
			continue
		}

		// Execute all actions for this trigger with rollback support
		results, err := m.executor.ExecuteMultiple(ctx, actionIDs, trigger, sig.Context(), true)
		if err != nil {
			log.WithField("rule_id", trigger.RuleID).WithError(err).Error("action execution encountered error")
		}

		successCount := 0
		failureCount := 0
		for _, result := range results {
			m.executed.Add(1)
			if m.observer != nil {
				m.observer.ObserveAction(result.ActionID, result.Error)
			}
			if result.Error != nil {
				failureCount++
				m.failed.Add(1)
			} else {
				successCount++
				m.succeeded.Add(1)
			}
		}

		log.WithFields(logrus.Fields{
			"rule_id":       trigger.RuleID,
			"success_count": successCount,
			"failure_count": failureCount,
		}).Info("action execution completed")

		if failureCount > 0 && successCount > 0 {
			log.WithField("rule_id", trigger.RuleID).Warn("partial action execution failure, earlier actions rolled back")
		}
	}

	return nil
}

// Stats returns pipeline statistics (for observability).
type Stats struct {
	ProcessorStats ProcessorStats `json:"processor"`
	EngineStats    EngineStats    `json:"engine"`
	ExecutorStats  ExecutorStats  `json:"executor"`
}

// ProcessorStats contains signal processor statistics.
type ProcessorStats struct {
	TotalEventsProcessed int64 `json:"total_events_processed"`
	EventsDropped        int64 `json:"events_dropped"`
	SignalsGenerated     int64 `json:"signals_generated"`
}

// EngineStats contains rule engine statistics.
type EngineStats struct {
	TotalEvaluations  int64 `json:"total_evaluations"`
	TriggersGenerated int64 `json:"triggers_generated"`
}

// ExecutorStats contains action executor statistics.
type ExecutorStats struct {
	TotalActionsExecuted int64 `json:"total_actions_executed"`
	SuccessfulActions    int64 `json:"successful_actions"`
	FailedActions        int64 `json:"failed_actions"`
}

// GetStats returns current pipeline statistics.
func (m *Manager) GetStats() Stats {
	return Stats{
		ProcessorStats: ProcessorStats{
			TotalEventsProcessed: m.received.Load(),
			EventsDropped:        m.dropped.Load(),
			SignalsGenerated:     m.signals.Load(),
		},
		EngineStats: EngineStats{
			TotalEvaluations:  m.evaluated.Load(),
			TriggersGenerated: m.triggers.Load(),
		},
		ExecutorStats: ExecutorStats{
			TotalActionsExecuted: m.executed.Load(),
			SuccessfulActions:    m.succeeded.Load(),
			FailedActions:        m.failed.Load(),
		},
	}
}
