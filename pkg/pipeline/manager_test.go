package pipeline_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/action"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/pipeline"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/session"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
	signalBuiltin "github.com/russofg/event-chaos-sub000/pkg/signal/builtin"
)

// mockRule for testing
type mockRule struct {
	id          string
	shouldMatch bool
	signalTypes []string
}

func (m *mockRule) ID() string {
	return m.id
}

func (m *mockRule) Name() string {
	return "Mock Rule"
}

func (m *mockRule) SignalTypes() []string {
	if m.signalTypes == nil {
		return []string{signalBuiltin.TypeSessionEnded}
	}
	return m.signalTypes
}

func (m *mockRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	if !m.shouldMatch {
		return false, nil, nil
	}
	return true, rule.NewTrigger(m.id, sig, "mock rule triggered", 1), nil
}

func (m *mockRule) Config() rule.RuleConfig {
	return rule.RuleConfig{
		ID:      m.id,
		Type:    "mock",
		Enabled: true,
	}
}

// mockAction for testing
type mockAction struct {
	id         string
	shouldFail bool
	executed   atomic.Int32
	rolledBack atomic.Int32
}

func (m *mockAction) ID() string {
	return m.id
}

func (m *mockAction) Name() string {
	return "Mock Action"
}

func (m *mockAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	m.executed.Add(1)
	if m.shouldFail {
		return errors.New("mock action failed")
	}
	return nil
}

func (m *mockAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	m.rolledBack.Add(1)
	return nil
}

func (m *mockAction) Config() action.ActionConfig {
	return action.ActionConfig{
		ID:      m.id,
		Type:    "mock",
		Enabled: true,
	}
}

// recordingObserver captures pipeline activity
type recordingObserver struct {
	mu       sync.Mutex
	triggers []string
	actions  map[string]error
}

func (o *recordingObserver) ObserveTrigger(ruleID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.triggers = append(o.triggers, ruleID)
}

func (o *recordingObserver) ObserveAction(actionID string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.actions == nil {
		o.actions = make(map[string]error)
	}
	o.actions[actionID] = err
}

// setupTestProcessor creates a processor with builtin signal mappers registered
func setupTestProcessor() *signal.Processor {
	processor := signal.NewProcessor(nil)
	signalBuiltin.RegisterBuiltinMappers(processor.GetMapperRegistry())
	return processor
}

func setupManager(t *testing.T, rules []rule.Rule, actions []action.Action, ruleActions map[string][]string) *pipeline.Manager {
	t.Helper()

	ruleRegistry := rule.NewRegistry()
	for _, r := range rules {
		if err := ruleRegistry.Register(r); err != nil {
			t.Fatalf("register rule: %v", err)
		}
	}

	actionRegistry := action.NewRegistry()
	for _, a := range actions {
		if err := actionRegistry.Register(a); err != nil {
			t.Fatalf("register action: %v", err)
		}
	}

	return pipeline.NewManager(
		setupTestProcessor(),
		rule.NewEngine(ruleRegistry),
		action.NewExecutor(actionRegistry),
		ruleActions,
		nil,
	)
}

func victoryOutcome() session.Outcome {
	return session.Outcome{
		Kind:       session.KindSessionEnded,
		At:         time.Unix(100, 0),
		SessionID:  "test-session",
		PlayerID:   "test-player",
		ScenarioID: "rock_festival",
		Result:     game.OutcomeVictory,
		Score:      1500,
	}
}

func TestNewManager(t *testing.T) {
	manager := setupManager(t, nil, nil, nil)

	if manager == nil {
		t.Fatal("expected manager to be created")
	}

	if manager.Wants(session.KindSessionEnded) {
		t.Error("expected no interest without rules")
	}
}

func TestManager_Wants(t *testing.T) {
	manager := setupManager(t, []rule.Rule{&mockRule{id: "end"}}, nil, nil)

	if !manager.Wants(session.KindSessionEnded) {
		t.Error("expected interest in session_ended")
	}
	if manager.Wants(session.KindTick) {
		t.Error("expected no interest in tick")
	}

	all := setupManager(t, []rule.Rule{&mockRule{id: "any", signalTypes: []string{}}}, nil, nil)
	if !all.Wants(session.KindTick) {
		t.Error("expected a wildcard rule to want every kind")
	}
}

func TestProcessOutcome_NoRuleTrigger(t *testing.T) {
	act := &mockAction{id: "notice"}
	manager := setupManager(t,
		[]rule.Rule{&mockRule{id: "end", shouldMatch: false}},
		[]action.Action{act},
		map[string][]string{"end": {"notice"}},
	)

	if err := manager.ProcessOutcome(context.Background(), victoryOutcome()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if act.executed.Load() != 0 {
		t.Error("expected no action execution")
	}
}

func TestProcessOutcome_WithRuleTrigger(t *testing.T) {
	act := &mockAction{id: "notice"}
	observer := &recordingObserver{}
	manager := setupManager(t,
		[]rule.Rule{&mockRule{id: "end", shouldMatch: true}},
		[]action.Action{act},
		map[string][]string{"end": {"notice"}},
	).WithObserver(observer)

	if err := manager.ProcessOutcome(context.Background(), victoryOutcome()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if act.executed.Load() != 1 {
		t.Errorf("expected action executed once, got %d", act.executed.Load())
	}

	if len(observer.triggers) != 1 || observer.triggers[0] != "end" {
		t.Errorf("expected observer to see trigger 'end', got %v", observer.triggers)
	}
	if err, ok := observer.actions["notice"]; !ok || err != nil {
		t.Errorf("expected observer to see successful 'notice', got %v (seen=%v)", err, ok)
	}

	stats := manager.GetStats()
	if stats.ProcessorStats.SignalsGenerated != 1 || stats.EngineStats.TriggersGenerated != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.ExecutorStats.SuccessfulActions != 1 {
		t.Errorf("expected 1 successful action, got %d", stats.ExecutorStats.SuccessfulActions)
	}
}

func TestProcessOutcome_MultipleActions(t *testing.T) {
	first := &mockAction{id: "first"}
	second := &mockAction{id: "second"}
	manager := setupManager(t,
		[]rule.Rule{&mockRule{id: "end", shouldMatch: true}},
		[]action.Action{first, second},
		map[string][]string{"end": {"first", "second"}},
	)

	if err := manager.ProcessOutcome(context.Background(), victoryOutcome()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if first.executed.Load() != 1 || second.executed.Load() != 1 {
		t.Error("expected both actions to execute")
	}
}

func TestProcessOutcome_ActionFailure(t *testing.T) {
	first := &mockAction{id: "first"}
	failing := &mockAction{id: "failing", shouldFail: true}
	manager := setupManager(t,
		[]rule.Rule{&mockRule{id: "end", shouldMatch: true}},
		[]action.Action{first, failing},
		map[string][]string{"end": {"first", "failing"}},
	)

	// Pipeline should not fail even if action fails
	if err := manager.ProcessOutcome(context.Background(), victoryOutcome()); err != nil {
		t.Fatalf("expected pipeline to continue despite action failure, got: %v", err)
	}

	if first.rolledBack.Load() != 1 {
		t.Error("expected first action to be rolled back")
	}

	stats := manager.GetStats()
	if stats.ExecutorStats.FailedActions != 1 {
		t.Errorf("expected 1 failed action, got %d", stats.ExecutorStats.FailedActions)
	}
}

func TestProcessOutcome_InvalidOutcome(t *testing.T) {
	manager := setupManager(t, nil, nil, nil)

	o := victoryOutcome()
	o.PlayerID = ""
	if err := manager.ProcessOutcome(context.Background(), o); err == nil {
		t.Error("expected error for outcome without player")
	}
}

func TestManager_PublishAsync(t *testing.T) {
	act := &mockAction{id: "notice"}
	manager := setupManager(t,
		[]rule.Rule{&mockRule{id: "end", shouldMatch: true}},
		[]action.Action{act},
		map[string][]string{"end": {"notice"}},
	)

	manager.Start(context.Background())
	manager.Publish(session.Outcome{Kind: session.KindTick, PlayerID: "test-player"})
	manager.Publish(victoryOutcome())
	manager.Stop()

	if act.executed.Load() != 1 {
		t.Errorf("expected action executed once after Stop, got %d", act.executed.Load())
	}

	stats := manager.GetStats()
	if stats.ProcessorStats.TotalEventsProcessed != 1 {
		t.Errorf("expected only the interesting outcome to be queued, got %d", stats.ProcessorStats.TotalEventsProcessed)
	}

	// Publishing after Stop is ignored.
	manager.Publish(victoryOutcome())
	if got := manager.GetStats().ProcessorStats.TotalEventsProcessed; got != 1 {
		t.Errorf("expected publish after stop to be ignored, got %d", got)
	}
}

func TestManager_PublishQueueFull(t *testing.T) {
	manager := setupManager(t, []rule.Rule{&mockRule{id: "end"}}, nil, nil).WithQueueSize(1)

	// Not started: the single slot fills and the rest are dropped.
	for i := 0; i < 3; i++ {
		manager.Publish(victoryOutcome())
	}

	stats := manager.GetStats()
	if stats.ProcessorStats.EventsDropped != 2 {
		t.Errorf("expected 2 dropped outcomes, got %d", stats.ProcessorStats.EventsDropped)
	}
}

func TestGetStats(t *testing.T) {
	manager := setupManager(t, nil, nil, nil)

	stats := manager.GetStats()

	if stats.ProcessorStats.TotalEventsProcessed != 0 || stats.ExecutorStats.TotalActionsExecuted != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}
