package builtin

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
	signalBuiltin "github.com/russofg/event-chaos-sub000/pkg/signal/builtin"
	"github.com/sirupsen/logrus"
)

// NarrativePoolRuleID is the identifier for the single-shot narrative pool rule
const NarrativePoolRuleID = "narrative_pool"

// poolBeat is one single-shot narrative line and the conditions it waits for.
type poolBeat struct {
	id          string
	title       string
	message     string
	scenarioID  string
	minProgress float64
	minStress   float64
	maxBudget   float64
}

// NarrativePoolRule polls each tick for the first beat whose conditions hold
// and fires it once per session. Unlike the sequence picker in pkg/narrative,
// beats are independent and unordered in time.
type NarrativePoolRule struct {
	config rule.RuleConfig
	beats  []poolBeat
	gate   *rule.Gate
}

// NewNarrativePoolRule creates a narrative pool from the "beats" parameter.
func NewNarrativePoolRule(config rule.RuleConfig) (*NarrativePoolRule, error) {
	entries := config.GetList("beats")
	if len(entries) == 0 {
		return nil, fmt.Errorf("narrative pool %s has no beats", config.ID)
	}

	seen := make(map[string]bool, len(entries))
	beats := make([]poolBeat, 0, len(entries))
	for i, entry := range entries {
		params := rule.RuleConfig{Parameters: entry}
		b := poolBeat{
			id:          params.GetString("id", ""),
			title:       params.GetString("title", ""),
			message:     params.GetString("message", ""),
			scenarioID:  params.GetString("scenario_id", ""),
			minProgress: params.GetFloat("min_progress", 0),
			minStress:   params.GetFloat("min_stress", 0),
			maxBudget:   params.GetFloat("max_budget", math.Inf(1)),
		}
		if b.id == "" || b.message == "" {
			return nil, fmt.Errorf("beat %d needs an id and a message", i)
		}
		if seen[b.id] {
			return nil, fmt.Errorf("duplicate beat id %s", b.id)
		}
		seen[b.id] = true
		beats = append(beats, b)
	}

	logrus.Infof("creating narrative pool rule %s with %d beats", config.ID, len(beats))

	return &NarrativePoolRule{
		config: config,
		beats:  beats,
		gate:   rule.NewGate(6 * time.Hour),
	}, nil
}

// ID returns the rule identifier.
func (r *NarrativePoolRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *NarrativePoolRule) Name() string {
	return "Narrative Pool"
}

// SignalTypes returns the signal types this rule handles.
func (r *NarrativePoolRule) SignalTypes() []string {
	return []string{signalBuiltin.TypeTick}
}

// Config returns the rule configuration.
func (r *NarrativePoolRule) Config() rule.RuleConfig {
	return r.config
}

// Evaluate fires at most one beat per tick.
func (r *NarrativePoolRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	pressure, ok := sig.(*signalBuiltin.PressureSignal)
	if !ok {
		return false, nil, fmt.Errorf("expected PressureSignal, got %T", sig)
	}
	scenarioID := sig.Context().ScenarioID

	for _, b := range r.beats {
		if b.scenarioID != "" && b.scenarioID != scenarioID {
			continue
		}
		if pressure.Progress < b.minProgress || pressure.Stats.Stress < b.minStress {
			continue
		}
		if pressure.Stats.Budget > b.maxBudget {
			continue
		}
		key := rule.GateKey(sig.SessionID(), b.id)
		if r.gate.Fired(key) {
			continue
		}
		r.gate.Allow(key, sig.Timestamp(), 0)

		trigger := rule.NewTrigger(r.ID(), sig, "Narrative beat", r.config.Priority)
		trigger.Metadata["beat_id"] = b.id
		trigger.Metadata["title"] = b.title
		trigger.Metadata["message"] = b.message
		trigger.Metadata["level"] = "narrative"
		return true, trigger, nil
	}

	return false, nil, nil
}
