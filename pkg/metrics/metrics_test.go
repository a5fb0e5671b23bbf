package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/incident"
	"github.com/russofg/event-chaos-sub000/pkg/session"
)

func TestCollector_Publish(t *testing.T) {
	c := New()
	if err := c.Register(prometheus.NewRegistry()); err != nil {
		t.Fatalf("Register error = %v", err)
	}

	sound := &game.GameEvent{SystemID: game.SystemSound}
	c.SessionStarted()
	c.Publish(session.Outcome{Kind: session.KindEventSpawned, Event: sound})
	c.Publish(session.Outcome{Kind: session.KindEventExpired, Event: sound, Amount: 120})
	c.Publish(session.Outcome{Kind: session.KindEventResolved, Report: &incident.Report{Success: true, SystemID: game.SystemSound}, Amount: 300})
	c.Publish(session.Outcome{Kind: session.KindMissionCompleted, Amount: 400})
	c.Publish(session.Outcome{Kind: session.KindSessionEnded, ScenarioID: "tutorial", Result: game.OutcomeVictory, Score: 900})
	c.SessionStopped()

	if got := testutil.ToFloat64(c.Incidents.WithLabelValues("event_spawned", "SOUND")); got != 1 {
		t.Errorf("spawned = %v", got)
	}
	if got := testutil.ToFloat64(c.Resolutions.WithLabelValues("SOUND", "true")); got != 1 {
		t.Errorf("resolutions = %v", got)
	}
	if got := testutil.ToFloat64(c.BudgetFlow.WithLabelValues("in")); got != 700 {
		t.Errorf("budget in = %v", got)
	}
	if got := testutil.ToFloat64(c.BudgetFlow.WithLabelValues("out")); got != 120 {
		t.Errorf("budget out = %v", got)
	}
	if got := testutil.ToFloat64(c.SessionsEnded.WithLabelValues("tutorial", "VICTORY")); got != 1 {
		t.Errorf("ended = %v", got)
	}
	if got := testutil.ToFloat64(c.SessionsActive); got != 0 {
		t.Errorf("active = %v", got)
	}
}

func TestCollector_RegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := New().Register(reg); err != nil {
		t.Fatalf("Register error = %v", err)
	}
	if err := New().Register(reg); err == nil {
		t.Error("registering the same names twice should fail")
	}
}

func TestCollector_ObservePipeline(t *testing.T) {
	c := New()
	c.ObserveTrigger("podium")
	c.ObserveTrigger("podium")
	c.ObserveAction("notice", nil)
	c.ObserveAction("unlock", errors.New("store down"))

	if got := testutil.ToFloat64(c.RuleTriggers.WithLabelValues("podium")); got != 2 {
		t.Errorf("triggers = %v", got)
	}
	if got := testutil.ToFloat64(c.ActionResults.WithLabelValues("notice", "success")); got != 1 {
		t.Errorf("notice success = %v", got)
	}
	if got := testutil.ToFloat64(c.ActionResults.WithLabelValues("unlock", "failure")); got != 1 {
		t.Errorf("unlock failure = %v", got)
	}
}
