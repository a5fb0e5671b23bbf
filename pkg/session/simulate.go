package session

import (
	"context"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/flow"
	"github.com/russofg/event-chaos-sub000/pkg/game"
)

// endlessSimulationCap bounds ENDLESS runs that never hit a terminal guard.
const endlessSimulationCap = 15 * time.Minute

// SimulationConfig describes a headless run on a manual clock.
type SimulationConfig struct {
	Session Config
	// Step is the simulated tick length. Defaults to DefaultTickInterval.
	Step time.Duration
	// MaxDuration stops the run early. Defaults to the scenario length plus one
	// second, or 15 minutes for ENDLESS.
	MaxDuration time.Duration
	// Autopilot plays the session. A nil autopilot never touches the desk.
	Autopilot *Autopilot
	Sink      Sink
}

// Summary is the result of a simulation.
type Summary struct {
	SessionID  string                        `json:"sessionId"`
	ScenarioID string                        `json:"scenarioId"`
	Difficulty game.Difficulty               `json:"difficulty"`
	Mode       game.GameMode                 `json:"mode"`
	Outcome    game.Outcome                  `json:"outcome"`
	Score      int                           `json:"score"`
	Rewards    *flow.Rewards                 `json:"rewards,omitempty"`
	Elapsed    time.Duration                 `json:"elapsed"`
	Stats      game.GameStats                `json:"stats"`
	Telemetry  game.SessionDirectorTelemetry `json:"telemetry"`
	Counts     map[Kind]int                  `json:"counts"`
	Career     career.Data                   `json:"career"`
}

// Simulate runs a session to completion without wall-clock waits. Procedural
// generation runs inline so a seeded source reproduces the same run.
func Simulate(ctx context.Context, cfg SimulationConfig) (Summary, error) {
	cfg.Session.InlineGenerator = true
	s, err := New(cfg.Session)
	if err != nil {
		return Summary{}, err
	}
	s.Bind(ctx)

	step := cfg.Step
	if step <= 0 {
		step = DefaultTickInterval
	}
	limit := cfg.MaxDuration
	if limit <= 0 {
		limit = s.Scenario.Duration + time.Second
		if s.Mode == game.ModeEndless {
			limit = endlessSimulationCap
		}
	}
	sink := cfg.Sink
	if sink == nil {
		sink = discard{}
	}

	counts := make(map[Kind]int)
	now := s.Now
	for s.Elapsed < limit && !s.Ended() {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}
		if cfg.Autopilot != nil {
			if err := cfg.Autopilot.Act(s); err != nil {
				return Summary{}, err
			}
		}

		now = now.Add(step)
		s.Step(now, step)

		for _, o := range s.Drain() {
			counts[o.Kind]++
			sink.Publish(o)
		}
	}

	return Summary{
		SessionID:  s.ID,
		ScenarioID: s.Scenario.ID,
		Difficulty: s.Difficulty,
		Mode:       s.Mode,
		Outcome:    s.Outcome,
		Score:      s.Score,
		Rewards:    s.Rewards,
		Elapsed:    s.Elapsed,
		Stats:      s.Stats,
		Telemetry:  s.Telemetry,
		Counts:     counts,
		Career:     s.Career,
	}, nil
}
