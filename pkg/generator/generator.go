// Package generator produces out-of-band incidents. The only implementation
// simulates a slow remote author with an artificial delay.
package generator

import (
	"context"
	"errors"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/content"
	"github.com/russofg/event-chaos-sub000/pkg/director"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/incident"
	"github.com/russofg/event-chaos-sub000/pkg/modifier"
	"github.com/russofg/event-chaos-sub000/pkg/random"
)

// ErrNoCandidate indicates that no definition could be used for generation.
var ErrNoCandidate = errors.New("no eligible incident definition")

// Request is the session snapshot a generation is based on.
type Request struct {
	Now        time.Time
	ScenarioID string
	Difficulty game.Difficulty
	Mode       game.GameMode
	Stress     float64
	Active     []game.GameEvent
	Cooldowns  incident.Cooldowns
	Procedural director.ProceduralProfile
	Permanent  modifier.Permanent
}

// Generator authors one incident per call.
type Generator interface {
	Generate(ctx context.Context, req Request) (*game.GameEvent, error)
}

// Simulated builds incidents from the content tables after a fixed delay.
type Simulated struct {
	tables *content.Tables
	delay  time.Duration
	src    random.Source
}

// NewSimulated creates a generator. src must be safe for use from the
// generation goroutine; random.Seeded is.
func NewSimulated(tables *content.Tables, delay time.Duration, src random.Source) *Simulated {
	return &Simulated{tables: tables, delay: delay, src: src}
}

// Generate waits for the configured delay, then picks a definition across
// all systems, weighted by priority.
func (g *Simulated) Generate(ctx context.Context, req Request) (*game.GameEvent, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	active := map[string]bool{}
	for _, ev := range req.Active {
		active[ev.DefinitionID] = true
	}

	var candidates []content.EventDefinition
	var weights []float64
	for _, sys := range game.AllSystems {
		for _, def := range g.tables.EventsFor(sys) {
			if active[def.ID] || req.Cooldowns.Active(def.ID, req.Now) || !def.AllowedIn(req.ScenarioID) {
				continue
			}
			candidates = append(candidates, def)
			weights = append(weights, float64(max(def.Priority, 1)))
		}
	}

	idx := random.WeightedIndex(g.src, weights)
	if idx < 0 {
		return nil, ErrNoCandidate
	}
	def := candidates[idx]

	chance := incident.StaticSeverityChance(req.Difficulty, req.Mode, req.Stress, len(req.Active))
	severity := incident.RollSeverity(chance, req.Procedural.SeverityBias, g.src)

	lifetime := incident.SeverityDuration(severity)
	lifetime = time.Duration(float64(lifetime) * positive(req.Procedural.DurationMultiplier) * positive(req.Permanent.EventTime))

	ev := incident.Instantiate(def, severity, req.Now, lifetime)
	ev.Generated = true
	return &ev, nil
}

func positive(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}
