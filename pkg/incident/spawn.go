// Package incident implements the incident lifecycle: spawn, escalation,
// cross-system cascade, expiry and resolution.
package incident

import (
	"time"

	"github.com/google/uuid"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/content"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/modifier"
	"github.com/russofg/event-chaos-sub000/pkg/random"
)

// newID mints incident ids.
var newID = uuid.NewString

// ScenarioWeight is the pick weight of definitions that name the scenario.
const ScenarioWeight = 3.0

var baseSpawnDelay = map[game.Difficulty]time.Duration{
	game.DifficultyTutorial: 60 * time.Second,
	game.DifficultyEasy:     22 * time.Second,
	game.DifficultyNormal:   15 * time.Second,
	game.DifficultyHard:     9 * time.Second,
}

var modeSpawnFactor = map[game.GameMode]float64{
	game.ModeHardcore: 0.85,
	game.ModeSpeedrun: 0.8,
	game.ModeEndless:  1.05,
}

// MinSpawnDelay is the floor of the static spawn cadence.
const MinSpawnDelay = 3500 * time.Millisecond

// StaticSpawnDelay is the wait before the next static incident.
// randomFactor in [0, 1) drives the jitter.
func StaticSpawnDelay(difficulty game.Difficulty, mode game.GameMode, stress float64, activeEvents int, randomFactor float64) time.Duration {
	base, ok := baseSpawnDelay[difficulty]
	if !ok {
		base = baseSpawnDelay[game.DifficultyNormal]
	}

	factor := 1.0
	if f, ok := modeSpawnFactor[mode]; ok {
		factor *= f
	}

	switch {
	case stress >= 80:
		factor *= 1.35
	case stress >= 60:
		factor *= 1.15
	}

	switch {
	case activeEvents >= 3:
		factor *= 1.4
	case activeEvents == 2:
		factor *= 1.22
	case activeEvents == 1:
		factor *= 1.1
	}

	factor *= 0.88 + 0.24*common.Clamp01(randomFactor)

	delay := time.Duration(float64(base) * factor)
	if delay < MinSpawnDelay {
		return MinSpawnDelay
	}
	return delay
}

// SeverityDuration is the base lifetime of an incident at a severity.
func SeverityDuration(severity int) time.Duration {
	switch common.ClampInt(severity, 1, 3) {
	case 3:
		return 45 * time.Second
	case 2:
		return 30 * time.Second
	default:
		return 20 * time.Second
	}
}

func scale(d time.Duration, f float64) time.Duration {
	if f <= 0 || !common.Finite(f) {
		f = 1
	}
	return time.Duration(float64(d) * f)
}

// Instantiate builds a live incident from a definition.
func Instantiate(def content.EventDefinition, severity int, now time.Time, lifetime time.Duration) game.GameEvent {
	severity = common.ClampInt(severity, 1, 3)
	ev := game.GameEvent{
		ID:           newID(),
		DefinitionID: def.ID,
		SystemID:     def.SystemID,
		Title:        def.Title,
		Description:  def.Description,
		Severity:     severity,
		CreatedAt:    now,
		ExpiresAt:    now.Add(lifetime),
		Options:      append([]game.EventOption(nil), def.Options...),
		Priority:     common.ClampInt(def.Priority+severity-1, 1, 10),
	}
	if def.CanEscalate() {
		ev.CanEscalate = true
		ev.EscalationTime = now.Add(def.EscalateAfter)
	}
	return ev
}

// SpawnInput is the snapshot GenerateStatic draws from.
type SpawnInput struct {
	Now           time.Time
	ScenarioID    string
	Difficulty    game.Difficulty
	Mode          game.GameMode
	Stress        float64
	Active        []game.GameEvent
	Cooldowns     Cooldowns
	SeverityDelta float64
	Permanent     modifier.Permanent
	Tables        *content.Tables
}

// GenerateStatic spawns an incident on a random system. Returns nil when the
// chosen system has no eligible definition.
func GenerateStatic(in SpawnInput, src random.Source) *game.GameEvent {
	if in.Tables == nil {
		return nil
	}

	system := game.AllSystems[random.Intn(src, len(game.AllSystems))]
	active := activeDefinitions(in.Active)

	var candidates []content.EventDefinition
	var weights []float64
	for _, def := range in.Tables.EventsFor(system) {
		if active[def.ID] || in.Cooldowns.Active(def.ID, in.Now) || !def.AllowedIn(in.ScenarioID) {
			continue
		}
		w := 1.0
		if def.Names(in.ScenarioID) {
			w = ScenarioWeight
		}
		candidates = append(candidates, def)
		weights = append(weights, w)
	}

	idx := random.WeightedIndex(src, weights)
	if idx < 0 {
		return nil
	}
	def := candidates[idx]

	chance := StaticSeverityChance(in.Difficulty, in.Mode, in.Stress, len(in.Active))
	severity := RollSeverity(chance, in.SeverityDelta, src)

	ev := Instantiate(def, severity, in.Now, scale(SeverityDuration(severity), in.Permanent.EventTime))
	return &ev
}

func activeDefinitions(active []game.GameEvent) map[string]bool {
	out := make(map[string]bool, len(active))
	for _, ev := range active {
		out[ev.DefinitionID] = true
	}
	return out
}

// Cooldowns maps definition ids to the instant they may spawn again.
type Cooldowns map[string]time.Time

// Active reports whether id is still cooling down at now.
func (c Cooldowns) Active(id string, now time.Time) bool {
	until, ok := c[id]
	return ok && now.Before(until)
}

// Merge returns a copy of c extended with other, keeping the later deadline.
func (c Cooldowns) Merge(other Cooldowns) Cooldowns {
	out := make(Cooldowns, len(c)+len(other))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range other {
		if cur, ok := out[k]; !ok || v.After(cur) {
			out[k] = v
		}
	}
	return out
}

// Prune drops deadlines that have passed.
func (c Cooldowns) Prune(now time.Time) Cooldowns {
	out := make(Cooldowns, len(c))
	for k, v := range c {
		if now.Before(v) {
			out[k] = v
		}
	}
	return out
}
