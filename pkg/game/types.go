// Package game holds the shared data model of a live-event session.
package game

import "time"

// Difficulty is the difficulty tier chosen for a session.
type Difficulty string

const (
	DifficultyTutorial Difficulty = "TUTORIAL"
	DifficultyEasy     Difficulty = "EASY"
	DifficultyNormal   Difficulty = "NORMAL"
	DifficultyHard     Difficulty = "HARD"
)

// Rank orders the tiers from 0 (tutorial) to 3 (hard). Unknown tiers rank as normal.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyTutorial:
		return 0
	case DifficultyEasy:
		return 1
	case DifficultyHard:
		return 3
	default:
		return 2
	}
}

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyTutorial, DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return false
}

// GameMode selects the session rule set.
type GameMode string

const (
	ModeNormal   GameMode = "NORMAL"
	ModeHardcore GameMode = "HARDCORE"
	ModeEndless  GameMode = "ENDLESS"
	ModeSpeedrun GameMode = "SPEEDRUN"
)

// Valid reports whether m is a known mode.
func (m GameMode) Valid() bool {
	switch m {
	case ModeNormal, ModeHardcore, ModeEndless, ModeSpeedrun:
		return true
	}
	return false
}

// Phase is the coarse stage of a match.
type Phase string

const (
	PhaseOpening Phase = "OPENING"
	PhaseMidgame Phase = "MIDGAME"
	PhaseFinale  Phase = "FINALE"
)

// SystemType identifies one of the technical systems the player operates.
type SystemType string

const (
	SystemSound  SystemType = "SOUND"
	SystemLights SystemType = "LIGHTS"
	SystemVideo  SystemType = "VIDEO"
	SystemStage  SystemType = "STAGE"
)

// AllSystems lists every system in display order.
var AllSystems = []SystemType{SystemSound, SystemLights, SystemVideo, SystemStage}

// SystemStatus is derived from system health.
type SystemStatus string

const (
	StatusOK       SystemStatus = "OK"
	StatusWarning  SystemStatus = "WARNING"
	StatusCritical SystemStatus = "CRITICAL"
)

// StatusForHealth maps a health value to its status band.
func StatusForHealth(health float64) SystemStatus {
	switch {
	case health < 30:
		return StatusCritical
	case health < 70:
		return StatusWarning
	default:
		return StatusOK
	}
}

// CrewBonus is the perk granted by the hired crew.
type CrewBonus string

const (
	CrewNone           CrewBonus = "NONE"
	CrewLessDrift      CrewBonus = "LESS_DRIFT"
	CrewSlowStress     CrewBonus = "SLOW_STRESS"
	CrewAutoRepairSlow CrewBonus = "AUTO_REPAIR_SLOW"
	CrewExtraBudget    CrewBonus = "EXTRA_BUDGET"
)

// Outcome is the terminal result of a session. The zero value means the
// session is still running.
type Outcome string

const (
	OutcomeNone     Outcome = ""
	OutcomeVictory  Outcome = "VICTORY"
	OutcomeGameOver Outcome = "GAME_OVER"
)

// SystemState is the live state of one technical system.
type SystemState struct {
	ID         SystemType   `json:"id"`
	Health     float64      `json:"health"`
	Status     SystemStatus `json:"status"`
	FaderValue float64      `json:"faderValue"`
	DriftSpeed float64      `json:"driftSpeed"`
}

// Systems indexes system state by id.
type Systems map[SystemType]SystemState

// Clone returns an independent copy.
func (s Systems) Clone() Systems {
	out := make(Systems, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// MinHealth returns the lowest health across all systems, or 100 when empty.
func (s Systems) MinHealth() float64 {
	lowest := 100.0
	for _, sys := range s {
		if sys.Health < lowest {
			lowest = sys.Health
		}
	}
	return lowest
}

// GameStats are the headline meters of a session.
type GameStats struct {
	PublicInterest     float64       `json:"publicInterest"`
	ClientSatisfaction float64       `json:"clientSatisfaction"`
	Stress             float64       `json:"stress"`
	Budget             float64       `json:"budget"`
	TimeRemaining      time.Duration `json:"timeRemaining"`
}

// Clamped bounds the percentage meters to [0, 100]. Budget is unbounded.
func (g GameStats) Clamped() GameStats {
	g.PublicInterest = clampPercent(g.PublicInterest)
	g.ClientSatisfaction = clampPercent(g.ClientSatisfaction)
	g.Stress = clampPercent(g.Stress)
	if g.TimeRemaining < 0 {
		g.TimeRemaining = 0
	}
	return g
}

func clampPercent(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// StatDelta is an additive change to the headline meters.
type StatDelta struct {
	PublicInterest     float64 `json:"publicInterest"`
	ClientSatisfaction float64 `json:"clientSatisfaction"`
	Stress             float64 `json:"stress"`
	Budget             float64 `json:"budget"`
}

// Apply returns stats with the delta added and meters clamped.
func (g GameStats) Apply(d StatDelta) GameStats {
	g.PublicInterest += d.PublicInterest
	g.ClientSatisfaction += d.ClientSatisfaction
	g.Stress += d.Stress
	g.Budget += d.Budget
	return g.Clamped()
}
