// Package economy computes budget rewards and penalties with phase-aware
// pacing, streak bonuses and comeback assistance.
package economy

import (
	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/director"
	"github.com/russofg/event-chaos-sub000/pkg/game"
)

// Profile scales budget flows for the current phase.
type Profile struct {
	MissionReward  float64 `json:"missionReward"`
	EventReward    float64 `json:"eventReward"`
	FailurePenalty float64 `json:"failurePenalty"`
	ExpiryPenalty  float64 `json:"expiryPenalty"`
	Comeback       float64 `json:"comeback"`
}

// Neutral returns a profile that changes nothing.
func Neutral() Profile {
	return Profile{1, 1, 1, 1, 1}
}

func (p Profile) times(o Profile) Profile {
	return Profile{
		MissionReward:  p.MissionReward * o.MissionReward,
		EventReward:    p.EventReward * o.EventReward,
		FailurePenalty: p.FailurePenalty * o.FailurePenalty,
		ExpiryPenalty:  p.ExpiryPenalty * o.ExpiryPenalty,
		Comeback:       p.Comeback * o.Comeback,
	}
}

var phaseEconomy = map[game.Phase]Profile{
	game.PhaseOpening: {1.00, 0.95, 0.85, 0.85, 1.10},
	game.PhaseMidgame: {1.05, 1.00, 1.00, 1.00, 1.00},
	game.PhaseFinale:  {1.18, 1.12, 1.12, 1.15, 0.95},
}

var difficultyEconomy = map[game.Difficulty]Profile{
	game.DifficultyTutorial: {1.20, 1.20, 0.50, 0.50, 1.30},
	game.DifficultyEasy:     {1.10, 1.08, 0.85, 0.85, 1.15},
	game.DifficultyHard:     {0.94, 0.95, 1.15, 1.18, 0.90},
}

var modeEconomy = map[game.GameMode]Profile{
	game.ModeHardcore: {1.10, 1.05, 1.20, 1.20, 0.85},
	game.ModeEndless:  {0.95, 1.00, 0.95, 0.95, 1.05},
	game.ModeSpeedrun: {1.12, 1.08, 1.05, 1.05, 1.00},
}

func stressEconomy(stress float64) Profile {
	switch {
	case stress >= 80:
		return Profile{1.00, 1.05, 0.82, 0.80, 1.25}
	case stress >= 60:
		return Profile{1.00, 1.02, 0.92, 0.90, 1.12}
	case stress <= 25:
		return Profile{1.04, 1.00, 1.05, 1.05, 0.92}
	default:
		return Neutral()
	}
}

func lookup[K comparable](table map[K]Profile, key K) Profile {
	if p, ok := table[key]; ok {
		return p
	}
	return Neutral()
}

// PhaseProfile layers phase, difficulty, mode, stress and fatigue.
func PhaseProfile(difficulty game.Difficulty, mode game.GameMode, phase game.Phase, stress, fatigue float64) Profile {
	base, ok := phaseEconomy[phase]
	if !ok {
		base = phaseEconomy[game.PhaseMidgame]
	}

	p := base.
		times(lookup(difficultyEconomy, difficulty)).
		times(lookup(modeEconomy, mode)).
		times(stressEconomy(stress))

	f := common.Clamp01(fatigue)
	p.MissionReward *= 1 + 0.1*f
	p.FailurePenalty *= 1 - 0.08*f
	p.Comeback *= 1 + 0.1*f

	return p.clamp()
}

func (p Profile) clamp() Profile {
	p.MissionReward = common.Clamp(p.MissionReward, 0.6, 1.8)
	p.EventReward = common.Clamp(p.EventReward, 0.6, 1.7)
	p.FailurePenalty = common.Clamp(p.FailurePenalty, 0.35, 1.8)
	p.ExpiryPenalty = common.Clamp(p.ExpiryPenalty, 0.35, 1.8)
	p.Comeback = common.Clamp(p.Comeback, 0.7, 1.6)
	return p
}

// ApplyBoss scales rewards and penalties during a boss moment.
func ApplyBoss(p Profile, b director.BossMoment) Profile {
	if !b.Engaged() {
		return p
	}
	p.MissionReward *= b.RewardMultiplier
	p.EventReward *= b.RewardMultiplier
	p.FailurePenalty *= b.PenaltyMultiplier
	p.ExpiryPenalty *= b.PenaltyMultiplier
	return p.clamp()
}
