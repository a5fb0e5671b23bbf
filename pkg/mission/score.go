// Package mission scores mission templates and picks the next mission that
// best fits the player's current situation.
package mission

import (
	"math"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/game"
)

// Context is the session situation a mission is picked for.
type Context struct {
	ScenarioID    string
	Difficulty    game.Difficulty
	Mode          game.GameMode
	Phase         game.Phase
	Stress        float64
	Budget        float64
	InitialBudget float64
	ActiveEvents  int
}

func (c Context) budgetRatio() float64 {
	if c.InitialBudget <= 0 {
		return 1
	}
	return c.Budget / c.InitialBudget
}

// Complexity rates how demanding a mission is, in [0, 1].
func Complexity(m game.MissionDefinition) float64 {
	n := len(m.Criteria)
	density := common.Clamp01(float64(n-1) / 3)

	precision := 0.0
	if n > 0 {
		width := 0.0
		for _, c := range m.Criteria {
			width += math.Abs(c.Max - c.Min)
		}
		avg := width / float64(n)
		precision = common.Clamp01(1 - (avg-8)/52)
	}

	hold := common.Clamp01((m.HoldDuration - 3*time.Second).Seconds() / 12)

	ratio := 1.0
	if m.Timeout > 0 {
		ratio = common.Clamp01(m.HoldDuration.Seconds() / m.Timeout.Seconds() / 0.5)
	}

	reward := common.Clamp01((m.RewardCash - 300) / 1700)

	return common.Clamp01(0.24*density + 0.28*precision + 0.18*hold + 0.18*ratio + 0.12*reward)
}

// SystemFit rates how close the current faders already are to the criteria.
// A mission with no criteria fits perfectly.
func SystemFit(m game.MissionDefinition, systems game.Systems) float64 {
	if len(m.Criteria) == 0 {
		return 1
	}

	gapSum := 0.0
	inRange := 0
	for _, c := range m.Criteria {
		sys, ok := systems[c.SystemID]
		if !ok {
			gapSum += 1
			continue
		}
		var gap float64
		switch {
		case sys.FaderValue < c.Min:
			gap = c.Min - sys.FaderValue
		case sys.FaderValue > c.Max:
			gap = sys.FaderValue - c.Max
		default:
			inRange++
		}
		gapSum += math.Min(gap/50, 1)
	}

	n := float64(len(m.Criteria))
	return common.Clamp01(0.7*(1-gapSum/n) + 0.3*float64(inRange)/n)
}

var phaseTarget = map[game.Phase]float64{
	game.PhaseOpening: 0.42,
	game.PhaseMidgame: 0.56,
	game.PhaseFinale:  0.68,
}

// TargetComplexity is the complexity the picker aims for right now.
func TargetComplexity(ctx Context) float64 {
	target, ok := phaseTarget[ctx.Phase]
	if !ok {
		target = phaseTarget[game.PhaseMidgame]
	}

	switch ctx.Difficulty {
	case game.DifficultyTutorial:
		target -= 0.2
	case game.DifficultyEasy:
		target -= 0.1
	case game.DifficultyHard:
		target += 0.1
	}

	switch ctx.Mode {
	case game.ModeHardcore:
		target += 0.06
	case game.ModeSpeedrun:
		target += 0.03
	}

	switch {
	case ctx.Stress >= 75:
		target -= 0.14
	case ctx.Stress >= 55:
		target -= 0.07
	case ctx.Stress <= 25:
		target += 0.05
	}

	switch ratio := ctx.budgetRatio(); {
	case ratio < 0.3:
		target -= 0.08
	case ratio > 1.3:
		target += 0.06
	}

	if ctx.ActiveEvents >= 3 {
		target -= 0.05
	}

	return common.Clamp(target, 0.15, 0.92)
}
