package director

import (
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/game"
)

// Regime names the state the procedural injector is operating in.
type Regime string

const (
	RegimeTutorial Regime = "tutorial"
	RegimeOverload Regime = "overload"
	RegimeClimax   Regime = "climax"
	RegimeDrift    Regime = "drift"
)

// ProceduralProfile governs injection of generated incidents.
type ProceduralProfile struct {
	Chance             float64       `json:"chance"`
	Cooldown           time.Duration `json:"cooldown"`
	IdleRetry          time.Duration `json:"idleRetry"`
	MaxInjected        int           `json:"maxInjected"`
	SeverityBias       float64       `json:"severityBias"`
	DurationMultiplier float64       `json:"durationMultiplier"`
	Regime             Regime        `json:"regime"`
}

var tutorialProcedural = ProceduralProfile{
	Chance:             0.08,
	Cooldown:           60 * time.Second,
	IdleRetry:          20 * time.Second,
	MaxInjected:        1,
	SeverityBias:       -0.3,
	DurationMultiplier: 1.3,
	Regime:             RegimeTutorial,
}

var proceduralBase = map[game.Difficulty]ProceduralProfile{
	game.DifficultyEasy:   {0.16, 42 * time.Second, 14 * time.Second, 1, -0.10, 1.15, RegimeDrift},
	game.DifficultyNormal: {0.22, 34 * time.Second, 11 * time.Second, 2, 0, 1.00, RegimeDrift},
	game.DifficultyHard:   {0.30, 26 * time.Second, 8 * time.Second, 3, 0.12, 0.90, RegimeDrift},
}

func scaleDuration(d time.Duration, f float64) time.Duration {
	return time.Duration(float64(d) * f)
}

// Procedural computes the injection profile for the current session state.
func Procedural(difficulty game.Difficulty, mode game.GameMode, fatigue FatigueMetrics, activeEvents int) ProceduralProfile {
	if difficulty == game.DifficultyTutorial {
		return tutorialProcedural
	}

	p, ok := proceduralBase[difficulty]
	if !ok {
		p = proceduralBase[game.DifficultyNormal]
	}

	switch mode {
	case game.ModeHardcore:
		p.Chance *= 1.15
		p.Cooldown = scaleDuration(p.Cooldown, 0.9)
		p.SeverityBias += 0.06
	case game.ModeEndless:
		p.Chance *= 1.05
		p.Cooldown = scaleDuration(p.Cooldown, 0.95)
		p.MaxInjected++
	case game.ModeSpeedrun:
		p.Chance *= 1.1
		p.Cooldown = scaleDuration(p.Cooldown, 0.85)
		p.DurationMultiplier *= 0.9
	}

	switch {
	case fatigue.PressureLevel >= 0.74 || fatigue.FailRate >= 0.62:
		p.Regime = RegimeOverload
		p.Chance *= 0.45
		p.Cooldown = scaleDuration(p.Cooldown, 1.5)
		p.IdleRetry = scaleDuration(p.IdleRetry, 1.4)
		p.MaxInjected--
		p.SeverityBias -= 0.2
		p.DurationMultiplier *= 1.15
	case fatigue.FatigueLevel >= 0.72 && fatigue.PressureLevel <= 0.52:
		p.Regime = RegimeClimax
		p.Chance *= 1.35
		p.Cooldown = scaleDuration(p.Cooldown, 0.75)
		p.IdleRetry = scaleDuration(p.IdleRetry, 0.8)
		p.MaxInjected++
		p.SeverityBias += 0.15
		p.DurationMultiplier *= 0.88
	default:
		f := fatigue.FatigueLevel
		p.Regime = RegimeDrift
		p.Chance *= 1 + 0.2*f
		p.Cooldown = scaleDuration(p.Cooldown, 1-0.12*f)
		p.SeverityBias += 0.08 * f
	}

	if activeEvents >= 4 {
		p.Chance *= 0.7
	}

	return p.clamp()
}

func (p ProceduralProfile) clamp() ProceduralProfile {
	p.Chance = common.Clamp(p.Chance, 0.02, 0.6)
	p.Cooldown = clampDuration(p.Cooldown, 12*time.Second, 90*time.Second)
	p.IdleRetry = clampDuration(p.IdleRetry, 4*time.Second, 30*time.Second)
	p.MaxInjected = common.ClampInt(p.MaxInjected, 1, 4)
	p.SeverityBias = common.Clamp(p.SeverityBias, -0.4, 0.45)
	p.DurationMultiplier = common.Clamp(p.DurationMultiplier, 0.7, 1.4)
	return p
}
