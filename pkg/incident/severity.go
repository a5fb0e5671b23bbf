package incident

import (
	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/random"
)

// ConcurrencyCap bounds simultaneous active incidents.
func ConcurrencyCap(difficulty game.Difficulty, mode game.GameMode, stress float64) int {
	if difficulty == game.DifficultyTutorial {
		return 1
	}

	limit := 2
	if difficulty == game.DifficultyHard {
		limit = 3
	}
	if mode == game.ModeHardcore || mode == game.ModeSpeedrun {
		limit++
	}
	if stress >= 80 {
		limit--
	}
	return common.ClampInt(limit, 2, 6)
}

// ApplyDirectorConcurrency shifts a cap by the live director delta. A cap of
// one (tutorial) is never raised.
func ApplyDirectorConcurrency(limit, delta int) int {
	if limit <= 1 {
		return limit
	}
	return common.ClampInt(limit+delta, 1, 6)
}

var baseSeverityChance = map[game.Difficulty]float64{
	game.DifficultyTutorial: 0,
	game.DifficultyEasy:     0.08,
	game.DifficultyNormal:   0.15,
	game.DifficultyHard:     0.26,
}

var modeSeverityBonus = map[game.GameMode]float64{
	game.ModeHardcore: 0.08,
	game.ModeSpeedrun: 0.04,
	game.ModeEndless:  0.02,
}

// StaticSeverityChance is the probability a static incident rolls above severity 1.
func StaticSeverityChance(difficulty game.Difficulty, mode game.GameMode, stress float64, activeEvents int) float64 {
	if difficulty == game.DifficultyTutorial {
		return 0
	}
	chance, ok := baseSeverityChance[difficulty]
	if !ok {
		chance = baseSeverityChance[game.DifficultyNormal]
	}
	chance += modeSeverityBonus[mode]

	switch {
	case stress >= 75:
		chance -= 0.07
	case stress >= 55:
		chance -= 0.03
	}
	if activeEvents >= 3 {
		chance -= 0.04
	}
	return common.Clamp(chance, 0, 0.6)
}

// RollSeverity turns a chance and director delta into a severity of 1 to 3.
// The first roll decides whether the incident is elevated, the second whether
// an elevated incident is critical.
func RollSeverity(chance, delta float64, src random.Source) int {
	p := common.Clamp(chance+0.5*delta, 0, 0.85)
	if src.Float64() >= p {
		return 1
	}
	critical := common.Clamp(0.3+0.3*delta, 0.1, 0.6)
	if src.Float64() < critical {
		return 3
	}
	return 2
}
