// Package flow decides when a session ends and what a finished session is worth.
package flow

import (
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/game"
)

// ShouldTriggerImmediateGameOver reports whether the session is lost right
// now. Tutorials never end early.
func ShouldTriggerImmediateGameOver(mode game.GameMode, scenario game.Scenario, stats game.GameStats, systems game.Systems) bool {
	if scenario.Tutorial {
		return false
	}
	if mode == game.ModeHardcore {
		for _, sys := range systems {
			if sys.Health <= 0 {
				return true
			}
		}
	}
	return stats.PublicInterest <= 0 ||
		stats.ClientSatisfaction <= 0 ||
		stats.Stress >= 100 ||
		stats.Budget < scenario.MinBudget
}

// ApplyTutorialSafetyNet pulls a tutorial back from the edge. Other scenarios
// are returned unchanged.
func ApplyTutorialSafetyNet(scenario game.Scenario, stats game.GameStats) game.GameStats {
	if !scenario.Tutorial {
		return stats
	}
	if stats.Stress > 80 {
		stats.Stress = 50
	}
	if stats.Budget < 0 {
		stats.Budget = 1000
	}
	return stats
}

// TimerEndOutcome decides the result once the clock runs out. ENDLESS has no
// clock and always reports OutcomeNone, as does any session with time left.
func TimerEndOutcome(mode game.GameMode, remaining time.Duration, stats game.GameStats, win game.WinConditions) game.Outcome {
	if mode == game.ModeEndless || remaining > 0 {
		return game.OutcomeNone
	}
	if stats.PublicInterest >= win.MinPublicInterest &&
		stats.ClientSatisfaction >= win.MinClientSatisfaction &&
		stats.Stress < win.MaxStress {
		return game.OutcomeVictory
	}
	return game.OutcomeGameOver
}
