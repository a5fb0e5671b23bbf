// Package modifier resolves crew perks and career upgrades into the
// multipliers applied during a session.
package modifier

import (
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/game"
)

// AutoHeal describes a periodic passive repair.
type AutoHeal struct {
	Amount   float64
	Interval time.Duration
}

// Enabled reports whether any healing happens.
func (a AutoHeal) Enabled() bool {
	return a.Amount > 0 && a.Interval > 0
}

// DriftMultiplier scales fader drift speed.
func DriftMultiplier(bonus game.CrewBonus) float64 {
	if bonus == game.CrewLessDrift {
		return 0.85
	}
	return 1
}

// StressMultiplier scales incoming stress.
func StressMultiplier(bonus game.CrewBonus) float64 {
	if bonus == game.CrewSlowStress {
		return 0.8
	}
	return 1
}

// AutoHealFor returns the passive repair granted by the crew.
func AutoHealFor(bonus game.CrewBonus) AutoHeal {
	if bonus == game.CrewAutoRepairSlow {
		return AutoHeal{Amount: 0.5, Interval: 5 * time.Second}
	}
	return AutoHeal{}
}

// InitialBudgetBonus is added to the scenario budget at session start.
func InitialBudgetBonus(bonus game.CrewBonus) float64 {
	if bonus == game.CrewExtraBudget {
		return 2000
	}
	return 0
}
