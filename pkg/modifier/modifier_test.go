package modifier

import (
	"math"
	"testing"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/game"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCrewResolvers(t *testing.T) {
	tests := []struct {
		bonus  game.CrewBonus
		drift  float64
		stress float64
		heal   bool
		budget float64
	}{
		{game.CrewNone, 1, 1, false, 0},
		{game.CrewLessDrift, 0.85, 1, false, 0},
		{game.CrewSlowStress, 1, 0.8, false, 0},
		{game.CrewAutoRepairSlow, 1, 1, true, 0},
		{game.CrewExtraBudget, 1, 1, false, 2000},
		{"UNKNOWN", 1, 1, false, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.bonus), func(t *testing.T) {
			if got := DriftMultiplier(tt.bonus); got != tt.drift {
				t.Errorf("DriftMultiplier = %v, expected %v", got, tt.drift)
			}
			if got := StressMultiplier(tt.bonus); got != tt.stress {
				t.Errorf("StressMultiplier = %v, expected %v", got, tt.stress)
			}
			if got := AutoHealFor(tt.bonus).Enabled(); got != tt.heal {
				t.Errorf("AutoHealFor enabled = %v, expected %v", got, tt.heal)
			}
			if got := InitialBudgetBonus(tt.bonus); got != tt.budget {
				t.Errorf("InitialBudgetBonus = %v, expected %v", got, tt.budget)
			}
		})
	}

	heal := AutoHealFor(game.CrewAutoRepairSlow)
	if heal.Amount != 0.5 || heal.Interval != 5*time.Second {
		t.Errorf("auto heal = %+v, expected 0.5 every 5s", heal)
	}
}

func TestResolve_NoUnlocksIsNeutral(t *testing.T) {
	if got := Resolve(nil, DefaultCatalog()); got != Neutral() {
		t.Errorf("Resolve(nil) = %+v, expected neutral", got)
	}
}

func TestResolve_StacksAndIgnoresUnknown(t *testing.T) {
	got := Resolve([]string{"reflexes_1", "reflexes_2", "zen_1", "ghost_upgrade"}, DefaultCatalog())

	if !approx(got.EventTime, 1.21) {
		t.Errorf("EventTime = %v, expected 1.21", got.EventTime)
	}
	if !approx(got.Stress, 0.9) {
		t.Errorf("Stress = %v, expected 0.9", got.Stress)
	}
	if got.Cost != 1 || got.Reward != 1 || got.MissionTime != 1 {
		t.Errorf("untouched modifiers changed: %+v", got)
	}
}

func TestResolve_DuplicateUnlockAppliesOnce(t *testing.T) {
	got := Resolve([]string{"sponsor_1", "sponsor_1"}, DefaultCatalog())
	if !approx(got.Reward, 1.15) {
		t.Errorf("Reward = %v, expected 1.15", got.Reward)
	}
}

func TestResolve_AddOp(t *testing.T) {
	catalog := Catalog{
		"flat": {ID: "flat", Effects: []Effect{{Target: TargetCost, Op: OpAdd, Value: -0.25}}},
	}
	got := Resolve([]string{"flat"}, catalog)
	if !approx(got.Cost, 0.75) {
		t.Errorf("Cost = %v, expected 0.75", got.Cost)
	}
}
