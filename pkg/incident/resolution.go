package incident

import (
	"math"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/economy"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/modifier"
)

const (
	// ResolutionCooldown keeps a handled definition from respawning immediately.
	ResolutionCooldown = 30 * time.Second
	// MinFailureStress is the least stress a wrong call adds.
	MinFailureStress = 10.0
)

// Report is the telemetry payload emitted for every resolution.
type Report struct {
	Success    bool            `json:"success"`
	Cost       float64         `json:"cost"`
	SystemID   game.SystemType `json:"systemId"`
	Severity   int             `json:"severity"`
	EventTitle string          `json:"eventTitle"`
	EventID    string          `json:"eventId"`
}

// ResolveInput is the session snapshot a resolution is priced against.
type ResolveInput struct {
	Now           time.Time
	Stats         game.GameStats
	ActiveEvents  int
	InitialBudget float64
	Economy       economy.Profile
	Streak        economy.StreakState
	Combo         float64
	Permanent     modifier.Permanent
	Crew          game.CrewBonus
}

// Resolution is the full effect of the player's choice.
type Resolution struct {
	Success       bool                     `json:"success"`
	Delta         game.StatDelta           `json:"delta"`
	Budget        economy.EventBudgetDelta `json:"budget"`
	CooldownUntil time.Time                `json:"cooldownUntil"`
	Report        Report                   `json:"report"`
}

// Resolve applies the chosen option to an incident. Success means the option
// is marked correct.
func Resolve(ev game.GameEvent, opt game.EventOption, in ResolveInput) Resolution {
	success := opt.IsCorrect
	cost := math.Max(opt.Cost, 0) * positive(in.Permanent.Cost)
	stressScale := positive(in.Permanent.Stress) * modifier.StressMultiplier(in.Crew)

	budget := economy.EventResolutionBudgetDelta(economy.EventResolutionInput{
		Success:         success,
		Cost:            cost,
		Severity:        ev.Severity,
		ActiveEvents:    in.ActiveEvents,
		Stats:           in.Stats,
		InitialBudget:   in.InitialBudget,
		Economy:         in.Economy,
		Streak:          in.Streak,
		ComboMultiplier: in.Combo,
		RewardModifier:  in.Permanent.Reward,
	})

	delta := game.StatDelta{Budget: float64(budget.Net)}
	if success {
		delta.Stress = opt.StressImpact * stressScale
		delta.ClientSatisfaction = 5
		delta.PublicInterest = 3
	} else {
		delta.Stress = math.Max(MinFailureStress, math.Abs(opt.StressImpact)) * stressScale
		delta.ClientSatisfaction = -8
		delta.PublicInterest = -5
	}

	return Resolution{
		Success:       success,
		Delta:         delta,
		Budget:        budget,
		CooldownUntil: in.Now.Add(ResolutionCooldown),
		Report: Report{
			Success:    success,
			Cost:       cost,
			SystemID:   ev.SystemID,
			Severity:   ev.Severity,
			EventTitle: ev.Title,
			EventID:    ev.ID,
		},
	}
}

// BuildMinigameOption maps a minigame result onto the option it stands for.
// A win keeps the option as is; a loss turns it into a wrong call.
func BuildMinigameOption(opt *game.EventOption, success bool) *game.EventOption {
	if opt == nil || success {
		return opt
	}
	failed := *opt
	failed.IsCorrect = false
	failed.StressImpact = math.Max(MinFailureStress, math.Abs(opt.StressImpact))
	return &failed
}

// ActiveEventStress is the stress per second added by open incidents.
// Higher severity and priority weigh more.
func ActiveEventStress(active []game.GameEvent, perm modifier.Permanent) float64 {
	total := 0.0
	for _, ev := range active {
		total += 0.12 + 0.08*float64(ev.Severity-1) + 0.01*float64(ev.Priority)
	}
	return total * positive(perm.ActiveEventStress)
}

func positive(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	return v
}
