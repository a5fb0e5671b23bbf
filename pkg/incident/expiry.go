package incident

import (
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/economy"
	"github.com/russofg/event-chaos-sub000/pkg/game"
)

const (
	// ExpiryCooldown keeps an expired definition from respawning immediately.
	ExpiryCooldown = 60 * time.Second
	// ExpiryHealthHit is the health lost by each system with an expired incident.
	ExpiryHealthHit = 20.0
)

// SplitExpired partitions active incidents at now.
func SplitExpired(active []game.GameEvent, now time.Time) (remaining, expired []game.GameEvent) {
	remaining = make([]game.GameEvent, 0, len(active))
	for _, ev := range active {
		if ev.Expired(now) {
			expired = append(expired, ev)
		} else {
			remaining = append(remaining, ev)
		}
	}
	return remaining, expired
}

// ExpiryOutcome is the penalty for one batch of expired incidents.
type ExpiryOutcome struct {
	Delta         game.StatDelta              `json:"delta"`
	BudgetPenalty int                         `json:"budgetPenalty"`
	HealthHits    map[game.SystemType]float64 `json:"healthHits"`
	Cooldowns     Cooldowns                   `json:"cooldowns"`
}

// ExpiryPenalty prices a batch of incidents that expired in the same tick.
// Stat penalties apply once per batch regardless of its size. activeEvents is
// the load before the batch was removed.
func ExpiryPenalty(expired []game.GameEvent, activeEvents int, stress float64, econ economy.Profile, now time.Time) ExpiryOutcome {
	out := ExpiryOutcome{
		HealthHits: map[game.SystemType]float64{},
		Cooldowns:  Cooldowns{},
	}
	if len(expired) == 0 {
		return out
	}

	out.BudgetPenalty = economy.ExpiredEventsBudgetPenalty(expired, activeEvents, stress, econ)
	out.Delta = game.StatDelta{
		PublicInterest:     -10,
		ClientSatisfaction: -10,
		Stress:             10,
		Budget:             -float64(out.BudgetPenalty),
	}
	for _, ev := range expired {
		out.HealthHits[ev.SystemID] = ExpiryHealthHit
		out.Cooldowns[ev.DefinitionID] = now.Add(ExpiryCooldown)
	}
	return out
}
