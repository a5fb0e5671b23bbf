package economy

import (
	"math"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/game"
)

// EventResolutionInput carries everything needed to price a resolution.
type EventResolutionInput struct {
	Success         bool
	Cost            float64
	Severity        int
	ActiveEvents    int
	Stats           game.GameStats
	InitialBudget   float64
	Economy         Profile
	Streak          StreakState
	ComboMultiplier float64
	RewardModifier  float64
}

// EventBudgetDelta is the priced outcome of a resolution.
type EventBudgetDelta struct {
	Net     int     `json:"net"`
	Reward  float64 `json:"reward"`
	Penalty float64 `json:"penalty"`
}

func budgetRatio(stats game.GameStats, initialBudget float64) float64 {
	if initialBudget <= 0 {
		return 1
	}
	return stats.Budget / initialBudget
}

func severityOf(s int) float64 {
	return float64(common.ClampInt(s, 1, 3))
}

func orOne(v float64) float64 {
	if v <= 0 || !common.Finite(v) {
		return 1
	}
	return v
}

// EventResolutionBudgetDelta prices a resolved or failed event.
func EventResolutionBudgetDelta(in EventResolutionInput) EventBudgetDelta {
	load := math.Min(float64(max(in.ActiveEvents, 0)), 5)
	sev := severityOf(in.Severity)

	if in.Success {
		base := (180 + 120*(sev-1)) * (1 + 0.08*load)
		bonus := math.Min(0.3, 0.05*float64(in.Streak.EventSuccess))
		if in.Stats.Stress >= 70 {
			bonus += 0.15 * in.Economy.Comeback
		}
		if budgetRatio(in.Stats, in.InitialBudget) < 0.4 {
			bonus += 0.2 * in.Economy.Comeback
		}
		reward := base * in.Economy.EventReward * (1 + bonus) * orOne(in.ComboMultiplier) * orOne(in.RewardModifier)
		return EventBudgetDelta{
			Net:    common.Round(reward - in.Cost),
			Reward: reward,
		}
	}

	base := (140 + 110*(sev-1)) * (1 + 0.06*load)
	relief := 0.0
	switch {
	case in.Stats.Stress >= 70:
		relief = 0.2
	case in.Stats.Stress >= 50:
		relief = 0.1
	}
	factor := math.Max(0.4, 1+math.Min(0.4, 0.08*float64(in.Streak.EventFail))-relief)
	penalty := base * in.Economy.FailurePenalty * factor
	return EventBudgetDelta{
		Net:     -common.Round(in.Cost + penalty),
		Penalty: penalty,
	}
}

// MissionRewardPacingMultiplier scales a mission's cash reward.
func MissionRewardPacingMultiplier(p Profile, streak StreakState, stats game.GameStats, initialBudget float64) float64 {
	bonus := math.Min(0.25, 0.06*float64(streak.MissionSuccess))
	if budgetRatio(stats, initialBudget) < 0.5 {
		bonus += 0.18 * p.Comeback
	}
	if streak.MissionFail >= 2 {
		bonus += 0.1 * p.Comeback
	}
	return common.Clamp(p.MissionReward*(1+bonus), 0.6, 2.2)
}

// MissionTimeoutBudgetPenalty is charged when a mission times out.
func MissionTimeoutBudgetPenalty(rewardCash float64, p Profile, streak StreakState, stats game.GameStats) int {
	penalty := 0.25 * math.Max(rewardCash, 0) * p.FailurePenalty * (1 + math.Min(0.35, 0.1*float64(streak.MissionFail)))
	if stats.Stress >= 70 {
		penalty *= 0.75
	}
	return common.Round(penalty)
}

// ExpiredEventsBudgetPenalty is charged once per batch of expired events.
func ExpiredEventsBudgetPenalty(expired []game.GameEvent, activeEvents int, stress float64, p Profile) int {
	if len(expired) == 0 {
		return 0
	}

	loadFactor := 1 + 0.05*math.Min(float64(max(activeEvents, 0)), 5)
	total := 0.0
	for _, ev := range expired {
		total += (120 + 90*(severityOf(ev.Severity)-1)) * loadFactor * p.ExpiryPenalty
	}

	switch {
	case stress >= 80:
		total *= 0.6
	case stress >= 60:
		total *= 0.8
	}
	return common.Round(total)
}
