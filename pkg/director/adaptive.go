package director

import (
	"math"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/game"
)

// TutorialTarget is returned for tutorials. The tutorial path never consults
// the adaptive director, so callers only see it if they bypass that check.
const TutorialTarget = -1.0

const (
	neutralSuccessRate = 0.55
	biasRetention      = 0.88
)

// SessionDifficultyTarget scores how hard the session should push next, in
// [-1, 1]. Positive means the player is coping and can take more.
func SessionDifficultyTarget(
	difficulty game.Difficulty,
	telemetry game.SessionDirectorTelemetry,
	stats game.GameStats,
	activeEvents int,
	initialBudget float64,
) float64 {
	if difficulty == game.DifficultyTutorial {
		return TutorialTarget
	}

	attempts := telemetry.Attempts()
	successRate := neutralSuccessRate
	if attempts > 0 {
		successRate = float64(telemetry.ResolvedEvents) / float64(attempts)
	}

	target := (successRate - neutralSuccessRate) * 1.1

	switch {
	case stats.Stress >= 80:
		target -= 0.5
	case stats.Stress >= 60:
		target -= 0.28
	case stats.Stress <= 30:
		target += 0.15
	}

	budgetRatio := 1.0
	if initialBudget > 0 {
		budgetRatio = stats.Budget / initialBudget
	}
	switch {
	case budgetRatio < 0.25:
		target -= 0.42
	case budgetRatio < 0.55:
		target -= 0.2
	case budgetRatio > 1.2:
		target += 0.16
	}

	switch {
	case activeEvents >= 4:
		target -= 0.22
	case activeEvents >= 3:
		target -= 0.10
	case activeEvents == 0 && stats.Stress < 40:
		target += 0.08
	}

	if recent := telemetry.RecentOutcomes; len(recent) >= 3 {
		fails := 0
		for _, ok := range recent {
			if !ok {
				fails++
			}
		}
		failRate := float64(fails) / float64(len(recent))
		target -= 0.45 * (failRate - 0.3)
	}

	if telemetry.ResolvedEvents >= 12 && successRate >= 0.7 {
		target += 0.10
	}
	if telemetry.Failures() >= 8 && successRate < 0.45 {
		target -= 0.12
	}

	switch difficulty {
	case game.DifficultyEasy:
		target -= 0.08
	case game.DifficultyHard:
		target += 0.06
	}

	return common.Clamp(target, -1, 1)
}

// SmoothBias blends a fresh target into the running director bias.
func SmoothBias(previous, target float64) float64 {
	return common.Clamp(previous*biasRetention+target*(1-biasRetention), -1, 1)
}

// AdaptiveAdjustments converts a smoothed bias into profile deltas.
// The pacing fields are multipliers; the rest are additive.
func AdaptiveAdjustments(target float64) Profile {
	t := common.Clamp(target, -1, 1)

	concurrency := 0
	switch {
	case t >= 0.55:
		concurrency = 1
	case t <= -0.55:
		concurrency = -1
	}

	return Profile{
		SpawnDelayMultiplier:     common.Clamp(1-0.16*t, 0.84, 1.16),
		MissionRespawnMultiplier: common.Clamp(1-0.12*t, 0.88, 1.12),
		SeverityDelta:            common.Clamp(0.18*t, -0.18, 0.18),
		ConcurrencyDelta:         concurrency,
		CascadeChance:            common.Clamp(0.08*t, -0.08, 0.08),
		CascadeCooldown:          time.Duration(math.Round(-3000*t)) * time.Millisecond,
	}
}

// ComposeProfile applies adaptive adjustments on top of a phase profile.
func ComposeProfile(base, adj Profile) Profile {
	return Profile{
		SpawnDelayMultiplier:     base.SpawnDelayMultiplier * adj.SpawnDelayMultiplier,
		MissionRespawnMultiplier: base.MissionRespawnMultiplier * adj.MissionRespawnMultiplier,
		SeverityDelta:            base.SeverityDelta + adj.SeverityDelta,
		ConcurrencyDelta:         base.ConcurrencyDelta + adj.ConcurrencyDelta,
		CascadeChance:            base.CascadeChance + adj.CascadeChance,
		CascadeCooldown:          base.CascadeCooldown + adj.CascadeCooldown,
	}.clamp(composedProfileBounds)
}
