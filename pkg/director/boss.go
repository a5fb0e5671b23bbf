package director

import (
	"math"

	"github.com/russofg/event-chaos-sub000/pkg/game"
)

const (
	bossWindow         = 0.035
	bossRecoveryWindow = 0.095
)

// BossBeats lists the progress points of each scenario's scripted climaxes.
var BossBeats = map[string][]float64{
	"corporate_gala":  {0.86, 0.95},
	"rock_festival":   {0.82, 0.90, 0.97},
	"tv_broadcast":    {0.80, 0.92},
	"stadium_concert": {0.80, 0.88, 0.96},
}

// BossMoment is the director override for a scripted climax or its aftermath.
type BossMoment struct {
	Active    bool    `json:"active"`
	Recovery  bool    `json:"recovery"`
	BeatIndex int     `json:"beatIndex"`
	Intensity float64 `json:"intensity"`

	SpawnDelayMultiplier       float64 `json:"spawnDelayMultiplier"`
	SeverityDelta              float64 `json:"severityDelta"`
	ConcurrencyDelta           int     `json:"concurrencyDelta"`
	CascadeChanceDelta         float64 `json:"cascadeChanceDelta"`
	ProceduralChanceMultiplier float64 `json:"proceduralChanceMultiplier"`
	ProceduralSeverityDelta    float64 `json:"proceduralSeverityDelta"`
	RewardMultiplier           float64 `json:"rewardMultiplier"`
	PenaltyMultiplier          float64 `json:"penaltyMultiplier"`
}

// Engaged reports whether the moment changes anything.
func (b BossMoment) Engaged() bool {
	return b.Active || b.Recovery
}

func neutralBoss() BossMoment {
	return BossMoment{
		BeatIndex:                  -1,
		SpawnDelayMultiplier:       1,
		ProceduralChanceMultiplier: 1,
		RewardMultiplier:           1,
		PenaltyMultiplier:          1,
	}
}

// BossMomentFor reports whether a boss beat is live at the given progress.
// Only FINALE-phase sessions of scenarios with beats are affected.
func BossMomentFor(scenarioID string, phase game.Phase, progress float64) BossMoment {
	if phase != game.PhaseFinale {
		return neutralBoss()
	}
	beats, ok := BossBeats[scenarioID]
	if !ok {
		return neutralBoss()
	}

	for i, beat := range beats {
		distance := math.Abs(progress - beat)
		if distance <= bossWindow {
			intensity := 0.6 + 0.4*(1-distance/bossWindow)
			return BossMoment{
				Active:                     true,
				BeatIndex:                  i,
				Intensity:                  intensity,
				SpawnDelayMultiplier:       1 - 0.22*intensity,
				SeverityDelta:              0.25 * intensity,
				ConcurrencyDelta:           1,
				CascadeChanceDelta:         0.12 * intensity,
				ProceduralChanceMultiplier: 1 + 0.5*intensity,
				ProceduralSeverityDelta:    0.2 * intensity,
				RewardMultiplier:           1 + 0.25*intensity,
				PenaltyMultiplier:          1 + 0.15*intensity,
			}
		}
	}

	for i, beat := range beats {
		if progress > beat+bossWindow && progress <= beat+bossRecoveryWindow {
			return BossMoment{
				Recovery:                   true,
				BeatIndex:                  i,
				SpawnDelayMultiplier:       1.2,
				SeverityDelta:              -0.2,
				CascadeChanceDelta:         -0.1,
				ProceduralChanceMultiplier: 0.5,
				ProceduralSeverityDelta:    -0.15,
				RewardMultiplier:           1.1,
				PenaltyMultiplier:          0.8,
			}
		}
	}

	return neutralBoss()
}

// ApplyBossToProfile layers a boss moment onto a composed director profile.
func ApplyBossToProfile(p Profile, b BossMoment) Profile {
	if !b.Engaged() {
		return p
	}
	p.SpawnDelayMultiplier *= b.SpawnDelayMultiplier
	p.SeverityDelta += b.SeverityDelta
	p.ConcurrencyDelta += b.ConcurrencyDelta
	p.CascadeChance += b.CascadeChanceDelta
	return p.clamp(composedProfileBounds)
}

// ApplyBossToProcedural layers a boss moment onto the injection profile.
func ApplyBossToProcedural(p ProceduralProfile, b BossMoment) ProceduralProfile {
	if !b.Engaged() {
		return p
	}
	p.Chance *= b.ProceduralChanceMultiplier
	p.SeverityBias += b.ProceduralSeverityDelta
	return p.clamp()
}
