package director

import (
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/game"
)

// Profile tunes spawn pacing, severity and cascades for the current moment.
type Profile struct {
	SpawnDelayMultiplier     float64       `json:"spawnDelayMultiplier"`
	MissionRespawnMultiplier float64       `json:"missionRespawnMultiplier"`
	SeverityDelta            float64       `json:"severityDelta"`
	ConcurrencyDelta         int           `json:"concurrencyDelta"`
	CascadeChance            float64       `json:"cascadeChance"`
	CascadeCooldown          time.Duration `json:"cascadeCooldown"`
}

// profileDelta is one layer of the profile stack: multipliers for the two
// pacing fields, additive terms for the rest.
type profileDelta struct {
	spawn, mission float64
	severity       float64
	concurrency    int
	cascade        float64
	cooldown       time.Duration
}

var identityDelta = profileDelta{spawn: 1, mission: 1}

var phaseBase = map[game.Phase]Profile{
	game.PhaseOpening: {1.12, 1.10, -0.12, 0, 0.10, 26 * time.Second},
	game.PhaseMidgame: {1.00, 1.00, 0, 0, 0.18, 20 * time.Second},
	game.PhaseFinale:  {0.86, 0.90, 0.14, 1, 0.28, 15 * time.Second},
}

var difficultyDelta = map[game.Difficulty]profileDelta{
	game.DifficultyEasy: {1.08, 1.06, -0.08, 0, -0.05, 4 * time.Second},
	game.DifficultyHard: {0.92, 0.94, 0.10, 0, 0.06, -3 * time.Second},
}

var modeDelta = map[game.GameMode]profileDelta{
	game.ModeHardcore: {0.94, 0.96, 0.08, 0, 0.05, -2 * time.Second},
	game.ModeEndless:  {1.02, 1.00, 0, 0, 0, 0},
	game.ModeSpeedrun: {0.90, 0.92, 0.04, 0, 0.03, -2500 * time.Millisecond},
}

// TutorialProfile is the fixed, gentle profile used by tutorials.
var TutorialProfile = Profile{
	SpawnDelayMultiplier:     1.25,
	MissionRespawnMultiplier: 1.20,
	SeverityDelta:            -0.30,
	ConcurrencyDelta:         0,
	CascadeChance:            0,
	CascadeCooldown:          36 * time.Second,
}

func stressDelta(stress float64) profileDelta {
	switch {
	case stress >= 80:
		return profileDelta{1.12, 1.05, -0.12, -1, -0.08, 6 * time.Second}
	case stress >= 60:
		return profileDelta{1.05, 1.00, -0.05, 0, -0.03, 2500 * time.Millisecond}
	case stress <= 25:
		return profileDelta{0.94, 0.96, 0.06, 0, 0.03, -1500 * time.Millisecond}
	default:
		return identityDelta
	}
}

func lookupDelta[K comparable](table map[K]profileDelta, key K) profileDelta {
	if d, ok := table[key]; ok {
		return d
	}
	return identityDelta
}

func (p Profile) with(d profileDelta) Profile {
	p.SpawnDelayMultiplier *= d.spawn
	p.MissionRespawnMultiplier *= d.mission
	p.SeverityDelta += d.severity
	p.ConcurrencyDelta += d.concurrency
	p.CascadeChance += d.cascade
	p.CascadeCooldown += d.cooldown
	return p
}

// profileBounds bounds every field of a Profile.
type profileBounds struct {
	spawnLo, spawnHi       float64
	missionLo, missionHi   float64
	severityLo, severityHi float64
	concLo, concHi         int
	cascadeLo, cascadeHi   float64
	cooldownLo, cooldownHi time.Duration
}

var phaseProfileBounds = profileBounds{
	0.62, 1.28,
	0.70, 1.30,
	-0.35, 0.45,
	-1, 2,
	0.04, 0.62,
	9 * time.Second, 36 * time.Second,
}

var composedProfileBounds = profileBounds{
	0.58, 1.34,
	0.66, 1.36,
	-0.45, 0.55,
	-1, 2,
	0.04, 0.78,
	8 * time.Second, 40 * time.Second,
}

func (p Profile) clamp(b profileBounds) Profile {
	p.SpawnDelayMultiplier = common.Clamp(p.SpawnDelayMultiplier, b.spawnLo, b.spawnHi)
	p.MissionRespawnMultiplier = common.Clamp(p.MissionRespawnMultiplier, b.missionLo, b.missionHi)
	p.SeverityDelta = common.Clamp(p.SeverityDelta, b.severityLo, b.severityHi)
	p.ConcurrencyDelta = common.ClampInt(p.ConcurrencyDelta, b.concLo, b.concHi)
	p.CascadeChance = common.Clamp(p.CascadeChance, b.cascadeLo, b.cascadeHi)
	p.CascadeCooldown = clampDuration(p.CascadeCooldown, b.cooldownLo, b.cooldownHi)
	return p
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}

// PhaseProfile layers phase, difficulty, mode and stress band into a clamped
// director profile. Tutorials always get TutorialProfile.
func PhaseProfile(difficulty game.Difficulty, mode game.GameMode, phase game.Phase, stress float64) Profile {
	if difficulty == game.DifficultyTutorial {
		return TutorialProfile
	}

	base, ok := phaseBase[phase]
	if !ok {
		base = phaseBase[game.PhaseMidgame]
	}

	return base.
		with(lookupDelta(difficultyDelta, difficulty)).
		with(lookupDelta(modeDelta, mode)).
		with(stressDelta(stress)).
		clamp(phaseProfileBounds)
}
