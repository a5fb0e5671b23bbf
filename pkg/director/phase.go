// Package director shapes session pacing: match phase, per-phase director
// profiles, the adaptive difficulty loop, fatigue, procedural injection and
// scripted boss moments. Every function here is pure.
package director

import (
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/game"
)

const (
	openingProgressLimit = 0.34
	midgameProgressLimit = 0.78

	endlessFinaleStress  = 75
	endlessMidgameStress = 45
)

// ProgressRatio is the elapsed share of a timed session, in [0, 1].
func ProgressRatio(timeRemaining, totalDuration time.Duration) float64 {
	if totalDuration <= 0 {
		return 0
	}
	elapsed := float64(totalDuration-timeRemaining) / float64(totalDuration)
	return common.Clamp01(elapsed)
}

// MatchPhase classifies the session into OPENING, MIDGAME or FINALE.
// Timed modes use elapsed progress; ENDLESS has no clock and uses stress.
func MatchPhase(mode game.GameMode, timeRemaining, totalDuration time.Duration, stress float64) game.Phase {
	if mode == game.ModeEndless {
		switch {
		case stress >= endlessFinaleStress:
			return game.PhaseFinale
		case stress >= endlessMidgameStress:
			return game.PhaseMidgame
		default:
			return game.PhaseOpening
		}
	}

	progress := ProgressRatio(timeRemaining, totalDuration)
	switch {
	case progress < openingProgressLimit:
		return game.PhaseOpening
	case progress < midgameProgressLimit:
		return game.PhaseMidgame
	default:
		return game.PhaseFinale
	}
}
