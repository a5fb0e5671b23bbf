package mission

import (
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/modifier"
)

// Activate starts a mission at now. The timeout is stretched by the career
// mission-time modifier.
func Activate(def game.MissionDefinition, now time.Time, perm modifier.Permanent) game.ActiveMission {
	factor := perm.MissionTime
	if factor <= 0 {
		factor = 1
	}
	return game.ActiveMission{
		MissionDefinition: def,
		StartTime:         now,
		ExpiresAt:         now.Add(time.Duration(float64(def.Timeout) * factor)),
	}
}

// CriteriaHold reports whether every criterion is satisfied by the faders.
func CriteriaHold(m game.MissionDefinition, systems game.Systems) bool {
	for _, c := range m.Criteria {
		sys, ok := systems[c.SystemID]
		if !ok || !c.Holds(sys.FaderValue) {
			return false
		}
	}
	return true
}

// Advance accrues hold time while every criterion holds and marks the
// mission complete once HoldDuration is reached.
func Advance(m game.ActiveMission, systems game.Systems, dt time.Duration) game.ActiveMission {
	if m.IsCompleted || dt <= 0 {
		return m
	}
	if CriteriaHold(m.MissionDefinition, systems) {
		m.Progress += dt
		if m.Progress >= m.HoldDuration {
			m.Progress = m.HoldDuration
			m.IsCompleted = true
		}
	}
	return m
}

// TimedOut reports whether an unfinished mission ran out of time.
func TimedOut(m game.ActiveMission, now time.Time) bool {
	return !m.IsCompleted && !now.Before(m.ExpiresAt)
}
