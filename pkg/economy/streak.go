package economy

import "time"

// StreakState tracks consecutive outcomes for events and missions.
type StreakState struct {
	EventSuccess   int `json:"eventSuccess"`
	EventFail      int `json:"eventFail"`
	MissionSuccess int `json:"missionSuccess"`
	MissionFail    int `json:"missionFail"`
}

// RecordEvent returns the streaks after an event outcome.
func (s StreakState) RecordEvent(success bool) StreakState {
	if success {
		s.EventSuccess++
		s.EventFail = 0
	} else {
		s.EventFail++
		s.EventSuccess = 0
	}
	return s
}

// RecordMission returns the streaks after a mission outcome.
func (s StreakState) RecordMission(success bool) StreakState {
	if success {
		s.MissionSuccess++
		s.MissionFail = 0
	} else {
		s.MissionFail++
		s.MissionSuccess = 0
	}
	return s
}

// ComboWindow is how long a combo survives without a new success.
const ComboWindow = 10 * time.Second

// ComboState tracks rapid consecutive resolutions.
type ComboState struct {
	Count         int       `json:"count"`
	Best          int       `json:"best"`
	LastSuccessAt time.Time `json:"lastSuccessAt"`
}

// Register returns the combo after a successful resolution at now.
func (c ComboState) Register(now time.Time) ComboState {
	if c.Count > 0 && now.Sub(c.LastSuccessAt) <= ComboWindow {
		c.Count++
	} else {
		c.Count = 1
	}
	c.LastSuccessAt = now
	if c.Count > c.Best {
		c.Best = c.Count
	}
	return c
}

// Break resets the running combo, keeping the best.
func (c ComboState) Break() ComboState {
	c.Count = 0
	return c
}

// Expire drops the combo once the window has passed.
func (c ComboState) Expire(now time.Time) ComboState {
	if c.Count > 0 && now.Sub(c.LastSuccessAt) > ComboWindow {
		c.Count = 0
	}
	return c
}

// Multiplier is the reward bonus for the running combo, capped at 1.5.
func (c ComboState) Multiplier() float64 {
	if c.Count <= 1 {
		return 1
	}
	steps := c.Count - 1
	if steps > 5 {
		steps = 5
	}
	return 1 + 0.1*float64(steps)
}
