package game

import "time"

// EventOption is one way the player can respond to an incident.
type EventOption struct {
	ID           string  `json:"id" yaml:"id"`
	Label        string  `json:"label" yaml:"label"`
	Cost         float64 `json:"cost" yaml:"cost"`
	StressImpact float64 `json:"stressImpact" yaml:"stress_impact"`
	IsCorrect    bool    `json:"isCorrect" yaml:"correct"`
	Minigame     string  `json:"minigame,omitempty" yaml:"minigame,omitempty"`
}

// GameEvent is a live incident on one system.
type GameEvent struct {
	ID             string        `json:"id"`
	DefinitionID   string        `json:"definitionId"`
	SystemID       SystemType    `json:"systemId"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Severity       int           `json:"severity"`
	CreatedAt      time.Time     `json:"createdAt"`
	ExpiresAt      time.Time     `json:"expiresAt"`
	Options        []EventOption `json:"options"`
	Priority       int           `json:"priority"`
	CanEscalate    bool          `json:"canEscalate"`
	EscalationTime time.Time     `json:"escalationTime,omitempty"`
	EscalatedFrom  string        `json:"escalatedFrom,omitempty"`
	RelatedEvents  []string      `json:"relatedEvents,omitempty"`
	Generated      bool          `json:"generated,omitempty"`
}

// Option returns the option with the given id.
func (e *GameEvent) Option(id string) (*EventOption, bool) {
	for i := range e.Options {
		if e.Options[i].ID == id {
			return &e.Options[i], true
		}
	}
	return nil, false
}

// Remaining returns the time left before expiry, never negative.
func (e *GameEvent) Remaining(now time.Time) time.Duration {
	d := e.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Expired reports whether the event timed out at now.
func (e *GameEvent) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// MissionCriterion requires a system fader to sit inside [Min, Max].
type MissionCriterion struct {
	SystemID SystemType `json:"systemId" yaml:"system"`
	Min      float64    `json:"min" yaml:"min"`
	Max      float64    `json:"max" yaml:"max"`
}

// Holds reports whether the fader value satisfies the criterion.
func (c MissionCriterion) Holds(value float64) bool {
	return value >= c.Min && value <= c.Max
}

// MissionDefinition is a static mission template.
type MissionDefinition struct {
	ID               string             `json:"id" yaml:"id"`
	Title            string             `json:"title" yaml:"title"`
	Description      string             `json:"description" yaml:"description"`
	Criteria         []MissionCriterion `json:"criteria" yaml:"criteria"`
	HoldDuration     time.Duration      `json:"holdDuration" yaml:"hold"`
	Timeout          time.Duration      `json:"timeout" yaml:"timeout"`
	RewardCash       float64            `json:"rewardCash" yaml:"reward"`
	AllowedScenarios []string           `json:"allowedScenarios,omitempty" yaml:"allowed_scenarios,omitempty"`
}

// AllowedIn reports whether the mission may run in the scenario.
// An empty allowlist permits every scenario.
func (m MissionDefinition) AllowedIn(scenarioID string) bool {
	return allowed(m.AllowedScenarios, scenarioID)
}

// ActiveMission is a mission the player is currently working on.
type ActiveMission struct {
	MissionDefinition
	StartTime   time.Time     `json:"startTime"`
	ExpiresAt   time.Time     `json:"expiresAt"`
	Progress    time.Duration `json:"progress"`
	IsCompleted bool          `json:"isCompleted"`
}

func allowed(list []string, id string) bool {
	if len(list) == 0 {
		return true
	}
	for _, s := range list {
		if s == id {
			return true
		}
	}
	return false
}
