package game

import "time"

// RecentOutcomeWindow caps SessionDirectorTelemetry.RecentOutcomes.
const RecentOutcomeWindow = 8

// SessionDirectorTelemetry accumulates outcome counters for the adaptive director.
type SessionDirectorTelemetry struct {
	ResolvedEvents int     `json:"resolvedEvents"`
	FailedEvents   int     `json:"failedEvents"`
	ExpiredEvents  int     `json:"expiredEvents"`
	TotalSpend     float64 `json:"totalSpend"`
	RecentOutcomes []bool  `json:"recentOutcomes"`
}

// Attempts is the number of events that reached a terminal state.
func (t SessionDirectorTelemetry) Attempts() int {
	return t.ResolvedEvents + t.FailedEvents + t.ExpiredEvents
}

// Failures counts failed and expired events.
func (t SessionDirectorTelemetry) Failures() int {
	return t.FailedEvents + t.ExpiredEvents
}

// RecordResolution returns telemetry updated with a player resolution.
func (t SessionDirectorTelemetry) RecordResolution(success bool, spend float64) SessionDirectorTelemetry {
	if success {
		t.ResolvedEvents++
	} else {
		t.FailedEvents++
	}
	t.TotalSpend += spend
	return t.pushOutcome(success)
}

// RecordExpired returns telemetry updated with n expired events.
func (t SessionDirectorTelemetry) RecordExpired(n int) SessionDirectorTelemetry {
	for i := 0; i < n; i++ {
		t.ExpiredEvents++
		t = t.pushOutcome(false)
	}
	return t
}

func (t SessionDirectorTelemetry) pushOutcome(success bool) SessionDirectorTelemetry {
	recent := make([]bool, 0, RecentOutcomeWindow)
	recent = append(recent, t.RecentOutcomes...)
	recent = append(recent, success)
	if len(recent) > RecentOutcomeWindow {
		recent = recent[len(recent)-RecentOutcomeWindow:]
	}
	t.RecentOutcomes = recent
	return t
}

// WinConditions are checked when the timer reaches zero.
type WinConditions struct {
	MinPublicInterest     float64 `json:"minPublicInterest" yaml:"min_public_interest"`
	MinClientSatisfaction float64 `json:"minClientSatisfaction" yaml:"min_client_satisfaction"`
	MaxStress             float64 `json:"maxStress" yaml:"max_stress"`
}

// DefaultWinConditions applies when a scenario declares none.
var DefaultWinConditions = WinConditions{
	MinPublicInterest:     60,
	MinClientSatisfaction: 60,
	MaxStress:             90,
}

// Scenario is a playable event configuration.
type Scenario struct {
	ID            string        `json:"id" yaml:"id"`
	Title         string        `json:"title" yaml:"title"`
	Description   string        `json:"description" yaml:"description"`
	Duration      time.Duration `json:"duration" yaml:"duration"`
	InitialBudget float64       `json:"initialBudget" yaml:"initial_budget"`
	MinBudget     float64       `json:"minBudget" yaml:"min_budget"`
	BaseReward    float64       `json:"baseReward" yaml:"base_reward"`
	Tutorial      bool          `json:"tutorial" yaml:"tutorial"`
	Win           WinConditions `json:"win" yaml:"win"`
}

// WinConditionsOrDefault returns the scenario's conditions, or the defaults
// when none are declared.
func (s Scenario) WinConditionsOrDefault() WinConditions {
	if s.Win == (WinConditions{}) {
		return DefaultWinConditions
	}
	return s.Win
}
