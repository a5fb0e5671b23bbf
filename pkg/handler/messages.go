package handler

import (
	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/incident"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/service"
	"github.com/russofg/event-chaos-sub000/pkg/session"
)

type StartSessionRequest struct {
	PlayerID   string          `json:"playerId"`
	ScenarioID string          `json:"scenarioId"`
	Difficulty game.Difficulty `json:"difficulty"`
	Mode       game.GameMode   `json:"mode,omitempty"`
	Crew       game.CrewBonus  `json:"crew,omitempty"`
	// Seed makes the run reproducible. Zero picks a random seed.
	Seed uint64 `json:"seed,omitempty"`
}

type SessionRequest struct {
	SessionID string `json:"sessionId"`
}

type MoveFaderRequest struct {
	SessionID string          `json:"sessionId"`
	System    game.SystemType `json:"system"`
	Value     float64         `json:"value"`
}

type ResolveEventRequest struct {
	SessionID string `json:"sessionId"`
	EventID   string `json:"eventId"`
	OptionID  string `json:"optionId"`
	// Minigame overrides the option's correctness when set.
	Minigame *bool `json:"minigame,omitempty"`
}

type SnapshotResponse struct {
	Snapshot session.Snapshot `json:"snapshot"`
}

type ResolveEventResponse struct {
	Report   incident.Report  `json:"report"`
	Snapshot session.Snapshot `json:"snapshot"`
}

type PlayerRequest struct {
	PlayerID string `json:"playerId"`
}

type PurchaseUpgradeRequest struct {
	PlayerID  string `json:"playerId"`
	UpgradeID string `json:"upgradeId"`
}

type CareerResponse struct {
	Career career.Data `json:"career"`
}

type ListNoticesRequest struct {
	PlayerID string `json:"playerId"`
	Limit    int    `json:"limit,omitempty"`
}

type ListNoticesResponse struct {
	Notices []service.Notice `json:"notices"`
}

type GetLeaderboardRequest struct {
	ScenarioID string `json:"scenarioId"`
	Limit      int    `json:"limit,omitempty"`
}

type GetLeaderboardResponse struct {
	Entries []rule.LeaderboardEntry `json:"entries"`
}

type Empty struct{}
