package service

import (
	"time"
)

const (
	// MaxNotices is how many notices a player keeps.
	MaxNotices = 50
	// DefaultTTL is how long an untouched career survives in Redis (30 days).
	DefaultTTL = 30 * 24 * time.Hour
)

// Notice is a player-facing message produced by a pipeline action.
type Notice struct {
	PlayerID  string    `json:"playerId" db:"player_id"`
	SessionID string    `json:"sessionId" db:"session_id"`
	RuleID    string    `json:"ruleId" db:"rule_id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Level     string    `json:"level" db:"level"` // "info", "warning", "narrative", "achievement"
	At        time.Time `json:"at" db:"-"`
}

// clampLimit bounds a list request to [1, MaxNotices].
func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxNotices {
		return MaxNotices
	}
	return limit
}
