package signal

import (
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/session"
)

// Signal represents a normalized gameplay outcome with player context.
// Signals are produced by the Processor from session outcomes and
// are consumed by the Rule Engine for evaluation.
type Signal interface {
	// Type returns the signal type identifier (e.g., "tick", "event_resolved").
	Type() string

	// PlayerID returns the player identifier.
	PlayerID() string

	// SessionID returns the session the outcome came from.
	SessionID() string

	// Timestamp returns when the outcome occurred on the session clock.
	Timestamp() time.Time

	// Metadata returns additional signal-specific data.
	// This allows rules to access signal-specific information without type assertions.
	Metadata() map[string]interface{}

	// Context returns enriched player context (career, session snapshot).
	Context() *PlayerContext
}

// PlayerContext wraps the session snapshot and persisted career of a player.
// This provides rules with all the context they need to make decisions.
type PlayerContext struct {
	PlayerID   string
	SessionID  string
	ScenarioID string
	// Career is the persisted career at the time the signal was built.
	// It is nil when no career store is configured.
	Career *career.Data
	// Snapshot is the session state attached to the outcome, if any.
	Snapshot    *session.Snapshot
	SessionInfo map[string]interface{}
}

// HasAchievement reports whether the persisted career already holds id.
func (c *PlayerContext) HasAchievement(id string) bool {
	return c != nil && c.Career != nil && c.Career.HasAchievement(id)
}
