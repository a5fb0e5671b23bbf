package builtin

import (
	"github.com/russofg/event-chaos-sub000/pkg/flow"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/session"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
)

// Signal type constants for built-in signals
const (
	TypeTick             = string(session.KindTick)
	TypeEventResolved    = string(session.KindEventResolved)
	TypeEventFailed      = string(session.KindEventFailed)
	TypeEventExpired     = string(session.KindEventExpired)
	TypeMissionCompleted = string(session.KindMissionCompleted)
	TypeMissionTimeout   = string(session.KindMissionTimeout)
	TypeSessionEnded     = string(session.KindSessionEnded)
)

// PressureSignal is the periodic view of a running session.
type PressureSignal struct {
	signal.BaseSignal
	Stats   game.GameStats
	Systems game.Systems
	Phase   game.Phase
	// Progress is the fraction of the scenario elapsed, 0 for ENDLESS.
	Progress float64
}

// NewPressureSignal creates a pressure signal from a tick snapshot.
func NewPressureSignal(o session.Outcome, context *signal.PlayerContext) *PressureSignal {
	snap := o.Snapshot
	progress := 0.0
	if snap.Mode != game.ModeEndless {
		total := snap.Elapsed + snap.Stats.TimeRemaining
		if total > 0 {
			progress = float64(snap.Elapsed) / float64(total)
		}
	}
	metadata := map[string]interface{}{
		"stress":       snap.Stats.Stress,
		"budget":       snap.Stats.Budget,
		"interest":     snap.Stats.PublicInterest,
		"satisfaction": snap.Stats.ClientSatisfaction,
		"min_health":   snap.Systems.MinHealth(),
		"phase":        string(snap.Phase),
		"progress":     progress,
	}
	return &PressureSignal{
		BaseSignal: signal.NewBaseSignal(TypeTick, o.At, metadata, context),
		Stats:      snap.Stats,
		Systems:    snap.Systems,
		Phase:      snap.Phase,
		Progress:   progress,
	}
}

// ResolutionSignal represents the player answering an incident.
type ResolutionSignal struct {
	signal.BaseSignal
	Success  bool
	SystemID game.SystemType
	Severity int
	// EventStreak is the consecutive success (or failure) count after this resolution.
	EventStreak int
	Combo       int
	BestCombo   int
}

// NewResolutionSignal creates a resolution signal from a resolved or failed outcome.
func NewResolutionSignal(o session.Outcome, context *signal.PlayerContext) *ResolutionSignal {
	report := o.Report
	sig := &ResolutionSignal{
		Success:  report.Success,
		SystemID: report.SystemID,
		Severity: report.Severity,
	}
	if snap := o.Snapshot; snap != nil {
		sig.EventStreak = snap.Streak.EventFail
		if report.Success {
			sig.EventStreak = snap.Streak.EventSuccess
		}
		sig.Combo = snap.Combo.Count
		sig.BestCombo = snap.Combo.Best
	}
	metadata := map[string]interface{}{
		"event_id":     report.EventID,
		"system_id":    string(report.SystemID),
		"severity":     report.Severity,
		"cost":         report.Cost,
		"success":      report.Success,
		"event_streak": sig.EventStreak,
		"combo":        sig.Combo,
	}
	sig.BaseSignal = signal.NewBaseSignal(string(o.Kind), o.At, metadata, context)
	return sig
}

// ExpirySignal represents an incident timing out.
type ExpirySignal struct {
	signal.BaseSignal
	SystemID game.SystemType
	Severity int
	Penalty  int
}

// NewExpirySignal creates an expiry signal.
func NewExpirySignal(o session.Outcome, context *signal.PlayerContext) *ExpirySignal {
	ev := o.Event
	metadata := map[string]interface{}{
		"event_id":  ev.DefinitionID,
		"system_id": string(ev.SystemID),
		"severity":  ev.Severity,
		"penalty":   o.Amount,
	}
	return &ExpirySignal{
		BaseSignal: signal.NewBaseSignal(TypeEventExpired, o.At, metadata, context),
		SystemID:   ev.SystemID,
		Severity:   ev.Severity,
		Penalty:    o.Amount,
	}
}

// MissionSignal represents a mission completing or timing out.
type MissionSignal struct {
	signal.BaseSignal
	MissionID string
	Completed bool
	Amount    int
	Streak    int
}

// NewMissionSignal creates a mission signal.
func NewMissionSignal(o session.Outcome, context *signal.PlayerContext) *MissionSignal {
	completed := o.Kind == session.KindMissionCompleted
	streak := 0
	if snap := o.Snapshot; snap != nil {
		streak = snap.Streak.MissionFail
		if completed {
			streak = snap.Streak.MissionSuccess
		}
	}
	metadata := map[string]interface{}{
		"mission_id": o.MissionID,
		"amount":     o.Amount,
		"streak":     streak,
	}
	return &MissionSignal{
		BaseSignal: signal.NewBaseSignal(string(o.Kind), o.At, metadata, context),
		MissionID:  o.MissionID,
		Completed:  completed,
		Amount:     o.Amount,
		Streak:     streak,
	}
}

// SessionEndSignal represents a session reaching its outcome.
type SessionEndSignal struct {
	signal.BaseSignal
	Result     game.Outcome
	Score      int
	Rewards    *flow.Rewards
	Difficulty game.Difficulty
	Mode       game.GameMode
	Telemetry  game.SessionDirectorTelemetry
	Stats      game.GameStats
}

// Victory reports whether the session was won.
func (s *SessionEndSignal) Victory() bool {
	return s.Result == game.OutcomeVictory
}

// Flawless reports whether no incident was failed or allowed to expire.
func (s *SessionEndSignal) Flawless() bool {
	return s.Telemetry.FailedEvents == 0 && s.Telemetry.ExpiredEvents == 0
}

// NewSessionEndSignal creates a session end signal.
func NewSessionEndSignal(o session.Outcome, context *signal.PlayerContext) *SessionEndSignal {
	sig := &SessionEndSignal{
		Result:  o.Result,
		Score:   o.Score,
		Rewards: o.Rewards,
	}
	if snap := o.Snapshot; snap != nil {
		sig.Difficulty = snap.Difficulty
		sig.Mode = snap.Mode
		sig.Telemetry = snap.Telemetry
		sig.Stats = snap.Stats
	}
	metadata := map[string]interface{}{
		"result":     string(o.Result),
		"score":      o.Score,
		"difficulty": string(sig.Difficulty),
		"mode":       string(sig.Mode),
	}
	sig.BaseSignal = signal.NewBaseSignal(TypeSessionEnded, o.At, metadata, context)
	return sig
}
