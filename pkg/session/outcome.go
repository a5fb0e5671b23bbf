package session

import (
	"sync/atomic"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/director"
	"github.com/russofg/event-chaos-sub000/pkg/economy"
	"github.com/russofg/event-chaos-sub000/pkg/flow"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/incident"
	"github.com/russofg/event-chaos-sub000/pkg/narrative"
)

// Kind names what an Outcome reports.
type Kind string

const (
	KindTick             Kind = "tick"
	KindEventSpawned     Kind = "event_spawned"
	KindEventEscalated   Kind = "event_escalated"
	KindEventCascaded    Kind = "event_cascaded"
	KindEventResolved    Kind = "event_resolved"
	KindEventFailed      Kind = "event_failed"
	KindEventExpired     Kind = "event_expired"
	KindMissionStarted   Kind = "mission_started"
	KindMissionCompleted Kind = "mission_completed"
	KindMissionTimeout   Kind = "mission_timeout"
	KindNarrativeBeat    Kind = "narrative_beat"
	KindSessionEnded     Kind = "session_ended"
)

// Outcome is one observable thing that happened in a session.
type Outcome struct {
	Kind       Kind      `json:"kind"`
	At         time.Time `json:"at"`
	SessionID  string    `json:"sessionId"`
	PlayerID   string    `json:"playerId"`
	ScenarioID string    `json:"scenarioId"`

	Event     *game.GameEvent  `json:"event,omitempty"`
	Report    *incident.Report `json:"report,omitempty"`
	MissionID string           `json:"missionId,omitempty"`
	Amount    int              `json:"amount,omitempty"`
	Beat      *narrative.Beat  `json:"beat,omitempty"`
	Result    game.Outcome     `json:"result,omitempty"`
	Score     int              `json:"score,omitempty"`
	Rewards   *flow.Rewards    `json:"rewards,omitempty"`
	Snapshot  *Snapshot        `json:"snapshot,omitempty"`
}

// Snapshot is a copy of session state safe to hand to other goroutines.
type Snapshot struct {
	SessionID  string                        `json:"sessionId"`
	PlayerID   string                        `json:"playerId"`
	ScenarioID string                        `json:"scenarioId"`
	Difficulty game.Difficulty               `json:"difficulty"`
	Mode       game.GameMode                 `json:"mode"`
	Crew       game.CrewBonus                `json:"crew"`
	Phase      game.Phase                    `json:"phase"`
	Stats      game.GameStats                `json:"stats"`
	Systems    game.Systems                  `json:"systems"`
	Active     []game.GameEvent              `json:"active"`
	Mission    *game.ActiveMission           `json:"mission,omitempty"`
	Telemetry  game.SessionDirectorTelemetry `json:"telemetry"`
	Streak     economy.StreakState           `json:"streak"`
	Combo      economy.ComboState            `json:"combo"`
	Bias       float64                       `json:"bias"`
	Profile    director.Profile              `json:"profile"`
	Boss       director.BossMoment           `json:"boss"`
	Outcome    game.Outcome                  `json:"outcome,omitempty"`
	Score      int                           `json:"score,omitempty"`
	Elapsed    time.Duration                 `json:"elapsed"`
	Now        time.Time                     `json:"now"`
}

// Sink receives outcomes. Publish must not block the tick loop.
type Sink interface {
	Publish(o Outcome)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Outcome)

// Publish calls f.
func (f SinkFunc) Publish(o Outcome) { f(o) }

// ChannelSink buffers outcomes on a channel and drops them when it is full.
type ChannelSink struct {
	ch      chan Outcome
	dropped atomic.Int64
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(size int) *ChannelSink {
	return &ChannelSink{ch: make(chan Outcome, size)}
}

// Publish enqueues o without blocking.
func (s *ChannelSink) Publish(o Outcome) {
	select {
	case s.ch <- o:
	default:
		s.dropped.Add(1)
	}
}

// C is the channel consumers read from.
func (s *ChannelSink) C() <-chan Outcome {
	return s.ch
}

// Dropped is the number of outcomes lost to a full buffer.
func (s *ChannelSink) Dropped() int64 {
	return s.dropped.Load()
}

// Close closes the channel. Publish must not be called afterwards.
func (s *ChannelSink) Close() {
	close(s.ch)
}

// Fanout publishes each outcome to every sink in order.
type Fanout []Sink

// Publish implements Sink.
func (f Fanout) Publish(o Outcome) {
	for _, s := range f {
		if s != nil {
			s.Publish(o)
		}
	}
}

type discard struct{}

func (discard) Publish(Outcome) {}
