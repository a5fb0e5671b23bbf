package builtin

import (
	"github.com/russofg/event-chaos-sub000/pkg/session"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
)

// TickMapper maps tick outcomes to PressureSignal.
type TickMapper struct{}

func (m *TickMapper) Kind() session.Kind {
	return session.KindTick
}

func (m *TickMapper) MapToSignal(o session.Outcome, context *signal.PlayerContext) signal.Signal {
	if o.Snapshot == nil {
		return nil
	}
	return NewPressureSignal(o, context)
}

// ResolutionMapper maps resolved or failed outcomes to ResolutionSignal.
type ResolutionMapper struct {
	kind session.Kind
}

func (m *ResolutionMapper) Kind() session.Kind {
	return m.kind
}

func (m *ResolutionMapper) MapToSignal(o session.Outcome, context *signal.PlayerContext) signal.Signal {
	if o.Report == nil {
		return nil
	}
	return NewResolutionSignal(o, context)
}

// ExpiryMapper maps expired outcomes to ExpirySignal.
type ExpiryMapper struct{}

func (m *ExpiryMapper) Kind() session.Kind {
	return session.KindEventExpired
}

func (m *ExpiryMapper) MapToSignal(o session.Outcome, context *signal.PlayerContext) signal.Signal {
	if o.Event == nil {
		return nil
	}
	return NewExpirySignal(o, context)
}

// MissionMapper maps mission completion or timeout to MissionSignal.
type MissionMapper struct {
	kind session.Kind
}

func (m *MissionMapper) Kind() session.Kind {
	return m.kind
}

func (m *MissionMapper) MapToSignal(o session.Outcome, context *signal.PlayerContext) signal.Signal {
	return NewMissionSignal(o, context)
}

// SessionEndMapper maps session_ended outcomes to SessionEndSignal.
type SessionEndMapper struct{}

func (m *SessionEndMapper) Kind() session.Kind {
	return session.KindSessionEnded
}

func (m *SessionEndMapper) MapToSignal(o session.Outcome, context *signal.PlayerContext) signal.Signal {
	return NewSessionEndSignal(o, context)
}

// RegisterBuiltinMappers registers all built-in signal mappers with the registry.
func RegisterBuiltinMappers(registry *signal.MapperRegistry) {
	registry.Register(&TickMapper{})
	registry.Register(&ResolutionMapper{kind: session.KindEventResolved})
	registry.Register(&ResolutionMapper{kind: session.KindEventFailed})
	registry.Register(&ExpiryMapper{})
	registry.Register(&MissionMapper{kind: session.KindMissionCompleted})
	registry.Register(&MissionMapper{kind: session.KindMissionTimeout})
	registry.Register(&SessionEndMapper{})
}
