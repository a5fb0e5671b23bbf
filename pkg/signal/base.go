package signal

import "time"

// BaseSignal carries the fields every signal shares. Builtin signals embed it.
type BaseSignal struct {
	signalType string
	playerID   string
	sessionID  string
	timestamp  time.Time
	metadata   map[string]interface{}
	context    *PlayerContext
}

// NewBaseSignal creates a base signal. A nil metadata map is replaced with an
// empty one.
func NewBaseSignal(signalType string, timestamp time.Time, metadata map[string]interface{}, context *PlayerContext) BaseSignal {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	b := BaseSignal{
		signalType: signalType,
		timestamp:  timestamp,
		metadata:   metadata,
		context:    context,
	}
	if context != nil {
		b.playerID = context.PlayerID
		b.sessionID = context.SessionID
	}
	return b
}

// Type implements Signal interface.
func (s BaseSignal) Type() string {
	return s.signalType
}

// PlayerID implements Signal interface.
func (s BaseSignal) PlayerID() string {
	return s.playerID
}

// SessionID implements Signal interface.
func (s BaseSignal) SessionID() string {
	return s.sessionID
}

// Timestamp implements Signal interface.
func (s BaseSignal) Timestamp() time.Time {
	return s.timestamp
}

// Metadata implements Signal interface.
func (s BaseSignal) Metadata() map[string]interface{} {
	return s.metadata
}

// Context implements Signal interface.
func (s BaseSignal) Context() *PlayerContext {
	return s.context
}
