package signal

import "github.com/russofg/event-chaos-sub000/pkg/session"

// OutcomeSignal is the generic signal for outcome kinds that have no
// dedicated mapper. Its type is the outcome kind.
type OutcomeSignal struct {
	BaseSignal
	Outcome session.Outcome
}

// NewOutcomeSignal wraps o in a generic signal.
func NewOutcomeSignal(o session.Outcome, context *PlayerContext) *OutcomeSignal {
	metadata := map[string]interface{}{
		"kind": string(o.Kind),
	}
	if o.MissionID != "" {
		metadata["mission_id"] = o.MissionID
	}
	if o.Amount != 0 {
		metadata["amount"] = o.Amount
	}
	if o.Event != nil {
		metadata["event_id"] = o.Event.DefinitionID
		metadata["system_id"] = string(o.Event.SystemID)
	}
	return &OutcomeSignal{
		BaseSignal: NewBaseSignal(string(o.Kind), o.At, metadata, context),
		Outcome:    o,
	}
}
