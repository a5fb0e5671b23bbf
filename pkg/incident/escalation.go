package incident

import (
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/content"
	"github.com/russofg/event-chaos-sub000/pkg/game"
)

// ShouldEscalate reports whether an incident is due to escalate. Incidents
// that are themselves escalations never escalate again.
func ShouldEscalate(ev game.GameEvent, now time.Time) bool {
	return ev.CanEscalate && ev.EscalatedFrom == "" && !now.Before(ev.EscalationTime)
}

// CreateEscalated builds the successor of source. It returns nil when the
// source definition, its escalation id or the target definition is missing;
// the source then simply keeps running.
func CreateEscalated(source game.GameEvent, now time.Time, tables *content.Tables) *game.GameEvent {
	if tables == nil {
		return nil
	}
	def, ok := tables.Event(source.DefinitionID)
	if !ok || def.EscalationEvent == "" {
		return nil
	}
	target, ok := tables.Event(def.EscalationEvent)
	if !ok {
		return nil
	}

	severity := min(3, source.Severity+1)
	related := append(append([]string(nil), source.RelatedEvents...), source.ID)

	return &game.GameEvent{
		ID:            newID(),
		DefinitionID:  target.ID,
		SystemID:      target.SystemID,
		Title:         target.Title,
		Description:   target.Description,
		Severity:      severity,
		CreatedAt:     now,
		ExpiresAt:     source.ExpiresAt,
		Options:       append([]game.EventOption(nil), target.Options...),
		Priority:      common.ClampInt(target.Priority+severity-1, 1, 10),
		EscalatedFrom: source.ID,
		RelatedEvents: related,
	}
}

// EscalationResult is the outcome of one escalation pass.
type EscalationResult struct {
	Active   []game.GameEvent
	Replaced []game.GameEvent
	Spawned  []game.GameEvent
}

// Escalate replaces every due incident with its successor. Incidents whose
// successor cannot be built stay active unchanged.
func Escalate(active []game.GameEvent, now time.Time, tables *content.Tables) EscalationResult {
	res := EscalationResult{Active: make([]game.GameEvent, 0, len(active))}
	for _, ev := range active {
		if !ShouldEscalate(ev, now) {
			res.Active = append(res.Active, ev)
			continue
		}
		next := CreateEscalated(ev, now, tables)
		if next == nil {
			res.Active = append(res.Active, ev)
			continue
		}
		res.Active = append(res.Active, *next)
		res.Replaced = append(res.Replaced, ev)
		res.Spawned = append(res.Spawned, *next)
	}
	return res
}
