package incident

import (
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/content"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/modifier"
	"github.com/russofg/event-chaos-sub000/pkg/random"
)

func priorityWeight(priority int) int {
	switch {
	case priority >= 8:
		return 1
	case priority <= 3:
		return -1
	}
	return 0
}

// CreateRelatedCascade builds an incident on target's system caused by source.
func CreateRelatedCascade(source game.GameEvent, target content.EventDefinition, now time.Time, bonus int, eventTime float64) game.GameEvent {
	severity := common.ClampInt(source.Severity+priorityWeight(target.Priority)+bonus, 1, 3)
	lifetime := scale(time.Duration(0.85*float64(SeverityDuration(severity))), eventTime)

	ev := Instantiate(target, severity, now, lifetime)
	ev.RelatedEvents = []string{source.ID}
	return ev
}

// LinkRelated returns a copy of source with id appended to its related list.
func LinkRelated(source game.GameEvent, id string) game.GameEvent {
	source.RelatedEvents = append(append([]string(nil), source.RelatedEvents...), id)
	return source
}

// CascadeInput is the snapshot PickCascade draws from. Sources are the
// incidents that escalated or expired this tick.
type CascadeInput struct {
	Now             time.Time
	Sources         []game.GameEvent
	Active          []game.GameEvent
	Cooldowns       Cooldowns
	CooldownUntil   time.Time
	Cap             int
	Chance          float64
	CascadeCooldown time.Duration
	SeverityBonus   int
	Permanent       modifier.Permanent
	Tables          *content.Tables
}

// Cascade is a picked cross-system failure.
type Cascade struct {
	Event         game.GameEvent
	SourceID      string
	CooldownUntil time.Time
}

type cascadeCandidate struct {
	source game.GameEvent
	target content.EventDefinition
}

// PickCascade rolls for at most one cascade. It is blocked by the global
// cascade cooldown, by a full concurrency cap or by a failed chance roll.
func PickCascade(in CascadeInput, src random.Source) (Cascade, bool) {
	if len(in.Sources) == 0 || in.Tables == nil {
		return Cascade{}, false
	}
	if in.Now.Before(in.CooldownUntil) || len(in.Active) >= in.Cap {
		return Cascade{}, false
	}
	if src.Float64() >= in.Chance {
		return Cascade{}, false
	}

	active := activeDefinitions(in.Active)
	seen := map[string]bool{}
	var candidates []cascadeCandidate
	var weights []float64
	for _, source := range in.Sources {
		def, ok := in.Tables.Event(source.DefinitionID)
		if !ok {
			continue
		}
		for _, rel := range def.RelatedTo {
			target, ok := in.Tables.Event(rel)
			if !ok || seen[target.ID] || target.SystemID == source.SystemID {
				continue
			}
			if active[target.ID] || in.Cooldowns.Active(target.ID, in.Now) {
				continue
			}
			seen[target.ID] = true
			candidates = append(candidates, cascadeCandidate{source: source, target: target})
			weights = append(weights, float64(max(target.Priority, 1)))
		}
	}

	idx := random.WeightedIndex(src, weights)
	if idx < 0 {
		return Cascade{}, false
	}
	pick := candidates[idx]

	return Cascade{
		Event:         CreateRelatedCascade(pick.source, pick.target, in.Now, in.SeverityBonus, in.Permanent.EventTime),
		SourceID:      pick.source.ID,
		CooldownUntil: in.Now.Add(in.CascadeCooldown),
	}, true
}
