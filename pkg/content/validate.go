package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/modifier"
)

// Validate checks the tables for broken references. Every problem found is
// reported, joined into one error.
func (t *Tables) Validate() error {
	t.ensureIndex()

	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	scenarioIDs := make(map[string]bool)
	for _, s := range t.Scenarios {
		switch {
		case s.ID == "":
			add("scenario with empty ID found")
			continue
		case scenarioIDs[s.ID]:
			add("duplicate scenario ID: %s", s.ID)
		}
		scenarioIDs[s.ID] = true
		if s.Duration <= 0 {
			add("scenario %s has non-positive duration", s.ID)
		}
	}

	checkScenarios := func(kind, id string, allowed []string) {
		for _, sid := range allowed {
			if !scenarioIDs[sid] {
				add("%s %s allows unknown scenario: %s", kind, id, sid)
			}
		}
	}

	eventIDs := make(map[string]bool)
	for _, e := range t.Events {
		if e.ID == "" {
			add("event with empty ID found")
			continue
		}
		if eventIDs[e.ID] {
			add("duplicate event ID: %s", e.ID)
		}
		eventIDs[e.ID] = true

		if !validSystem(e.SystemID) {
			add("event %s has unknown system: %q", e.ID, e.SystemID)
		}
		if e.Priority < 1 || e.Priority > 10 {
			add("event %s priority %d outside [1, 10]", e.ID, e.Priority)
		}
		if len(e.Options) == 0 {
			add("event %s has no options", e.ID)
		}
		checkScenarios("event", e.ID, e.AllowedScenarios)
	}

	for _, e := range t.Events {
		t.validateLinks(e, add)
	}
	for _, e := range t.Events {
		if cycle := t.escalationCycle(e.ID); cycle != "" {
			add("escalation cycle starting at %s: %s", e.ID, cycle)
		}
		if cycle := t.relatedCycle(e.ID); cycle != "" {
			add("related cycle starting at %s: %s", e.ID, cycle)
		}
	}

	missionIDs := make(map[string]bool)
	for _, m := range t.Missions {
		if m.ID == "" {
			add("mission with empty ID found")
			continue
		}
		if missionIDs[m.ID] {
			add("duplicate mission ID: %s", m.ID)
		}
		missionIDs[m.ID] = true

		if len(m.Criteria) == 0 {
			add("mission %s has no criteria", m.ID)
		}
		for _, c := range m.Criteria {
			if !validSystem(c.SystemID) {
				add("mission %s has criterion on unknown system: %q", m.ID, c.SystemID)
			}
			if c.Min > c.Max {
				add("mission %s has inverted band on %s", m.ID, c.SystemID)
			}
		}
		if m.HoldDuration <= 0 || m.Timeout <= 0 {
			add("mission %s needs positive hold and timeout", m.ID)
		}
		checkScenarios("mission", m.ID, m.AllowedScenarios)
	}

	sequenceIDs := make(map[string]bool)
	for _, n := range t.Narrative {
		if n.ID == "" {
			add("narrative sequence with empty ID found")
			continue
		}
		if sequenceIDs[n.ID] {
			add("duplicate narrative sequence ID: %s", n.ID)
		}
		sequenceIDs[n.ID] = true
		if len(n.Steps) == 0 {
			add("narrative sequence %s has no steps", n.ID)
		}
		checkScenarios("narrative sequence", n.ID, n.Scenarios)
	}

	upgradeIDs := make(map[string]bool)
	for _, u := range t.Upgrades {
		if upgradeIDs[u.ID] {
			add("duplicate upgrade ID: %s", u.ID)
		}
		upgradeIDs[u.ID] = true
		for _, eff := range u.Effects {
			if !validTarget(eff.Target) {
				add("upgrade %s has unknown target: %q", u.ID, eff.Target)
			}
			if eff.Op != modifier.OpMultiply && eff.Op != modifier.OpAdd {
				add("upgrade %s has unknown op: %q", u.ID, eff.Op)
			}
		}
	}

	return errors.Join(errs...)
}

func (t *Tables) validateLinks(e EventDefinition, add func(string, ...any)) {
	if e.EscalationEvent != "" {
		switch {
		case e.EscalationEvent == e.ID:
			add("event %s escalates into itself", e.ID)
		case !t.has(e.EscalationEvent):
			add("event %s escalates into unknown event: %s", e.ID, e.EscalationEvent)
		}
		if e.EscalateAfter <= 0 {
			add("event %s names an escalation without escalate_after", e.ID)
		}
	}

	for _, rel := range e.RelatedTo {
		target, ok := t.events[rel]
		switch {
		case rel == e.ID:
			add("event %s is related to itself", e.ID)
		case !ok:
			add("event %s is related to unknown event: %s", e.ID, rel)
		case target.SystemID == e.SystemID:
			add("event %s is related to %s on the same system", e.ID, rel)
		}
	}
}

func (t *Tables) has(id string) bool {
	_, ok := t.events[id]
	return ok
}

// escalationCycle follows the escalation chain from id and returns the path
// when it loops back on itself.
func (t *Tables) escalationCycle(id string) string {
	seen := map[string]bool{}
	path := id
	current := id
	for {
		seen[current] = true
		def, ok := t.events[current]
		if !ok || def.EscalationEvent == "" || def.EscalationEvent == current {
			return ""
		}
		next := def.EscalationEvent
		path += " -> " + next
		if seen[next] {
			return path
		}
		current = next
	}
}

// relatedCycle walks related links from id and returns the first path that
// leads back to id.
func (t *Tables) relatedCycle(id string) string {
	visited := map[string]bool{}
	var walk func(current string, path []string) []string
	walk = func(current string, path []string) []string {
		def, ok := t.events[current]
		if !ok {
			return nil
		}
		for _, next := range def.RelatedTo {
			if next == current {
				continue
			}
			if next == id {
				return append(path, next)
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			if found := walk(next, append(path, next)); found != nil {
				return found
			}
		}
		return nil
	}
	if cycle := walk(id, []string{id}); cycle != nil {
		return strings.Join(cycle, " -> ")
	}
	return ""
}

func validSystem(s game.SystemType) bool {
	for _, id := range game.AllSystems {
		if id == s {
			return true
		}
	}
	return false
}

func validTarget(t modifier.Target) bool {
	switch t {
	case modifier.TargetEventTime, modifier.TargetMissionTime, modifier.TargetStress,
		modifier.TargetCost, modifier.TargetReward, modifier.TargetActiveEventStress:
		return true
	}
	return false
}
