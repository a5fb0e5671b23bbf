// Package content holds the static gameplay tables: scenarios, incident
// definitions per system, client missions, narrative sequences and the
// upgrade catalog.
package content

import (
	"slices"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/modifier"
	"github.com/russofg/event-chaos-sub000/pkg/narrative"
)

// EventDefinition describes an incident that can strike one system.
type EventDefinition struct {
	ID               string             `json:"id" yaml:"id"`
	SystemID         game.SystemType    `json:"systemId" yaml:"system"`
	Title            string             `json:"title" yaml:"title"`
	Description      string             `json:"description" yaml:"description"`
	Priority         int                `json:"priority" yaml:"priority"`
	Options          []game.EventOption `json:"options" yaml:"options"`
	EscalationEvent  string             `json:"escalationEvent,omitempty" yaml:"escalation_event,omitempty"`
	EscalateAfter    time.Duration      `json:"escalateAfter,omitempty" yaml:"escalate_after,omitempty"`
	RelatedTo        []string           `json:"relatedTo,omitempty" yaml:"related_to,omitempty"`
	AllowedScenarios []string           `json:"allowedScenarios,omitempty" yaml:"allowed_scenarios,omitempty"`
}

// CanEscalate reports whether the definition names an escalation target.
func (d EventDefinition) CanEscalate() bool {
	return d.EscalationEvent != "" && d.EscalateAfter > 0
}

// AllowedIn reports whether the definition may spawn in the scenario.
func (d EventDefinition) AllowedIn(scenarioID string) bool {
	return len(d.AllowedScenarios) == 0 || slices.Contains(d.AllowedScenarios, scenarioID)
}

// Names reports whether the definition explicitly lists the scenario.
func (d EventDefinition) Names(scenarioID string) bool {
	return scenarioID != "" && slices.Contains(d.AllowedScenarios, scenarioID)
}

// Tables is the full content set. Call Index after mutating the slices.
type Tables struct {
	Scenarios []game.Scenario          `json:"scenarios" yaml:"scenarios"`
	Events    []EventDefinition        `json:"events" yaml:"events"`
	Missions  []game.MissionDefinition `json:"missions" yaml:"missions"`
	Narrative []narrative.Sequence     `json:"narrative" yaml:"narrative"`
	Upgrades  []modifier.Upgrade       `json:"upgrades,omitempty" yaml:"upgrades,omitempty"`

	scenarios map[string]game.Scenario
	events    map[string]EventDefinition
	bySystem  map[game.SystemType][]EventDefinition
	titles    map[string]string
	missions  map[string]game.MissionDefinition
}

// Index rebuilds the lookup maps. The first occurrence of a duplicate id wins;
// Validate reports duplicates.
func (t *Tables) Index() {
	t.scenarios = make(map[string]game.Scenario, len(t.Scenarios))
	for _, s := range t.Scenarios {
		if _, ok := t.scenarios[s.ID]; !ok {
			t.scenarios[s.ID] = s
		}
	}

	t.events = make(map[string]EventDefinition, len(t.Events))
	t.bySystem = make(map[game.SystemType][]EventDefinition)
	t.titles = make(map[string]string, len(t.Events))
	for _, e := range t.Events {
		if _, ok := t.events[e.ID]; ok {
			continue
		}
		t.events[e.ID] = e
		t.bySystem[e.SystemID] = append(t.bySystem[e.SystemID], e)
		if _, ok := t.titles[e.Title]; !ok {
			t.titles[e.Title] = e.ID
		}
	}

	t.missions = make(map[string]game.MissionDefinition, len(t.Missions))
	for _, m := range t.Missions {
		if _, ok := t.missions[m.ID]; !ok {
			t.missions[m.ID] = m
		}
	}
}

func (t *Tables) ensureIndex() {
	if t.events == nil {
		t.Index()
	}
}

// Scenario returns the scenario with the given id.
func (t *Tables) Scenario(id string) (game.Scenario, bool) {
	t.ensureIndex()
	s, ok := t.scenarios[id]
	return s, ok
}

// Event returns the incident definition with the given id.
func (t *Tables) Event(id string) (EventDefinition, bool) {
	t.ensureIndex()
	e, ok := t.events[id]
	return e, ok
}

// EventsFor returns the definitions for a system in file order.
func (t *Tables) EventsFor(system game.SystemType) []EventDefinition {
	t.ensureIndex()
	return t.bySystem[system]
}

// LookupByTitle maps a display title back to its definition id. Nothing in
// the director keys on titles; this exists for clients that only have text.
func (t *Tables) LookupByTitle(title string) (string, bool) {
	t.ensureIndex()
	id, ok := t.titles[title]
	return id, ok
}

// Mission returns the mission with the given id.
func (t *Tables) Mission(id string) (game.MissionDefinition, bool) {
	t.ensureIndex()
	m, ok := t.missions[id]
	return m, ok
}

// MissionIDs lists every mission id in file order.
func (t *Tables) MissionIDs() []string {
	ids := make([]string, 0, len(t.Missions))
	for _, m := range t.Missions {
		ids = append(ids, m.ID)
	}
	return ids
}

// ScenarioIDs lists every scenario id in file order.
func (t *Tables) ScenarioIDs() []string {
	ids := make([]string, 0, len(t.Scenarios))
	for _, s := range t.Scenarios {
		ids = append(ids, s.ID)
	}
	return ids
}

// Catalog returns the upgrade catalog. Tables without an upgrades section
// use the built-in catalog.
func (t *Tables) Catalog() modifier.Catalog {
	if len(t.Upgrades) == 0 {
		return modifier.DefaultCatalog()
	}
	catalog := make(modifier.Catalog, len(t.Upgrades))
	for _, u := range t.Upgrades {
		catalog[u.ID] = u
	}
	return catalog
}
