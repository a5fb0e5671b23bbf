package rule

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the configured rules and indexes them by the signal types
// they listen to.
type Registry struct {
	mu       sync.RWMutex
	rules    map[string]Rule
	bySignal map[string][]Rule
	anySig   []Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules:    make(map[string]Rule),
		bySignal: make(map[string][]Rule),
	}
}

// Register adds a rule. IDs must be unique.
func (r *Registry) Register(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := rule.ID()
	if id == "" {
		return fmt.Errorf("rule has no id")
	}
	if _, exists := r.rules[id]; exists {
		return fmt.Errorf("rule %s already registered", id)
	}

	r.rules[id] = rule
	types := rule.SignalTypes()
	if len(types) == 0 {
		r.anySig = append(r.anySig, rule)
		return nil
	}
	for _, t := range types {
		r.bySignal[t] = append(r.bySignal[t], rule)
	}
	return nil
}

// Get returns the rule with ruleID, or nil.
func (r *Registry) Get(ruleID string) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.rules[ruleID]
}

// GetBySignalType returns the enabled rules listening to signalType, highest
// priority first and by ID among equals.
func (r *Registry) GetBySignalType(signalType string) []Rule {
	r.mu.RLock()
	candidates := make([]Rule, 0, len(r.bySignal[signalType])+len(r.anySig))
	candidates = append(candidates, r.bySignal[signalType]...)
	candidates = append(candidates, r.anySig...)
	r.mu.RUnlock()

	matching := candidates[:0]
	for _, rule := range candidates {
		if rule.Config().Enabled {
			matching = append(matching, rule)
		}
	}
	sortRules(matching)
	return matching
}

// GetAll returns every rule, ordered like GetBySignalType.
func (r *Registry) GetAll() []Rule {
	r.mu.RLock()
	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	r.mu.RUnlock()

	sortRules(rules)
	return rules
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rules)
}

func sortRules(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		pi, pj := rules[i].Config().Priority, rules[j].Config().Priority
		if pi != pj {
			return pi > pj
		}
		return rules[i].ID() < rules[j].ID()
	})
}
