package pipeline

import (
	"errors"
	"fmt"

	"github.com/russofg/event-chaos-sub000/pkg/action"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
)

// ErrWiring marks a pipeline whose registries do not match its config.
var ErrWiring = errors.New("pipeline wiring")

// ValidateWiring checks the built registries against config: every enabled
// rule and action must have been built, and an enabled rule may only map to
// actions that exist at runtime. A rule pointing at a disabled action would
// otherwise fail with action.ErrActionNotFound on every trigger.
func ValidateWiring(ruleRegistry *rule.Registry, actionRegistry *action.Registry, config *Config) error {
	var errs []error

	for _, rc := range config.Rules {
		if !rc.Enabled {
			continue
		}
		if ruleRegistry.Get(rc.ID) == nil {
			errs = append(errs, fmt.Errorf("%w: rule %q (type %s) is enabled but not registered", ErrWiring, rc.ID, rc.Type))
		}
		for _, actionID := range rc.Actions {
			if !actionRegistry.Has(actionID) {
				errs = append(errs, fmt.Errorf("%w: rule %q maps to action %q which is disabled or missing", ErrWiring, rc.ID, actionID))
			}
		}
	}

	for _, ac := range config.Actions {
		if ac.Enabled && !actionRegistry.Has(ac.ID) {
			errs = append(errs, fmt.Errorf("%w: action %q (type %s) is enabled but not registered", ErrWiring, ac.ID, ac.Type))
		}
	}

	return errors.Join(errs...)
}
