package action

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// ActionFactory builds an action from its pipeline entry.
type ActionFactory func(config ActionConfig) (Action, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]ActionFactory)
)

// RegisterActionType makes actionType available to CreateAction. Registering
// a type again replaces its factory, so dependencies can be swapped between
// pipelines.
func RegisterActionType(actionType string, factory ActionFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	factories[actionType] = factory
	logrus.Debugf("registered action type: %s", actionType)
}

// ActionTypes lists the registered action types, sorted.
func ActionTypes() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	types := make([]string, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// CreateAction builds the action config describes. Disabled entries yield a
// nil action and no error.
func CreateAction(config ActionConfig) (Action, error) {
	if !config.Enabled {
		logrus.Debugf("skipping disabled action: %s", config.ID)
		return nil, nil
	}
	if config.ID == "" {
		return nil, fmt.Errorf("%w: action of type %s has no id", ErrInvalidConfig, config.Type)
	}
	if err := config.Retry.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	factory, exists := factories[config.Type]
	factoriesMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: unknown action type %q", ErrInvalidConfig, config.Type)
	}

	return factory(config)
}

// CreateActions builds every enabled entry of configs. It returns the actions
// it could build along with one error per entry it could not.
func CreateActions(configs []ActionConfig) ([]Action, []error) {
	var (
		actions []Action
		errs    []error
	)

	for _, config := range configs {
		action, err := CreateAction(config)
		if err != nil {
			errs = append(errs, fmt.Errorf("action %s: %w", config.ID, err))
			continue
		}
		if action != nil {
			actions = append(actions, action)
		}
	}

	return actions, errs
}

// RegisterActions builds configs and adds them to registry. Any entry that
// fails to build fails the whole call, so a pipeline never starts with a
// silently missing action.
func RegisterActions(registry *Registry, configs []ActionConfig) error {
	actions, errs := CreateActions(configs)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, action := range actions {
		if err := registry.Register(action); err != nil {
			return fmt.Errorf("failed to register action %s: %w", action.ID(), err)
		}
	}

	logrus.Debugf("registered %d actions", len(actions))
	return nil
}
