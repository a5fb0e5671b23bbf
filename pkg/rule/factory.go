package rule

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrUnknownRuleType is returned for a config whose type has no factory.
var ErrUnknownRuleType = errors.New("unknown rule type")

// RuleFactory builds a rule from its pipeline entry.
type RuleFactory func(config RuleConfig) (Rule, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]RuleFactory)
)

// RegisterRuleType makes ruleType available to CreateRule. Registering a type
// again replaces its factory.
func RegisterRuleType(ruleType string, factory RuleFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	factories[ruleType] = factory
	logrus.Debugf("registered rule type: %s", ruleType)
}

// RuleTypes lists the registered rule types, sorted.
func RuleTypes() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	types := make([]string, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// CreateRule builds the rule config describes. Disabled entries yield a nil
// rule and no error.
func CreateRule(config RuleConfig) (Rule, error) {
	if !config.Enabled {
		logrus.Debugf("skipping disabled rule: %s", config.ID)
		return nil, nil
	}

	factoriesMu.RLock()
	factory, exists := factories[config.Type]
	factoriesMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRuleType, config.Type)
	}

	return factory(config)
}

// CreateRules builds every enabled entry of configs, returning what it could
// build and one error per entry it could not.
func CreateRules(configs []RuleConfig) ([]Rule, []error) {
	var (
		rules []Rule
		errs  []error
	)

	for _, config := range configs {
		rule, err := CreateRule(config)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %s: %w", config.ID, err))
			continue
		}
		if rule != nil {
			rules = append(rules, rule)
		}
	}

	return rules, errs
}

// RegisterRules builds configs and adds them to registry. A single broken
// entry fails the call.
func RegisterRules(registry *Registry, configs []RuleConfig) error {
	rules, errs := CreateRules(configs)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, rule := range rules {
		if err := registry.Register(rule); err != nil {
			return fmt.Errorf("failed to register rule %s: %w", rule.ID(), err)
		}
	}

	logrus.Debugf("registered %d rules", len(rules))
	return nil
}
