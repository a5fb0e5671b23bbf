package pipeline

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/russofg/event-chaos-sub000/pkg/action"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
)

// ErrInvalidConfig is wrapped by every problem Validate reports.
var ErrInvalidConfig = errors.New("invalid pipeline config")

// Config is the director's pipeline.yaml.
type Config struct {
	Settings Settings       `yaml:"settings"`
	Rules    []RuleConfig   `yaml:"rules"`
	Actions  []ActionConfig `yaml:"actions"`
}

// Settings tunes the pipeline manager.
type Settings struct {
	QueueSize int `yaml:"queue_size"`
}

// RuleConfig declares one rule and the actions its triggers run.
type RuleConfig struct {
	ID         string                 `yaml:"id"`
	Name       string                 `yaml:"name,omitempty"`
	Type       string                 `yaml:"type"`
	Enabled    bool                   `yaml:"enabled"`
	Priority   int                    `yaml:"priority,omitempty"`
	Cooldown   *rule.CooldownConfig   `yaml:"cooldown,omitempty"`
	Actions    []string               `yaml:"actions,omitempty"`
	Parameters map[string]interface{} `yaml:"parameters,omitempty"`
}

// ActionConfig declares one action instance.
type ActionConfig struct {
	ID         string                 `yaml:"id"`
	Name       string                 `yaml:"name,omitempty"`
	Type       string                 `yaml:"type"`
	Enabled    bool                   `yaml:"enabled"`
	Retry      *action.RetryConfig    `yaml:"retry,omitempty"`
	Parameters map[string]interface{} `yaml:"parameters,omitempty"`
}

// LoadConfig reads and validates the pipeline file at path.
// ${VAR} and ${VAR:default} are expanded from the environment before parsing.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates a pipeline document.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse pipeline config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every structural problem at once. It does not check
// that types are registered; see ValidateWiring for that.
func (c *Config) Validate() error {
	var problems []error
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Settings.QueueSize < 0 {
		report("settings.queue_size is negative")
	}

	actions := make(map[string]bool, len(c.Actions))
	for i, ac := range c.Actions {
		switch {
		case ac.ID == "":
			report("actions[%d] has no id", i)
		case actions[ac.ID]:
			report("action %s is declared twice", ac.ID)
		}
		actions[ac.ID] = true
		if ac.Type == "" {
			report("action %s has no type", ac.ID)
		}
		if err := ac.Retry.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("%w: action %s: %w", ErrInvalidConfig, ac.ID, err))
		}
	}

	rules := make(map[string]bool, len(c.Rules))
	for i, rc := range c.Rules {
		switch {
		case rc.ID == "":
			report("rules[%d] has no id", i)
		case rules[rc.ID]:
			report("rule %s is declared twice", rc.ID)
		}
		rules[rc.ID] = true
		if rc.Type == "" {
			report("rule %s has no type", rc.ID)
		}
		if cd := rc.Cooldown; cd != nil {
			if cd.Duration < 0 {
				report("rule %s has a negative cooldown", rc.ID)
			}
			if cd.Scope != "" && cd.Scope != rule.CooldownScopeSession && cd.Scope != rule.CooldownScopePlayer {
				report("rule %s has cooldown scope %q, expected %s or %s", rc.ID, cd.Scope, rule.CooldownScopeSession, rule.CooldownScopePlayer)
			}
		}
		for _, id := range rc.Actions {
			if !actions[id] {
				report("rule %s runs undeclared action %s", rc.ID, id)
			}
		}
	}

	return errors.Join(problems...)
}

func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		name, fallback, _ := strings.Cut(key, ":")
		if v := os.Getenv(name); v != "" {
			return v
		}
		return fallback
	})
}
