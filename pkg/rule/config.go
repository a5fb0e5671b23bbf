package rule

import (
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/common"
)

// Cooldown scopes. Session is the default.
const (
	CooldownScopeSession = "session"
	CooldownScopePlayer  = "player"
)

// RuleConfig is one entry of the pipeline's rules list. Parameters carry the
// rule type's own settings, decoded from YAML as-is.
type RuleConfig struct {
	ID         string                 `yaml:"id" json:"id"`
	Name       string                 `yaml:"name" json:"name"`
	Type       string                 `yaml:"type" json:"type"`
	Enabled    bool                   `yaml:"enabled" json:"enabled"`
	Priority   int                    `yaml:"priority" json:"priority"`
	Cooldown   *CooldownConfig        `yaml:"cooldown,omitempty" json:"cooldown,omitempty"`
	Parameters map[string]interface{} `yaml:"parameters" json:"parameters"`
}

// CooldownConfig rate limits how often a rule may trigger.
type CooldownConfig struct {
	Duration time.Duration `yaml:"duration" json:"duration"`
	Scope    string        `yaml:"scope" json:"scope"`
}

// CooldownDuration returns the configured cooldown or def.
func (c *RuleConfig) CooldownDuration(def time.Duration) time.Duration {
	if c.Cooldown != nil && c.Cooldown.Duration > 0 {
		return c.Cooldown.Duration
	}
	return def
}

// CooldownScope returns the configured scope, CooldownScopeSession by default.
func (c *RuleConfig) CooldownScope() string {
	if c.Cooldown != nil && c.Cooldown.Scope != "" {
		return c.Cooldown.Scope
	}
	return CooldownScopeSession
}

// GetInt reads an integer parameter. Whole YAML floats count.
func (c *RuleConfig) GetInt(key string, defaultValue int) int {
	if v, ok := common.ParamInt(c.Parameters[key]); ok {
		return v
	}
	return defaultValue
}

// GetFloat reads a float parameter. YAML integers count.
func (c *RuleConfig) GetFloat(key string, defaultValue float64) float64 {
	if v, ok := common.ParamFloat(c.Parameters[key]); ok {
		return v
	}
	return defaultValue
}

func (c *RuleConfig) GetString(key string, defaultValue string) string {
	if s, ok := c.Parameters[key].(string); ok {
		return s
	}
	return defaultValue
}

func (c *RuleConfig) GetBool(key string, defaultValue bool) bool {
	if b, ok := c.Parameters[key].(bool); ok {
		return b
	}
	return defaultValue
}

// GetList reads a list of objects, such as narrative beats. Entries that are
// not maps are skipped.
func (c *RuleConfig) GetList(key string) []map[string]interface{} {
	raw, ok := c.Parameters[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}
