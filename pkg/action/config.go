package action

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/russofg/event-chaos-sub000/pkg/common"
)

// Backoff strategies accepted by RetryConfig.
const (
	BackoffConstant    = "constant"
	BackoffExponential = "exponential"
)

// ActionConfig is one entry of the pipeline's actions list.
type ActionConfig struct {
	ID         string                 `yaml:"id" json:"id"`
	Name       string                 `yaml:"name" json:"name"`
	Type       string                 `yaml:"type" json:"type"`
	Enabled    bool                   `yaml:"enabled" json:"enabled"`
	Retry      *RetryConfig           `yaml:"retry,omitempty" json:"retry,omitempty"`
	Parameters map[string]interface{} `yaml:"parameters" json:"parameters"`
}

// RetryConfig makes the executor re-run a failing action. Without one an
// action gets a single attempt.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	Delay       time.Duration `yaml:"delay" json:"delay"`
	Backoff     string        `yaml:"backoff" json:"backoff"`
}

// Validate rejects retry settings the executor cannot honour.
func (r *RetryConfig) Validate() error {
	if r == nil {
		return nil
	}
	if r.MaxAttempts < 1 {
		return fmt.Errorf("%w: retry max_attempts must be at least 1", ErrInvalidConfig)
	}
	if r.Delay < 0 {
		return fmt.Errorf("%w: retry delay must not be negative", ErrInvalidConfig)
	}
	switch r.Backoff {
	case "", BackoffConstant, BackoffExponential:
		return nil
	default:
		return fmt.Errorf("%w: unknown retry backoff %q", ErrInvalidConfig, r.Backoff)
	}
}

// attempts is the total number of tries the policy allows.
func (r *RetryConfig) attempts() int {
	if r == nil || r.MaxAttempts < 1 {
		return 1
	}
	return r.MaxAttempts
}

// policy builds the wait schedule between attempts.
func (r *RetryConfig) policy() backoff.BackOff {
	if r == nil {
		return &backoff.StopBackOff{}
	}
	var b backoff.BackOff
	if r.Backoff == BackoffExponential {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = r.Delay
		exp.MaxElapsedTime = 0
		exp.Reset()
		b = exp
	} else {
		b = backoff.NewConstantBackOff(r.Delay)
	}
	return backoff.WithMaxRetries(b, uint64(r.attempts()-1))
}

// GetParameterInt retrieves an integer parameter with a default.
// YAML floats with no fractional part are accepted.
func (c *ActionConfig) GetParameterInt(key string, defaultValue int) int {
	if v, ok := common.ParamInt(c.Parameters[key]); ok {
		return v
	}
	return defaultValue
}

// GetParameterString retrieves a string parameter with a default.
func (c *ActionConfig) GetParameterString(key string, defaultValue string) string {
	if s, ok := c.Parameters[key].(string); ok {
		return s
	}
	return defaultValue
}
