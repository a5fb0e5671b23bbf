package rule

import (
	"context"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
)

// Rule inspects signals and decides whether the director reacts.
type Rule interface {
	ID() string
	Name() string

	// SignalTypes lists the signal types the rule wants. Empty means every
	// signal.
	SignalTypes() []string

	// Evaluate returns a Trigger when sig matches. A non-matching signal is
	// (false, nil, nil); an error means the rule could not decide.
	Evaluate(ctx context.Context, sig signal.Signal) (bool, *Trigger, error)

	Config() RuleConfig
}

// Trigger is a rule match. Its metadata carries the values the mapped
// actions read, such as achievement_id, score or message.
type Trigger struct {
	RuleID    string
	PlayerID  string
	SessionID string
	// Timestamp is the session clock time of the signal.
	Timestamp time.Time
	Reason    string
	Priority  int
	Metadata  map[string]any
}

// NewTrigger creates a trigger for sig with empty metadata.
func NewTrigger(ruleID string, sig signal.Signal, reason string, priority int) *Trigger {
	return &Trigger{
		RuleID:    ruleID,
		PlayerID:  sig.PlayerID(),
		SessionID: sig.SessionID(),
		Timestamp: sig.Timestamp(),
		Reason:    reason,
		Priority:  priority,
		Metadata:  map[string]any{},
	}
}

// WithMetadata sets key and returns t.
func (t *Trigger) WithMetadata(key string, value any) *Trigger {
	t.Metadata[key] = value
	return t
}

// MetadataString returns the non-empty string stored at key, or def.
func (t *Trigger) MetadataString(key, def string) string {
	if s, ok := t.Metadata[key].(string); ok && s != "" {
		return s
	}
	return def
}

// MetadataInt returns the integer stored at key, or def. Integral floats
// from YAML or JSON count as integers.
func (t *Trigger) MetadataInt(key string, def int) int {
	if n, ok := common.ParamInt(t.Metadata[key]); ok {
		return n
	}
	return def
}
