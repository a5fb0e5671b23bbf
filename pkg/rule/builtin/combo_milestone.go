package builtin

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
	signalBuiltin "github.com/russofg/event-chaos-sub000/pkg/signal/builtin"
	"github.com/sirupsen/logrus"
)

// ComboMilestoneRuleID is the identifier for the combo milestone rule
const ComboMilestoneRuleID = "combo_milestone"

// ComboMilestoneRule fires each configured combo milestone once per session.
// When several milestones are crossed by one resolution, the highest wins.
type ComboMilestoneRule struct {
	config     rule.RuleConfig
	milestones []int
	gate       *rule.Gate
}

// NewComboMilestoneRule creates a new combo milestone rule. Milestones come from
// "milestones" (a list of integers) or a single "combo" parameter.
func NewComboMilestoneRule(config rule.RuleConfig) (*ComboMilestoneRule, error) {
	var milestones []int
	if raw, ok := config.Parameters["milestones"].([]interface{}); ok {
		for _, v := range raw {
			n, ok := common.ParamInt(v)
			if !ok || n <= 1 {
				return nil, fmt.Errorf("milestones must be integers above 1, got %v", v)
			}
			milestones = append(milestones, n)
		}
	}
	if len(milestones) == 0 {
		milestones = []int{config.GetInt("combo", 5)}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(milestones)))

	logrus.Infof("creating combo milestone rule with milestones=%v", milestones)

	return &ComboMilestoneRule{
		config:     config,
		milestones: milestones,
		gate:       rule.NewGate(6 * time.Hour),
	}, nil
}

// ID returns the rule identifier.
func (r *ComboMilestoneRule) ID() string {
	return r.config.ID
}

// Name returns the rule name.
func (r *ComboMilestoneRule) Name() string {
	return "Combo Milestone"
}

// SignalTypes returns the signal types this rule handles.
func (r *ComboMilestoneRule) SignalTypes() []string {
	return []string{signalBuiltin.TypeEventResolved}
}

// Config returns the rule configuration.
func (r *ComboMilestoneRule) Config() rule.RuleConfig {
	return r.config
}

// Evaluate checks the running combo against the milestones.
func (r *ComboMilestoneRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	res, ok := sig.(*signalBuiltin.ResolutionSignal)
	if !ok {
		return false, nil, fmt.Errorf("expected ResolutionSignal, got %T", sig)
	}

	for _, m := range r.milestones {
		if res.Combo < m {
			continue
		}
		key := rule.GateKey(sig.SessionID(), r.ID(), strconv.Itoa(m))
		if !r.gate.Allow(key, sig.Timestamp(), 0) {
			return false, nil, nil
		}

		trigger := rule.NewTrigger(r.ID(), sig, "Combo milestone reached", r.config.Priority)
		trigger.Metadata["combo"] = res.Combo
		trigger.Metadata["milestone"] = m
		trigger.Metadata["message"] = fmt.Sprintf("Combo x%d!", m)
		trigger.Metadata["level"] = "info"
		if id := r.config.GetString("achievement_id", ""); id != "" {
			trigger.Metadata["achievement_id"] = id
		}
		return true, trigger, nil
	}

	return false, nil, nil
}
