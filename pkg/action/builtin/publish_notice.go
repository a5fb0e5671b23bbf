package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/action"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/service"
	"github.com/russofg/event-chaos-sub000/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// PublishNoticeActionID is the identifier for player notices
	PublishNoticeActionID = "publish_notice"
)

// PublishNoticeAction posts a message to the player's notice board.
// Parameters override trigger metadata; the trigger reason is the last
// resort for the message.
type PublishNoticeAction struct {
	config  action.ActionConfig
	notices service.NoticeBoard
	title   string
	message string
	level   string
}

// NewPublishNoticeAction creates a new publish notice action.
func NewPublishNoticeAction(config action.ActionConfig, notices service.NoticeBoard) *PublishNoticeAction {
	return &PublishNoticeAction{
		config:  config,
		notices: notices,
		title:   config.GetParameterString("title", ""),
		message: config.GetParameterString("message", ""),
		level:   config.GetParameterString("level", ""),
	}
}

// ID returns the action identifier.
func (a *PublishNoticeAction) ID() string {
	return a.config.ID
}

// Name returns the action name.
func (a *PublishNoticeAction) Name() string {
	return "Publish Notice"
}

// Config returns the action configuration.
func (a *PublishNoticeAction) Config() action.ActionConfig {
	return a.config
}

// BuildNotice assembles the notice a trigger would publish.
func (a *PublishNoticeAction) BuildNotice(trigger *rule.Trigger) service.Notice {
	title := a.title
	if title == "" {
		title = trigger.MetadataString("title", "")
	}
	message := a.message
	if message == "" {
		message = trigger.MetadataString("message", trigger.Reason)
	}
	level := a.level
	if level == "" {
		level = trigger.MetadataString("level", "info")
	}
	at := trigger.Timestamp
	if at.IsZero() {
		at = time.Now()
	}

	return service.Notice{
		PlayerID:  trigger.PlayerID,
		SessionID: trigger.SessionID,
		RuleID:    trigger.RuleID,
		Title:     title,
		Message:   message,
		Level:     level,
		At:        at,
	}
}

// Execute posts the notice.
func (a *PublishNoticeAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	notice := a.BuildNotice(trigger)
	if notice.Message == "" {
		return fmt.Errorf("%w: notice has no message", action.ErrInvalidConfig)
	}

	if a.notices == nil {
		logrus.Warnf("[TEST MODE] would post %s notice to player %s: %s", notice.Level, notice.PlayerID, notice.Message)
		return nil
	}

	if err := a.notices.PostNotice(ctx, notice); err != nil {
		return fmt.Errorf("failed to post notice: %w", err)
	}

	logrus.Infof("posted %s notice to player %s (rule: %s)", notice.Level, notice.PlayerID, notice.RuleID)
	return nil
}

// Rollback is not supported for notices (players may already have seen them).
func (a *PublishNoticeAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	return action.ErrRollbackNotSupported
}
