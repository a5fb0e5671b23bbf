package builtin

import (
	"github.com/russofg/event-chaos-sub000/pkg/action"
	"github.com/russofg/event-chaos-sub000/pkg/service"
)

// Dependencies holds dependencies needed by built-in actions.
// Nil services put the matching actions in test mode, where they only log.
type Dependencies struct {
	Careers     service.CareerStore
	Leaderboard service.Leaderboard
	Notices     service.NoticeBoard
}

// RegisterActions registers built-in action factories with dependencies.
func RegisterActions(deps *Dependencies) {
	if deps == nil {
		deps = &Dependencies{}
	}

	action.RegisterActionType(UnlockAchievementActionID, func(config action.ActionConfig) (action.Action, error) {
		a, err := NewUnlockAchievementAction(config, deps.Careers)
		if err != nil {
			return nil, err
		}
		return a, nil
	})

	action.RegisterActionType(GrantCareerPointsActionID, func(config action.ActionConfig) (action.Action, error) {
		a, err := NewGrantCareerPointsAction(config, deps.Careers)
		if err != nil {
			return nil, err
		}
		return a, nil
	})

	action.RegisterActionType(PublishNoticeActionID, func(config action.ActionConfig) (action.Action, error) {
		return NewPublishNoticeAction(config, deps.Notices), nil
	})

	action.RegisterActionType(RecordHighScoreActionID, func(config action.ActionConfig) (action.Action, error) {
		return NewRecordHighScoreAction(config, deps.Leaderboard), nil
	})
}
