package session

import (
	"fmt"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/incident"
)

// MoveFader sets a system fader, clamped to [0, 100].
func (s *Session) MoveFader(system game.SystemType, value float64) error {
	if s.Ended() {
		return ErrSessionEnded
	}
	sys, ok := s.Systems[system]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSystem, system)
	}
	if !common.Finite(value) {
		return fmt.Errorf("fader value for %s is not a number", system)
	}
	sys.FaderValue = common.Clamp(value, 0, 100)
	s.Systems[system] = sys
	return nil
}

// ResolveEvent applies the chosen option to an active incident. A non-nil
// minigame replaces the option's correctness with the minigame result.
func (s *Session) ResolveEvent(eventID, optionID string, minigame *bool) (incident.Report, error) {
	if s.Ended() {
		return incident.Report{}, ErrSessionEnded
	}

	idx := -1
	for i := range s.Active {
		if s.Active[i].ID == eventID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return incident.Report{}, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}

	ev := s.Active[idx]
	opt, ok := ev.Option(optionID)
	if !ok {
		return incident.Report{}, fmt.Errorf("%w: %s on %s", ErrOptionNotFound, optionID, eventID)
	}
	if minigame != nil {
		opt = incident.BuildMinigameOption(opt, *minigame)
	}

	combo := s.Combo.Break()
	if opt.IsCorrect {
		combo = s.Combo.Register(s.Now)
	}

	res := incident.Resolve(ev, *opt, incident.ResolveInput{
		Now:           s.Now,
		Stats:         s.Stats,
		ActiveEvents:  len(s.Active),
		InitialBudget: s.initialBudget,
		Economy:       s.Economy,
		Streak:        s.Streak,
		Combo:         combo.Multiplier(),
		Permanent:     s.Permanent,
		Crew:          s.Crew,
	})

	s.Combo = combo
	s.Stats = s.Stats.Apply(res.Delta)
	s.Telemetry = s.Telemetry.RecordResolution(res.Success, res.Report.Cost)
	s.Streak = s.Streak.RecordEvent(res.Success)
	s.cooldowns = s.cooldowns.Merge(incident.Cooldowns{ev.DefinitionID: res.CooldownUntil})
	s.Active = append(s.Active[:idx:idx], s.Active[idx+1:]...)

	kind := KindEventFailed
	if res.Success {
		kind = KindEventResolved
	}
	report := res.Report
	snap := s.Snapshot()
	s.emit(Outcome{Kind: kind, Event: &ev, Report: &report, Amount: res.Budget.Net, Snapshot: &snap})

	return report, nil
}
