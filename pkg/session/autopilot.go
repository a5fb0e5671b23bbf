package session

import (
	"errors"
	"math"
	"time"

	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/random"
)

// faderTolerance is how far a fader may wander before the autopilot corrects it.
const faderTolerance = 2.0

// Autopilot is a scripted player for headless runs. It recentres faders,
// chases mission bands and answers incidents after a reaction delay.
type Autopilot struct {
	// Skill is the chance of picking a correct option, in [0, 1].
	Skill float64
	// Reaction is how long an incident stays open before it is answered.
	Reaction time.Duration

	src  random.Source
	seen map[string]time.Time
}

// NewAutopilot creates an autopilot drawing from src.
func NewAutopilot(skill float64, reaction time.Duration, src random.Source) *Autopilot {
	return &Autopilot{
		Skill:    skill,
		Reaction: reaction,
		src:      src,
		seen:     make(map[string]time.Time),
	}
}

// Act plays one turn against s.
func (a *Autopilot) Act(s *Session) error {
	if s.Ended() {
		return nil
	}

	for _, id := range game.AllSystems {
		target := a.faderTarget(s, id)
		if math.Abs(s.Systems[id].FaderValue-target) > faderTolerance {
			if err := s.MoveFader(id, target); err != nil {
				return err
			}
		}
	}

	open := make(map[string]bool, len(s.Active))
	for _, ev := range append([]game.GameEvent(nil), s.Active...) {
		open[ev.ID] = true
		first, ok := a.seen[ev.ID]
		if !ok {
			a.seen[ev.ID] = s.Now
			continue
		}
		if s.Now.Sub(first) < a.Reaction {
			continue
		}

		option := a.choose(ev)
		if option == "" {
			continue
		}
		delete(a.seen, ev.ID)
		if _, err := s.ResolveEvent(ev.ID, option, nil); err != nil {
			if errors.Is(err, ErrSessionEnded) {
				return nil
			}
			return err
		}
	}

	for id := range a.seen {
		if !open[id] {
			delete(a.seen, id)
		}
	}
	return nil
}

func (a *Autopilot) faderTarget(s *Session, id game.SystemType) float64 {
	if s.Mission != nil {
		for _, c := range s.Mission.Criteria {
			if c.SystemID == id {
				return (c.Min + c.Max) / 2
			}
		}
	}
	return (SafeZoneMin + SafeZoneMax) / 2
}

func (a *Autopilot) choose(ev game.GameEvent) string {
	var correct, wrong []game.EventOption
	for _, opt := range ev.Options {
		if opt.IsCorrect {
			correct = append(correct, opt)
		} else {
			wrong = append(wrong, opt)
		}
	}

	if len(correct) > 0 && (len(wrong) == 0 || a.src.Float64() < a.Skill) {
		best := correct[0]
		for _, opt := range correct[1:] {
			if opt.Cost < best.Cost {
				best = opt
			}
		}
		return best.ID
	}
	if len(wrong) == 0 {
		return ""
	}
	return wrong[random.Intn(a.src, len(wrong))].ID
}
