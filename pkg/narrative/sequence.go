// Package narrative walks scripted story sequences as a session progresses.
package narrative

import "time"

// Step is one scripted beat of a sequence.
type Step struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Message     string  `json:"message" yaml:"message"`
	MinProgress float64 `json:"minProgress" yaml:"min_progress"`
	MinStress   float64 `json:"minStress" yaml:"min_stress"`
}

// Sequence is an ordered, finite list of steps.
type Sequence struct {
	ID        string        `json:"id" yaml:"id"`
	Scenarios []string      `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
	Steps     []Step        `json:"steps" yaml:"steps"`
	Cooldown  time.Duration `json:"cooldown" yaml:"cooldown"`
}

func (s Sequence) allows(scenarioID string) bool {
	if len(s.Scenarios) == 0 {
		return true
	}
	for _, id := range s.Scenarios {
		if id == scenarioID {
			return true
		}
	}
	return false
}

// State records how far each sequence has advanced.
type State struct {
	Cursors     map[string]int       `json:"cursors"`
	LastFiredAt map[string]time.Time `json:"lastFiredAt"`
}

// NewState returns an empty state.
func NewState() State {
	return State{
		Cursors:     map[string]int{},
		LastFiredAt: map[string]time.Time{},
	}
}

func (s State) clone() State {
	out := NewState()
	for k, v := range s.Cursors {
		out.Cursors[k] = v
	}
	for k, v := range s.LastFiredAt {
		out.LastFiredAt[k] = v
	}
	return out
}

// Exhausted reports whether every step of seq has fired.
func (s State) Exhausted(seq Sequence) bool {
	return s.Cursors[seq.ID] >= len(seq.Steps)
}

// Beat is a fired narrative step.
type Beat struct {
	SequenceID string `json:"sequenceId"`
	Step       Step   `json:"step"`
}

// Conditions is the session snapshot the picker gates on.
type Conditions struct {
	ScenarioID string
	Progress   float64
	Stress     float64
	Now        time.Time
}

// PickNext returns the next eligible beat and the advanced state. At most one
// beat fires per call; the input state is never modified.
func PickNext(sequences []Sequence, state State, cond Conditions) (*Beat, State) {
	for _, seq := range sequences {
		if !seq.allows(cond.ScenarioID) || state.Exhausted(seq) {
			continue
		}
		if last, ok := state.LastFiredAt[seq.ID]; ok && cond.Now.Sub(last) < seq.Cooldown {
			continue
		}

		step := seq.Steps[state.Cursors[seq.ID]]
		if cond.Progress < step.MinProgress || cond.Stress < step.MinStress {
			continue
		}

		next := state.clone()
		next.Cursors[seq.ID]++
		next.LastFiredAt[seq.ID] = cond.Now
		return &Beat{SequenceID: seq.ID, Step: step}, next
	}
	return nil, state
}
