package generator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/russofg/event-chaos-sub000/pkg/game"
)

type result struct {
	event *game.GameEvent
	err   error
}

// Dispatcher runs at most one generation at a time on behalf of a tick loop.
// All methods must be called from the owning loop; only the generation
// itself runs elsewhere.
type Dispatcher struct {
	gen     Generator
	inline  bool
	results chan result

	generating  bool
	nextAllowed time.Time
	merged      int
	dropped     int
}

// NewDispatcher wraps gen. Inline dispatchers generate synchronously inside
// TryStart, which keeps manual-clock simulations deterministic.
func NewDispatcher(gen Generator, inline bool) *Dispatcher {
	return &Dispatcher{
		gen:     gen,
		inline:  inline,
		results: make(chan result, 1),
	}
}

// Generating reports whether a generation is outstanding.
func (d *Dispatcher) Generating() bool {
	return d.generating
}

// Merged is the number of generated incidents accepted so far.
func (d *Dispatcher) Merged() int {
	return d.merged
}

// Dropped is the number of generations that failed or conflicted.
func (d *Dispatcher) Dropped() int {
	return d.dropped
}

// TryStart begins a generation unless one is outstanding or the cooldown
// since the previous start has not elapsed.
func (d *Dispatcher) TryStart(ctx context.Context, req Request, cooldown time.Duration) bool {
	if d.gen == nil || d.generating || req.Now.Before(d.nextAllowed) {
		return false
	}
	d.generating = true
	d.nextAllowed = req.Now.Add(cooldown)

	if d.inline {
		ev, err := d.gen.Generate(ctx, req)
		d.results <- result{event: ev, err: err}
		return true
	}

	go func() {
		ev, err := d.gen.Generate(ctx, req)
		d.results <- result{event: ev, err: err}
	}()
	return true
}

// Drain collects a finished generation without blocking. The incident is
// returned only when nothing active shares its definition or title, and its
// clock is rebased to now. Failures are dropped.
func (d *Dispatcher) Drain(active []game.GameEvent, now time.Time) *game.GameEvent {
	var res result
	select {
	case res = <-d.results:
	default:
		return nil
	}
	d.generating = false

	if res.err != nil || res.event == nil {
		d.dropped++
		logrus.Debugf("generated incident dropped: %v", res.err)
		return nil
	}

	ev := *res.event
	for _, a := range active {
		if a.DefinitionID == ev.DefinitionID || a.Title == ev.Title {
			d.dropped++
			logrus.Debugf("generated incident %s conflicts with active %s", ev.DefinitionID, a.ID)
			return nil
		}
	}

	shift := now.Sub(ev.CreatedAt)
	ev.CreatedAt = ev.CreatedAt.Add(shift)
	ev.ExpiresAt = ev.ExpiresAt.Add(shift)
	if ev.CanEscalate {
		ev.EscalationTime = ev.EscalationTime.Add(shift)
	}
	d.merged++
	return &ev
}
