package session

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/flow"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/incident"
)

// DefaultTickInterval is the wall-clock period between steps.
const DefaultTickInterval = 50 * time.Millisecond

// maxTickGap caps dt after a stall so a slow loop cannot skip whole incidents.
const maxTickGap = time.Second

// Runner drives one Session from a ticker. Player inputs are queued as
// commands and applied between ticks by the same goroutine that steps.
type Runner struct {
	session  *Session
	scenario game.Scenario
	interval time.Duration
	sink     Sink
	now      func() time.Time

	commands chan func(*Session)
	done     chan struct{}

	mu       sync.RWMutex
	snapshot Snapshot
	career   career.Data
	rewards  *flow.Rewards
}

// NewRunner wraps s. A nil sink discards outcomes.
func NewRunner(s *Session, interval time.Duration, sink Sink) *Runner {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if sink == nil {
		sink = discard{}
	}
	return &Runner{
		session:  s,
		scenario: s.Scenario,
		interval: interval,
		sink:     sink,
		now:      time.Now,
		commands: make(chan func(*Session)),
		done:     make(chan struct{}),
		snapshot: s.Snapshot(),
		career:   s.Career,
	}
}

// ID is the session id.
func (r *Runner) ID() string {
	return r.session.ID
}

// Run steps the session until it ends or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	r.session.Bind(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	last := r.now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd := <-r.commands:
			cmd(r.session)
			r.flush()

		case <-ticker.C:
			now := r.now()
			dt := min(now.Sub(last), maxTickGap)
			last = now

			r.session.Step(r.session.Now.Add(dt), dt)
			r.flush()
			if r.session.Ended() {
				logrus.Infof("session %s ended: %s (score %d)", r.session.ID, r.session.Outcome, r.session.Score)
				return nil
			}
		}
	}
}

// Done is closed once Run returns.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Do runs fn on the loop goroutine and returns its error. It fails with
// ErrSessionEnded once the loop has stopped.
func (r *Runner) Do(ctx context.Context, fn func(*Session) error) error {
	reply := make(chan error, 1)
	cmd := func(s *Session) { reply <- fn(s) }

	select {
	case r.commands <- cmd:
	case <-r.done:
		return ErrSessionEnded
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MoveFader queues a fader move.
func (r *Runner) MoveFader(ctx context.Context, system game.SystemType, value float64) error {
	return r.Do(ctx, func(s *Session) error {
		return s.MoveFader(system, value)
	})
}

// ResolveEvent queues an incident resolution and returns its report.
func (r *Runner) ResolveEvent(ctx context.Context, eventID, optionID string, minigame *bool) (incident.Report, error) {
	var report incident.Report
	err := r.Do(ctx, func(s *Session) error {
		var err error
		report, err = s.ResolveEvent(eventID, optionID, minigame)
		return err
	})
	return report, err
}

// Snapshot returns the state as of the last tick or command.
func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Career returns the career as of the last tick. After a victory it includes
// the completion rewards.
func (r *Runner) Career() (career.Data, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.career.Clone(), r.rewards != nil
}

// Scenario is the scenario the session plays.
func (r *Runner) Scenario() game.Scenario {
	return r.scenario
}

// Rewards returns the completion rewards once the session is won.
func (r *Runner) Rewards() *flow.Rewards {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rewards
}

func (r *Runner) flush() {
	for _, o := range r.session.Drain() {
		r.sink.Publish(o)
	}

	snap := r.session.Snapshot()
	r.mu.Lock()
	r.snapshot = snap
	r.career = r.session.Career
	r.rewards = r.session.Rewards
	r.mu.Unlock()
}
