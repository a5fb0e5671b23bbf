package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	MaxSessions  int
	TickInterval time.Duration
	Sink         Sink
	// OnStart is called once a session is registered, before its loop runs.
	OnStart func(r *Runner)
	// OnEnd is called from the runner goroutine after a session stops.
	OnEnd func(r *Runner)
}

// Manager maps session ids to running sessions.
type Manager struct {
	cfg ManagerConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	runners map[string]*managed
}

type managed struct {
	runner *Runner
	cancel context.CancelFunc
}

// NewManager creates a manager. Sessions outlive the requests that start
// them and stop on Stop, on their own outcome or on Shutdown.
func NewManager(cfg ManagerConfig) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
		runners: make(map[string]*managed),
	}
}

// Start builds a session from cfg and runs it in the background.
func (m *Manager) Start(cfg Config) (*Runner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx.Err() != nil {
		return nil, fmt.Errorf("manager is shut down: %w", m.ctx.Err())
	}
	if m.cfg.MaxSessions > 0 && len(m.runners) >= m.cfg.MaxSessions {
		return nil, ErrTooManySessions
	}
	if cfg.ID != "" {
		if _, exists := m.runners[cfg.ID]; exists {
			return nil, fmt.Errorf("%w: session %s already running", ErrInvalidConfig, cfg.ID)
		}
	}

	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	runner := NewRunner(s, m.cfg.TickInterval, m.cfg.Sink)
	ctx, cancel := context.WithCancel(m.ctx)
	m.runners[s.ID] = &managed{runner: runner, cancel: cancel}
	if m.cfg.OnStart != nil {
		m.cfg.OnStart(runner)
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()

		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logrus.Errorf("session %s stopped: %v", s.ID, err)
		}

		m.mu.Lock()
		delete(m.runners, s.ID)
		m.mu.Unlock()

		if m.cfg.OnEnd != nil {
			m.cfg.OnEnd(runner)
		}
	}()

	logrus.Infof("session %s started: scenario=%s difficulty=%s mode=%s", s.ID, s.Scenario.ID, s.Difficulty, s.Mode)
	return runner, nil
}

// Get returns the running session with id.
func (m *Manager) Get(id string) (*Runner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.runners[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return entry.runner, nil
}

// Stop cancels a running session and waits for its loop to exit.
func (m *Manager) Stop(id string) error {
	m.mu.RLock()
	entry, ok := m.runners[id]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	entry.cancel()
	<-entry.runner.Done()
	return nil
}

// Len is the number of running sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runners)
}

// Shutdown stops every session and waits for them, or for ctx.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
