package mock

import (
	"context"
	"sync"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/service"
)

// CareerStore is a mock implementation of service.CareerStore for testing
type CareerStore struct {
	mu sync.Mutex

	// Simple fields for common scenarios
	Careers map[string]career.Data
	Error   error

	// Recorded calls
	Updates int
}

// NewCareerStore creates an empty mock career store.
func NewCareerStore() *CareerStore {
	return &CareerStore{Careers: make(map[string]career.Data)}
}

// LoadCareer returns the mocked career or a new one
func (m *CareerStore) LoadCareer(ctx context.Context, playerID string) (career.Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Error != nil {
		return career.Data{}, m.Error
	}
	if d, ok := m.Careers[playerID]; ok {
		return d.Clone(), nil
	}
	return career.New(), nil
}

// SaveCareer stores the career
func (m *CareerStore) SaveCareer(ctx context.Context, playerID string, data career.Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Error != nil {
		return m.Error
	}
	m.Careers[playerID] = data.Clone()
	return nil
}

// UpdateCareer applies fn to the mocked career
func (m *CareerStore) UpdateCareer(ctx context.Context, playerID string, fn service.UpdateFunc) (career.Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Error != nil {
		return career.Data{}, m.Error
	}
	current, ok := m.Careers[playerID]
	if !ok {
		current = career.New()
	}
	next, err := fn(current.Clone())
	if err != nil {
		return current, err
	}
	m.Careers[playerID] = next.Clone()
	m.Updates++
	return next, nil
}

// Leaderboard is a mock implementation of service.Leaderboard for testing
type Leaderboard struct {
	// Function fields for custom behavior
	TopScoresFunc func(ctx context.Context, scenarioID string, n int) ([]rule.LeaderboardEntry, error)

	// Simple fields for common scenarios
	Entries []rule.LeaderboardEntry
	Error   error

	// Recorded calls
	Submitted []Submission
}

// Submission is one recorded SubmitScore call.
type Submission struct {
	ScenarioID string
	PlayerID   string
	Score      int
}

// SubmitScore records the call
func (m *Leaderboard) SubmitScore(ctx context.Context, scenarioID, playerID string, score int) error {
	if m.Error != nil {
		return m.Error
	}
	m.Submitted = append(m.Submitted, Submission{ScenarioID: scenarioID, PlayerID: playerID, Score: score})
	return nil
}

// TopScores returns mocked entries
func (m *Leaderboard) TopScores(ctx context.Context, scenarioID string, n int) ([]rule.LeaderboardEntry, error) {
	if m.TopScoresFunc != nil {
		return m.TopScoresFunc(ctx, scenarioID, n)
	}
	if m.Error != nil {
		return nil, m.Error
	}
	if n > 0 && len(m.Entries) > n {
		return m.Entries[:n], nil
	}
	return m.Entries, nil
}

// NoticeBoard is a mock implementation of service.NoticeBoard for testing
type NoticeBoard struct {
	Notices []service.Notice
	Error   error
}

// PostNotice records the notice
func (m *NoticeBoard) PostNotice(ctx context.Context, notice service.Notice) error {
	if m.Error != nil {
		return m.Error
	}
	m.Notices = append(m.Notices, notice)
	return nil
}

// ListNotices returns recorded notices newest first
func (m *NoticeBoard) ListNotices(ctx context.Context, playerID string, limit int) ([]service.Notice, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	var out []service.Notice
	for i := len(m.Notices) - 1; i >= 0; i-- {
		if m.Notices[i].PlayerID == playerID {
			out = append(out, m.Notices[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
