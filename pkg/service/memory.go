package service

import (
	"context"
	"sort"
	"sync"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
)

// MemoryStore keeps everything in process. It backs tests and the
// "memory" store driver.
type MemoryStore struct {
	mu      sync.Mutex
	careers map[string]career.Data
	scores  map[string]map[string]int
	notices map[string][]Notice
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		careers: make(map[string]career.Data),
		scores:  make(map[string]map[string]int),
		notices: make(map[string][]Notice),
	}
}

// LoadCareer implements CareerStore.
func (m *MemoryStore) LoadCareer(ctx context.Context, playerID string) (career.Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d, ok := m.careers[playerID]; ok {
		return d.Clone(), nil
	}
	return career.New(), nil
}

// SaveCareer implements CareerStore.
func (m *MemoryStore) SaveCareer(ctx context.Context, playerID string, data career.Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.careers[playerID] = data.Clone()
	return nil
}

// UpdateCareer implements CareerStore.
func (m *MemoryStore) UpdateCareer(ctx context.Context, playerID string, fn UpdateFunc) (career.Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.careers[playerID]
	if !ok {
		current = career.New()
	}
	next, err := fn(current.Clone())
	if err != nil {
		return current.Clone(), err
	}
	m.careers[playerID] = next.Clone()
	return next, nil
}

// SubmitScore implements Leaderboard.
func (m *MemoryStore) SubmitScore(ctx context.Context, scenarioID, playerID string, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	board, ok := m.scores[scenarioID]
	if !ok {
		board = make(map[string]int)
		m.scores[scenarioID] = board
	}
	if prev, ok := board[playerID]; !ok || score > prev {
		board[playerID] = score
	}
	return nil
}

// TopScores implements Leaderboard.
func (m *MemoryStore) TopScores(ctx context.Context, scenarioID string, n int) ([]rule.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]rule.LeaderboardEntry, 0, len(m.scores[scenarioID]))
	for playerID, score := range m.scores[scenarioID] {
		entries = append(entries, rule.LeaderboardEntry{PlayerID: playerID, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// PostNotice implements NoticeBoard.
func (m *MemoryStore) PostNotice(ctx context.Context, notice Notice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := append([]Notice{notice}, m.notices[notice.PlayerID]...)
	if len(list) > MaxNotices {
		list = list[:MaxNotices]
	}
	m.notices[notice.PlayerID] = list
	return nil
}

// ListNotices implements NoticeBoard.
func (m *MemoryStore) ListNotices(ctx context.Context, playerID string, limit int) ([]Notice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.notices[playerID]
	limit = clampLimit(limit)
	if len(list) > limit {
		list = list[:limit]
	}
	return append([]Notice{}, list...), nil
}

// Ping implements Store.
func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
