package service

import (
	"context"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
)

// Service interfaces for the persistence the director and its actions use.
//
// You may not need to have interface and go with direct struct usage,
// but having interfaces allows easier mocking for unit tests.

// UpdateFunc transforms a career inside an atomic update.
type UpdateFunc func(career.Data) (career.Data, error)

// CareerStore defines the interface for accessing persisted careers.
// A missing career loads as career.New().
type CareerStore interface {
	LoadCareer(ctx context.Context, playerID string) (career.Data, error)
	SaveCareer(ctx context.Context, playerID string, data career.Data) error
	// UpdateCareer applies fn to the stored career and writes the result.
	// Concurrent updates for the same player never lose writes.
	UpdateCareer(ctx context.Context, playerID string, fn UpdateFunc) (career.Data, error)
}

// Leaderboard keeps the best score per player and scenario.
type Leaderboard interface {
	// SubmitScore records score unless the player already holds a higher one.
	SubmitScore(ctx context.Context, scenarioID, playerID string, score int) error
	// TopScores returns the best n scores for a scenario, highest first.
	TopScores(ctx context.Context, scenarioID string, n int) ([]rule.LeaderboardEntry, error)
}

// NoticeBoard stores the latest notices posted for each player.
type NoticeBoard interface {
	PostNotice(ctx context.Context, notice Notice) error
	// ListNotices returns up to limit notices, newest first.
	ListNotices(ctx context.Context, playerID string, limit int) ([]Notice, error)
}

// Store bundles every backend concern behind one handle.
type Store interface {
	CareerStore
	Leaderboard
	NoticeBoard
	Ping(ctx context.Context) error
	Close() error
}
