package rule

import "context"

// Service interfaces for external dependencies that rules can use.
// These interfaces enable lazy loading of expensive data after threshold checks.

// LeaderboardService provides access to per-scenario high score tables.
type LeaderboardService interface {
	// TopScores returns the best n scores for a scenario, highest first.
	TopScores(ctx context.Context, scenarioID string, n int) ([]LeaderboardEntry, error)
}

// LeaderboardEntry represents a player's position in a scenario leaderboard.
type LeaderboardEntry struct {
	PlayerID string `json:"playerId"`
	Rank     int    `json:"rank"`
	Score    int    `json:"score"`
}

// RuleDependencies holds all external service dependencies that rules can use.
// Rules receive this struct and can access only the services they need.
type RuleDependencies struct {
	LeaderboardService LeaderboardService
}

// NewRuleDependencies creates a new dependencies container.
// Services can be nil if not needed - rules should handle nil gracefully.
func NewRuleDependencies() *RuleDependencies {
	return &RuleDependencies{}
}

// WithLeaderboardService sets the leaderboard service
func (d *RuleDependencies) WithLeaderboardService(service LeaderboardService) *RuleDependencies {
	d.LeaderboardService = service
	return d
}
