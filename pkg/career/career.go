// Package career holds the persistent progress a player carries between
// sessions and the pure operations that change it.
package career

import (
	"slices"

	"github.com/russofg/event-chaos-sub000/pkg/flow"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/modifier"
)

// Data is the persisted career record.
type Data struct {
	TotalCash            int            `json:"totalCash"`
	CompletedScenarios   []string       `json:"completedScenarios"`
	HighScores           map[string]int `json:"highScores"`
	UnlockedAchievements []string       `json:"unlockedAchievements"`
	UnlockedUpgrades     []string       `json:"unlockedUpgrades"`
	CareerPoints         int            `json:"careerPoints"`
	Reputation           int            `json:"reputation"`
}

// New returns an empty career.
func New() Data {
	return Data{
		CompletedScenarios:   []string{},
		HighScores:           map[string]int{},
		UnlockedAchievements: []string{},
		UnlockedUpgrades:     []string{},
	}
}

// Clone returns a deep copy.
func (d Data) Clone() Data {
	out := d
	out.CompletedScenarios = append([]string{}, d.CompletedScenarios...)
	out.UnlockedAchievements = append([]string{}, d.UnlockedAchievements...)
	out.UnlockedUpgrades = append([]string{}, d.UnlockedUpgrades...)
	out.HighScores = make(map[string]int, len(d.HighScores))
	for k, v := range d.HighScores {
		out.HighScores[k] = v
	}
	return out
}

// Record is the view completion rewards are computed from.
func (d Data) Record() flow.CareerRecord {
	return flow.CareerRecord{
		CompletedScenarios: d.CompletedScenarios,
		HighScores:         d.HighScores,
	}
}

// Permanent resolves the unlocked upgrades against a catalog.
func (d Data) Permanent(catalog modifier.Catalog) modifier.Permanent {
	return modifier.Resolve(d.UnlockedUpgrades, catalog)
}

// HasAchievement reports whether id is unlocked.
func (d Data) HasAchievement(id string) bool {
	return slices.Contains(d.UnlockedAchievements, id)
}

// ApplyCompletion books a victory into the career.
func ApplyCompletion(d Data, scenarioID string, score int, rewards flow.Rewards) Data {
	out := d.Clone()
	out.TotalCash += rewards.Cash
	out.CareerPoints += rewards.CareerPoints
	out.Reputation += rewards.Reputation

	if !slices.Contains(out.CompletedScenarios, scenarioID) {
		out.CompletedScenarios = append(out.CompletedScenarios, scenarioID)
	}
	if prev, ok := out.HighScores[scenarioID]; !ok || score > prev {
		out.HighScores[scenarioID] = score
	}
	return out
}

// Complete prices a victory against d and books it. Stores call it inside
// UpdateCareer so the first-clear bonus is decided by the stored career.
func Complete(d Data, scenario game.Scenario, score int, difficulty game.Difficulty, mode game.GameMode) (Data, flow.Rewards) {
	rewards := flow.CompletionRewards(scenario, score, d.Record(), difficulty, mode)
	return ApplyCompletion(d, scenario.ID, score, rewards), rewards
}

// UnlockAchievement adds id to the unlocked list. The bool is false when it
// was already unlocked.
func UnlockAchievement(d Data, id string) (Data, bool) {
	if id == "" || d.HasAchievement(id) {
		return d, false
	}
	out := d.Clone()
	out.UnlockedAchievements = append(out.UnlockedAchievements, id)
	return out, true
}

// GrantPoints adds career points, never dropping below zero.
func GrantPoints(d Data, points int) Data {
	out := d.Clone()
	out.CareerPoints = max(0, out.CareerPoints+points)
	return out
}

// RevokeAchievement removes id from the unlocked list.
func RevokeAchievement(d Data, id string) Data {
	out := d.Clone()
	out.UnlockedAchievements = slices.DeleteFunc(out.UnlockedAchievements, func(a string) bool { return a == id })
	return out
}
