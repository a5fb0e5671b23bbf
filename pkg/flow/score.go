package flow

import (
	"math"
	"slices"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/game"
)

var difficultyScoreMultiplier = map[game.Difficulty]float64{
	game.DifficultyTutorial: 0.5,
	game.DifficultyEasy:     0.8,
	game.DifficultyNormal:   1,
	game.DifficultyHard:     1.35,
}

var modeScoreMultiplier = map[game.GameMode]float64{
	game.ModeNormal:   1,
	game.ModeHardcore: 1.5,
	game.ModeEndless:  1.2,
	game.ModeSpeedrun: 1.25,
}

// DifficultyMultiplier scales scores and cash rewards by difficulty.
func DifficultyMultiplier(d game.Difficulty) float64 {
	if m, ok := difficultyScoreMultiplier[d]; ok {
		return m
	}
	return 1
}

// ModeMultiplier scales scores and cash rewards by game mode.
func ModeMultiplier(m game.GameMode) float64 {
	if v, ok := modeScoreMultiplier[m]; ok {
		return v
	}
	return 1
}

// ScenarioScore rates a finished session.
func ScenarioScore(stats game.GameStats, difficulty game.Difficulty, mode game.GameMode) int {
	blend := 0.35*stats.PublicInterest + 0.4*stats.ClientSatisfaction + 0.25*(100-stats.Stress)
	raw := blend*10 + math.Max(0, stats.Budget)/50
	return common.Round(raw * DifficultyMultiplier(difficulty) * ModeMultiplier(mode))
}

// CareerRecord is the slice of career progress completion rewards read.
type CareerRecord struct {
	CompletedScenarios []string
	HighScores         map[string]int
}

// Rewards is what a victory pays into the career.
type Rewards struct {
	Cash         int  `json:"cash"`
	CareerPoints int  `json:"careerPoints"`
	Reputation   int  `json:"reputation"`
	FirstClear   bool `json:"firstClear"`
	NewHighScore bool `json:"newHighScore"`
}

// CompletionRewards prices a victory. Cash scales with difficulty and mode;
// the first clear of a scenario pays it in full and repeats pay a fraction.
func CompletionRewards(scenario game.Scenario, score int, career CareerRecord, difficulty game.Difficulty, mode game.GameMode) Rewards {
	first := !slices.Contains(career.CompletedScenarios, scenario.ID)
	cash := math.Max(scenario.BaseReward, 0) * DifficultyMultiplier(difficulty) * ModeMultiplier(mode)

	r := Rewards{FirstClear: first}
	if first {
		r.Cash = common.Round(cash)
		r.CareerPoints = 3 + difficulty.Rank()
		r.Reputation = 10
	} else {
		r.Cash = common.Round(cash * 0.35)
		r.CareerPoints = 1
		r.Reputation = 2
	}

	if prev, ok := career.HighScores[scenario.ID]; !ok || score > prev {
		r.NewHighScore = true
		r.Reputation += 5
	}
	return r
}
