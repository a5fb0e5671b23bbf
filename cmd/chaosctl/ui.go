package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
	"github.com/russofg/event-chaos-sub000/pkg/session"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

func renderSummary(w io.Writer, s session.Summary) {
	accent.Fprintf(w, "\n== %s ==\n", strings.ToUpper(s.ScenarioID))

	switch s.Outcome {
	case game.OutcomeVictory:
		success.Fprintf(w, "%-12s %s\n", "outcome", s.Outcome)
	case game.OutcomeGameOver:
		danger.Fprintf(w, "%-12s %s\n", "outcome", s.Outcome)
	default:
		warn.Fprintf(w, "%-12s %s\n", "outcome", "UNFINISHED")
	}
	fmt.Fprintf(w, "%-12s %d\n", "score", s.Score)
	fmt.Fprintf(w, "%-12s %s\n", "elapsed", s.Elapsed.Round(100*time.Millisecond))

	neutral.Fprintln(w, "\nmeters")
	fmt.Fprintf(w, "  %-20s %6.1f\n", "public interest", s.Stats.PublicInterest)
	fmt.Fprintf(w, "  %-20s %6.1f\n", "client satisfaction", s.Stats.ClientSatisfaction)
	fmt.Fprintf(w, "  %-20s %s\n", "stress", colorizeStress(s.Stats.Stress))
	fmt.Fprintf(w, "  %-20s %s\n", "budget", colorizeBudget(s.Stats.Budget))

	t := s.Telemetry
	neutral.Fprintln(w, "\nincidents")
	fmt.Fprintf(w, "  %-20s %d\n", "resolved", t.ResolvedEvents)
	fmt.Fprintf(w, "  %-20s %d\n", "failed", t.FailedEvents)
	fmt.Fprintf(w, "  %-20s %d\n", "expired", t.ExpiredEvents)

	if len(s.Counts) > 0 {
		neutral.Fprintln(w, "\noutcomes")
		kinds := make([]string, 0, len(s.Counts))
		for k := range s.Counts {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(w, "  %-20s %d\n", k, s.Counts[session.Kind(k)])
		}
	}

	if s.Rewards != nil {
		neutral.Fprintln(w, "\nrewards")
		fmt.Fprintf(w, "  %-20s %d\n", "cash", s.Rewards.Cash)
		fmt.Fprintf(w, "  %-20s %d\n", "career points", s.Rewards.CareerPoints)
		fmt.Fprintf(w, "  %-20s %d\n", "reputation", s.Rewards.Reputation)
		if s.Rewards.FirstClear {
			success.Fprintln(w, "  first clear!")
		}
		if s.Rewards.NewHighScore {
			success.Fprintln(w, "  new high score!")
		}
	}
	fmt.Fprintln(w)
}

func renderCareer(w io.Writer, playerID string, d career.Data) {
	accent.Fprintf(w, "\n== CAREER %s ==\n", playerID)
	fmt.Fprintf(w, "%-14s %d\n", "cash", d.TotalCash)
	fmt.Fprintf(w, "%-14s %d\n", "points", d.CareerPoints)
	fmt.Fprintf(w, "%-14s %d\n", "reputation", d.Reputation)
	fmt.Fprintf(w, "%-14s %s\n", "completed", listOrDash(d.CompletedScenarios))
	fmt.Fprintf(w, "%-14s %s\n", "upgrades", listOrDash(d.UnlockedUpgrades))
	fmt.Fprintf(w, "%-14s %s\n", "achievements", listOrDash(d.UnlockedAchievements))

	if len(d.HighScores) > 0 {
		neutral.Fprintln(w, "\nhigh scores")
		ids := make([]string, 0, len(d.HighScores))
		for id := range d.HighScores {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(w, "  %-20s %d\n", id, d.HighScores[id])
		}
	}
	fmt.Fprintln(w)
}

func renderLeaderboard(w io.Writer, scenarioID string, entries []rule.LeaderboardEntry) {
	accent.Fprintf(w, "\n== LEADERBOARD %s ==\n", strings.ToUpper(scenarioID))
	if len(entries) == 0 {
		neutral.Fprintln(w, "No scores yet.")
		return
	}
	fmt.Fprintf(w, "%-6s %-24s %10s\n", "RANK", "PLAYER", "SCORE")
	for _, e := range entries {
		fmt.Fprintf(w, "%-6d %-24s %10d\n", e.Rank, truncate(e.PlayerID, 24), e.Score)
	}
	fmt.Fprintln(w)
}

func colorizeStress(v float64) string {
	s := fmt.Sprintf("%6.1f", v)
	switch {
	case v >= 85:
		return danger.Sprint(s)
	case v >= 60:
		return warn.Sprint(s)
	default:
		return success.Sprint(s)
	}
}

func colorizeBudget(v float64) string {
	s := fmt.Sprintf("%6.0f", v)
	if v < 0 {
		return danger.Sprint(s)
	}
	return s
}

func listOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
