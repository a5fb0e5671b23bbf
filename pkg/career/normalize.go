package career

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/content"
)

// Known lists the ids a career may reference. A nil list accepts any id.
type Known struct {
	Scenarios    []string
	Upgrades     []string
	Achievements []string
}

// KnownFrom collects the scenario and upgrade ids of a content set.
// Achievements stay open since rules define them.
func KnownFrom(tables *content.Tables) Known {
	return Known{
		Scenarios: tables.ScenarioIDs(),
		Upgrades:  tables.Catalog().IDs(),
	}
}

func accept(known []string) func(string) bool {
	if known == nil {
		return func(id string) bool { return id != "" }
	}
	set := make(map[string]bool, len(known))
	for _, id := range known {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

// NormalizeJSON decodes a stored career blob. Anything undecodable yields an
// empty career.
func NormalizeJSON(data []byte, known Known) Data {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return New()
	}
	return Normalize(raw, known)
}

// Normalize coerces arbitrary input into a valid career. Each field is
// repaired on its own; a corrupt field falls back to its default without
// discarding the rest.
func Normalize(raw any, known Known) Data {
	switch v := raw.(type) {
	case Data:
		return Normalize(toMap(v), known)
	case *Data:
		if v == nil {
			return New()
		}
		return Normalize(toMap(*v), known)
	case map[string]any:
		return normalizeMap(v, known)
	default:
		return New()
	}
}

func toMap(d Data) map[string]any {
	highScores := make(map[string]any, len(d.HighScores))
	for k, v := range d.HighScores {
		highScores[k] = v
	}
	return map[string]any{
		"totalCash":            d.TotalCash,
		"completedScenarios":   d.CompletedScenarios,
		"highScores":           highScores,
		"unlockedAchievements": d.UnlockedAchievements,
		"unlockedUpgrades":     d.UnlockedUpgrades,
		"careerPoints":         d.CareerPoints,
		"reputation":           d.Reputation,
	}
}

func normalizeMap(m map[string]any, known Known) Data {
	out := New()
	out.TotalCash = toInt(m["totalCash"])
	out.CareerPoints = max(0, toInt(m["careerPoints"]))
	out.Reputation = max(0, toInt(m["reputation"]))

	scenarioOK := accept(known.Scenarios)
	out.CompletedScenarios = uniqueStrings(m["completedScenarios"], scenarioOK)
	out.UnlockedUpgrades = uniqueStrings(m["unlockedUpgrades"], accept(known.Upgrades))
	out.UnlockedAchievements = uniqueStrings(m["unlockedAchievements"], accept(known.Achievements))

	if scores, ok := m["highScores"].(map[string]any); ok {
		for id, v := range scores {
			if scenarioOK(id) {
				out.HighScores[id] = max(0, toInt(v))
			}
		}
	}
	return out
}

// toInt accepts any numeric shape. Non-numeric and non-finite values become 0.
func toInt(v any) int {
	f, ok := toFloat(v)
	if !ok || !common.Finite(f) {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return common.Round(f)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func uniqueStrings(v any, keep func(string) bool) []string {
	out := []string{}
	seen := map[string]bool{}
	add := func(s string) {
		if !seen[s] && keep(s) {
			seen[s] = true
			out = append(out, s)
		}
	}

	switch list := v.(type) {
	case []string:
		for _, s := range list {
			add(s)
		}
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	}
	return out
}
