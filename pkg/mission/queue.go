package mission

import (
	"math"

	"github.com/russofg/event-chaos-sub000/pkg/common"
	"github.com/russofg/event-chaos-sub000/pkg/game"
	"github.com/russofg/event-chaos-sub000/pkg/random"
)

// DefaultLookahead is how many queued missions the picker considers.
const DefaultLookahead = 4

// Lookup resolves a mission id to its definition.
type Lookup func(id string) (game.MissionDefinition, bool)

// Pick is the chosen mission and where it sits in the queue.
type Pick struct {
	MissionID string  `json:"missionId"`
	Index     int     `json:"index"`
	Score     float64 `json:"score"`
}

// PickAdaptive scores the next few queued missions and returns the best fit.
// randomFactor in [0, 1) adds a small deterministic tiebreak.
// Returns false when no candidate in the window is usable.
func PickAdaptive(
	queue []string,
	cursor int,
	lookup Lookup,
	systems game.Systems,
	ctx Context,
	lookahead int,
	randomFactor float64,
) (Pick, bool) {
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	if cursor < 0 || cursor >= len(queue) {
		return Pick{}, false
	}

	end := min(cursor+lookahead, len(queue))
	target := TargetComplexity(ctx)
	ratio := ctx.budgetRatio()

	best := Pick{Index: -1, Score: math.Inf(-1)}
	for i := cursor; i < end; i++ {
		def, ok := lookup(queue[i])
		if !ok || !def.AllowedIn(ctx.ScenarioID) {
			continue
		}

		offset := i - cursor
		complexity := Complexity(def)
		alignment := 1 - math.Abs(complexity-target)
		fit := SystemFit(def, systems)

		economyNeed := 0.0
		if ratio < 0.5 {
			economyNeed = common.Clamp01((0.5-ratio)/0.5) * common.Clamp01(def.RewardCash/2000)
		}

		positional := float64(lookahead-offset) / float64(lookahead)
		_, noise := math.Modf(randomFactor*997 + float64(offset)*0.618)

		score := 0.42*alignment + 0.26*fit + 0.10*complexity + 0.16*economyNeed + 0.04*positional + 0.02*noise
		if score > best.Score {
			best = Pick{MissionID: def.ID, Index: i, Score: score}
		}
	}

	if best.Index < 0 {
		return Pick{}, false
	}
	return best, true
}

// SwapToCursor returns a copy of queue with the picked entry moved to the cursor.
func SwapToCursor(queue []string, cursor, index int) []string {
	out := append([]string(nil), queue...)
	if cursor >= 0 && index >= 0 && cursor < len(out) && index < len(out) {
		out[cursor], out[index] = out[index], out[cursor]
	}
	return out
}

// Shuffle returns a shuffled copy of ids.
func Shuffle(ids []string, src random.Source) []string {
	out := append([]string(nil), ids...)
	random.Shuffle(src, len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
