// Package scoring turns a raw set of per-player category scores for one match
// into a definitive ranking and point award. It is pure: no stored state, no
// side effects.
package scoring

import (
	"sort"

	"github.com/conquest-league/stats-tracker/internal/league"
)

// PlayerScores is one participant's raw submission line.
type PlayerScores struct {
	PlayerID string        `json:"player_id"`
	Scores   league.Scores `json:"scores"`
}

// Ranked is the computed outcome for one participant.
type Ranked struct {
	PlayerID   string
	Scores     league.Scores
	TotalScore int
	Position   int
	Points     int
}

// Bounds is the configured inclusive range a single category score must fall
// within.
type Bounds struct {
	Min int
	Max int
}

// DefaultBounds matches the historical 0-100 score range.
var DefaultBounds = Bounds{Min: 0, Max: 100}

// ComputeResult validates the submission, totals each player's categories,
// ranks by total score descending and assigns position and points.
//
// Ties in total score keep their submitted order (stable sort), so
// resubmitting the same payload always produces the same ranking.
//
// Points are max(0, N-position): N-1 for the winner, decreasing by one per
// rank step, floored at zero.
func ComputeResult(entries []PlayerScores, bounds Bounds) ([]Ranked, error) {
	if len(entries) < 2 {
		return nil, league.Validationf("at least 2 players are required for a match, got %d", len(entries))
	}

	seen := make(map[string]bool, len(entries))
	ranked := make([]Ranked, len(entries))
	for i, entry := range entries {
		id := league.NormalizeID(entry.PlayerID)
		if id == "" {
			return nil, league.Validationf("entry %d has no player id", i)
		}
		if seen[id] {
			return nil, league.Validationf("player %q appears more than once", id)
		}
		seen[id] = true

		for _, c := range league.Categories() {
			score := entry.Scores.Get(c)
			if score < bounds.Min || score > bounds.Max {
				return nil, league.Validationf("player %q %s score %d is outside [%d, %d]", id, c, score, bounds.Min, bounds.Max)
			}
		}

		ranked[i] = Ranked{
			PlayerID:   id,
			Scores:     entry.Scores,
			TotalScore: entry.Scores.Total(),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})

	n := len(ranked)
	for i := range ranked {
		ranked[i].Position = i + 1
		ranked[i].Points = PointsForPosition(n, ranked[i].Position)
	}
	return ranked, nil
}

// PointsForPosition is the single point-award rule: max(0, N-position).
func PointsForPosition(totalPlayers, position int) int {
	points := totalPlayers - position
	if points < 0 {
		return 0
	}
	return points
}
