package league

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcome(result Result, points int, scores Scores) MatchOutcome {
	return MatchOutcome{
		Result: result,
		Scores: scores,
		Points: points,
		Date:   time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC),
	}
}

func TestApplyMatchOutcomeCounters(t *testing.T) {
	p := &Player{ID: "stokker", Status: StatusActive}

	p.ApplyMatchOutcome(outcome(ResultWin, 3, Scores{Military: 80, Economy: 80, Technology: 80, Society: 80}))
	p.ApplyMatchOutcome(outcome(ResultLoss, 0, Scores{Military: 60, Economy: 60, Technology: 60, Society: 60}))
	p.ApplyMatchOutcome(outcome(ResultLoss, 1, Scores{Military: 70, Economy: 70, Technology: 70, Society: 70}))

	assert.Equal(t, 3, p.Matches)
	assert.Equal(t, 1, p.Wins)
	assert.Equal(t, 2, p.Losses)
	assert.Equal(t, 0, p.Draws)
	assert.Equal(t, 4, p.Points)
	assert.Equal(t, 2026, p.LastActive.Year())
}

func TestCategoryStatFirstScoreInitializesBestAndWorst(t *testing.T) {
	p := &Player{ID: "nicoz"}

	// First recorded military score is 2. With a zero-initialized worst this
	// would be unrepresentable; Matches == 0 marks the stat untouched instead.
	p.ApplyMatchOutcome(outcome(ResultLoss, 0, Scores{Military: 2, Economy: 50, Technology: 50, Society: 50}))

	military := p.CategoryStats.Get(CategoryMilitary)
	assert.Equal(t, 2, military.Best)
	assert.Equal(t, 2, military.Worst)
	assert.Equal(t, 1, military.Matches)
	assert.Equal(t, 2.0, military.Average)
}

func TestCategoryStatRunningAggregate(t *testing.T) {
	p := &Player{ID: "kylecher"}

	// Existing total 160 over 2 matches, then a third score of 95.
	p.ApplyMatchOutcome(outcome(ResultLoss, 0, Scores{Military: 85, Economy: 70, Technology: 70, Society: 70}))
	p.ApplyMatchOutcome(outcome(ResultLoss, 0, Scores{Military: 75, Economy: 70, Technology: 70, Society: 70}))
	p.ApplyMatchOutcome(outcome(ResultWin, 2, Scores{Military: 95, Economy: 70, Technology: 70, Society: 70}))

	military := p.CategoryStats.Get(CategoryMilitary)
	assert.Equal(t, 255, military.Total)
	assert.Equal(t, 3, military.Matches)
	assert.InDelta(t, 85.0, military.Average, 1e-9)
	assert.Equal(t, 95, military.Best)
	assert.Equal(t, 75, military.Worst)
}

func TestAverageEqualsTotalOverMatches(t *testing.T) {
	p := &Player{ID: "gato_alado"}
	scores := []int{13, 97, 41, 7, 88, 64, 100, 0, 55, 72}
	for _, s := range scores {
		p.ApplyMatchOutcome(outcome(ResultLoss, 0, Scores{Economy: s}))
	}

	economy := p.CategoryStats.Get(CategoryEconomy)
	require.Equal(t, len(scores), economy.Matches)
	assert.InDelta(t, float64(economy.Total)/float64(economy.Matches), economy.Average, 1e-9)
	assert.Equal(t, 100, economy.Best)
	assert.Equal(t, 0, economy.Worst)
}

func TestAppendHistoryNewestFirstAndCapped(t *testing.T) {
	p := &Player{ID: "cairbus"}

	for i := 1; i <= 25; i++ {
		p.AppendHistory(HistoryEntry{MatchID: fmt.Sprintf("match_%d", i)}, DefaultHistoryLimit)
	}

	require.Len(t, p.MatchHistory, DefaultHistoryLimit)
	assert.Equal(t, "match_25", p.MatchHistory[0].MatchID)
	assert.Equal(t, "match_6", p.MatchHistory[DefaultHistoryLimit-1].MatchID)
}

func TestAppendHistoryZeroLimitUsesDefault(t *testing.T) {
	p := &Player{ID: "artibool"}
	for i := 0; i < 30; i++ {
		p.AppendHistory(HistoryEntry{MatchID: fmt.Sprintf("match_%d", i)}, 0)
	}
	assert.Len(t, p.MatchHistory, DefaultHistoryLimit)
}

func TestHistoryEntryForSnapshotsMatch(t *testing.T) {
	match := &Match{
		ID:       "match_1",
		Date:     time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC),
		MapName:  "Arabia",
		Duration: "45:30",
		Players: []MatchPlayer{
			{PlayerID: "stokker", Position: 1},
			{PlayerID: "kylecher", Position: 2},
		},
	}
	mp := MatchPlayer{
		PlayerID:   "kylecher",
		Position:   2,
		Scores:     Scores{Military: 80, Economy: 80, Technology: 80, Society: 78},
		TotalScore: 318,
	}

	entry := HistoryEntryFor(match, mp, "Stokker")
	assert.Equal(t, "match_1", entry.MatchID)
	assert.Equal(t, ResultLoss, entry.Result)
	assert.Equal(t, 2, entry.Position)
	assert.Equal(t, 2, entry.TotalPlayers)
	assert.Equal(t, "Stokker", entry.Opponent)
	assert.Equal(t, 318, entry.TotalScore)

	// Mutating the match afterwards must not reach the recorded entry.
	match.MapName = "Arena"
	assert.Equal(t, "Arabia", entry.MapName)
}
