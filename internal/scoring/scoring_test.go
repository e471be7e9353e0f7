package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conquest-league/stats-tracker/internal/league"
)

func uniform(id string, score int) PlayerScores {
	return PlayerScores{
		PlayerID: id,
		Scores:   league.Scores{Military: score, Economy: score, Technology: score, Society: score},
	}
}

func TestComputeResultRanksByTotalDescending(t *testing.T) {
	ranked, err := ComputeResult([]PlayerScores{
		{PlayerID: "kylecher", Scores: league.Scores{Military: 80, Economy: 80, Technology: 80, Society: 78}}, // 318
		{PlayerID: "stokker", Scores: league.Scores{Military: 80, Economy: 80, Technology: 80, Society: 80}},  // 320
		{PlayerID: "nicoz", Scores: league.Scores{Military: 80, Economy: 80, Technology: 80, Society: 75}},    // 315
	}, DefaultBounds)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "stokker", ranked[0].PlayerID)
	assert.Equal(t, 320, ranked[0].TotalScore)
	assert.Equal(t, 1, ranked[0].Position)
	assert.Equal(t, 2, ranked[0].Points)

	assert.Equal(t, "kylecher", ranked[1].PlayerID)
	assert.Equal(t, 2, ranked[1].Position)
	assert.Equal(t, 1, ranked[1].Points)

	assert.Equal(t, "nicoz", ranked[2].PlayerID)
	assert.Equal(t, 3, ranked[2].Position)
	assert.Equal(t, 0, ranked[2].Points)
}

func TestComputeResultPositionsAndPointsInvariants(t *testing.T) {
	entries := []PlayerScores{
		uniform("a", 90),
		uniform("b", 70),
		uniform("c", 85),
		uniform("d", 60),
		uniform("e", 77),
	}
	ranked, err := ComputeResult(entries, DefaultBounds)
	require.NoError(t, err)

	n := len(entries)
	seen := make(map[int]bool)
	totalPoints := 0
	for _, r := range ranked {
		assert.False(t, seen[r.Position], "position %d assigned twice", r.Position)
		seen[r.Position] = true
		assert.GreaterOrEqual(t, r.Position, 1)
		assert.LessOrEqual(t, r.Position, n)
		totalPoints += r.Points
	}
	assert.Equal(t, n*(n-1)/2, totalPoints)
}

func TestComputeResultTiesKeepSubmittedOrder(t *testing.T) {
	ranked, err := ComputeResult([]PlayerScores{
		uniform("first", 80),
		uniform("second", 80),
		uniform("third", 80),
	}, DefaultBounds)
	require.NoError(t, err)

	assert.Equal(t, "first", ranked[0].PlayerID)
	assert.Equal(t, "second", ranked[1].PlayerID)
	assert.Equal(t, "third", ranked[2].PlayerID)
}

func TestComputeResultNormalizesIDs(t *testing.T) {
	ranked, err := ComputeResult([]PlayerScores{
		uniform("  Stokker ", 90),
		uniform("kylecher", 80),
	}, DefaultBounds)
	require.NoError(t, err)
	assert.Equal(t, "stokker", ranked[0].PlayerID)
}

func TestComputeResultValidation(t *testing.T) {
	tests := []struct {
		name    string
		entries []PlayerScores
	}{
		{"single player", []PlayerScores{uniform("solo", 80)}},
		{"empty", nil},
		{"duplicate player", []PlayerScores{uniform("a", 80), uniform("A", 70)}},
		{"missing id", []PlayerScores{uniform("a", 80), uniform("  ", 70)}},
		{"score above max", []PlayerScores{uniform("a", 101), uniform("b", 70)}},
		{"score below min", []PlayerScores{uniform("a", -1), uniform("b", 70)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeResult(tt.entries, DefaultBounds)
			require.Error(t, err)
			assert.True(t, league.IsValidation(err))
		})
	}
}

func TestPointsForPosition(t *testing.T) {
	assert.Equal(t, 3, PointsForPosition(4, 1))
	assert.Equal(t, 2, PointsForPosition(4, 2))
	assert.Equal(t, 0, PointsForPosition(4, 4))
	assert.Equal(t, 0, PointsForPosition(2, 3))
	assert.Equal(t, 1, PointsForPosition(2, 1))
}
