package league

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conquest-league/stats-tracker/internal/database"
)

func newTestStore(t *testing.T) LeagueStore {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return New(db)
}

func testPlayer(id, name string) *Player {
	return &Player{
		ID:                   id,
		Name:                 name,
		Status:               StatusActive,
		FavoriteStrategy:     "Rush económico",
		FavoriteCivilization: "Francos",
	}
}

func testMatch(id string, date time.Time, players ...MatchPlayer) *Match {
	return &Match{
		ID:       id,
		Date:     date,
		Duration: "45:30",
		MapName:  "Arabia",
		GameMode: ModeFFA,
		Status:   MatchCompleted,
		Players:  players,
	}
}

func TestCreateAndGetPlayer(t *testing.T) {
	store := newTestStore(t)

	p := testPlayer("Stokker", "Stokker")
	require.NoError(t, store.CreatePlayer(p))
	assert.Equal(t, "stokker", p.ID, "id should be normalized on create")

	got, err := store.GetPlayer("STOKKER")
	require.NoError(t, err)
	assert.Equal(t, "stokker", got.ID)
	assert.Equal(t, "Stokker", got.Name)
	assert.Equal(t, StatusActive, got.Status)
	assert.Equal(t, "Rush económico", got.FavoriteStrategy)
	assert.Equal(t, int64(0), got.Version)
	assert.NotNil(t, got.MatchHistory)
	assert.Empty(t, got.MatchHistory)
}

func TestCreatePlayerValidation(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreatePlayer(testPlayer("stokker", "Stokker")))

	assert.True(t, IsValidation(store.CreatePlayer(testPlayer("", "Nameless"))))
	assert.True(t, IsValidation(store.CreatePlayer(testPlayer("noname", " "))))
	assert.True(t, IsValidation(store.CreatePlayer(testPlayer("stokker", "Other"))), "duplicate id")
	assert.True(t, IsValidation(store.CreatePlayer(testPlayer("other", "Stokker"))), "duplicate name")
}

func TestGetPlayerNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetPlayer("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPlayersFilters(t *testing.T) {
	store := newTestStore(t)

	active := testPlayer("stokker", "Stokker")
	active.Points = 10
	require.NoError(t, store.CreatePlayer(active))

	inactive := testPlayer("kylecher", "Kylecher")
	inactive.Status = StatusInactive
	inactive.FavoriteCivilization = "Bizantinos"
	require.NoError(t, store.CreatePlayer(inactive))

	all, err := store.ListPlayers("", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "stokker", all[0].ID, "ordered by points first")

	onlyActive, err := store.ListPlayers(StatusActive, "")
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, "stokker", onlyActive[0].ID)

	byCiv, err := store.ListPlayers("", "Bizantinos")
	require.NoError(t, err)
	require.Len(t, byCiv, 1)
	assert.Equal(t, "kylecher", byCiv[0].ID)
}

func TestUpdatePlayerProfile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreatePlayer(testPlayer("nicoz", "NicoZ")))

	p, err := store.GetPlayer("nicoz")
	require.NoError(t, err)
	p.FavoriteStrategy = "Boom imperial"
	p.Status = StatusSuspended
	require.NoError(t, store.UpdatePlayerProfile(p))

	got, err := store.GetPlayer("nicoz")
	require.NoError(t, err)
	assert.Equal(t, "Boom imperial", got.FavoriteStrategy)
	assert.Equal(t, StatusSuspended, got.Status)

	missing := testPlayer("ghost", "Ghost")
	assert.ErrorIs(t, store.UpdatePlayerProfile(missing), ErrNotFound)
}

func TestRemovePlayer(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreatePlayer(testPlayer("cairbus", "Cairbus")))

	require.NoError(t, store.RemovePlayer("cairbus"))
	_, err := store.GetPlayer("cairbus")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.RemovePlayer("cairbus"), ErrNotFound)
}

func TestSavePlayerBumpsVersion(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreatePlayer(testPlayer("stokker", "Stokker")))

	p, err := store.GetPlayer("stokker")
	require.NoError(t, err)

	p.ApplyMatchOutcome(MatchOutcome{
		Result: ResultWin,
		Points: 2,
		Scores: Scores{Military: 90, Economy: 85, Technology: 80, Society: 75},
		Date:   time.Now(),
	})
	require.NoError(t, store.SavePlayer(p))
	assert.Equal(t, int64(1), p.Version)

	got, err := store.GetPlayer("stokker")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Matches)
	assert.Equal(t, 1, got.Wins)
	assert.Equal(t, 2, got.Points)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, 90, got.CategoryStats.Military.Best)
}

func TestSavePlayerDetectsStaleVersion(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreatePlayer(testPlayer("stokker", "Stokker")))

	first, err := store.GetPlayer("stokker")
	require.NoError(t, err)
	second, err := store.GetPlayer("stokker")
	require.NoError(t, err)

	require.NoError(t, store.SavePlayer(first))

	err = store.SavePlayer(second)
	assert.ErrorIs(t, err, ErrConflict)

	// The record still reflects exactly one write.
	got, err := store.GetPlayer("stokker")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
}

func TestSavePlayerNotFound(t *testing.T) {
	store := newTestStore(t)
	err := store.SavePlayer(testPlayer("ghost", "Ghost"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, errors.Is(err, ErrConflict))
}

func TestCreateAndGetMatch(t *testing.T) {
	store := newTestStore(t)
	date := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)

	m := testMatch("match_1", date,
		MatchPlayer{PlayerID: "stokker", PlayerName: "Stokker", TotalScore: 320, Position: 1, Points: 1},
		MatchPlayer{PlayerID: "kylecher", PlayerName: "Kylecher", TotalScore: 318, Position: 2, Points: 0},
	)
	require.NoError(t, store.CreateMatch(m))
	assert.Equal(t, "regular_season", m.TournamentPhase, "defaulted on create")

	got, err := store.GetMatch("match_1")
	require.NoError(t, err)
	assert.Equal(t, MatchCompleted, got.Status)
	assert.False(t, got.StatsApplied)
	require.Len(t, got.Players, 2)
	assert.Equal(t, "stokker", got.Players[0].PlayerID)
	assert.Equal(t, 320, got.Players[0].TotalScore)
	assert.Equal(t, date.Unix(), got.Date.Unix())

	assert.True(t, IsValidation(store.CreateMatch(testMatch("match_1", date))), "duplicate id")

	_, err = store.GetMatch("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMatchesFilters(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	require.NoError(t, store.CreateMatch(testMatch("match_1", base,
		MatchPlayer{PlayerID: "stokker"}, MatchPlayer{PlayerID: "kylecher"})))
	require.NoError(t, store.CreateMatch(testMatch("match_2", base.Add(24*time.Hour),
		MatchPlayer{PlayerID: "stokker"}, MatchPlayer{PlayerID: "nicoz"})))
	cancelled := testMatch("match_3", base.Add(48*time.Hour), MatchPlayer{PlayerID: "nicoz"})
	cancelled.Status = MatchCancelled
	require.NoError(t, store.CreateMatch(cancelled))

	all, err := store.ListMatches(MatchFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "match_3", all[0].ID, "newest first")

	completed, err := store.ListMatches(MatchFilter{Status: MatchCompleted})
	require.NoError(t, err)
	assert.Len(t, completed, 2)

	byPlayer, err := store.ListMatches(MatchFilter{PlayerID: "KYLECHER"})
	require.NoError(t, err)
	require.Len(t, byPlayer, 1)
	assert.Equal(t, "match_1", byPlayer[0].ID)

	limited, err := store.ListMatches(MatchFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "match_2", limited[0].ID)
}

func TestListMatchesPlayerFilterWithLimit(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	// One old match for stokker, then three newer ones without him. The
	// limit must apply to his matches, not to the newest rows overall.
	require.NoError(t, store.CreateMatch(testMatch("match_1", base,
		MatchPlayer{PlayerID: "stokker"}, MatchPlayer{PlayerID: "kylecher"})))
	for i, id := range []string{"match_2", "match_3", "match_4"} {
		require.NoError(t, store.CreateMatch(testMatch(id, base.Add(time.Duration(i+1)*24*time.Hour),
			MatchPlayer{PlayerID: "nicoz"}, MatchPlayer{PlayerID: "gato_alado"})))
	}

	got, err := store.ListMatches(MatchFilter{PlayerID: "stokker", Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "match_1", got[0].ID)

	nicoz, err := store.ListMatches(MatchFilter{PlayerID: "nicoz", Limit: 2})
	require.NoError(t, err)
	require.Len(t, nicoz, 2)
	assert.Equal(t, "match_4", nicoz[0].ID, "newest first")
	assert.Equal(t, "match_3", nicoz[1].ID)
}

func TestUpdateMatchStatus(t *testing.T) {
	store := newTestStore(t)
	m := testMatch("match_1", time.Now())
	m.Status = MatchInProgress
	require.NoError(t, store.CreateMatch(m))

	require.NoError(t, store.UpdateMatchStatus("match_1", MatchCompleted))
	got, err := store.GetMatch("match_1")
	require.NoError(t, err)
	assert.Equal(t, MatchCompleted, got.Status)

	assert.ErrorIs(t, store.UpdateMatchStatus("missing", MatchCancelled), ErrNotFound)
}

func TestSetMatchWinner(t *testing.T) {
	store := newTestStore(t)
	m := testMatch("match_1", time.Now())
	m.Status = MatchInProgress
	m.Winner = ""
	require.NoError(t, store.CreateMatch(m))

	require.NoError(t, store.SetMatchWinner("match_1", "Player stokker"))
	got, err := store.GetMatch("match_1")
	require.NoError(t, err)
	assert.Equal(t, "Player stokker", got.Winner)

	assert.ErrorIs(t, store.SetMatchWinner("missing", "nobody"), ErrNotFound)
}

func TestMarkStatsAppliedIsOneShot(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateMatch(testMatch("match_1", time.Now())))

	require.NoError(t, store.MarkStatsApplied("match_1"))

	err := store.MarkStatsApplied("match_1")
	assert.ErrorIs(t, err, ErrConflict)

	assert.ErrorIs(t, store.MarkStatsApplied("missing"), ErrNotFound)

	got, err := store.GetMatch("match_1")
	require.NoError(t, err)
	assert.True(t, got.StatsApplied)
}

func TestRecentMatchesAndCount(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.CreateMatch(testMatch(
			"match_"+string(rune('a'+i)), base.Add(time.Duration(i)*time.Hour))))
	}

	recent, err := store.RecentMatches(3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "match_e", recent[0].ID)

	count, err := store.CountCompletedMatches()
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreatePlayer(testPlayer("stokker", "Stokker")))
	require.NoError(t, store.CreateMatch(testMatch("match_1", time.Now())))

	store.Clear()

	players, err := store.ListPlayers("", "")
	require.NoError(t, err)
	assert.Empty(t, players)
	count, err := store.CountCompletedMatches()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMatchHistoryRoundTrip(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreatePlayer(testPlayer("stokker", "Stokker")))

	p, err := store.GetPlayer("stokker")
	require.NoError(t, err)
	p.AppendHistory(HistoryEntry{
		MatchID:      "match_1",
		Date:         time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC),
		MapName:      "Arabia",
		Opponent:     "Kylecher",
		Result:       ResultWin,
		Position:     1,
		TotalPlayers: 2,
		TotalScore:   320,
	}, DefaultHistoryLimit)
	require.NoError(t, store.SavePlayer(p))

	got, err := store.GetPlayer("stokker")
	require.NoError(t, err)
	require.Len(t, got.MatchHistory, 1)
	assert.Equal(t, "match_1", got.MatchHistory[0].MatchID)
	assert.Equal(t, ResultWin, got.MatchHistory[0].Result)
	assert.Equal(t, "Kylecher", got.MatchHistory[0].Opponent)
}
