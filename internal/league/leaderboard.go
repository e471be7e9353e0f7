package league

import "sort"

// LeaderboardEntry is one ranked row of the leaderboard. WinRate and
// TotalAverage are derived for display and never persisted.
type LeaderboardEntry struct {
	Rank         int     `json:"rank"`
	PlayerID     string  `json:"player_id"`
	PlayerName   string  `json:"player_name"`
	Points       int     `json:"points"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Matches      int     `json:"matches"`
	WinRate      float64 `json:"win_rate"`
	TotalAverage float64 `json:"total_average"`
}

// WinRate is the player's win percentage, zero when no matches are recorded.
func (p *Player) WinRate() float64 {
	if p.Matches == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Matches) * 100
}

// TotalAverage is the mean of the four category averages.
func (p *Player) TotalAverage() float64 {
	cs := p.CategoryStats
	return (cs.Military.Average + cs.Economy.Average + cs.Technology.Average + cs.Society.Average) / 4
}

// BuildLeaderboard ranks active players: points descending, then wins
// descending, then matches ascending (fewer games played ranks higher among
// equals). Deterministic for identical input records; limit <= 0 returns all.
func BuildLeaderboard(players []*Player, limit int) []LeaderboardEntry {
	ranked := make([]*Player, 0, len(players))
	for _, p := range players {
		if p.Status != StatusActive {
			continue
		}
		ranked = append(ranked, p)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.Matches < b.Matches
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	entries := make([]LeaderboardEntry, len(ranked))
	for i, p := range ranked {
		entries[i] = LeaderboardEntry{
			Rank:         i + 1,
			PlayerID:     p.ID,
			PlayerName:   p.Name,
			Points:       p.Points,
			Wins:         p.Wins,
			Losses:       p.Losses,
			Matches:      p.Matches,
			WinRate:      p.WinRate(),
			TotalAverage: p.TotalAverage(),
		}
	}
	return entries
}
