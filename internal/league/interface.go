package league

// LeagueStore defines the interface for interacting with the league's data.
type LeagueStore interface {
	CreatePlayer(p *Player) error
	GetPlayer(id string) (*Player, error)
	ListPlayers(status PlayerStatus, search string) ([]*Player, error)
	UpdatePlayerProfile(p *Player) error
	RemovePlayer(id string) error
	// SavePlayer performs a conditional write: it only succeeds when the
	// stored version still matches p.Version, and bumps the version on
	// success. A mismatch returns ErrConflict.
	SavePlayer(p *Player) error

	CreateMatch(m *Match) error
	GetMatch(id string) (*Match, error)
	ListMatches(filter MatchFilter) ([]*Match, error)
	UpdateMatchStatus(matchID string, status MatchStatus) error
	SetMatchWinner(matchID string, winner string) error
	// MarkStatsApplied flips the one-shot aggregation guard for a match.
	// It returns ErrConflict when the flag was already set.
	MarkStatsApplied(matchID string) error
	RecentMatches(limit int) ([]*Match, error)
	CountCompletedMatches() (int, error)

	Clear()
}
