package processor

import (
	"github.com/conquest-league/stats-tracker/internal/league"
	"github.com/conquest-league/stats-tracker/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetPlayer(id string) (*league.Player, error)
	SavePlayer(p *league.Player) error
	CreateMatch(m *league.Match) error
	GetMatch(id string) (*league.Match, error)
	UpdateMatchStatus(matchID string, status league.MatchStatus) error
	SetMatchWinner(matchID string, winner string) error
	MarkStatsApplied(matchID string) error
}

// Notifier defines the notification operations required by the processor.
// This is an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
