package notifier

import (
	"github.com/conquest-league/stats-tracker/internal/league"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For completed matches
	SendResultNotification(match *league.Match, dryRun bool) (string, error)
	// For leaderboard broadcasts
	SendLeaderboard(entries []league.LeaderboardEntry, dryRun bool) error
	SendPlayerStats(player *league.Player, query string, dryRun bool) error
	SendPlayerNotFound(query string, dryRun bool) error
}
