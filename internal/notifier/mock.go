package notifier

import (
	"sync"

	"github.com/conquest-league/stats-tracker/internal/league"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendResultNotificationFunc func(match *league.Match, dryRun bool) (string, error)
	SendLeaderboardFunc        func(entries []league.LeaderboardEntry, dryRun bool) error
	SendPlayerStatsFunc        func(player *league.Player, query string, dryRun bool) error
	SendPlayerNotFoundFunc     func(query string, dryRun bool) error

	// Call records
	SendResultNotificationCalls []struct{ Match *league.Match }
	SendLeaderboardCalls        [][]league.LeaderboardEntry
	SendLeaderboardDryRuns      []bool
	SendPlayerStatsCalls        []struct {
		Player *league.Player
		Query  string
	}
	SendPlayerNotFoundCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = nil
	m.SendLeaderboardCalls = nil
	m.SendLeaderboardDryRuns = nil
	m.SendPlayerStatsCalls = nil
	m.SendPlayerNotFoundCalls = nil
}

func (m *Mock) SendResultNotification(match *league.Match, dryRun bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, struct{ Match *league.Match }{match})
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(match, dryRun)
	}
	return "", nil
}

func (m *Mock) SendLeaderboard(entries []league.LeaderboardEntry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, entries)
	m.SendLeaderboardDryRuns = append(m.SendLeaderboardDryRuns, dryRun)
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(entries, dryRun)
	}
	return nil
}

func (m *Mock) SendPlayerStats(player *league.Player, query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerStatsCalls = append(m.SendPlayerStatsCalls, struct {
		Player *league.Player
		Query  string
	}{player, query})
	if m.SendPlayerStatsFunc != nil {
		return m.SendPlayerStatsFunc(player, query, dryRun)
	}
	return nil
}

func (m *Mock) SendPlayerNotFound(query string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendPlayerNotFoundCalls = append(m.SendPlayerNotFoundCalls, query)
	if m.SendPlayerNotFoundFunc != nil {
		return m.SendPlayerNotFoundFunc(query, dryRun)
	}
	return nil
}
