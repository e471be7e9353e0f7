package league

import (
	"sync"
)

// MockStore is a mock implementation of the LeagueStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreatePlayerFunc          func(p *Player) error
	GetPlayerFunc             func(id string) (*Player, error)
	ListPlayersFunc           func(status PlayerStatus, search string) ([]*Player, error)
	UpdatePlayerProfileFunc   func(p *Player) error
	RemovePlayerFunc          func(id string) error
	SavePlayerFunc            func(p *Player) error
	CreateMatchFunc           func(m *Match) error
	GetMatchFunc              func(id string) (*Match, error)
	ListMatchesFunc           func(filter MatchFilter) ([]*Match, error)
	UpdateMatchStatusFunc     func(matchID string, status MatchStatus) error
	SetMatchWinnerFunc        func(matchID string, winner string) error
	MarkStatsAppliedFunc      func(matchID string) error
	RecentMatchesFunc         func(limit int) ([]*Match, error)
	CountCompletedMatchesFunc func() (int, error)

	// Call records
	CreatePlayerCalls      []*Player
	GetPlayerCalls         []string
	SavePlayerCalls        []*Player
	CreateMatchCalls       []*Match
	UpdateMatchStatusCalls []struct {
		MatchID string
		Status  MatchStatus
	}
	SetMatchWinnerCalls []struct {
		MatchID string
		Winner  string
	}
	MarkStatsAppliedCalls []string
	RemovePlayerCalls     []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatePlayerCalls = nil
	m.GetPlayerCalls = nil
	m.SavePlayerCalls = nil
	m.CreateMatchCalls = nil
	m.UpdateMatchStatusCalls = nil
	m.SetMatchWinnerCalls = nil
	m.MarkStatsAppliedCalls = nil
	m.RemovePlayerCalls = nil
}

func (m *MockStore) CreatePlayer(p *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatePlayerCalls = append(m.CreatePlayerCalls, p)
	if m.CreatePlayerFunc != nil {
		return m.CreatePlayerFunc(p)
	}
	return nil
}

func (m *MockStore) GetPlayer(id string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayerCalls = append(m.GetPlayerCalls, id)
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) ListPlayers(status PlayerStatus, search string) ([]*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc(status, search)
	}
	return nil, nil
}

func (m *MockStore) UpdatePlayerProfile(p *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdatePlayerProfileFunc != nil {
		return m.UpdatePlayerProfileFunc(p)
	}
	return nil
}

func (m *MockStore) RemovePlayer(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemovePlayerCalls = append(m.RemovePlayerCalls, id)
	if m.RemovePlayerFunc != nil {
		return m.RemovePlayerFunc(id)
	}
	return nil
}

func (m *MockStore) SavePlayer(p *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SavePlayerCalls = append(m.SavePlayerCalls, p)
	if m.SavePlayerFunc != nil {
		return m.SavePlayerFunc(p)
	}
	return nil
}

func (m *MockStore) CreateMatch(match *Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateMatchCalls = append(m.CreateMatchCalls, match)
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(match)
	}
	return nil
}

func (m *MockStore) GetMatch(id string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) ListMatches(filter MatchFilter) ([]*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(filter)
	}
	return nil, nil
}

func (m *MockStore) UpdateMatchStatus(matchID string, status MatchStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateMatchStatusCalls = append(m.UpdateMatchStatusCalls, struct {
		MatchID string
		Status  MatchStatus
	}{matchID, status})
	if m.UpdateMatchStatusFunc != nil {
		return m.UpdateMatchStatusFunc(matchID, status)
	}
	return nil
}

func (m *MockStore) SetMatchWinner(matchID string, winner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetMatchWinnerCalls = append(m.SetMatchWinnerCalls, struct {
		MatchID string
		Winner  string
	}{matchID, winner})
	if m.SetMatchWinnerFunc != nil {
		return m.SetMatchWinnerFunc(matchID, winner)
	}
	return nil
}

func (m *MockStore) MarkStatsApplied(matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkStatsAppliedCalls = append(m.MarkStatsAppliedCalls, matchID)
	if m.MarkStatsAppliedFunc != nil {
		return m.MarkStatsAppliedFunc(matchID)
	}
	return nil
}

func (m *MockStore) RecentMatches(limit int) ([]*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecentMatchesFunc != nil {
		return m.RecentMatchesFunc(limit)
	}
	return nil, nil
}

func (m *MockStore) CountCompletedMatches() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountCompletedMatchesFunc != nil {
		return m.CountCompletedMatchesFunc()
	}
	return 0, nil
}

func (m *MockStore) Clear() {}
