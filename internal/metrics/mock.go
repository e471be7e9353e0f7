package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	matchesSubmitted    int
	matchesSimulated    int
	processingDurations []float64
	versionConflicts    int
	unknownPlayers      int
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		processingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesSubmitted++
}

func (m *Mock) IncMatchesSimulated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesSimulated++
}

func (m *Mock) ObserveProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) IncVersionConflicts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versionConflicts++
}

func (m *Mock) IncUnknownPlayers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unknownPlayers++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesSubmitted returns the number of times IncMatchesSubmitted was called.
func (m *Mock) MatchesSubmitted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesSubmitted
}

// VersionConflicts returns the number of times IncVersionConflicts was called.
func (m *Mock) VersionConflicts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versionConflicts
}

// UnknownPlayers returns the number of times IncUnknownPlayers was called.
func (m *Mock) UnknownPlayers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unknownPlayers
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
