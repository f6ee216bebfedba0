package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	GamesReportedCount    int
	StatsQueryCalls       []string
	QueryDurationCalls    []string
	SlackNotifSentCount   int
	SlackNotifFailedCount int
	StartupTime           float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncGamesReported() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GamesReportedCount++
}

func (m *Mock) IncStatsQuery(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatsQueryCalls = append(m.StatsQueryCalls, kind)
}

func (m *Mock) ObserveStatsQueryDuration(kind string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryDurationCalls = append(m.QueryDurationCalls, kind)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlackNotifSentCount++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlackNotifFailedCount++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTime = duration
}
