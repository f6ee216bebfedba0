package notifier

import (
	"sync"

	"github.com/mvoss42/tabletally/internal/league"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendGameResultFunc  func(game *league.Game, dryRun bool) error
	SendGameResultCalls []*league.Game
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameResultCalls = nil
}

func (m *Mock) SendGameResult(game *league.Game, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendGameResultCalls = append(m.SendGameResultCalls, game)
	if m.SendGameResultFunc != nil {
		return m.SendGameResultFunc(game, dryRun)
	}
	return nil
}
