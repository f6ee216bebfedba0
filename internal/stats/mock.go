package stats

import "sync"

// MockEngine is a mock implementation of the Engine interface for testing.
// It is safe for concurrent use.
type MockEngine struct {
	mu sync.Mutex

	// Spies for method calls
	LeaderboardFunc       func() ([]LeaderboardEntry, error)
	MostPlayedFunc        func() ([]MostPlayedEntry, error)
	FactionWinsFunc       func() ([]FactionRecord, error)
	FactionPopularityFunc func() ([]FactionPopularityRecord, error)
	ComparePlayersFunc    func(player1ID, player2ID int64) (*Comparison, error)
	PlayerProfileFunc     func(userID int64) (*Profile, error)

	// Call records
	ComparePlayersCalls []struct {
		Player1ID int64
		Player2ID int64
	}
	PlayerProfileCalls []int64
}

// NewMock creates a new mock instance.
func NewMock() *MockEngine {
	return &MockEngine{}
}

func (m *MockEngine) Leaderboard() ([]LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc()
	}
	return []LeaderboardEntry{}, nil
}

func (m *MockEngine) MostPlayed() ([]MostPlayedEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MostPlayedFunc != nil {
		return m.MostPlayedFunc()
	}
	return []MostPlayedEntry{}, nil
}

func (m *MockEngine) FactionWins() ([]FactionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FactionWinsFunc != nil {
		return m.FactionWinsFunc()
	}
	return []FactionRecord{}, nil
}

func (m *MockEngine) FactionPopularity() ([]FactionPopularityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FactionPopularityFunc != nil {
		return m.FactionPopularityFunc()
	}
	return []FactionPopularityRecord{}, nil
}

func (m *MockEngine) ComparePlayers(player1ID, player2ID int64) (*Comparison, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ComparePlayersCalls = append(m.ComparePlayersCalls, struct {
		Player1ID int64
		Player2ID int64
	}{player1ID, player2ID})
	if m.ComparePlayersFunc != nil {
		return m.ComparePlayersFunc(player1ID, player2ID)
	}
	return &Comparison{Players: []PlayerOverall{}, Factions: []PlayerFactionRecord{}}, nil
}

func (m *MockEngine) PlayerProfile(userID int64) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlayerProfileCalls = append(m.PlayerProfileCalls, userID)
	if m.PlayerProfileFunc != nil {
		return m.PlayerProfileFunc(userID)
	}
	return &Profile{Factions: []PlayerFactionRecord{}, RecentGames: []ProfileGame{}}, nil
}
