package league

import "sync"

// MockStore is a mock implementation of the LeagueStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	ListUsersFunc    func() ([]User, error)
	CreateUserFunc   func(name string, preferredFactionID *int64) (*User, error)
	SearchUsersFunc  func(query string) ([]User, error)
	GetUserFunc      func(id int64) (*User, error)
	ListFactionsFunc func() ([]Faction, error)
	ListGamesFunc    func() ([]Game, error)
	GetGameFunc      func(id int64) (*Game, error)
	ReportGameFunc   func(participants []ParticipantInput, notes string) (int64, error)

	// Call records
	CreateUserCalls []struct {
		Name               string
		PreferredFactionID *int64
	}
	SearchUsersCalls []string
	ReportGameCalls  []struct {
		Participants []ParticipantInput
		Notes        string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateUserCalls = nil
	m.SearchUsersCalls = nil
	m.ReportGameCalls = nil
}

func (m *MockStore) ListUsers() ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc()
	}
	return nil, nil
}

func (m *MockStore) CreateUser(name string, preferredFactionID *int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateUserCalls = append(m.CreateUserCalls, struct {
		Name               string
		PreferredFactionID *int64
	}{name, preferredFactionID})
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(name, preferredFactionID)
	}
	return &User{ID: 1, Name: name, PreferredFactionID: preferredFactionID}, nil
}

func (m *MockStore) SearchUsers(query string) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchUsersCalls = append(m.SearchUsersCalls, query)
	if m.SearchUsersFunc != nil {
		return m.SearchUsersFunc(query)
	}
	return nil, nil
}

func (m *MockStore) GetUser(id int64) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetUserFunc != nil {
		return m.GetUserFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) ListFactions() ([]Faction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListFactionsFunc != nil {
		return m.ListFactionsFunc()
	}
	return nil, nil
}

func (m *MockStore) ListGames() ([]Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListGamesFunc != nil {
		return m.ListGamesFunc()
	}
	return nil, nil
}

func (m *MockStore) GetGame(id int64) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetGameFunc != nil {
		return m.GetGameFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) ReportGame(participants []ParticipantInput, notes string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReportGameCalls = append(m.ReportGameCalls, struct {
		Participants []ParticipantInput
		Notes        string
	}{participants, notes})
	if m.ReportGameFunc != nil {
		return m.ReportGameFunc(participants, notes)
	}
	return 1, nil
}
