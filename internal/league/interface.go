package league

// LeagueStore defines the interface for interacting with the league's data.
// All entities are append-only; there are no update or delete paths.
type LeagueStore interface {
	ListUsers() ([]User, error)
	CreateUser(name string, preferredFactionID *int64) (*User, error)
	SearchUsers(query string) ([]User, error)
	GetUser(id int64) (*User, error)
	ListFactions() ([]Faction, error)
	ListGames() ([]Game, error)
	GetGame(id int64) (*Game, error)
	ReportGame(participants []ParticipantInput, notes string) (int64, error)
}
