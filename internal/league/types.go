package league

import (
	"database/sql"
	"errors"
	"sync"
)

// store handles all database operations for the league.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	// ErrUserExists is returned when creating a user whose name is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)

// User is a registered player.
type User struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	PreferredFactionID *int64 `json:"preferred_faction_id"`
}

// Faction is static reference data, seeded out-of-band.
type Faction struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ParticipantInput is one player's result in a reported game, as supplied by
// the caller. Ranking is authoritative: 1 means victory and it is never
// recomputed from points.
type ParticipantInput struct {
	UserID    int64 `json:"user_id"`
	FactionID int64 `json:"faction_id"`
	Points    int   `json:"points"`
	Ranking   int   `json:"ranking"`
}

// GameParticipant is a participant row joined with user and faction names.
type GameParticipant struct {
	UserID      int64  `json:"user_id"`
	UserName    string `json:"user_name"`
	FactionID   int64  `json:"faction_id"`
	FactionName string `json:"faction_name"`
	Points      int    `json:"points"`
	Ranking     int    `json:"ranking"`
}

// Game is a reported match with its participants.
type Game struct {
	ID           int64             `json:"id"`
	ReportDate   string            `json:"report_date"`
	Notes        string            `json:"notes,omitempty"`
	Participants []GameParticipant `json:"participants"`
}
