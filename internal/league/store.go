package league

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
)

// New creates a new LeagueStore.
func New(db *sql.DB) LeagueStore {
	return &store{
		db: db,
	}
}

func (s *store) ListUsers() ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, preferred_faction_id FROM users ORDER BY name")
	if err != nil {
		log.Error("Failed to query users", "error", err)
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

// CreateUser registers a new player. Names are unique; reporting a taken name
// returns ErrUserExists without inserting anything.
func (s *store) CreateUser(name string, preferredFactionID *int64) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE name = ?)", name).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if user exists", "error", err, "name", name)
		return nil, fmt.Errorf("database error: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	res, err := s.db.Exec("INSERT INTO users (name, preferred_faction_id) VALUES (?, ?)", name, preferredFactionID)
	if err != nil {
		log.Error("Failed to insert user", "error", err, "name", name)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new user id: %w", err)
	}

	log.Info("Created user", "id", id, "name", name)
	return &User{ID: id, Name: name, PreferredFactionID: preferredFactionID}, nil
}

// SearchUsers returns up to 10 users whose name contains the query substring,
// alphabetically.
func (s *store) SearchUsers(query string) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT id, name, preferred_faction_id FROM users
		WHERE name LIKE ?
		ORDER BY name
		LIMIT 10
	`, pattern)
	if err != nil {
		log.Error("Failed to search users", "error", err, "query", query)
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

func (s *store) GetUser(id int64) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u User
	err := s.db.QueryRow("SELECT id, name, preferred_faction_id FROM users WHERE id = ?", id).
		Scan(&u.ID, &u.Name, &u.PreferredFactionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		log.Error("Failed to query user", "error", err, "id", id)
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &u, nil
}

func (s *store) ListFactions() ([]Faction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name FROM factions ORDER BY name")
	if err != nil {
		log.Error("Failed to query factions", "error", err)
		return nil, err
	}
	defer rows.Close()

	var factions []Faction
	for rows.Next() {
		var f Faction
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, err
		}
		factions = append(factions, f)
	}
	return factions, rows.Err()
}

// ListGames returns the 50 most recent games, each with its full participant
// set ordered by ranking.
func (s *store) ListGames() ([]Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT g.id, g.report_date, COALESCE(g.notes, ''),
		       gp.user_id, u.name, gp.faction_id, f.name, gp.points, gp.ranking
		FROM (
			SELECT id, report_date, notes FROM games
			ORDER BY report_date DESC, id DESC
			LIMIT 50
		) g
		JOIN game_participants gp ON gp.game_id = g.id
		JOIN users u ON u.id = gp.user_id
		JOIN factions f ON f.id = gp.faction_id
		ORDER BY g.report_date DESC, g.id DESC, gp.ranking ASC
	`)
	if err != nil {
		log.Error("Failed to query games", "error", err)
		return nil, err
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		var (
			gameID     int64
			reportDate string
			notes      string
			p          GameParticipant
		)
		if err := rows.Scan(&gameID, &reportDate, &notes, &p.UserID, &p.UserName, &p.FactionID, &p.FactionName, &p.Points, &p.Ranking); err != nil {
			return nil, err
		}
		if len(games) == 0 || games[len(games)-1].ID != gameID {
			games = append(games, Game{ID: gameID, ReportDate: reportDate, Notes: notes})
		}
		g := &games[len(games)-1]
		g.Participants = append(g.Participants, p)
	}
	return games, rows.Err()
}

func (s *store) GetGame(id int64) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT g.id, g.report_date, COALESCE(g.notes, ''),
		       gp.user_id, u.name, gp.faction_id, f.name, gp.points, gp.ranking
		FROM games g
		JOIN game_participants gp ON gp.game_id = g.id
		JOIN users u ON u.id = gp.user_id
		JOIN factions f ON f.id = gp.faction_id
		WHERE g.id = ?
		ORDER BY gp.ranking ASC
	`, id)
	if err != nil {
		log.Error("Failed to query game", "error", err, "gameID", id)
		return nil, err
	}
	defer rows.Close()

	var game *Game
	for rows.Next() {
		var p GameParticipant
		var g Game
		if err := rows.Scan(&g.ID, &g.ReportDate, &g.Notes, &p.UserID, &p.UserName, &p.FactionID, &p.FactionName, &p.Points, &p.Ranking); err != nil {
			return nil, err
		}
		if game == nil {
			game = &Game{ID: g.ID, ReportDate: g.ReportDate, Notes: g.Notes}
		}
		game.Participants = append(game.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrNotFound
	}
	return game, nil
}

// ReportGame inserts one game row and its participant rows as a single
// transaction. Any failure rolls the whole report back so no partial game is
// ever visible.
func (s *store) ReportGame(participants []ParticipantInput, notes string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}

	res, err := tx.Exec("INSERT INTO games (notes) VALUES (NULLIF(?, ''))", notes)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to insert game: %w", err)
	}
	gameID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO game_participants (game_id, user_id, faction_id, points, ranking)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	for _, p := range participants {
		if _, err := stmt.Exec(gameID, p.UserID, p.FactionID, p.Points, p.Ranking); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to insert participant for user %d: %w", p.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	log.Info("Reported game", "gameID", gameID, "participants", len(participants))
	return gameID, nil
}

func scanUsers(rows *sql.Rows) ([]User, error) {
	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.PreferredFactionID); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
