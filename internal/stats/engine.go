package stats

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
)

// New creates a new Engine backed by the given database.
func New(db *sql.DB) Engine {
	return &engine{
		db: db,
	}
}

// Leaderboard computes the overall player ranking. Each user's best faction
// is picked by a single window ordering over (winrate, times played, avg
// ranking) so tie-breaks stay deterministic.
func (e *engine) Leaderboard() ([]LeaderboardEntry, error) {
	rows, err := e.db.Query(`
		WITH user_totals AS (
			SELECT
				u.id AS user_id,
				u.name AS user_name,
				COUNT(gp.id) AS games_played,
				COALESCE(SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END), 0) AS wins,
				CASE WHEN COUNT(gp.id) = 0 THEN 0
				     ELSE ROUND(SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END) * 100.0 / COUNT(gp.id), 2)
				END AS winrate,
				ROUND(COALESCE(AVG(gp.points), 0), 2) AS avg_points,
				ROUND(COALESCE(AVG(gp.ranking), 0), 2) AS avg_place
			FROM users u
			LEFT JOIN game_participants gp ON gp.user_id = u.id
			GROUP BY u.id, u.name
		),
		faction_ranked AS (
			SELECT
				gp.user_id,
				gp.faction_id,
				f.name AS faction_name,
				COUNT(*) AS times_played,
				SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END) AS wins,
				ROUND(SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 2) AS winrate,
				ROW_NUMBER() OVER (
					PARTITION BY gp.user_id
					ORDER BY SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END) * 1.0 / COUNT(*) DESC,
					         COUNT(*) DESC,
					         AVG(gp.ranking) ASC
				) AS rn
			FROM game_participants gp
			JOIN factions f ON f.id = gp.faction_id
			GROUP BY gp.user_id, gp.faction_id, f.name
		)
		SELECT ut.user_id, ut.user_name, ut.games_played, ut.wins, ut.winrate, ut.avg_points, ut.avg_place,
		       fr.faction_id, fr.faction_name, fr.times_played, fr.wins, fr.winrate
		FROM user_totals ut
		LEFT JOIN faction_ranked fr ON fr.user_id = ut.user_id AND fr.rn = 1
		ORDER BY ut.wins DESC, ut.avg_place ASC, ut.avg_points DESC
	`)
	if err != nil {
		log.Error("Failed to query leaderboard", "error", err)
		return nil, err
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var entry LeaderboardEntry
		var factionID sql.NullInt64
		var factionName sql.NullString
		var timesPlayed, wins sql.NullInt64
		var winrate sql.NullFloat64
		if err := rows.Scan(
			&entry.UserID, &entry.UserName, &entry.GamesPlayed, &entry.Wins,
			&entry.Winrate, &entry.AvgPoints, &entry.AvgPlace,
			&factionID, &factionName, &timesPlayed, &wins, &winrate,
		); err != nil {
			return nil, err
		}
		if factionID.Valid {
			entry.BestFactionID = &factionID.Int64
			entry.BestFactionName = &factionName.String
			tp := int(timesPlayed.Int64)
			entry.BestFactionTimesPlayed = &tp
			w := int(wins.Int64)
			entry.BestFactionWins = &w
			entry.BestFactionWinrate = &winrate.Float64
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// MostPlayed returns the top 50 users by games played.
func (e *engine) MostPlayed() ([]MostPlayedEntry, error) {
	rows, err := e.db.Query(`
		SELECT
			u.id,
			u.name,
			COUNT(gp.id) AS games_played,
			COALESCE(SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END), 0) AS wins,
			CASE WHEN COUNT(gp.id) = 0 THEN 0
			     ELSE ROUND(SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END) * 100.0 / COUNT(gp.id), 2)
			END AS winrate
		FROM users u
		LEFT JOIN game_participants gp ON gp.user_id = u.id
		GROUP BY u.id, u.name
		ORDER BY games_played DESC
		LIMIT 50
	`)
	if err != nil {
		log.Error("Failed to query most-played leaderboard", "error", err)
		return nil, err
	}
	defer rows.Close()

	entries := []MostPlayedEntry{}
	for rows.Next() {
		var entry MostPlayedEntry
		if err := rows.Scan(&entry.UserID, &entry.UserName, &entry.GamesPlayed, &entry.Wins, &entry.Winrate); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// FactionWins ranks every faction by wins, including never-played factions
// with zero stats.
func (e *engine) FactionWins() ([]FactionRecord, error) {
	rows, err := e.db.Query(`
		SELECT
			f.id,
			f.name,
			COUNT(gp.id) AS times_played,
			COALESCE(SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END), 0) AS wins,
			CASE WHEN COUNT(gp.id) = 0 THEN 0
			     ELSE ROUND(SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END) * 100.0 / COUNT(gp.id), 2)
			END AS winrate
		FROM factions f
		LEFT JOIN game_participants gp ON gp.faction_id = f.id
		GROUP BY f.id, f.name
		ORDER BY wins DESC, winrate DESC
	`)
	if err != nil {
		log.Error("Failed to query faction wins leaderboard", "error", err)
		return nil, err
	}
	defer rows.Close()

	records := []FactionRecord{}
	for rows.Next() {
		var r FactionRecord
		if err := rows.Scan(&r.FactionID, &r.FactionName, &r.TimesPlayed, &r.Wins, &r.Winrate); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// FactionPopularity ranks factions by pick rate over the global participant
// count. With zero participants anywhere every derived number is 0 rather
// than a division by zero.
func (e *engine) FactionPopularity() ([]FactionPopularityRecord, error) {
	rows, err := e.db.Query(`
		WITH totals AS (SELECT COUNT(*) AS total FROM game_participants)
		SELECT
			f.id,
			f.name,
			COUNT(gp.id) AS times_played,
			CASE WHEN t.total = 0 THEN 0
			     ELSE ROUND(COUNT(gp.id) * 100.0 / t.total, 2)
			END AS pick_rate,
			COALESCE(SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END), 0) AS wins,
			CASE WHEN COUNT(gp.id) = 0 THEN 0
			     ELSE ROUND(SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END) * 100.0 / COUNT(gp.id), 2)
			END AS winrate
		FROM factions f
		CROSS JOIN totals t
		LEFT JOIN game_participants gp ON gp.faction_id = f.id
		GROUP BY f.id, f.name, t.total
		ORDER BY times_played DESC, pick_rate DESC
	`)
	if err != nil {
		log.Error("Failed to query faction popularity leaderboard", "error", err)
		return nil, err
	}
	defer rows.Close()

	records := []FactionPopularityRecord{}
	for rows.Next() {
		var r FactionPopularityRecord
		if err := rows.Scan(&r.FactionID, &r.FactionName, &r.TimesPlayed, &r.PickRate, &r.Wins, &r.Winrate); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ComparePlayers produces the three-part player-vs-player payload. Users with
// zero games are omitted from the overall part (inner join); the head-to-head
// part is a zero struct when the two users share no games.
func (e *engine) ComparePlayers(player1ID, player2ID int64) (*Comparison, error) {
	cmp := &Comparison{
		Players:  []PlayerOverall{},
		Factions: []PlayerFactionRecord{},
	}

	rows, err := e.db.Query(`
		SELECT
			u.id,
			u.name,
			COUNT(gp.id) AS games_played,
			SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END) AS wins,
			ROUND(SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END) * 100.0 / COUNT(gp.id), 2) AS winrate,
			ROUND(AVG(gp.points), 2) AS avg_points,
			ROUND(AVG(gp.ranking), 2) AS avg_ranking
		FROM users u
		JOIN game_participants gp ON gp.user_id = u.id
		WHERE u.id IN (?, ?)
		GROUP BY u.id, u.name
		ORDER BY CASE WHEN u.id = ? THEN 0 ELSE 1 END
	`, player1ID, player2ID, player1ID)
	if err != nil {
		log.Error("Failed to query comparison overall stats", "error", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p PlayerOverall
		if err := rows.Scan(&p.UserID, &p.UserName, &p.GamesPlayed, &p.Wins, &p.Winrate, &p.AvgPoints, &p.AvgRanking); err != nil {
			return nil, err
		}
		cmp.Players = append(cmp.Players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	factions, err := e.playerFactions(player1ID, player2ID, 5)
	if err != nil {
		log.Error("Failed to query comparison faction stats", "error", err)
		return nil, err
	}
	cmp.Factions = factions

	err = e.db.QueryRow(`
		SELECT
			COUNT(*) AS total_games,
			COALESCE(SUM(CASE WHEN p1.ranking < p2.ranking THEN 1 ELSE 0 END), 0) AS player1_wins,
			COALESCE(SUM(CASE WHEN p2.ranking < p1.ranking THEN 1 ELSE 0 END), 0) AS player2_wins
		FROM game_participants p1
		JOIN game_participants p2 ON p2.game_id = p1.game_id
		WHERE p1.user_id = ? AND p2.user_id = ?
	`, player1ID, player2ID).Scan(&cmp.HeadToHead.TotalGames, &cmp.HeadToHead.Player1Wins, &cmp.HeadToHead.Player2Wins)
	if err != nil {
		log.Error("Failed to query head-to-head stats", "error", err)
		return nil, err
	}

	return cmp, nil
}

// PlayerProfile returns a single user's overall stats (zero-valued row when
// they have never played), per-faction records, and 10 most recent games.
func (e *engine) PlayerProfile(userID int64) (*Profile, error) {
	profile := &Profile{
		Factions:    []PlayerFactionRecord{},
		RecentGames: []ProfileGame{},
	}

	err := e.db.QueryRow(`
		SELECT
			u.id,
			u.name,
			COUNT(gp.id) AS games_played,
			COALESCE(SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END), 0) AS wins,
			CASE WHEN COUNT(gp.id) = 0 THEN 0
			     ELSE ROUND(SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END) * 100.0 / COUNT(gp.id), 2)
			END AS winrate,
			ROUND(COALESCE(AVG(gp.points), 0), 2) AS avg_points,
			ROUND(COALESCE(AVG(gp.ranking), 0), 2) AS avg_ranking
		FROM users u
		LEFT JOIN game_participants gp ON gp.user_id = u.id
		WHERE u.id = ?
		GROUP BY u.id, u.name
	`, userID).Scan(
		&profile.Overall.UserID, &profile.Overall.UserName, &profile.Overall.GamesPlayed,
		&profile.Overall.Wins, &profile.Overall.Winrate, &profile.Overall.AvgPoints, &profile.Overall.AvgRanking,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		log.Error("Failed to query profile overall stats", "error", err, "userID", userID)
		return nil, fmt.Errorf("database error: %w", err)
	}

	factions, err := e.playerFactions(userID, userID, 0)
	if err != nil {
		log.Error("Failed to query profile faction stats", "error", err, "userID", userID)
		return nil, err
	}
	profile.Factions = factions

	rows, err := e.db.Query(`
		SELECT g.id, g.report_date, COALESCE(g.notes, ''), gp.faction_id, f.name, gp.points, gp.ranking
		FROM game_participants gp
		JOIN games g ON g.id = gp.game_id
		JOIN factions f ON f.id = gp.faction_id
		WHERE gp.user_id = ?
		ORDER BY g.report_date DESC, g.id DESC
		LIMIT 10
	`, userID)
	if err != nil {
		log.Error("Failed to query profile recent games", "error", err, "userID", userID)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var g ProfileGame
		if err := rows.Scan(&g.GameID, &g.ReportDate, &g.Notes, &g.FactionID, &g.FactionName, &g.Points, &g.Ranking); err != nil {
			return nil, err
		}
		profile.RecentGames = append(profile.RecentGames, g)
	}
	return profile, rows.Err()
}

// playerFactions aggregates per-(user,faction) records for one or two users.
// Pick rate is relative to each user's own participation count. A limit of 0
// means no cap; otherwise at most limit factions per user, by times played.
func (e *engine) playerFactions(user1ID, user2ID int64, limit int) ([]PlayerFactionRecord, error) {
	rows, err := e.db.Query(`
		WITH per_faction AS (
			SELECT
				gp.user_id,
				gp.faction_id,
				f.name AS faction_name,
				COUNT(*) AS times_played,
				ROUND(COUNT(*) * 100.0 / (SELECT COUNT(*) FROM game_participants x WHERE x.user_id = gp.user_id), 2) AS pick_rate,
				SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END) AS wins,
				ROUND(SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END) * 100.0 / COUNT(*), 2) AS winrate,
				ROW_NUMBER() OVER (
					PARTITION BY gp.user_id
					ORDER BY COUNT(*) DESC, SUM(CASE WHEN gp.ranking = 1 THEN 1 ELSE 0 END) DESC
				) AS rn
			FROM game_participants gp
			JOIN factions f ON f.id = gp.faction_id
			WHERE gp.user_id IN (?, ?)
			GROUP BY gp.user_id, gp.faction_id, f.name
		)
		SELECT user_id, faction_id, faction_name, times_played, pick_rate, wins, winrate
		FROM per_faction
		WHERE ? = 0 OR rn <= ?
		ORDER BY user_id, times_played DESC, wins DESC
	`, user1ID, user2ID, limit, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []PlayerFactionRecord{}
	for rows.Next() {
		var r PlayerFactionRecord
		if err := rows.Scan(&r.UserID, &r.FactionID, &r.FactionName, &r.TimesPlayed, &r.PickRate, &r.Wins, &r.Winrate); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
