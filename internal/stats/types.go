package stats

import (
	"database/sql"
	"errors"
)

// engine computes all aggregate statistics. It is stateless between calls;
// every query recomputes from the current data, so concurrent calls need no
// coordination beyond the sql.DB pool.
type engine struct {
	db *sql.DB
}

// ErrUserNotFound is returned when a profile is requested for an unknown user.
var ErrUserNotFound = errors.New("user not found")

// LeaderboardEntry is one row of the overall player leaderboard. The best
// faction fields are nil for users who have never played.
type LeaderboardEntry struct {
	UserID      int64   `json:"user_id"`
	UserName    string  `json:"user_name"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Winrate     float64 `json:"winrate"`
	AvgPoints   float64 `json:"avg_points"`
	AvgPlace    float64 `json:"avg_place"`

	BestFactionID          *int64   `json:"best_faction_id"`
	BestFactionName        *string  `json:"best_faction_name"`
	BestFactionTimesPlayed *int     `json:"best_faction_times_played"`
	BestFactionWins        *int     `json:"best_faction_wins"`
	BestFactionWinrate     *float64 `json:"best_faction_winrate"`
}

// MostPlayedEntry is one row of the most-played leaderboard.
type MostPlayedEntry struct {
	UserID      int64   `json:"user_id"`
	UserName    string  `json:"user_name"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Winrate     float64 `json:"winrate"`
}

// FactionRecord is one row of the faction wins leaderboard.
type FactionRecord struct {
	FactionID   int64   `json:"faction_id"`
	FactionName string  `json:"faction_name"`
	TimesPlayed int     `json:"times_played"`
	Wins        int     `json:"wins"`
	Winrate     float64 `json:"winrate"`
}

// FactionPopularityRecord adds the global pick rate to a faction's record.
type FactionPopularityRecord struct {
	FactionID   int64   `json:"faction_id"`
	FactionName string  `json:"faction_name"`
	TimesPlayed int     `json:"times_played"`
	PickRate    float64 `json:"pick_rate"`
	Wins        int     `json:"wins"`
	Winrate     float64 `json:"winrate"`
}

// PlayerOverall is a single user's aggregate record.
type PlayerOverall struct {
	UserID      int64   `json:"user_id"`
	UserName    string  `json:"user_name"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Winrate     float64 `json:"winrate"`
	AvgPoints   float64 `json:"avg_points"`
	AvgRanking  float64 `json:"avg_ranking"`
}

// PlayerFactionRecord is a user's record with one faction. PickRate is
// relative to that user's own games, not the global participant count.
type PlayerFactionRecord struct {
	UserID      int64   `json:"user_id"`
	FactionID   int64   `json:"faction_id"`
	FactionName string  `json:"faction_name"`
	TimesPlayed int     `json:"times_played"`
	PickRate    float64 `json:"pick_rate"`
	Wins        int     `json:"wins"`
	Winrate     float64 `json:"winrate"`
}

// HeadToHead tallies wins across the games two users played together. The
// player with the lower ranking value wins a game.
type HeadToHead struct {
	TotalGames  int `json:"total_games"`
	Player1Wins int `json:"player1_wins"`
	Player2Wins int `json:"player2_wins"`
}

// Comparison is the full player-vs-player payload. Players holds the overall
// stats of the two users, omitting any with zero games.
type Comparison struct {
	Players    []PlayerOverall       `json:"players"`
	Factions   []PlayerFactionRecord `json:"factions"`
	HeadToHead HeadToHead            `json:"headToHead"`
}

// ProfileGame is one of a user's recent games.
type ProfileGame struct {
	GameID      int64  `json:"game_id"`
	ReportDate  string `json:"report_date"`
	Notes       string `json:"notes,omitempty"`
	FactionID   int64  `json:"faction_id"`
	FactionName string `json:"faction_name"`
	Points      int    `json:"points"`
	Ranking     int    `json:"ranking"`
}

// Profile is the single-player payload: overall stats (present even with zero
// games), per-faction records, and the 10 most recent games.
type Profile struct {
	Overall     PlayerOverall         `json:"overall"`
	Factions    []PlayerFactionRecord `json:"factions"`
	RecentGames []ProfileGame         `json:"recent_games"`
}
