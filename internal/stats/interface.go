package stats

// Engine defines the read-only statistics queries. Every call is a
// self-contained aggregate over the store; concurrent calls need no
// coordination.
type Engine interface {
	Leaderboard() ([]LeaderboardEntry, error)
	MostPlayed() ([]MostPlayedEntry, error)
	FactionWins() ([]FactionRecord, error)
	FactionPopularity() ([]FactionPopularityRecord, error)
	ComparePlayers(player1ID, player2ID int64) (*Comparison, error)
	PlayerProfile(userID int64) (*Profile, error)
}
