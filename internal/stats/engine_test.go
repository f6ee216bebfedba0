package stats_test

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/mvoss42/tabletally/internal/database"
	"github.com/mvoss42/tabletally/internal/league"
	"github.com/mvoss42/tabletally/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (stats.Engine, league.LeagueStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return stats.New(db), league.New(db), db, dbTeardown
}

func seedFaction(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	res, err := db.Exec("INSERT INTO factions (name) VALUES (?)", name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedUser(t *testing.T, store league.LeagueStore, name string) int64 {
	t.Helper()
	user, err := store.CreateUser(name, nil)
	require.NoError(t, err)
	return user.ID
}

func reportGame(t *testing.T, store league.LeagueStore, participants ...league.ParticipantInput) {
	t.Helper()
	_, err := store.ReportGame(participants, "")
	require.NoError(t, err)
}

func TestLeaderboard(t *testing.T) {
	engine, store, db, teardown := setupTestDB(t)
	defer teardown()

	crimson := seedFaction(t, db, "Crimson Order")
	verdant := seedFaction(t, db, "Verdant Pact")
	alice := seedUser(t, store, "Alice")
	bob := seedUser(t, store, "Bob")
	carol := seedUser(t, store, "Carol")

	// Alice beats Bob twice, Bob wins once. Carol never plays.
	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: crimson, Points: 50, Ranking: 1},
		league.ParticipantInput{UserID: bob, FactionID: verdant, Points: 40, Ranking: 2},
	)
	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: crimson, Points: 60, Ranking: 1},
		league.ParticipantInput{UserID: bob, FactionID: verdant, Points: 20, Ranking: 2},
	)
	reportGame(t, store,
		league.ParticipantInput{UserID: bob, FactionID: crimson, Points: 55, Ranking: 1},
		league.ParticipantInput{UserID: alice, FactionID: verdant, Points: 35, Ranking: 2},
	)

	entries, err := engine.Leaderboard()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Alice has 2 wins to Bob's 1; Carol trails with no games.
	assert.Equal(t, alice, entries[0].UserID)
	assert.Equal(t, 3, entries[0].GamesPlayed)
	assert.Equal(t, 2, entries[0].Wins)
	assert.InDelta(t, 66.67, entries[0].Winrate, 0.01)
	assert.InDelta(t, 48.33, entries[0].AvgPoints, 0.01)
	assert.InDelta(t, 1.33, entries[0].AvgPlace, 0.01)

	assert.Equal(t, bob, entries[1].UserID)
	assert.Equal(t, 1, entries[1].Wins)

	assert.Equal(t, carol, entries[2].UserID)
	assert.Zero(t, entries[2].GamesPlayed)
	assert.Zero(t, entries[2].Winrate)
	assert.Zero(t, entries[2].AvgPoints)
	assert.Zero(t, entries[2].AvgPlace)

	t.Run("best faction picks highest winrate", func(t *testing.T) {
		// Alice: Crimson 2/2 wins, Verdant 0/1.
		require.NotNil(t, entries[0].BestFactionID)
		assert.Equal(t, crimson, *entries[0].BestFactionID)
		assert.Equal(t, "Crimson Order", *entries[0].BestFactionName)
		assert.Equal(t, 2, *entries[0].BestFactionTimesPlayed)
		assert.Equal(t, 2, *entries[0].BestFactionWins)
		assert.InDelta(t, 100.0, *entries[0].BestFactionWinrate, 0.01)

		// Bob: Crimson 1/1 beats Verdant 0/2.
		require.NotNil(t, entries[1].BestFactionID)
		assert.Equal(t, crimson, *entries[1].BestFactionID)
	})

	t.Run("no best faction without games", func(t *testing.T) {
		assert.Nil(t, entries[2].BestFactionID)
		assert.Nil(t, entries[2].BestFactionName)
		assert.Nil(t, entries[2].BestFactionTimesPlayed)
		assert.Nil(t, entries[2].BestFactionWins)
		assert.Nil(t, entries[2].BestFactionWinrate)
	})
}

func TestLeaderboardTieBreakOrdering(t *testing.T) {
	engine, store, db, teardown := setupTestDB(t)
	defer teardown()

	crimson := seedFaction(t, db, "Crimson Order")
	verdant := seedFaction(t, db, "Verdant Pact")
	alice := seedUser(t, store, "Alice")
	bob := seedUser(t, store, "Bob")
	carol := seedUser(t, store, "Carol")
	dave := seedUser(t, store, "Dave")
	erin := seedUser(t, store, "Erin")

	// Bob and Erin each win their only game (avg_place 1.0); Alice wins once
	// but also loses once (avg_place 1.5). Carol and Dave never win and share
	// avg_place 2.0 with different points.
	reportGame(t, store,
		league.ParticipantInput{UserID: bob, FactionID: crimson, Points: 50, Ranking: 1},
		league.ParticipantInput{UserID: carol, FactionID: verdant, Points: 10, Ranking: 2},
	)
	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: crimson, Points: 50, Ranking: 1},
		league.ParticipantInput{UserID: dave, FactionID: verdant, Points: 30, Ranking: 2},
	)
	reportGame(t, store,
		league.ParticipantInput{UserID: erin, FactionID: crimson, Points: 60, Ranking: 1},
		league.ParticipantInput{UserID: alice, FactionID: verdant, Points: 20, Ranking: 2},
	)

	entries, err := engine.Leaderboard()
	require.NoError(t, err)
	require.Len(t, entries, 5)

	// Equal wins break on avg_place: Bob and Erin (1.0) rank above Alice
	// (1.5). Equal wins and avg_place break on avg_points: Erin (60) above
	// Bob (50), and among the winless, Dave (30) above Carol (10).
	assert.Equal(t, erin, entries[0].UserID)
	assert.Equal(t, bob, entries[1].UserID)
	assert.Equal(t, alice, entries[2].UserID)
	assert.Equal(t, dave, entries[3].UserID)
	assert.Equal(t, carol, entries[4].UserID)

	assert.InDelta(t, 1.0, entries[0].AvgPlace, 0.01)
	assert.InDelta(t, 1.0, entries[1].AvgPlace, 0.01)
	assert.InDelta(t, 1.5, entries[2].AvgPlace, 0.01)
	assert.InDelta(t, 30.0, entries[3].AvgPoints, 0.01)
	assert.InDelta(t, 10.0, entries[4].AvgPoints, 0.01)
}

func TestLeaderboardBestFactionPrefersWinrate(t *testing.T) {
	engine, store, db, teardown := setupTestDB(t)
	defer teardown()

	crimson := seedFaction(t, db, "Crimson Order")
	verdant := seedFaction(t, db, "Verdant Pact")
	alice := seedUser(t, store, "Alice")
	bob := seedUser(t, store, "Bob")

	// Alice wins once with each faction but loses more often with Crimson,
	// so Verdant has the better winrate despite fewer games.
	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: crimson, Points: 50, Ranking: 1},
		league.ParticipantInput{UserID: bob, FactionID: verdant, Points: 40, Ranking: 2},
	)
	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: crimson, Points: 30, Ranking: 2},
		league.ParticipantInput{UserID: bob, FactionID: verdant, Points: 45, Ranking: 1},
	)
	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: verdant, Points: 55, Ranking: 1},
		league.ParticipantInput{UserID: bob, FactionID: crimson, Points: 25, Ranking: 2},
	)
	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: verdant, Points: 20, Ranking: 2},
		league.ParticipantInput{UserID: bob, FactionID: crimson, Points: 50, Ranking: 1},
	)
	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: crimson, Points: 20, Ranking: 2},
		league.ParticipantInput{UserID: bob, FactionID: verdant, Points: 50, Ranking: 1},
	)

	entries, err := engine.Leaderboard()
	require.NoError(t, err)

	var aliceEntry *stats.LeaderboardEntry
	for i := range entries {
		if entries[i].UserName == "Alice" {
			aliceEntry = &entries[i]
		}
	}
	require.NotNil(t, aliceEntry)

	// Crimson 1/3 (33%) vs Verdant 1/2 (50%): Verdant wins on winrate.
	require.NotNil(t, aliceEntry.BestFactionID)
	assert.Equal(t, verdant, *aliceEntry.BestFactionID)
	assert.Equal(t, 2, *aliceEntry.BestFactionTimesPlayed)
}

func TestMostPlayed(t *testing.T) {
	engine, store, db, teardown := setupTestDB(t)
	defer teardown()

	crimson := seedFaction(t, db, "Crimson Order")
	alice := seedUser(t, store, "Alice")
	bob := seedUser(t, store, "Bob")
	seedUser(t, store, "Carol")

	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: crimson, Points: 50, Ranking: 1},
		league.ParticipantInput{UserID: bob, FactionID: crimson, Points: 40, Ranking: 2},
	)

	entries, err := engine.MostPlayed()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].GamesPlayed)
	assert.Equal(t, 1, entries[1].GamesPlayed)
	assert.Equal(t, 0, entries[2].GamesPlayed)
	assert.Equal(t, "Carol", entries[2].UserName)
}

func TestMostPlayedCapsAtFifty(t *testing.T) {
	engine, store, _, teardown := setupTestDB(t)
	defer teardown()

	for i := 0; i < 55; i++ {
		seedUser(t, store, fmt.Sprintf("Player %02d", i))
	}

	entries, err := engine.MostPlayed()
	require.NoError(t, err)
	assert.Len(t, entries, 50)
}

func TestFactionWins(t *testing.T) {
	engine, store, db, teardown := setupTestDB(t)
	defer teardown()

	crimson := seedFaction(t, db, "Crimson Order")
	verdant := seedFaction(t, db, "Verdant Pact")
	seedFaction(t, db, "Iron Legion")
	alice := seedUser(t, store, "Alice")
	bob := seedUser(t, store, "Bob")

	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: crimson, Points: 50, Ranking: 1},
		league.ParticipantInput{UserID: bob, FactionID: verdant, Points: 40, Ranking: 2},
	)
	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: crimson, Points: 50, Ranking: 1},
		league.ParticipantInput{UserID: bob, FactionID: verdant, Points: 40, Ranking: 2},
	)

	records, err := engine.FactionWins()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, crimson, records[0].FactionID)
	assert.Equal(t, 2, records[0].TimesPlayed)
	assert.Equal(t, 2, records[0].Wins)
	assert.InDelta(t, 100.0, records[0].Winrate, 0.01)

	assert.Equal(t, verdant, records[1].FactionID)
	assert.Zero(t, records[1].Wins)

	// Never-played faction shows up with zero stats.
	assert.Equal(t, "Iron Legion", records[2].FactionName)
	assert.Zero(t, records[2].TimesPlayed)
	assert.Zero(t, records[2].Winrate)
}

func TestFactionPopularity(t *testing.T) {
	engine, store, db, teardown := setupTestDB(t)
	defer teardown()

	crimson := seedFaction(t, db, "Crimson Order")
	verdant := seedFaction(t, db, "Verdant Pact")
	seedFaction(t, db, "Iron Legion")

	t.Run("all zero without participants", func(t *testing.T) {
		records, err := engine.FactionPopularity()
		require.NoError(t, err)
		require.Len(t, records, 3)
		for _, r := range records {
			assert.Zero(t, r.TimesPlayed)
			assert.Zero(t, r.PickRate)
			assert.Zero(t, r.Wins)
			assert.Zero(t, r.Winrate)
		}
	})

	alice := seedUser(t, store, "Alice")
	bob := seedUser(t, store, "Bob")
	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: crimson, Points: 50, Ranking: 1},
		league.ParticipantInput{UserID: bob, FactionID: verdant, Points: 40, Ranking: 2},
	)
	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: crimson, Points: 50, Ranking: 1},
		league.ParticipantInput{UserID: bob, FactionID: crimson, Points: 40, Ranking: 2},
	)

	t.Run("pick rates sum to one hundred", func(t *testing.T) {
		records, err := engine.FactionPopularity()
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, crimson, records[0].FactionID)
		assert.Equal(t, 3, records[0].TimesPlayed)
		assert.InDelta(t, 75.0, records[0].PickRate, 0.01)
		assert.Equal(t, 2, records[0].Wins)

		var total float64
		for _, r := range records {
			total += r.PickRate
		}
		assert.InDelta(t, 100.0, total, 0.05)
	})
}

func TestComparePlayers(t *testing.T) {
	engine, store, db, teardown := setupTestDB(t)
	defer teardown()

	crimson := seedFaction(t, db, "Crimson Order")
	verdant := seedFaction(t, db, "Verdant Pact")
	alice := seedUser(t, store, "Alice")
	bob := seedUser(t, store, "Bob")
	carol := seedUser(t, store, "Carol")

	// Three shared games, Alice takes two.
	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: crimson, Points: 50, Ranking: 1},
		league.ParticipantInput{UserID: bob, FactionID: verdant, Points: 40, Ranking: 2},
	)
	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: crimson, Points: 60, Ranking: 1},
		league.ParticipantInput{UserID: bob, FactionID: verdant, Points: 20, Ranking: 2},
	)
	reportGame(t, store,
		league.ParticipantInput{UserID: bob, FactionID: crimson, Points: 55, Ranking: 1},
		league.ParticipantInput{UserID: alice, FactionID: verdant, Points: 35, Ranking: 2},
	)

	cmp, err := engine.ComparePlayers(alice, bob)
	require.NoError(t, err)

	t.Run("players ordered first then second", func(t *testing.T) {
		require.Len(t, cmp.Players, 2)
		assert.Equal(t, alice, cmp.Players[0].UserID)
		assert.Equal(t, 3, cmp.Players[0].GamesPlayed)
		assert.Equal(t, 2, cmp.Players[0].Wins)
		assert.InDelta(t, 66.67, cmp.Players[0].Winrate, 0.01)
		assert.Equal(t, bob, cmp.Players[1].UserID)
	})

	t.Run("head to head", func(t *testing.T) {
		assert.Equal(t, 3, cmp.HeadToHead.TotalGames)
		assert.Equal(t, 2, cmp.HeadToHead.Player1Wins)
		assert.Equal(t, 1, cmp.HeadToHead.Player2Wins)
	})

	t.Run("faction records carry per-user pick rates", func(t *testing.T) {
		require.NotEmpty(t, cmp.Factions)
		for _, f := range cmp.Factions {
			if f.UserID == alice && f.FactionID == crimson {
				assert.Equal(t, 2, f.TimesPlayed)
				assert.InDelta(t, 66.67, f.PickRate, 0.01)
				assert.InDelta(t, 100.0, f.Winrate, 0.01)
			}
		}
	})

	t.Run("zero-game player is omitted", func(t *testing.T) {
		cmp, err := engine.ComparePlayers(alice, carol)
		require.NoError(t, err)
		require.Len(t, cmp.Players, 1)
		assert.Equal(t, alice, cmp.Players[0].UserID)
		assert.Zero(t, cmp.HeadToHead.TotalGames)
	})

	t.Run("no shared games yields a zero head-to-head", func(t *testing.T) {
		reportGame(t, store,
			league.ParticipantInput{UserID: carol, FactionID: crimson, Points: 10, Ranking: 1},
			league.ParticipantInput{UserID: bob, FactionID: verdant, Points: 5, Ranking: 2},
		)
		cmp, err := engine.ComparePlayers(alice, carol)
		require.NoError(t, err)
		require.Len(t, cmp.Players, 2)
		assert.Zero(t, cmp.HeadToHead.TotalGames)
		assert.Zero(t, cmp.HeadToHead.Player1Wins)
		assert.Zero(t, cmp.HeadToHead.Player2Wins)
	})
}

func TestComparePlayersCapsFactionsAtFive(t *testing.T) {
	engine, store, db, teardown := setupTestDB(t)
	defer teardown()

	alice := seedUser(t, store, "Alice")
	bob := seedUser(t, store, "Bob")

	// Alice plays seven distinct factions; only her five most played survive.
	factions := make([]int64, 7)
	for i := range factions {
		factions[i] = seedFaction(t, db, fmt.Sprintf("Faction %d", i))
	}
	for i, f := range factions {
		games := 1
		if i < 5 {
			games = 2
		}
		for g := 0; g < games; g++ {
			reportGame(t, store,
				league.ParticipantInput{UserID: alice, FactionID: f, Points: 50, Ranking: 1},
				league.ParticipantInput{UserID: bob, FactionID: factions[0], Points: 40, Ranking: 2},
			)
		}
	}

	cmp, err := engine.ComparePlayers(alice, bob)
	require.NoError(t, err)

	perUser := map[int64]int{}
	for _, f := range cmp.Factions {
		perUser[f.UserID]++
	}
	assert.Equal(t, 5, perUser[alice])
	assert.Equal(t, 1, perUser[bob])
}

func TestPlayerProfile(t *testing.T) {
	engine, store, db, teardown := setupTestDB(t)
	defer teardown()

	crimson := seedFaction(t, db, "Crimson Order")
	verdant := seedFaction(t, db, "Verdant Pact")
	alice := seedUser(t, store, "Alice")
	bob := seedUser(t, store, "Bob")

	reportGame(t, store,
		league.ParticipantInput{UserID: alice, FactionID: crimson, Points: 50, Ranking: 1},
		league.ParticipantInput{UserID: bob, FactionID: verdant, Points: 40, Ranking: 2},
	)

	t.Run("after a single win", func(t *testing.T) {
		profile, err := engine.PlayerProfile(alice)
		require.NoError(t, err)

		assert.Equal(t, alice, profile.Overall.UserID)
		assert.Equal(t, "Alice", profile.Overall.UserName)
		assert.Equal(t, 1, profile.Overall.GamesPlayed)
		assert.Equal(t, 1, profile.Overall.Wins)
		assert.InDelta(t, 100.0, profile.Overall.Winrate, 0.01)
		assert.InDelta(t, 50.0, profile.Overall.AvgPoints, 0.01)
		assert.InDelta(t, 1.0, profile.Overall.AvgRanking, 0.01)

		require.Len(t, profile.Factions, 1)
		assert.Equal(t, crimson, profile.Factions[0].FactionID)
		assert.InDelta(t, 100.0, profile.Factions[0].PickRate, 0.01)

		require.Len(t, profile.RecentGames, 1)
		assert.Equal(t, "Crimson Order", profile.RecentGames[0].FactionName)
		assert.Equal(t, 1, profile.RecentGames[0].Ranking)
	})

	t.Run("zero stats for user without games", func(t *testing.T) {
		carol := seedUser(t, store, "Carol")
		profile, err := engine.PlayerProfile(carol)
		require.NoError(t, err)
		assert.Zero(t, profile.Overall.GamesPlayed)
		assert.Zero(t, profile.Overall.Winrate)
		assert.Empty(t, profile.Factions)
		assert.Empty(t, profile.RecentGames)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := engine.PlayerProfile(999)
		assert.ErrorIs(t, err, stats.ErrUserNotFound)
	})

	t.Run("recent games cap at ten", func(t *testing.T) {
		for i := 0; i < 12; i++ {
			reportGame(t, store,
				league.ParticipantInput{UserID: alice, FactionID: crimson, Points: 10, Ranking: 2},
				league.ParticipantInput{UserID: bob, FactionID: verdant, Points: 20, Ranking: 1},
			)
		}
		profile, err := engine.PlayerProfile(alice)
		require.NoError(t, err)
		assert.Len(t, profile.RecentGames, 10)
	})
}
