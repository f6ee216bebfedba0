package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(factionsCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(mostPlayedCmd)
	rootCmd.AddCommand(factionWinsCmd)
	rootCmd.AddCommand(factionPopularityCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/users")
	},
}

var factionsCmd = &cobra.Command{
	Use:   "factions",
	Short: "List the available factions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/factions")
	},
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List the most recently reported games",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/games")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the player leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/stats/leaderboard")
	},
}

var mostPlayedCmd = &cobra.Command{
	Use:   "most-played",
	Short: "Show players ranked by games played",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/stats/most-played")
	},
}

var factionWinsCmd = &cobra.Command{
	Use:   "faction-wins",
	Short: "Show factions ranked by wins",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/stats/factions/wins")
	},
}

var factionPopularityCmd = &cobra.Command{
	Use:   "faction-popularity",
	Short: "Show factions ranked by pick rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/stats/factions/popularity")
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <player1-id> <player2-id>",
	Short: "Compare two players head to head",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{"player1": {args[0]}, "player2": {args[1]}}
		return performGetRequest("/api/stats/player-comparison?" + query.Encode())
	},
}

var playerCmd = &cobra.Command{
	Use:   "player <id>",
	Short: "Show a player's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{"id": {args[0]}}
		return performGetRequest("/api/stats/player?" + query.Encode())
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
