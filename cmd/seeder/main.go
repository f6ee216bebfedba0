package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	for _, key := range []string{"DB_NAME", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"} {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	if config["DB_NAME"] == "" && config["TURSO_PRIMARY_URL"] == "" {
		log.Fatalf("Error: Either DB_NAME or TURSO_PRIMARY_URL must be set.")
	}
	return config
}

var factionNames = []string{
	"Crimson Order",
	"Verdant Pact",
	"Iron Legion",
	"Azure Syndicate",
	"Gilded Swarm",
	"Obsidian Court",
	"Ashen Covenant",
	"Stormcallers",
}

var playerNames = []string{
	"Seeder Player A",
	"Seeder Player B",
	"Seeder Player C",
	"Seeder Player D",
	"Seeder Player E",
	"Seeder Player F",
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	var db *sql.DB
	var err error
	if cfg["TURSO_PRIMARY_URL"] != "" {
		// Connect directly to the primary database
		dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
		db, err = sql.Open("libsql", dbURL)
	} else {
		db, err = sql.Open("sqlite3", "file:"+cfg["DB_NAME"])
	}
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %s", err)
	}
	log.Info("Successfully connected to the database.")

	factionIDs := make([]int64, 0, len(factionNames))
	for _, name := range factionNames {
		if _, err := db.Exec("INSERT OR IGNORE INTO factions (name) VALUES (?)", name); err != nil {
			log.Fatalf("Failed to insert faction %s: %s", name, err)
		}
		var id int64
		if err := db.QueryRow("SELECT id FROM factions WHERE name = ?", name).Scan(&id); err != nil {
			log.Fatalf("Failed to look up faction %s: %s", name, err)
		}
		factionIDs = append(factionIDs, id)
	}
	log.Info("Ensured factions exist.", "count", len(factionIDs))

	userIDs := make([]int64, 0, len(playerNames))
	for _, name := range playerNames {
		preferred := factionIDs[rand.Intn(len(factionIDs))]
		if _, err := db.Exec("INSERT OR IGNORE INTO users (name, preferred_faction_id) VALUES (?, ?)", name, preferred); err != nil {
			log.Fatalf("Failed to insert user %s: %s", name, err)
		}
		var id int64
		if err := db.QueryRow("SELECT id FROM users WHERE name = ?", name).Scan(&id); err != nil {
			log.Fatalf("Failed to look up user %s: %s", name, err)
		}
		userIDs = append(userIDs, id)
	}
	log.Info("Ensured dummy players exist.", "count", len(userIDs))

	const batchSize = 100 // Insert 100 games at a time
	const numGames = 1000

	log.Info("Preparing to insert dummy games...", "total", numGames, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize*4)
	valueArgs := make([]interface{}, 0, batchSize*4*5)
	inBatch := 0

	flush := func(completed int) {
		stmt := fmt.Sprintf(`
			INSERT INTO game_participants (game_id, user_id, faction_id, points, ranking)
			VALUES %s;`, strings.Join(valueStrings, ","))
		if _, err := tx.Exec(stmt, valueArgs...); err != nil {
			tx.Rollback()
			log.Fatalf("Failed to execute batch insert: %s", err)
		}
		valueStrings = valueStrings[:0]
		valueArgs = valueArgs[:0]
		inBatch = 0
		log.Info("Inserted batch", "completed", completed, "total", numGames)
	}

	for i := 0; i < numGames; i++ {
		reportDate := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		res, err := tx.Exec("INSERT INTO games (report_date, notes) VALUES (?, ?)",
			reportDate.UTC().Format("2006-01-02 15:04:05"), nil)
		if err != nil {
			tx.Rollback()
			log.Fatalf("Failed to insert game: %s", err)
		}
		gameID, err := res.LastInsertId()
		if err != nil {
			tx.Rollback()
			log.Fatalf("Failed to read game id: %s", err)
		}

		// Pick 2-4 distinct players and hand out rankings by points.
		playerCount := 2 + rand.Intn(3)
		perm := rand.Perm(len(userIDs))[:playerCount]
		for ranking, idx := range perm {
			valueStrings = append(valueStrings, "(?, ?, ?, ?, ?)")
			valueArgs = append(valueArgs,
				gameID,
				userIDs[idx],
				factionIDs[rand.Intn(len(factionIDs))],
				100-ranking*10+rand.Intn(9),
				ranking+1,
			)
		}
		inBatch++

		if inBatch >= batchSize || (i+1) == numGames {
			flush(i + 1)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy games.", "duration", duration)
}
