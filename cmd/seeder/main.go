package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/conquest-league/stats-tracker/internal/config"
	"github.com/conquest-league/stats-tracker/internal/database"
	"github.com/conquest-league/stats-tracker/internal/league"
	"github.com/conquest-league/stats-tracker/internal/metrics"
	"github.com/conquest-league/stats-tracker/internal/notifier"
	"github.com/conquest-league/stats-tracker/internal/processor"
)

// roster is the founding player set.
var roster = []league.Player{
	{ID: "stokker", Name: "Stokker", FavoriteStrategy: "Rush militar", FavoriteCivilization: "Francos"},
	{ID: "kylecher", Name: "Kylecher", FavoriteStrategy: "Boom económico", FavoriteCivilization: "Bizantinos"},
	{ID: "nicoz", Name: "NicoZ", FavoriteStrategy: "Torres defensivas", FavoriteCivilization: "Teutones"},
	{ID: "gato_alado", Name: "Gato Alado", FavoriteStrategy: "Rush económico", FavoriteCivilization: "Mayas"},
	{ID: "cairbus", Name: "Cairbus", FavoriteStrategy: "Caballería pesada", FavoriteCivilization: "Persas"},
	{ID: "artibool", Name: "Artibool", FavoriteStrategy: "Monjes y asedio", FavoriteCivilization: "Aztecas"},
}

func main() {
	matchCount := flag.Int("matches", 20, "number of simulated matches to seed")
	flag.Parse()

	log.Info("Starting database seeder...")
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "league.db"
	}
	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}

	db, teardown, err := database.InitDB(dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"), migrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	store := league.New(db)
	for i := range roster {
		player := roster[i]
		if err := store.CreatePlayer(&player); err != nil {
			if league.IsValidation(err) {
				log.Info("Player already on roster", "player_id", player.ID)
				continue
			}
			log.Fatalf("Failed to create player %s: %s", player.ID, err)
		}
		log.Info("Registered player", "player_id", player.ID, "civilization", player.FavoriteCivilization)
	}

	// Simulated matches run through the real pipeline so the seeded aggregates
	// are exactly what live submissions would have produced.
	proc := processor.New(store, notifier.NewMock(), metrics.NewService(), nil, config.ScoringConfig{
		MinScore:     0,
		MaxScore:     100,
		HistoryLimit: league.DefaultHistoryLimit,
	})

	playerIDs := make([]string, len(roster))
	for i, p := range roster {
		playerIDs[i] = p.ID
	}

	for i := 0; i < *matchCount; i++ {
		result, err := proc.SimulateMatch(playerIDs, "")
		if err != nil {
			log.Fatalf("Failed to simulate match: %s", err)
		}
		log.Info("Seeded match", "match_id", result.Match.ID, "winner", result.Match.Winner)
	}

	log.Info("Seeding complete", "players", len(roster), "matches", *matchCount)
}
