package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/transitly/booking-backend/internal/config"
	"github.com/transitly/booking-backend/internal/database"
)

// One-shot sweep of expired seat holds. The server runs the same sweep on a
// timer; this command exists for cron-driven deployments and for operators.
func main() {
	var dbURLFlag string
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	dbCfg := config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	}

	db, err := database.NewConnection(dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	pgDB, ok := db.(*database.PostgresDB)
	if !ok {
		log.Fatal("failed to cast database connection to PostgresDB")
	}

	repo := database.NewSeatReservationRepository(pgDB.DB)
	removed, err := repo.DeleteExpired()
	if err != nil {
		log.Fatalf("cleanup failed: %v", err)
	}

	fmt.Printf("Removed %d expired seat reservations\n", removed)
}
