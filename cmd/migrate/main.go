package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/launchbase/launchbase/internal/config"
	"github.com/launchbase/launchbase/internal/db"
	"github.com/launchbase/launchbase/internal/subscription"
	"github.com/launchbase/launchbase/internal/team"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	bunDB := db.NewBunPostgresClient(cfg.DatabaseURL)
	defer bunDB.Close()

	ctx := context.Background()

	teamRepo := team.NewTeamRepository(bunDB)
	if err := teamRepo.InitializeDatabase(ctx); err != nil {
		log.Fatalf("Failed to create teams table: %v", err)
	}

	subsRepo := subscription.NewSubscriptionRepository(bunDB)
	if err := subsRepo.InitializeDatabase(ctx); err != nil {
		log.Fatalf("Failed to create subscriptions table: %v", err)
	}

	log.Println("Database is up to date")
}
