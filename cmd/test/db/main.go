package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Omarlsant/job-scraper/internal/config"
	"github.com/Omarlsant/job-scraper/internal/database"
)

func main() {
	path := flag.String("config", "", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Printf("Attempting to connect to %s at %s...\n", cfg.Database.Driver, cfg.Database.Addr())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := database.ConnectDB(ctx, cfg.Database, cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to connect to the database. Error: %v\n(Check DB_HOST, DB_PORT and credentials in .env)", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("❌ Schema check failed: %v", err)
	}

	count, err := repo.CountListings(ctx)
	if err != nil {
		log.Fatalf("❌ Query failed: %v", err)
	}

	fmt.Println("✅ Successfully connected!")
	fmt.Printf("📦 %s holds %d listings\n", repo.Table(), count)
}
