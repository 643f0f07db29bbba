package main

import (
	"context"
	"log"

	"schedex/internal/config"
	"schedex/internal/container"
	"schedex/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase opens the PostgreSQL run ledger when DATABASE_URL is
// set. A missing URL is not an error; parsing works without the ledger.
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, nil
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create dependency injection container
	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	// Initialize database-backed repositories when a ledger is configured
	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if db != nil {
		if err := appContainer.InitWithDatabase(db); err != nil {
			log.Fatalf("Failed to initialize container: %v", err)
		}
	} else {
		log.Println("DATABASE_URL not set, running without the run ledger")
	}

	// Start the ops server alongside the parse API
	ops := ui.NewApp(ui.Config{Port: appConfig.Ops.Port}, appContainer.RunRepo, appContainer.UsageRepo)
	go func() {
		if err := ops.Start(); err != nil {
			log.Printf("Ops server failed: %v", err)
		}
	}()

	// Start the parse API server
	server := ui.NewServer(ui.ServerConfig{
		GinMode:     appConfig.Server.GinMode,
		MaxUploadMB: appConfig.Server.MaxUploadMB,
	}, appContainer.Reader, appContainer.Parser)

	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
