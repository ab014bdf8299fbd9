package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"florist/internal/config"
	"florist/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	a, err := newApplication(cfg, db)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer a.close()

	if cfg.Shop.SeedCatalog {
		if err := seedCatalog(a.products); err != nil {
			log.Printf("Catalog seeding failed: %v", err)
		}
	}

	if err := a.startConsumers(); err != nil {
		log.Fatalf("Failed to start consumers: %v", err)
	}

	app := buildApp(a)
	log.Printf("Starting server on port %s", cfg.Server.Port)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.Server.Port); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
