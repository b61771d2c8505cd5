package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"goequity/adapters/postgres"
	"goequity/app"
	"goequity/internal"
	"goequity/internal/config"
	"goequity/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("failed to connect to records database: %v", err)
	}
	defer db.Close()

	logger := internal.DefaultLogger
	reader := postgres.NewRosterRepository(db)
	comparisons := app.NewComparisonService(logger)
	sweeps := app.NewSweepService(reader, comparisons, logger)

	server := ui.NewServer(sweeps, logger)
	if err := server.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
