package main

import (
	"log"

	"github.com/existflow/planner/internal/config"
	"github.com/existflow/planner/internal/db"
	"github.com/existflow/planner/internal/logger"
	"github.com/existflow/planner/internal/planner"
	"github.com/existflow/planner/server"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logConfig := logger.DefaultConfig()
	logConfig.Level = logger.ParseLevel(cfg.LogLevel)
	logConfig.FilePath = cfg.LogFile
	logConfig.Console = true
	if err := logger.Init(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	database, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	srv := server.New(planner.New(database), cfg.SessionTTL())
	defer func() {
		if err := srv.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	log.Printf("Planner API server starting on %s", cfg.Addr)
	if err := srv.Start(cfg.Addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
