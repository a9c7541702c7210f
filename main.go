package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/nvolkova/avcatalog/internal/config"
	"github.com/nvolkova/avcatalog/internal/database"
	"github.com/nvolkova/avcatalog/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.Seed {
		if err := db.SeedIfEmpty(); err != nil {
			slog.Warn("seeding sample data failed", "error", err)
		}
	}

	srv := server.New(cfg, db)
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
