package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tidebay/tidebay/internal/api"
	"github.com/tidebay/tidebay/internal/category"
	"github.com/tidebay/tidebay/internal/config"
	"github.com/tidebay/tidebay/internal/database"
	"github.com/tidebay/tidebay/internal/logger"
	"github.com/tidebay/tidebay/internal/search"
	"github.com/tidebay/tidebay/internal/search/esindex"
	"github.com/tidebay/tidebay/internal/store"
)

func main() {
	// Local development overrides; absence is fine.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("version", config.Version).
		Str("db", cfg.Database.Path).
		Bool("indexBackend", cfg.Elastic.Enabled).
		Msg("Starting tidebay")

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	records := store.New(db.Conn(), log.Logger)

	var index search.IndexStore
	if cfg.Elastic.Enabled {
		index = esindex.NewClient(cfg.Elastic, log.Logger)
	}

	searchService := search.NewService(records, index, category.Default(),
		cfg.Search, cfg.Elastic.Highlight, log.Logger)
	server := api.NewServer(cfg, search.NewHandlers(searchService), log.Logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server stopped unexpectedly")
		}
	}()
	log.Info().Str("address", cfg.Server.Address()).Msg("Listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
