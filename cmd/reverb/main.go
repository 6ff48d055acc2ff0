package main

import (
	"context"
	"net/http"

	"github.com/j-cqln/reverb/internal/store"
	"github.com/j-cqln/reverb/shared/go/logging"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		boot := logging.New(logging.Config{})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	dataStore := store.New(db, logging.WithComponent(log, "store"))

	if err := dataStore.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure schema")
	}

	if err := bootstrapDemoData(ctx, dataStore); err != nil {
		log.Fatal().Err(err).Msg("bootstrap demo data")
	}

	handler := newHTTPHandler(cfg, log, dataStore)

	log.Info().Str("addr", cfg.Addr).Msg("api listening")
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
