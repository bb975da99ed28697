package main

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"microblog/internal/auth"
	"microblog/internal/cache"
	"microblog/internal/config"
	"microblog/internal/db"
	"microblog/internal/handlers"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}

	for _, dir := range []string{filepath.Dir(cfg.DBPath), cfg.MediaDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal().Err(err).Str("dir", dir).Msg("mkdir")
		}
	}

	dbc, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer dbc.Close()

	if err := db.Migrate(dbc); err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}

	sessions := auth.NewManager(dbc, cfg.SessionTTL)
	fragments := cache.New(cfg.CacheEntries, cfg.CacheTTL)

	h := handlers.New(dbc, sessions, fragments, logger, cfg.TemplateDir, cfg.MediaDir)

	logger.Info().Str("addr", cfg.Addr).Msg("listening")
	if err := http.ListenAndServe(cfg.Addr, h.Routes(cfg.StaticDir, cfg.MediaDir)); err != nil {
		logger.Fatal().Err(err).Msg("server")
	}
}
