package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the server reads from the environment.
// A .env file in the working directory is loaded first if present.
type Config struct {
	Addr         string        `envconfig:"ADDR" default:":8080"`
	DBPath       string        `envconfig:"DB_PATH" default:"./data/microblog.db"`
	TemplateDir  string        `envconfig:"TEMPLATE_DIR" default:"./web/templates"`
	StaticDir    string        `envconfig:"STATIC_DIR" default:"./web/static"`
	MediaDir     string        `envconfig:"MEDIA_DIR" default:"./data/media"`
	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"20s"`
	CacheEntries int           `envconfig:"CACHE_ENTRIES" default:"128"`
	SessionTTL   time.Duration `envconfig:"SESSION_TTL" default:"24h"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("microblog", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
