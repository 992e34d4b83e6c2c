// Package config loads the outreach service configuration from the
// environment, after an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/outreach/pkg/cache"
	"github.com/dmitrymomot/outreach/pkg/db"
	"github.com/dmitrymomot/outreach/pkg/draft"
	"github.com/dmitrymomot/outreach/pkg/logger"
	"github.com/dmitrymomot/outreach/pkg/mailer"
	"github.com/dmitrymomot/outreach/pkg/mailer/resend"
	"github.com/dmitrymomot/outreach/pkg/redis"
	"github.com/dmitrymomot/outreach/pkg/storage"
)

// Server holds HTTP listener settings.
type Server struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	MaxUploadBytes  int64         `env:"HTTP_MAX_UPLOAD_BYTES" envDefault:"5242880"`
}

// Scheduler holds campaign executor settings.
type Scheduler struct {
	MaxWorkers   int           `env:"SCHEDULER_MAX_WORKERS" envDefault:"10"`
	MisfireGrace time.Duration `env:"SCHEDULER_MISFIRE_GRACE" envDefault:"5m"`
	Timezone     string        `env:"SCHEDULER_TIMEZONE" envDefault:"Local"`
	MaxEmails    int           `env:"SCHEDULER_MAX_EMAILS" envDefault:"20"`
}

// Location resolves Timezone.
func (s Scheduler) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// Config is the full service configuration.
type Config struct {
	Server    Server
	Scheduler Scheduler
	Log       logger.Config
	Mailer    mailer.Config
	Resend    resend.Config
	Draft     draft.Config
	Storage   storage.Config
	Cache     cache.Config
	Redis     redis.Config
	DB        db.Config
}

// Load reads .env files (missing files are skipped) and parses the environment.
// Variables already set in the environment win over .env values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Scheduler.MaxEmails < 1 {
		return nil, errors.New("config: SCHEDULER_MAX_EMAILS must be at least 1")
	}
	return &cfg, nil
}
