package cache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config selects and tunes the cache backend.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Backend    string        `env:"CACHE_BACKEND" envDefault:"memory"`
	Prefix     string        `env:"CACHE_PREFIX" envDefault:"outreach"`
	TTL        time.Duration `env:"CACHE_TTL" envDefault:"24h"`
	MaxEntries int           `env:"CACHE_MAX_ENTRIES" envDefault:"1000"`
}

// Open creates the cache selected by cfg. The redis backend requires client;
// namespace is appended to the configured prefix.
func Open[V any](cfg Config, client redis.UniversalClient, namespace string) (Cache[V], error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemory[V](
			WithDefaultTTL(cfg.TTL),
			WithMaxEntries(cfg.MaxEntries),
		), nil
	case BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("%w: redis backend needs a client", ErrUnknownBackend)
		}
		prefix := namespace
		if cfg.Prefix != "" {
			prefix = cfg.Prefix + ":" + namespace
		}
		return NewRedis[V](client, nil,
			WithPrefix(prefix),
			WithRedisDefaultTTL(cfg.TTL),
		), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
