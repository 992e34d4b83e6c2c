package redis

import "time"

// Config holds Redis connection settings for the draft cache.
// Embed this in your app config for env parsing with caarlos0/env.
// An empty URL disables Redis.
type Config struct {
	URL            string        `env:"REDIS_URL"`
	PoolSize       int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns   int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	ConnectRetries int           `env:"REDIS_CONNECT_RETRIES" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	DialTimeout    time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout    time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout   time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}

// options converts the config into connection options.
func (c Config) options() []Option {
	return []Option{
		WithPoolSize(c.PoolSize),
		WithMinIdleConns(c.MinIdleConns),
		WithRetry(c.ConnectRetries, c.RetryInterval),
		WithTimeouts(c.DialTimeout, c.ReadTimeout, c.WriteTimeout),
	}
}
