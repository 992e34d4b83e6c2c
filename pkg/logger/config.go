package logger

import "log/slog"

// Config holds logger configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`

	// File, when set, receives a copy of every record with size-based rotation.
	File           string `env:"LOG_FILE"`
	FileMaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE_MB" envDefault:"50"`
	FileMaxBackups int    `env:"LOG_FILE_MAX_BACKUPS" envDefault:"5"`
	FileMaxAgeDays int    `env:"LOG_FILE_MAX_AGE_DAYS" envDefault:"30"`

	Sentry SentryConfig
}

// level parses Level, falling back to info.
func (c Config) level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
