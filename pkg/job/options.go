package job

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultMaxWorkers   = 100
	defaultMisfireGrace = 5 * time.Minute
)

// config holds job manager configuration.
type config struct {
	logger       *slog.Logger
	location     *time.Location
	now          func() time.Time
	schedules    []scheduleConfig
	maxWorkers   int
	misfireGrace time.Duration
}

// newConfig creates a config with defaults.
func newConfig() *config {
	return &config{
		location:     time.Local,
		now:          time.Now,
		maxWorkers:   defaultMaxWorkers,
		misfireGrace: defaultMisfireGrace,
	}
}

// scheduleConfig holds scheduled task configuration.
//
//nolint:betteralign // all fields contain pointers, no optimization possible
type scheduleConfig struct {
	handler  scheduledHandler
	name     string
	schedule string
}

// Option configures the job manager.
type Option func(*config)

// WithScheduledTask registers a periodic task using structural typing.
// The task must implement Name(), Schedule(), and Handle(ctx) methods.
// Schedule() should return a cron expression (5 fields: min hour day month weekday).
//
// Example:
//
//	type ReportLiveUnits struct {
//	    scheduler *campaign.Scheduler
//	}
//
//	func (t *ReportLiveUnits) Name() string     { return "report_live_units" }
//	func (t *ReportLiveUnits) Schedule() string { return "*/5 * * * *" }
//	func (t *ReportLiveUnits) Handle(ctx context.Context) error {
//	    slog.InfoContext(ctx, "live units", slog.Int("count", t.scheduler.Registry().Len()))
//	    return nil
//	}
//
//	job.WithScheduledTask(&ReportLiveUnits{scheduler: s})
func WithScheduledTask[T interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}](task T) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, scheduleConfig{
			name:     task.Name(),
			schedule: task.Schedule(),
			handler:  task.Handle,
		})
	}
}

// WithLogger sets the logger for job processing.
// If not set, a noop logger is used.
//
// Example:
//
//	job.WithLogger(slog.Default())
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxWorkers limits how many jobs may run at the same time.
// Jobs that fire while the limit is reached wait for a free slot.
// Defaults to 100 if not set.
//
// Example:
//
//	job.WithMaxWorkers(10) // At most 10 concurrent deliveries
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// WithMisfireGrace sets how late a job may fire and still run.
// A job triggered later than this is skipped and, if it implements
// Misfirer, told about it. Zero disables the check.
// Defaults to 5 minutes.
func WithMisfireGrace(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.misfireGrace = d
		}
	}
}

// WithLocation sets the time zone used to evaluate periodic cron expressions.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.location = loc
		}
	}
}

// withClock overrides the clock used for misfire checks. Test hook.
func withClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}
