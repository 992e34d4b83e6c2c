package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// scheduledHandler wraps a scheduled task's Handle method.
type scheduledHandler func(ctx context.Context) error

// onceSchedule is a cron.Schedule that fires a single time.
// Cron asks for the next activation when an entry is added (or when the
// run loop starts) and again after each run, so the first answer is the
// target time and every later one is the zero time, which never fires.
type onceSchedule struct {
	at   time.Time
	used bool
}

func (s *onceSchedule) Next(time.Time) time.Time {
	if s.used {
		return time.Time{}
	}
	s.used = true
	return s.at
}

// rewind makes the schedule fire again on the next Next call.
// Only safe while the cron run loop is stopped.
func (s *onceSchedule) rewind() {
	s.used = false
}

func parseCronSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return parser.Parse(expr)
}
