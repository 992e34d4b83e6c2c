package job

import (
	"context"
	"time"
)

// Job is deferred work run once by the manager at its scheduled time.
// Run must handle its own failures; the manager only recovers panics.
type Job interface {
	Run(ctx context.Context)
}

// JobFunc adapts a plain function to Job.
type JobFunc func(ctx context.Context)

// Run calls f(ctx).
func (f JobFunc) Run(ctx context.Context) { f(ctx) }

// Misfirer is implemented by jobs that want to be told when they fired
// later than the manager's misfire grace allows. Such a job is not run;
// Misfire is called instead with how late the trigger was.
type Misfirer interface {
	Misfire(ctx context.Context, late time.Duration)
}
