// Package job runs deferred work at wall-clock times on background goroutines.
//
// It wraps robfig/cron with one-shot schedules, so a job registered for a
// given time fires exactly once, and keeps an id for every pending job so it
// can be cancelled before it fires. Periodic maintenance tasks use regular
// cron expressions.
//
// # Features
//
//   - One-shot jobs keyed by id, cancellable until they fire
//   - Jobs scheduled in the past fire as soon as the manager runs
//   - Misfire grace: jobs that fire too late are skipped and notified
//   - Bounded concurrency with a weighted semaphore
//   - Periodic tasks with cron expressions and structural typing
//   - Panics inside jobs are recovered and logged
//   - Graceful stop that waits for running jobs
//   - Health check integration
//
// # One-shot Jobs
//
// Anything with a Run(ctx) method is a [Job]:
//
//	type sendReminder struct {
//	    recipient string
//	}
//
//	func (j *sendReminder) Run(ctx context.Context) {
//	    // deliver
//	}
//
//	manager, err := job.NewManager(job.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//
//	err = manager.Schedule("reminder-42", time.Now().Add(time.Hour), &sendReminder{recipient: "a@b.com"})
//
// Cancel a job that has not fired yet:
//
//	if err := manager.Cancel("reminder-42"); errors.Is(err, job.ErrJobNotFound) {
//	    // already fired or never scheduled
//	}
//
// # Misfires
//
// When the process was busy or stopped and a job fires later than the grace
// period ([WithMisfireGrace], 5 minutes by default), the job is not run. If it
// implements [Misfirer], its Misfire method is called instead.
//
// # Scheduled Tasks
//
// Periodic tasks implement Schedule() returning a cron expression:
//
//	type ReportQueue struct{}
//
//	func (t *ReportQueue) Name() string     { return "report_queue" }
//	func (t *ReportQueue) Schedule() string { return "*/5 * * * *" } // Every 5 minutes
//	func (t *ReportQueue) Handle(ctx context.Context) error {
//	    return nil
//	}
//
//	job.NewManager(job.WithScheduledTask(&ReportQueue{}))
//
// # Lifecycle
//
// Jobs may be scheduled before [Manager.Start]. [Manager.Stop] halts the
// trigger loop and waits for running jobs; pending jobs stay registered and
// fire after the next start.
//
//	if err := manager.Start(ctx); err != nil {
//	    return err
//	}
//	defer manager.Stop(context.Background())
//
// # Error Handling
//
// The package defines sentinel errors for common failure modes:
//
//   - [ErrJobNotFound] - Job already fired or never scheduled
//   - [ErrDuplicateJob] - Job id already pending
//   - [ErrInvalidSchedule] - Bad cron expression
//   - [ErrAlreadyStarted] - Manager already running
//   - [ErrNotStarted] - Manager not running
//   - [ErrHealthcheckFailed] - Health check failed
package job
