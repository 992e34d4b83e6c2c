package job

import "errors"

// Job errors.
var (
	// ErrAlreadyStarted is returned when attempting to start a manager
	// that is already running.
	ErrAlreadyStarted = errors.New("job: already started")

	// ErrNotStarted is returned when attempting to stop a manager
	// that is not running.
	ErrNotStarted = errors.New("job: not started")

	// ErrJobNotFound is returned when cancelling a job that is not pending,
	// either because it already fired or because it was never scheduled.
	ErrJobNotFound = errors.New("job: job not found")

	// ErrDuplicateJob is returned when a job id is already pending.
	ErrDuplicateJob = errors.New("job: duplicate job id")

	// ErrJobIDRequired is returned when scheduling a job without an id.
	ErrJobIDRequired = errors.New("job: job id is required")

	// ErrJobRequired is returned when scheduling a nil job.
	ErrJobRequired = errors.New("job: job is required")

	// ErrInvalidSchedule is returned when a periodic task has a bad cron expression.
	ErrInvalidSchedule = errors.New("job: invalid cron schedule")
)
