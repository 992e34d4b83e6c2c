package job

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/semaphore"
)

// Manager runs jobs at wall-clock times on background goroutines.
// One-shot jobs are keyed by id so they can be cancelled before they fire.
// Periodic tasks registered with WithScheduledTask run on their cron schedule.
type Manager struct {
	cron    *cron.Cron
	sem     *semaphore.Weighted
	logger  *slog.Logger
	now     func() time.Time
	pending map[string]*pendingJob
	grace   time.Duration
	tasks   int

	pendingMu sync.Mutex
	mu        sync.Mutex
	started   bool
}

// pendingJob is a one-shot job waiting for its trigger.
type pendingJob struct {
	schedule *onceSchedule
	entryID  cron.EntryID
}

// NewManager creates a new job manager with the given options.
// Jobs can be scheduled before Start() is called; they fire once the
// manager is running.
func NewManager(opts ...Option) (*Manager, error) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cl := cronLogger{logger: cfg.logger}
	m := &Manager{
		cron: cron.New(
			cron.WithLocation(cfg.location),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		sem:     semaphore.NewWeighted(int64(cfg.maxWorkers)),
		logger:  cfg.logger,
		now:     cfg.now,
		pending: make(map[string]*pendingJob),
		grace:   cfg.misfireGrace,
		tasks:   len(cfg.schedules),
	}

	for _, sched := range cfg.schedules {
		schedule, err := parseCronSchedule(sched.schedule)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, sched.schedule, err)
		}
		m.cron.Schedule(schedule, cron.FuncJob(func() {
			m.runTask(sched.name, sched.handler)
		}))
	}

	return m, nil
}

// Schedule registers j to run once at the given time.
// A time in the past fires as soon as the manager is running.
// Returns ErrDuplicateJob if id is already pending.
func (m *Manager) Schedule(id string, at time.Time, j Job) error {
	if id == "" {
		return ErrJobIDRequired
	}
	if j == nil {
		return ErrJobRequired
	}

	// Held across cron.Schedule so a job due immediately cannot claim itself
	// before its entry is recorded.
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()

	if _, ok := m.pending[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, id)
	}

	schedule := &onceSchedule{at: at}
	entryID := m.cron.Schedule(schedule, cron.FuncJob(func() {
		m.fire(id, at, j)
	}))
	m.pending[id] = &pendingJob{entryID: entryID, schedule: schedule}

	m.logger.Debug("job scheduled",
		slog.String("job_id", id),
		slog.Time("at", at),
	)
	return nil
}

// Cancel removes a pending job so it never runs.
// Returns ErrJobNotFound if the job already fired or was never scheduled.
// A job that is already running is not interrupted.
func (m *Manager) Cancel(id string) error {
	m.pendingMu.Lock()
	p, ok := m.pending[id]
	delete(m.pending, id)
	m.pendingMu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	m.cron.Remove(p.entryID)
	m.logger.Debug("job cancelled", slog.String("job_id", id))
	return nil
}

// Pending returns the number of one-shot jobs waiting to fire.
func (m *Manager) Pending() int {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	return len(m.pending)
}

// claim takes a pending job out of the table. It reports false when the job
// was cancelled in the meantime.
func (m *Manager) claim(id string) bool {
	m.pendingMu.Lock()
	p, ok := m.pending[id]
	delete(m.pending, id)
	m.pendingMu.Unlock()

	if ok {
		m.cron.Remove(p.entryID)
	}
	return ok
}

// fire runs on a cron goroutine when a one-shot job is due.
func (m *Manager) fire(id string, at time.Time, j Job) {
	if !m.claim(id) {
		return
	}

	ctx := context.Background()
	log := m.logger.With(slog.String("job_id", id))

	if late := m.now().Sub(at); m.grace > 0 && late > m.grace {
		log.WarnContext(ctx, "job misfired",
			slog.Time("at", at),
			slog.Duration("late", late),
		)
		if mf, ok := j.(Misfirer); ok {
			mf.Misfire(ctx, late)
		}
		return
	}

	if err := m.sem.Acquire(ctx, 1); err != nil {
		log.ErrorContext(ctx, "job worker slot unavailable", slog.Any("error", err))
		return
	}
	defer m.sem.Release(1)

	log.DebugContext(ctx, "executing job")
	j.Run(ctx)
	log.DebugContext(ctx, "job completed")
}

// runTask executes a periodic task handler.
func (m *Manager) runTask(name string, handler scheduledHandler) {
	ctx := context.Background()

	if err := m.sem.Acquire(ctx, 1); err != nil {
		return
	}
	defer m.sem.Release(1)

	m.logger.DebugContext(ctx, "executing task", slog.String("task", name))

	if err := handler(ctx); err != nil {
		m.logger.ErrorContext(ctx, "task failed",
			slog.String("task", name),
			slog.Any("error", err),
		)
		return
	}

	m.logger.DebugContext(ctx, "task completed", slog.String("task", name))
}

// Start begins firing jobs.
// This should be called when the application starts.
// Jobs can be scheduled before Start() is called.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}

	// The run loop is stopped here, so pending one-shot schedules
	// left over from a previous run can be rewound safely.
	m.pendingMu.Lock()
	for _, p := range m.pending {
		p.schedule.rewind()
	}
	pending := len(m.pending)
	m.pendingMu.Unlock()

	m.cron.Start()

	m.started = true
	m.logger.InfoContext(ctx, "job manager started",
		slog.Int("tasks", m.tasks),
		slog.Int("pending", pending),
	)

	return nil
}

// Stop halts the trigger loop and waits for running jobs to complete.
// Pending jobs stay registered and fire after the next Start.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}

	done := m.cron.Stop()
	m.started = false

	select {
	case <-done.Done():
	case <-ctx.Done():
		return fmt.Errorf("job: stop: %w", ctx.Err())
	}

	m.logger.InfoContext(ctx, "job manager stopped")
	return nil
}

// Shutdown returns a shutdown function for the job manager.
func (m *Manager) Shutdown() func(context.Context) error {
	return func(ctx context.Context) error {
		return m.Stop(ctx)
	}
}

// StartFunc returns a startup function for the job manager.
func (m *Manager) StartFunc() func(context.Context) error {
	return func(ctx context.Context) error {
		return m.Start(ctx)
	}
}

// cronLogger routes cron's internal logging to slog.
// Cron's info output is a trace of every wake-up, so it goes to debug.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
