package job

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingJob counts runs and misfires.
type countingJob struct {
	runs     atomic.Int32
	misfires atomic.Int32
	late     atomic.Int64
}

func (j *countingJob) Run(context.Context) { j.runs.Add(1) }

func (j *countingJob) Misfire(_ context.Context, late time.Duration) {
	j.misfires.Add(1)
	j.late.Store(int64(late))
}

func newStartedManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()

	m, err := NewManager(opts...)
	require.NoError(t, err)
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.Stop(ctx)
	})
	return m
}

func TestNewManager_InvalidSchedule(t *testing.T) {
	t.Parallel()

	_, err := NewManager(WithScheduledTask(&scheduledTestTask{schedule: "not a cron"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestManager_Schedule_Validation(t *testing.T) {
	t.Parallel()

	m, err := NewManager()
	require.NoError(t, err)

	j := &countingJob{}
	at := time.Now().Add(time.Hour)

	assert.ErrorIs(t, m.Schedule("", at, j), ErrJobIDRequired)
	assert.ErrorIs(t, m.Schedule("a", at, nil), ErrJobRequired)

	require.NoError(t, m.Schedule("a", at, j))
	assert.ErrorIs(t, m.Schedule("a", at, j), ErrDuplicateJob)
	assert.Equal(t, 1, m.Pending())
}

func TestManager_RunsJobAtTime(t *testing.T) {
	t.Parallel()

	m := newStartedManager(t)
	j := &countingJob{}

	require.NoError(t, m.Schedule("soon", time.Now().Add(50*time.Millisecond), j))

	require.Eventually(t, func() bool { return j.runs.Load() == 1 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, m.Pending())

	// A fired job is gone: cancelling it reports not found.
	assert.ErrorIs(t, m.Cancel("soon"), ErrJobNotFound)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), j.runs.Load(), "one-shot job must run once")
}

func TestManager_PastJobFiresImmediately(t *testing.T) {
	t.Parallel()

	m := newStartedManager(t)
	j := &countingJob{}

	require.NoError(t, m.Schedule("past", time.Now().Add(-time.Second), j))

	require.Eventually(t, func() bool { return j.runs.Load() == 1 }, 3*time.Second, 10*time.Millisecond)
	assert.Zero(t, j.misfires.Load())
}

func TestManager_ScheduledBeforeStart(t *testing.T) {
	t.Parallel()

	m, err := NewManager()
	require.NoError(t, err)

	j := &countingJob{}
	require.NoError(t, m.Schedule("early", time.Now(), j))

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, j.runs.Load(), "job must not fire before Start")

	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() { _ = m.Stop(context.Background()) })

	require.Eventually(t, func() bool { return j.runs.Load() == 1 }, 3*time.Second, 10*time.Millisecond)
}

func TestManager_Cancel(t *testing.T) {
	t.Parallel()

	m := newStartedManager(t)
	j := &countingJob{}

	require.NoError(t, m.Schedule("later", time.Now().Add(200*time.Millisecond), j))
	require.NoError(t, m.Cancel("later"))
	assert.Equal(t, 0, m.Pending())

	err := m.Cancel("later")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrJobNotFound))

	time.Sleep(400 * time.Millisecond)
	assert.Zero(t, j.runs.Load(), "cancelled job must never run")
}

func TestManager_CancelUnknown(t *testing.T) {
	t.Parallel()

	m, err := NewManager()
	require.NoError(t, err)
	assert.ErrorIs(t, m.Cancel("missing"), ErrJobNotFound)
}

func TestManager_Misfire(t *testing.T) {
	t.Parallel()

	m := newStartedManager(t, WithMisfireGrace(time.Minute))
	j := &countingJob{}

	require.NoError(t, m.Schedule("stale", time.Now().Add(-time.Hour), j))

	require.Eventually(t, func() bool { return j.misfires.Load() == 1 }, 3*time.Second, 10*time.Millisecond)
	assert.Zero(t, j.runs.Load(), "misfired job must not run")
	assert.GreaterOrEqual(t, time.Duration(j.late.Load()), time.Hour)
}

func TestManager_MisfireWithClock(t *testing.T) {
	t.Parallel()

	// The clock runs ten minutes ahead, so a job due now is already late.
	skew := func() time.Time { return time.Now().Add(10 * time.Minute) }
	m := newStartedManager(t, withClock(skew))
	j := &countingJob{}

	require.NoError(t, m.Schedule("skewed", time.Now(), j))

	require.Eventually(t, func() bool { return j.misfires.Load() == 1 }, 3*time.Second, 10*time.Millisecond)
	assert.Zero(t, j.runs.Load())
}

func TestManager_MisfireGraceDisabled(t *testing.T) {
	t.Parallel()

	m := newStartedManager(t, WithMisfireGrace(0))
	j := &countingJob{}

	require.NoError(t, m.Schedule("stale", time.Now().Add(-time.Hour), j))

	require.Eventually(t, func() bool { return j.runs.Load() == 1 }, 3*time.Second, 10*time.Millisecond)
	assert.Zero(t, j.misfires.Load())
}

func TestManager_RecoversPanic(t *testing.T) {
	t.Parallel()

	m := newStartedManager(t, WithMaxWorkers(1))
	j := &countingJob{}

	require.NoError(t, m.Schedule("boom", time.Now(), JobFunc(func(context.Context) {
		panic("boom")
	})))
	require.NoError(t, m.Schedule("after", time.Now().Add(100*time.Millisecond), j))

	// The panicking job must release its worker slot.
	require.Eventually(t, func() bool { return j.runs.Load() == 1 }, 3*time.Second, 10*time.Millisecond)
}

func TestManager_MaxWorkers(t *testing.T) {
	t.Parallel()

	m := newStartedManager(t, WithMaxWorkers(1))

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	wg.Add(3)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, m.Schedule(id, time.Now(), JobFunc(func(context.Context) {
			defer wg.Done()
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			running.Add(-1)
		})))
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("jobs did not finish")
	}
	assert.Equal(t, int32(1), peak.Load())
}

func TestManager_StartStop(t *testing.T) {
	t.Parallel()

	m, err := NewManager()
	require.NoError(t, err)

	assert.ErrorIs(t, m.Stop(context.Background()), ErrNotStarted)

	require.NoError(t, m.StartFunc()(context.Background()))
	assert.ErrorIs(t, m.Start(context.Background()), ErrAlreadyStarted)

	require.NoError(t, m.Shutdown()(context.Background()))
	assert.ErrorIs(t, m.Stop(context.Background()), ErrNotStarted)
}

func TestManager_StopWaitsForRunningJobs(t *testing.T) {
	t.Parallel()

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Start(context.Background()))

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	require.NoError(t, m.Schedule("slow", time.Now(), JobFunc(func(context.Context) {
		close(started)
		<-release
		finished.Store(true)
	})))

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not start")
	}

	stopped := make(chan error, 1)
	go func() { stopped <- m.Stop(context.Background()) }()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a job was running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)

	select {
	case err := <-stopped:
		require.NoError(t, err)
		assert.True(t, finished.Load())
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestManager_StopTimeout(t *testing.T) {
	t.Parallel()

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Start(context.Background()))

	started := make(chan struct{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	require.NoError(t, m.Schedule("stuck", time.Now(), JobFunc(func(context.Context) {
		close(started)
		<-release
	})))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = m.Stop(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestManager_RestartFiresPendingJobs(t *testing.T) {
	t.Parallel()

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Start(context.Background()))

	j := &countingJob{}
	require.NoError(t, m.Schedule("after-restart", time.Now().Add(300*time.Millisecond), j))
	require.NoError(t, m.Stop(context.Background()))

	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() { _ = m.Stop(context.Background()) })

	require.Eventually(t, func() bool { return j.runs.Load() == 1 }, 3*time.Second, 10*time.Millisecond)
}

func TestErrors(t *testing.T) {
	// Verify error messages
	assert.Contains(t, ErrAlreadyStarted.Error(), "already started")
	assert.Contains(t, ErrNotStarted.Error(), "not started")
	assert.Contains(t, ErrJobNotFound.Error(), "not found")
	assert.Contains(t, ErrDuplicateJob.Error(), "duplicate")
}
