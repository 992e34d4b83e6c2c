package campaign_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/outreach/pkg/campaign"
	"github.com/dmitrymomot/outreach/pkg/job"
)

// manualExecutor holds registered jobs until the test fires them.
type manualExecutor struct {
	jobs      map[string]job.Job
	failAfter int
	order     []string
	mu        sync.Mutex
}

func newManualExecutor() *manualExecutor {
	return &manualExecutor{jobs: make(map[string]job.Job), failAfter: -1}
}

var errExecutorFull = errors.New("executor full")

func (e *manualExecutor) Schedule(id string, _ time.Time, j job.Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.failAfter >= 0 && len(e.jobs) >= e.failAfter {
		return errExecutorFull
	}
	if _, ok := e.jobs[id]; ok {
		return job.ErrDuplicateJob
	}
	e.jobs[id] = j
	e.order = append(e.order, id)
	return nil
}

func (e *manualExecutor) Cancel(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.jobs[id]; !ok {
		return job.ErrJobNotFound
	}
	delete(e.jobs, id)
	return nil
}

// take removes a pending job the way a firing trigger claims it.
func (e *manualExecutor) take(id string) (job.Job, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	j, ok := e.jobs[id]
	delete(e.jobs, id)
	return j, ok
}

// fire runs the next n pending jobs in registration order.
func (e *manualExecutor) fire(ctx context.Context, n int) int {
	fired := 0
	for _, id := range e.pendingIDs() {
		if fired == n {
			break
		}
		if j, ok := e.take(id); ok {
			j.Run(ctx)
			fired++
		}
	}
	return fired
}

func (e *manualExecutor) fireAll(ctx context.Context) int {
	return e.fire(ctx, -1)
}

func (e *manualExecutor) pendingIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.jobs))
	for _, id := range e.order {
		if _, ok := e.jobs[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (e *manualExecutor) pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.jobs)
}

// recordingObserver keeps every event it sees.
type recordingObserver struct {
	scheduled []campaign.Unit
	outcomes  []campaign.Outcome
	cancelled map[string]int
	mu        sync.Mutex
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{cancelled: make(map[string]int)}
}

func (o *recordingObserver) Scheduled(_ context.Context, units []campaign.Unit) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.scheduled = append(o.scheduled, units...)
}

func (o *recordingObserver) Finished(_ context.Context, out campaign.Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, out)
}

func (o *recordingObserver) Cancelled(_ context.Context, campaignID string, removed int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancelled[campaignID] += removed
}

func (o *recordingObserver) finished() []campaign.Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.outcomes)
}

// stubDelivery counts calls and answers with a fixed status.
type stubDelivery struct {
	payloads []campaign.Payload
	status   int
	mu       sync.Mutex
}

func (d *stubDelivery) deliver(_ context.Context, p campaign.Payload) (int, []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payloads = append(d.payloads, p)
	if d.status == campaign.StatusOK {
		return d.status, []byte(`{"id":"msg_1"}`)
	}
	return d.status, []byte(`{"error":"rejected"}`)
}

func (d *stubDelivery) calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.payloads)
}

var (
	t0      = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1      = time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	payload = campaign.Payload{
		Recipient:     "a@b.com",
		Subject:       "Quick follow-up",
		Body:          "Hello there",
		SenderName:    "Jane",
		SenderTitle:   "CEO",
		SenderContact: "jane@example.com",
	}
)

func newTestScheduler(t *testing.T, opts ...campaign.Option) (*campaign.Scheduler, *manualExecutor) {
	t.Helper()

	exec := newManualExecutor()
	s, err := campaign.NewScheduler(exec, opts...)
	require.NoError(t, err)
	return s, exec
}

func unitsOf(s *campaign.Scheduler, campaignID string) []campaign.Unit {
	var out []campaign.Unit
	for _, u := range s.Units() {
		if u.CampaignID == campaignID {
			out = append(out, u)
		}
	}
	return out
}

func TestNewScheduler_RequiresExecutor(t *testing.T) {
	t.Parallel()

	_, err := campaign.NewScheduler(nil)
	assert.ErrorIs(t, err, campaign.ErrExecutorRequired)
}

func TestScheduleBatch_Validation(t *testing.T) {
	t.Parallel()

	d := &stubDelivery{status: 200}

	tests := []struct {
		name       string
		deliver    campaign.DeliveryFunc
		start, end time.Time
		total      int
		campaignID string
		wantErr    error
	}{
		{name: "zero total", deliver: d.deliver, start: t0, end: t1, total: 0, campaignID: "c1", wantErr: campaign.ErrInvalidCount},
		{name: "negative total", deliver: d.deliver, start: t0, end: t1, total: -1, campaignID: "c1", wantErr: campaign.ErrInvalidCount},
		{name: "end before start", deliver: d.deliver, start: t1, end: t0, total: 3, campaignID: "c1", wantErr: campaign.ErrInvalidWindow},
		{name: "empty campaign", deliver: d.deliver, start: t0, end: t1, total: 3, campaignID: "", wantErr: campaign.ErrInvalidCampaign},
		{name: "nil delivery", deliver: nil, start: t0, end: t1, total: 3, campaignID: "c1", wantErr: campaign.ErrNilDelivery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, exec := newTestScheduler(t)
			units, err := s.ScheduleBatch(context.Background(), tt.deliver, tt.start, tt.end, tt.total, tt.campaignID, payload)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, units)
			assert.Empty(t, s.ListAll())
			assert.Zero(t, exec.pending())
		})
	}
}

func TestScheduleBatch_ExampleWindow(t *testing.T) {
	t.Parallel()

	s, exec := newTestScheduler(t)
	d := &stubDelivery{status: 200}

	units, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 3, "c1", payload)
	require.NoError(t, err)
	require.Len(t, units, 3)

	want := []time.Time{
		t0,
		time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC),
		t1,
	}
	for i, u := range units {
		assert.Equal(t, want[i], u.SendTime)
		assert.Equal(t, campaign.UnitID(want[i], "c1", i), u.ID)
		assert.Equal(t, "a@b.com", u.Recipient)
	}
	assert.Equal(t, 3, exec.pending())
	assert.Zero(t, d.calls(), "scheduling must not deliver")
}

func TestScheduleBatch_RegistersScheduledUnits(t *testing.T) {
	t.Parallel()

	obs := newRecordingObserver()
	s, exec := newTestScheduler(t, campaign.WithObserver(obs))
	d := &stubDelivery{status: 200}

	_, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 7, "c1", payload)
	require.NoError(t, err)

	all := s.ListAll()
	require.Len(t, all, 7)
	for id, u := range all {
		assert.Equal(t, id, u.ID)
		assert.Equal(t, "c1", u.CampaignID)
		assert.Equal(t, campaign.StatusScheduled, u.Status)
		assert.Equal(t, payload, u.Payload)
	}
	assert.Equal(t, 7, exec.pending())
	assert.Len(t, obs.scheduled, 7)
}

func TestScheduleBatch_SameTimestampStillUnique(t *testing.T) {
	t.Parallel()

	s, _ := newTestScheduler(t)
	d := &stubDelivery{status: 200}

	units, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t0, 4, "c1", payload)
	require.NoError(t, err)

	ids := make(map[string]struct{})
	for _, u := range units {
		assert.Equal(t, t0, u.SendTime)
		ids[u.ID] = struct{}{}
	}
	assert.Len(t, ids, 4)
}

func TestScheduleBatch_AllDelivered(t *testing.T) {
	t.Parallel()

	obs := newRecordingObserver()
	s, exec := newTestScheduler(t, campaign.WithObserver(obs))
	d := &stubDelivery{status: 200}

	_, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 4, "c1", payload)
	require.NoError(t, err)

	assert.Equal(t, 4, exec.fireAll(context.Background()))

	assert.Empty(t, unitsOf(s, "c1"), "finished campaign must be cleaned up")
	assert.Equal(t, 4, d.calls())
	for _, p := range d.payloads {
		assert.Equal(t, payload, p)
	}

	outcomes := obs.finished()
	require.Len(t, outcomes, 4)
	for _, o := range outcomes {
		assert.Equal(t, campaign.StatusSent, o.Unit.Status)
		assert.Equal(t, 200, o.StatusCode)
		assert.JSONEq(t, `{"id":"msg_1"}`, string(o.Response))
		assert.Empty(t, o.Error)
	}
}

func TestScheduleBatch_AllFailed(t *testing.T) {
	t.Parallel()

	obs := newRecordingObserver()
	s, exec := newTestScheduler(t, campaign.WithObserver(obs))
	d := &stubDelivery{status: 500}

	_, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 3, "c1", payload)
	require.NoError(t, err)

	exec.fireAll(context.Background())

	assert.Empty(t, unitsOf(s, "c1"))
	assert.Equal(t, 3, d.calls(), "failures are not retried")

	outcomes := obs.finished()
	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		assert.Equal(t, campaign.StatusFailed, o.Unit.Status)
		assert.Equal(t, 500, o.StatusCode)
	}
}

func TestScheduleBatch_NonOKStatusesFail(t *testing.T) {
	t.Parallel()

	for _, code := range []int{0, 201, 202, 400, 429, 503} {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			t.Parallel()

			obs := newRecordingObserver()
			s, exec := newTestScheduler(t, campaign.WithObserver(obs))
			d := &stubDelivery{status: code}

			_, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 1, "c1", payload)
			require.NoError(t, err)
			exec.fireAll(context.Background())

			outcomes := obs.finished()
			require.Len(t, outcomes, 1)
			assert.Equal(t, campaign.StatusFailed, outcomes[0].Unit.Status)
		})
	}
}

func TestScheduleBatch_PanicIsFailure(t *testing.T) {
	t.Parallel()

	obs := newRecordingObserver()
	s, exec := newTestScheduler(t, campaign.WithObserver(obs))

	panicky := func(context.Context, campaign.Payload) (int, []byte) {
		panic("provider exploded")
	}

	_, err := s.ScheduleBatch(context.Background(), panicky, t0, t1, 2, "c1", payload)
	require.NoError(t, err)

	assert.NotPanics(t, func() { exec.fireAll(context.Background()) })

	assert.Empty(t, s.ListAll())
	outcomes := obs.finished()
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.Equal(t, campaign.StatusFailed, o.Unit.Status)
		assert.Contains(t, o.Error, "provider exploded")
	}
}

func TestScheduleBatch_PartialCampaignStaysLive(t *testing.T) {
	t.Parallel()

	s, exec := newTestScheduler(t)
	d := &stubDelivery{status: 200}

	_, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 3, "c1", payload)
	require.NoError(t, err)

	exec.fire(context.Background(), 1)

	units := unitsOf(s, "c1")
	require.Len(t, units, 3)

	counts := map[campaign.Status]int{}
	for _, u := range units {
		counts[u.Status]++
	}
	assert.Equal(t, map[campaign.Status]int{campaign.StatusSent: 1, campaign.StatusScheduled: 2}, counts)
}

func TestScheduleBatch_StatusIsSendingDuringDelivery(t *testing.T) {
	t.Parallel()

	s, exec := newTestScheduler(t)

	var seen campaign.Status
	var unitID string
	deliver := func(context.Context, campaign.Payload) (int, []byte) {
		u, _ := s.Registry().Get(unitID)
		seen = u.Status
		return 200, nil
	}

	units, err := s.ScheduleBatch(context.Background(), deliver, t0, t1, 2, "c1", payload)
	require.NoError(t, err)
	unitID = units[0].ID

	exec.fire(context.Background(), 1)
	assert.Equal(t, campaign.StatusSending, seen)
}

func TestScheduleBatch_DuplicateCampaignWindow(t *testing.T) {
	t.Parallel()

	s, exec := newTestScheduler(t)
	d := &stubDelivery{status: 200}

	_, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 3, "c1", payload)
	require.NoError(t, err)

	_, err = s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 3, "c1", payload)
	assert.ErrorIs(t, err, campaign.ErrDuplicateUnit)

	assert.Len(t, s.ListAll(), 3)
	assert.Equal(t, 3, exec.pending())
}

func TestScheduleBatch_RollsBackOnExecutorError(t *testing.T) {
	t.Parallel()

	s, exec := newTestScheduler(t)
	exec.failAfter = 2
	d := &stubDelivery{status: 200}

	units, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 5, "c1", payload)
	require.Error(t, err)
	assert.ErrorIs(t, err, errExecutorFull)
	assert.Nil(t, units)

	assert.Empty(t, s.ListAll())
	assert.Zero(t, exec.pending())
}

func TestCancelCampaign_AfterPartialFire(t *testing.T) {
	t.Parallel()

	const n = 6

	obs := newRecordingObserver()
	s, exec := newTestScheduler(t, campaign.WithObserver(obs))
	d := &stubDelivery{status: 200}

	_, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, n, "c1", payload)
	require.NoError(t, err)

	require.Equal(t, 2, exec.fire(context.Background(), 2))

	cancelled := s.CancelCampaign(context.Background(), "c1")

	assert.Equal(t, n-2, cancelled)
	assert.Empty(t, unitsOf(s, "c1"), "delivered units are dropped as well")
	assert.Zero(t, exec.pending(), "remaining registrations must be removed")
	assert.Equal(t, n-2, obs.cancelled["c1"])

	exec.fireAll(context.Background())
	assert.Equal(t, 2, d.calls(), "cancelled units must never deliver")
}

func TestCancelCampaign_Unknown(t *testing.T) {
	t.Parallel()

	obs := newRecordingObserver()
	s, exec := newTestScheduler(t, campaign.WithObserver(obs))
	d := &stubDelivery{status: 200}

	_, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 3, "c1", payload)
	require.NoError(t, err)
	before := s.ListAll()

	assert.Zero(t, s.CancelCampaign(context.Background(), "nope"))
	assert.Equal(t, before, s.ListAll())
	assert.Equal(t, 3, exec.pending())
	assert.Empty(t, obs.cancelled)
}

func TestCancelCampaign_Twice(t *testing.T) {
	t.Parallel()

	s, _ := newTestScheduler(t)
	d := &stubDelivery{status: 200}

	_, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 3, "c1", payload)
	require.NoError(t, err)

	assert.Equal(t, 3, s.CancelCampaign(context.Background(), "c1"))
	assert.Zero(t, s.CancelCampaign(context.Background(), "c1"))
}

func TestCancelCampaign_LeavesOtherCampaigns(t *testing.T) {
	t.Parallel()

	s, exec := newTestScheduler(t)
	d := &stubDelivery{status: 200}

	_, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 3, "c1", payload)
	require.NoError(t, err)
	_, err = s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 4, "c2", payload)
	require.NoError(t, err)

	assert.Equal(t, 3, s.CancelCampaign(context.Background(), "c1"))

	assert.Len(t, unitsOf(s, "c2"), 4)
	assert.Equal(t, 4, exec.pending())

	exec.fireAll(context.Background())
	assert.Equal(t, 4, d.calls())
	assert.Empty(t, s.ListAll())
}

func TestCancelCampaign_DuringDelivery(t *testing.T) {
	t.Parallel()

	obs := newRecordingObserver()
	s, exec := newTestScheduler(t, campaign.WithObserver(obs))

	entered := make(chan struct{})
	release := make(chan struct{})
	deliver := func(context.Context, campaign.Payload) (int, []byte) {
		close(entered)
		<-release
		return 200, nil
	}

	units, err := s.ScheduleBatch(context.Background(), deliver, t0, t1, 2, "c1", payload)
	require.NoError(t, err)

	j, ok := exec.take(units[0].ID)
	require.True(t, ok)

	done := make(chan struct{})
	go func() {
		j.Run(context.Background())
		close(done)
	}()
	<-entered

	assert.Equal(t, 1, s.CancelCampaign(context.Background(), "c1"), "in-flight unit is not counted")
	assert.Empty(t, s.ListAll(), "in-flight unit is dropped from the registry")

	close(release)
	<-done

	assert.Empty(t, s.ListAll(), "a late outcome must not resurrect the unit")
	outcomes := obs.finished()
	require.Len(t, outcomes, 1)
	assert.Equal(t, campaign.StatusSent, outcomes[0].Unit.Status)
	assert.Equal(t, units[0].ID, outcomes[0].Unit.ID)
}

func TestCancelCampaign_TriggerRacesCancel(t *testing.T) {
	t.Parallel()

	s, exec := newTestScheduler(t)
	d := &stubDelivery{status: 200}

	units, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 1, "c1", payload)
	require.NoError(t, err)

	// The trigger claimed the job just before cancel removed the unit.
	j, ok := exec.take(units[0].ID)
	require.True(t, ok)
	assert.Equal(t, 1, s.CancelCampaign(context.Background(), "c1"))

	j.Run(context.Background())
	assert.Zero(t, d.calls(), "a unit cancelled before it started must not deliver")
}

func TestCancelCampaign_RescheduleWhileDeliveryInFlight(t *testing.T) {
	t.Parallel()

	obs := newRecordingObserver()
	s, exec := newTestScheduler(t, campaign.WithObserver(obs))

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	deliver := func(context.Context, campaign.Payload) (int, []byte) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
		return 200, nil
	}

	units, err := s.ScheduleBatch(context.Background(), deliver, t0, t1, 2, "c1", payload)
	require.NoError(t, err)

	j, ok := exec.take(units[0].ID)
	require.True(t, ok)

	done := make(chan struct{})
	go func() {
		j.Run(context.Background())
		close(done)
	}()
	<-entered

	assert.Equal(t, 1, s.CancelCampaign(context.Background(), "c1"))

	// The same campaign and window would rebuild the ids of the cancelled units.
	_, err = s.ScheduleBatch(context.Background(), deliver, t0, t1, 2, "c1", payload)
	require.ErrorIs(t, err, campaign.ErrDuplicateUnit)
	assert.Zero(t, exec.pending())
	assert.Empty(t, s.ListAll())

	close(release)
	<-done

	assert.Empty(t, s.ListAll(), "the late outcome must not land on a registered unit")
	outcomes := obs.finished()
	require.Len(t, outcomes, 1)
	assert.Equal(t, units[0].ID, outcomes[0].Unit.ID)
	assert.Equal(t, campaign.StatusSent, outcomes[0].Unit.Status)

	_, err = s.ScheduleBatch(context.Background(), deliver, t0, t1, 2, "c2", payload)
	require.NoError(t, err, "a new campaign id is unaffected")
}

// gatedExecutor blocks the first registration until released.
type gatedExecutor struct {
	*manualExecutor
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (e *gatedExecutor) Schedule(id string, at time.Time, j job.Job) error {
	e.once.Do(func() {
		close(e.entered)
		<-e.release
	})
	return e.manualExecutor.Schedule(id, at, j)
}

func TestCancelCampaign_WaitsForBatchRegistration(t *testing.T) {
	t.Parallel()

	exec := &gatedExecutor{
		manualExecutor: newManualExecutor(),
		entered:        make(chan struct{}),
		release:        make(chan struct{}),
	}
	s, err := campaign.NewScheduler(exec)
	require.NoError(t, err)
	d := &stubDelivery{status: 200}

	scheduled := make(chan error, 1)
	go func() {
		_, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 3, "c1", payload)
		scheduled <- err
	}()
	<-exec.entered

	cancelled := make(chan int, 1)
	go func() { cancelled <- s.CancelCampaign(context.Background(), "c1") }()

	select {
	case <-cancelled:
		t.Fatal("cancel ran while the batch was still registering jobs")
	case <-time.After(50 * time.Millisecond):
	}

	close(exec.release)
	require.NoError(t, <-scheduled)
	assert.Equal(t, 3, <-cancelled)

	assert.Zero(t, exec.pending(), "no job may outlive its cancelled unit")
	assert.Empty(t, s.ListAll())
	exec.fireAll(context.Background())
	assert.Zero(t, d.calls())
}

func TestScheduleBatch_ConcurrentCampaigns(t *testing.T) {
	t.Parallel()

	const (
		campaigns = 16
		perBatch  = 5
	)

	s, exec := newTestScheduler(t)
	d := &stubDelivery{status: 200}

	var wg sync.WaitGroup
	var failures atomic.Int32
	for c := range campaigns {
		wg.Go(func() {
			// Same window for every campaign: ids differ only by campaign id.
			if _, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, perBatch, fmt.Sprintf("c%d", c), payload); err != nil {
				failures.Add(1)
			}
		})
	}
	wg.Wait()

	require.Zero(t, failures.Load())
	assert.Len(t, s.ListAll(), campaigns*perBatch, "unit ids must not collide")
	assert.Equal(t, campaigns*perBatch, exec.pending())

	wg = sync.WaitGroup{}
	for c := range campaigns / 2 {
		wg.Go(func() {
			assert.Equal(t, perBatch, s.CancelCampaign(context.Background(), fmt.Sprintf("c%d", c)))
		})
	}
	wg.Wait()

	for c := campaigns / 2; c < campaigns; c++ {
		assert.Len(t, unitsOf(s, fmt.Sprintf("c%d", c)), perBatch)
	}
}

func TestScheduler_Misfire(t *testing.T) {
	t.Parallel()

	obs := newRecordingObserver()
	s, exec := newTestScheduler(t, campaign.WithObserver(obs))
	d := &stubDelivery{status: 200}

	units, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 2, "c1", payload)
	require.NoError(t, err)

	for _, u := range units {
		j, ok := exec.take(u.ID)
		require.True(t, ok)
		mf, ok := j.(job.Misfirer)
		require.True(t, ok, "unit work must report misfires")
		mf.Misfire(context.Background(), 10*time.Minute)
	}

	assert.Zero(t, d.calls())
	assert.Empty(t, s.ListAll(), "misfired campaign is swept")

	outcomes := obs.finished()
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.True(t, o.Misfired)
		assert.Equal(t, campaign.StatusFailed, o.Unit.Status)
		assert.Contains(t, o.Error, "send time missed")
	}
}

func TestScheduler_UnitsAndCampaigns(t *testing.T) {
	t.Parallel()

	s, exec := newTestScheduler(t)
	d := &stubDelivery{status: 200}

	_, err := s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 3, "c2", payload)
	require.NoError(t, err)
	other := payload
	other.Recipient = "z@y.com"
	_, err = s.ScheduleBatch(context.Background(), d.deliver, t0, t1, 2, "c1", other)
	require.NoError(t, err)

	units := s.Units()
	require.Len(t, units, 5)
	assert.True(t, slices.IsSortedFunc(units, func(a, b campaign.Unit) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	}))

	// Fire the first unit of c2 so it shows up as sent.
	j, ok := exec.take(campaign.UnitID(t0, "c2", 0))
	require.True(t, ok)
	j.Run(context.Background())

	sums := s.Campaigns()
	require.Len(t, sums, 2)

	assert.Equal(t, "c1", sums[0].CampaignID)
	assert.Equal(t, "z@y.com", sums[0].Recipient)
	assert.Equal(t, 2, sums[0].Total)
	assert.Equal(t, 2, sums[0].Counts[campaign.StatusScheduled])
	assert.Equal(t, t0, sums[0].NextSend)

	assert.Equal(t, "c2", sums[1].CampaignID)
	assert.Equal(t, 3, sums[1].Total)
	assert.Equal(t, 1, sums[1].Counts[campaign.StatusSent])
	assert.Equal(t, 2, sums[1].Counts[campaign.StatusScheduled])
	assert.Equal(t, time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC), sums[1].NextSend)
}

func TestScheduler_WithRealManager(t *testing.T) {
	t.Parallel()

	m, err := job.NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() { _ = m.Stop(context.Background()) })

	registry := campaign.NewRegistry()
	s, err := campaign.NewScheduler(m, campaign.WithRegistry(registry))
	require.NoError(t, err)
	assert.Same(t, registry, s.Registry())

	d := &stubDelivery{status: 200}
	start := time.Now().Add(300 * time.Millisecond)

	_, err = s.ScheduleBatch(context.Background(), d.deliver, start, start.Add(200*time.Millisecond), 3, "live", payload)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Pending())

	require.Eventually(t, func() bool {
		return d.calls() == 3 && registry.Len() == 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Zero(t, m.Pending())
}

func TestScheduler_CancelWithRealManager(t *testing.T) {
	t.Parallel()

	m, err := job.NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() { _ = m.Stop(context.Background()) })

	s, err := campaign.NewScheduler(m)
	require.NoError(t, err)

	d := &stubDelivery{status: 200}
	start := time.Now().Add(time.Hour)

	_, err = s.ScheduleBatch(context.Background(), d.deliver, start, start.Add(time.Hour), 4, "later", payload)
	require.NoError(t, err)

	assert.Equal(t, 4, s.CancelCampaign(context.Background(), "later"))
	assert.Zero(t, m.Pending())
	assert.Empty(t, s.ListAll())
}
