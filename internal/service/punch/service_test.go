package punch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hourbank-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPunchRepo struct {
	mu      sync.Mutex
	locks   sync.Map
	punches []punch.Punch
	failOn  error
}

func (m *memoryPunchRepo) Create(ctx context.Context, p punch.Punch) (punch.Punch, error) {
	if m.failOn != nil {
		return punch.Punch{}, m.failOn
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.punches = append(m.punches, p)
	return p, nil
}

func (m *memoryPunchRepo) ListByUserAndDate(ctx context.Context, userID string, date string) ([]punch.Punch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []punch.Punch
	for _, p := range m.punches {
		if p.UserID == userID && p.LocalDate == date {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryPunchRepo) ListByUserAndRange(ctx context.Context, userID string, startDate string, endDate string) ([]punch.Punch, error) {
	return nil, nil
}

func (m *memoryPunchRepo) ListUserIDsByDate(ctx context.Context, date string) ([]string, error) {
	return nil, nil
}

func (m *memoryPunchRepo) LockUser(ctx context.Context, userID string, fn func(ctx context.Context) error) error {
	v, _ := m.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return fn(ctx)
}

type staticConfig struct {
	cfg settings.WorkHoursConfig
	err error
}

func (s staticConfig) GetConfig(ctx context.Context) (settings.WorkHoursConfig, error) {
	return s.cfg, s.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func saoPauloConfig(t *testing.T) settings.WorkHoursConfig {
	w := settings.DefaultWorkHours()
	_, err := time.LoadLocation(w.Timezone)
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	return settings.NewWorkHoursConfig(w, []settings.Holiday{{Date: "2024-03-29", Name: "Good Friday"}})
}

func newTestService(t *testing.T) (*PunchServiceImpl, *memoryPunchRepo, *recordingPublisher) {
	repo := &memoryPunchRepo{}
	pub := &recordingPublisher{}
	svc := NewPunchService(repo, staticConfig{cfg: saoPauloConfig(t)}, pub, metrics.New()).(*PunchServiceImpl)
	return svc, repo, pub
}

// Monday 2024-03-04 in Sao Paulo (UTC-3).
func spAt(hhmm string) time.Time {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		panic(err)
	}
	local, err := time.ParseInLocation("2006-01-02 15:04", "2024-03-04 "+hhmm, loc)
	if err != nil {
		panic(err)
	}
	return local.UTC()
}

func TestPunchService_FullDay(t *testing.T) {
	svc, repo, pub := newTestService(t)
	ctx := context.Background()

	steps := []struct {
		kind punch.Kind
		at   string
	}{
		{punch.KindEntry, "08:00"},
		{punch.KindLunchOut, "12:00"},
		{punch.KindLunchIn, "13:00"},
		{punch.KindExit, "17:48"},
	}
	for _, step := range steps {
		p, err := svc.EvaluatePunch(ctx, "user-1", step.kind, spAt(step.at))
		require.NoError(t, err, step.kind)
		assert.Equal(t, "2024-03-04", p.LocalDate)
		assert.Equal(t, step.at, p.LocalTime)
		assert.True(t, validator.IsValidUUID(p.ID))
		assert.Equal(t, time.UTC, p.TimestampUTC.Location())
	}

	assert.Len(t, repo.punches, 4)
	require.Len(t, pub.events, 4)
	assert.Equal(t, events.TypePunchRecorded, pub.events[0].Type)
	assert.Equal(t, "user-1", pub.events[0].Key)

	status, err := svc.Status(ctx, "user-1", spAt("18:00"))
	require.NoError(t, err)
	assert.Equal(t, punch.StateOut, status.State)
	assert.Equal(t, []punch.Kind{punch.KindEntry}, status.AllowedKinds)
	assert.Len(t, status.Punches, 4)
}

func TestPunchService_LocalDateFollowsTimezone(t *testing.T) {
	svc, _, _ := newTestService(t)

	// 01:30 UTC on Tuesday is still Monday 22:30 in Sao Paulo
	now := time.Date(2024, 3, 5, 1, 30, 0, 0, time.UTC)
	p, err := svc.EvaluatePunch(context.Background(), "user-1", punch.KindEntry, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", p.LocalDate)
	assert.Equal(t, "22:30", p.LocalTime)
}

func TestPunchService_IllegalPunch(t *testing.T) {
	svc, repo, pub := newTestService(t)

	_, err := svc.EvaluatePunch(context.Background(), "user-1", punch.KindLunchOut, spAt("12:00"))
	var ipe *punch.IllegalPunchError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, punch.KindLunchOut, ipe.Kind)
	assert.Equal(t, punch.StateOut, ipe.State)
	assert.Empty(t, repo.punches)
	assert.Empty(t, pub.events)
}

func TestPunchService_DoubleClickIsRejected(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.EvaluatePunch(ctx, "user-1", punch.KindEntry, spAt("08:00"))
	require.NoError(t, err)
	_, err = svc.EvaluatePunch(ctx, "user-1", punch.KindEntry, spAt("08:00").Add(400*time.Millisecond))
	assert.ErrorIs(t, err, punch.ErrDuplicatePunch)
	assert.Len(t, repo.punches, 1)
}

func TestPunchService_ConcurrentEntriesRecordOnce(t *testing.T) {
	svc, repo, _ := newTestService(t)

	var wg sync.WaitGroup
	var accepted sync.Map
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.EvaluatePunch(context.Background(), "user-1", punch.KindEntry, spAt("08:00")); err == nil {
				accepted.Store(i, true)
			}
		}(i)
	}
	wg.Wait()

	n := 0
	accepted.Range(func(_, _ any) bool { n++; return true })
	assert.Equal(t, 1, n)
	assert.Len(t, repo.punches, 1)
}

func TestPunchService_TooEarly(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, err := svc.EvaluatePunch(context.Background(), "user-1", punch.KindEntry, spAt("05:59"))
	assert.ErrorIs(t, err, punch.ErrTooEarly)
	assert.Empty(t, repo.punches)

	_, err = svc.EvaluatePunch(context.Background(), "user-1", punch.KindEntry, spAt("06:00"))
	assert.NoError(t, err)
}

func TestPunchService_TooEarlyIgnoredOnDaysOff(t *testing.T) {
	svc, _, _ := newTestService(t)
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	saturday := time.Date(2024, 3, 9, 5, 0, 0, 0, loc)

	p, err := svc.EvaluatePunch(context.Background(), "user-1", punch.KindEntry, saturday)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", p.LocalDate)
}

func TestPunchService_MissingConfig(t *testing.T) {
	svc, repo, _ := newTestService(t)
	svc.config = staticConfig{err: settings.ErrMissingConfig}

	_, err := svc.EvaluatePunch(context.Background(), "user-1", punch.KindEntry, spAt("08:00"))
	assert.ErrorIs(t, err, settings.ErrMissingConfig)
	assert.Empty(t, repo.punches)

	_, err = svc.Status(context.Background(), "user-1", spAt("08:00"))
	assert.ErrorIs(t, err, settings.ErrMissingConfig)
}

func TestPunchService_InvalidKind(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.EvaluatePunch(context.Background(), "user-1", punch.Kind("nap"), spAt("08:00"))
	assert.ErrorIs(t, err, punch.ErrInvalidKind)
}

func TestPunchService_StoreFailure(t *testing.T) {
	svc, repo, pub := newTestService(t)
	repo.failOn = errors.New("disk full")

	_, err := svc.EvaluatePunch(context.Background(), "user-1", punch.KindEntry, spAt("08:00"))
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, pub.events)
}
