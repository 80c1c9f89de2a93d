package calendar

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/store"
)

type fakeRepo struct {
	classes      []model.ClassDefinition
	appointments []model.Appointment
	classErr     error
	apptErr      error
	calls        int
}

func (f *fakeRepo) ListClasses(_ context.Context, flt store.ClassFilter) ([]model.ClassDefinition, error) {
	f.calls++
	if f.classErr != nil {
		return nil, f.classErr
	}
	if !flt.ActiveOnly {
		return f.classes, nil
	}
	var out []model.ClassDefinition
	for _, c := range f.classes {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAppointments(_ context.Context, _, _ time.Time) ([]model.Appointment, error) {
	if f.apptErr != nil {
		return nil, f.apptErr
	}
	return f.appointments, nil
}

type brokenCache struct{ NopCache }

func (brokenCache) Version(context.Context) (int64, error) { return 0, errors.New("connection refused") }

func newTestService(t *testing.T, repo Repository, cache Cache) (Service, *time.Location) {
	t.Helper()
	loc := saoPaulo(t)
	now := func() time.Time { return time.Date(2025, 3, 5, 10, 0, 0, 0, loc) }
	return New(repo, cache, Config{Location: loc, WindowWeeks: 5}, now), loc
}

func TestEvents_FailClosed(t *testing.T) {
	tests := []struct {
		name string
		repo *fakeRepo
	}{
		{"class fetch fails", &fakeRepo{classErr: errors.New("timeout")}},
		{"appointment fetch fails", &fakeRepo{
			classes: []model.ClassDefinition{class(classA, time.Tuesday, 8, 0, 60, patientP)},
			apptErr: errors.New("timeout"),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, tt.repo, nil)
			events, err := svc.Events(context.Background(), svc.DefaultWindow(), Filter{})
			require.Error(t, err)
			assert.Nil(t, events)
		})
	}
}

func TestEvents_DisablingClassRemovesOccurrences(t *testing.T) {
	repo := &fakeRepo{classes: []model.ClassDefinition{class(classA, time.Tuesday, 8, 0, 60, patientP)}}
	svc, _ := newTestService(t, repo, nil)
	ctx := context.Background()

	events, err := svc.Events(ctx, svc.DefaultWindow(), Filter{})
	require.NoError(t, err)
	assert.Len(t, events, 5)

	repo.classes[0].IsActive = false
	events, err = svc.Events(ctx, svc.DefaultWindow(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEvents_Window(t *testing.T) {
	svc, loc := newTestService(t, &fakeRepo{}, nil)

	_, err := svc.Window(time.Date(2025, 3, 5, 0, 0, 0, 0, loc), time.Date(2025, 3, 5, 12, 0, 0, 0, loc))
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.Window(time.Date(2025, 1, 1, 0, 0, 0, 0, loc), time.Date(2027, 1, 1, 0, 0, 0, 0, loc))
	assert.ErrorIs(t, err, ErrWindowTooLarge)

	w, err := svc.Window(time.Date(2025, 3, 5, 9, 0, 0, 0, loc), time.Date(2025, 3, 12, 9, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, 7, w.Days())
}

func TestEvents_RedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := &fakeRepo{classes: []model.ClassDefinition{class(classA, time.Tuesday, 8, 0, 60, patientP, patientQ)}}
	svc, _ := newTestService(t, repo, NewRedisCache(rdb, time.Minute))
	ctx := context.Background()
	w := svc.DefaultWindow()

	first, err := svc.Events(ctx, w, Filter{})
	require.NoError(t, err)
	require.Len(t, first, 10)
	assert.Equal(t, 1, repo.calls)

	// Served from cache, and filters still apply to the cached list.
	filtered, err := svc.Events(ctx, w, Filter{PatientID: &patientP})
	require.NoError(t, err)
	assert.Len(t, filtered, 5)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, first[0].Key, filtered[0].Key)

	svc.Invalidate(ctx)
	_, err = svc.Events(ctx, w, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)

	mr.FastForward(2 * time.Minute)
	_, err = svc.Events(ctx, w, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.calls)
}

func TestEvents_CacheFailureFallsThrough(t *testing.T) {
	repo := &fakeRepo{classes: []model.ClassDefinition{class(classA, time.Tuesday, 8, 0, 60, patientP)}}
	svc, _ := newTestService(t, repo, brokenCache{})

	events, err := svc.Events(context.Background(), svc.DefaultWindow(), Filter{})
	require.NoError(t, err)
	assert.Len(t, events, 5)

	assert.Error(t, svc.Warm(context.Background()))
}

func TestWarm(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := &fakeRepo{classes: []model.ClassDefinition{class(classA, time.Tuesday, 8, 0, 60, patientP)}}
	svc, _ := newTestService(t, repo, NewRedisCache(rdb, time.Minute))
	ctx := context.Background()

	require.NoError(t, svc.Warm(ctx))
	assert.Equal(t, 1, repo.calls)

	_, err := svc.Events(ctx, svc.DefaultWindow(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}

func TestWriteICS(t *testing.T) {
	loc := saoPaulo(t)
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, loc)
	events, err := Generate(Window{Start: start, End: start.AddDate(0, 0, 7)},
		[]model.ClassDefinition{class(classA, time.Tuesday, 8, 0, 60, patientP)}, nil, Options{Location: loc})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, events, start))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "SUMMARY:"+events[0].Title)
	assert.Contains(t, out, "STATUS:CONFIRMED")
}
