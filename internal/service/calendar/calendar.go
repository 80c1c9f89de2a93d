package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/store"
)

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

// Repository is the read side the calendar needs from the data store.
type Repository interface {
	ListClasses(ctx context.Context, f store.ClassFilter) ([]model.ClassDefinition, error)
	ListAppointments(ctx context.Context, from, to time.Time) ([]model.Appointment, error)
}

type Service interface {
	// Events returns the merged, ordered events of w narrowed by f. Any fetch
	// failure is returned with no events.
	Events(ctx context.Context, w Window, f Filter) ([]Event, error)

	// DefaultWindow is the rolling window shown when the caller gives none.
	DefaultWindow() Window
	Window(from, to time.Time) (Window, error)
	Location() *time.Location

	// Invalidate drops every cached window. Writers call it after any change
	// that could alter the calendar.
	Invalidate(ctx context.Context)

	// Warm recomputes the default window into the cache.
	Warm(ctx context.Context) error
}

type Config struct {
	Location           *time.Location
	WindowWeeks        int
	DedupeMaterialized bool
	MaxDays            int
}

const defaultMaxDays = 366

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type calendarService struct {
	repo  Repository
	cache Cache
	cfg   Config
	now   func() time.Time
}

func New(repo Repository, cache Cache, cfg Config, now func() time.Time) Service {
	if cache == nil {
		cache = NopCache{}
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MaxDays <= 0 {
		cfg.MaxDays = defaultMaxDays
	}
	if now == nil {
		now = time.Now
	}
	return &calendarService{repo: repo, cache: cache, cfg: cfg, now: now}
}

func (s *calendarService) Location() *time.Location { return s.cfg.Location }

func (s *calendarService) DefaultWindow() Window {
	return DefaultWindow(s.now(), s.cfg.Location, s.cfg.WindowWeeks)
}

func (s *calendarService) Window(from, to time.Time) (Window, error) {
	w := NewWindow(from, to, s.cfg.Location)
	if !w.Valid() {
		return Window{}, ErrInvalidWindow
	}
	if w.Days() > s.cfg.MaxDays {
		return Window{}, ErrWindowTooLarge
	}
	return w, nil
}

func (s *calendarService) Events(ctx context.Context, w Window, f Filter) ([]Event, error) {
	if !w.Valid() {
		return nil, ErrInvalidWindow
	}

	// Cache failures are logged and bypassed; they never fail the request.
	version, err := s.cache.Version(ctx)
	cacheUsable := err == nil
	if err != nil {
		slog.WarnContext(ctx, "calendar cache unavailable", "error", err)
	}
	if cacheUsable {
		events, ok, err := s.cache.Get(ctx, version, w)
		switch {
		case err != nil:
			slog.WarnContext(ctx, "calendar cache read failed", "error", err)
		case ok:
			return f.Apply(events), nil
		}
	}

	events, err := s.generate(ctx, w)
	if err != nil {
		return nil, err
	}

	if cacheUsable {
		if err := s.cache.Set(ctx, version, w, events); err != nil {
			slog.WarnContext(ctx, "calendar cache write failed", "error", err)
		}
	}
	return f.Apply(events), nil
}

func (s *calendarService) generate(ctx context.Context, w Window) ([]Event, error) {
	classes, err := s.repo.ListClasses(ctx, store.ClassFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("fetch classes: %w", err)
	}
	appointments, err := s.repo.ListAppointments(ctx, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("fetch appointments: %w", err)
	}

	return Generate(w, classes, appointments, Options{
		Location:           s.cfg.Location,
		DedupeMaterialized: s.cfg.DedupeMaterialized,
	})
}

func (s *calendarService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "calendar cache invalidation failed", "error", err)
	}
}

func (s *calendarService) Warm(ctx context.Context) error {
	w := s.DefaultWindow()
	version, err := s.cache.Version(ctx)
	if err != nil {
		return err
	}
	events, err := s.generate(ctx, w)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, version, w, events); err != nil {
		return err
	}
	slog.DebugContext(ctx, "calendar cache warmed", "start", w.Start, "end", w.End, "events", len(events))
	return nil
}
