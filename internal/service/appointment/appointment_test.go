package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/store"
	"github.com/Alijeyrad/vitum_backend/pkg/validation"
)

type mockRepo struct {
	rows      map[uuid.UUID]model.Appointment
	createErr error
}

func (m *mockRepo) CreateAppointment(_ context.Context, a *model.Appointment) error {
	if m.createErr != nil {
		return m.createErr
	}
	a.ID = uuid.New()
	m.rows[a.ID] = *a
	return nil
}

func (m *mockRepo) GetAppointment(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) { c.n++ }

func TestBook(t *testing.T) {
	start := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	end := start.Add(50 * time.Minute)
	before := start.Add(-time.Minute)
	patient := uuid.New()

	tests := []struct {
		name    string
		req     BookRequest
		wantEnd time.Time
		wantErr error
	}{
		{"explicit end", BookRequest{PatientID: patient, StartTime: start, EndTime: &end}, end, nil},
		{"duration", BookRequest{PatientID: patient, StartTime: start, DurationMinutes: 30}, start.Add(30 * time.Minute), nil},
		{"end wins over duration", BookRequest{PatientID: patient, StartTime: start, EndTime: &end, DurationMinutes: 30}, end, nil},
		{"no patient", BookRequest{StartTime: start, EndTime: &end}, time.Time{}, validation.ErrInvalid},
		{"no end", BookRequest{PatientID: patient, StartTime: start}, time.Time{}, validation.ErrInvalid},
		{"end before start", BookRequest{PatientID: patient, StartTime: start, EndTime: &before}, time.Time{}, validation.ErrInvalid},
		{"zero length", BookRequest{PatientID: patient, StartTime: start, EndTime: &start}, time.Time{}, validation.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{rows: map[uuid.UUID]model.Appointment{}}
			inv := &countingInvalidator{}
			svc := New(repo, inv)

			a, err := svc.Book(context.Background(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if len(repo.rows) != 0 || inv.n != 0 {
					t.Fatal("expected no write on validation failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !a.EndTime.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", a.EndTime, tt.wantEnd)
			}
			if a.Status != model.StatusScheduled {
				t.Errorf("status = %q", a.Status)
			}
			if a.Description != DefaultDescription {
				t.Errorf("description = %q", a.Description)
			}
			if a.IsClassEvent {
				t.Error("individual appointment flagged as class event")
			}
			if inv.n != 1 {
				t.Errorf("invalidations = %d, want 1", inv.n)
			}
		})
	}
}

func TestBook_ForeignKeys(t *testing.T) {
	start := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	staffID := uuid.New()
	req := BookRequest{PatientID: uuid.New(), StaffID: &staffID, StartTime: start, DurationMinutes: 50}

	repo := &mockRepo{createErr: &pq.Error{Code: "23503", Constraint: "appointments_staff_appointments"}}
	if _, err := New(repo, nil).Book(context.Background(), req); !errors.Is(err, ErrUnknownStaff) {
		t.Errorf("expected ErrUnknownStaff, got %v", err)
	}

	repo.createErr = &pq.Error{Code: "23503", Constraint: "appointments_patients_appointments"}
	if _, err := New(repo, nil).Book(context.Background(), req); !errors.Is(err, ErrUnknownPatient) {
		t.Errorf("expected ErrUnknownPatient, got %v", err)
	}
}

func TestGet(t *testing.T) {
	svc := New(&mockRepo{rows: map[uuid.UUID]model.Appointment{}}, nil)
	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
