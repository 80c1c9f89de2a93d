package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/store"
	"github.com/Alijeyrad/vitum_backend/pkg/validation"
)

const (
	DefaultDescription = "Consulta de Fisioterapia"
	DefaultServiceType = "Fisioterapia"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// BookRequest schedules an individual session. Either EndTime or
// DurationMinutes must be given; EndTime wins when both are.
type BookRequest struct {
	PatientID       uuid.UUID  `json:"patient_id" validate:"required"`
	StaffID         *uuid.UUID `json:"staff_id"`
	StartTime       time.Time  `json:"start_time" validate:"required"`
	EndTime         *time.Time `json:"end_time"`
	DurationMinutes int        `json:"duration_minutes" validate:"omitempty,gt=0,lte=600"`
	Description     string     `json:"description" validate:"max=200"`
	ServiceType     string     `json:"service_type" validate:"max=60"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Repository interface {
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
}

type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Service covers individual appointments. Status changes on any calendar
// event, class occurrences included, go through the ledger.
type Service interface {
	Book(ctx context.Context, req BookRequest) (*model.Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	repo Repository
	inv  Invalidator
}

func New(repo Repository, inv Invalidator) Service {
	return &appointmentService{repo: repo, inv: inv}
}

func (s *appointmentService) Book(ctx context.Context, req BookRequest) (*model.Appointment, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var end time.Time
	switch {
	case req.EndTime != nil:
		end = *req.EndTime
	case req.DurationMinutes > 0:
		end = req.StartTime.Add(time.Duration(req.DurationMinutes) * time.Minute)
	default:
		return nil, validation.Field("end_time", "is required")
	}
	if !end.After(req.StartTime) {
		return nil, validation.Field("end_time", "must be after start_time")
	}

	a := &model.Appointment{
		PatientID:   req.PatientID,
		StaffID:     req.StaffID,
		StartTime:   req.StartTime,
		EndTime:     end,
		Description: orDefault(req.Description, DefaultDescription),
		Status:      model.StatusScheduled,
		ServiceType: orDefault(req.ServiceType, DefaultServiceType),
	}
	if err := s.repo.CreateAppointment(ctx, a); err != nil {
		if store.IsForeignKeyViolation(err) {
			if store.ViolatedConstraint(err) == "appointments_staff_appointments" {
				return nil, ErrUnknownStaff
			}
			return nil, ErrUnknownPatient
		}
		return nil, fmt.Errorf("book appointment: %w", err)
	}
	if s.inv != nil {
		s.inv.Invalidate(ctx)
	}
	return a, nil
}

func (s *appointmentService) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, err := s.repo.GetAppointment(ctx, id)
	if store.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
