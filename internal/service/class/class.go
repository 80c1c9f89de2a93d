// Package class manages weekly class definitions and their roster. Every
// change here alters the generated calendar, so writes invalidate it.
package class

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

const DefaultServiceType = "Pilates"

type CreateClassRequest struct {
	Name            string     `json:"name" validate:"required,max=120"`
	StaffID         *uuid.UUID `json:"staff_id"`
	DayOfWeek       *int       `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime       string     `json:"start_time" validate:"required,clock"`
	DurationMinutes int        `json:"duration_minutes" validate:"gt=0,lte=600"`
	MaxCapacity     int        `json:"max_capacity" validate:"gt=0,lte=100"`
	ServiceType     string     `json:"service_type" validate:"max=60"`
}

type Repository interface {
	CreateClass(ctx context.Context, c *model.ClassDefinition) error
	GetClass(ctx context.Context, id uuid.UUID) (*model.ClassDefinition, error)
	ListClasses(ctx context.Context, f store.ClassFilter) ([]model.ClassDefinition, error)
	SetClassActive(ctx context.Context, id uuid.UUID, active bool) error
	DeleteClass(ctx context.Context, id uuid.UUID) error

	ListEnrollments(ctx context.Context, classID uuid.UUID) ([]model.ClassEnrollment, error)
	CountEnrollments(ctx context.Context, classID uuid.UUID) (int, error)
	EnrollmentExists(ctx context.Context, classID, patientID uuid.UUID) (bool, error)
	CreateEnrollment(ctx context.Context, e *model.ClassEnrollment) error
	DeleteEnrollment(ctx context.Context, classID, patientID uuid.UUID) error
}

type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Service interface {
	Create(ctx context.Context, req CreateClassRequest) (*model.ClassDefinition, error)
	Get(ctx context.Context, id uuid.UUID) (*model.ClassDefinition, error)
	List(ctx context.Context, activeOnly bool) ([]model.ClassDefinition, error)
	// Deactivate stops future occurrences from being generated. Rows already
	// materialized for the class are untouched.
	Deactivate(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	Enrollments(ctx context.Context, classID uuid.UUID) ([]model.ClassEnrollment, error)
	Enroll(ctx context.Context, classID, patientID uuid.UUID) (*model.ClassEnrollment, error)
	Unenroll(ctx context.Context, classID, patientID uuid.UUID) error
}

type classService struct {
	repo Repository
	inv  Invalidator
}

func New(repo Repository, inv Invalidator) Service {
	return &classService{repo: repo, inv: inv}
}

func (s *classService) Create(ctx context.Context, req CreateClassRequest) (*model.ClassDefinition, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	start, err := model.ParseClockTime(req.StartTime)
	if err != nil {
		return nil, validation.Field("start_time", "must be HH:MM")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validation.Field("name", "is required")
	}
	serviceType := strings.TrimSpace(req.ServiceType)
	if serviceType == "" {
		serviceType = DefaultServiceType
	}

	c := &model.ClassDefinition{
		Name:            name,
		StaffID:         req.StaffID,
		DayOfWeek:       time.Weekday(*req.DayOfWeek),
		StartTime:       start,
		DurationMinutes: req.DurationMinutes,
		MaxCapacity:     req.MaxCapacity,
		ServiceType:     serviceType,
		IsActive:        true,
	}
	if err := s.repo.CreateClass(ctx, c); err != nil {
		if store.IsForeignKeyViolation(err) {
			return nil, ErrUnknownStaff
		}
		return nil, fmt.Errorf("create class: %w", err)
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *classService) Get(ctx context.Context, id uuid.UUID) (*model.ClassDefinition, error) {
	c, err := s.repo.GetClass(ctx, id)
	if store.IsNotFound(err) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	return c, nil
}

func (s *classService) List(ctx context.Context, activeOnly bool) ([]model.ClassDefinition, error) {
	classes, err := s.repo.ListClasses(ctx, store.ClassFilter{ActiveOnly: activeOnly})
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

func (s *classService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetClassActive(ctx, id, false); err != nil {
		if store.IsNotFound(err) {
			return ErrClassNotFound
		}
		return fmt.Errorf("deactivate class: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *classService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteClass(ctx, id); err != nil {
		if store.IsNotFound(err) {
			return ErrClassNotFound
		}
		return fmt.Errorf("delete class: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *classService) Enrollments(ctx context.Context, classID uuid.UUID) ([]model.ClassEnrollment, error) {
	if _, err := s.Get(ctx, classID); err != nil {
		return nil, err
	}
	enrollments, err := s.repo.ListEnrollments(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// Enroll adds a patient to the roster. The capacity check and the insert are
// separate statements; the unique (class_id, patient_id) index is what keeps
// duplicates out under concurrency.
func (s *classService) Enroll(ctx context.Context, classID, patientID uuid.UUID) (*model.ClassEnrollment, error) {
	c, err := s.Get(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, ErrClassInactive
	}

	exists, err := s.repo.EnrollmentExists(ctx, classID, patientID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if exists {
		return nil, ErrAlreadyEnrolled
	}

	n, err := s.repo.CountEnrollments(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	if n >= c.MaxCapacity {
		return nil, ErrClassFull
	}

	e := &model.ClassEnrollment{ClassID: classID, PatientID: patientID}
	if err := s.repo.CreateEnrollment(ctx, e); err != nil {
		switch {
		case store.IsUniqueViolation(err):
			return nil, ErrAlreadyEnrolled
		case store.IsForeignKeyViolation(err):
			return nil, ErrUnknownPatient
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	s.invalidate(ctx)
	return e, nil
}

func (s *classService) Unenroll(ctx context.Context, classID, patientID uuid.UUID) error {
	if err := s.repo.DeleteEnrollment(ctx, classID, patientID); err != nil {
		if store.IsNotFound(err) {
			return ErrNotEnrolled
		}
		return fmt.Errorf("delete enrollment: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *classService) invalidate(ctx context.Context) {
	if s.inv != nil {
		s.inv.Invalidate(ctx)
	}
}
