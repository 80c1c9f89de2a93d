// Package evolution keeps the clinical progress notes staff write after each
// session.
package evolution

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

type RecordRequest struct {
	Description string `json:"description" validate:"required,max=4000"`
	PainLevel   int    `json:"pain_level" validate:"min=0,max=10"`

	// SessionDate defaults to the time of recording.
	SessionDate *time.Time `json:"session_date"`
}

type Repository interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	CreateEvolution(ctx context.Context, e *model.ClinicalEvolution) error
	ListEvolutions(ctx context.Context, patientID uuid.UUID) ([]model.ClinicalEvolution, error)
	DeleteEvolution(ctx context.Context, id uuid.UUID) error
}

type Service interface {
	Record(ctx context.Context, patientID uuid.UUID, req RecordRequest) (*model.ClinicalEvolution, error)
	// ListForPatient returns the patient's notes, latest session first.
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]model.ClinicalEvolution, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type evolutionService struct {
	repo Repository
	now  func() time.Time
}

func New(repo Repository, now func() time.Time) Service {
	return &evolutionService{repo: repo, now: now}
}

func (s *evolutionService) Record(ctx context.Context, patientID uuid.UUID, req RecordRequest) (*model.ClinicalEvolution, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return nil, validation.Field("description", "is required")
	}

	e := &model.ClinicalEvolution{
		PatientID:   patientID,
		Description: desc,
		PainLevel:   req.PainLevel,
		SessionDate: s.now(),
	}
	if req.SessionDate != nil {
		e.SessionDate = *req.SessionDate
	}

	if err := s.repo.CreateEvolution(ctx, e); err != nil {
		if store.IsForeignKeyViolation(err) {
			return nil, ErrUnknownPatient
		}
		return nil, fmt.Errorf("create evolution: %w", err)
	}
	return e, nil
}

func (s *evolutionService) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]model.ClinicalEvolution, error) {
	if _, err := s.repo.GetPatient(ctx, patientID); err != nil {
		if store.IsNotFound(err) {
			return nil, ErrUnknownPatient
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	list, err := s.repo.ListEvolutions(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list evolutions: %w", err)
	}
	return list, nil
}

func (s *evolutionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteEvolution(ctx, id); err != nil {
		if store.IsNotFound(err) {
			return ErrEvolutionNotFound
		}
		return fmt.Errorf("delete evolution: %w", err)
	}
	return nil
}
