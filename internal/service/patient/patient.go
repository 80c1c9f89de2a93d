package patient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/store"
	"github.com/Alijeyrad/vitum_backend/pkg/phone"
	"github.com/Alijeyrad/vitum_backend/pkg/validation"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreatePatientRequest struct {
	FullName  string     `json:"full_name" validate:"required,max=200"`
	CPF       *string    `json:"cpf" validate:"omitempty,max=14"`
	Phone     *string    `json:"phone" validate:"omitempty,max=30"`
	Email     *string    `json:"email" validate:"omitempty,email"`
	BirthDate *time.Time `json:"birth_date"`
	Address   *string    `json:"address"`
	Notes     *string    `json:"notes"`

	// MainComplaint opens the patient's anamnesis when given.
	MainComplaint *string `json:"main_complaint" validate:"omitempty,max=4000"`
}

type UpdatePatientRequest struct {
	FullName  *string    `json:"full_name" validate:"omitempty,min=1,max=200"`
	CPF       *string    `json:"cpf" validate:"omitempty,max=14"`
	Phone     *string    `json:"phone" validate:"omitempty,max=30"`
	Email     *string    `json:"email" validate:"omitempty,email"`
	BirthDate *time.Time `json:"birth_date"`
	Address   *string    `json:"address"`
	Notes     *string    `json:"notes"`
}

type UpdateAnamnesisRequest struct {
	MainComplaint string `json:"main_complaint" validate:"required,max=4000"`
}

type ListPatientsRequest struct {
	IncludeInactive bool
	Search          string
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Repository interface {
	CreatePatient(ctx context.Context, p *model.Patient) error
	GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	ListPatients(ctx context.Context, f store.PatientFilter) ([]model.Patient, error)
	UpdatePatient(ctx context.Context, p *model.Patient) error
	SetPatientActive(ctx context.Context, id uuid.UUID, active bool) error
	DeletePatient(ctx context.Context, id uuid.UUID) error

	CreateAnamnesis(ctx context.Context, a *model.Anamnesis) error
	GetAnamnesis(ctx context.Context, patientID uuid.UUID) (*model.Anamnesis, error)
	UpdateAnamnesis(ctx context.Context, a *model.Anamnesis) error
}

type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Service interface {
	Create(ctx context.Context, req CreatePatientRequest) (*model.Patient, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context, req ListPatientsRequest) ([]model.Patient, error)
	Update(ctx context.Context, id uuid.UUID, req UpdatePatientRequest) (*model.Patient, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) error
	// Delete removes the patient and, by cascade, their appointments,
	// enrollments, packages, anamnesis and evolutions.
	Delete(ctx context.Context, id uuid.UUID) error

	Anamnesis(ctx context.Context, patientID uuid.UUID) (*model.Anamnesis, error)
	UpdateAnamnesis(ctx context.Context, patientID uuid.UUID, req UpdateAnamnesisRequest) (*model.Anamnesis, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type patientService struct {
	repo   Repository
	inv    Invalidator
	region string
}

func New(repo Repository, inv Invalidator, phoneRegion string) Service {
	return &patientService{repo: repo, inv: inv, region: phoneRegion}
}

func (s *patientService) Create(ctx context.Context, req CreatePatientRequest) (*model.Patient, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	phoneNumber, err := phone.NormalizePtr(req.Phone, s.region)
	if err != nil {
		return nil, validation.Field("phone", "must be a valid phone number")
	}

	p := &model.Patient{
		FullName:  strings.TrimSpace(req.FullName),
		CPF:       trimmed(req.CPF),
		Phone:     phoneNumber,
		Email:     trimmed(req.Email),
		BirthDate: req.BirthDate,
		Address:   trimmed(req.Address),
		Notes:     trimmed(req.Notes),
		IsActive:  true,
	}
	if p.FullName == "" {
		return nil, validation.Field("full_name", "is required")
	}
	if err := s.repo.CreatePatient(ctx, p); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, ErrCPFTaken
		}
		return nil, fmt.Errorf("create patient: %w", err)
	}

	if complaint := trimmed(req.MainComplaint); complaint != nil {
		a := &model.Anamnesis{PatientID: p.ID, MainComplaint: *complaint}
		if err := s.repo.CreateAnamnesis(ctx, a); err != nil {
			// No transaction spans both rows; take the patient back out so
			// intake is all or nothing.
			if delErr := s.repo.DeletePatient(ctx, p.ID); delErr != nil {
				slog.WarnContext(ctx, "failed to remove patient after anamnesis error",
					"patient_id", p.ID,
					"error", delErr,
				)
			}
			return nil, fmt.Errorf("create anamnesis: %w", err)
		}
	}
	return p, nil
}

func (s *patientService) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	p, err := s.repo.GetPatient(ctx, id)
	if store.IsNotFound(err) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

func (s *patientService) List(ctx context.Context, req ListPatientsRequest) ([]model.Patient, error) {
	patients, err := s.repo.ListPatients(ctx, store.PatientFilter{
		IncludeInactive: req.IncludeInactive,
		Search:          strings.TrimSpace(req.Search),
	})
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

func (s *patientService) Update(ctx context.Context, id uuid.UUID, req UpdatePatientRequest) (*model.Patient, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, validation.Field("full_name", "is required")
		}
		p.FullName = name
	}
	if req.Phone != nil {
		p.Phone, err = phone.NormalizePtr(req.Phone, s.region)
		if err != nil {
			return nil, validation.Field("phone", "must be a valid phone number")
		}
	}
	if req.CPF != nil {
		p.CPF = trimmed(req.CPF)
	}
	if req.Email != nil {
		p.Email = trimmed(req.Email)
	}
	if req.BirthDate != nil {
		p.BirthDate = req.BirthDate
	}
	if req.Address != nil {
		p.Address = trimmed(req.Address)
	}
	if req.Notes != nil {
		p.Notes = trimmed(req.Notes)
	}

	if err := s.repo.UpdatePatient(ctx, p); err != nil {
		switch {
		case store.IsNotFound(err):
			return nil, ErrPatientNotFound
		case store.IsUniqueViolation(err):
			return nil, ErrCPFTaken
		}
		return nil, fmt.Errorf("update patient: %w", err)
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *patientService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, false)
}

func (s *patientService) Activate(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, true)
}

func (s *patientService) setActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.repo.SetPatientActive(ctx, id, active); err != nil {
		if store.IsNotFound(err) {
			return ErrPatientNotFound
		}
		return fmt.Errorf("set patient active=%t: %w", active, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *patientService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeletePatient(ctx, id); err != nil {
		if store.IsNotFound(err) {
			return ErrPatientNotFound
		}
		return fmt.Errorf("delete patient: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *patientService) Anamnesis(ctx context.Context, patientID uuid.UUID) (*model.Anamnesis, error) {
	a, err := s.repo.GetAnamnesis(ctx, patientID)
	if store.IsNotFound(err) {
		if _, err := s.Get(ctx, patientID); err != nil {
			return nil, err
		}
		return nil, ErrAnamnesisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get anamnesis: %w", err)
	}
	return a, nil
}

// UpdateAnamnesis rewrites the main complaint, opening the record for
// patients registered without one.
func (s *patientService) UpdateAnamnesis(ctx context.Context, patientID uuid.UUID, req UpdateAnamnesisRequest) (*model.Anamnesis, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	complaint := strings.TrimSpace(req.MainComplaint)
	if complaint == "" {
		return nil, validation.Field("main_complaint", "is required")
	}

	a := &model.Anamnesis{PatientID: patientID, MainComplaint: complaint}
	err := s.repo.UpdateAnamnesis(ctx, a)
	if store.IsNotFound(err) {
		err = s.repo.CreateAnamnesis(ctx, a)
		if store.IsForeignKeyViolation(err) {
			return nil, ErrPatientNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("create anamnesis: %w", err)
		}
		return a, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update anamnesis: %w", err)
	}
	return s.Anamnesis(ctx, patientID)
}

func (s *patientService) invalidate(ctx context.Context) {
	if s.inv != nil {
		s.inv.Invalidate(ctx)
	}
}

// trimmed returns nil for nil or blank input.
func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
