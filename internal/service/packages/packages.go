// Package packages sells session credits. Consumption happens in the ledger;
// this package only opens packages and moves them out of Aguardando Pagamento.
package packages

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/store"
	"github.com/Alijeyrad/vitum_backend/pkg/validation"
)

type CreatePackageRequest struct {
	PatientID     uuid.UUID `json:"patient_id" validate:"required"`
	Description   string    `json:"description" validate:"required,max=200"`
	TotalSessions int       `json:"total_sessions" validate:"gt=0,lte=500"`
	PriceCents    int64     `json:"price_cents" validate:"gte=0"`
	// AwaitingPayment opens the package without making its credits usable.
	AwaitingPayment bool `json:"awaiting_payment"`
}

type Repository interface {
	CreatePackage(ctx context.Context, p *model.PatientPackage) error
	GetPackage(ctx context.Context, id uuid.UUID) (*model.PatientPackage, error)
	ListPackages(ctx context.Context, patientID uuid.UUID) ([]model.PatientPackage, error)
	SetPackageStatus(ctx context.Context, id uuid.UUID, status model.PackageStatus) error
}

type Service interface {
	Create(ctx context.Context, req CreatePackageRequest) (*model.PatientPackage, error)
	Get(ctx context.Context, id uuid.UUID) (*model.PatientPackage, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]model.PatientPackage, error)
	Activate(ctx context.Context, id uuid.UUID) (*model.PatientPackage, error)
}

type packageService struct {
	repo Repository
}

func New(repo Repository) Service {
	return &packageService{repo: repo}
}

func (s *packageService) Create(ctx context.Context, req CreatePackageRequest) (*model.PatientPackage, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return nil, validation.Field("description", "is required")
	}

	status := model.PackageActive
	if req.AwaitingPayment {
		status = model.PackageAwaitingPayment
	}
	p := &model.PatientPackage{
		PatientID:         req.PatientID,
		Description:       desc,
		TotalSessions:     req.TotalSessions,
		SessionsRemaining: req.TotalSessions,
		Status:            status,
		PriceCents:        req.PriceCents,
	}
	if err := s.repo.CreatePackage(ctx, p); err != nil {
		if store.IsForeignKeyViolation(err) {
			return nil, ErrUnknownPatient
		}
		return nil, fmt.Errorf("create package: %w", err)
	}
	return p, nil
}

func (s *packageService) Get(ctx context.Context, id uuid.UUID) (*model.PatientPackage, error) {
	p, err := s.repo.GetPackage(ctx, id)
	if store.IsNotFound(err) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}
	return p, nil
}

func (s *packageService) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]model.PatientPackage, error) {
	list, err := s.repo.ListPackages(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return list, nil
}

func (s *packageService) Activate(ctx context.Context, id uuid.UUID) (*model.PatientPackage, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != model.PackageAwaitingPayment {
		return nil, ErrNotAwaitingPayment
	}
	if err := s.repo.SetPackageStatus(ctx, id, model.PackageActive); err != nil {
		if store.IsNotFound(err) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("activate package: %w", err)
	}
	p.Status = model.PackageActive
	return p, nil
}
