package staff

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/store"
	"github.com/Alijeyrad/vitum_backend/pkg/phone"
	"github.com/Alijeyrad/vitum_backend/pkg/validation"
)

type CreateStaffRequest struct {
	FullName     string   `json:"full_name" validate:"required,max=200"`
	Roles        []string `json:"roles" validate:"required,min=1,dive,required,max=60"`
	ContactPhone *string  `json:"contact_phone" validate:"omitempty,max=30"`
	Email        *string  `json:"email" validate:"omitempty,email"`
}

type Repository interface {
	CreateStaff(ctx context.Context, m *model.StaffMember) error
	GetStaff(ctx context.Context, id uuid.UUID) (*model.StaffMember, error)
	ListStaff(ctx context.Context, includeInactive bool) ([]model.StaffMember, error)
	SetStaffActive(ctx context.Context, id uuid.UUID, active bool) error
	DeleteStaff(ctx context.Context, id uuid.UUID) error
}

type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Service interface {
	Create(ctx context.Context, req CreateStaffRequest) (*model.StaffMember, error)
	Get(ctx context.Context, id uuid.UUID) (*model.StaffMember, error)
	List(ctx context.Context, includeInactive bool) ([]model.StaffMember, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type staffService struct {
	repo   Repository
	inv    Invalidator
	region string
}

func New(repo Repository, inv Invalidator, phoneRegion string) Service {
	return &staffService{repo: repo, inv: inv, region: phoneRegion}
}

func (s *staffService) Create(ctx context.Context, req CreateStaffRequest) (*model.StaffMember, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	contact, err := phone.NormalizePtr(req.ContactPhone, s.region)
	if err != nil {
		return nil, validation.Field("contact_phone", "must be a valid phone number")
	}

	roles := lo.Uniq(lo.FilterMap(req.Roles, func(r string, _ int) (string, bool) {
		r = strings.TrimSpace(r)
		return r, r != ""
	}))
	if len(roles) == 0 {
		return nil, validation.Field("roles", "must have at least 1 role")
	}

	m := &model.StaffMember{
		FullName:     strings.TrimSpace(req.FullName),
		Roles:        roles,
		ContactPhone: contact,
		Email:        req.Email,
		IsActive:     true,
	}
	if err := s.repo.CreateStaff(ctx, m); err != nil {
		return nil, fmt.Errorf("create staff: %w", err)
	}
	return m, nil
}

func (s *staffService) Get(ctx context.Context, id uuid.UUID) (*model.StaffMember, error) {
	m, err := s.repo.GetStaff(ctx, id)
	if store.IsNotFound(err) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get staff: %w", err)
	}
	return m, nil
}

func (s *staffService) List(ctx context.Context, includeInactive bool) ([]model.StaffMember, error) {
	members, err := s.repo.ListStaff(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return members, nil
}

func (s *staffService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetStaffActive(ctx, id, false); err != nil {
		if store.IsNotFound(err) {
			return ErrStaffNotFound
		}
		return fmt.Errorf("deactivate staff: %w", err)
	}
	return nil
}

// Delete removes the member; classes and appointments keep running with no
// staff assigned.
func (s *staffService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteStaff(ctx, id); err != nil {
		if store.IsNotFound(err) {
			return ErrStaffNotFound
		}
		return fmt.Errorf("delete staff: %w", err)
	}
	if s.inv != nil {
		s.inv.Invalidate(ctx)
	}
	return nil
}
