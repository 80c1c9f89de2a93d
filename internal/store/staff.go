package store

import (
	"context"
	stdsql "database/sql"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Alijeyrad/vitum_backend/internal/model"
)

const tableStaff = "staff"

var staffColumns = []string{
	"id", "full_name", "roles", "contact_phone", "email", "is_active", "created_at", "updated_at",
}

func scanStaff(rows *entsql.Rows, m *model.StaffMember) error {
	var (
		roles        pq.StringArray
		phone, email stdsql.NullString
	)
	if err := rows.Scan(&m.ID, &m.FullName, &roles, &phone, &email, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return err
	}
	m.Roles = []string(roles)
	m.ContactPhone = strPtr(phone)
	m.Email = strPtr(email)
	return nil
}

func (s *Store) CreateStaff(ctx context.Context, m *model.StaffMember) error {
	now := s.now()
	m.ID = newID()
	m.CreatedAt, m.UpdatedAt = now, now

	q := s.sql().Insert(tableStaff).
		Columns(staffColumns...).
		Values(m.ID, m.FullName, pq.StringArray(m.Roles), m.ContactPhone, m.Email, m.IsActive, m.CreatedAt, m.UpdatedAt)
	_, err := s.exec(ctx, q)
	return wrap("create staff", err)
}

func (s *Store) GetStaff(ctx context.Context, id uuid.UUID) (*model.StaffMember, error) {
	q := s.sql().Select(staffColumns...).
		From(entsql.Table(tableStaff)).
		Where(entsql.EQ("id", id))

	var m model.StaffMember
	if err := s.queryOne(ctx, q, func(rows *entsql.Rows) error { return scanStaff(rows, &m) }); err != nil {
		return nil, wrap("get staff", err)
	}
	return &m, nil
}

func (s *Store) ListStaff(ctx context.Context, includeInactive bool) ([]model.StaffMember, error) {
	q := s.sql().Select(staffColumns...).
		From(entsql.Table(tableStaff)).
		OrderBy("full_name")
	if !includeInactive {
		q.Where(entsql.EQ("is_active", true))
	}

	var out []model.StaffMember
	err := s.query(ctx, q, func(rows *entsql.Rows) error {
		var m model.StaffMember
		if err := scanStaff(rows, &m); err != nil {
			return err
		}
		out = append(out, m)
		return nil
	})
	if err != nil {
		return nil, wrap("list staff", err)
	}
	return out, nil
}

func (s *Store) SetStaffActive(ctx context.Context, id uuid.UUID, active bool) error {
	q := s.sql().Update(tableStaff).
		Set("is_active", active).
		Set("updated_at", s.now()).
		Where(entsql.EQ("id", id))
	return wrap("set staff active", s.execOne(ctx, q))
}

func (s *Store) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	q := s.sql().Delete(tableStaff).Where(entsql.EQ("id", id))
	return wrap("delete staff", s.execOne(ctx, q))
}
