package store

import (
	"context"
	stdsql "database/sql"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/vitum_backend/internal/model"
)

const tablePatients = "patients"

var patientColumns = []string{
	"id", "full_name", "cpf", "phone", "email", "birth_date", "address", "notes", "is_active", "created_at", "updated_at",
}

type PatientFilter struct {
	IncludeInactive bool
	Search          string // matches full_name or cpf, case-insensitive
}

func scanPatient(rows *entsql.Rows, p *model.Patient) error {
	var (
		cpf, phone, email, address, notes stdsql.NullString
		birth                             stdsql.NullTime
	)
	if err := rows.Scan(
		&p.ID, &p.FullName, &cpf, &phone, &email, &birth, &address, &notes, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return err
	}
	p.CPF = strPtr(cpf)
	p.Phone = strPtr(phone)
	p.Email = strPtr(email)
	p.BirthDate = timePtr(birth)
	p.Address = strPtr(address)
	p.Notes = strPtr(notes)
	return nil
}

func (s *Store) CreatePatient(ctx context.Context, p *model.Patient) error {
	now := s.now()
	p.ID = newID()
	p.CreatedAt, p.UpdatedAt = now, now

	q := s.sql().Insert(tablePatients).
		Columns(patientColumns...).
		Values(p.ID, p.FullName, p.CPF, p.Phone, p.Email, p.BirthDate, p.Address, p.Notes, p.IsActive, p.CreatedAt, p.UpdatedAt)
	_, err := s.exec(ctx, q)
	return wrap("create patient", err)
}

func (s *Store) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	q := s.sql().Select(patientColumns...).
		From(entsql.Table(tablePatients)).
		Where(entsql.EQ("id", id))

	var p model.Patient
	err := s.queryOne(ctx, q, func(rows *entsql.Rows) error { return scanPatient(rows, &p) })
	if err != nil {
		return nil, wrap("get patient", err)
	}
	return &p, nil
}

func (s *Store) ListPatients(ctx context.Context, f PatientFilter) ([]model.Patient, error) {
	q := s.sql().Select(patientColumns...).
		From(entsql.Table(tablePatients)).
		OrderBy("full_name")

	var preds []*entsql.Predicate
	if !f.IncludeInactive {
		preds = append(preds, entsql.EQ("is_active", true))
	}
	if f.Search != "" {
		preds = append(preds, entsql.Or(
			entsql.ContainsFold("full_name", f.Search),
			entsql.Contains("cpf", f.Search),
		))
	}
	if len(preds) > 0 {
		q.Where(entsql.And(preds...))
	}

	var out []model.Patient
	err := s.query(ctx, q, func(rows *entsql.Rows) error {
		var p model.Patient
		if err := scanPatient(rows, &p); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, wrap("list patients", err)
	}
	return out, nil
}

func (s *Store) UpdatePatient(ctx context.Context, p *model.Patient) error {
	p.UpdatedAt = s.now()
	q := s.sql().Update(tablePatients).
		Set("full_name", p.FullName).
		Set("cpf", p.CPF).
		Set("phone", p.Phone).
		Set("email", p.Email).
		Set("birth_date", p.BirthDate).
		Set("address", p.Address).
		Set("notes", p.Notes).
		Set("updated_at", p.UpdatedAt).
		Where(entsql.EQ("id", p.ID))
	return wrap("update patient", s.execOne(ctx, q))
}

func (s *Store) SetPatientActive(ctx context.Context, id uuid.UUID, active bool) error {
	q := s.sql().Update(tablePatients).
		Set("is_active", active).
		Set("updated_at", s.now()).
		Where(entsql.EQ("id", id))
	return wrap("set patient active", s.execOne(ctx, q))
}

// DeletePatient hard-deletes; dependent rows go with it through ON DELETE CASCADE.
func (s *Store) DeletePatient(ctx context.Context, id uuid.UUID) error {
	q := s.sql().Delete(tablePatients).Where(entsql.EQ("id", id))
	return wrap("delete patient", s.execOne(ctx, q))
}

// CountPatients counts every patient, inactive ones included.
func (s *Store) CountPatients(ctx context.Context) (int, error) {
	return s.count(ctx, tablePatients, "count patients")
}
