package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/vitum_backend/internal/model"
)

const tablePackages = "patient_packages"

var packageColumns = []string{
	"id", "patient_id", "description", "total_sessions", "sessions_remaining", "status", "price_cents", "created_at", "updated_at",
}

func scanPackage(rows *entsql.Rows, p *model.PatientPackage) error {
	var status string
	if err := rows.Scan(
		&p.ID, &p.PatientID, &p.Description, &p.TotalSessions, &p.SessionsRemaining, &status, &p.PriceCents, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return err
	}
	p.Status = model.PackageStatus(status)
	return nil
}

func (s *Store) CreatePackage(ctx context.Context, p *model.PatientPackage) error {
	now := s.now()
	p.ID = newID()
	p.CreatedAt, p.UpdatedAt = now, now

	q := s.sql().Insert(tablePackages).
		Columns(packageColumns...).
		Values(p.ID, p.PatientID, p.Description, p.TotalSessions, p.SessionsRemaining, string(p.Status), p.PriceCents, p.CreatedAt, p.UpdatedAt)
	_, err := s.exec(ctx, q)
	return wrap("create package", err)
}

func (s *Store) GetPackage(ctx context.Context, id uuid.UUID) (*model.PatientPackage, error) {
	q := s.sql().Select(packageColumns...).
		From(entsql.Table(tablePackages)).
		Where(entsql.EQ("id", id))

	var p model.PatientPackage
	if err := s.queryOne(ctx, q, func(rows *entsql.Rows) error { return scanPackage(rows, &p) }); err != nil {
		return nil, wrap("get package", err)
	}
	return &p, nil
}

func (s *Store) ListPackages(ctx context.Context, patientID uuid.UUID) ([]model.PatientPackage, error) {
	q := s.sql().Select(packageColumns...).
		From(entsql.Table(tablePackages)).
		Where(entsql.EQ("patient_id", patientID)).
		OrderBy(entsql.Desc("created_at"))

	var out []model.PatientPackage
	err := s.query(ctx, q, func(rows *entsql.Rows) error {
		var p model.PatientPackage
		if err := scanPackage(rows, &p); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, wrap("list packages", err)
	}
	return out, nil
}

// TopActivePackage returns the patient's Ativo package with the largest
// remaining balance. Among equal balances the row the database returns first
// wins; no further ordering is applied.
func (s *Store) TopActivePackage(ctx context.Context, patientID uuid.UUID) (*model.PatientPackage, error) {
	q := s.sql().Select(packageColumns...).
		From(entsql.Table(tablePackages)).
		Where(entsql.And(
			entsql.EQ("patient_id", patientID),
			entsql.EQ("status", string(model.PackageActive)),
		)).
		OrderBy(entsql.Desc("sessions_remaining")).
		Limit(1)

	var p model.PatientPackage
	if err := s.queryOne(ctx, q, func(rows *entsql.Rows) error { return scanPackage(rows, &p) }); err != nil {
		return nil, wrap("top active package", err)
	}
	return &p, nil
}

func (s *Store) UpdatePackageBalance(ctx context.Context, id uuid.UUID, remaining int, status model.PackageStatus) error {
	q := s.sql().Update(tablePackages).
		Set("sessions_remaining", remaining).
		Set("status", string(status)).
		Set("updated_at", s.now()).
		Where(entsql.EQ("id", id))
	return wrap("update package balance", s.execOne(ctx, q))
}

func (s *Store) SetPackageStatus(ctx context.Context, id uuid.UUID, status model.PackageStatus) error {
	q := s.sql().Update(tablePackages).
		Set("status", string(status)).
		Set("updated_at", s.now()).
		Where(entsql.EQ("id", id))
	return wrap("set package status", s.execOne(ctx, q))
}
