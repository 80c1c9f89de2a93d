package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/vitum_backend/internal/model"
)

const tableAnamnesis = "patient_anamnesis"

var anamnesisColumns = []string{"id", "patient_id", "main_complaint", "created_at", "updated_at"}

func (s *Store) CreateAnamnesis(ctx context.Context, a *model.Anamnesis) error {
	now := s.now()
	a.ID = newID()
	a.CreatedAt, a.UpdatedAt = now, now

	q := s.sql().Insert(tableAnamnesis).
		Columns(anamnesisColumns...).
		Values(a.ID, a.PatientID, a.MainComplaint, a.CreatedAt, a.UpdatedAt)
	_, err := s.exec(ctx, q)
	return wrap("create anamnesis", err)
}

func (s *Store) GetAnamnesis(ctx context.Context, patientID uuid.UUID) (*model.Anamnesis, error) {
	q := s.sql().Select(anamnesisColumns...).
		From(entsql.Table(tableAnamnesis)).
		Where(entsql.EQ("patient_id", patientID))

	var a model.Anamnesis
	err := s.queryOne(ctx, q, func(rows *entsql.Rows) error {
		return rows.Scan(&a.ID, &a.PatientID, &a.MainComplaint, &a.CreatedAt, &a.UpdatedAt)
	})
	if err != nil {
		return nil, wrap("get anamnesis", err)
	}
	return &a, nil
}

// UpdateAnamnesis rewrites the complaint of the patient's existing record.
func (s *Store) UpdateAnamnesis(ctx context.Context, a *model.Anamnesis) error {
	a.UpdatedAt = s.now()
	q := s.sql().Update(tableAnamnesis).
		Set("main_complaint", a.MainComplaint).
		Set("updated_at", a.UpdatedAt).
		Where(entsql.EQ("patient_id", a.PatientID))
	return wrap("update anamnesis", s.execOne(ctx, q))
}
