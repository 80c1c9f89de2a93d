package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/vitum_backend/internal/model"
)

const tableEvolutions = "clinical_evolutions"

var evolutionColumns = []string{"id", "patient_id", "description", "pain_level", "session_date", "created_at"}

func scanEvolution(rows *entsql.Rows, e *model.ClinicalEvolution) error {
	return rows.Scan(&e.ID, &e.PatientID, &e.Description, &e.PainLevel, &e.SessionDate, &e.CreatedAt)
}

func (s *Store) CreateEvolution(ctx context.Context, e *model.ClinicalEvolution) error {
	e.ID = newID()
	e.CreatedAt = s.now()

	q := s.sql().Insert(tableEvolutions).
		Columns(evolutionColumns...).
		Values(e.ID, e.PatientID, e.Description, e.PainLevel, e.SessionDate, e.CreatedAt)
	_, err := s.exec(ctx, q)
	return wrap("create evolution", err)
}

// ListEvolutions returns a patient's notes, latest session first.
func (s *Store) ListEvolutions(ctx context.Context, patientID uuid.UUID) ([]model.ClinicalEvolution, error) {
	q := s.sql().Select(evolutionColumns...).
		From(entsql.Table(tableEvolutions)).
		Where(entsql.EQ("patient_id", patientID)).
		OrderBy(entsql.Desc("session_date"), entsql.Desc("created_at"))

	var out []model.ClinicalEvolution
	err := s.query(ctx, q, func(rows *entsql.Rows) error {
		var e model.ClinicalEvolution
		if err := scanEvolution(rows, &e); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, wrap("list evolutions", err)
	}
	return out, nil
}

// RecentEvolutions returns the newest notes across all patients, each with
// the patient's name.
func (s *Store) RecentEvolutions(ctx context.Context, limit int) ([]model.ClinicalEvolution, error) {
	b := s.sql()
	e := b.Table(tableEvolutions).As("e")
	p := b.Table(tablePatients).As("p")

	cols := make([]string, 0, len(evolutionColumns)+1)
	for _, col := range evolutionColumns {
		cols = append(cols, e.C(col))
	}
	cols = append(cols, p.C("full_name"))

	q := b.Select(cols...).
		From(e).
		Join(p).On(e.C("patient_id"), p.C("id")).
		OrderBy(entsql.Desc(e.C("created_at"))).
		Limit(limit)

	var out []model.ClinicalEvolution
	err := s.query(ctx, q, func(rows *entsql.Rows) error {
		var (
			ev   model.ClinicalEvolution
			name string
		)
		if err := rows.Scan(&ev.ID, &ev.PatientID, &ev.Description, &ev.PainLevel, &ev.SessionDate, &ev.CreatedAt, &name); err != nil {
			return err
		}
		ev.Patient = &model.Patient{ID: ev.PatientID, FullName: name}
		out = append(out, ev)
		return nil
	})
	if err != nil {
		return nil, wrap("recent evolutions", err)
	}
	return out, nil
}

func (s *Store) CountEvolutions(ctx context.Context) (int, error) {
	return s.count(ctx, tableEvolutions, "count evolutions")
}

func (s *Store) DeleteEvolution(ctx context.Context, id uuid.UUID) error {
	q := s.sql().Delete(tableEvolutions).Where(entsql.EQ("id", id))
	return wrap("delete evolution", s.execOne(ctx, q))
}
