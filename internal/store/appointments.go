package store

import (
	"context"
	stdsql "database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/vitum_backend/internal/model"
)

const tableAppointments = "appointments"

var appointmentColumns = []string{
	"id", "patient_id", "staff_id", "class_id", "start_time", "end_time",
	"description", "status", "service_type", "is_class_event", "created_at", "updated_at",
}

func (s *Store) appointmentSelector() (*entsql.Selector, *entsql.SelectTable) {
	b := s.sql()
	a := b.Table(tableAppointments).As("a")
	p := b.Table(tablePatients).As("p")

	cols := make([]string, 0, len(appointmentColumns)+2)
	for _, col := range appointmentColumns {
		cols = append(cols, a.C(col))
	}
	cols = append(cols, p.C("full_name"), p.C("phone"))

	q := b.Select(cols...).
		From(a).
		LeftJoin(p).On(a.C("patient_id"), p.C("id")).
		OrderBy(a.C("start_time"))
	return q, a
}

func scanAppointment(rows *entsql.Rows, a *model.Appointment) error {
	var (
		staffID, classID uuid.NullUUID
		status           string
		pName, pPhone    stdsql.NullString
	)
	if err := rows.Scan(
		&a.ID, &a.PatientID, &staffID, &classID, &a.StartTime, &a.EndTime,
		&a.Description, &status, &a.ServiceType, &a.IsClassEvent, &a.CreatedAt, &a.UpdatedAt,
		&pName, &pPhone,
	); err != nil {
		return err
	}
	a.StaffID = uuidPtr(staffID)
	a.ClassID = uuidPtr(classID)
	a.Status = model.AppointmentStatus(status)
	if pName.Valid {
		a.Patient = &model.Patient{ID: a.PatientID, FullName: pName.String, Phone: strPtr(pPhone)}
	}
	return nil
}

func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	now := s.now()
	a.ID = newID()
	a.CreatedAt, a.UpdatedAt = now, now

	q := s.sql().Insert(tableAppointments).
		Columns(appointmentColumns...).
		Values(
			a.ID, a.PatientID, a.StaffID, a.ClassID, a.StartTime, a.EndTime,
			a.Description, string(a.Status), a.ServiceType, a.IsClassEvent, a.CreatedAt, a.UpdatedAt,
		)
	_, err := s.exec(ctx, q)
	return wrap("create appointment", err)
}

func (s *Store) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	q, a := s.appointmentSelector()
	q.Where(entsql.EQ(a.C("id"), id))

	var out model.Appointment
	if err := s.queryOne(ctx, q, func(rows *entsql.Rows) error { return scanAppointment(rows, &out) }); err != nil {
		return nil, wrap("get appointment", err)
	}
	return &out, nil
}

// ListAppointments returns rows overlapping [from, to), ordered by start time.
func (s *Store) ListAppointments(ctx context.Context, from, to time.Time) ([]model.Appointment, error) {
	q, a := s.appointmentSelector()
	q.Where(entsql.And(
		entsql.LT(a.C("start_time"), to),
		entsql.GT(a.C("end_time"), from),
	))

	var out []model.Appointment
	err := s.query(ctx, q, func(rows *entsql.Rows) error {
		var appt model.Appointment
		if err := scanAppointment(rows, &appt); err != nil {
			return err
		}
		out = append(out, appt)
		return nil
	})
	if err != nil {
		return nil, wrap("list appointments", err)
	}
	return out, nil
}

// FindMaterialized looks up the row a class occurrence was materialized into,
// if any, for a patient on the day [dayStart, dayEnd).
func (s *Store) FindMaterialized(ctx context.Context, classID, patientID uuid.UUID, dayStart, dayEnd time.Time) (*model.Appointment, error) {
	q, a := s.appointmentSelector()
	q.Where(entsql.And(
		entsql.EQ(a.C("class_id"), classID),
		entsql.EQ(a.C("patient_id"), patientID),
		entsql.EQ(a.C("is_class_event"), true),
		entsql.GTE(a.C("start_time"), dayStart),
		entsql.LT(a.C("start_time"), dayEnd),
	)).Limit(1)

	var out model.Appointment
	if err := s.queryOne(ctx, q, func(rows *entsql.Rows) error { return scanAppointment(rows, &out) }); err != nil {
		return nil, wrap("find materialized appointment", err)
	}
	return &out, nil
}

func (s *Store) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	q := s.sql().Update(tableAppointments).
		Set("status", string(status)).
		Set("updated_at", s.now()).
		Where(entsql.EQ("id", id))
	return wrap("update appointment status", s.execOne(ctx, q))
}

func (s *Store) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	q := s.sql().Delete(tableAppointments).Where(entsql.EQ("id", id))
	return wrap("delete appointment", s.execOne(ctx, q))
}
