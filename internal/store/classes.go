package store

import (
	"context"
	stdsql "database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Alijeyrad/vitum_backend/internal/model"
)

const (
	tableClasses     = "classes"
	tableEnrollments = "class_enrollments"
)

var classColumns = []string{
	"id", "name", "staff_id", "day_of_week", "start_hour", "start_minute",
	"duration_minutes", "max_capacity", "service_type", "is_active", "created_at", "updated_at",
}

type ClassFilter struct {
	ActiveOnly bool
}

func (s *Store) CreateClass(ctx context.Context, c *model.ClassDefinition) error {
	now := s.now()
	c.ID = newID()
	c.CreatedAt, c.UpdatedAt = now, now

	q := s.sql().Insert(tableClasses).
		Columns(classColumns...).
		Values(
			c.ID, c.Name, c.StaffID, int(c.DayOfWeek), c.StartTime.Hour, c.StartTime.Minute,
			c.DurationMinutes, c.MaxCapacity, c.ServiceType, c.IsActive, c.CreatedAt, c.UpdatedAt,
		)
	_, err := s.exec(ctx, q)
	return wrap("create class", err)
}

// classSelector selects classes with their (optional) staff member joined in.
func (s *Store) classSelector() *entsql.Selector {
	b := s.sql()
	c := b.Table(tableClasses).As("c")
	st := b.Table(tableStaff).As("s")

	cols := make([]string, 0, len(classColumns)+len(staffColumns))
	for _, col := range classColumns {
		cols = append(cols, c.C(col))
	}
	for _, col := range staffColumns {
		cols = append(cols, st.C(col))
	}

	return b.Select(cols...).
		From(c).
		LeftJoin(st).On(c.C("staff_id"), st.C("id")).
		OrderBy(c.C("day_of_week"), c.C("start_hour"), c.C("start_minute"))
}

func scanClassRow(rows *entsql.Rows, c *model.ClassDefinition) error {
	var (
		staffID            uuid.NullUUID
		day, hour, minute  int
		sID                uuid.NullUUID
		sName              stdsql.NullString
		sRoles             pq.StringArray
		sPhone, sEmail     stdsql.NullString
		sActive            stdsql.NullBool
		sCreated, sUpdated stdsql.NullTime
	)
	if err := rows.Scan(
		&c.ID, &c.Name, &staffID, &day, &hour, &minute,
		&c.DurationMinutes, &c.MaxCapacity, &c.ServiceType, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		&sID, &sName, &sRoles, &sPhone, &sEmail, &sActive, &sCreated, &sUpdated,
	); err != nil {
		return err
	}
	c.StaffID = uuidPtr(staffID)
	c.DayOfWeek = time.Weekday(day)
	c.StartTime = model.ClockTime{Hour: hour, Minute: minute}
	if sID.Valid {
		c.Staff = &model.StaffMember{
			ID:           sID.UUID,
			FullName:     sName.String,
			Roles:        []string(sRoles),
			ContactPhone: strPtr(sPhone),
			Email:        strPtr(sEmail),
			IsActive:     sActive.Bool,
			CreatedAt:    sCreated.Time,
			UpdatedAt:    sUpdated.Time,
		}
	}
	return nil
}

// ListClasses returns class definitions with staff and enrollments embedded.
func (s *Store) ListClasses(ctx context.Context, f ClassFilter) ([]model.ClassDefinition, error) {
	q := s.classSelector()
	if f.ActiveOnly {
		q.Where(entsql.EQ(q.C("is_active"), true))
	}

	var out []model.ClassDefinition
	err := s.query(ctx, q, func(rows *entsql.Rows) error {
		var c model.ClassDefinition
		if err := scanClassRow(rows, &c); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, wrap("list classes", err)
	}

	if err := s.attachEnrollments(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetClass(ctx context.Context, id uuid.UUID) (*model.ClassDefinition, error) {
	q := s.classSelector()
	q.Where(entsql.EQ(q.C("id"), id))

	var c model.ClassDefinition
	if err := s.queryOne(ctx, q, func(rows *entsql.Rows) error { return scanClassRow(rows, &c) }); err != nil {
		return nil, wrap("get class", err)
	}

	classes := []model.ClassDefinition{c}
	if err := s.attachEnrollments(ctx, classes); err != nil {
		return nil, err
	}
	return &classes[0], nil
}

func (s *Store) attachEnrollments(ctx context.Context, classes []model.ClassDefinition) error {
	if len(classes) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(classes))
	for i := range classes {
		ids[i] = classes[i].ID
	}

	enrollments, err := s.listEnrollments(ctx, func(e *entsql.SelectTable) *entsql.Predicate {
		return entsql.In(e.C("class_id"), anyUUIDs(ids)...)
	})
	if err != nil {
		return err
	}

	byClass := make(map[uuid.UUID][]model.ClassEnrollment, len(classes))
	for _, e := range enrollments {
		byClass[e.ClassID] = append(byClass[e.ClassID], e)
	}
	for i := range classes {
		classes[i].Enrollments = byClass[classes[i].ID]
	}
	return nil
}

func (s *Store) SetClassActive(ctx context.Context, id uuid.UUID, active bool) error {
	q := s.sql().Update(tableClasses).
		Set("is_active", active).
		Set("updated_at", s.now()).
		Where(entsql.EQ("id", id))
	return wrap("set class active", s.execOne(ctx, q))
}

// DeleteClass removes the definition and, by cascade, its enrollments.
// Materialized appointments keep their class_id as a plain value.
func (s *Store) DeleteClass(ctx context.Context, id uuid.UUID) error {
	q := s.sql().Delete(tableClasses).Where(entsql.EQ("id", id))
	return wrap("delete class", s.execOne(ctx, q))
}

// ---------------------------------------------------------------------------
// Enrollments
// ---------------------------------------------------------------------------

func (s *Store) listEnrollments(ctx context.Context, where func(e *entsql.SelectTable) *entsql.Predicate) ([]model.ClassEnrollment, error) {
	b := s.sql()
	e := b.Table(tableEnrollments).As("e")
	p := b.Table(tablePatients).As("p")

	q := b.Select(
		e.C("id"), e.C("class_id"), e.C("patient_id"), e.C("created_at"),
		p.C("full_name"), p.C("phone"), p.C("is_active"),
	).
		From(e).
		Join(p).On(e.C("patient_id"), p.C("id")).
		Where(where(e)).
		OrderBy(p.C("full_name"))

	var out []model.ClassEnrollment
	err := s.query(ctx, q, func(rows *entsql.Rows) error {
		var (
			en    model.ClassEnrollment
			pt    model.Patient
			phone stdsql.NullString
		)
		if err := rows.Scan(&en.ID, &en.ClassID, &en.PatientID, &en.CreatedAt, &pt.FullName, &phone, &pt.IsActive); err != nil {
			return err
		}
		pt.ID = en.PatientID
		pt.Phone = strPtr(phone)
		en.Patient = &pt
		out = append(out, en)
		return nil
	})
	if err != nil {
		return nil, wrap("list enrollments", err)
	}
	return out, nil
}

func (s *Store) ListEnrollments(ctx context.Context, classID uuid.UUID) ([]model.ClassEnrollment, error) {
	return s.listEnrollments(ctx, func(e *entsql.SelectTable) *entsql.Predicate {
		return entsql.EQ(e.C("class_id"), classID)
	})
}

func (s *Store) CountEnrollments(ctx context.Context, classID uuid.UUID) (int, error) {
	q := s.sql().Select(entsql.Count("*")).
		From(entsql.Table(tableEnrollments)).
		Where(entsql.EQ("class_id", classID))

	var n int
	err := s.queryOne(ctx, q, func(rows *entsql.Rows) error { return rows.Scan(&n) })
	if err != nil {
		return 0, wrap("count enrollments", err)
	}
	return n, nil
}

func (s *Store) EnrollmentExists(ctx context.Context, classID, patientID uuid.UUID) (bool, error) {
	q := s.sql().Select("id").
		From(entsql.Table(tableEnrollments)).
		Where(entsql.And(entsql.EQ("class_id", classID), entsql.EQ("patient_id", patientID))).
		Limit(1)

	err := s.queryOne(ctx, q, func(rows *entsql.Rows) error {
		var id uuid.UUID
		return rows.Scan(&id)
	})
	if IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, wrap("check enrollment", err)
	}
	return true, nil
}

func (s *Store) CreateEnrollment(ctx context.Context, e *model.ClassEnrollment) error {
	e.ID = newID()
	e.CreatedAt = s.now()

	q := s.sql().Insert(tableEnrollments).
		Columns("id", "class_id", "patient_id", "created_at").
		Values(e.ID, e.ClassID, e.PatientID, e.CreatedAt)
	_, err := s.exec(ctx, q)
	return wrap("create enrollment", err)
}

func (s *Store) DeleteEnrollment(ctx context.Context, classID, patientID uuid.UUID) error {
	q := s.sql().Delete(tableEnrollments).
		Where(entsql.And(entsql.EQ("class_id", classID), entsql.EQ("patient_id", patientID)))
	return wrap("delete enrollment", s.execOne(ctx, q))
}
