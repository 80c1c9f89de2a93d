package class

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/store"
	"github.com/Alijeyrad/vitum_backend/pkg/validation"
)

type mockRepo struct {
	classes     map[uuid.UUID]*model.ClassDefinition
	enrollments map[uuid.UUID][]model.ClassEnrollment
	createErr   error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		classes:     map[uuid.UUID]*model.ClassDefinition{},
		enrollments: map[uuid.UUID][]model.ClassEnrollment{},
	}
}

func (m *mockRepo) CreateClass(_ context.Context, c *model.ClassDefinition) error {
	if m.createErr != nil {
		return m.createErr
	}
	c.ID = uuid.New()
	cp := *c
	m.classes[c.ID] = &cp
	return nil
}

func (m *mockRepo) GetClass(_ context.Context, id uuid.UUID) (*model.ClassDefinition, error) {
	c, ok := m.classes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	cp.Enrollments = m.enrollments[id]
	return &cp, nil
}

func (m *mockRepo) ListClasses(_ context.Context, f store.ClassFilter) ([]model.ClassDefinition, error) {
	var out []model.ClassDefinition
	for _, c := range m.classes {
		if f.ActiveOnly && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockRepo) SetClassActive(_ context.Context, id uuid.UUID, active bool) error {
	c, ok := m.classes[id]
	if !ok {
		return store.ErrNotFound
	}
	c.IsActive = active
	return nil
}

func (m *mockRepo) DeleteClass(_ context.Context, id uuid.UUID) error {
	if _, ok := m.classes[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.classes, id)
	delete(m.enrollments, id)
	return nil
}

func (m *mockRepo) ListEnrollments(_ context.Context, classID uuid.UUID) ([]model.ClassEnrollment, error) {
	return m.enrollments[classID], nil
}

func (m *mockRepo) CountEnrollments(_ context.Context, classID uuid.UUID) (int, error) {
	return len(m.enrollments[classID]), nil
}

func (m *mockRepo) EnrollmentExists(_ context.Context, classID, patientID uuid.UUID) (bool, error) {
	for _, e := range m.enrollments[classID] {
		if e.PatientID == patientID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) CreateEnrollment(_ context.Context, e *model.ClassEnrollment) error {
	e.ID = uuid.New()
	m.enrollments[e.ClassID] = append(m.enrollments[e.ClassID], *e)
	return nil
}

func (m *mockRepo) DeleteEnrollment(_ context.Context, classID, patientID uuid.UUID) error {
	list := m.enrollments[classID]
	for i, e := range list {
		if e.PatientID == patientID {
			m.enrollments[classID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) { c.n++ }

func intp(v int) *int { return &v }

func validRequest() CreateClassRequest {
	return CreateClassRequest{
		Name:            "Pilates Solo",
		DayOfWeek:       intp(2),
		StartTime:       "07:00",
		DurationMinutes: 60,
		MaxCapacity:     2,
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CreateClassRequest)
		valid  bool
	}{
		{"valid", func(*CreateClassRequest) {}, true},
		{"sunday is a valid day", func(r *CreateClassRequest) { r.DayOfWeek = intp(0) }, true},
		{"missing day", func(r *CreateClassRequest) { r.DayOfWeek = nil }, false},
		{"day out of range", func(r *CreateClassRequest) { r.DayOfWeek = intp(7) }, false},
		{"bad start time", func(r *CreateClassRequest) { r.StartTime = "7h" }, false},
		{"zero duration", func(r *CreateClassRequest) { r.DurationMinutes = 0 }, false},
		{"zero capacity", func(r *CreateClassRequest) { r.MaxCapacity = 0 }, false},
		{"blank name", func(r *CreateClassRequest) { r.Name = "  " }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &countingInvalidator{}
			svc := New(newMockRepo(), inv)
			req := validRequest()
			tt.mutate(&req)

			c, err := svc.Create(context.Background(), req)
			if !tt.valid {
				assert.ErrorIs(t, err, validation.ErrInvalid)
				assert.Zero(t, inv.n)
				return
			}
			require.NoError(t, err)
			assert.True(t, c.IsActive)
			assert.Equal(t, time.Weekday(*req.DayOfWeek), c.DayOfWeek)
			assert.Equal(t, model.ClockTime{Hour: 7}, c.StartTime)
			assert.Equal(t, DefaultServiceType, c.ServiceType)
			assert.Equal(t, 1, inv.n)
		})
	}
}

func TestCreate_UnknownStaff(t *testing.T) {
	repo := newMockRepo()
	repo.createErr = &pq.Error{Code: "23503"}
	svc := New(repo, nil)

	req := validRequest()
	staffID := uuid.New()
	req.StaffID = &staffID

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnknownStaff)
}

func TestEnroll(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	inv := &countingInvalidator{}
	svc := New(repo, inv)

	c, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	ana, bia, caio := uuid.New(), uuid.New(), uuid.New()

	_, err = svc.Enroll(ctx, c.ID, ana)
	require.NoError(t, err)

	t.Run("duplicate", func(t *testing.T) {
		_, err := svc.Enroll(ctx, c.ID, ana)
		assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	})

	_, err = svc.Enroll(ctx, c.ID, bia)
	require.NoError(t, err)

	t.Run("full", func(t *testing.T) {
		_, err := svc.Enroll(ctx, c.ID, caio)
		assert.ErrorIs(t, err, ErrClassFull)
	})

	t.Run("unknown class", func(t *testing.T) {
		_, err := svc.Enroll(ctx, uuid.New(), caio)
		assert.ErrorIs(t, err, ErrClassNotFound)
	})

	t.Run("unenroll frees a seat", func(t *testing.T) {
		require.NoError(t, svc.Unenroll(ctx, c.ID, ana))
		_, err := svc.Enroll(ctx, c.ID, caio)
		assert.NoError(t, err)

		roster, err := svc.Enrollments(ctx, c.ID)
		require.NoError(t, err)
		assert.Len(t, roster, 2)
	})

	t.Run("unenroll twice", func(t *testing.T) {
		assert.ErrorIs(t, svc.Unenroll(ctx, c.ID, ana), ErrNotEnrolled)
	})

	t.Run("inactive class", func(t *testing.T) {
		require.NoError(t, svc.Deactivate(ctx, c.ID))
		_, err := svc.Enroll(ctx, c.ID, ana)
		assert.ErrorIs(t, err, ErrClassInactive)
	})

	// create, 4 successful enrollment changes, deactivate
	assert.Equal(t, 6, inv.n)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	svc := New(repo, nil)

	c, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, c.ID))
	err = svc.Delete(ctx, c.ID)
	assert.True(t, errors.Is(err, ErrClassNotFound))

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)
}
