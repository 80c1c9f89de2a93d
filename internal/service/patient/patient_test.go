package patient

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/store"
	"github.com/Alijeyrad/vitum_backend/pkg/validation"
)

type mockRepo struct {
	patients     map[uuid.UUID]*model.Patient
	anamnesis    map[uuid.UUID]*model.Anamnesis // by patient
	createErr    error
	anamnesisErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		patients:  map[uuid.UUID]*model.Patient{},
		anamnesis: map[uuid.UUID]*model.Anamnesis{},
	}
}

func (m *mockRepo) CreatePatient(_ context.Context, p *model.Patient) error {
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = uuid.New()
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetPatient(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) ListPatients(_ context.Context, f store.PatientFilter) ([]model.Patient, error) {
	var out []model.Patient
	for _, p := range m.patients {
		if f.IncludeInactive || p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockRepo) UpdatePatient(_ context.Context, p *model.Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) SetPatientActive(_ context.Context, id uuid.UUID, active bool) error {
	p, ok := m.patients[id]
	if !ok {
		return store.ErrNotFound
	}
	p.IsActive = active
	return nil
}

func (m *mockRepo) DeletePatient(_ context.Context, id uuid.UUID) error {
	if _, ok := m.patients[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.patients, id)
	delete(m.anamnesis, id)
	return nil
}

func (m *mockRepo) CreateAnamnesis(_ context.Context, a *model.Anamnesis) error {
	if m.anamnesisErr != nil {
		return m.anamnesisErr
	}
	if _, ok := m.patients[a.PatientID]; !ok {
		return &pq.Error{Code: "23503"}
	}
	a.ID = uuid.New()
	cp := *a
	m.anamnesis[a.PatientID] = &cp
	return nil
}

func (m *mockRepo) GetAnamnesis(_ context.Context, patientID uuid.UUID) (*model.Anamnesis, error) {
	a, ok := m.anamnesis[patientID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) UpdateAnamnesis(_ context.Context, a *model.Anamnesis) error {
	existing, ok := m.anamnesis[a.PatientID]
	if !ok {
		return store.ErrNotFound
	}
	existing.MainComplaint = a.MainComplaint
	return nil
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) { c.n++ }

func strp(s string) *string { return &s }

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreatePatientRequest
		wantErr error
		phone   string
	}{
		{"minimal", CreatePatientRequest{FullName: "Maria Souza"}, nil, ""},
		{"phone normalized", CreatePatientRequest{FullName: "Maria Souza", Phone: strp("(11) 98765-4321")}, nil, "+5511987654321"},
		{"blank phone dropped", CreatePatientRequest{FullName: "Maria Souza", Phone: strp(" ")}, nil, ""},
		{"missing name", CreatePatientRequest{}, validation.ErrInvalid, ""},
		{"whitespace name", CreatePatientRequest{FullName: "   "}, validation.ErrInvalid, ""},
		{"bad phone", CreatePatientRequest{FullName: "Maria", Phone: strp("12")}, validation.ErrInvalid, ""},
		{"bad email", CreatePatientRequest{FullName: "Maria", Email: strp("maria@")}, validation.ErrInvalid, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			svc := New(repo, nil, "BR")

			p, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if len(repo.patients) != 0 {
					t.Fatalf("expected no write on validation failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !p.IsActive {
				t.Error("new patient should be active")
			}
			got := ""
			if p.Phone != nil {
				got = *p.Phone
			}
			if got != tt.phone {
				t.Errorf("phone = %q, want %q", got, tt.phone)
			}
		})
	}
}

func TestCreate_DuplicateCPF(t *testing.T) {
	repo := newMockRepo()
	repo.createErr = &pq.Error{Code: "23505"}
	svc := New(repo, nil, "BR")

	_, err := svc.Create(context.Background(), CreatePatientRequest{FullName: "Maria", CPF: strp("123.456.789-00")})
	if !errors.Is(err, ErrCPFTaken) {
		t.Fatalf("expected ErrCPFTaken, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	repo := newMockRepo()
	inv := &countingInvalidator{}
	svc := New(repo, inv, "BR")
	ctx := context.Background()

	p, err := svc.Create(ctx, CreatePatientRequest{FullName: "Maria", Notes: strp("lombalgia")})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.Update(ctx, p.ID, UpdatePatientRequest{FullName: strp(" Maria Clara "), Phone: strp("21 99876-5432")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.FullName != "Maria Clara" {
		t.Errorf("full name = %q", updated.FullName)
	}
	if updated.Phone == nil || *updated.Phone != "+5521998765432" {
		t.Errorf("phone = %v", updated.Phone)
	}
	if updated.Notes == nil || *updated.Notes != "lombalgia" {
		t.Errorf("untouched field changed: %v", updated.Notes)
	}
	if inv.n != 1 {
		t.Errorf("invalidations = %d, want 1", inv.n)
	}

	if _, err := svc.Update(ctx, uuid.New(), UpdatePatientRequest{}); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestDeactivateAndDelete(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, nil, "BR")
	ctx := context.Background()

	p, _ := svc.Create(ctx, CreatePatientRequest{FullName: "João"})

	if err := svc.Deactivate(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	active, _ := svc.List(ctx, ListPatientsRequest{})
	if len(active) != 0 {
		t.Errorf("inactive patient listed by default")
	}
	all, _ := svc.List(ctx, ListPatientsRequest{IncludeInactive: true})
	if len(all) != 1 {
		t.Errorf("expected inactive patient with IncludeInactive")
	}

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, p.ID); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
	if _, err := svc.Get(ctx, p.ID); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestCreate_Anamnesis(t *testing.T) {
	tests := []struct {
		name          string
		complaint     *string
		anamnesisErr  error
		wantErr       bool
		wantComplaint string
		wantPatients  int
	}{
		{"complaint opens the anamnesis", strp("  dor lombar ao sentar "), nil, false, "dor lombar ao sentar", 1},
		{"no complaint, no anamnesis", nil, nil, false, "", 1},
		{"blank complaint, no anamnesis", strp("   "), nil, false, "", 1},
		{"anamnesis failure removes the patient", strp("cervicalgia"), errors.New("connection reset"), true, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			repo.anamnesisErr = tt.anamnesisErr
			svc := New(repo, nil, "BR")

			p, err := svc.Create(context.Background(), CreatePatientRequest{FullName: "Maria", MainComplaint: tt.complaint})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(repo.patients) != tt.wantPatients {
				t.Errorf("patients = %d, want %d", len(repo.patients), tt.wantPatients)
			}
			if tt.wantErr {
				return
			}

			a, err := svc.Anamnesis(context.Background(), p.ID)
			if tt.wantComplaint == "" {
				if !errors.Is(err, ErrAnamnesisNotFound) {
					t.Errorf("Anamnesis() error = %v, want ErrAnamnesisNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Anamnesis() error = %v", err)
			}
			if a.MainComplaint != tt.wantComplaint {
				t.Errorf("main complaint = %q, want %q", a.MainComplaint, tt.wantComplaint)
			}
		})
	}
}

func TestUpdateAnamnesis(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		intake    *string
		patient   bool
		complaint string
		wantErr   error
	}{
		{"rewrites the existing record", strp("dor no ombro"), true, "dor no ombro direito", nil},
		{"opens a record on first edit", nil, true, "tendinite", nil},
		{"blank complaint", strp("dor no ombro"), true, "  ", validation.ErrInvalid},
		{"unknown patient", nil, false, "tendinite", ErrPatientNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			svc := New(repo, nil, "BR")

			id := uuid.New()
			if tt.patient {
				p, err := svc.Create(ctx, CreatePatientRequest{FullName: "Maria", MainComplaint: tt.intake})
				if err != nil {
					t.Fatal(err)
				}
				id = p.ID
			}

			a, err := svc.UpdateAnamnesis(ctx, id, UpdateAnamnesisRequest{MainComplaint: tt.complaint})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UpdateAnamnesis() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateAnamnesis() error = %v", err)
			}
			if a.MainComplaint != tt.complaint || a.PatientID != id {
				t.Errorf("anamnesis = %+v", a)
			}
			if got := repo.anamnesis[id].MainComplaint; got != tt.complaint {
				t.Errorf("stored complaint = %q, want %q", got, tt.complaint)
			}
		})
	}
}

func TestAnamnesis_UnknownPatient(t *testing.T) {
	svc := New(newMockRepo(), nil, "BR")
	if _, err := svc.Anamnesis(context.Background(), uuid.New()); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("Anamnesis() error = %v, want ErrPatientNotFound", err)
	}
}

func TestActivationInvalidatesCalendar(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		change func(Service, uuid.UUID) error
		active bool
	}{
		{"deactivate", func(s Service, id uuid.UUID) error { return s.Deactivate(ctx, id) }, false},
		{"reactivate", func(s Service, id uuid.UUID) error {
			if err := s.Deactivate(ctx, id); err != nil {
				return err
			}
			return s.Activate(ctx, id)
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			inv := &countingInvalidator{}
			svc := New(repo, inv, "BR")

			p, err := svc.Create(ctx, CreatePatientRequest{FullName: "João"})
			if err != nil {
				t.Fatal(err)
			}
			if err := tt.change(svc, p.ID); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.patients[p.ID].IsActive != tt.active {
				t.Errorf("is_active = %v, want %v", repo.patients[p.ID].IsActive, tt.active)
			}
			if inv.n == 0 {
				t.Error("calendar cache not invalidated")
			}
		})
	}

	t.Run("unknown patient", func(t *testing.T) {
		svc := New(newMockRepo(), &countingInvalidator{}, "BR")
		if err := svc.Activate(ctx, uuid.New()); !errors.Is(err, ErrPatientNotFound) {
			t.Errorf("Activate() error = %v, want ErrPatientNotFound", err)
		}
	})
}
