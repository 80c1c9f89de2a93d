// Package ledger applies appointment status transitions and the session
// credit they consume.
//
// Completion issues two independent writes: the package decrement, then the
// appointment status. There is no shared transaction. When the second write
// fails after the first succeeded the caller receives a *PartialFailureError
// and must reconcile by hand; nothing is retried or rolled back.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/service/calendar"
	"github.com/Alijeyrad/vitum_backend/internal/store"
)

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Repository interface {
	GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	FindMaterialized(ctx context.Context, classID, patientID uuid.UUID, dayStart, dayEnd time.Time) (*model.Appointment, error)
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	GetClass(ctx context.Context, id uuid.UUID) (*model.ClassDefinition, error)

	TopActivePackage(ctx context.Context, patientID uuid.UUID) (*model.PatientPackage, error)
	UpdatePackageBalance(ctx context.Context, id uuid.UUID, remaining int, status model.PackageStatus) error
}

// Invalidator is told after every successful write.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Outcome describes a completed appointment. CreditWarning is set when the
// completion went through without a session being deducted.
type Outcome struct {
	Appointment    model.Appointment     `json:"appointment"`
	Package        *model.PatientPackage `json:"package,omitempty"`
	CreditDeducted bool                  `json:"credit_deducted"`
	CreditWarning  error                 `json:"-"`
}

type Service interface {
	Complete(ctx context.Context, ref model.EventRef) (*Outcome, error)
	Cancel(ctx context.Context, ref model.EventRef) (*model.Appointment, error)
	Delete(ctx context.Context, ref model.EventRef) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type ledgerService struct {
	repo    Repository
	loc     *time.Location
	inv     Invalidator
	metrics metrics
}

func New(repo Repository, loc *time.Location, inv Invalidator) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &ledgerService{repo: repo, loc: loc, inv: inv, metrics: newMetrics()}
}

func (s *ledgerService) Complete(ctx context.Context, ref model.EventRef) (*Outcome, error) {
	target, err := s.resolve(ctx, ref)
	if err != nil {
		s.metrics.record(ctx, "complete", "rejected", ref.IsVirtual())
		return nil, err
	}

	cr, err := s.consumeCredit(ctx, target.PatientID)
	if err != nil {
		s.metrics.record(ctx, "complete", "error", ref.IsVirtual())
		return nil, err
	}
	pkg := cr.pkg
	out := &Outcome{Package: pkg, CreditDeducted: pkg != nil, CreditWarning: cr.warning}

	if ref.IsVirtual() {
		row := *target
		row.Status = model.StatusCompleted
		err = s.repo.CreateAppointment(ctx, &row)
		target = &row
	} else {
		err = s.repo.UpdateAppointmentStatus(ctx, target.ID, model.StatusCompleted)
		target.Status = model.StatusCompleted
	}
	if err != nil {
		if out.CreditDeducted {
			s.metrics.record(ctx, "complete", "partial_failure", ref.IsVirtual())
			slog.ErrorContext(ctx, "credit deducted but appointment status not saved",
				"ref", ref.Key(),
				"patient_id", target.PatientID,
				"package_id", pkg.ID,
				"sessions_remaining", pkg.SessionsRemaining,
				"error", err,
			)
			return nil, &PartialFailureError{Ref: ref, Package: *pkg, Err: err}
		}
		s.metrics.record(ctx, "complete", "error", ref.IsVirtual())
		return nil, fmt.Errorf("save appointment status: %w", err)
	}
	out.Appointment = *target
	s.invalidate(ctx)

	if out.CreditWarning != nil {
		s.metrics.record(ctx, "complete", "warning", ref.IsVirtual())
		slog.WarnContext(ctx, "appointment completed without credit deduction",
			"ref", ref.Key(),
			"appointment_id", target.ID,
			"patient_id", target.PatientID,
			"warning", out.CreditWarning,
		)
	} else {
		s.metrics.record(ctx, "complete", "ok", ref.IsVirtual())
		slog.InfoContext(ctx, "appointment completed",
			"ref", ref.Key(),
			"appointment_id", target.ID,
			"patient_id", target.PatientID,
			"package_id", pkg.ID,
			"sessions_remaining", pkg.SessionsRemaining,
		)
	}
	return out, nil
}

// resolve returns the appointment to complete. For a virtual ref the returned
// row is unsaved and is rebuilt from the class definition.
func (s *ledgerService) resolve(ctx context.Context, ref model.EventRef) (*model.Appointment, error) {
	if !ref.IsVirtual() {
		appt, err := s.repo.GetAppointment(ctx, ref.AppointmentID)
		if store.IsNotFound(err) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load appointment: %w", err)
		}
		if appt.Status.Terminal() {
			return nil, ErrTerminalStatus
		}
		return appt, nil
	}

	class, err := s.repo.GetClass(ctx, ref.ClassID)
	if store.IsNotFound(err) {
		return nil, ErrNoSuchOccurrence
	}
	if err != nil {
		return nil, fmt.Errorf("load class: %w", err)
	}
	occ, ok := calendar.Occurrence(*class, ref.PatientID, ref.Date, s.loc)
	if !ok {
		return nil, ErrNoSuchOccurrence
	}

	dayStart := time.Date(ref.Date.Year(), ref.Date.Month(), ref.Date.Day(), 0, 0, 0, 0, s.loc)
	_, err = s.repo.FindMaterialized(ctx, ref.ClassID, ref.PatientID, dayStart, dayStart.AddDate(0, 0, 1))
	switch {
	case err == nil:
		return nil, ErrAlreadyCompleted
	case !store.IsNotFound(err):
		return nil, fmt.Errorf("check materialized occurrence: %w", err)
	}

	row := occ.Appointment(model.StatusScheduled)
	return &row, nil
}

// credit is the result of a deduction attempt: the updated package, or the
// warning explaining why nothing was deducted.
type credit struct {
	pkg     *model.PatientPackage
	warning error
}

// consumeCredit takes one session from the patient's fullest active package.
// A lookup failure is returned as an error before anything is written; a
// missing package or a failed update is returned as a warning.
func (s *ledgerService) consumeCredit(ctx context.Context, patientID uuid.UUID) (credit, error) {
	pkg, err := s.repo.TopActivePackage(ctx, patientID)
	if store.IsNotFound(err) {
		return credit{warning: ErrNoActiveCredit}, nil
	}
	if err != nil {
		return credit{}, fmt.Errorf("credit lookup: %w", err)
	}

	remaining, status, ok := pkg.Consume()
	if !ok {
		return credit{warning: ErrNoActiveCredit}, nil
	}
	if err := s.repo.UpdatePackageBalance(ctx, pkg.ID, remaining, status); err != nil {
		return credit{warning: fmt.Errorf("%w: %v", ErrCreditNotDeducted, err)}, nil
	}

	pkg.SessionsRemaining, pkg.Status = remaining, status
	s.metrics.deducted(ctx)
	return credit{pkg: pkg}, nil
}

func (s *ledgerService) Cancel(ctx context.Context, ref model.EventRef) (*model.Appointment, error) {
	if ref.IsVirtual() {
		s.metrics.record(ctx, "cancel", "rejected", true)
		return nil, ErrVirtualCancel
	}

	appt, err := s.resolve(ctx, ref)
	if err != nil {
		s.metrics.record(ctx, "cancel", "rejected", false)
		return nil, err
	}
	if err := s.repo.UpdateAppointmentStatus(ctx, appt.ID, model.StatusCancelled); err != nil {
		s.metrics.record(ctx, "cancel", "error", false)
		if store.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	appt.Status = model.StatusCancelled
	s.invalidate(ctx)

	s.metrics.record(ctx, "cancel", "ok", false)
	slog.InfoContext(ctx, "appointment cancelled", "appointment_id", appt.ID, "patient_id", appt.PatientID)
	return appt, nil
}

func (s *ledgerService) Delete(ctx context.Context, ref model.EventRef) error {
	if ref.IsVirtual() {
		s.metrics.record(ctx, "delete", "rejected", true)
		return ErrVirtualDelete
	}

	if err := s.repo.DeleteAppointment(ctx, ref.AppointmentID); err != nil {
		if store.IsNotFound(err) {
			s.metrics.record(ctx, "delete", "rejected", false)
			return ErrNotFound
		}
		s.metrics.record(ctx, "delete", "error", false)
		return fmt.Errorf("delete appointment: %w", err)
	}
	s.invalidate(ctx)

	s.metrics.record(ctx, "delete", "ok", false)
	slog.InfoContext(ctx, "appointment deleted", "appointment_id", ref.AppointmentID)
	return nil
}

func (s *ledgerService) invalidate(ctx context.Context) {
	if s.inv != nil {
		s.inv.Invalidate(ctx)
	}
}
