package ledger

import (
	"errors"
	"fmt"

	"github.com/Alijeyrad/vitum_backend/internal/model"
)

var (
	ErrNotFound         = errors.New("appointment not found")
	ErrNoSuchOccurrence = errors.New("class has no occurrence for this patient on that date")
	ErrAlreadyCompleted = errors.New("class occurrence already completed")
	ErrTerminalStatus   = errors.New("appointment is already completed or cancelled")
	ErrVirtualCancel    = errors.New("a single class occurrence cannot be cancelled; remove the enrollment instead")
	ErrVirtualDelete    = errors.New("a class occurrence that was never completed has nothing to delete")

	// Credit warnings. Completion still succeeds when one of these is reported.
	ErrNoActiveCredit    = errors.New("no active package with remaining sessions; credit not deducted")
	ErrCreditNotDeducted = errors.New("package update failed; credit not deducted")
)

// PartialFailureError reports that one session was deducted from Package but
// the appointment status could not be written. Nothing is rolled back.
type PartialFailureError struct {
	Ref     model.EventRef
	Package model.PatientPackage
	Err     error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("credit deducted from package %s but status of %s was not saved: %v", e.Package.ID, e.Ref, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

// IsPartialFailure reports whether err is or wraps a *PartialFailureError.
func IsPartialFailure(err error) bool {
	var pf *PartialFailureError
	return errors.As(err, &pf)
}
