package packages

import "errors"

var (
	ErrPackageNotFound    = errors.New("package not found")
	ErrNotAwaitingPayment = errors.New("package is not awaiting payment")
	ErrUnknownPatient     = errors.New("patient not found")
)
