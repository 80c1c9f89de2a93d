package appointment

import "errors"

var (
	ErrNotFound       = errors.New("appointment not found")
	ErrUnknownPatient = errors.New("patient not found")
	ErrUnknownStaff   = errors.New("staff member not found")
)
