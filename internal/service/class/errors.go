package class

import "errors"

var (
	ErrClassNotFound   = errors.New("class not found")
	ErrClassInactive   = errors.New("class is inactive")
	ErrClassFull       = errors.New("class is at full capacity")
	ErrAlreadyEnrolled = errors.New("patient is already enrolled in this class")
	ErrNotEnrolled     = errors.New("patient is not enrolled in this class")
	ErrUnknownPatient  = errors.New("patient not found")
	ErrUnknownStaff    = errors.New("staff member not found")
)
