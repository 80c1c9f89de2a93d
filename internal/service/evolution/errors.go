package evolution

import "errors"

var (
	ErrEvolutionNotFound = errors.New("clinical evolution not found")
	ErrUnknownPatient    = errors.New("patient not found")
)
