package patient

import "errors"

var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrCPFTaken          = errors.New("a patient with this CPF already exists")
	ErrAnamnesisNotFound = errors.New("no anamnesis recorded for this patient")
)
