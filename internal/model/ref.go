package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	virtualPrefix = "class"
	dateLayout    = "2006-01-02"
)

var ErrInvalidRef = errors.New("invalid event reference")

// RefKind tells a stored appointment apart from a computed class occurrence.
type RefKind int

const (
	RefPersisted RefKind = iota + 1
	RefVirtual
)

// EventRef identifies a calendar event. A persisted ref carries an appointment
// row id; a virtual ref carries the derived (class, patient, date) identity of
// an occurrence that has no row yet.
type EventRef struct {
	Kind          RefKind
	AppointmentID uuid.UUID
	ClassID       uuid.UUID
	PatientID     uuid.UUID
	Date          time.Time // midnight of the occurrence date, clinic timezone
}

func PersistedRef(id uuid.UUID) EventRef {
	return EventRef{Kind: RefPersisted, AppointmentID: id}
}

func VirtualRef(classID, patientID uuid.UUID, date time.Time) EventRef {
	y, m, d := date.Date()
	return EventRef{
		Kind:      RefVirtual,
		ClassID:   classID,
		PatientID: patientID,
		Date:      time.Date(y, m, d, 0, 0, 0, 0, date.Location()),
	}
}

func (r EventRef) IsVirtual() bool { return r.Kind == RefVirtual }

// Key is the stable list key: the appointment id, or
// "class:<class_id>:<patient_id>:<YYYY-MM-DD>" for virtual occurrences.
func (r EventRef) Key() string {
	if r.Kind == RefVirtual {
		return fmt.Sprintf("%s:%s:%s:%s", virtualPrefix, r.ClassID, r.PatientID, r.Date.Format(dateLayout))
	}
	return r.AppointmentID.String()
}

func (r EventRef) String() string { return r.Key() }

// ParseEventRef is the inverse of Key. Dates are interpreted in loc.
func ParseEventRef(s string, loc *time.Location) (EventRef, error) {
	if !strings.HasPrefix(s, virtualPrefix+":") {
		id, err := uuid.Parse(s)
		if err != nil {
			return EventRef{}, fmt.Errorf("%w: %q", ErrInvalidRef, s)
		}
		return PersistedRef(id), nil
	}

	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return EventRef{}, fmt.Errorf("%w: %q", ErrInvalidRef, s)
	}
	classID, err := uuid.Parse(parts[1])
	if err != nil {
		return EventRef{}, fmt.Errorf("%w: class id: %v", ErrInvalidRef, err)
	}
	patientID, err := uuid.Parse(parts[2])
	if err != nil {
		return EventRef{}, fmt.Errorf("%w: patient id: %v", ErrInvalidRef, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	date, err := time.ParseInLocation(dateLayout, parts[3], loc)
	if err != nil {
		return EventRef{}, fmt.Errorf("%w: date: %v", ErrInvalidRef, err)
	}
	return VirtualRef(classID, patientID, date), nil
}
