package calendar

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Alijeyrad/vitum_backend/internal/model"
)

const deletedPatientLabel = "Paciente excluído"

// Event is one entry of the merged calendar: either a stored appointment or a
// computed class occurrence (Virtual=true) that has no row yet.
type Event struct {
	Key          string                  `json:"key"`
	Title        string                  `json:"title"`
	Start        time.Time               `json:"start"`
	End          time.Time               `json:"end"`
	Status       model.AppointmentStatus `json:"status"`
	Virtual      bool                    `json:"virtual"`
	IsClassEvent bool                    `json:"is_class_event"`
	PatientID    uuid.UUID               `json:"patient_id"`
	PatientName  string                  `json:"patient_name,omitempty"`
	StaffID      *uuid.UUID              `json:"staff_id,omitempty"`
	StaffName    string                  `json:"staff_name,omitempty"`
	ClassID      *uuid.UUID              `json:"class_id,omitempty"`
	Description  string                  `json:"description"`
	ServiceType  string                  `json:"service_type"`
}

// Ref parses the event key back into a reference.
func (e Event) Ref(loc *time.Location) (model.EventRef, error) {
	return model.ParseEventRef(e.Key, loc)
}

// Window is a half-open range [Start, End) of whole days in the clinic timezone.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow truncates both ends to midnight in loc.
func NewWindow(start, end time.Time, loc *time.Location) Window {
	return Window{Start: midnight(start, loc), End: midnight(end, loc)}
}

// DefaultWindow starts on Sunday of the week containing now and spans that
// week plus the following weeks-1 weeks.
func DefaultWindow(now time.Time, loc *time.Location, weeks int) Window {
	if weeks <= 0 {
		weeks = 5
	}
	today := midnight(now, loc)
	start := today.AddDate(0, 0, -int(today.Weekday()))
	return Window{Start: start, End: start.AddDate(0, 0, 7*weeks)}
}

func (w Window) Valid() bool {
	return w.End.After(w.Start)
}

// Days is the number of calendar days covered.
func (w Window) Days() int {
	n := 0
	for d := w.Start; d.Before(w.End); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

func midnight(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = t.Location()
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Filter narrows a merged event list for display. Zero values match everything.
type Filter struct {
	StaffID     *uuid.UUID
	ServiceType string
	PatientID   *uuid.UUID
}

func (f Filter) IsZero() bool {
	return f.StaffID == nil && f.ServiceType == "" && f.PatientID == nil
}

func (f Filter) Match(e Event) bool {
	if f.StaffID != nil && (e.StaffID == nil || *e.StaffID != *f.StaffID) {
		return false
	}
	if f.ServiceType != "" && e.ServiceType != f.ServiceType {
		return false
	}
	if f.PatientID != nil && e.PatientID != *f.PatientID {
		return false
	}
	return true
}

// Apply returns the events matching f, preserving order. The input is not modified.
func (f Filter) Apply(events []Event) []Event {
	if f.IsZero() {
		return events
	}
	return lo.Filter(events, func(e Event, _ int) bool { return f.Match(e) })
}
