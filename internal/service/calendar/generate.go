package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/Alijeyrad/vitum_backend/internal/model"
)

// Options tune Generate. A nil Location means the window's own location.
type Options struct {
	Location *time.Location

	// DedupeMaterialized drops a class occurrence from the output when a
	// materialized appointment for the same (class, patient, date) is in the
	// appointment set. Off, both entries are returned.
	DedupeMaterialized bool
}

// rrule weekdays indexed by time.Weekday (0=Sunday).
var rruleWeekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// Generate merges persisted appointments with the weekly class occurrences
// that fall in w. It does no I/O; callers fetch classes (with enrollments
// loaded) and appointments first.
func Generate(w Window, classes []model.ClassDefinition, appointments []model.Appointment, opts Options) ([]Event, error) {
	if !w.Valid() {
		return nil, ErrInvalidWindow
	}
	loc := opts.Location
	if loc == nil {
		loc = w.Start.Location()
	}

	events := make([]Event, 0, len(appointments))
	materialized := make(map[string]struct{})
	for _, a := range appointments {
		if !a.StartTime.Before(w.End) || !a.EndTime.After(w.Start) {
			continue
		}
		events = append(events, FromAppointment(a))
		if a.IsClassEvent && a.ClassID != nil {
			materialized[model.VirtualRef(*a.ClassID, a.PatientID, a.StartTime.In(loc)).Key()] = struct{}{}
		}
	}

	for _, c := range classes {
		if !c.IsActive || len(c.Enrollments) == 0 {
			continue
		}
		starts, err := occurrenceStarts(c, w, loc)
		if err != nil {
			return nil, fmt.Errorf("expand class %s: %w", c.ID, err)
		}
		for _, start := range starts {
			for _, en := range c.Enrollments {
				ev := classEvent(c, en, start, loc)
				if opts.DedupeMaterialized {
					if _, ok := materialized[ev.Key]; ok {
						continue
					}
				}
				events = append(events, ev)
			}
		}
	}

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].Key < events[j].Key
	})
	return events, nil
}

// occurrenceStarts lists the start instants of c inside w, one per matching
// weekday date. The start keeps the class wall-clock time on every date.
func occurrenceStarts(c model.ClassDefinition, w Window, loc *time.Location) ([]time.Time, error) {
	if c.DayOfWeek < time.Sunday || c.DayOfWeek > time.Saturday {
		return nil, fmt.Errorf("day_of_week %d out of range", c.DayOfWeek)
	}

	dtstart := c.StartTime.On(w.Start, loc)
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rruleWeekdays[c.DayOfWeek]},
		Dtstart:   dtstart,
	})
	if err != nil {
		return nil, err
	}

	var out []time.Time
	for _, t := range r.Between(w.Start, w.End, true) {
		start := c.StartTime.On(t, loc)
		if start.Before(w.Start) || !start.Before(w.End) {
			continue
		}
		out = append(out, start)
	}
	return out, nil
}

func classEvent(c model.ClassDefinition, en model.ClassEnrollment, start time.Time, loc *time.Location) Event {
	classID := c.ID
	ev := Event{
		Key:          model.VirtualRef(c.ID, en.PatientID, start.In(loc)).Key(),
		Start:        start,
		End:          start.Add(c.Duration()),
		Status:       model.StatusScheduled,
		Virtual:      true,
		IsClassEvent: true,
		PatientID:    en.PatientID,
		StaffID:      c.StaffID,
		ClassID:      &classID,
		Description:  c.Name,
		ServiceType:  c.ServiceType,
	}
	if en.Patient != nil {
		ev.PatientName = en.Patient.FullName
	}
	if c.Staff != nil {
		ev.StaffName = c.Staff.FullName
	}
	ev.Title = title(ev.PatientName, ev.Description)
	return ev
}

// FromAppointment renders a stored row as a calendar event.
func FromAppointment(a model.Appointment) Event {
	ev := Event{
		Key:          a.ID.String(),
		Start:        a.StartTime,
		End:          a.EndTime,
		Status:       a.Status,
		IsClassEvent: a.IsClassEvent,
		PatientID:    a.PatientID,
		StaffID:      a.StaffID,
		ClassID:      a.ClassID,
		Description:  a.Description,
		ServiceType:  a.ServiceType,
	}
	if a.Patient != nil {
		ev.PatientName = a.Patient.FullName
	}
	ev.Title = title(ev.PatientName, ev.Description)
	return ev
}

func title(patient, description string) string {
	if patient == "" {
		patient = deletedPatientLabel
	}
	if description == "" {
		return patient
	}
	return patient + " - " + description
}

// Occurrence rebuilds the class occurrence for patientID on date. It reports
// false when c is inactive, the patient is not enrolled, or date is not on the
// class weekday.
func Occurrence(c model.ClassDefinition, patientID uuid.UUID, date time.Time, loc *time.Location) (Event, bool) {
	if !c.IsActive {
		return Event{}, false
	}
	if loc == nil {
		loc = date.Location()
	}
	day := midnight(date, loc)
	if day.Weekday() != c.DayOfWeek {
		return Event{}, false
	}
	for _, en := range c.Enrollments {
		if en.PatientID == patientID {
			return classEvent(c, en, c.StartTime.On(day, loc), loc), true
		}
	}
	return Event{}, false
}

// Appointment converts a class occurrence into the row that materializes it.
func (e Event) Appointment(status model.AppointmentStatus) model.Appointment {
	return model.Appointment{
		PatientID:    e.PatientID,
		StaffID:      e.StaffID,
		ClassID:      e.ClassID,
		StartTime:    e.Start,
		EndTime:      e.End,
		Description:  e.Description,
		Status:       status,
		ServiceType:  e.ServiceType,
		IsClassEvent: e.IsClassEvent,
	}
}
