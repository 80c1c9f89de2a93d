package calendar

import (
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/Alijeyrad/vitum_backend/internal/model"
)

const icsProductID = "-//Vitum//Agenda da Clinica//PT"

// WriteICS serializes events as an iCalendar feed. Event keys become UIDs so
// a subscriber sees the same occurrence across refreshes.
func WriteICS(w io.Writer, events []Event, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)

	for _, e := range events {
		ve := cal.AddEvent(e.Key + "@vitum")
		ve.SetDtStampTime(stamp)
		ve.SetStartAt(e.Start)
		ve.SetEndAt(e.End)
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.ServiceType != "" {
			ve.AddProperty(ical.ComponentPropertyCategories, e.ServiceType)
		}
		ve.SetStatus(icsStatus(e.Status))
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

func icsStatus(s model.AppointmentStatus) ical.ObjectStatus {
	if s == model.StatusCancelled {
		return ical.ObjectStatusCancelled
	}
	return ical.ObjectStatusConfirmed
}
