package handler

import (
	"bytes"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/service/calendar"
)

type CalendarHandler struct {
	svc calendar.Service
	now func() time.Time
}

func NewCalendarHandler(svc calendar.Service) *CalendarHandler {
	return &CalendarHandler{svc: svc, now: time.Now}
}

type calendarResponse struct {
	From   time.Time        `json:"from"`
	To     time.Time        `json:"to"`
	Events []calendar.Event `json:"events"`
}

func mapCalendarError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, calendar.ErrInvalidWindow), errors.Is(err, calendar.ErrWindowTooLarge):
		return badRequest(c, err.Error())
	default:
		return fallback(c, err)
	}
}

// query reads ?from=&to= (to is exclusive) plus the optional staff_id,
// service_type and patient_id filters. With neither date given the default
// rolling window is used. Every error it returns is the client's.
func (h *CalendarHandler) query(c fiber.Ctx) (calendar.Window, calendar.Filter, error) {
	loc := h.svc.Location()

	from, hasFrom, err := dateQuery(c, "from", loc)
	if err != nil {
		return calendar.Window{}, calendar.Filter{}, err
	}
	to, hasTo, err := dateQuery(c, "to", loc)
	if err != nil {
		return calendar.Window{}, calendar.Filter{}, err
	}

	var w calendar.Window
	switch {
	case !hasFrom && !hasTo:
		w = h.svc.DefaultWindow()
	case hasFrom && hasTo:
		if w, err = h.svc.Window(from, to); err != nil {
			return calendar.Window{}, calendar.Filter{}, err
		}
	default:
		return calendar.Window{}, calendar.Filter{}, errors.New("from and to must be given together")
	}

	f := calendar.Filter{ServiceType: c.Query("service_type")}
	if f.StaffID, err = optionalUUIDQuery(c, "staff_id"); err != nil {
		return calendar.Window{}, calendar.Filter{}, err
	}
	if f.PatientID, err = optionalUUIDQuery(c, "patient_id"); err != nil {
		return calendar.Window{}, calendar.Filter{}, err
	}
	return w, f, nil
}

// GET /calendar
func (h *CalendarHandler) Events(c fiber.Ctx) error {
	w, f, err := h.query(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	events, err := h.svc.Events(c.Context(), w, f)
	if err != nil {
		return mapCalendarError(c, err)
	}
	if events == nil {
		events = []calendar.Event{}
	}
	return ok(c, calendarResponse{From: w.Start, To: w.End, Events: events})
}

// GET /calendar.ics
func (h *CalendarHandler) ICS(c fiber.Ctx) error {
	w, f, err := h.query(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	events, err := h.svc.Events(c.Context(), w, f)
	if err != nil {
		return mapCalendarError(c, err)
	}

	var buf bytes.Buffer
	if err := calendar.WriteICS(&buf, events, h.now()); err != nil {
		return internalError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="vitum.ics"`)
	return c.Send(buf.Bytes())
}
