package handler

import (
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/service/appointment"
	"github.com/Alijeyrad/vitum_backend/internal/service/ledger"
)

// AppointmentHandler serves both stored appointments and virtual class
// occurrences. The :ref path segment is either an appointment id or a
// class occurrence key as returned by GET /calendar.
type AppointmentHandler struct {
	svc    appointment.Service
	ledger ledger.Service
	loc    *time.Location
}

func NewAppointmentHandler(svc appointment.Service, l ledger.Service, loc *time.Location) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, ledger: l, loc: loc}
}

func mapAppointmentError(c fiber.Ctx, err error) error {
	var pf *ledger.PartialFailureError
	switch {
	case errors.As(err, &pf):
		slog.ErrorContext(c.Context(), "credit deducted without status change",
			"ref", pf.Ref.Key(),
			"package_id", pf.Package.ID,
			"error", pf.Err,
		)
		return partialFailure(c, err)
	case errors.Is(err, model.ErrInvalidRef):
		return badRequest(c, err.Error())
	case errors.Is(err, appointment.ErrNotFound),
		errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, ledger.ErrNoSuchOccurrence):
		return notFound(c, err.Error())
	case errors.Is(err, appointment.ErrUnknownPatient),
		errors.Is(err, appointment.ErrUnknownStaff):
		return unprocessable(c, err.Error())
	case errors.Is(err, ledger.ErrAlreadyCompleted),
		errors.Is(err, ledger.ErrTerminalStatus):
		return conflict(c, err.Error())
	case errors.Is(err, ledger.ErrVirtualCancel),
		errors.Is(err, ledger.ErrVirtualDelete):
		return unprocessable(c, err.Error())
	default:
		return fallback(c, err)
	}
}

func (h *AppointmentHandler) ref(c fiber.Ctx) (model.EventRef, error) {
	raw, err := url.PathUnescape(c.Params("ref"))
	if err != nil {
		return model.EventRef{}, model.ErrInvalidRef
	}
	return model.ParseEventRef(raw, h.loc)
}

// POST /appointments
func (h *AppointmentHandler) Book(c fiber.Ctx) error {
	var req appointment.BookRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	a, err := h.svc.Book(c.Context(), req)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return created(c, a)
}

// GET /appointments/:ref
func (h *AppointmentHandler) Get(c fiber.Ctx) error {
	ref, err := h.ref(c)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	if ref.IsVirtual() {
		return notFound(c, "class occurrence has not been materialized")
	}

	a, err := h.svc.Get(c.Context(), ref.AppointmentID)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, a)
}

// PATCH /appointments/:ref/complete
func (h *AppointmentHandler) Complete(c fiber.Ctx) error {
	ref, err := h.ref(c)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	out, err := h.ledger.Complete(c.Context(), ref)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	if out.CreditWarning != nil {
		return okWithWarning(c, out, out.CreditWarning)
	}
	return ok(c, out)
}

// PATCH /appointments/:ref/cancel
func (h *AppointmentHandler) Cancel(c fiber.Ctx) error {
	ref, err := h.ref(c)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	a, err := h.ledger.Cancel(c.Context(), ref)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, a)
}

// DELETE /appointments/:ref
func (h *AppointmentHandler) Delete(c fiber.Ctx) error {
	ref, err := h.ref(c)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	if err := h.ledger.Delete(c.Context(), ref); err != nil {
		return mapAppointmentError(c, err)
	}
	return noContent(c)
}
