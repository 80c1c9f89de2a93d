package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/service/class"
)

type ClassHandler struct {
	svc class.Service
}

func NewClassHandler(svc class.Service) *ClassHandler {
	return &ClassHandler{svc: svc}
}

// classView adds the roster size, which list screens show instead of the
// full roster.
type classView struct {
	model.ClassDefinition
	EnrolledCount int `json:"enrolled_count"`
}

func newClassView(c model.ClassDefinition) classView {
	return classView{ClassDefinition: c, EnrolledCount: len(c.Enrollments)}
}

func mapClassError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, class.ErrClassNotFound), errors.Is(err, class.ErrNotEnrolled):
		return notFound(c, err.Error())
	case errors.Is(err, class.ErrAlreadyEnrolled), errors.Is(err, class.ErrClassFull):
		return conflict(c, err.Error())
	case errors.Is(err, class.ErrClassInactive),
		errors.Is(err, class.ErrUnknownPatient),
		errors.Is(err, class.ErrUnknownStaff):
		return unprocessable(c, err.Error())
	default:
		return fallback(c, err)
	}
}

// POST /classes
func (h *ClassHandler) Create(c fiber.Ctx) error {
	var req class.CreateClassRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cl, err := h.svc.Create(c.Context(), req)
	if err != nil {
		return mapClassError(c, err)
	}
	return created(c, newClassView(*cl))
}

// GET /classes?active_only=
func (h *ClassHandler) List(c fiber.Ctx) error {
	classes, err := h.svc.List(c.Context(), boolQuery(c, "active_only", false))
	if err != nil {
		return mapClassError(c, err)
	}

	views := make([]classView, len(classes))
	for i := range classes {
		views[i] = newClassView(classes[i])
	}
	return ok(c, views)
}

// GET /classes/:id
func (h *ClassHandler) Get(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	cl, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapClassError(c, err)
	}
	return ok(c, newClassView(*cl))
}

// PATCH /classes/:id/deactivate
func (h *ClassHandler) Deactivate(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.svc.Deactivate(c.Context(), id); err != nil {
		return mapClassError(c, err)
	}
	return noContent(c)
}

// DELETE /classes/:id
func (h *ClassHandler) Delete(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return mapClassError(c, err)
	}
	return noContent(c)
}

// GET /classes/:id/enrollments
func (h *ClassHandler) Enrollments(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	roster, err := h.svc.Enrollments(c.Context(), id)
	if err != nil {
		return mapClassError(c, err)
	}
	return ok(c, roster)
}

// POST /classes/:id/enrollments
func (h *ClassHandler) Enroll(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body struct {
		PatientID uuid.UUID `json:"patient_id"`
	}
	if err := c.Bind().JSON(&body); err != nil || body.PatientID == uuid.Nil {
		return badRequest(c, "patient_id is required")
	}

	e, err := h.svc.Enroll(c.Context(), id, body.PatientID)
	if err != nil {
		return mapClassError(c, err)
	}
	return created(c, e)
}

// DELETE /classes/:id/enrollments/:patient_id
func (h *ClassHandler) Unenroll(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	patientID, err := uuidParam(c, "patient_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.svc.Unenroll(c.Context(), id, patientID); err != nil {
		return mapClassError(c, err)
	}
	return noContent(c)
}
