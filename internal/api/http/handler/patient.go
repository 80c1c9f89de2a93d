package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/service/patient"
)

type PatientHandler struct {
	svc patient.Service
}

func NewPatientHandler(svc patient.Service) *PatientHandler {
	return &PatientHandler{svc: svc}
}

func mapPatientError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, patient.ErrAnamnesisNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, patient.ErrCPFTaken):
		return conflict(c, err.Error())
	default:
		return fallback(c, err)
	}
}

// POST /patients
func (h *PatientHandler) Create(c fiber.Ctx) error {
	var req patient.CreatePatientRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.Create(c.Context(), req)
	if err != nil {
		return mapPatientError(c, err)
	}
	return created(c, p)
}

// GET /patients?search=&include_inactive=
func (h *PatientHandler) List(c fiber.Ctx) error {
	patients, err := h.svc.List(c.Context(), patient.ListPatientsRequest{
		IncludeInactive: boolQuery(c, "include_inactive", false),
		Search:          c.Query("search"),
	})
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, patients)
}

// GET /patients/:id
func (h *PatientHandler) Get(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	p, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, p)
}

// PATCH /patients/:id
func (h *PatientHandler) Update(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req patient.UpdatePatientRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.Update(c.Context(), id, req)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, p)
}

// PATCH /patients/:id/deactivate
func (h *PatientHandler) Deactivate(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.svc.Deactivate(c.Context(), id); err != nil {
		return mapPatientError(c, err)
	}
	return noContent(c)
}

// PATCH /patients/:id/activate
func (h *PatientHandler) Activate(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.svc.Activate(c.Context(), id); err != nil {
		return mapPatientError(c, err)
	}
	return noContent(c)
}

// GET /patients/:id/anamnesis
func (h *PatientHandler) Anamnesis(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	a, err := h.svc.Anamnesis(c.Context(), id)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, a)
}

// PUT /patients/:id/anamnesis
func (h *PatientHandler) UpdateAnamnesis(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req patient.UpdateAnamnesisRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	a, err := h.svc.UpdateAnamnesis(c.Context(), id, req)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, a)
}

// DELETE /patients/:id
func (h *PatientHandler) Delete(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return mapPatientError(c, err)
	}
	return noContent(c)
}
