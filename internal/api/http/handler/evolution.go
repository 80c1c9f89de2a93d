package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/service/evolution"
)

type EvolutionHandler struct {
	svc evolution.Service
}

func NewEvolutionHandler(svc evolution.Service) *EvolutionHandler {
	return &EvolutionHandler{svc: svc}
}

func mapEvolutionError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, evolution.ErrEvolutionNotFound),
		errors.Is(err, evolution.ErrUnknownPatient):
		return notFound(c, err.Error())
	default:
		return fallback(c, err)
	}
}

// GET /patients/:id/evolutions
func (h *EvolutionHandler) ListForPatient(c fiber.Ctx) error {
	patientID, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	list, err := h.svc.ListForPatient(c.Context(), patientID)
	if err != nil {
		return mapEvolutionError(c, err)
	}
	return ok(c, list)
}

// POST /patients/:id/evolutions
func (h *EvolutionHandler) Record(c fiber.Ctx) error {
	patientID, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req evolution.RecordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	e, err := h.svc.Record(c.Context(), patientID, req)
	if err != nil {
		return mapEvolutionError(c, err)
	}
	return created(c, e)
}

// DELETE /evolutions/:id
func (h *EvolutionHandler) Delete(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return mapEvolutionError(c, err)
	}
	return noContent(c)
}
