package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/service/staff"
)

type StaffHandler struct {
	svc staff.Service
}

func NewStaffHandler(svc staff.Service) *StaffHandler {
	return &StaffHandler{svc: svc}
}

func mapStaffError(c fiber.Ctx, err error) error {
	if errors.Is(err, staff.ErrStaffNotFound) {
		return notFound(c, err.Error())
	}
	return fallback(c, err)
}

// POST /staff
func (h *StaffHandler) Create(c fiber.Ctx) error {
	var req staff.CreateStaffRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	m, err := h.svc.Create(c.Context(), req)
	if err != nil {
		return mapStaffError(c, err)
	}
	return created(c, m)
}

// GET /staff?include_inactive=
func (h *StaffHandler) List(c fiber.Ctx) error {
	members, err := h.svc.List(c.Context(), boolQuery(c, "include_inactive", false))
	if err != nil {
		return mapStaffError(c, err)
	}
	return ok(c, members)
}

// GET /staff/:id
func (h *StaffHandler) Get(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	m, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapStaffError(c, err)
	}
	return ok(c, m)
}

// PATCH /staff/:id/deactivate
func (h *StaffHandler) Deactivate(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.svc.Deactivate(c.Context(), id); err != nil {
		return mapStaffError(c, err)
	}
	return noContent(c)
}

// DELETE /staff/:id
func (h *StaffHandler) Delete(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return mapStaffError(c, err)
	}
	return noContent(c)
}
