package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/service/packages"
)

type PackageHandler struct {
	svc packages.Service
}

func NewPackageHandler(svc packages.Service) *PackageHandler {
	return &PackageHandler{svc: svc}
}

func mapPackageError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, packages.ErrPackageNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, packages.ErrNotAwaitingPayment):
		return conflict(c, err.Error())
	case errors.Is(err, packages.ErrUnknownPatient):
		return unprocessable(c, err.Error())
	default:
		return fallback(c, err)
	}
}

// POST /patients/:id/packages
func (h *PackageHandler) Create(c fiber.Ctx) error {
	patientID, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req packages.CreatePackageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.PatientID = patientID

	p, err := h.svc.Create(c.Context(), req)
	if err != nil {
		return mapPackageError(c, err)
	}
	return created(c, p)
}

// GET /patients/:id/packages
func (h *PackageHandler) ListForPatient(c fiber.Ctx) error {
	patientID, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	list, err := h.svc.ListForPatient(c.Context(), patientID)
	if err != nil {
		return mapPackageError(c, err)
	}
	return ok(c, list)
}

// GET /packages/:id
func (h *PackageHandler) Get(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	p, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapPackageError(c, err)
	}
	return ok(c, p)
}

// PATCH /packages/:id/activate
func (h *PackageHandler) Activate(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	p, err := h.svc.Activate(c.Context(), id)
	if err != nil {
		return mapPackageError(c, err)
	}
	return ok(c, p)
}
