package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/service/dashboard"
)

type DashboardHandler struct {
	svc dashboard.Service
}

func NewDashboardHandler(svc dashboard.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GET /dashboard
func (h *DashboardHandler) Stats(c fiber.Ctx) error {
	stats, err := h.svc.Stats(c.Context())
	if err != nil {
		return fallback(c, err)
	}
	return ok(c, stats)
}
