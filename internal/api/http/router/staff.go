package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/api/http/handler"
)

func (r *Router) registerStaffRoutes(api fiber.Router, h *handler.StaffHandler) {
	members := api.Group("/staff")
	members.Get("/", h.List)
	members.Post("/", h.Create)
	members.Get("/:id", h.Get)
	members.Patch("/:id/deactivate", h.Deactivate)
	members.Delete("/:id", h.Delete)
}
