package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/api/http/handler"
)

func (r *Router) registerClassRoutes(api fiber.Router, h *handler.ClassHandler) {
	classes := api.Group("/classes")
	classes.Get("/", h.List)
	classes.Post("/", h.Create)

	c := classes.Group("/:id")
	c.Get("/", h.Get)
	c.Patch("/deactivate", h.Deactivate)
	c.Delete("/", h.Delete)

	c.Get("/enrollments", h.Enrollments)
	c.Post("/enrollments", h.Enroll)
	c.Delete("/enrollments/:patient_id", h.Unenroll)
}
