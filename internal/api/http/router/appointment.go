package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/api/http/handler"
)

// Appointment routes take an event reference, so virtual class occurrences
// can be completed before they exist as rows.
func (r *Router) registerAppointmentRoutes(api fiber.Router, h *handler.AppointmentHandler) {
	appts := api.Group("/appointments")
	appts.Post("/", h.Book)

	a := appts.Group("/:ref")
	a.Get("/", h.Get)
	a.Patch("/complete", h.Complete)
	a.Patch("/cancel", h.Cancel)
	a.Delete("/", h.Delete)
}
