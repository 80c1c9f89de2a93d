package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/api/http/handler"
)

func (r *Router) registerCalendarRoutes(api fiber.Router, h *handler.CalendarHandler) {
	api.Get("/calendar", h.Events)
	api.Get("/calendar.ics", h.ICS)
}
