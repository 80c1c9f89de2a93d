package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/api/http/handler"
	"github.com/Alijeyrad/vitum_backend/internal/api/http/middleware"
)

func (r *Router) registerAuthRoutes(g fiber.Router, h *handler.AuthHandler) {
	g.Post("/login", h.Login)
	g.Post("/refresh", h.Refresh)

	authed := middleware.AuthRequired(r.p.Paseto)
	g.Post("/logout", authed, h.Logout)
	g.Get("/me", authed, h.Me)
}
