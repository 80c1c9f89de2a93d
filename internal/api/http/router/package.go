package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/api/http/handler"
)

// Creation and listing hang off /patients/:id.
func (r *Router) registerPackageRoutes(api fiber.Router, h *handler.PackageHandler) {
	pkgs := api.Group("/packages")
	pkgs.Get("/:id", h.Get)
	pkgs.Patch("/:id/activate", h.Activate)
}
