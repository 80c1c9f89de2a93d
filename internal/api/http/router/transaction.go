package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/api/http/handler"
)

func (r *Router) registerTransactionRoutes(api fiber.Router, h *handler.TransactionHandler) {
	txs := api.Group("/transactions")
	txs.Get("/", h.List)
	txs.Post("/", h.Create)
	txs.Get("/summary", h.Summary)
	txs.Patch("/:id/settle", h.Settle)
	txs.Delete("/:id", h.Delete)
}
