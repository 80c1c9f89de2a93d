package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/service/finance"
)

type TransactionHandler struct {
	svc finance.Service
}

func NewTransactionHandler(svc finance.Service) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

func mapFinanceError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, finance.ErrTransactionNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, finance.ErrAlreadyPaid):
		return conflict(c, err.Error())
	default:
		return fallback(c, err)
	}
}

// POST /transactions
func (h *TransactionHandler) Create(c fiber.Ctx) error {
	var req finance.CreateTransactionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	t, err := h.svc.Create(c.Context(), req)
	if err != nil {
		return mapFinanceError(c, err)
	}
	return created(c, t)
}

// GET /transactions?type=Receber|Pagar
func (h *TransactionHandler) List(c fiber.Ctx) error {
	var typ *model.TransactionType
	switch t := model.TransactionType(c.Query("type")); t {
	case "":
	case model.Receivable, model.Payable:
		typ = &t
	default:
		return badRequest(c, "type must be Receber or Pagar")
	}

	rows, err := h.svc.List(c.Context(), typ)
	if err != nil {
		return mapFinanceError(c, err)
	}
	return ok(c, rows)
}

// GET /transactions/summary
func (h *TransactionHandler) Summary(c fiber.Ctx) error {
	s, err := h.svc.Summary(c.Context())
	if err != nil {
		return mapFinanceError(c, err)
	}
	return ok(c, s)
}

// PATCH /transactions/:id/settle
func (h *TransactionHandler) Settle(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var body struct {
		PaymentMethod *string `json:"payment_method"`
	}
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&body); err != nil {
			return badRequest(c, "invalid request body")
		}
	}

	t, err := h.svc.Settle(c.Context(), id, body.PaymentMethod)
	if err != nil {
		return mapFinanceError(c, err)
	}
	return ok(c, t)
}

// DELETE /transactions/:id
func (h *TransactionHandler) Delete(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return mapFinanceError(c, err)
	}
	return noContent(c)
}
