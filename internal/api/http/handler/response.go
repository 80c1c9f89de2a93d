package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/pkg/validation"
)

func ok(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

// okWithWarning reports a successful operation that carries a business-rule
// warning for the user.
func okWithWarning(c fiber.Ctx, data any, warning error) error {
	return c.JSON(fiber.Map{"data": data, "warning": warning.Error()})
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func noContent(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func invalid(c fiber.Ctx, err *validation.Error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validation.ErrInvalid.Error(), "fields": err.Fields})
}

func notFound(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

func conflict(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msg})
}

func unprocessable(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": msg})
}

// partialFailure tells the client a session credit was spent even though the
// request failed, so staff can reconcile by hand.
func partialFailure(c fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":           err.Error(),
		"partial":         true,
		"credit_deducted": true,
	})
}

func internalError(c fiber.Ctx, err error) error {
	slog.ErrorContext(c.Context(), "request failed",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// fallback handles whatever a handler's own error mapping did not recognise.
func fallback(c fiber.Ctx, err error) error {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		return invalid(c, ve)
	case errors.Is(err, validation.ErrInvalid):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}
