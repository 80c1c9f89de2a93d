package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/vitum_backend/internal/service/auth"
	"github.com/Alijeyrad/vitum_backend/pkg/reqctx"
)

type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrSessionNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrAccountInactive):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrUserNotFound):
		return notFound(c, err.Error())
	default:
		return fallback(c, err)
	}
}

// POST /auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req auth.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	tokens, err := h.svc.Login(c.Context(), req)
	if err != nil {
		return mapAuthError(c, err)
	}
	return ok(c, tokens)
}

// POST /auth/refresh
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind().JSON(&body); err != nil || body.RefreshToken == "" {
		return badRequest(c, "refresh_token is required")
	}

	tokens, err := h.svc.Refresh(c.Context(), body.RefreshToken)
	if err != nil {
		return mapAuthError(c, err)
	}
	return ok(c, tokens)
}

// POST /auth/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	id, found := reqctx.IdentityFromContext(c.Context())
	if !found {
		return mapAuthError(c, auth.ErrInvalidToken)
	}
	if err := h.svc.Logout(c.Context(), id.SessionID); err != nil {
		return mapAuthError(c, err)
	}
	return noContent(c)
}

// GET /auth/me
func (h *AuthHandler) Me(c fiber.Ctx) error {
	id, found := reqctx.IdentityFromContext(c.Context())
	if !found {
		return mapAuthError(c, auth.ErrInvalidToken)
	}
	u, err := h.svc.Me(c.Context(), id.UserID)
	if err != nil {
		return mapAuthError(c, err)
	}
	return ok(c, u)
}
