package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	pasetotoken "github.com/Alijeyrad/vitum_backend/pkg/paseto"
	"github.com/Alijeyrad/vitum_backend/pkg/reqctx"
)

const LocalClaims = "claims"

// AuthRequired accepts a Bearer PASETO access token. Sessions are only
// checked on refresh, so a revoked session stays usable until its access
// token expires.
func AuthRequired(mgr *pasetotoken.Manager) fiber.Handler {
	return func(c fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		if h == "" {
			return unauthorized(c)
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c)
		}

		claims, err := mgr.VerifyAs(strings.TrimSpace(parts[1]), pasetotoken.TokenTypeAccess)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(LocalClaims, claims)
		c.SetContext(reqctx.WithIdentity(c.Context(), reqctx.Identity{
			UserID:    claims.UserID,
			SessionID: claims.SessionID,
		}))
		return c.Next()
	}
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}
