package middleware

import (
	"context"
	"errors"
	"strings"

	"estoque/internal/services"
	"estoque/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set for authenticated requests.
const (
	LocalUserID = "user_id"
	LocalClaims = "claims"
)

// TokenValidator is the part of the auth service the middleware needs.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*services.Claims, error)
}

// AuthRequired is a Fiber middleware to check for a valid, non-revoked bearer token.
func AuthRequired(auth TokenValidator, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Token de autenticação não informado")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "") {
			return unauthorized(c, "Formato do cabeçalho Authorization deve ser 'Bearer <token>'")
		}

		claims, err := auth.ValidateToken(c.UserContext(), parts[1])
		if err != nil {
			if !errors.Is(err, services.ErrInvalidToken) && !errors.Is(err, services.ErrTokenRevoked) {
				log.Error().Err(err).Msg("token validation failed")
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"message": "Erro ao validar token",
				})
			}
			log.Debug().Err(err).Msg("rejected bearer token")
			return unauthorized(c, "Token inválido ou expirado")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// ClaimsFrom returns the claims stored by AuthRequired.
func ClaimsFrom(c *fiber.Ctx) (*services.Claims, bool) {
	claims, ok := c.Locals(LocalClaims).(*services.Claims)
	return claims, ok && claims != nil
}
