package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/application/dto"
)

// RateLimiterStore puerto del contador de ventana fija (Redis en producción).
type RateLimiterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
}

// RateLimitMiddleware limita las mutaciones de stock por actor autenticado.
// Si el contador falla, la petición pasa: el rate limiting es protección de
// carga, no una garantía de correctitud (esa vive en la transacción de BD).
func RateLimitMiddleware(store RateLimiterStore, max int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Next()
		}
		n, err := store.Incr(c.UserContext(), "ratelimit:inventory:"+userID)
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter no disponible")
			return c.Next()
		}
		if n > max {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Error: "RATE_LIMITED", Message: "demasiadas peticiones, intente más tarde"})
		}
		return c.Next()
	}
}
