package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Danbaba1/Inventory-Management-sub001/internal/application/dto"
	"github.com/Danbaba1/Inventory-Management-sub001/pkg/jwt"
)

// Locals keys para UserID y BusinessID en Fiber.
const (
	LocalUserID     = "user_id"
	LocalBusinessID = "business_id"
)

// AuthMiddleware valida el Bearer Token JWT y extrae UserID y BusinessID a c.Locals.
// Es la frontera de autenticación: los casos de uso reciben el actor ya validado.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, businessID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalBusinessID, businessID)
		return c.Next()
	}
}

// BusinessScopeMiddleware verifica que el :businessId de la ruta coincida con
// el alcance del token. Es la frontera de autorización por negocio.
func BusinessScopeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		param := c.Params("businessId")
		if param != "" && param != GetBusinessID(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "FORBIDDEN", Message: "acceso denegado al negocio"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetBusinessID devuelve el BusinessID del contexto (después del middleware de auth).
func GetBusinessID(c *fiber.Ctx) string {
	v := c.Locals(LocalBusinessID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
