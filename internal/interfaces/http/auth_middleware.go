package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cierres-api/internal/application/dto"
	"github.com/jhoicas/Cierres-api/pkg/jwt"
)

// Locals keys para UserID y SucursalID en Fiber.
const (
	LocalUserID     = "user_id"
	LocalSucursalID = "sucursal_id"
)

// AuthMiddleware valida el Bearer Token JWT y extrae UserID y SucursalID a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, sucursalID, _, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalSucursalID, sucursalID)
		return c.Next()
	}
}

// JobMiddleware protege los endpoints de jobs con un token compartido
// (el scheduler externo no tiene identidad de usuario).
func JobMiddleware(jobToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if jobToken == "" || c.Get("X-Job-Token") != jobToken {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_JOB_TOKEN", Message: "token de job inválido"})
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

// GetSucursalID devuelve el SucursalID del contexto (después del middleware de auth).
func GetSucursalID(c *fiber.Ctx) string {
	v := c.Locals(LocalSucursalID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
