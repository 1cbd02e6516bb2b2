package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Portal-api/internal/application/dto"
	"github.com/jhoicas/Portal-api/internal/application/lifecycle"
	"github.com/jhoicas/Portal-api/internal/domain/entity"
	"github.com/jhoicas/Portal-api/internal/domain/policy"
	"github.com/jhoicas/Portal-api/pkg/jwt"
)

// Locals keys para los claims de la sesión en Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// AuthMiddleware valida el Bearer Token de sesión y deja user_id, email y role en c.Locals.
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
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// accountAuthenticator lo implementa *auth.SessionUseCase.
type accountAuthenticator interface {
	Authenticate(ctx context.Context, userID, email string) (*entity.Account, error)
}

// RequireActiveAccount vuelve a resolver la cuenta de la sesión en cada petición y sustituye
// user_id y role de c.Locals por los almacenados. Cuenta inexistente o no activa: 403.
// Debe usarse DESPUÉS de AuthMiddleware y ANTES de RequirePermission / RequireRole.
func RequireActiveAccount(authn accountAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account, err := authn.Authenticate(c.UserContext(), GetUserID(c), GetEmail(c))
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalUserID, account.ID)
		c.Locals(LocalRole, string(account.Role))
		return c.Next()
	}
}

// RequirePermission exige que el rol de la sesión tenga al menos una de las capacidades.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequirePermission(pol *policy.Policy, capabilities ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if !pol.HasAnyPermission(entity.Role(role), capabilities...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "se requiere alguna de las capacidades: " + strings.Join(capabilities, ", "),
			})
		}
		return c.Next()
	}
}

// RequireRole exige uno de los roles indicados (comparación exacta, sin jerarquía).
func RequireRole(allowed ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if !policy.HasAnyRole(entity.Role(role), allowed...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a este recurso"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetEmail devuelve el email de la sesión.
func GetEmail(c *fiber.Ctx) string { return localString(c, LocalEmail) }

// GetRole devuelve el rol de la sesión.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// actorFrom construye el actor de lifecycle a partir de la sesión.
func actorFrom(c *fiber.Ctx) lifecycle.Actor {
	return lifecycle.Actor{ID: GetUserID(c), Role: entity.Role(GetRole(c))}
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
