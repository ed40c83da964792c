package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/registro-api/internal/application/dto"
	"github.com/jhoicas/registro-api/internal/domain"
	"github.com/jhoicas/registro-api/internal/domain/entity"
)

// LocalUser clave de Locals con el principal resuelto.
const LocalUser = "current_user"

// PrincipalResolver resuelve el usuario dueño de un bearer token válido
// (decodifica, busca por subject y chequea la versión de token contra la base).
type PrincipalResolver interface {
	CurrentUser(token string) (*entity.User, error)
}

// AuthMiddleware valida el header Authorization, resuelve el principal contra
// el store y lo deja en c.Locals. Un rechazo de autenticación (token ausente,
// inválido, expirado, usuario inexistente o versión rotada) responde 401; un
// fallo inesperado del store responde 500.
func AuthMiddleware(resolver PrincipalResolver) fiber.Handler {
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
		user, err := resolver.CurrentUser(tokenString)
		if err != nil {
			// Solo los rechazos de autenticación son 401; un fallo del store no
			// debe disfrazarse de token inválido.
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo resolver el usuario"})
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// RequireAdmin autoriza solo a administradores (después de AuthMiddleware).
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "se requiere autenticación"})
		}
		if !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "se requiere rol de administrador"})
		}
		return c.Next()
	}
}

// GetCurrentUser devuelve el principal del contexto (después del middleware de auth).
func GetCurrentUser(c *fiber.Ctx) *entity.User {
	v := c.Locals(LocalUser)
	if v == nil {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
