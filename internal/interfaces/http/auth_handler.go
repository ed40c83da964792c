package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/registro-api/internal/application/auth"
	"github.com/jhoicas/registro-api/internal/application/dto"
	"github.com/jhoicas/registro-api/internal/domain"
	"github.com/jhoicas/registro-api/pkg/validation"
)

// AuthHandler maneja registro y emisión de tokens.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "username, email, password"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/v1/users/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validation.Struct(&in); fields != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{Code: "VALIDATION", Message: "payload inválido", Fields: fields})
	}
	user, err := h.uc.Register(in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
		case errors.Is(err, domain.ErrUsernameAlreadyExists):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "USERNAME_EXISTS", Message: "el nombre de usuario ya está registrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Token godoc
// @Summary      Emitir token de acceso (OAuth2 password, form-encoded)
// @Tags         users
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "email o nombre de usuario"
// @Param        password  formData  string  true  "password"
// @Success      200  {object}  dto.TokenResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/v1/users/token [post]
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var in dto.TokenRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Username == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username y password son requeridos"})
	}
	out, err := h.uc.Login(in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "credenciales inválidas"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
