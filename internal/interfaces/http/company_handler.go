package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/registro-api/internal/application/dto"
	"github.com/jhoicas/registro-api/internal/application/usecase"
	"github.com/jhoicas/registro-api/internal/domain"
	"github.com/jhoicas/registro-api/pkg/validation"
)

// CompanyHandler maneja el perfil de empresa del usuario autenticado.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler de empresas.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create godoc
// @Summary      Crear la empresa propia (solo admin)
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CompanyPayload  true  "perfil completo con colecciones hijas"
// @Success      201  {object}  dto.CompanyResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ValidationErrorResponse
// @Router       /api/v1/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CompanyPayload
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validation.Struct(&in); fields != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{Code: "VALIDATION", Message: "payload inválido", Fields: fields})
	}
	out, err := h.uc.Create(c.Context(), GetCurrentUser(c), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "se requiere rol de administrador"})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el usuario ya tiene una empresa"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha de nacimiento inválida, formato YYYY-MM-DD"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetMine godoc
// @Summary      Empresa del usuario autenticado
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/companies/my [get]
func (h *CompanyHandler) GetMine(c *fiber.Ctx) error {
	out, err := h.uc.GetMine(GetCurrentUser(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el usuario no tiene empresa"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ReplaceMine godoc
// @Summary      Reemplazar la empresa propia (escalares y colecciones completas)
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CompanyPayload  true  "perfil completo; las colecciones hijas sustituyen a las existentes"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ValidationErrorResponse
// @Router       /api/v1/companies/my [put]
func (h *CompanyHandler) ReplaceMine(c *fiber.Ctx) error {
	var in dto.CompanyPayload
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validation.Struct(&in); fields != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{Code: "VALIDATION", Message: "payload inválido", Fields: fields})
	}
	out, err := h.uc.ReplaceMine(c.Context(), GetCurrentUser(c), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el usuario no tiene empresa"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha de nacimiento inválida, formato YYYY-MM-DD"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
