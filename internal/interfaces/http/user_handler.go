package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/registro-api/internal/application/dto"
	"github.com/jhoicas/registro-api/internal/application/usecase"
	"github.com/jhoicas/registro-api/internal/domain"
	"github.com/jhoicas/registro-api/pkg/validation"
)

// UserHandler maneja el perfil propio, el avatar y la administración de usuarios.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler inyectando el caso de uso.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Me godoc
// @Summary      Usuario actual
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Profile(GetCurrentUser(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// UpdateMe godoc
// @Summary      Actualizar perfil propio (parcial)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateUserRequest  true  "campos a cambiar; cambiar password invalida tokens anteriores"
// @Success      200  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ValidationErrorResponse
// @Router       /api/v1/users/me [put]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validation.Struct(&in); fields != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{Code: "VALIDATION", Message: "payload inválido", Fields: fields})
	}
	out, err := h.uc.UpdateProfile(GetCurrentUser(c), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
		case errors.Is(err, domain.ErrUsernameAlreadyExists):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "USERNAME_EXISTS", Message: "el nombre de usuario ya está registrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Avatar godoc
// @Summary      Avatar de un usuario (bytes crudos)
// @Tags         users
// @Produce      image/*
// @Param        id  path  int  true  "ID del usuario"
// @Success      200  {string}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/v1/users/{id}/avatar [get]
func (h *UserHandler) Avatar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	data, mediaType, err := h.uc.GetAvatar(int64(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "avatar no encontrado"})
		case errors.Is(err, domain.ErrInvalidFormat):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_FORMAT", Message: "el avatar almacenado no es un data URI válido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, mediaType)
	return c.Send(data)
}

// AdminList godoc
// @Summary      Listar usuarios (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search  query  string  false  "filtro por email o username"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.AdminUserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/v1/admin/users [get]
func (h *UserHandler) AdminList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.AdminList(c.Query("search"), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// AdminUpdate godoc
// @Summary      Editar un usuario (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                        true  "ID del usuario"
// @Param        body  body  dto.AdminUpdateUserRequest true  "campos a cambiar; un password sin prefijo de hash se hashea y rota la versión de token"
// @Success      200  {object}  dto.AdminUserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/admin/users/{id} [put]
func (h *UserHandler) AdminUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	var in dto.AdminUpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validation.Struct(&in); fields != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{Code: "VALIDATION", Message: "payload inválido", Fields: fields})
	}
	out, err := h.uc.AdminUpdate(int64(id), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario no encontrado"})
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
		case errors.Is(err, domain.ErrUsernameAlreadyExists):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "USERNAME_EXISTS", Message: "el nombre de usuario ya está registrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
