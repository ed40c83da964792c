package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrUsernameAlreadyExists = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidCredentials    = errors.New("credenciales inválidas")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrInvalidFormat         = errors.New("formato de dato almacenado inválido")
)
