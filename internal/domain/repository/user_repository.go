package repository

import "github.com/jhoicas/registro-api/internal/domain/entity"

// UserRepository puerto de persistencia para usuarios.
type UserRepository interface {
	// Create persiste un usuario nuevo y asigna u.ID. Devuelve
	// domain.ErrEmailAlreadyExists o domain.ErrUsernameAlreadyExists si el
	// índice único correspondiente rechaza la escritura.
	Create(u *entity.User) error
	GetByID(id int64) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	// FindByIdentifier busca por email O username (regla de login).
	FindByIdentifier(identifier string) (*entity.User, error)
	Update(u *entity.User) error
	// List lista usuarios; search filtra por email o username (ILIKE).
	List(search string, limit, offset int) ([]*entity.User, error)
}
