package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/registro-api/internal/domain"
	"github.com/jhoicas/registro-api/internal/domain/entity"
	"github.com/jhoicas/registro-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, username, email, password_hash, is_admin, avatar, token_version`

// Create persiste un nuevo usuario y asigna el ID generado por la base.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, is_admin, avatar, token_version)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		user.Username, user.Email, user.PasswordHash, user.IsAdmin, user.Avatar, user.TokenVersion,
	).Scan(&user.ID)
	if err != nil {
		// La carrera entre el pre-chequeo de unicidad y el commit la resuelve
		// el índice único: se mapea al mismo error de dominio.
		switch uniqueConstraint(err) {
		case "users_email_key":
			return domain.ErrEmailAlreadyExists
		case "users_username_key":
			return domain.ErrUsernameAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(query, email)
}

// GetByUsername obtiene un usuario por username.
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanOne(query, username)
}

// FindByIdentifier busca por email O username (regla única de login).
func (r *UserRepo) FindByIdentifier(identifier string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR username = $1 LIMIT 1`
	return r.scanOne(query, identifier)
}

func (r *UserRepo) scanOne(query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.Avatar, &u.TokenVersion,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Update actualiza un usuario (incluida la versión de token).
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, is_admin = $5, avatar = $6, token_version = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.IsAdmin, user.Avatar, user.TokenVersion,
	)
	if err != nil {
		switch uniqueConstraint(err) {
		case "users_email_key":
			return domain.ErrEmailAlreadyExists
		case "users_username_key":
			return domain.ErrUsernameAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// List lista usuarios con paginación; search filtra por email o username.
func (r *UserRepo) List(search string, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE $1 = '' OR email ILIKE '%' || $1 || '%' OR username ILIKE '%' || $1 || '%'
		ORDER BY id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.Avatar, &u.TokenVersion); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}
