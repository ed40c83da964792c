package usecase

import (
	"strings"

	"github.com/jhoicas/registro-api/internal/application/dto"
	"github.com/jhoicas/registro-api/internal/domain"
	"github.com/jhoicas/registro-api/internal/domain/entity"
	"github.com/jhoicas/registro-api/internal/domain/repository"
	"github.com/jhoicas/registro-api/pkg/datauri"
	"golang.org/x/crypto/bcrypt"
)

// hashedPrefix marca un password que ya viene hasheado (bcrypt: "$2a$", "$2b$", ...).
// La consola de administración puede mandar tanto texto plano como hashes.
const hashedPrefix = "$2"

// UserUseCase casos de uso de perfil y administración de usuarios.
type UserUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, companyRepo: companyRepo}
}

// Profile arma la vista del usuario, con has_company derivado del link de dueño.
func (uc *UserUseCase) Profile(u *entity.User) (*dto.UserResponse, error) {
	company, err := uc.companyRepo.GetByOwner(u.ID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(u, company != nil), nil
}

// UpdateProfile aplica una actualización parcial del propio perfil.
// Cambiar username o email re-chequea unicidad global (contra otro usuario).
// Cambiar password re-hashea e incrementa token_version en 1, lo que invalida
// todos los tokens emitidos antes. Avatar: nil no toca, "" borra, otro valor
// reemplaza.
func (uc *UserUseCase) UpdateProfile(u *entity.User, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if in.Username != nil && *in.Username != u.Username {
		taken, err := uc.userRepo.GetByUsername(*in.Username)
		if err != nil {
			return nil, err
		}
		if taken != nil && taken.ID != u.ID {
			return nil, domain.ErrUsernameAlreadyExists
		}
		u.Username = *in.Username
	}
	if in.Email != nil && *in.Email != u.Email {
		taken, err := uc.userRepo.GetByEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if taken != nil && taken.ID != u.ID {
			return nil, domain.ErrEmailAlreadyExists
		}
		u.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
		u.TokenVersion++
	}
	applyAvatar(u, in.Avatar)
	if err := uc.userRepo.Update(u); err != nil {
		return nil, err
	}
	return uc.Profile(u)
}

// GetAvatar devuelve los bytes y el media type del avatar de un usuario.
// ErrNotFound si el usuario o su avatar no existen; ErrInvalidFormat si el
// valor almacenado no es un data URI reconocible.
func (uc *UserUseCase) GetAvatar(id int64) ([]byte, string, error) {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if user == nil || user.Avatar == nil || *user.Avatar == "" {
		return nil, "", domain.ErrNotFound
	}
	mediaType, data, err := datauri.Parse(*user.Avatar)
	if err != nil {
		return nil, "", domain.ErrInvalidFormat
	}
	return data, mediaType, nil
}

// AdminList lista usuarios para la consola de administración; search filtra por
// email o username.
func (uc *UserUseCase) AdminList(search string, limit, offset int) ([]dto.AdminUserResponse, error) {
	users, err := uc.userRepo.List(search, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdminUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *toAdminUserResponse(u))
	}
	return out, nil
}

// AdminUpdate edita cualquier usuario desde la consola de administración.
// Si el password recibido no parece un hash (sin prefijo "$2"), se hashea y se
// rota token_version partiendo de 1 si la versión actual es desconocida; un
// hash ya calculado se guarda tal cual, sin rotación.
func (uc *UserUseCase) AdminUpdate(id int64, in dto.AdminUpdateUserRequest) (*dto.AdminUserResponse, error) {
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Username != nil && *in.Username != user.Username {
		taken, err := uc.userRepo.GetByUsername(*in.Username)
		if err != nil {
			return nil, err
		}
		if taken != nil && taken.ID != user.ID {
			return nil, domain.ErrUsernameAlreadyExists
		}
		user.Username = *in.Username
	}
	if in.Email != nil && *in.Email != user.Email {
		taken, err := uc.userRepo.GetByEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if taken != nil && taken.ID != user.ID {
			return nil, domain.ErrEmailAlreadyExists
		}
		user.Email = *in.Email
	}
	if in.Password != nil && *in.Password != "" {
		if strings.HasPrefix(*in.Password, hashedPrefix) {
			user.PasswordHash = *in.Password
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
			user.PasswordHash = string(hash)
			current := user.TokenVersion
			if current == 0 {
				current = 1
			}
			user.TokenVersion = current + 1
		}
	}
	if in.IsAdmin != nil {
		user.IsAdmin = *in.IsAdmin
	}
	applyAvatar(user, in.Avatar)
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return toAdminUserResponse(user), nil
}

// applyAvatar aplica la semántica de tres estados del campo avatar.
func applyAvatar(u *entity.User, avatar *string) {
	if avatar == nil {
		return
	}
	if *avatar == "" {
		u.Avatar = nil
		return
	}
	v := *avatar
	u.Avatar = &v
}

func toUserResponse(u *entity.User, hasCompany bool) *dto.UserResponse {
	return &dto.UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Avatar:     u.Avatar,
		HasCompany: hasCompany,
	}
}

func toAdminUserResponse(u *entity.User) *dto.AdminUserResponse {
	return &dto.AdminUserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		IsAdmin:      u.IsAdmin,
		Avatar:       u.Avatar,
		TokenVersion: u.TokenVersion,
	}
}
