package auth

import (
	"github.com/jhoicas/registro-api/internal/application/dto"
	"github.com/jhoicas/registro-api/internal/domain"
	"github.com/jhoicas/registro-api/internal/domain/entity"
	"github.com/jhoicas/registro-api/internal/domain/repository"
	"github.com/jhoicas/registro-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens. El secret es estado de
// proceso de solo lectura: se inyecta al arranque y no rota.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y resolución del
// principal a partir de un bearer token.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Register crea un usuario: hashea el password con bcrypt y persiste con
// token_version 1. Devuelve ErrEmailAlreadyExists o ErrUsernameAlreadyExists si
// el email o el username ya están tomados.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.UserResponse, error) {
	if existing, err := uc.userRepo.GetByEmail(in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if existing, err := uc.userRepo.GetByUsername(in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrUsernameAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		TokenVersion: 1,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	// Un usuario recién creado no puede tener empresa todavía
	return &dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Avatar:   user.Avatar,
	}, nil
}

// Login verifica identificador (email o username) y password, y emite un token
// que embebe el email como subject y la versión de token vigente.
func (uc *AuthUseCase) Login(in dto.TokenRequest) (*dto.TokenResponse, error) {
	user, err := uc.userRepo.FindByIdentifier(in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.Email, user.TokenVersion, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// CurrentUser resuelve el principal de un bearer token. Falla con
// ErrUnauthorized si el token es inválido o expiró, si el subject no
// corresponde a ningún usuario, o si la versión embebida difiere de la
// almacenada (protocolo de invalidación por rotación). Un token sin claim de
// versión no se rechaza por versión: solo por usuario inexistente. Esa
// asimetría es aceptación deliberada de tokens legacy.
func (uc *AuthUseCase) CurrentUser(token string) (*entity.User, error) {
	subject, version, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByEmail(subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	// Una versión almacenada 0 es una fila anterior al protocolo de versiones
	// (las filas nuevas arrancan en 1): tampoco participa del chequeo.
	if version != 0 && user.TokenVersion != 0 && version != user.TokenVersion {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}
