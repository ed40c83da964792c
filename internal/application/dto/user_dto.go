package dto

// RegisterRequest entrada de registro (password en texto, se hashea en el use case).
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// TokenRequest entrada del endpoint de token, estilo OAuth2 password
// (form-encoded). Username acepta email o nombre de usuario.
type TokenRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// TokenResponse salida del endpoint de token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse vista pública de un usuario. HasCompany se deriva de la
// existencia de una empresa cuyo owner es este usuario.
type UserResponse struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Avatar     *string `json:"avatar"`
	HasCompany bool    `json:"has_company"`
}

// UpdateUserRequest actualización parcial del propio perfil. Punteros nil
// significan "no tocar". Avatar con cadena vacía borra el avatar.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Avatar   *string `json:"avatar"`
}

// AdminUserResponse vista de administración de un usuario.
type AdminUserResponse struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	IsAdmin      bool    `json:"is_admin"`
	Avatar       *string `json:"avatar"`
	TokenVersion int     `json:"token_version"`
}

// AdminUpdateUserRequest edición de un usuario desde la consola de administración.
// Password admite texto plano (se hashea y rota la versión de token) o un hash
// bcrypt ya calculado (se guarda tal cual, sin rotación).
type AdminUpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password"`
	IsAdmin  *bool   `json:"is_admin"`
	Avatar   *string `json:"avatar"`
}
