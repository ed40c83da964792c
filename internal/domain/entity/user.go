package entity

// User cuenta de usuario del registro. TokenVersion es un contador que solo crece:
// incrementarlo invalida todos los tokens emitidos con la versión anterior.
// Avatar guarda un data URI (data:<media-type>;base64,...) o nil si no hay avatar.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	Avatar       *string
	TokenVersion int
}
