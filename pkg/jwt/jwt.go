package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpired indica que el token era válido pero su expiración ya pasó.
var ErrExpired = errors.New("jwt: token expirado")

// Claims incluye los claims estándar JWT más la versión de token del usuario.
// Subject lleva el email del usuario. Version permite invalidar de golpe todos
// los tokens emitidos antes de una rotación de credenciales: si no coincide con
// la versión almacenada, el token se rechaza. Version 0 significa "claim ausente"
// (tokens legacy sin versión, que se siguen aceptando).
type Claims struct {
	jwt.RegisteredClaims
	Version int `json:"version,omitempty"`
}

// Generate genera un token JWT firmado (HS256) con subject, versión y expiración en minutos.
func Generate(secret, subject string, version int, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Version: version,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve subject y versión.
// Devuelve ErrExpired si la firma es válida pero el token ya venció; cualquier
// otro problema (firma incorrecta, algoritmo distinto de HMAC, claims ilegibles)
// retorna un error genérico de token inválido.
func Parse(secret, tokenString string) (subject string, version int, err error) {
	if secret == "" {
		return "", 0, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Nunca aceptar "none" ni algoritmos asimétricos: solo HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", 0, ErrExpired
		}
		return "", 0, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", 0, fmt.Errorf("claims inválidos")
	}
	if claims.Subject == "" {
		return "", 0, fmt.Errorf("claim sub ausente")
	}
	return claims.Subject, claims.Version, nil
}
