// Package validation valida DTOs con go-playground/validator usando los nombres
// de campo de los tags JSON, y convierte los errores en un mapa campo->mensaje
// apto para respuestas 422.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct valida un DTO. Devuelve nil si es válido; si no, un mapa campo->mensaje.
func Struct(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"payload": "payload inválido"}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "email":
		return "debe ser un email válido"
	case "min":
		return "longitud mínima " + fe.Param()
	case "max":
		return "longitud máxima " + fe.Param()
	case "datetime":
		return "debe tener formato " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + strings.Join(strings.Fields(fe.Param()), ", ")
	default:
		return "no cumple la regla '" + fe.Tag() + "'"
	}
}
