// Package datauri codifica y decodifica blobs binarios autodescriptivos con el
// esquema data URI (data:<media-type>;base64,<payload>), usado para avatares,
// logos y sellos almacenados como texto.
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid indica que el valor almacenado no es un data URI reconocible.
var ErrInvalid = errors.New("datauri: formato no reconocido")

const (
	prefix    = "data:"
	separator = ";base64,"
)

// Parse separa el media type y decodifica el payload base64.
func Parse(s string) (mediaType string, data []byte, err error) {
	if !strings.HasPrefix(s, prefix) {
		return "", nil, ErrInvalid
	}
	rest := s[len(prefix):]
	i := strings.Index(rest, separator)
	if i <= 0 {
		// Sin separador o media type vacío
		return "", nil, ErrInvalid
	}
	mediaType = rest[:i]
	data, err = base64.StdEncoding.DecodeString(rest[i+len(separator):])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return mediaType, data, nil
}

// Encode construye un data URI a partir del media type y el contenido binario.
func Encode(mediaType string, data []byte) string {
	return prefix + mediaType + separator + base64.StdEncoding.EncodeToString(data)
}
