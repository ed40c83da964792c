package entity

import "time"

// ResponsiblePerson persona responsable de una empresa (director, contador, etc.).
// SignatureStamp guarda la firma escaneada como data URI.
type ResponsiblePerson struct {
	ID             int64
	CompanyID      int64
	Role           string
	FullName       string
	Gender         string
	BirthDate      *time.Time
	IIN            string
	Residency      string
	SignatureStamp *string
}
