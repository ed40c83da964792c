package entity

// Address dirección de una empresa. IsLegal marca la dirección legal.
type Address struct {
	ID          int64
	CompanyID   int64
	FullAddress string
	IsLegal     bool
}
