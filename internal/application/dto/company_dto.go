package dto

// CompanyPayload entrada de creación y de reemplazo completo de una empresa.
// El cliente debe reenviar siempre el set completo de colecciones hijas: los IDs
// anteriores se descartan y regeneran en cada escritura.
type CompanyPayload struct {
	Name               string                     `json:"name" validate:"required,max=200"`
	Type               string                     `json:"type" validate:"required"`
	BinIIN             string                     `json:"bin_iin" validate:"required,max=20"`
	KBE                string                     `json:"kbe" validate:"required,max=10"`
	VATStatus          bool                       `json:"vat_status"`
	Phone              string                     `json:"phone" validate:"required"`
	Email              string                     `json:"email" validate:"required,email"`
	Website            *string                    `json:"website"`
	Logo               *string                    `json:"logo"`
	Stamp              *string                    `json:"stamp"`
	BankAccounts       []BankAccountPayload       `json:"bank_accounts" validate:"dive"`
	Addresses          []AddressPayload           `json:"addresses" validate:"dive"`
	ResponsiblePersons []ResponsiblePersonPayload `json:"responsible_persons" validate:"dive"`
}

// BankAccountPayload cuenta bancaria dentro de CompanyPayload.
type BankAccountPayload struct {
	IIK       string `json:"iik" validate:"required"`
	BankName  string `json:"bank_name" validate:"required"`
	BIK       string `json:"bik" validate:"required"`
	Currency  string `json:"currency" validate:"required"`
	IsPrimary bool   `json:"is_primary"`
}

// AddressPayload dirección dentro de CompanyPayload.
type AddressPayload struct {
	FullAddress string `json:"full_address" validate:"required"`
	IsLegal     bool   `json:"is_legal"`
}

// ResponsiblePersonPayload responsable dentro de CompanyPayload.
// BirthDate en formato YYYY-MM-DD.
type ResponsiblePersonPayload struct {
	Role           string  `json:"role" validate:"required"`
	FullName       string  `json:"full_name" validate:"required"`
	Gender         string  `json:"gender"`
	BirthDate      string  `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	IIN            string  `json:"iin" validate:"required"`
	Residency      string  `json:"residency"`
	SignatureStamp *string `json:"signature_stamp"`
}

// CompanyResponse vista completa de una empresa con sus colecciones hijas.
type CompanyResponse struct {
	ID                 int64                       `json:"id"`
	Name               string                      `json:"name"`
	Type               string                      `json:"type"`
	BinIIN             string                      `json:"bin_iin"`
	KBE                string                      `json:"kbe"`
	VATStatus          bool                        `json:"vat_status"`
	Phone              string                      `json:"phone"`
	Email              string                      `json:"email"`
	Website            *string                     `json:"website"`
	Logo               *string                     `json:"logo"`
	Stamp              *string                     `json:"stamp"`
	BankAccounts       []BankAccountResponse       `json:"bank_accounts"`
	Addresses          []AddressResponse           `json:"addresses"`
	ResponsiblePersons []ResponsiblePersonResponse `json:"responsible_persons"`
}

// BankAccountResponse cuenta bancaria en respuestas.
type BankAccountResponse struct {
	ID        int64  `json:"id"`
	IIK       string `json:"iik"`
	BankName  string `json:"bank_name"`
	BIK       string `json:"bik"`
	Currency  string `json:"currency"`
	IsPrimary bool   `json:"is_primary"`
}

// AddressResponse dirección en respuestas.
type AddressResponse struct {
	ID          int64  `json:"id"`
	FullAddress string `json:"full_address"`
	IsLegal     bool   `json:"is_legal"`
}

// ResponsiblePersonResponse responsable en respuestas. BirthDate en YYYY-MM-DD
// o cadena vacía si no hay fecha.
type ResponsiblePersonResponse struct {
	ID             int64   `json:"id"`
	Role           string  `json:"role"`
	FullName       string  `json:"full_name"`
	Gender         string  `json:"gender"`
	BirthDate      string  `json:"birth_date"`
	IIN            string  `json:"iin"`
	Residency      string  `json:"residency"`
	SignatureStamp *string `json:"signature_stamp"`
}
