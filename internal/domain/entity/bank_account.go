package entity

// BankAccount cuenta bancaria de una empresa. IIK es el número de cuenta y BIK
// el código del banco. No se exige que exactamente una sea primaria.
type BankAccount struct {
	ID        int64
	CompanyID int64
	IIK       string
	BankName  string
	BIK       string
	Currency  string
	IsPrimary bool
}
