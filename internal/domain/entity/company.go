package entity

// Company perfil de empresa. Cada empresa pertenece a exactamente un usuario
// (OwnerID, con constraint UNIQUE en la tabla) y un usuario posee a lo sumo una.
// Type distingue persona natural (ИП) de sociedad (ТОО). Logo y Stamp guardan
// data URIs.
type Company struct {
	ID        int64
	Name      string
	Type      string
	BinIIN    string
	KBE       string
	VATStatus bool
	Phone     string
	Email     string
	Website   *string
	Logo      *string
	Stamp     *string
	OwnerID   int64

	// Colecciones hijas (se reemplazan completas en cada escritura)
	BankAccounts       []BankAccount
	Addresses          []Address
	ResponsiblePersons []ResponsiblePerson
}
