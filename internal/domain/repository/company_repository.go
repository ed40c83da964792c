package repository

import "github.com/jhoicas/registro-api/internal/domain/entity"

// CompanyRepository puerto de persistencia para empresas y sus colecciones hijas.
// Las colecciones hijas se escriben siempre como reemplazo completo (borrar todo
// e insertar el set recibido); los IDs anteriores se descartan.
type CompanyRepository interface {
	// Create inserta la fila escalar de la empresa y asigna c.ID. Devuelve
	// domain.ErrConflict si el dueño ya tiene empresa (UNIQUE owner_id).
	Create(c *entity.Company) error
	GetByID(id int64) (*entity.Company, error)
	// GetByOwner es la búsqueda autoritativa de "mi empresa": devuelve la
	// empresa con sus tres colecciones hijas cargadas, o nil si no hay.
	GetByOwner(ownerID int64) (*entity.Company, error)
	// UpdateScalars sobreescribe incondicionalmente todos los campos escalares.
	UpdateScalars(c *entity.Company) error
	ReplaceBankAccounts(companyID int64, items []entity.BankAccount) error
	ReplaceAddresses(companyID int64, items []entity.Address) error
	ReplaceResponsiblePersons(companyID int64, items []entity.ResponsiblePerson) error
}
