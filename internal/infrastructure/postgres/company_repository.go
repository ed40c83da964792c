package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/registro-api/internal/domain"
	"github.com/jhoicas/registro-api/internal/domain/entity"
	"github.com/jhoicas/registro-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
// Las colecciones hijas (cuentas bancarias, direcciones, responsables) se
// reemplazan completas: DELETE de todas las filas de la empresa e INSERT del set
// recibido. Con ON DELETE CASCADE ninguna fila hija sobrevive a su empresa.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, type, bin_iin, kbe, vat_status, phone, email, website, logo, stamp, owner_id`

// Create inserta la fila escalar de la empresa y asigna el ID generado.
func (r *CompanyRepo) Create(company *entity.Company) error {
	query := `
		INSERT INTO companies (name, type, bin_iin, kbe, vat_status, phone, email, website, logo, stamp, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		company.Name, company.Type, company.BinIIN, company.KBE, company.VATStatus,
		company.Phone, company.Email, company.Website, company.Logo, company.Stamp,
		company.OwnerID,
	).Scan(&company.ID)
	if err != nil {
		if isUniqueViolation(err) {
			// UNIQUE (owner_id): el dueño ya tiene empresa
			return domain.ErrConflict
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID con sus colecciones hijas.
func (r *CompanyRepo) GetByID(id int64) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByOwner obtiene la empresa de un dueño con sus colecciones hijas, o nil si no hay.
func (r *CompanyRepo) GetByOwner(ownerID int64) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE owner_id = $1`
	return r.scanOne(query, ownerID)
}

func (r *CompanyRepo) scanOne(query string, arg any) (*entity.Company, error) {
	var c entity.Company
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&c.ID, &c.Name, &c.Type, &c.BinIIN, &c.KBE, &c.VATStatus,
		&c.Phone, &c.Email, &c.Website, &c.Logo, &c.Stamp, &c.OwnerID,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	if err := r.loadChildren(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateScalars sobreescribe incondicionalmente todos los campos escalares.
func (r *CompanyRepo) UpdateScalars(company *entity.Company) error {
	query := `
		UPDATE companies
		SET name = $2, type = $3, bin_iin = $4, kbe = $5, vat_status = $6,
		    phone = $7, email = $8, website = $9, logo = $10, stamp = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.Type, company.BinIIN, company.KBE,
		company.VATStatus, company.Phone, company.Email, company.Website,
		company.Logo, company.Stamp,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// ReplaceBankAccounts borra todas las cuentas de la empresa e inserta el set recibido.
func (r *CompanyRepo) ReplaceBankAccounts(companyID int64, items []entity.BankAccount) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM bank_accounts WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("delete bank accounts: %w", err)
	}
	query := `
		INSERT INTO bank_accounts (company_id, iik, bank_name, bik, currency, is_primary)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, ba := range items {
		if _, err := r.q.Exec(ctx, query, companyID, ba.IIK, ba.BankName, ba.BIK, ba.Currency, ba.IsPrimary); err != nil {
			return fmt.Errorf("insert bank account: %w", err)
		}
	}
	return nil
}

// ReplaceAddresses borra todas las direcciones de la empresa e inserta el set recibido.
func (r *CompanyRepo) ReplaceAddresses(companyID int64, items []entity.Address) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM addresses WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("delete addresses: %w", err)
	}
	query := `INSERT INTO addresses (company_id, full_address, is_legal) VALUES ($1, $2, $3)`
	for _, a := range items {
		if _, err := r.q.Exec(ctx, query, companyID, a.FullAddress, a.IsLegal); err != nil {
			return fmt.Errorf("insert address: %w", err)
		}
	}
	return nil
}

// ReplaceResponsiblePersons borra todos los responsables de la empresa e inserta el set recibido.
func (r *CompanyRepo) ReplaceResponsiblePersons(companyID int64, items []entity.ResponsiblePerson) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM responsible_persons WHERE company_id = $1`, companyID); err != nil {
		return fmt.Errorf("delete responsible persons: %w", err)
	}
	query := `
		INSERT INTO responsible_persons (company_id, role, full_name, gender, birth_date, iin, residency, signature_stamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, p := range items {
		if _, err := r.q.Exec(ctx, query, companyID, p.Role, p.FullName, p.Gender, p.BirthDate, p.IIN, p.Residency, p.SignatureStamp); err != nil {
			return fmt.Errorf("insert responsible person: %w", err)
		}
	}
	return nil
}

func (r *CompanyRepo) loadChildren(c *entity.Company) error {
	ctx := context.Background()

	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, iik, bank_name, bik, currency, is_primary
		FROM bank_accounts WHERE company_id = $1 ORDER BY id`, c.ID)
	if err != nil {
		return fmt.Errorf("list bank accounts: %w", err)
	}
	c.BankAccounts = nil
	for rows.Next() {
		var ba entity.BankAccount
		if err := rows.Scan(&ba.ID, &ba.CompanyID, &ba.IIK, &ba.BankName, &ba.BIK, &ba.Currency, &ba.IsPrimary); err != nil {
			rows.Close()
			return fmt.Errorf("scan bank account: %w", err)
		}
		c.BankAccounts = append(c.BankAccounts, ba)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.q.Query(ctx, `
		SELECT id, company_id, full_address, is_legal
		FROM addresses WHERE company_id = $1 ORDER BY id`, c.ID)
	if err != nil {
		return fmt.Errorf("list addresses: %w", err)
	}
	c.Addresses = nil
	for rows.Next() {
		var a entity.Address
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.FullAddress, &a.IsLegal); err != nil {
			rows.Close()
			return fmt.Errorf("scan address: %w", err)
		}
		c.Addresses = append(c.Addresses, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.q.Query(ctx, `
		SELECT id, company_id, role, full_name, gender, birth_date, iin, residency, signature_stamp
		FROM responsible_persons WHERE company_id = $1 ORDER BY id`, c.ID)
	if err != nil {
		return fmt.Errorf("list responsible persons: %w", err)
	}
	c.ResponsiblePersons = nil
	for rows.Next() {
		var p entity.ResponsiblePerson
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Role, &p.FullName, &p.Gender, &p.BirthDate, &p.IIN, &p.Residency, &p.SignatureStamp); err != nil {
			rows.Close()
			return fmt.Errorf("scan responsible person: %w", err)
		}
		c.ResponsiblePersons = append(c.ResponsiblePersons, p)
	}
	rows.Close()
	return rows.Err()
}
