package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/registro-api/internal/application/dto"
	"github.com/jhoicas/registro-api/internal/domain"
	"github.com/jhoicas/registro-api/internal/domain/entity"
	"github.com/jhoicas/registro-api/internal/domain/repository"
)

// TxRunner puerto de transacciones: ejecuta fn con un repositorio de empresas
// atado a una transacción y confirma solo si fn no falla.
type TxRunner interface {
	Run(ctx context.Context, fn func(companies repository.CompanyRepository) error) error
}

const birthDateLayout = "2006-01-02"

// CompanyUseCase casos de uso del directorio de empresas: creación, consulta y
// reemplazo completo del perfil propio.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
	tx          TxRunner
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia y el runner de transacciones.
func NewCompanyUseCase(companyRepo repository.CompanyRepository, tx TxRunner) *CompanyUseCase {
	return &CompanyUseCase{companyRepo: companyRepo, tx: tx}
}

// Create crea la empresa del principal con sus tres colecciones hijas en una
// sola transacción. Solo administradores pueden crear (regla heredada de la
// consola: la capacidad es "es admin", no "no tiene empresa todavía"). La
// empresa queda ligada al principal que la crea, nunca a un dueño del payload;
// el UNIQUE sobre owner_id rechaza una segunda empresa para el mismo dueño.
func (uc *CompanyUseCase) Create(ctx context.Context, principal *entity.User, in dto.CompanyPayload) (*dto.CompanyResponse, error) {
	if !principal.IsAdmin {
		return nil, domain.ErrForbidden
	}
	company, err := payloadToCompany(in)
	if err != nil {
		return nil, err
	}
	company.OwnerID = principal.ID

	err = uc.tx.Run(ctx, func(companies repository.CompanyRepository) error {
		if err := companies.Create(company); err != nil {
			return err
		}
		return replaceChildren(companies, company)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetMine(principal)
}

// GetMine devuelve la empresa del principal o ErrNotFound.
func (uc *CompanyUseCase) GetMine(principal *entity.User) (*dto.CompanyResponse, error) {
	company, err := uc.companyRepo.GetByOwner(principal.ID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return companyToResponse(company), nil
}

// ReplaceMine sobreescribe incondicionalmente los campos escalares de la
// empresa del principal y reemplaza completas las tres colecciones hijas
// (borrar todo, insertar el set recibido) dentro de una transacción. No hay
// merge ni diff: el cliente reenvía siempre el set deseado completo.
func (uc *CompanyUseCase) ReplaceMine(ctx context.Context, principal *entity.User, in dto.CompanyPayload) (*dto.CompanyResponse, error) {
	existing, err := uc.companyRepo.GetByOwner(principal.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	company, err := payloadToCompany(in)
	if err != nil {
		return nil, err
	}
	company.ID = existing.ID
	company.OwnerID = existing.OwnerID

	err = uc.tx.Run(ctx, func(companies repository.CompanyRepository) error {
		if err := companies.UpdateScalars(company); err != nil {
			return err
		}
		return replaceChildren(companies, company)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetMine(principal)
}

func replaceChildren(companies repository.CompanyRepository, c *entity.Company) error {
	if err := companies.ReplaceBankAccounts(c.ID, c.BankAccounts); err != nil {
		return err
	}
	if err := companies.ReplaceAddresses(c.ID, c.Addresses); err != nil {
		return err
	}
	return companies.ReplaceResponsiblePersons(c.ID, c.ResponsiblePersons)
}

func payloadToCompany(in dto.CompanyPayload) (*entity.Company, error) {
	c := &entity.Company{
		Name:      in.Name,
		Type:      in.Type,
		BinIIN:    in.BinIIN,
		KBE:       in.KBE,
		VATStatus: in.VATStatus,
		Phone:     in.Phone,
		Email:     in.Email,
		Website:   in.Website,
		Logo:      in.Logo,
		Stamp:     in.Stamp,
	}
	for _, ba := range in.BankAccounts {
		c.BankAccounts = append(c.BankAccounts, entity.BankAccount{
			IIK:       ba.IIK,
			BankName:  ba.BankName,
			BIK:       ba.BIK,
			Currency:  ba.Currency,
			IsPrimary: ba.IsPrimary,
		})
	}
	for _, a := range in.Addresses {
		c.Addresses = append(c.Addresses, entity.Address{
			FullAddress: a.FullAddress,
			IsLegal:     a.IsLegal,
		})
	}
	for _, p := range in.ResponsiblePersons {
		var birth *time.Time
		if p.BirthDate != "" {
			t, err := time.Parse(birthDateLayout, p.BirthDate)
			if err != nil {
				return nil, domain.ErrInvalidInput
			}
			birth = &t
		}
		c.ResponsiblePersons = append(c.ResponsiblePersons, entity.ResponsiblePerson{
			Role:           p.Role,
			FullName:       p.FullName,
			Gender:         p.Gender,
			BirthDate:      birth,
			IIN:            p.IIN,
			Residency:      p.Residency,
			SignatureStamp: p.SignatureStamp,
		})
	}
	return c, nil
}

func companyToResponse(c *entity.Company) *dto.CompanyResponse {
	out := &dto.CompanyResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Type:               c.Type,
		BinIIN:             c.BinIIN,
		KBE:                c.KBE,
		VATStatus:          c.VATStatus,
		Phone:              c.Phone,
		Email:              c.Email,
		Website:            c.Website,
		Logo:               c.Logo,
		Stamp:              c.Stamp,
		BankAccounts:       make([]dto.BankAccountResponse, 0, len(c.BankAccounts)),
		Addresses:          make([]dto.AddressResponse, 0, len(c.Addresses)),
		ResponsiblePersons: make([]dto.ResponsiblePersonResponse, 0, len(c.ResponsiblePersons)),
	}
	for _, ba := range c.BankAccounts {
		out.BankAccounts = append(out.BankAccounts, dto.BankAccountResponse{
			ID:        ba.ID,
			IIK:       ba.IIK,
			BankName:  ba.BankName,
			BIK:       ba.BIK,
			Currency:  ba.Currency,
			IsPrimary: ba.IsPrimary,
		})
	}
	for _, a := range c.Addresses {
		out.Addresses = append(out.Addresses, dto.AddressResponse{
			ID:          a.ID,
			FullAddress: a.FullAddress,
			IsLegal:     a.IsLegal,
		})
	}
	for _, p := range c.ResponsiblePersons {
		birth := ""
		if p.BirthDate != nil {
			birth = p.BirthDate.Format(birthDateLayout)
		}
		out.ResponsiblePersons = append(out.ResponsiblePersons, dto.ResponsiblePersonResponse{
			ID:             p.ID,
			Role:           p.Role,
			FullName:       p.FullName,
			Gender:         p.Gender,
			BirthDate:      birth,
			IIN:            p.IIN,
			Residency:      p.Residency,
			SignatureStamp: p.SignatureStamp,
		})
	}
	return out
}
