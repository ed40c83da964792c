package usecase_test

import (
	"context"
	"strings"

	"github.com/jhoicas/registro-api/internal/domain"
	"github.com/jhoicas/registro-api/internal/domain/entity"
	"github.com/jhoicas/registro-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes in-memory de los puertos de persistencia
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users  map[int64]*entity.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entity.User), nextID: 1}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	u.ID = r.nextID
	r.nextID++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id int64) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByIdentifier(identifier string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == identifier || u.Username == identifier {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List(search string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if search == "" || strings.Contains(u.Email, search) || strings.Contains(u.Username, search) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeCompanyRepo guarda una empresa por dueño con sus colecciones hijas, y
// permite inyectar un error en ReplaceAddresses para probar el rollback.
type fakeCompanyRepo struct {
	companies   map[int64]*entity.Company // por ID
	nextID      int64
	failAddress error
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[int64]*entity.Company), nextID: 1}
}

func cloneCompany(c *entity.Company) *entity.Company {
	cp := *c
	cp.BankAccounts = append([]entity.BankAccount(nil), c.BankAccounts...)
	cp.Addresses = append([]entity.Address(nil), c.Addresses...)
	cp.ResponsiblePersons = append([]entity.ResponsiblePerson(nil), c.ResponsiblePersons...)
	return &cp
}

func (r *fakeCompanyRepo) Create(c *entity.Company) error {
	for _, existing := range r.companies {
		if existing.OwnerID == c.OwnerID {
			return domain.ErrConflict
		}
	}
	c.ID = r.nextID
	r.nextID++
	stored := cloneCompany(c)
	stored.BankAccounts, stored.Addresses, stored.ResponsiblePersons = nil, nil, nil
	r.companies[c.ID] = stored
	return nil
}

func (r *fakeCompanyRepo) GetByID(id int64) (*entity.Company, error) {
	if c, ok := r.companies[id]; ok {
		return cloneCompany(c), nil
	}
	return nil, nil
}

func (r *fakeCompanyRepo) GetByOwner(ownerID int64) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.OwnerID == ownerID {
			return cloneCompany(c), nil
		}
	}
	return nil, nil
}

func (r *fakeCompanyRepo) UpdateScalars(c *entity.Company) error {
	existing, ok := r.companies[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := cloneCompany(c)
	updated.BankAccounts = existing.BankAccounts
	updated.Addresses = existing.Addresses
	updated.ResponsiblePersons = existing.ResponsiblePersons
	r.companies[c.ID] = updated
	return nil
}

func (r *fakeCompanyRepo) ReplaceBankAccounts(companyID int64, items []entity.BankAccount) error {
	c, ok := r.companies[companyID]
	if !ok {
		return domain.ErrNotFound
	}
	c.BankAccounts = nil
	for i, it := range items {
		it.ID = int64(i + 1)
		it.CompanyID = companyID
		c.BankAccounts = append(c.BankAccounts, it)
	}
	return nil
}

func (r *fakeCompanyRepo) ReplaceAddresses(companyID int64, items []entity.Address) error {
	if r.failAddress != nil {
		return r.failAddress
	}
	c, ok := r.companies[companyID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Addresses = nil
	for i, it := range items {
		it.ID = int64(i + 1)
		it.CompanyID = companyID
		c.Addresses = append(c.Addresses, it)
	}
	return nil
}

func (r *fakeCompanyRepo) ReplaceResponsiblePersons(companyID int64, items []entity.ResponsiblePerson) error {
	c, ok := r.companies[companyID]
	if !ok {
		return domain.ErrNotFound
	}
	c.ResponsiblePersons = nil
	for i, it := range items {
		it.ID = int64(i + 1)
		it.CompanyID = companyID
		c.ResponsiblePersons = append(c.ResponsiblePersons, it)
	}
	return nil
}

// fakeTxRunner imita la semántica copy-on-write de una transacción: fn opera
// sobre una copia del estado y solo si no falla se publica el resultado.
type fakeTxRunner struct {
	repo *fakeCompanyRepo
}

func (tx *fakeTxRunner) Run(ctx context.Context, fn func(companies repository.CompanyRepository) error) error {
	snapshot := &fakeCompanyRepo{
		companies:   make(map[int64]*entity.Company, len(tx.repo.companies)),
		nextID:      tx.repo.nextID,
		failAddress: tx.repo.failAddress,
	}
	for id, c := range tx.repo.companies {
		snapshot.companies[id] = cloneCompany(c)
	}
	if err := fn(snapshot); err != nil {
		return err
	}
	tx.repo.companies = snapshot.companies
	tx.repo.nextID = snapshot.nextID
	return nil
}
