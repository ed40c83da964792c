package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/registro-api/internal/application/auth"
	"github.com/jhoicas/registro-api/internal/application/usecase"
	"github.com/jhoicas/registro-api/internal/domain"
	"github.com/jhoicas/registro-api/internal/domain/entity"
	"github.com/jhoicas/registro-api/internal/domain/repository"
	apphttp "github.com/jhoicas/registro-api/internal/interfaces/http"
	"github.com/jhoicas/registro-api/pkg/datauri"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes in-memory para montar la API completa sin base de datos
// ──────────────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	users  map[int64]*entity.User
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*entity.User), nextID: 1}
}

func (r *memUserRepo) Create(u *entity.User) error {
	u.ID = r.nextID
	r.nextID++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(id int64) (*entity.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByUsername(username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByIdentifier(identifier string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == identifier || u.Username == identifier {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) List(search string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if search == "" || strings.Contains(u.Email, search) || strings.Contains(u.Username, search) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memCompanyRepo struct {
	companies map[int64]*entity.Company
	nextID    int64
}

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{companies: make(map[int64]*entity.Company), nextID: 1}
}

func (r *memCompanyRepo) Create(c *entity.Company) error {
	for _, existing := range r.companies {
		if existing.OwnerID == c.OwnerID {
			return domain.ErrConflict
		}
	}
	c.ID = r.nextID
	r.nextID++
	cp := *c
	cp.BankAccounts, cp.Addresses, cp.ResponsiblePersons = nil, nil, nil
	r.companies[c.ID] = &cp
	return nil
}

func (r *memCompanyRepo) GetByID(id int64) (*entity.Company, error) {
	if c, ok := r.companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *memCompanyRepo) GetByOwner(ownerID int64) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.OwnerID == ownerID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCompanyRepo) UpdateScalars(c *entity.Company) error {
	existing, ok := r.companies[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *c
	cp.BankAccounts = existing.BankAccounts
	cp.Addresses = existing.Addresses
	cp.ResponsiblePersons = existing.ResponsiblePersons
	r.companies[c.ID] = &cp
	return nil
}

func (r *memCompanyRepo) ReplaceBankAccounts(companyID int64, items []entity.BankAccount) error {
	c, ok := r.companies[companyID]
	if !ok {
		return domain.ErrNotFound
	}
	c.BankAccounts = append([]entity.BankAccount(nil), items...)
	return nil
}

func (r *memCompanyRepo) ReplaceAddresses(companyID int64, items []entity.Address) error {
	c, ok := r.companies[companyID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Addresses = append([]entity.Address(nil), items...)
	return nil
}

func (r *memCompanyRepo) ReplaceResponsiblePersons(companyID int64, items []entity.ResponsiblePerson) error {
	c, ok := r.companies[companyID]
	if !ok {
		return domain.ErrNotFound
	}
	c.ResponsiblePersons = append([]entity.ResponsiblePerson(nil), items...)
	return nil
}

// memTxRunner pasa el repositorio tal cual: suficiente para el flujo feliz.
type memTxRunner struct {
	repo *memCompanyRepo
}

func (tx *memTxRunner) Run(ctx context.Context, fn func(companies repository.CompanyRepository) error) error {
	return fn(tx.repo)
}

func buildAPI() (*fiber.App, *memUserRepo) {
	users := newMemUserRepo()
	companies := newMemCompanyRepo()

	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		ExpMinutes: 60,
		Issuer:     "registro-api-test",
	})
	userUC := usecase.NewUserUseCase(users, companies)
	companyUC := usecase.NewCompanyUseCase(companies, &memTxRunner{repo: companies})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		UserUC:    userUC,
		CompanyUC: companyUC,
	})
	return app, users
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body any) *http.Response {
	t.Helper()
	return sendJSON(t, app, http.MethodPost, path, token, body)
}

func sendJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// obtainToken hace login form-encoded, como lo haría un cliente OAuth2.
func obtainToken(t *testing.T, app *fiber.App, identifier, password string) string {
	t.Helper()
	form := url.Values{"username": {identifier}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "bearer", body.TokenType)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo: registro → token → perfil → cambio de password → token viejo
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujo_RegistroLoginYRotacionDePassword(t *testing.T) {
	app, _ := buildAPI()

	resp := postJSON(t, app, "/api/v1/users/register", "", map[string]string{
		"username": "ana",
		"email":    "ana@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	token := obtainToken(t, app, "ana", "password123")

	resp = get(t, app, "/api/v1/users/me", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		Email      string `json:"email"`
		HasCompany bool   `json:"has_company"`
	}
	decodeBody(t, resp, &me)
	assert.Equal(t, "ana@example.com", me.Email)
	assert.False(t, me.HasCompany)

	// Cambio de password: rota la versión de token
	resp = sendJSON(t, app, http.MethodPut, "/api/v1/users/me", token, map[string]string{
		"password": "otronuevo123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// El token emitido antes del cambio queda inválido
	resp = get(t, app, "/api/v1/users/me", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"el token anterior al cambio de password debe rechazarse")
	resp.Body.Close()

	// El password viejo ya no sirve; el nuevo emite un token que sí entra
	form := url.Values{"username": {"ana"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rawResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rawResp.StatusCode)
	rawResp.Body.Close()

	fresh := obtainToken(t, app, "ana@example.com", "otronuevo123")
	resp = get(t, app, "/api/v1/users/me", fresh)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestFlujo_RegistroConPayloadInvalido(t *testing.T) {
	app, _ := buildAPI()

	resp := postJSON(t, app, "/api/v1/users/register", "", map[string]string{
		"username": "an",
		"email":    "no-es-email",
		"password": "corto",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Fields, "username")
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "password")
}

// ──────────────────────────────────────────────────────────────────────────────
// Empresas sobre la API completa
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujo_EmpresaCrearConsultarReemplazar(t *testing.T) {
	app, users := buildAPI()

	resp := postJSON(t, app, "/api/v1/users/register", "", map[string]string{
		"username": "ana", "email": "ana@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Promover a admin directamente en el store
	ana, err := users.GetByEmail("ana@example.com")
	require.NoError(t, err)
	ana.IsAdmin = true
	require.NoError(t, users.Update(ana))

	token := obtainToken(t, app, "ana", "password123")

	payload := map[string]any{
		"name": "Acme LLP", "type": "LLP", "bin_iin": "123456789012",
		"kbe": "17", "vat_status": true,
		"phone": "+7 700 000 00 00", "email": "info@acme.example.com",
		"bank_accounts": []map[string]any{
			{"iik": "KZ11111111111111", "bank_name": "Halyk", "bik": "HSBKKZKX", "currency": "KZT", "is_primary": true},
		},
		"addresses": []map[string]any{
			{"full_address": "Almaty, Abay 1", "is_legal": true},
		},
		"responsible_persons": []map[string]any{
			{"role": "director", "full_name": "Ana García", "birth_date": "1985-04-12", "iin": "850412000000"},
		},
	}

	resp = postJSON(t, app, "/api/v1/companies", token, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Una segunda empresa del mismo dueño es conflicto
	resp = postJSON(t, app, "/api/v1/companies", token, payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// has_company ahora es true
	resp = get(t, app, "/api/v1/users/me", token)
	var me struct {
		HasCompany bool `json:"has_company"`
	}
	decodeBody(t, resp, &me)
	assert.True(t, me.HasCompany)

	resp = get(t, app, "/api/v1/companies/my", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var company struct {
		Name         string `json:"name"`
		BankAccounts []any  `json:"bank_accounts"`
	}
	decodeBody(t, resp, &company)
	assert.Equal(t, "Acme LLP", company.Name)
	assert.Len(t, company.BankAccounts, 1)

	// Reemplazo completo: colecciones vacías sustituyen a las anteriores
	payload["name"] = "Acme Renovada"
	payload["bank_accounts"] = []map[string]any{}
	resp = sendJSON(t, app, http.MethodPut, "/api/v1/companies/my", token, payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &company)
	assert.Equal(t, "Acme Renovada", company.Name)
	assert.Empty(t, company.BankAccounts)
}

func TestFlujo_EmpresaRequiereAdmin(t *testing.T) {
	app, _ := buildAPI()

	resp := postJSON(t, app, "/api/v1/users/register", "", map[string]string{
		"username": "ana", "email": "ana@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	token := obtainToken(t, app, "ana", "password123")

	resp = postJSON(t, app, "/api/v1/companies", token, map[string]any{
		"name": "Acme", "type": "LLP", "bin_iin": "1", "kbe": "17",
		"phone": "1", "email": "a@b.co",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestFlujo_MiEmpresaSinEmpresa(t *testing.T) {
	app, _ := buildAPI()

	resp := postJSON(t, app, "/api/v1/users/register", "", map[string]string{
		"username": "ana", "email": "ana@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	token := obtainToken(t, app, "ana", "password123")

	resp = get(t, app, "/api/v1/companies/my", token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Avatar público
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujo_AvatarSubirYDescargar(t *testing.T) {
	app, users := buildAPI()

	resp := postJSON(t, app, "/api/v1/users/register", "", map[string]string{
		"username": "ana", "email": "ana@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	token := obtainToken(t, app, "ana", "password123")

	raw := []byte{0x89, 0x50, 0x4E, 0x47}
	resp = sendJSON(t, app, http.MethodPut, "/api/v1/users/me", token, map[string]string{
		"avatar": datauri.Encode("image/png", raw),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	ana, err := users.GetByEmail("ana@example.com")
	require.NoError(t, err)

	// La descarga es pública: sin token
	resp = get(t, app, "/api/v1/users/1/avatar", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, raw, body)
	require.NotNil(t, ana.Avatar)

	// Usuario sin avatar: 404
	resp = get(t, app, "/api/v1/users/999/avatar", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Consola de administración
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujo_AdminListYUpdate(t *testing.T) {
	app, users := buildAPI()

	for _, reg := range []map[string]string{
		{"username": "admin1", "email": "admin@example.com", "password": "password123"},
		{"username": "ana", "email": "ana@example.com", "password": "password123"},
	} {
		resp := postJSON(t, app, "/api/v1/users/register", "", reg)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
	root, err := users.GetByEmail("admin@example.com")
	require.NoError(t, err)
	root.IsAdmin = true
	require.NoError(t, users.Update(root))

	adminToken := obtainToken(t, app, "admin1", "password123")
	anaToken := obtainToken(t, app, "ana", "password123")

	// Un no-admin no entra a la consola
	resp := get(t, app, "/api/v1/admin/users", anaToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = get(t, app, "/api/v1/admin/users?search=ana", adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []struct {
		Username     string `json:"username"`
		TokenVersion int    `json:"token_version"`
	}
	decodeBody(t, resp, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "ana", listed[0].Username)
	assert.Equal(t, 1, listed[0].TokenVersion)

	// Reset de password en claro desde la consola: rota la versión de ana
	ana, _ := users.GetByEmail("ana@example.com")
	resp = sendJSON(t, app, http.MethodPut, "/api/v1/admin/users/2", adminToken, map[string]string{
		"password": "resetdesdeconsola",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated struct {
		TokenVersion int `json:"token_version"`
	}
	decodeBody(t, resp, &updated)
	assert.Equal(t, ana.TokenVersion+1, updated.TokenVersion)

	// El token previo de ana quedó inválido
	resp = get(t, app, "/api/v1/users/me", anaToken)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = sendJSON(t, app, http.MethodPut, "/api/v1/admin/users/999", adminToken, map[string]string{
		"username": "nadie",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
