package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Bodega-api/internal/application/auth"
	"github.com/jhoicas/Bodega-api/internal/application/ledger"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
	"github.com/jhoicas/Bodega-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Bodega-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Stubs: los métodos no implementados están embebidos (nil) y entrarían en
// pánico si un test los alcanzara sin querer.
// ──────────────────────────────────────────────────────────────────────────────

const stubMaterialID = "33333333-3333-3333-3333-333333333333"

type stubMaterialRepo struct {
	repository.MaterialRepository
	material *entity.Material
}

func (r *stubMaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	return r.GetForUpdate(context.Background(), id)
}

func (r *stubMaterialRepo) GetForUpdate(_ context.Context, id string) (*entity.Material, error) {
	if r.material == nil || r.material.ID != id {
		return nil, nil
	}
	cp := *r.material
	return &cp, nil
}

func (r *stubMaterialRepo) UpdateStock(_ context.Context, id string, quantity decimal.Decimal, at time.Time) error {
	r.material.CurrentStock = quantity
	r.material.UpdatedAt = at
	return nil
}

func (r *stubMaterialRepo) List(_ context.Context, limit, offset int) ([]*entity.Material, error) {
	if r.material == nil {
		return nil, nil
	}
	cp := *r.material
	return []*entity.Material{&cp}, nil
}

type stubMovementRepo struct {
	repository.MovementRepository
	created []*entity.Movement
}

func (r *stubMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	cp := *m
	r.created = append(r.created, &cp)
	return nil
}

func (r *stubMovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	for _, m := range r.created {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubMovementRepo) ListPaginated(_ context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.Movement, int64, error) {
	var out []*entity.Movement
	for _, m := range r.created {
		if f.Kind == "" || m.Kind == f.Kind {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

// stubTxRunner ejecuta el callback directo contra los stubs, sin transacción.
type stubTxRunner struct {
	movRepo      *stubMovementRepo
	materialRepo *stubMaterialRepo
}

func (r *stubTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	materialRepo repository.MaterialRepository,
) error) error {
	return fn(r.movRepo, r.materialRepo)
}

type stubUserRepo struct {
	repository.UserRepository
	user *entity.User
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if r.user == nil || r.user.Email != email {
		return nil, nil
	}
	cp := *r.user
	return &cp, nil
}

// buildAPI monta la API completa (router real) sobre los stubs.
func buildAPI(t *testing.T) (*fiber.App, *stubMovementRepo, *stubMaterialRepo) {
	t.Helper()
	materialRepo := &stubMaterialRepo{material: &entity.Material{
		ID: stubMaterialID, Code: "MAT-010", Name: "Varilla 3/8", Unit: "pcs",
		CurrentStock: decimal.NewFromInt(50),
	}}
	movRepo := &stubMovementRepo{}
	txRunner := &stubTxRunner{movRepo: movRepo, materialRepo: materialRepo}

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	userRepo := &stubUserRepo{user: &entity.User{
		ID: testUserID, Email: "ana@bodega.test", PasswordHash: string(hash),
		Name: "Ana Torres", Role: entity.RoleBodeguero, Status: "active",
	}}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Mutation:     ledger.NewStockMutationUseCase(txRunner),
		Query:        ledger.NewLedgerQueryUseCase(movRepo, materialRepo),
		AuthUC:       auth.NewAuthUseCase(userRepo, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		MaterialRepo: materialRepo,
		Audit:        nil, // auditoría apagada en tests de handler
		JWTSecret:    testJWTSecret,
	})
	return app, movRepo, materialRepo
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// envelope sobre estándar decodificado de forma laxa.
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesValidas(t *testing.T) {
	app, _, _ := buildAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "ana@bodega.test", "password": "secreto123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.True(t, env.Success)

	var data struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Token, "el login debe devolver un JWT")
	assert.Equal(t, "ana@bodega.test", data.User.Email)
	assert.Equal(t, entity.RoleBodeguero, data.User.Role)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	app, _, _ := buildAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "ana@bodega.test", "password": "equivocada",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "credenciales inválidas", env.Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateAdjustment_Registra201(t *testing.T) {
	app, movRepo, materialRepo := buildAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/stock-adjustments", tokenForRole(t, entity.RoleBodeguero), fiber.Map{
		"material_id": stubMaterialID,
		"new_stock":   80,
		"reason":      "recount",
		"notes":       "conteo físico",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.True(t, env.Success)

	var data struct {
		Kind           string          `json:"kind"`
		Quantity       decimal.Decimal `json:"quantity"`
		PreviousStock  decimal.Decimal `json:"previous_stock"`
		ResultingStock decimal.Decimal `json:"resulting_stock"`
		CreatedBy      string          `json:"created_by"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "adjustment", data.Kind)
	assert.True(t, data.Quantity.Equal(decimal.NewFromInt(30)), "delta 80 - 50")
	assert.True(t, data.PreviousStock.Equal(decimal.NewFromInt(50)))
	assert.True(t, data.ResultingStock.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, testUserID, data.CreatedBy, "el actor sale del token, no del body")

	assert.True(t, materialRepo.material.CurrentStock.Equal(decimal.NewFromInt(80)))
	assert.Len(t, movRepo.created, 1)
}

func TestCreateAdjustment_ValidacionPorCampo400(t *testing.T) {
	app, movRepo, _ := buildAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/stock-adjustments", tokenForRole(t, entity.RoleAdmin), fiber.Map{
		"reason": "capricho",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "material_id")
	assert.Contains(t, env.Errors, "new_stock")
	assert.Contains(t, env.Errors, "reason")
	assert.Empty(t, movRepo.created)
}

func TestCreateAdjustment_SinTokenRetorna401(t *testing.T) {
	app, _, _ := buildAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/stock-adjustments", "", fiber.Map{
		"material_id": stubMaterialID, "new_stock": 10, "reason": "recount",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateAdjustment_RolSinPermisoRetorna403(t *testing.T) {
	app, _, _ := buildAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/stock-adjustments", tokenForRole(t, "consulta"), fiber.Map{
		"material_id": stubMaterialID, "new_stock": 10, "reason": "recount",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestShowAdjustment_NoEncontrado404(t *testing.T) {
	app, _, _ := buildAPI(t)

	resp := doJSON(t, app, http.MethodGet, "/api/stock-adjustments/no-existe", tokenForRole(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
}

func TestListAdjustments_SobreConPaginacion(t *testing.T) {
	app, _, _ := buildAPI(t)

	// registra un ajuste y verifica que aparece en el listado
	resp := doJSON(t, app, http.MethodPost, "/api/stock-adjustments", tokenForRole(t, entity.RoleAdmin), fiber.Map{
		"material_id": stubMaterialID, "new_stock": 60, "reason": "correction",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/stock-adjustments?page=1&per_page=10", tokenForRole(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.True(t, env.Success)

	var page struct {
		Items       []json.RawMessage `json:"items"`
		CurrentPage int               `json:"current_page"`
		PerPage     int               `json:"per_page"`
		Total       int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 10, page.PerPage)
	assert.Equal(t, int64(1), page.Total)
	assert.Len(t, page.Items, 1)
}

func TestReport_SinRangoRetorna400(t *testing.T) {
	app, _, _ := buildAPI(t)

	resp := doJSON(t, app, http.MethodGet, "/api/stock-adjustments/report", tokenForRole(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.Contains(t, env.Errors, "start_date")
	assert.Contains(t, env.Errors, "end_date")
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateStockOut_Registra201(t *testing.T) {
	app, movRepo, materialRepo := buildAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/stock-out", tokenForRole(t, entity.RoleBodeguero), fiber.Map{
		"material_id": stubMaterialID,
		"quantity":    20,
		"usage_type":  "production",
		"destination": "obra norte",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.True(t, env.Success)

	var data struct {
		Kind           string          `json:"kind"`
		Quantity       decimal.Decimal `json:"quantity"`
		ResultingStock decimal.Decimal `json:"resulting_stock"`
		UsageType      string          `json:"usage_type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "stock_out", data.Kind)
	assert.True(t, data.Quantity.Equal(decimal.NewFromInt(-20)), "las salidas viajan con delta negativo")
	assert.True(t, data.ResultingStock.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "production", data.UsageType)

	assert.True(t, materialRepo.material.CurrentStock.Equal(decimal.NewFromInt(30)))
	assert.Len(t, movRepo.created, 1)
}

func TestCreateStockOut_StockInsuficiente400(t *testing.T) {
	app, movRepo, materialRepo := buildAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/stock-out", tokenForRole(t, entity.RoleBodeguero), fiber.Map{
		"material_id": stubMaterialID,
		"quantity":    60,
		"usage_type":  "sale",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "stock insuficiente para la cantidad solicitada", env.Message)

	assert.True(t, materialRepo.material.CurrentStock.Equal(decimal.NewFromInt(50)), "el saldo no cambia")
	assert.Empty(t, movRepo.created, "la salida rechazada no toca el libro")
}

func TestCreateStockOut_MaterialInexistente404(t *testing.T) {
	app, _, _ := buildAPI(t)

	resp := doJSON(t, app, http.MethodPost, "/api/stock-out", tokenForRole(t, entity.RoleAdmin), fiber.Map{
		"material_id": "44444444-4444-4444-4444-444444444444",
		"quantity":    5,
		"usage_type":  "waste",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Materiales (solo lectura)
// ──────────────────────────────────────────────────────────────────────────────

func TestGetMaterial_DevuelveStockActual(t *testing.T) {
	app, _, _ := buildAPI(t)

	resp := doJSON(t, app, http.MethodGet, "/api/materials/"+stubMaterialID, tokenForRole(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	var data struct {
		Code         string          `json:"code"`
		CurrentStock decimal.Decimal `json:"current_stock"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "MAT-010", data.Code)
	assert.True(t, data.CurrentStock.Equal(decimal.NewFromInt(50)))
}

func TestGetMaterial_NoEncontrado404(t *testing.T) {
	app, _, _ := buildAPI(t)

	resp := doJSON(t, app, http.MethodGet, "/api/materials/no-existe", tokenForRole(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
