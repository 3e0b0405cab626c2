//go:build integration

package router_test

// End-to-end tests against real Postgres and Redis started with testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/config"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/infra"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/router"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

type idResp struct {
	ID           string  `json:"id"`
	MovimientoID *string `json:"movimiento_id"`
	Estado       string  `json:"estado"`
}

type cuentaResp struct {
	Saldo decimal.Decimal `json:"saldo"`
	Debe  decimal.Decimal `json:"debe"`
	Haber decimal.Decimal `json:"haber"`
}

func assertSaldo(t *testing.T, env *testEnv, path, want string) {
	t.Helper()
	resp := do(t, env.server, http.MethodGet, path, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var c cuentaResp
	decodeJSON(t, resp, &c)
	assert.True(t, decimal.RequireFromString(want).Equal(c.Saldo), "%s: want saldo %s, got %s", path, want, c.Saldo)
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string
	db     *gorm.DB
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("gestion_test"),
		tcPostgres.WithUsername("gestion"),
		tcPostgres.WithPassword("gestion"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(pgC) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(rdC) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                 8000,
		Env:                  "test",
		CORSOrigins:          "*",
		JWTSecret:            "test-secret-key",
		JWTExpirationHours:   8,
		JWTRefreshHours:      24,
		DatabaseURL:          pgURL,
		RedisURL:             rdURL,
		WorkerPoolSize:       1,
		EmpresaNombre:        "Gestion Test",
		PDFStoragePath:       t.TempDir(),
		DiasAvisoVencimiento: 7,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-e2e-2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Username: "admin", Nombre: "Admin E2E", PasswordHash: string(hash),
		Rol: model.RolAdministrador, Activo: true,
	}).Error)

	svcs := router.NewServices(cfg, db, rdb, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(router.New(cfg, db, rdb, svcs))
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, http.MethodPost, "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "admin-e2e-2026"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken, db: db}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestMigraciones_ChequeConAmbosTitulares(t *testing.T) {
	env := setupTestEnv(t)
	cli := &model.Cliente{ID: uuid.New(), RazonSocial: "Almacen Don Pepe", Direccion: "San Martin 123", CUIT: "20123456786", Zona: "Centro"}
	prov := &model.Proveedor{ID: uuid.New(), RazonSocial: "Distribuidora Norte", Direccion: "Belgrano 50", CUIT: "30712345671", Zona: "Norte"}
	require.NoError(t, env.db.Create(cli).Error)
	require.NoError(t, env.db.Create(prov).Error)

	var n int64
	require.NoError(t, env.db.Raw(`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`,
		infra.ChequeTitularConstraint).Scan(&n).Error)
	assert.Equal(t, int64(1), n)

	nuevo := func(numero string, utilizado bool) *model.Cheque {
		return &model.Cheque{
			ID: uuid.New(), Banco: "Banco Nacion", Sucursal: "Centro", Numero: numero, Monto: decimal.NewFromInt(100),
			FechaEmision: time.Now(), FechaVencimiento: time.Now().AddDate(0, 0, 10),
			ClienteID: &cli.ID, ProveedorID: &prov.ID, Utilizado: utilizado,
		}
	}
	assert.Error(t, env.db.Omit("Cliente", "Proveedor").Create(nuevo("1", false)).Error)
	assert.NoError(t, env.db.Omit("Cliente", "Proveedor").Create(nuevo("2", true)).Error)
}

func TestE2E_CicloCuentaCorriente(t *testing.T) {
	env := setupTestEnv(t)
	hoy := time.Now().Format("2006-01-02")
	vence := time.Now().AddDate(0, 0, 20).Format("2006-01-02")

	// 1. Cliente and proveedor
	resp := do(t, env.server, http.MethodPost, "/v1/clientes", jsonBody(t, map[string]any{
		"razon_social": "Almacen Don Pepe", "direccion": "San Martin 123",
		"cuit": "20-12345678-6", "zona": "Centro", "email": "compras@donpepe.com.ar",
	}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cli idResp
	decodeJSON(t, resp, &cli)

	resp = do(t, env.server, http.MethodPost, "/v1/clientes", jsonBody(t, map[string]any{
		"razon_social": "Duplicado", "direccion": "x", "cuit": "20123456786", "zona": "Centro",
	}), env.token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodPost, "/v1/proveedores", jsonBody(t, map[string]any{
		"razon_social": "Distribuidora Norte", "direccion": "Ruta 9 km 3",
		"cuit": "30-71234567-1", "zona": "Norte",
	}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prov idResp
	decodeJSON(t, resp, &prov)

	// 2. Sale on cuenta corriente and a partial pago
	resp = do(t, env.server, http.MethodPost, "/v1/ventas", jsonBody(t, map[string]any{
		"cliente_id": cli.ID, "fecha": hoy, "total": "1000", "metodo_pago": "cuenta_corriente",
	}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var venta idResp
	decodeJSON(t, resp, &venta)
	require.NotNil(t, venta.MovimientoID)
	assert.Equal(t, "pendiente", venta.Estado)

	resp = do(t, env.server, http.MethodPost, "/v1/pagos", jsonBody(t, map[string]any{
		"movimiento_id": *venta.MovimientoID, "monto": "400", "metodo_pago": "efectivo",
	}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	assertSaldo(t, env, "/v1/clientes/"+cli.ID, "600")

	// Overpaying is rejected.
	resp = do(t, env.server, http.MethodPost, "/v1/pagos", jsonBody(t, map[string]any{
		"movimiento_id": *venta.MovimientoID, "monto": "601", "metodo_pago": "efectivo",
	}), env.token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// 3. Cheque received from the cliente, then endorsed to the proveedor
	resp = do(t, env.server, http.MethodPost, "/v1/cheques", jsonBody(t, map[string]any{
		"banco": "Banco Nacion", "sucursal": "Centro", "numero": "00012345", "monto": "200",
		"fecha_emision": hoy, "fecha_vencimiento": vence, "cliente_id": cli.ID,
	}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cheque idResp
	decodeJSON(t, resp, &cheque)
	assertSaldo(t, env, "/v1/clientes/"+cli.ID, "400")

	resp = do(t, env.server, http.MethodGet, "/v1/cheques/por-vencer?dias=30", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var porVencer []idResp
	decodeJSON(t, resp, &porVencer)
	assert.Len(t, porVencer, 1)

	resp = do(t, env.server, http.MethodPost, "/v1/cheques/"+cheque.ID+"/endosar",
		jsonBody(t, map[string]any{"proveedor_id": prov.ID}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assertSaldo(t, env, "/v1/proveedores/"+prov.ID, "200")

	// 4. Statement agrees with the cliente balance
	resp = do(t, env.server, http.MethodGet, "/v1/clientes/"+cli.ID+"/cuenta", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ec struct {
		Saldo  decimal.Decimal `json:"saldo"`
		Lineas []struct {
			Origen string `json:"origen"`
		} `json:"lineas"`
	}
	decodeJSON(t, resp, &ec)
	assert.True(t, decimal.NewFromInt(400).Equal(ec.Saldo), "saldo %s", ec.Saldo)
	assert.Len(t, ec.Lineas, 3)

	resp = do(t, env.server, http.MethodGet, "/v1/clientes/"+cli.ID+"/cuenta/xlsx", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "estado_cuenta_cliente_20123456786")
	resp.Body.Close()

	resp = do(t, env.server, http.MethodPost, "/v1/clientes/"+cli.ID+"/cuenta/enviar", nil, env.token)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp.Body.Close()

	// 5. A cliente with saldo cannot be deleted; voiding the sale reverts it
	resp = do(t, env.server, http.MethodDelete, "/v1/clientes/"+cli.ID, nil, env.token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodDelete, "/v1/ventas/"+venta.ID, nil, env.token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	assertSaldo(t, env, "/v1/clientes/"+cli.ID, "-200")

	resp = do(t, env.server, http.MethodGet, "/v1/ventas/"+venta.ID, nil, env.token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// 6. A purchase on cuenta corriente leaves us owing the proveedor 300
	resp = do(t, env.server, http.MethodPost, "/v1/compras", jsonBody(t, map[string]any{
		"proveedor_id": prov.ID, "total": "500", "metodo_pago": "cuenta_corriente",
	}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	assertSaldo(t, env, "/v1/proveedores/"+prov.ID, "-300")

	// 7. Dashboard
	resp = do(t, env.server, http.MethodGet, "/v1/resumen", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var resumen struct {
		DeudaProveedores    decimal.Decimal `json:"deuda_proveedores"`
		ProveedoresConSaldo int64           `json:"proveedores_con_saldo"`
		ClientesConSaldo    int64           `json:"clientes_con_saldo"`
		ChequesEnCartera    int64           `json:"cheques_en_cartera"`
	}
	decodeJSON(t, resp, &resumen)
	assert.Equal(t, int64(1), resumen.ProveedoresConSaldo)
	assert.True(t, decimal.NewFromInt(300).Equal(resumen.DeudaProveedores), "deuda %s", resumen.DeudaProveedores)
	assert.Zero(t, resumen.ClientesConSaldo)
	assert.Zero(t, resumen.ChequesEnCartera)
}

func TestE2E_SinTokenYRoles(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, http.MethodGet, "/v1/clientes", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodPost, "/v1/usuarios", jsonBody(t, map[string]any{
		"username": "operador1", "nombre": "Operador Uno", "password": "clave-larga", "rol": "operador",
	}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	login := do(t, env.server, http.MethodPost, "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "operador1", "password": "clave-larga"}), "")
	require.Equal(t, http.StatusOK, login.StatusCode)
	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, login, &body)

	resp = do(t, env.server, http.MethodGet, "/v1/usuarios", nil, body.AccessToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
