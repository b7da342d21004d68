//go:build integration

package router

// Full stack against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"avicola/internal/config"
	"avicola/internal/dto"
	"avicola/internal/infra"
	"avicola/internal/metrics"
	"avicola/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type buzon struct {
	mu       sync.Mutex
	mensajes []dto.EmailMensaje
}

func (b *buzon) Send(msg dto.EmailMensaje) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mensajes = append(b.mensajes, msg)
	return nil
}

func (b *buzon) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.mensajes)
}

type testEnv struct {
	server *httptest.Server
	token  string
	rdb    *redis.Client
	buzon  *buzon
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("avicola_test"),
		tcPostgres.WithUsername("avicola"),
		tcPostgres.WithPassword("avicola"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })
	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })
	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                     "test",
		JWTSecret:               "test-secret-key",
		JWTExpirationHours:      8,
		JWTRefreshHours:         24,
		DatabaseURL:             pgURL,
		RedisURL:                rdURL,
		WorkerPoolSize:          1,
		DiasFacturaVencida:      30,
		IVADefault:              10,
		StockMinimoDefault:      10,
		AlertasCacheTTLSegundos: 60,
		NombreEmpresa:           "Avícola E2E",
	}

	db, err := infra.NewDatabase(pgURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	rdb, err := infra.NewRedis(rdURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	reg := prometheus.NewRegistry()
	deps := Deps{Config: cfg, DB: db, Redis: rdb, Metrics: metrics.New(reg), Gatherer: reg}
	svc := NuevosServicios(deps)

	b := &buzon{}
	wctx, cancel := context.WithCancel(ctx)
	pool := worker.NewPool(rdb)
	pool.Register(worker.QueueEmail, worker.NewEmailWorker(b, deps.Metrics), worker.MaxEmailAttempts)
	pool.Start(wctx, 1)
	t.Cleanup(func() { cancel(); pool.Wait() })

	_, err = svc.Auth.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: "admin", Nombre: "Admin", Password: "clave-segura", Rol: "administrador",
	})
	require.NoError(t, err)

	srv := httptest.NewServer(New(deps, svc))
	t.Cleanup(srv.Close)

	env := &testEnv{server: srv, rdb: rdb, buzon: b}
	var login dto.LoginResponse
	env.call(t, http.MethodPost, "/v1/auth/login", dto.LoginRequest{Username: "admin", Password: "clave-segura"}, http.StatusOK, &login)
	env.token = login.AccessToken
	return env
}

func (e *testEnv) call(t *testing.T, method, path string, body any, want int, dest any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw json.RawMessage
	_ = json.NewDecoder(resp.Body).Decode(&raw)
	require.Equal(t, want, resp.StatusCode, "%s %s: %s", method, path, string(raw))
	if dest != nil {
		require.NoError(t, json.Unmarshal(raw, dest))
	}
}

func TestE2E_VentaCobroYRecibo(t *testing.T) {
	e := setupTestEnv(t)

	var caja dto.CajaResumenResponse
	e.call(t, http.MethodPost, "/v1/caja/abrir", dto.AbrirCajaRequest{
		Denominaciones: []dto.DenominacionRequest{{Valor: 50000, Cantidad: 2}},
	}, http.StatusCreated, &caja)

	email := "cliente@avicola.test"
	var cli dto.ParteResponse
	e.call(t, http.MethodPost, "/v1/clientes", dto.CrearParteRequest{Nombre: "Despensa Sur", RUC: "4444444-4", Email: &email}, http.StatusCreated, &cli)

	var prod dto.ProductoResponse
	e.call(t, http.MethodPost, "/v1/productos", dto.CrearProductoRequest{Codigo: "MUSLO", Nombre: "Muslo de pollo", Costo: 12000, Precio: 22000, Stock: 50}, http.StatusCreated, &prod)

	var fact dto.FacturaResponse
	e.call(t, http.MethodPost, "/v1/facturas", dto.CrearFacturaRequest{
		Tipo:      "venta",
		ClienteID: &cli.ID,
		Detalles:  []dto.DetalleFacturaRequest{{ProductoID: prod.ID, Cantidad: 5, PrecioUnitario: 22000}},
	}, http.StatusCreated, &fact)
	assert.EqualValues(t, 110000, fact.Total)

	billete := int64(120000)
	var rapido dto.PagoRapidoResponse
	e.call(t, http.MethodPost, "/v1/facturas/"+fact.ID+"/pago-rapido", dto.PagoRapidoRequest{
		Monto: 110000, Metodo: "efectivo", MontoBillete: &billete,
	}, http.StatusCreated, &rapido)
	assert.EqualValues(t, 10000, rapido.Vuelto)
	assert.Equal(t, "pagada", rapido.Factura.Estado)

	// receipt email goes through Redis and the pool
	assert.Eventually(t, func() bool { return e.buzon.total() == 1 }, 15*time.Second, 100*time.Millisecond)

	var resumen dto.CajaResumenResponse
	e.call(t, http.MethodGet, "/v1/caja/"+caja.ID, nil, http.StatusOK, &resumen)
	assert.EqualValues(t, 110000, resumen.TotalIngresos)
	assert.EqualValues(t, 210000, resumen.SaldoActual)

	var cerrada dto.CajaResumenResponse
	e.call(t, http.MethodPost, "/v1/caja/"+caja.ID+"/cerrar", dto.CerrarCajaRequest{
		Denominaciones: []dto.DenominacionRequest{{Valor: 100000, Cantidad: 2}, {Valor: 10000, Cantidad: 1}},
	}, http.StatusOK, &cerrada)
	require.NotNil(t, cerrada.Desvio)
	assert.Equal(t, "normal", cerrada.Desvio.Clasificacion)

	var ultimo dto.UltimoCierreResponse
	e.call(t, http.MethodGet, "/v1/caja/ultimo-cierre", nil, http.StatusOK, &ultimo)
	assert.EqualValues(t, 210000, ultimo.SaldoFinal)
}

// Concurrent allocations against one invoice serialize on its row lock:
// the total applied never exceeds the invoice total.
func TestE2E_AsignacionesConcurrentes(t *testing.T) {
	e := setupTestEnv(t)

	var prov dto.ParteResponse
	e.call(t, http.MethodPost, "/v1/proveedores", dto.CrearParteRequest{Nombre: "Granja Este", RUC: "80022222-2"}, http.StatusCreated, &prov)
	var prod dto.ProductoResponse
	e.call(t, http.MethodPost, "/v1/productos", dto.CrearProductoRequest{Codigo: "ALA", Nombre: "Alitas", Precio: 18000}, http.StatusCreated, &prod)
	var fact dto.FacturaResponse
	e.call(t, http.MethodPost, "/v1/facturas", dto.CrearFacturaRequest{
		Tipo:        "compra",
		ProveedorID: &prov.ID,
		Detalles:    []dto.DetalleFacturaRequest{{ProductoID: prod.ID, Cantidad: 10, PrecioUnitario: 11000}},
	}, http.StatusCreated, &fact)

	pagos := make([]string, 5)
	for i := range pagos {
		var p dto.PagoResponse
		e.call(t, http.MethodPost, "/v1/pagos", dto.CrearPagoRequest{
			MontoTotal: 50000, Metodo: "transferencia", ProveedorID: &prov.ID,
		}, http.StatusCreated, &p)
		pagos[i] = p.ID
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		oks int
	)
	for _, id := range pagos {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			body, _ := json.Marshal(dto.AsignarPagoRequest{FacturaID: fact.ID, Monto: 50000})
			req, _ := http.NewRequest(http.MethodPost, e.server.URL+"/v1/pagos/"+id+"/asignaciones", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+e.token)
			resp, err := e.server.Client().Do(req)
			if err != nil {
				return
			}
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				mu.Lock()
				oks++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 2, oks)
	var final dto.FacturaResponse
	e.call(t, http.MethodGet, "/v1/facturas/"+fact.ID, nil, http.StatusOK, &final)
	assert.EqualValues(t, 100000, final.TotalPagado)
	assert.EqualValues(t, 10000, final.SaldoPendiente)
	assert.Equal(t, "pendiente", final.Estado)
}

func TestE2E_AlertasCacheadasEnRedis(t *testing.T) {
	e := setupTestEnv(t)

	e.call(t, http.MethodPost, "/v1/productos", dto.CrearProductoRequest{Codigo: "HIG", Nombre: "Hígado", Precio: 9000, Stock: 2}, http.StatusCreated, nil)

	var a dto.AlertasResponse
	e.call(t, http.MethodGet, "/v1/alertas", nil, http.StatusOK, &a)
	require.Len(t, a.StockBajo, 1)

	n, err := e.rdb.Exists(context.Background(), "cache:alertas").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
