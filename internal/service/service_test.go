package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"avicola/internal/dto"
	"avicola/internal/metrics"
	"avicola/internal/model"
	"avicola/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database. A single connection makes
// transactions serialize the way row locks would on postgres.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

type colaEmails struct {
	mu       sync.Mutex
	mensajes []dto.EmailMensaje
	err      error
}

func (c *colaEmails) EnqueueEmail(_ context.Context, msg dto.EmailMensaje) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.mensajes = append(c.mensajes, msg)
	return nil
}

func (c *colaEmails) enviados() []dto.EmailMensaje {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]dto.EmailMensaje(nil), c.mensajes...)
}

type entorno struct {
	db      *gorm.DB
	usuario uuid.UUID
	emails  *colaEmails
	metrics *metrics.Metrics
	reg     *prometheus.Registry

	partesRepo repository.ParteRepository
	cajaRepo   repository.CajaRepository

	productos ProductoService
	partes    ParteService
	stock     StockService
	facturas  FacturaService
	pagos     PagoService
	caja      CajaService
	alertas   AlertaService
}

func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	db := newTestDB(t)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	emails := &colaEmails{}

	productoRepo := repository.NewProductoRepository(db)
	movRepo := repository.NewMovimientoStockRepository(db)
	notifRepo := repository.NewNotificacionRepository(db)
	parteRepo := repository.NewParteRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)

	stock := NewStockService(productoRepo, movRepo, notifRepo, m)
	facturas := NewFacturaService(facturaRepo, productoRepo, parteRepo, stock)

	return &entorno{
		db:         db,
		usuario:    uuid.New(),
		emails:     emails,
		metrics:    m,
		reg:        reg,
		partesRepo: parteRepo,
		cajaRepo:   cajaRepo,
		productos:  NewProductoService(productoRepo, stock, ProductoDefaults{IVA: model.IVA10, StockMinimo: 10}),
		partes:     NewParteService(parteRepo),
		stock:      stock,
		facturas:   facturas,
		pagos:      NewPagoService(pagoRepo, facturaRepo, parteRepo, cajaRepo, facturas, emails, m),
		caja:       NewCajaService(cajaRepo, m),
		alertas: NewAlertaService(productoRepo, facturaRepo, notifRepo, usuarioRepo, nil, emails,
			AlertasConfig{DiasVencimiento: 30, Destinatarios: []string{"admin@avicola.test"}}),
	}
}

var ctx = context.Background()

func (e *entorno) proveedor(t *testing.T, nombre string) uuid.UUID {
	t.Helper()
	p, err := e.partes.Crear(ctx, model.ParteProveedor, dto.CrearParteRequest{
		Nombre: nombre, RUC: "80000" + uuid.NewString()[:6],
	})
	require.NoError(t, err)
	return uuid.MustParse(p.ID)
}

func (e *entorno) cliente(t *testing.T, nombre string, email *string) uuid.UUID {
	t.Helper()
	c, err := e.partes.Crear(ctx, model.ParteCliente, dto.CrearParteRequest{
		Nombre: nombre, RUC: "40000" + uuid.NewString()[:6], Email: email,
	})
	require.NoError(t, err)
	return uuid.MustParse(c.ID)
}

func (e *entorno) producto(t *testing.T, codigo string, stock int) uuid.UUID {
	t.Helper()
	p, err := e.productos.Crear(ctx, e.usuario, dto.CrearProductoRequest{
		Codigo: codigo, Nombre: "Producto " + codigo, Costo: 10000, Precio: 15000, Stock: stock,
	})
	require.NoError(t, err)
	return uuid.MustParse(p.ID)
}

// compra creates a single-line purchase invoice of total (IVA included) dated fecha.
func (e *entorno) compra(t *testing.T, proveedorID, productoID uuid.UUID, total int64, fecha time.Time) *dto.FacturaResponse {
	t.Helper()
	pid := proveedorID.String()
	f, err := e.facturas.Crear(ctx, e.usuario, dto.CrearFacturaRequest{
		Tipo:        "compra",
		ProveedorID: &pid,
		Fecha:       &fecha,
		Detalles:    []dto.DetalleFacturaRequest{{ProductoID: productoID.String(), Cantidad: 1, PrecioUnitario: total}},
	})
	require.NoError(t, err)
	return f
}

func (e *entorno) venta(t *testing.T, clienteID, productoID uuid.UUID, cantidad int, precio int64) *dto.FacturaResponse {
	t.Helper()
	cid := clienteID.String()
	f, err := e.facturas.Crear(ctx, e.usuario, dto.CrearFacturaRequest{
		Tipo:      "venta",
		ClienteID: &cid,
		Detalles:  []dto.DetalleFacturaRequest{{ProductoID: productoID.String(), Cantidad: cantidad, PrecioUnitario: precio}},
	})
	require.NoError(t, err)
	return f
}

func (e *entorno) saldo(t *testing.T, tipo model.TipoParte, id uuid.UUID) int64 {
	t.Helper()
	p, err := e.partes.ObtenerPorID(ctx, tipo, id)
	require.NoError(t, err)
	return p.Saldo
}

func (e *entorno) factura(t *testing.T, id string) *dto.FacturaResponse {
	t.Helper()
	f, err := e.facturas.ObtenerPorID(ctx, uuid.MustParse(id))
	require.NoError(t, err)
	return f
}

func (e *entorno) stockDe(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := e.productos.ObtenerPorID(ctx, id)
	require.NoError(t, err)
	return p.Stock
}

func (e *entorno) nuevoPago(t *testing.T, monto int64, proveedorID *uuid.UUID, metodo string) *dto.PagoResponse {
	t.Helper()
	req := dto.CrearPagoRequest{MontoTotal: monto, Metodo: metodo}
	if proveedorID != nil {
		s := proveedorID.String()
		req.ProveedorID = &s
	}
	p, err := e.pagos.Crear(ctx, e.usuario, req)
	require.NoError(t, err)
	return p
}

func dias(n int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -n)
}
