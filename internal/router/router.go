package router

import (
	"time"

	"avicola/internal/cache"
	"avicola/internal/config"
	"avicola/internal/handler"
	"avicola/internal/infra"
	"avicola/internal/metrics"
	"avicola/internal/middleware"
	"avicola/internal/repository"
	"avicola/internal/service"
	"avicola/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure handles built in cmd/. Redis and Mailer are
// optional: without Redis there is no alerts cache and no email queue.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Mailer   *infra.Mailer
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer // nil leaves /metrics unmounted
}

// Servicios is the service layer, shared by the HTTP engine, the alerts
// ticker and the maintenance commands.
type Servicios struct {
	Auth      service.AuthService
	Productos service.ProductoService
	Stock     service.StockService
	Partes    service.ParteService
	Facturas  service.FacturaService
	Pagos     service.PagoService
	Caja      service.CajaService
	Alertas   service.AlertaService
}

// NuevosServicios wires Service ← Repository ← DB/Redis.
func NuevosServicios(d Deps) *Servicios {
	cfg := d.Config

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(d.DB)
	productoRepo := repository.NewProductoRepository(d.DB)
	movRepo := repository.NewMovimientoStockRepository(d.DB)
	notifRepo := repository.NewNotificacionRepository(d.DB)
	parteRepo := repository.NewParteRepository(d.DB)
	facturaRepo := repository.NewFacturaRepository(d.DB)
	pagoRepo := repository.NewPagoRepository(d.DB)
	cajaRepo := repository.NewCajaRepository(d.DB)

	// ── Async infrastructure ─────────────────────────────────────────────────
	var (
		emails      service.EmailQueue
		alertaCache cache.AlertasCache = cache.NoopAlertasCache{}
	)
	if d.Redis != nil {
		emails = worker.NewDispatcher(d.Redis)
		alertaCache = cache.NewRedisAlertasCache(d.Redis)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	stock := service.NewStockService(productoRepo, movRepo, notifRepo, d.Metrics)
	facturas := service.NewFacturaService(facturaRepo, productoRepo, parteRepo, stock)

	return &Servicios{
		Auth: service.NewAuthService(usuarioRepo, cfg),
		Productos: service.NewProductoService(productoRepo, stock, service.ProductoDefaults{
			IVA:         cfg.IVADefault,
			StockMinimo: cfg.StockMinimoDefault,
		}),
		Stock:    stock,
		Partes:   service.NewParteService(parteRepo),
		Facturas: facturas,
		Pagos:    service.NewPagoService(pagoRepo, facturaRepo, parteRepo, cajaRepo, facturas, emails, d.Metrics),
		Caja:     service.NewCajaService(cajaRepo, d.Metrics),
		Alertas: service.NewAlertaService(productoRepo, facturaRepo, notifRepo, usuarioRepo, alertaCache, emails, service.AlertasConfig{
			DiasVencimiento: cfg.DiasFacturaVencida,
			CacheTTL:        time.Duration(cfg.AlertasCacheTTLSegundos) * time.Second,
			Destinatarios:   cfg.DestinatariosAlertas(),
		}),
	}
}

// New returns the configured Gin engine. Dependency graph:
// Handler ← Service ← Repository ← DB/Redis
func New(d Deps, s *Servicios) *gin.Engine {
	cfg := d.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Metrics))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.OrigenesCORS()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // per IP

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(s.Auth)
	usuariosH := handler.NewUsuariosHandler(s.Auth)
	productosH := handler.NewProductosHandler(s.Productos)
	stockH := handler.NewStockHandler(s.Stock)
	proveedoresH := handler.NewProveedoresHandler(s.Partes)
	clientesH := handler.NewClientesHandler(s.Partes)
	facturasH := handler.NewFacturasHandler(s.Facturas, s.Pagos)
	pagosH := handler.NewPagosHandler(s.Pagos, cfg.NombreEmpresa)
	cajaH := handler.NewCajaHandler(s.Caja, cfg.NombreEmpresa)
	alertasH := handler.NewAlertasHandler(s.Alertas)

	// ── Routes ───────────────────────────────────────────────────────────────

	var smtpCB *infra.CircuitBreaker
	if d.Mailer != nil {
		smtpCB = d.Mailer.Breaker()
	}
	r.GET("/health", handler.Health(d.DB, d.Redis, smtpCB))
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	todos := middleware.RequireRole(middleware.RolCajero, middleware.RolSupervisor, middleware.RolAdministrador)
	supervisores := middleware.RequireRole(middleware.RolSupervisor, middleware.RolAdministrador)
	admin := middleware.RequireRole(middleware.RolAdministrador)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}

		// Everyone reads the catalogue; only supervisors change it.
		prods := v1.Group("/productos")
		{
			prods.GET("", todos, productosH.Listar)
			prods.GET("/:id", todos, productosH.ObtenerPorID)
			prods.GET("/stock/movimientos", todos, stockH.ListarMovimientos)
			prods.POST("", supervisores, productosH.Crear)
			prods.PUT("/:id", supervisores, productosH.Actualizar)
			prods.DELETE("/:id", supervisores, productosH.Desactivar)
			prods.POST("/:id/ajuste-stock", supervisores, stockH.Ajustar)
		}

		for path, h := range map[string]*handler.PartesHandler{"/proveedores": proveedoresH, "/clientes": clientesH} {
			g := v1.Group(path)
			g.GET("", todos, h.Listar)
			g.GET("/:id", todos, h.ObtenerPorID)
			g.POST("", supervisores, h.Crear)
			g.PUT("/:id", supervisores, h.Actualizar)
			g.DELETE("/:id", supervisores, h.Desactivar)
		}

		facts := v1.Group("/facturas")
		{
			facts.POST("", todos, facturasH.Crear)
			facts.GET("", todos, facturasH.Listar)
			facts.GET("/:id", todos, facturasH.ObtenerPorID)
			facts.POST("/:id/pago-rapido", todos, facturasH.PagoRapido)
			facts.POST("/:id/anular", supervisores, facturasH.Anular)
			facts.DELETE("/:id", supervisores, facturasH.Eliminar)
			facts.POST("/recalcular-estados", admin, facturasH.RecalcularEstados)
		}

		pagos := v1.Group("/pagos")
		{
			pagos.POST("", todos, pagosH.Crear)
			pagos.GET("", todos, pagosH.Listar)
			pagos.GET("/:id", todos, pagosH.ObtenerPorID)
			pagos.GET("/:id/recibo.pdf", todos, pagosH.Recibo)
			pagos.POST("/:id/asignaciones", todos, pagosH.Asignar)
			pagos.POST("/:id/distribuir", todos, pagosH.Distribuir)
			pagos.DELETE("/asignaciones/:id", supervisores, pagosH.Desasignar)
			pagos.DELETE("/:id", supervisores, pagosH.Eliminar)
		}

		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", todos, cajaH.Abrir)
			caja.POST("/abrir-desde-ultimo-cierre", todos, cajaH.AbrirDesdeUltimoCierre)
			caja.GET("/activa", todos, cajaH.GetActiva)
			caja.GET("/ultimo-cierre", todos, cajaH.UltimoCierre)
			caja.POST("/:id/movimientos", todos, cajaH.RegistrarMovimiento)
			caja.POST("/:id/gastos", todos, cajaH.RegistrarGasto)
			caja.PUT("/gastos/:id", todos, cajaH.EditarGasto)
			caja.DELETE("/gastos/:id", supervisores, cajaH.EliminarGasto)
			caja.POST("/:id/cerrar", todos, cajaH.Cerrar)
			caja.GET("/:id", todos, cajaH.ObtenerResumen)
			caja.GET("/:id/arqueo.pdf", todos, cajaH.Arqueo)
			caja.GET("/historial", supervisores, cajaH.Historial)
			caja.GET("/reporte", supervisores, cajaH.Reporte)
			caja.GET("/verificar", supervisores, cajaH.Verificar)
		}

		v1.GET("/alertas", todos, alertasH.Obtener)
		v1.POST("/alertas/notificar", supervisores, alertasH.Notificar)
		v1.GET("/notificaciones", todos, alertasH.ListarNotificaciones)
		v1.PATCH("/notificaciones/:id/leida", todos, alertasH.MarcarLeida)
	}

	// Swagger UI only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
