package router

import (
	"time"

	"github.com/manucavallera/Sistema-Gestion-sub001/internal/config"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/handler"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/middleware"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/model"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/repository"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/service"
	"github.com/manucavallera/Sistema-Gestion-sub001/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Services is the service layer shared by the HTTP router and the background
// workers (estado de cuenta emails, vencimientos cron).
type Services struct {
	Auth        service.AuthService
	Clientes    service.ClienteService
	Proveedores service.ProveedorService
	Ventas      service.VentaService
	Compras     service.CompraService
	Cheques     service.ChequeService
	Movimientos service.MovimientoService
	Pagos       service.PagoService
	Cuentas     service.CuentaService
	Resumen     service.ResumenService
}

// NewServices wires repositories into services.
// Dependency graph: Service ← Repository ← DB/Redis
func NewServices(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *Services {
	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	chequeRepo := repository.NewChequeRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	resumenRepo := repository.NewResumenRepository(db)

	// Every balance change goes through this one helper.
	cuentas := service.NewCuentas(movimientoRepo, pagoRepo, clienteRepo, proveedorRepo)

	var encolador service.EstadoCuentaEncolador
	if dispatcher != nil {
		encolador = dispatcher
	}

	return &Services{
		Auth:        service.NewAuthService(usuarioRepo, cfg),
		Clientes:    service.NewClienteService(clienteRepo),
		Proveedores: service.NewProveedorService(proveedorRepo),
		Ventas:      service.NewVentaService(ventaRepo, cuentas),
		Compras:     service.NewCompraService(compraRepo, cuentas),
		Cheques:     service.NewChequeService(chequeRepo, movimientoRepo, cuentas),
		Movimientos: service.NewMovimientoService(movimientoRepo, cuentas),
		Pagos:       service.NewPagoService(pagoRepo, movimientoRepo, ventaRepo, compraRepo, cuentas),
		Cuentas:     service.NewCuentaService(clienteRepo, proveedorRepo, movimientoRepo, encolador),
		Resumen:     service.NewResumenService(resumenRepo, rdb, cfg.DiasAvisoVencimiento),
	}
}

// New returns a configured Gin engine serving svcs.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svcs *Services) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	if cfg.RateLimitPerMinute > 0 {
		api := middleware.APIRateLimiter(cfg.RateLimitPerMinute)
		api.StartPurge(5*time.Minute, nil)
		r.Use(api.Handler())
	}

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svcs.Auth)
	usuariosH := handler.NewUsuariosHandler(svcs.Auth)
	clientesH := handler.NewClientesHandler(svcs.Clientes, svcs.Cuentas)
	proveedoresH := handler.NewProveedoresHandler(svcs.Proveedores, svcs.Cuentas)
	ventasH := handler.NewVentasHandler(svcs.Ventas)
	comprasH := handler.NewComprasHandler(svcs.Compras)
	chequesH := handler.NewChequesHandler(svcs.Cheques, cfg.DiasAvisoVencimiento)
	movimientosH := handler.NewMovimientosHandler(svcs.Movimientos)
	pagosH := handler.NewPagosHandler(svcs.Pagos)
	resumenH := handler.NewResumenHandler(svcs.Resumen)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	login := middleware.LoginRateLimiter()
	login.StartPurge(5*time.Minute, nil)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", login.Handler(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes: both roles operate the back-office; only
	// administrador manages users.
	v1 := r.Group("/v1",
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(model.RolAdministrador, model.RolOperador),
	)
	{
		cli := v1.Group("/clientes")
		{
			cli.POST("", clientesH.Crear)
			cli.GET("", clientesH.Listar)
			cli.GET("/:id", clientesH.ObtenerPorID)
			cli.PUT("/:id", clientesH.Actualizar)
			cli.DELETE("/:id", clientesH.Eliminar)
			cli.GET("/:id/cuenta", clientesH.EstadoCuenta)
			cli.GET("/:id/cuenta/xlsx", clientesH.ExportarCuenta)
			cli.POST("/:id/cuenta/enviar", clientesH.EnviarCuenta)
		}

		prov := v1.Group("/proveedores")
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.ObtenerPorID)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Eliminar)
			prov.GET("/:id/cuenta", proveedoresH.EstadoCuenta)
			prov.GET("/:id/cuenta/xlsx", proveedoresH.ExportarCuenta)
			prov.POST("/:id/cuenta/enviar", proveedoresH.EnviarCuenta)
		}

		ventas := v1.Group("/ventas")
		{
			ventas.POST("", ventasH.Registrar)
			ventas.GET("", ventasH.Listar)
			ventas.GET("/:id", ventasH.ObtenerPorID)
			ventas.PUT("/:id", ventasH.Actualizar)
			ventas.DELETE("/:id", ventasH.Anular)
		}

		compras := v1.Group("/compras")
		{
			compras.POST("", comprasH.Registrar)
			compras.GET("", comprasH.Listar)
			compras.GET("/:id", comprasH.ObtenerPorID)
			compras.PUT("/:id", comprasH.Actualizar)
			compras.DELETE("/:id", comprasH.Anular)
		}

		cheques := v1.Group("/cheques")
		{
			cheques.POST("", chequesH.Crear)
			cheques.GET("", chequesH.Listar)
			cheques.GET("/por-vencer", chequesH.PorVencer)
			cheques.GET("/:id", chequesH.ObtenerPorID)
			cheques.PUT("/:id", chequesH.Actualizar)
			cheques.DELETE("/:id", chequesH.Eliminar)
			cheques.POST("/:id/endosar", chequesH.Endosar)
		}

		movs := v1.Group("/movimientos")
		{
			movs.POST("", movimientosH.Crear)
			movs.GET("", movimientosH.Listar)
			movs.GET("/:id", movimientosH.ObtenerPorID)
			movs.PUT("/:id", movimientosH.Actualizar)
			movs.DELETE("/:id", movimientosH.Eliminar)
		}

		pagos := v1.Group("/pagos")
		{
			pagos.POST("", pagosH.Registrar)
			pagos.GET("", pagosH.Listar)
			pagos.GET("/:id", pagosH.ObtenerPorID)
			pagos.DELETE("/:id", pagosH.Eliminar)
		}

		v1.GET("/resumen", resumenH.Obtener)

		usuarios := v1.Group("/usuarios", middleware.RequireRole(model.RolAdministrador))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}
	}

	// Swagger UI; only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
