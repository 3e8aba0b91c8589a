package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/justicia-digital/procesos-api/api/swagger"
	"github.com/justicia-digital/procesos-api/internal/handler"
	"github.com/justicia-digital/procesos-api/internal/middleware"
	"github.com/justicia-digital/procesos-api/internal/models"
	"github.com/justicia-digital/procesos-api/internal/repository"
	"github.com/justicia-digital/procesos-api/internal/service"
	"github.com/justicia-digital/procesos-api/pkg/cache"
	"github.com/justicia-digital/procesos-api/pkg/config"
	"github.com/justicia-digital/procesos-api/pkg/database"
	"github.com/justicia-digital/procesos-api/pkg/jobs"
	"github.com/justicia-digital/procesos-api/pkg/logger"
	corsmiddleware "github.com/justicia-digital/procesos-api/pkg/middleware/cors"
	reqidmiddleware "github.com/justicia-digital/procesos-api/pkg/middleware/requestid"
)

// @title Procesos Judiciales API
// @version 1.0.0
// @description Gestión de procesos civiles: expedientes, demandas, plazos procesales y calendario de días hábiles
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The holiday cache is an optimisation; the API serves without it.
		logr.Warn("redis unavailable, holiday cache disabled", zap.Error(err))
		redisClient = nil
	}

	// Repositories.
	procesoRepo := repository.NewProcesoRepository(db)
	parteRepo := repository.NewParteRepository(db)
	plazoRepo := repository.NewPlazoRepository(db)
	demandaRepo := repository.NewDemandaRepository(db)
	actuacionRepo := repository.NewActuacionRepository(db)
	feriadoRepo := repository.NewFeriadoRepository(db)
	notificacionRepo := repository.NewNotificacionRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services.
	metricsSvc := service.NewMetricsService()
	notificacionSvc := service.NewNotificacionService(notificacionRepo, jobs.QueueConfig{
		Workers:    cfg.Notificaciones.Workers,
		BufferSize: cfg.Notificaciones.BufferSize,
		MaxRetries: cfg.Notificaciones.MaxRetries,
		RetryDelay: cfg.Notificaciones.RetryDelay,
		Logger:     logr,
	}, logr)
	calendarioSvc := service.NewCalendarioService(feriadoRepo, redisClient, cfg.Plazos.FeriadosTTL, logr)
	plazoSvc := service.NewPlazoService(plazoRepo, parteRepo, calendarioSvc, notificacionSvc, metricsSvc, cfg.Plazos.AlertThresholds, logr)
	procesoSvc := service.NewProcesoService(procesoRepo, parteRepo, actuacionRepo, demandaRepo, plazoSvc, notificacionSvc, metricsSvc, nil, logr)
	validador := service.NewValidadorDemanda(cfg.Validacion.ChecklistVersion)
	demandaSvc := service.NewDemandaService(demandaRepo, procesoRepo, procesoSvc, validador, nil, logr)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "procesos-api",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notificacionSvc.Start(ctx)
	defer notificacionSvc.Stop()

	if cfg.Plazos.SweepEnabled {
		go runSweep(ctx, plazoSvc, cfg.Plazos.SweepInterval, logr)
	}

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	procesoHandler := handler.NewProcesoHandler(procesoSvc)
	plazoHandler := handler.NewPlazoHandler(plazoSvc)
	demandaHandler := handler.NewDemandaHandler(demandaSvc)
	feriadoHandler := handler.NewFeriadoHandler(calendarioSvc)
	notificacionHandler := handler.NewNotificacionHandler(notificacionSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		procesos := protected.Group("/procesos")
		{
			procesos.POST("", middleware.RequireRoles(models.RoleAbogado, models.RoleSecretario), procesoHandler.Create)
			procesos.GET("", procesoHandler.List)
			procesos.GET("/:id", procesoHandler.Get)
			procesos.POST("/:id/transicion", procesoHandler.Transicionar)
			procesos.GET("/:id/estados-siguientes", procesoHandler.EstadosSiguientes)
			procesos.POST("/:id/partes", middleware.RequireRoles(models.RoleAbogado, models.RoleSecretario), procesoHandler.RegistrarParte)

			procesos.POST("/:id/demanda", middleware.RequireRoles(models.RoleAbogado), demandaHandler.Registrar)
			procesos.PUT("/:id/demanda", middleware.RequireRoles(models.RoleAbogado), demandaHandler.Actualizar)
			procesos.GET("/:id/demanda", demandaHandler.Get)
			procesos.GET("/:id/demanda/validar", demandaHandler.Validar)
			procesos.POST("/:id/demanda/presentar", middleware.RequireRoles(models.RoleAbogado), demandaHandler.Presentar)

			procesos.GET("/:id/plazos", plazoHandler.Activos)
			procesos.GET("/:id/plazos/urgente", plazoHandler.MasUrgente)
		}

		plazos := protected.Group("/plazos")
		{
			plazos.POST("/:id/cumplir", middleware.RequireRoles(models.RoleSecretario, models.RoleJuez), plazoHandler.MarcarCumplido)
			plazos.POST("/sweep", middleware.RequireRoles(models.RoleSecretario), plazoHandler.Sweep)
		}

		feriados := protected.Group("/feriados")
		{
			feriados.GET("", feriadoHandler.List)
			feriados.POST("", middleware.RequireRoles(models.RoleSecretario), feriadoHandler.Create)
			feriados.DELETE("/:id", middleware.RequireRoles(models.RoleSecretario), feriadoHandler.Delete)
		}

		notificaciones := protected.Group("/notificaciones")
		{
			notificaciones.GET("", notificacionHandler.List)
			notificaciones.POST("/:id/leida", notificacionHandler.MarcarLeida)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// runSweep drives the daily deadline review until the context ends.
func runSweep(ctx context.Context, plazos *service.PlazoService, interval time.Duration, logr *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := plazos.Sweep(ctx); err != nil {
				logr.Error("sweep de plazos falló", zap.Error(err))
			}
		}
	}
}
