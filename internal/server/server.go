package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"anoa.com/mediannsp/internal/config"
	"anoa.com/mediannsp/internal/entity"
	"anoa.com/mediannsp/internal/middleware"
	"anoa.com/mediannsp/pkg/ratelimiter"
	"anoa.com/mediannsp/pkg/response"
	"anoa.com/mediannsp/pkg/storage"

	authHttp "anoa.com/mediannsp/internal/modules/auth/delivery/http"
	authService "anoa.com/mediannsp/internal/modules/auth/service"

	catalogHttp "anoa.com/mediannsp/internal/modules/catalog/delivery/http"
	catalogRepo "anoa.com/mediannsp/internal/modules/catalog/repository"
	catalogService "anoa.com/mediannsp/internal/modules/catalog/service"

	componentHttp "anoa.com/mediannsp/internal/modules/component/delivery/http"
	componentRepo "anoa.com/mediannsp/internal/modules/component/repository"
	componentService "anoa.com/mediannsp/internal/modules/component/service"

	contractHttp "anoa.com/mediannsp/internal/modules/contract/delivery/http"
	contractRepo "anoa.com/mediannsp/internal/modules/contract/repository"
	contractService "anoa.com/mediannsp/internal/modules/contract/service"

	deviceHttp "anoa.com/mediannsp/internal/modules/device/delivery/http"
	deviceRepo "anoa.com/mediannsp/internal/modules/device/repository"
	deviceService "anoa.com/mediannsp/internal/modules/device/service"

	photoHttp "anoa.com/mediannsp/internal/modules/photo/delivery/http"
	photoRepo "anoa.com/mediannsp/internal/modules/photo/repository"
	photoService "anoa.com/mediannsp/internal/modules/photo/service"

	printHttp "anoa.com/mediannsp/internal/modules/print/delivery/http"
	printService "anoa.com/mediannsp/internal/modules/print/service"

	searchHttp "anoa.com/mediannsp/internal/modules/search/delivery/http"
	searchService "anoa.com/mediannsp/internal/modules/search/service"

	userHttp "anoa.com/mediannsp/internal/modules/user/delivery/http"
	userRepo "anoa.com/mediannsp/internal/modules/user/repository"
	userService "anoa.com/mediannsp/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the shared resources the HTTP server is built from.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   *redis.Client
	Storage storage.ImageStorage
	Logger  *slog.Logger
}

type Server struct {
	engine *gin.Engine
	http   *http.Server
	logger *slog.Logger
}

func New(deps Deps) *Server {
	cfg := deps.Config

	userRepository := userRepo.NewUserRepository(deps.DB)
	tokens := authService.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	throttle := ratelimiter.NewLoginThrottle(deps.Redis, cfg.LoginMaxAttempts, cfg.LoginLockout)

	authHandler := authHttp.NewAuthHandler(authService.NewAuthService(userRepository, tokens, throttle, deps.Logger))
	userHandler := userHttp.NewUserHandler(userService.NewUserService(userRepository))

	roleHandler := catalogHttp.NewCatalogHandler(
		catalogService.NewCatalogService(catalogRepo.NewCatalogRepository[entity.Role](deps.DB), "Role"),
		"Role", "roles")
	deviceTypeHandler := catalogHttp.NewCatalogHandler(
		catalogService.NewCatalogService(catalogRepo.NewCatalogRepository[entity.DeviceType](deps.DB), "Device type"),
		"Device type", "device_types")
	componentTypeHandler := catalogHttp.NewCatalogHandler(
		catalogService.NewCatalogService(catalogRepo.NewCatalogRepository[entity.ComponentType](deps.DB), "Component type"),
		"Component type", "component_types")

	contractRepository := contractRepo.NewContractRepository(deps.DB)
	contractHandler := contractHttp.NewContractHandler(contractService.NewContractService(contractRepository))

	componentRepository := componentRepo.NewComponentRepository(deps.DB)
	componentHandler := componentHttp.NewComponentHandler(componentService.NewComponentService(componentRepository))

	deviceRepository := deviceRepo.NewDeviceRepository(deps.DB)
	deviceHandler := deviceHttp.NewDeviceHandler(deviceService.NewDeviceService(deviceRepository, componentRepository, contractRepository))

	photoSvc := photoService.NewPhotoService(photoRepo.NewPhotoRepository(deps.DB), deps.Storage, deps.Logger)
	photoHandler := photoHttp.NewPhotoHandler(photoSvc, cfg.MaxUploadSize)

	searchHandler := searchHttp.NewSearchHandler(searchService.NewSearchService(deviceRepository, componentRepository))
	printHandler := printHttp.NewPrintHandler(printService.NewPrintService(deviceRepository, componentRepository))

	router := gin.New()
	router.Use(middleware.Recovery(deps.Logger))
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.Metrics())

	router.Static("/uploads", cfg.UploadDir)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.NewAuthMiddleware(userRepository, tokens)
	adminOnly := middleware.RequirePermission(entity.PermAdmin)
	writers := middleware.RequirePermission(entity.PermWrite)

	api := router.Group("/api")
	api.GET("/health", health)

	// Public routes
	authHandler.Register(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		users := protected.Group("/users", adminOnly)
		{
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.POST("", userHandler.Create)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}

		roles := protected.Group("/roles", adminOnly)
		roleHandler.Register(roles, roles)

		deviceTypes := protected.Group("/device-types")
		deviceTypeHandler.Register(deviceTypes, deviceTypes.Group("", adminOnly))

		componentTypes := protected.Group("/component-types")
		componentTypeHandler.Register(componentTypes, componentTypes.Group("", adminOnly))

		devices := protected.Group("/devices")
		{
			devices.GET("", deviceHandler.List)
			devices.GET("/:id", deviceHandler.Get)
			devices.GET("/:id/components", deviceHandler.ListComponents)
			devices.POST("", writers, deviceHandler.Create)
			devices.PUT("/:id", writers, deviceHandler.Update)
			devices.POST("/:id/components", writers, deviceHandler.AddComponent)
			devices.DELETE("/:id/components/:componentId", writers, deviceHandler.RemoveComponent)
			devices.DELETE("/:id", adminOnly, deviceHandler.Delete)
		}

		components := protected.Group("/components")
		{
			components.GET("", componentHandler.List)
			components.GET("/:id", componentHandler.Get)
			components.POST("", writers, componentHandler.Create)
			components.PUT("/:id", writers, componentHandler.Update)
			components.DELETE("/:id", adminOnly, componentHandler.Delete)
		}

		contracts := protected.Group("/contracts")
		{
			contracts.GET("", contractHandler.List)
			contracts.GET("/:id", contractHandler.Get)
			contracts.POST("", writers, contractHandler.Create)
			contracts.PUT("/:id", writers, contractHandler.Update)
			contracts.DELETE("/:id", adminOnly, contractHandler.Delete)
		}

		// GET /photos/:id streams a file; GET /photos/:entityType/:entityId lists photos.
		photos := protected.Group("/photos")
		{
			photos.GET("/:id", photoHandler.File)
			photos.GET("/:id/:entityId", photoHandler.ListByEntity)
			photos.POST("", writers, photoHandler.Upload)
			photos.PUT("/:id/set-primary", writers, photoHandler.SetPrimary)
			photos.DELETE("/:id", writers, photoHandler.Delete)
		}

		searchHandler.Register(protected.Group("/search"))
		printHandler.Register(protected.Group("/print"))
	}

	router.NoRoute(func(c *gin.Context) {
		response.Abort(c, http.StatusNotFound, "Route not found")
	})

	return &Server{
		engine: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: deps.Logger,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("http server listening", slog.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC()})
}

// defaultOrigin is the Vite dev server of the web client.
const defaultOrigin = "http://localhost:5173"

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{defaultOrigin}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
