package api

import (
	"github.com/Smashkat12/crechebooks-sub005/internal/api/handler"
	"github.com/Smashkat12/crechebooks-sub005/internal/api/middleware"
	"github.com/Smashkat12/crechebooks-sub005/internal/config"
	"github.com/Smashkat12/crechebooks-sub005/internal/logger"
	"github.com/Smashkat12/crechebooks-sub005/internal/service"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	setupService *service.SetupService,
	cfg *config.Config,
	log *logger.Logger,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	setupHandler := handler.NewSetupHandler(setupService)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes, tenant-scoped and token-protected
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.Auth.JWTSecret))
	{
		tenants := v1.Group("/tenants/:tenantId")

		// Payroll setup
		tenants.POST("/staff/:staffId/payroll-setup", setupHandler.StartSetup)
		tenants.GET("/staff/:staffId/payroll-setup", setupHandler.GetStatus)
		tenants.POST("/payroll-setup/:runId/retry", setupHandler.RetrySetup)
	}

	return r
}
