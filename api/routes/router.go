package routes

import (
	"knoxshield/internal/handlers"
	"knoxshield/internal/handlers/web"
	"knoxshield/internal/services"
	"knoxshield/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps carries the services the router exposes. VPN may be nil when the
// VPN module is disabled; its routes are then not registered.
type Deps struct {
	Catalog     services.CatalogServiceMethods
	Operations  services.OperationServiceMethods
	AI          services.AIServiceMethods
	Preferences services.PreferenceServiceMethods
	VPN         services.VPNServiceMethods
	Events      handlers.EventSource
	Logger      *logger.Logger
	CORSOrigins []string
}

func InitRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = logger.Default()
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(corsMiddleware(deps.CORSOrigins))
	router.Use(handlers.Language(deps.Preferences))

	// REST APIs
	api := router.Group("/api")
	{
		api.GET("/health", handlers.NewHealthHandler(deps.AI, deps.VPN != nil).Health)
		InitCatalogRoutes(api, deps)
		InitOperationRoutes(api, deps)
		InitSettingsRoutes(api, deps)
		if deps.VPN != nil {
			InitVPNRoutes(api, deps)
		}
		if deps.Events != nil {
			api.GET("/events", handlers.NewEventsHandler(deps.Events, deps.Logger).Stream)
		}
	}

	// web pages
	index := web.NewIndexHandler(deps.Catalog, deps.Operations, deps.Logger)
	operations := web.NewOperationsWebHandler(deps.Operations, deps.Logger)
	pages := router.Group("/")
	{
		pages.GET("/", index.HomePage)
		pages.GET("/operations", operations.OperationsPage)
		if deps.VPN != nil {
			pages.GET("/vpn", web.NewVPNWebHandler(deps.VPN, deps.Logger).VPNPage)
		}
	}

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Accept-Language", "HX-Request", "HX-Target", "HX-Trigger")
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.ExposeHeaders = []string{"Content-Disposition"}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
