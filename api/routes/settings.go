package routes

import (
	"knoxshield/internal/handlers"

	"github.com/gin-gonic/gin"
)

func InitSettingsRoutes(router *gin.RouterGroup, deps Deps) {
	h := handlers.NewSettingsHandler(deps.Preferences, deps.Logger)

	router.GET("/settings", h.GetSettings)
	router.PUT("/settings", h.UpdateSettings)
	router.GET("/i18n/:lang", h.Translations)
}
