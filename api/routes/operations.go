package routes

import (
	"knoxshield/internal/handlers"

	"github.com/gin-gonic/gin"
)

func InitCatalogRoutes(router *gin.RouterGroup, deps Deps) {
	h := handlers.NewCatalogHandler(deps.Catalog, deps.Logger)

	router.GET("/categories", h.ListCategories)
	router.GET("/categories/:id", h.GetCategory)

	toolRoutes := router.Group("/tools")
	{
		toolRoutes.GET("/:category/:tool", h.GetTool)
		toolRoutes.POST("/:category/:tool/install", h.InstallTool)
	}
}

func InitOperationRoutes(router *gin.RouterGroup, deps Deps) {
	h := handlers.NewOperationHandler(deps.Operations, deps.AI, deps.Logger)

	opRoutes := router.Group("/operations")
	{
		opRoutes.POST("", h.StartOperation)
		opRoutes.GET("", h.ListOperations)
		opRoutes.GET("/stats", h.Stats)
		opRoutes.GET("/:id", h.GetOperation)
		opRoutes.POST("/:id/actions", h.ApplyAction)
		opRoutes.DELETE("/:id", h.DeleteOperation)
		opRoutes.POST("/:id/analyze", h.Analyze)
	}

	if deps.AI == nil {
		return
	}
	ai := handlers.NewAIHandler(deps.AI, deps.Logger)
	chatRoutes := router.Group("/ai/chat")
	{
		chatRoutes.POST("", ai.Chat)
		chatRoutes.GET("/:tool", ai.History)
		chatRoutes.DELETE("/:tool", ai.ResetChat)
	}
}
