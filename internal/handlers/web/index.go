package web

import (
	"net/http"

	"knoxshield/internal/i18n"
	"knoxshield/internal/services"
	"knoxshield/pkg/logger"
	"knoxshield/templates"

	"github.com/gin-gonic/gin"
)

type IndexHandler struct {
	catalog    services.CatalogServiceMethods
	operations services.OperationServiceMethods
	logger     *logger.Logger
}

func NewIndexHandler(catalog services.CatalogServiceMethods, operations services.OperationServiceMethods, log *logger.Logger) *IndexHandler {
	if log == nil {
		log = logger.Default()
	}
	return &IndexHandler{catalog: catalog, operations: operations, logger: log}
}

func (h *IndexHandler) HomePage(c *gin.Context) {
	lang := pageLang(c)
	categories := h.catalog.Categories(lang)
	h.logger.WithFields(logger.Fields{"categories": len(categories), "lang": lang}).Debug("Rendering dashboard")

	c.Status(http.StatusOK)
	if err := templates.Dashboard(categories, h.operations.Stats(), lang).Render(c, c.Writer); err != nil {
		h.logger.WithFields(logger.Fields{"error": err}).Error("Failed to render dashboard template")
		c.Status(http.StatusInternalServerError)
	}
}

// pageLang prefers the language set by the handlers.Language middleware.
func pageLang(c *gin.Context) string {
	if lang := c.GetString("lang"); lang != "" {
		return lang
	}
	if lang := c.Query("lang"); lang != "" {
		return i18n.Match(lang)
	}
	return i18n.Match(c.GetHeader("Accept-Language"))
}
