package handlers

import (
	"net/http"

	"knoxshield/internal/services"
	"knoxshield/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalog services.CatalogServiceMethods
	logger  *logger.Logger
}

func NewCatalogHandler(catalog services.CatalogServiceMethods, log *logger.Logger) *CatalogHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CatalogHandler{catalog: catalog, logger: log}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Categories(langOf(c)))
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.catalog.Category(c.Param("id"), langOf(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) GetTool(c *gin.Context) {
	tool, err := h.catalog.Tool(c.Param("category"), c.Param("tool"), langOf(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get tool")
		return
	}
	c.JSON(http.StatusOK, tool)
}

// InstallTool starts the simulated download and answers with the tool in Loading state.
func (h *CatalogHandler) InstallTool(c *gin.Context) {
	if _, err := h.catalog.Tool(c.Param("category"), c.Param("tool"), ""); err != nil {
		respondError(c, h.logger, err, "Failed to install tool")
		return
	}
	tool, err := h.catalog.Install(c.Param("tool"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to install tool")
		return
	}
	h.logger.WithField("tool_id", tool.ID).Info("Tool install started")
	c.JSON(http.StatusAccepted, tool)
}
