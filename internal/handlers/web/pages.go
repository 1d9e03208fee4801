package web

import (
	"net/http"

	"knoxshield/internal/services"
	"knoxshield/pkg/logger"
	"knoxshield/templates"

	"github.com/gin-gonic/gin"
)

type OperationsWebHandler struct {
	operations services.OperationServiceMethods
	logger     *logger.Logger
}

func NewOperationsWebHandler(operations services.OperationServiceMethods, log *logger.Logger) *OperationsWebHandler {
	if log == nil {
		log = logger.Default()
	}
	return &OperationsWebHandler{operations: operations, logger: log}
}

func (h *OperationsWebHandler) OperationsPage(c *gin.Context) {
	ops := h.operations.ListOperations()
	h.logger.WithFields(logger.Fields{"operation_count": len(ops)}).Debug("Rendering operations page")

	c.Status(http.StatusOK)
	if err := templates.Operations(ops, pageLang(c)).Render(c, c.Writer); err != nil {
		h.logger.WithFields(logger.Fields{"error": err}).Error("Failed to render operations template")
		c.Status(http.StatusInternalServerError)
	}
}

type VPNWebHandler struct {
	vpn    services.VPNServiceMethods
	logger *logger.Logger
}

func NewVPNWebHandler(vpn services.VPNServiceMethods, log *logger.Logger) *VPNWebHandler {
	if log == nil {
		log = logger.Default()
	}
	return &VPNWebHandler{vpn: vpn, logger: log}
}

func (h *VPNWebHandler) VPNPage(c *gin.Context) {
	c.Status(http.StatusOK)
	if err := templates.VPN(h.vpn.InitialData(), pageLang(c)).Render(c, c.Writer); err != nil {
		h.logger.WithFields(logger.Fields{"error": err}).Error("Failed to render vpn template")
		c.Status(http.StatusInternalServerError)
	}
}
