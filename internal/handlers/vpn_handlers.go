package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"knoxshield/internal/models"
	"knoxshield/internal/services"
	"knoxshield/pkg/logger"

	"github.com/gin-gonic/gin"
)

// maxConfigSize caps uploaded VPN configs.
const maxConfigSize = 1 << 20

type VPNHandler struct {
	vpn    services.VPNServiceMethods
	logger *logger.Logger
}

func NewVPNHandler(vpn services.VPNServiceMethods, log *logger.Logger) *VPNHandler {
	if log == nil {
		log = logger.Default()
	}
	return &VPNHandler{vpn: vpn, logger: log}
}

func (h *VPNHandler) InitialData(c *gin.Context) {
	c.JSON(http.StatusOK, h.vpn.InitialData())
}

// tunnelError reports a failed connect or disconnect together with the resulting status.
func (h *VPNHandler) tunnelError(c *gin.Context, err error, prefix string, st models.VPNStatus) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).Warn(prefix)
	}
	c.JSON(status, gin.H{"error": prefix + ": " + err.Error(), "status": st})
}

func (h *VPNHandler) Connect(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, h.logger, err)
		return
	}

	st, err := h.vpn.Connect(c.Request.Context(), req.ServerID)
	if err != nil {
		h.tunnelError(c, err, "VPN connection failed", st)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *VPNHandler) Disconnect(c *gin.Context) {
	st, err := h.vpn.Disconnect(c.Request.Context())
	if err != nil {
		h.tunnelError(c, err, "VPN disconnection failed", st)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *VPNHandler) KillSwitch(c *gin.Context) {
	var req KillSwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, h.logger, err)
		return
	}

	active, err := h.vpn.ToggleKillSwitch(c.Request.Context(), *req.Enable)
	if err != nil {
		h.logger.WithError(err).Warn("Kill switch toggle failed")
		c.JSON(statusFor(err), gin.H{"error": "Kill Switch operation failed: " + err.Error(), "active": active})
		return
	}
	c.JSON(http.StatusOK, KillSwitchResponse{Active: active})
}

func (h *VPNHandler) ListServers(c *gin.Context) {
	servers, err := h.vpn.Servers()
	if err != nil {
		respondError(c, h.logger, err, "Failed to list servers")
		return
	}
	c.JSON(http.StatusOK, servers)
}

// ImportServer accepts a .conf or .ovpn file in the multipart field "config".
func (h *VPNHandler) ImportServer(c *gin.Context) {
	file, err := c.FormFile("config")
	if err != nil {
		invalidPayload(c, h.logger, err)
		return
	}
	if file.Size > maxConfigSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Config file too large"})
		return
	}

	f, err := file.Open()
	if err != nil {
		respondError(c, h.logger, err, "Failed to read config")
		return
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxConfigSize))
	if err != nil {
		respondError(c, h.logger, err, "Failed to read config")
		return
	}

	server, err := h.vpn.ImportConfig(file.Filename, content)
	if err != nil {
		respondError(c, h.logger, err, "Failed to import config")
		return
	}
	c.JSON(http.StatusCreated, server)
}

func (h *VPNHandler) DeleteServer(c *gin.Context) {
	id := c.Param("id")
	if err := h.vpn.DeleteServer(id); err != nil {
		respondError(c, h.logger, err, "Failed to delete server")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}

func (h *VPNHandler) ServerQR(c *gin.Context) {
	size := services.DefaultQRSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 64 || n > 1024 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 64 and 1024"})
			return
		}
		size = n
	}

	png, err := h.vpn.ServerQR(c.Param("id"), size)
	if err != nil {
		respondError(c, h.logger, err, "Failed to render QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Ping reports an unreachable endpoint in the body rather than as a failure.
func (h *VPNHandler) Ping(c *gin.Context) {
	result, err := h.vpn.Ping(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to ping server")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *VPNHandler) Logs(c *gin.Context) {
	logs := h.vpn.Logs(c.Query("level"), c.Query("q"))
	if logs == nil {
		logs = []models.VPNLogEntry{}
	}
	c.JSON(http.StatusOK, logs)
}

func (h *VPNHandler) ClearLogs(c *gin.Context) {
	h.vpn.ClearLogs()
	c.Status(http.StatusNoContent)
}

func (h *VPNHandler) ExportLogs(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "txt"))
	contentType := "text/plain; charset=utf-8"
	switch format {
	case "txt":
	case "json":
		contentType = "application/json"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be txt or json"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=knox-vpn-logs.%s", format))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if err := h.vpn.ExportLogs(c.Writer, format); err != nil {
		h.logger.WithError(err).Error("Failed to export logs")
	}
}
