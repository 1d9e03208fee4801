package routes

import (
	"knoxshield/internal/handlers"

	"github.com/gin-gonic/gin"
)

func InitVPNRoutes(router *gin.RouterGroup, deps Deps) {
	h := handlers.NewVPNHandler(deps.VPN, deps.Logger)

	vpnRoutes := router.Group("/vpn")
	{
		vpnRoutes.GET("", h.InitialData)
		vpnRoutes.POST("/connect", h.Connect)
		vpnRoutes.POST("/disconnect", h.Disconnect)
		vpnRoutes.POST("/killswitch", h.KillSwitch)

		vpnRoutes.GET("/servers", h.ListServers)
		vpnRoutes.POST("/servers", h.ImportServer)
		vpnRoutes.DELETE("/servers/:id", h.DeleteServer)
		vpnRoutes.GET("/servers/:id/qr", h.ServerQR)
		vpnRoutes.GET("/servers/:id/ping", h.Ping)

		vpnRoutes.GET("/logs", h.Logs)
		vpnRoutes.DELETE("/logs", h.ClearLogs)
		vpnRoutes.GET("/logs/export", h.ExportLogs)
	}
}
