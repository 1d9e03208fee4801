package models

import (
	"time"

	"knoxshield/pkg/logger"
)

type VPNProtocol string

const (
	ProtocolWireGuard VPNProtocol = "wireguard"
	ProtocolOpenVPN   VPNProtocol = "openvpn"
)

type VPNServer struct {
	ID            string      `gorm:"primaryKey;type:varchar(255)" json:"id"`
	Name          string      `json:"name"`
	Location      string      `json:"location"`
	Protocol      VPNProtocol `gorm:"type:varchar(16)" json:"protocol"`
	ConfigPath    string      `json:"configPath"`
	Imported      bool        `json:"imported"`
	ImportDate    time.Time   `json:"importDate"`
	EndpointHost  string      `json:"endpointHost,omitempty"`
	EndpointPort  int         `json:"endpointPort,omitempty"`
	// udp, tcp or tcp-client as written in the config.
	EndpointProto string      `gorm:"type:varchar(16)" json:"endpointProto,omitempty"`
	CreatedAt     int64       `gorm:"autoCreateTime:milli" json:"created_at"`
	UpdatedAt     int64       `gorm:"autoUpdateTime:milli" json:"updated_at"`
}

// VPNLogEntry is one line of the VPN event log.
type VPNLogEntry = logger.EventEntry

const (
	VPNConnected     = "Connected"
	VPNDisconnected  = "Disconnected"
	VPNConnecting    = "Connecting"
	VPNDisconnecting = "Disconnecting"
)

type VPNStatus struct {
	Connected        bool       `json:"connected"`
	Status           string     `json:"status"`
	ServerID         string     `json:"serverId,omitempty"`
	ServerName       string     `json:"serverName,omitempty"`
	CurrentIP        string     `json:"currentIP"`
	KillSwitchActive bool       `json:"killSwitchActive"`
	ConnectedSince   *time.Time `json:"connectedSince,omitempty"`
	Error            string     `json:"error,omitempty"`
}

type RealtimeData struct {
	CurrentIP          string  `json:"currentIP"`
	Country            string  `json:"country"`
	City               string  `json:"city"`
	ConnectionDuration int64   `json:"connectionDuration"`
	DownloadSpeed      float64 `json:"downloadSpeed"`
	UploadSpeed        float64 `json:"uploadSpeed"`
	BytesReceived      uint64  `json:"bytesReceived"`
	BytesSent          uint64  `json:"bytesSent"`
}

type VPNSettings struct {
	KillSwitchOnDisconnect bool `json:"killSwitchOnDisconnect"`
}

// VPNInitialData is everything a client needs to render the VPN dashboard.
type VPNInitialData struct {
	Servers  []VPNServer   `json:"servers"`
	Status   VPNStatus     `json:"status"`
	Logs     []VPNLogEntry `json:"logs"`
	Settings VPNSettings   `json:"settings"`
}

type PingResult struct {
	ServerID  string  `json:"serverId"`
	Transport string  `json:"transport"`
	LatencyMs float64 `json:"latencyMs"`
	Reachable bool    `json:"reachable"`
	Note      string  `json:"note,omitempty"`
	Error     string  `json:"error,omitempty"`
}
