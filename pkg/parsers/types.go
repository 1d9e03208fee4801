package parsers

const (
	ProtocolWireGuard = "wireguard"
	ProtocolOpenVPN   = "openvpn"

	DefaultWireGuardPort = 51820
	DefaultOpenVPNPort   = 1194
)

// Endpoint is a remote VPN gateway.
type Endpoint struct {
	Host  string `json:"host"`
	Port  int    `json:"port"`
	Proto string `json:"proto,omitempty"`
}

// VPNConfig is the subset of a tunnel config needed to list and reach a server.
type VPNConfig struct {
	Protocol   string     `json:"protocol"`
	Endpoints  []Endpoint `json:"endpoints"`
	Addresses  []string   `json:"addresses,omitempty"`
	DNS        []string   `json:"dns,omitempty"`
	AllowedIPs []string   `json:"allowed_ips,omitempty"`
	Device     string     `json:"device,omitempty"`
	Secrets    int        `json:"secrets"`
}

// Primary returns the first endpoint, if any.
func (c *VPNConfig) Primary() (Endpoint, bool) {
	if c == nil || len(c.Endpoints) == 0 {
		return Endpoint{}, false
	}
	return c.Endpoints[0], true
}
