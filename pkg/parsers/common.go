package parsers

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "knoxshield/pkg/errors"
	"knoxshield/pkg/logger"
)

type ConfigParser interface {
	Parse(content []byte) (*VPNConfig, error)
}

type WireGuardParser struct {
	logger *logger.Logger
}

type OpenVPNParser struct {
	logger *logger.Logger
}

func NewWireGuardParser(log *logger.Logger) *WireGuardParser {
	if log == nil {
		log = logger.Default()
	}
	return &WireGuardParser{logger: log}
}

func NewOpenVPNParser(log *logger.Logger) *OpenVPNParser {
	if log == nil {
		log = logger.Default()
	}
	return &OpenVPNParser{logger: log}
}

// ProtocolFor maps a config file name to its protocol by extension.
func ProtocolFor(fileName string) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".conf":
		return ProtocolWireGuard, nil
	case ".ovpn":
		return ProtocolOpenVPN, nil
	}
	return "", fmt.Errorf("%w: %s", apperrors.ErrUnsupportedConfig, fileName)
}

// ParserFor returns the parser for a config file name.
func ParserFor(fileName string, log *logger.Logger) (ConfigParser, error) {
	protocol, err := ProtocolFor(fileName)
	if err != nil {
		return nil, err
	}
	if protocol == ProtocolWireGuard {
		return NewWireGuardParser(log), nil
	}
	return NewOpenVPNParser(log), nil
}

func (p *WireGuardParser) Parse(content []byte) (*VPNConfig, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("%w: empty wireguard config", apperrors.ErrUnsupportedConfig)
	}

	cfg := &VPNConfig{Protocol: ProtocolWireGuard}
	section := ""
	sawInterface := false

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := stripComment(scanner.Text(), "#")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.Trim(line, "[]"))
			if section == "interface" {
				sawInterface = true
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch {
		case section == "interface" && key == "address":
			cfg.Addresses = append(cfg.Addresses, splitList(value)...)
		case section == "interface" && key == "dns":
			cfg.DNS = append(cfg.DNS, splitList(value)...)
		case section == "peer" && key == "allowedips":
			cfg.AllowedIPs = append(cfg.AllowedIPs, splitList(value)...)
		case section == "peer" && key == "endpoint":
			ep, err := parseHostPort(value, DefaultWireGuardPort)
			if err != nil {
				p.logger.WithFields(logger.Fields{"endpoint": value}).Warn("Ignoring malformed WireGuard endpoint")
				continue
			}
			ep.Proto = "udp"
			cfg.Endpoints = append(cfg.Endpoints, ep)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read wireguard config: %w", err)
	}
	if !sawInterface {
		return nil, fmt.Errorf("%w: missing [Interface] section", apperrors.ErrUnsupportedConfig)
	}

	cfg.Secrets = len(FindSecrets(string(content)))
	p.logger.WithFields(logger.Fields{
		"endpoints": len(cfg.Endpoints),
		"addresses": len(cfg.Addresses),
	}).Debug("Parsed WireGuard config")
	return cfg, nil
}

func (p *OpenVPNParser) Parse(content []byte) (*VPNConfig, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("%w: empty openvpn config", apperrors.ErrUnsupportedConfig)
	}

	cfg := &VPNConfig{Protocol: ProtocolOpenVPN}
	defaultPort := DefaultOpenVPNPort
	defaultProto := "udp"
	directives := 0
	inBlock := ""

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if inBlock != "" {
			if strings.EqualFold(line, "</"+inBlock+">") {
				inBlock = ""
			}
			continue
		}
		if strings.HasPrefix(line, "<") && strings.HasSuffix(line, ">") && !strings.HasPrefix(line, "</") {
			inBlock = strings.Trim(line, "<>")
			continue
		}
		line = stripComment(stripComment(line, "#"), ";")
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch strings.ToLower(fields[0]) {
		case "client", "remote", "dev", "proto", "port", "ca", "cert", "key", "auth-user-pass":
			directives++
		}

		switch strings.ToLower(fields[0]) {
		case "remote":
			if len(fields) < 2 {
				continue
			}
			ep := Endpoint{Host: fields[1]}
			if len(fields) > 2 {
				if port, err := strconv.Atoi(fields[2]); err == nil {
					ep.Port = port
				}
			}
			if len(fields) > 3 {
				ep.Proto = strings.ToLower(fields[3])
			}
			cfg.Endpoints = append(cfg.Endpoints, ep)
		case "port":
			if len(fields) > 1 {
				if port, err := strconv.Atoi(fields[1]); err == nil {
					defaultPort = port
				}
			}
		case "proto":
			if len(fields) > 1 {
				defaultProto = strings.ToLower(fields[1])
			}
		case "dev":
			if len(fields) > 1 {
				cfg.Device = fields[1]
			}
		case "dhcp-option":
			if len(fields) > 2 && strings.EqualFold(fields[1], "DNS") {
				cfg.DNS = append(cfg.DNS, fields[2])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read openvpn config: %w", err)
	}
	if directives == 0 {
		return nil, fmt.Errorf("%w: no openvpn directives found", apperrors.ErrUnsupportedConfig)
	}

	for i := range cfg.Endpoints {
		if cfg.Endpoints[i].Port == 0 {
			cfg.Endpoints[i].Port = defaultPort
		}
		if cfg.Endpoints[i].Proto == "" {
			cfg.Endpoints[i].Proto = defaultProto
		}
	}

	cfg.Secrets = len(FindSecrets(string(content)))
	p.logger.WithFields(logger.Fields{
		"endpoints": len(cfg.Endpoints),
		"device":    cfg.Device,
	}).Debug("Parsed OpenVPN config")
	return cfg, nil
}

func stripComment(line, marker string) string {
	if idx := strings.Index(line, marker); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseHostPort(value string, defaultPort int) (Endpoint, error) {
	host, portStr, err := net.SplitHostPort(value)
	if err != nil {
		if strings.Contains(err.Error(), "missing port") {
			return Endpoint{Host: strings.Trim(value, "[]"), Port: defaultPort}, nil
		}
		return Endpoint{}, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return Endpoint{}, fmt.Errorf("invalid port %q", portStr)
	}
	return Endpoint{Host: host, Port: port}, nil
}
