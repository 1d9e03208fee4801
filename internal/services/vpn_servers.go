package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"knoxshield/internal/models"
	"knoxshield/internal/utils"
	apperrors "knoxshield/pkg/errors"
	output "knoxshield/pkg/io_utils"
	"knoxshield/pkg/parsers"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultQRSize = 256
	pingTimeout   = 3 * time.Second
)

func (s *vpnService) Servers() ([]models.VPNServer, error) {
	servers, err := s.servers.ListServers()
	if err != nil {
		return nil, err
	}
	if servers == nil {
		servers = []models.VPNServer{}
	}
	return servers, nil
}

func (s *vpnService) ImportConfig(fileName string, content []byte) (*models.VPNServer, error) {
	s.eventLog.Info("Config import requested", "IPC")

	server, err := s.importConfig(fileName, content)
	if err != nil {
		s.eventLog.Failure("Config import failed: "+err.Error(), "Import")
		return nil, err
	}

	s.eventLog.Success("Config imported successfully: "+filepath.Base(fileName), "Import")
	s.publishServers()
	return server, nil
}

func (s *vpnService) importConfig(fileName string, content []byte) (*models.VPNServer, error) {
	base := filepath.Base(fileName)
	protocol, err := parsers.ProtocolFor(base)
	if err != nil {
		return nil, err
	}
	parser, err := parsers.ParserFor(base, s.logger)
	if err != nil {
		return nil, err
	}
	cfg, err := parser.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnsupportedConfig, err)
	}

	now := s.now()
	id := fmt.Sprintf("%d_%s", now.UnixMilli(), base)
	server := &models.VPNServer{
		ID:         id,
		Name:       strings.TrimSuffix(base, filepath.Ext(base)),
		Location:   realtimeUnknown,
		Protocol:   models.VPNProtocol(protocol),
		ConfigPath: filepath.Join(s.configsDir, utils.SanitizeFileName(id)+".encrypted"),
		Imported:   true,
		ImportDate: now.UTC(),
	}
	if endpoint, ok := cfg.Primary(); ok {
		server.Location = endpoint.Host
		server.EndpointHost = endpoint.Host
		server.EndpointPort = endpoint.Port
		server.EndpointProto = endpoint.Proto
	}
	if cfg.Secrets > 0 {
		s.logger.WithField("server_id", id).WithField("secrets", cfg.Secrets).Debug("Config carries key material")
		s.logger.WithField("server_id", id).Trace(parsers.Redact(string(content)))
	}

	if err := os.MkdirAll(s.configsDir, 0700); err != nil {
		return nil, fmt.Errorf("create configs directory: %w", err)
	}
	if err := s.vault.EncryptFile(server.ConfigPath, content); err != nil {
		return nil, fmt.Errorf("encrypt config: %w", err)
	}
	if err := s.servers.SaveServer(server); err != nil {
		os.Remove(server.ConfigPath)
		return nil, fmt.Errorf("save server: %w", err)
	}
	if err := s.writeServersFile(); err != nil {
		s.logger.WithError(err).Warn("Failed to update servers index")
	}
	return server, nil
}

// ImportFile imports a config from disk.
func (s *vpnService) ImportFile(path string) (*models.VPNServer, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		s.eventLog.Failure("Config import failed: "+err.Error(), "Import")
		return nil, err
	}
	return s.ImportConfig(filepath.Base(path), content)
}

// watchImports imports configs dropped into the import directory and removes them.
func (s *vpnService) watchImports(ctx context.Context) error {
	s.logger.WithField("dir", s.importDir).Info("Watching for VPN configs")
	opts := output.WatchOptions{
		Extensions:      []string{".conf", ".ovpn"},
		IncludeExisting: true,
	}
	return output.WatchDirectory(ctx, s.importDir, opts, func(path string) {
		if _, err := s.ImportFile(path); err != nil {
			return
		}
		if err := os.Remove(path); err != nil {
			s.logger.WithError(err).WithField("path", path).Warn("Failed to remove imported config")
		}
	})
}

func (s *vpnService) DeleteServer(id string) error {
	s.eventLog.Info("Delete server request: "+id, "IPC")

	server, err := s.servers.GetServer(id)
	if err != nil {
		s.eventLog.Failure("Server deletion failed: "+err.Error(), "Delete")
		return err
	}

	if err := os.Remove(server.ConfigPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.eventLog.Failure("Server deletion failed: "+err.Error(), "Delete")
		return err
	}
	if err := s.servers.DeleteServer(id); err != nil {
		s.eventLog.Failure("Server deletion failed: "+err.Error(), "Delete")
		return err
	}
	if err := s.writeServersFile(); err != nil {
		s.logger.WithError(err).Warn("Failed to update servers index")
	}

	s.eventLog.Success("Server deleted successfully: "+server.Name, "Delete")
	s.publishServers()
	return nil
}

func (s *vpnService) publishServers() {
	servers, err := s.Servers()
	if err != nil {
		s.logger.WithError(err).Warn("Failed to list servers")
		return
	}
	s.events.Publish(TopicVPNServers, servers)
}

// writeServersFile mirrors the server list into servers.json.
func (s *vpnService) writeServersFile() error {
	servers, err := s.Servers()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(servers, "", "  ")
	if err != nil {
		return err
	}

	s.filesMu.Lock()
	defer s.filesMu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.serversFile), 0700); err != nil {
		return err
	}
	tmp := s.serversFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.serversFile)
}

// loadServersFile seeds the server store from servers.json entries it does not know yet.
func (s *vpnService) loadServersFile() {
	s.filesMu.Lock()
	data, err := os.ReadFile(s.serversFile)
	s.filesMu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		s.eventLog.Failure("Failed to load servers info: "+err.Error(), "Config")
		return
	}

	var servers []models.VPNServer
	if err := json.Unmarshal(data, &servers); err != nil {
		s.eventLog.Failure("Failed to load servers info: "+err.Error(), "Config")
		return
	}

	loaded := 0
	for i := range servers {
		if _, err := s.servers.GetServer(servers[i].ID); err == nil {
			continue
		}
		if err := s.servers.SaveServer(&servers[i]); err != nil {
			s.logger.WithError(err).WithField("server_id", servers[i].ID).Warn("Failed to restore server")
			continue
		}
		loaded++
	}
	if loaded > 0 {
		s.logger.WithField("count", loaded).Info("Servers restored from index")
	}
}

// ServerQR renders the decrypted config as a PNG QR code.
func (s *vpnService) ServerQR(id string, size int) ([]byte, error) {
	server, err := s.servers.GetServer(id)
	if err != nil {
		return nil, err
	}
	plaintext, err := s.vault.DecryptFile(server.ConfigPath)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(string(plaintext), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// Ping checks the server endpoint over its own transport. TCP endpoints are
// timed by the dial. UDP endpoints get one datagram: a reply is timed, an ICMP
// refusal marks the endpoint unreachable, and silence leaves the latency
// unknown since WireGuard never answers unauthenticated packets.
func (s *vpnService) Ping(ctx context.Context, id string) (*models.PingResult, error) {
	server, err := s.servers.GetServer(id)
	if err != nil {
		return nil, err
	}
	if server.EndpointHost == "" {
		return nil, fmt.Errorf("%w: server %s has no endpoint", apperrors.ErrInvalidState, id)
	}
	port := server.EndpointPort
	if port == 0 {
		port = parsers.DefaultOpenVPNPort
		if server.Protocol == models.ProtocolWireGuard {
			port = parsers.DefaultWireGuardPort
		}
	}
	addr := net.JoinHostPort(server.EndpointHost, strconv.Itoa(port))
	transport := endpointTransport(server)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	result := &models.PingResult{ServerID: id, Transport: transport}
	var latency time.Duration
	if transport == "tcp" {
		latency, err = dialTCP(ctx, addr)
	} else {
		latency, err = pingUDP(ctx, addr)
	}
	switch {
	case errors.Is(err, errNoReply):
		result.Reachable = true
		result.Note = "no reply to UDP ping, latency unavailable"
	case err != nil:
		result.Error = fmt.Sprintf("ping %s: %v", server.Name, err)
	default:
		result.Reachable = true
		result.LatencyMs = float64(latency.Microseconds()) / 1000
	}
	return result, nil
}

var (
	errNoReply   = errors.New("no reply")
	// udpReplyWait bounds how long a UDP ping waits for an answer.
	udpReplyWait = time.Second
	udpPayload   = []byte{0}
)

// endpointTransport returns "tcp" or "udp". OpenVPN spells TCP as tcp,
// tcp4, tcp6 or tcp-client; everything else, WireGuard included, is UDP.
func endpointTransport(server *models.VPNServer) string {
	if server.Protocol == models.ProtocolOpenVPN && strings.HasPrefix(server.EndpointProto, "tcp") {
		return "tcp"
	}
	return "udp"
}

func dialTCP(ctx context.Context, addr string) (time.Duration, error) {
	var d net.Dialer
	start := time.Now()
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return 0, err
	}
	latency := time.Since(start)
	conn.Close()
	return latency, nil
}

func pingUDP(ctx context.Context, addr string) (time.Duration, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	deadline := time.Now().Add(udpReplyWait)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return 0, err
	}

	start := time.Now()
	if _, err := conn.Write(udpPayload); err != nil {
		return 0, err
	}
	buf := make([]byte, 512)
	if _, err := conn.Read(buf); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return 0, errNoReply
		}
		return 0, err
	}
	return time.Since(start), nil
}
