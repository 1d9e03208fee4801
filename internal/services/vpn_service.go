package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"knoxshield/internal/dao"
	"knoxshield/internal/models"
	"knoxshield/internal/utils"
	"knoxshield/internal/vault"
	apperrors "knoxshield/pkg/errors"
	"knoxshield/pkg/logger"
	"knoxshield/pkg/runner"
)

const (
	ScriptConnect    = "connect_vpn.ps1"
	ScriptDisconnect = "disconnect_vpn.ps1"
	ScriptStatus     = "get_vpn_status.ps1"
	ScriptExternalIP = "get_external_ip.ps1"
	ScriptStats      = "get_network_stats.ps1"
	ScriptKillSwitch = "toggle_killswitch.ps1"

	KillSwitchBlock   = "DisableInternet"
	KillSwitchRelease = "EnableInternet"

	initialLogCount = 50
	unknownIP       = "N/A"
)

// KillSwitchEvent is published on TopicVPNKillSwitch after every toggle.
type KillSwitchEvent struct {
	Active bool   `json:"active"`
	Error  string `json:"error,omitempty"`
}

type VPNServiceMethods interface {
	Load()
	Start(ctx context.Context)
	Connect(ctx context.Context, serverID string) (models.VPNStatus, error)
	Disconnect(ctx context.Context) (models.VPNStatus, error)
	ToggleKillSwitch(ctx context.Context, enable bool) (bool, error)
	Status() models.VPNStatus
	InitialData() models.VPNInitialData
	Servers() ([]models.VPNServer, error)
	ImportConfig(fileName string, content []byte) (*models.VPNServer, error)
	ImportFile(path string) (*models.VPNServer, error)
	DeleteServer(id string) error
	ServerQR(id string, size int) ([]byte, error)
	Ping(ctx context.Context, id string) (*models.PingResult, error)
	Logs(level, query string) []models.VPNLogEntry
	ClearLogs()
	ExportLogs(w io.Writer, format string) error
	ExportLogsToFile(path string) error
	Shutdown(ctx context.Context)
}

// VPNDeps wires the VPN service.
type VPNDeps struct {
	Runner                 runner.ScriptRunner
	Vault                  *vault.Vault
	Servers                dao.ServerDAO
	EventLog               *logger.EventLogger
	Events                 Publisher
	Logger                 *logger.Logger
	ConfigsDir             string
	ServersFile            string
	ImportDir              string
	MonitorInterval        time.Duration
	Interface              string
	Counters               CounterSource
	KillSwitchOnDisconnect bool
}

type vpnService struct {
	runner      runner.ScriptRunner
	vault       *vault.Vault
	servers     dao.ServerDAO
	eventLog    *logger.EventLogger
	events      Publisher
	logger      *logger.Logger
	configsDir  string
	serversFile string
	importDir   string
	monitor     *VPNMonitor
	now         func() time.Time

	// opMu serializes connect, disconnect and kill switch scripts.
	opMu sync.Mutex

	mu         sync.RWMutex
	status     models.VPNStatus
	killSwitch bool
	settings   models.VPNSettings

	filesMu sync.Mutex
}

func NewVPNService(deps VPNDeps) (VPNServiceMethods, error) {
	if deps.Logger == nil {
		deps.Logger = logger.Default()
	}
	if deps.Events == nil {
		deps.Events = NewEventBroker(0)
	}
	if deps.EventLog == nil {
		el, err := logger.NewEventLogger("", logger.DefaultEventCapacity, deps.Logger.GetLevel())
		if err != nil {
			return nil, err
		}
		deps.EventLog = el
	}
	if deps.Runner == nil || deps.Vault == nil || deps.Servers == nil {
		return nil, fmt.Errorf("vpn service requires a script runner, a vault and a server store")
	}
	if deps.ConfigsDir == "" {
		return nil, apperrors.NewConfigError("vpn.configs_dir", deps.ConfigsDir, "must be set")
	}
	if deps.ServersFile == "" {
		deps.ServersFile = filepath.Join(deps.ConfigsDir, "servers.json")
	}

	s := &vpnService{
		runner:      deps.Runner,
		vault:       deps.Vault,
		servers:     deps.Servers,
		eventLog:    deps.EventLog,
		events:      deps.Events,
		logger:      deps.Logger,
		configsDir:  deps.ConfigsDir,
		serversFile: deps.ServersFile,
		importDir:   deps.ImportDir,
		now:         time.Now,
		status: models.VPNStatus{
			Status:    models.VPNDisconnected,
			CurrentIP: unknownIP,
		},
		settings: models.VPNSettings{
			KillSwitchOnDisconnect: deps.KillSwitchOnDisconnect,
		},
	}
	s.monitor = NewVPNMonitor(MonitorOptions{
		Run:      s.runScript,
		Counters: deps.Counters,
		Iface:    deps.Interface,
		Interval: deps.MonitorInterval,
		EventLog: deps.EventLog,
		OnData:   s.onRealtime,
	})

	deps.EventLog.OnEntry(func(entry logger.EventEntry) {
		s.events.Publish(TopicVPNLog, entry)
	})
	return s, nil
}

// Load reads the server index without starting any background work.
func (s *vpnService) Load() {
	if err := utils.EnsureDirectoryExists(s.configsDir); err != nil {
		s.logger.WithError(err).Error("Failed to create configs directory")
	}
	s.loadServersFile()
}

// Start loads the server index and, when an import directory is set,
// watches it until ctx is done.
func (s *vpnService) Start(ctx context.Context) {
	s.Load()
	s.eventLog.Success("KNOX Shield VPN application started", "App")

	if s.importDir != "" {
		go func() {
			if err := s.watchImports(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.WithError(err).Error("Import watcher stopped")
			}
		}()
	}
}

// runScript runs one platform script and mirrors its outcome into the event log.
func (s *vpnService) runScript(ctx context.Context, script string, args ...string) (*runner.Result, error) {
	s.eventLog.Info(fmt.Sprintf("Executing script: %s with args: [%s]", script, strings.Join(args, ", ")), "PowerShell")

	var res *runner.Result
	err := s.logger.LogScript(script, func() error {
		var runErr error
		res, runErr = s.runner.RunScript(ctx, script, args...)
		return runErr
	})

	var missing *apperrors.MissingScriptError
	if errors.As(err, &missing) {
		s.eventLog.Failure("PowerShell script not found: "+missing.Path, "PowerShell")
		return nil, err
	}
	if res != nil {
		if res.Stdout != "" {
			s.eventLog.Add(logger.LevelDebug, "Script output: "+res.Stdout, "PowerShell")
		}
		if res.Stderr != "" {
			s.eventLog.Warning("Script error: "+res.Stderr, "PowerShell")
		}
		s.eventLog.Info(fmt.Sprintf("Script %s finished with exit code: %d", script, res.ExitCode), "PowerShell")
	}
	if err != nil {
		var scriptErr *apperrors.ScriptError
		if !errors.As(err, &scriptErr) && res != nil {
			err = apperrors.NewScriptError(script, res.ExitCode, res.Stderr, err)
		}
		return res, err
	}
	return res, nil
}

func (s *vpnService) Connect(ctx context.Context, serverID string) (models.VPNStatus, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	server, err := s.servers.GetServer(serverID)
	if err != nil {
		s.eventLog.Failure("VPN connection failed: "+err.Error(), "VPN")
		return s.Status(), err
	}
	s.eventLog.Info("Connect request received for: "+server.Name, "IPC")

	wasConnected := s.Status().Connected
	s.setStatus(func(st *models.VPNStatus) {
		st.Status = models.VPNConnecting
		st.Error = ""
	})

	if err := s.connect(ctx, server, wasConnected); err != nil {
		s.eventLog.Failure("VPN connection failed: "+err.Error(), "VPN")
		s.monitor.Stop()
		st := s.setStatus(func(st *models.VPNStatus) {
			st.Connected = false
			st.Status = models.VPNDisconnected
			st.ServerID = ""
			st.ServerName = ""
			st.ConnectedSince = nil
			st.Error = "Connection failed: " + err.Error()
		})
		return st, err
	}

	s.eventLog.Success("VPN connection established successfully", "WireGuard")
	now := s.now()
	st := s.setStatus(func(st *models.VPNStatus) {
		st.Connected = true
		st.Status = models.VPNConnected
		st.ServerID = server.ID
		st.ServerName = server.Name
		st.ConnectedSince = &now
		st.Error = ""
	})
	s.monitor.Start()
	return st, nil
}

func (s *vpnService) connect(ctx context.Context, server *models.VPNServer, wasConnected bool) error {
	ext := ".conf"
	if server.Protocol == models.ProtocolOpenVPN {
		ext = ".ovpn"
	}
	configPath, err := s.vault.DecryptToTemp(server.ConfigPath, utils.SanitizeFileName(server.Name)+ext)
	if err != nil {
		return fmt.Errorf("decrypt config: %w", err)
	}
	defer os.Remove(configPath)

	if wasConnected {
		s.monitor.Stop()
		if _, err := s.runScript(ctx, ScriptDisconnect); err != nil {
			s.logger.WithError(err).Warn("Disconnect before reconnect failed")
		}
	}

	_, err = s.runScript(ctx, ScriptConnect, configPath)
	return err
}

func (s *vpnService) Disconnect(ctx context.Context) (models.VPNStatus, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.eventLog.Info("Disconnect request received", "IPC")
	s.setStatus(func(st *models.VPNStatus) {
		st.Status = models.VPNDisconnecting
	})

	if _, err := s.runScript(ctx, ScriptDisconnect); err != nil {
		s.eventLog.Failure("VPN disconnection failed: "+err.Error(), "VPN")
		st := s.setStatus(func(st *models.VPNStatus) {
			st.Connected = true
			st.Status = models.VPNConnected
			st.Error = "Disconnection failed: " + err.Error()
		})
		return st, err
	}

	s.monitor.Stop()
	s.eventLog.Success("VPN disconnected successfully", "VPN")
	st := s.setStatus(func(st *models.VPNStatus) {
		st.Connected = false
		st.Status = models.VPNDisconnected
		st.ServerID = ""
		st.ServerName = ""
		st.CurrentIP = unknownIP
		st.ConnectedSince = nil
		st.Error = ""
	})

	s.mu.RLock()
	lockDown := s.settings.KillSwitchOnDisconnect && !s.killSwitch
	s.mu.RUnlock()
	if lockDown {
		if _, err := s.toggleKillSwitch(ctx, true); err != nil {
			return s.Status(), err
		}
		st = s.Status()
	}
	return st, nil
}

func (s *vpnService) ToggleKillSwitch(ctx context.Context, enable bool) (bool, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.toggleKillSwitch(ctx, enable)
}

func (s *vpnService) toggleKillSwitch(ctx context.Context, enable bool) (bool, error) {
	verb, action, done := "Disable", KillSwitchRelease, "disabled"
	if enable {
		verb, action, done = "Enable", KillSwitchBlock, "enabled"
	}
	s.eventLog.Info("Kill Switch toggle request: "+verb, "IPC")

	_, err := s.runScript(ctx, ScriptKillSwitch, action)

	s.mu.Lock()
	if err == nil {
		s.killSwitch = enable
		s.status.KillSwitchActive = enable
	}
	active := s.killSwitch
	status := s.status
	s.mu.Unlock()

	event := KillSwitchEvent{Active: active}
	if err != nil {
		s.eventLog.Failure("Kill Switch operation failed: "+err.Error(), "KillSwitch")
		event.Error = err.Error()
	} else {
		s.eventLog.Success("Kill Switch "+done, "KillSwitch")
	}
	s.events.Publish(TopicVPNKillSwitch, event)
	s.events.Publish(TopicVPNStatus, status)
	return active, err
}

func (s *vpnService) Status() models.VPNStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyStatus(s.status)
}

func copyStatus(st models.VPNStatus) models.VPNStatus {
	if st.ConnectedSince != nil {
		since := *st.ConnectedSince
		st.ConnectedSince = &since
	}
	return st
}

// setStatus applies fn and publishes the result.
func (s *vpnService) setStatus(fn func(st *models.VPNStatus)) models.VPNStatus {
	s.mu.Lock()
	fn(&s.status)
	s.status.KillSwitchActive = s.killSwitch
	st := copyStatus(s.status)
	s.mu.Unlock()

	s.events.Publish(TopicVPNStatus, st)
	return st
}

func (s *vpnService) onRealtime(data models.RealtimeData) {
	if data.CurrentIP != "" && data.CurrentIP != realtimePendingIP {
		s.mu.Lock()
		s.status.CurrentIP = data.CurrentIP
		s.mu.Unlock()
	}
	s.events.Publish(TopicVPNRealtime, data)
}

func (s *vpnService) InitialData() models.VPNInitialData {
	s.eventLog.Info("Initial data requested", "IPC")

	servers, err := s.servers.ListServers()
	if err != nil {
		s.eventLog.Failure("Failed to load servers info: "+err.Error(), "Config")
	}
	if servers == nil {
		servers = []models.VPNServer{}
	}

	s.mu.RLock()
	settings := s.settings
	settings.KillSwitchOnDisconnect = settings.KillSwitchOnDisconnect || s.killSwitch
	s.mu.RUnlock()

	return models.VPNInitialData{
		Servers:  servers,
		Status:   s.Status(),
		Logs:     s.eventLog.Tail(initialLogCount),
		Settings: settings,
	}
}

func (s *vpnService) Logs(level, query string) []models.VPNLogEntry {
	return s.eventLog.Filter(level, query)
}

func (s *vpnService) ClearLogs() {
	s.eventLog.Clear()
}

func (s *vpnService) ExportLogs(w io.Writer, format string) error {
	return s.eventLog.Export(w, format)
}

// ExportLogsToFile picks the format from the file extension.
func (s *vpnService) ExportLogsToFile(path string) error {
	format := "txt"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}

	err := func() error {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return s.eventLog.Export(f, format)
	}()
	if err != nil {
		s.eventLog.Failure("Log export failed: "+err.Error(), "Export")
		return err
	}
	s.eventLog.Success("Logs exported to: "+path, "Export")
	return nil
}

// Shutdown stops the monitor and lifts the kill switch so the host keeps its network.
func (s *vpnService) Shutdown(ctx context.Context) {
	s.monitor.Stop()

	s.mu.RLock()
	active := s.killSwitch
	s.mu.RUnlock()
	if !active {
		return
	}

	s.eventLog.Info("Disabling Kill Switch before app quit", "App")
	if _, err := s.runScript(ctx, ScriptKillSwitch, KillSwitchRelease); err != nil {
		s.eventLog.Failure("Failed to disable Kill Switch on quit: "+err.Error(), "App")
		return
	}
	s.mu.Lock()
	s.killSwitch = false
	s.status.KillSwitchActive = false
	s.mu.Unlock()
}
