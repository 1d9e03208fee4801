package services

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"knoxshield/internal/models"
	"knoxshield/pkg/logger"
	"knoxshield/pkg/runner"

	psnet "github.com/shirou/gopsutil/v3/net"
)

const (
	defaultMonitorInterval = 5 * time.Second
	realtimePendingIP      = "Fetching..."
	realtimeUnknown        = "Unknown"
)

type scriptFunc func(ctx context.Context, script string, args ...string) (*runner.Result, error)

// CounterSource reads cumulative received and sent bytes for an interface.
// An empty name sums every interface.
type CounterSource func(ctx context.Context, iface string) (rx, tx uint64, err error)

// InterfaceCounters reads byte counters from the OS.
func InterfaceCounters(ctx context.Context, iface string) (uint64, uint64, error) {
	stats, err := psnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return 0, 0, fmt.Errorf("read interface counters: %w", err)
	}

	var rx, tx uint64
	found := false
	for _, st := range stats {
		if iface != "" && st.Name != iface {
			continue
		}
		rx += st.BytesRecv
		tx += st.BytesSent
		found = true
	}
	if !found {
		return 0, 0, fmt.Errorf("interface %q not found", iface)
	}
	return rx, tx, nil
}

type MonitorOptions struct {
	Run      scriptFunc
	Counters CounterSource
	Iface    string
	Interval time.Duration
	EventLog *logger.EventLogger
	OnData   func(models.RealtimeData)
}

type counterSample struct {
	rx, tx uint64
	at     time.Time
}

// VPNMonitor polls the tunnel while it is connected.
type VPNMonitor struct {
	opts MonitorOptions
	now  func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started time.Time
	last    *counterSample
}

func NewVPNMonitor(opts MonitorOptions) *VPNMonitor {
	if opts.Interval <= 0 {
		opts.Interval = defaultMonitorInterval
	}
	if opts.Counters == nil {
		opts.Counters = InterfaceCounters
	}
	return &VPNMonitor{opts: opts, now: time.Now}
}

// Start restarts polling and resets the connection clock.
func (m *VPNMonitor) Start() {
	m.Stop()

	m.mu.Lock()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	m.cancel = cancel
	m.done = done
	m.started = m.now()
	m.last = nil
	m.mu.Unlock()

	m.opts.EventLog.Info("Starting VPN connection monitoring...", "Monitor")

	go func() {
		defer close(done)
		ticker := time.NewTicker(m.opts.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				data, err := m.Poll(ctx)
				if err != nil {
					if ctx.Err() == nil {
						m.opts.EventLog.Failure("Monitoring error: "+err.Error(), "Monitor")
					}
					continue
				}
				if m.opts.OnData != nil {
					m.opts.OnData(data)
				}
			}
		}
	}()
}

// Stop ends polling and waits for the current poll to return. It reports
// whether the monitor was running.
func (m *VPNMonitor) Stop() bool {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return false
	}
	cancel()
	<-done
	m.opts.EventLog.Info("VPN monitoring stopped", "Monitor")
	return true
}

func (m *VPNMonitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

// Poll runs one round of the status, IP and stats scripts.
func (m *VPNMonitor) Poll(ctx context.Context) (models.RealtimeData, error) {
	if _, err := m.opts.Run(ctx, ScriptStatus); err != nil {
		return models.RealtimeData{}, err
	}
	ipRes, err := m.opts.Run(ctx, ScriptExternalIP)
	if err != nil {
		return models.RealtimeData{}, err
	}

	now := m.now()
	m.mu.Lock()
	started := m.started
	m.mu.Unlock()

	data := models.RealtimeData{
		CurrentIP: realtimePendingIP,
		Country:   realtimeUnknown,
		City:      realtimeUnknown,
	}
	if !started.IsZero() {
		data.ConnectionDuration = int64(now.Sub(started) / time.Second)
	}
	applyIPResult(&data, ipRes)

	statsRes, statsErr := m.opts.Run(ctx, ScriptStats)
	if statsErr == nil && applyStatsResult(&data, statsRes) {
		return data, nil
	}

	rx, tx, err := m.opts.Counters(ctx, m.opts.Iface)
	if err != nil {
		if statsErr != nil {
			return data, statsErr
		}
		return data, nil
	}
	data.BytesReceived, data.BytesSent = rx, tx
	data.DownloadSpeed, data.UploadSpeed = m.speeds(rx, tx, now)
	return data, nil
}

// speeds returns bytes per second since the previous sample.
func (m *VPNMonitor) speeds(rx, tx uint64, now time.Time) (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.last
	m.last = &counterSample{rx: rx, tx: tx, at: now}
	if prev == nil || rx < prev.rx || tx < prev.tx {
		return 0, 0
	}
	elapsed := now.Sub(prev.at).Seconds()
	if elapsed <= 0 {
		return 0, 0
	}
	return float64(rx-prev.rx) / elapsed, float64(tx-prev.tx) / elapsed
}

func applyIPResult(data *models.RealtimeData, res *runner.Result) {
	if res == nil {
		return
	}
	var ip struct {
		IP      string `json:"ip"`
		Country string `json:"country"`
		City    string `json:"city"`
	}
	if err := res.Decode(&ip); err != nil {
		if net.ParseIP(res.Stdout) != nil {
			data.CurrentIP = res.Stdout
		}
		return
	}
	if ip.IP != "" {
		data.CurrentIP = ip.IP
	}
	if ip.Country != "" {
		data.Country = ip.Country
	}
	if ip.City != "" {
		data.City = ip.City
	}
}

// applyStatsResult reports whether the script returned usable counters.
func applyStatsResult(data *models.RealtimeData, res *runner.Result) bool {
	var stats struct {
		DownloadSpeed float64 `json:"downloadSpeed"`
		UploadSpeed   float64 `json:"uploadSpeed"`
		BytesReceived float64 `json:"bytesReceived"`
		BytesSent     float64 `json:"bytesSent"`
	}
	if err := res.Decode(&stats); err != nil {
		return false
	}
	data.DownloadSpeed = stats.DownloadSpeed
	data.UploadSpeed = stats.UploadSpeed
	data.BytesReceived = uint64(stats.BytesReceived)
	data.BytesSent = uint64(stats.BytesSent)
	return true
}
