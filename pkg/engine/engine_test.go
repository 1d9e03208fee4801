package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"knoxshield/internal/catalog"
	"knoxshield/internal/i18n"
	"knoxshield/internal/models"
	"knoxshield/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constSource always yields the same value so every random draw is predictable.
type constSource struct{ v int64 }

func (s constSource) Int63() int64 { return s.v }
func (s constSource) Seed(int64)   {}

// lowRand makes every chance roll succeed and every pick return the first item.
func lowRand() *rand.Rand { return rand.New(constSource{0}) }

// midRand rolls about 0.5 on every draw, so no chance below 0.5 ever fires.
func midRand() *rand.Rand { return rand.New(constSource{1<<62 | 1<<52}) }

var fixedNow = func() time.Time { return time.Date(2024, 5, 1, 14, 3, 9, 0, time.UTC) }

func testEnv(t *testing.T, rng *rand.Rand) Env {
	t.Helper()
	db, err := catalog.LoadThreatDB()
	require.NoError(t, err)
	return Env{Texts: i18n.New(i18n.English), Threats: db, Rand: rng, Now: fixedNow}
}

func runToEnd(t *testing.T, sim Simulation) ([]string, StepResult) {
	t.Helper()
	logs := append([]string{}, sim.Begin()...)
	var last StepResult
	prev := 0.0
	for i := 0; i < 100; i++ {
		last = sim.Step()
		assert.GreaterOrEqual(t, last.Progress, prev)
		assert.LessOrEqual(t, last.Progress, 100.0)
		prev = last.Progress
		logs = append(logs, last.Logs...)
		if last.Done {
			return logs, last
		}
	}
	t.Fatal("simulation never finished")
	return nil, last
}

func countContaining(lines []string, sub string) int {
	n := 0
	for _, l := range lines {
		if strings.Contains(l, sub) {
			n++
		}
	}
	return n
}

func TestNewTiming(t *testing.T) {
	deep := NewTiming(catalog.ToolDeepScan, lowRand())
	assert.Equal(t, 3*time.Second, deep.Duration)
	assert.Equal(t, 3, deep.UpdatesPerSecond)
	assert.InDelta(t, 100.0/9, deep.Increment, 1e-9)
	assert.Equal(t, time.Second/3, deep.Interval())

	generic := NewTiming("nmap", lowRand())
	assert.Equal(t, 2, generic.UpdatesPerSecond)
	assert.InDelta(t, 100.0/6, generic.Increment, 1e-9)
	assert.Equal(t, 500*time.Millisecond, generic.Interval())

	long := NewTiming(catalog.ToolDeepScan, midRand())
	assert.InDelta(t, 6503, float64(long.Duration.Milliseconds()), 1)
}

func TestDeepScan_FindsThreatsInEveryPhase(t *testing.T) {
	sim := NewSimulation(catalog.ToolDeepScan, nil, testEnv(t, lowRand()))
	logs, last := runToEnd(t, sim)

	assert.Equal(t, "[14:03:09] Initializing KNOX Deep Scan Engine...", logs[0])
	assert.Equal(t, "[14:03:09] Scanning running processes... (100 items)", logs[1])
	assert.Equal(t, 1, countContaining(logs, "Analyzing startup entries..."))
	assert.Equal(t, 1, countContaining(logs, "Performing file signature matching..."))
	assert.Positive(t, countContaining(logs, "THREAT DETECTED: Potentially Malicious Process: xrat.exe"))
	assert.Positive(t, countContaining(logs, `THREAT DETECTED: Suspicious Startup Item: C:\Users\Admin\AppData\Roaming\msupdate.vbs`))
	assert.Positive(t, countContaining(logs, "THREAT DETECTED: Malware Signature Match: EICAR Test String"))

	require.NotNil(t, last.ScanResults)
	kinds := map[models.ThreatType]models.Severity{}
	for _, th := range last.ScanResults.ThreatsFound {
		kinds[th.Type] = th.Severity
	}
	assert.Equal(t, models.SeverityHigh, kinds[models.ThreatProcess])
	assert.Equal(t, models.SeverityMedium, kinds[models.ThreatStartup])
	assert.Equal(t, models.SeverityHigh, kinds[models.ThreatSignature])

	n := len(last.ScanResults.ThreatsFound)
	assert.Contains(t, logs[len(logs)-1], "Scan complete.")
	assert.Contains(t, logs[len(logs)-1], " potential threats found.")
	assert.Equal(t, 100.0, last.Progress)

	require.NotNil(t, last.Alert)
	assert.Equal(t, "KNOX Alert!", last.Alert.Title)
	assert.Equal(t, fmt.Sprintf("%d potential threats detected by KNOX Deep Scan. Review results.", n), last.Alert.Body)
}

func TestDeepScan_Clean(t *testing.T) {
	sim := NewSimulation(catalog.ToolDeepScan, nil, testEnv(t, midRand()))
	logs, last := runToEnd(t, sim)

	assert.Zero(t, countContaining(logs, "THREAT DETECTED"))
	require.NotNil(t, last.ScanResults)
	assert.NotNil(t, last.ScanResults.ThreatsFound)
	assert.Empty(t, last.ScanResults.ThreatsFound)
	assert.Positive(t, last.ScanResults.ItemsScanned)
	assert.Nil(t, last.Alert)
	assert.Contains(t, logs[len(logs)-1], "0 potential threats found.")
}

func TestEmailBreach(t *testing.T) {
	params := map[string]string{"Email Address to Check": "user@example.com"}

	sim := NewSimulation(catalog.ToolEmailBreach, params, testEnv(t, lowRand()))
	logs, _ := runToEnd(t, sim)
	assert.Equal(t, "[14:03:09] Checking user@example.com for breaches...", logs[0])
	assert.Contains(t, logs, "[14:03:09] Found 1 potential breach(es) involving user@example.com. (Simulated details below)")
	assert.Contains(t, logs, " - Simulated breach entry 1 from source XYZ")

	sim = NewSimulation(catalog.ToolEmailBreach, params, testEnv(t, midRand()))
	logs, _ = runToEnd(t, sim)
	assert.Contains(t, logs, "[14:03:09] No breaches found for user@example.com in our simulated database.")

	generic := NewSimulation(catalog.ToolEmailBreach, nil, testEnv(t, midRand()))
	assert.Empty(t, generic.Begin())
}

func TestTraceWiper(t *testing.T) {
	params := map[string]string{"PRIVACY_WIPE_TARGET_LABEL": "PRIVACY_WIPE_OPTIONS_Cookies"}
	sim := NewSimulation(catalog.ToolTraceWiper, params, testEnv(t, lowRand()))
	logs, _ := runToEnd(t, sim)

	assert.Equal(t, "[14:03:09] Wiping Cookies...", logs[0])
	assert.Contains(t, logs, "[14:03:09] Deleting Cookies sector 2...")
	assert.GreaterOrEqual(t, countContaining(logs, "Deleting Cookies sector"), 3)
	assert.Equal(t, "[14:03:09] Privacy trace wiping simulation complete.", logs[len(logs)-1])
}

func TestMalwareKiller(t *testing.T) {
	sim := NewSimulation(catalog.ToolMalwareKiller, nil, testEnv(t, lowRand()))
	logs, _ := runToEnd(t, sim)

	assert.Equal(t, "[14:03:09] Scan for Malicious Processes...", logs[0])
	assert.Equal(t, 1, countContaining(logs, "Suspicious process found: xrat.exe"))
	assert.Equal(t, 1, countContaining(logs, "Simulating termination of xrat.exe..."))
	assert.Equal(t, 1, countContaining(logs, "Process xrat.exe terminated (Simulated)."))
	assert.Zero(t, countContaining(logs, "No suspicious processes found"))
	assert.Equal(t, "[14:03:09] Malware process scan & kill simulation complete.", logs[len(logs)-1])

	sim = NewSimulation(catalog.ToolMalwareKiller, nil, testEnv(t, midRand()))
	logs, _ = runToEnd(t, sim)
	assert.Equal(t, 1, countContaining(logs, "No suspicious processes found (Simulated)."))
}

func TestLookupParam(t *testing.T) {
	ar := i18n.New(i18n.Arabic)
	tests := []struct {
		name     string
		params   map[string]string
		expected string
	}{
		{"by key", map[string]string{"EMAIL_BREACH_INPUT_LABEL": "a@b.c"}, "a@b.c"},
		{"by english label", map[string]string{"Email Address to Check": "a@b.c"}, "a@b.c"},
		{"by localized label", map[string]string{"البريد الإلكتروني المراد فحصه": "a@b.c"}, "a@b.c"},
		{"empty value", map[string]string{"Email Address to Check": ""}, ""},
		{"missing", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LookupParam(tt.params, "EMAIL_BREACH_INPUT_LABEL", ar))
		})
	}
}

func TestFinalOutcomeAndClamp(t *testing.T) {
	status, msg := FinalOutcome(lowRand())
	assert.Equal(t, models.StatusError, status)
	assert.Equal(t, "Operation failed with an error.", msg)

	status, msg = FinalOutcome(midRand())
	assert.Equal(t, models.StatusCompleted, status)
	assert.Equal(t, "Operation completed successfully.", msg)

	assert.Equal(t, 0.0, ClampProgress(-5))
	assert.Equal(t, 100.0, ClampProgress(111.1))
	assert.Equal(t, 42.5, ClampProgress(42.5))
}

func TestDriver_RunsToCompletion(t *testing.T) {
	d := NewDriver(WithTickInterval(time.Millisecond), WithLogger(logger.NewDiscardLogger()))
	sim := NewSimulation("nmap", nil, testEnv(t, lowRand()))

	var mu sync.Mutex
	var ticks []StepResult
	h := d.Start(context.Background(), sim, nil, func(res StepResult) {
		mu.Lock()
		ticks = append(ticks, res)
		mu.Unlock()
	})

	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not finish")
	}
	require.NoError(t, h.Wait())

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, ticks)
	last := ticks[len(ticks)-1]
	assert.True(t, last.Done)
	assert.Equal(t, 100.0, last.Progress)
}

func TestDriver_PauseAndCancel(t *testing.T) {
	d := NewDriver(WithTickInterval(time.Millisecond), WithLogger(logger.NewDiscardLogger()))
	sim := NewSimulation("nmap", nil, testEnv(t, lowRand()))

	ctl := NewControl()
	ctl.Pause()
	assert.True(t, ctl.Paused())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	ticked := false
	err := d.Run(ctx, sim, ctl, func(StepResult) { ticked = true })
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, ticked)

	ctl.Resume()
	assert.False(t, ctl.Paused())
}

func TestQueue(t *testing.T) {
	q := NewQueue(1, logger.NewDiscardLogger())

	release := make(chan struct{})
	started := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = q.ExecuteWithQueue(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	running, queued, maxSlots := q.GetStatus()
	assert.Equal(t, 1, running)
	assert.Equal(t, 0, queued)
	assert.Equal(t, 1, maxSlots)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.ExecuteWithQueue(ctx, func() error { return nil })
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	close(release)
	wg.Wait()

	running, queued, _ = q.GetStatus()
	assert.Zero(t, running)
	assert.Zero(t, queued)

	sentinel := errors.New("boom")
	assert.Equal(t, sentinel, q.ExecuteWithQueue(context.Background(), func() error { return sentinel }))
}

// stubSim finishes on its first step, or panics when asked to.
type stubSim struct {
	panics bool
}

func (s *stubSim) Timing() Timing   { return Timing{UpdatesPerSecond: 1000} }
func (s *stubSim) Begin() []string { return nil }
func (s *stubSim) Step() StepResult {
	if s.panics {
		panic("boom")
	}
	return StepResult{Progress: 100, Done: true}
}

func TestDriver_DoneWhilePausedWaitsForResume(t *testing.T) {
	d := NewDriver(WithTickInterval(time.Millisecond), WithLogger(logger.NewDiscardLogger()))
	ctl := NewControl()

	h := d.Start(context.Background(), &stubSim{}, ctl, func(StepResult) {
		// A pause arriving while the final step is in flight.
		ctl.Pause()
	})

	select {
	case <-h.Done():
		t.Fatal("run finished while paused")
	case <-time.After(30 * time.Millisecond):
	}

	ctl.Resume()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("run did not finish after resume")
	}
	assert.NoError(t, h.Wait())
}

func TestDriver_StartRecoversPanics(t *testing.T) {
	d := NewDriver(WithTickInterval(time.Millisecond), WithLogger(logger.NewDiscardLogger()))

	h := d.Start(context.Background(), &stubSim{panics: true}, nil, nil)
	err := h.Wait()

	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "boom", panicErr.Value)
	assert.Equal(t, "panic in operation: boom", err.Error())
}
