package engine

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"knoxshield/internal/catalog"
	"knoxshield/internal/i18n"
	"knoxshield/internal/models"
)

const (
	baseDurationMs     = 3000.0
	deepScanJitterMs   = 7000.0
	defaultJitterMs    = 4000.0
	deepScanUpdatesSec = 3
	defaultUpdatesSec  = 2

	// FailureRate is the chance that a finished operation reports an error.
	FailureRate = 0.1
)

// Localizer resolves UI text keys.
type Localizer interface {
	Get(key string, params ...i18n.Params) string
}

// Env carries what a simulation needs besides its own parameters.
type Env struct {
	Texts   Localizer
	Threats *catalog.ThreatDB
	Rand    *rand.Rand
	Now     func() time.Time
}

func (e Env) withDefaults() Env {
	if e.Texts == nil {
		e.Texts = i18n.New(i18n.English)
	}
	if e.Threats == nil {
		e.Threats = &catalog.ThreatDB{}
	}
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	return e
}

// Stamp prefixes msg with the wall clock time as operation logs are written.
func Stamp(now time.Time, msg string) string {
	return fmt.Sprintf("[%s] %s", now.Format("15:04:05"), msg)
}

// Timing is the pacing of one simulated run.
type Timing struct {
	Duration         time.Duration
	UpdatesPerSecond int
	Increment        float64
}

// Interval is the delay between two ticks.
func (t Timing) Interval() time.Duration {
	return time.Second / time.Duration(t.UpdatesPerSecond)
}

// NewTiming draws a run duration for toolID. The deep scan runs longer and ticks faster.
func NewTiming(toolID string, rng *rand.Rand) Timing {
	jitter, ups := defaultJitterMs, defaultUpdatesSec
	if toolID == catalog.ToolDeepScan {
		jitter, ups = deepScanJitterMs, deepScanUpdatesSec
	}
	durationMs := baseDurationMs + rng.Float64()*jitter
	return Timing{
		Duration:         time.Duration(durationMs) * time.Millisecond,
		UpdatesPerSecond: ups,
		Increment:        100 / ((durationMs / 1000) * float64(ups)),
	}
}

// Alert is raised by a step that needs the user's attention.
type Alert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// StepResult is the outcome of one tick.
type StepResult struct {
	Progress    float64
	Logs        []string
	ScanResults *models.ScanResults
	Alert       *Alert
	Done        bool
}

// Simulation advances one operation tick by tick.
type Simulation interface {
	Timing() Timing
	// Begin returns the log lines written when the operation is created.
	Begin() []string
	Step() StepResult
}

// NewSimulation picks the behaviour for toolID. Tools without a dedicated
// behaviour, or whose required parameter is missing, only make progress.
func NewSimulation(toolID string, params map[string]string, env Env) Simulation {
	env = env.withDefaults()
	base := &progressSim{
		env:    env,
		timing: NewTiming(toolID, env.Rand),
	}

	switch toolID {
	case catalog.ToolDeepScan:
		return &deepScanSim{progressSim: base, phase: 1}
	case catalog.ToolEmailBreach:
		if email := LookupParam(params, "EMAIL_BREACH_INPUT_LABEL", env.Texts); email != "" {
			return &emailBreachSim{progressSim: base, email: email}
		}
	case catalog.ToolTraceWiper:
		if item := LookupParam(params, "PRIVACY_WIPE_TARGET_LABEL", env.Texts); item != "" {
			return &traceWiperSim{progressSim: base, item: env.Texts.Get(item)}
		}
	case catalog.ToolMalwareKiller:
		return &malwareKillerSim{progressSim: base}
	}
	return base
}

var english = i18n.New(i18n.English)

// LookupParam finds a form value whose label may be stored as the i18n key,
// its English text or its localized text.
func LookupParam(params map[string]string, labelKey string, texts Localizer) string {
	if len(params) == 0 {
		return ""
	}
	candidates := []string{labelKey, english.Get(labelKey)}
	if texts != nil {
		candidates = append(candidates, texts.Get(labelKey))
	}
	for _, label := range candidates {
		if v, ok := params[label]; ok && v != "" {
			return v
		}
	}
	return ""
}

// FinalOutcome decides how a finished run ends.
func FinalOutcome(rng *rand.Rand) (models.ToolStatus, string) {
	if rng.Float64() < FailureRate {
		return models.StatusError, "Operation failed with an error."
	}
	return models.StatusCompleted, "Operation completed successfully."
}

// ClampProgress bounds p to [0,100].
func ClampProgress(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// progressSim is the generic behaviour and the base of the others.
type progressSim struct {
	env      Env
	timing   Timing
	progress float64
	logs     []string
}

func (s *progressSim) Timing() Timing { return s.timing }

func (s *progressSim) Begin() []string { return nil }

func (s *progressSim) Step() StepResult {
	s.advance()
	return s.result()
}

func (s *progressSim) advance() {
	s.progress += s.timing.Increment
	s.logs = nil
}

func (s *progressSim) log(msg string) {
	s.logs = append(s.logs, Stamp(s.env.Now(), msg))
}

func (s *progressSim) raw(line string) {
	s.logs = append(s.logs, line)
}

func (s *progressSim) text(key string, params ...i18n.Params) string {
	return s.env.Texts.Get(key, params...)
}

func (s *progressSim) done() bool {
	return s.progress >= 100
}

func (s *progressSim) pick(list []string) (string, bool) {
	if len(list) == 0 {
		return "", false
	}
	return list[s.env.Rand.Intn(len(list))], true
}

func (s *progressSim) result() StepResult {
	return StepResult{
		Progress: ClampProgress(s.progress),
		Logs:     s.logs,
		Done:     s.done(),
	}
}
