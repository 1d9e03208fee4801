package services

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"knoxshield/internal/catalog"
	"knoxshield/internal/dao"
	"knoxshield/internal/models"
	"knoxshield/pkg/engine"
	apperrors "knoxshield/pkg/errors"
	"knoxshield/pkg/hooks"
	"knoxshield/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constSource struct{ v int64 }

func (s constSource) Int63() int64 { return s.v }
func (s constSource) Seed(int64)   {}

// lowRand makes every chance roll succeed, so a finished run reports an error.
func lowRand() *rand.Rand { return rand.New(constSource{0}) }

// midRand rolls about 0.5, so a finished run completes.
func midRand() *rand.Rand { return rand.New(constSource{1<<62 | 1<<52}) }

// testClock advances one second on every read.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type recordingHook struct {
	ops chan *models.Operation
}

func (h *recordingHook) Name() string { return "recording" }

func (h *recordingHook) PostHook(ctx hooks.Context) error {
	h.ops <- ctx.Operation
	return nil
}

type opTestEnv struct {
	svc    OperationServiceMethods
	store  *dao.Store
	events *EventBroker
}

func newOperationTestService(t *testing.T, tick time.Duration, rng func() *rand.Rand, registry *hooks.Registry) opTestEnv {
	t.Helper()
	log := logger.NewDiscardLogger()
	threats, err := catalog.LoadThreatDB()
	require.NoError(t, err)

	store := dao.NewMemoryStore()
	events := NewEventBroker(256)
	svc := NewOperationService(OperationDeps{
		DAO:     store.Operations,
		Catalog: newTestCatalog(t, nil),
		Queue:   engine.NewQueue(4, log),
		Driver:  engine.NewDriver(engine.WithLogger(log), engine.WithTickInterval(tick)),
		Threats: threats,
		Events:  events,
		Hooks:   registry,
		Logger:  log,
		NewRand: rng,
		Now:     newTestClock().Now,
	})
	t.Cleanup(svc.Shutdown)
	return opTestEnv{svc: svc, store: store, events: events}
}

// stalled services never tick, so operations stay where the test puts them.
func newStalledService(t *testing.T) opTestEnv {
	return newOperationTestService(t, time.Hour, midRand, nil)
}

func TestOperationService_RunsToCompletion(t *testing.T) {
	hook := &recordingHook{ops: make(chan *models.Operation, 1)}
	registry := hooks.NewRegistry()
	registry.Register(hook)
	env := newOperationTestService(t, time.Millisecond, midRand, registry)

	op, err := env.svc.StartOperation(StartOperationRequest{ToolID: catalog.ToolDeepScan, Task: "Full sweep"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRunning, op.Status)
	assert.Equal(t, "Full sweep", op.TaskDescription)
	assert.True(t, strings.HasPrefix(op.ID, "op-"))
	assert.True(t, strings.HasSuffix(op.ID, "-"+catalog.ToolDeepScan))
	require.NotEmpty(t, op.Logs)
	assert.Contains(t, op.Logs[0], "Operation started: Full sweep")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	final, err := env.svc.Wait(ctx, op.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, final.Status)
	assert.Equal(t, float64(100), final.Progress)
	require.NotNil(t, final.EndTime)
	assert.LessOrEqual(t, len(final.Logs), FinalLogLimit)
	assert.Contains(t, final.Logs[len(final.Logs)-1], "Operation completed successfully.")
	assert.NotNil(t, final.ScanResults)

	assert.Eventually(t, func() bool {
		stored, err := env.store.Operations.GetOperation(op.ID)
		return err == nil && stored.Status == models.StatusCompleted
	}, 5*time.Second, 5*time.Millisecond)

	select {
	case got := <-hook.ops:
		assert.Equal(t, op.ID, got.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("post hook was not run")
	}
}

func TestOperationService_FinishedRunCanFail(t *testing.T) {
	env := newOperationTestService(t, time.Millisecond, lowRand, nil)

	op, err := env.svc.StartOperation(StartOperationRequest{ToolID: catalog.ToolDeepScan})
	require.NoError(t, err)
	assert.Equal(t, "KNOX Deep Scan", op.TaskDescription)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	final, err := env.svc.Wait(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, final.Status)
	assert.Contains(t, final.Logs[len(final.Logs)-1], "Operation failed with an error.")
}

func TestOperationService_LiveListIsCapped(t *testing.T) {
	env := newStalledService(t)

	var last string
	for i := 0; i < MaxOperations+5; i++ {
		op, err := env.svc.StartOperation(StartOperationRequest{ToolID: catalog.ToolDeepScan})
		require.NoError(t, err)
		last = op.ID
	}

	ops := env.svc.ListOperations()
	require.Len(t, ops, MaxOperations)
	assert.Equal(t, last, ops[0].ID)

	ids := make(map[string]bool, len(ops))
	for _, op := range ops {
		assert.False(t, ids[op.ID], "duplicate id %s", op.ID)
		ids[op.ID] = true
	}

	history, err := env.svc.History()
	require.NoError(t, err)
	assert.Len(t, history, dao.HistoryLimit)

	evicted, err := env.svc.GetOperation(history[len(history)-1].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, evicted.ID)
}

func TestOperationService_Actions(t *testing.T) {
	env := newStalledService(t)

	op, err := env.svc.StartOperation(StartOperationRequest{ToolID: catalog.ToolDeepScan})
	require.NoError(t, err)

	paused, err := env.svc.ApplyAction(op.ID, ActionPause)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReadyToRun, paused.Status)
	assert.Contains(t, paused.Logs[len(paused.Logs)-1], "Status updated: Ready to Run")

	_, err = env.svc.ApplyAction(op.ID, ActionPause)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	resumed, err := env.svc.ApplyAction(op.ID, ActionResume)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRunning, resumed.Status)

	_, err = env.svc.ApplyAction(op.ID, ActionResume)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	stopped, err := env.svc.ApplyAction(op.ID, ActionStop)
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, stopped.Status)
	assert.NotNil(t, stopped.EndTime)

	for _, action := range []string{ActionStop, ActionResume, ActionPause} {
		_, err = env.svc.ApplyAction(op.ID, action)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState, action)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	waited, err := env.svc.Wait(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, waited.Status)

	_, err = env.svc.ApplyAction(op.ID, "explode")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAction)

	_, err = env.svc.ApplyAction("missing", ActionPause)
	assert.ErrorIs(t, err, apperrors.ErrOperationNotFound)
}

func TestOperationService_ForceStop(t *testing.T) {
	env := newStalledService(t)

	op, err := env.svc.StartOperation(StartOperationRequest{ToolID: catalog.ToolDeepScan})
	require.NoError(t, err)

	cleared, err := env.svc.ApplyAction(op.ID, ActionForceStop)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, cleared.Status)
	assert.Contains(t, cleared.Logs[len(cleared.Logs)-1], "Operation cleared by user.")
	for _, line := range cleared.Logs {
		assert.NotContains(t, line, "Status updated")
	}

	stored, err := env.store.Operations.GetOperation(op.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
}

func TestOperationService_UpdateOperation(t *testing.T) {
	env := newStalledService(t)

	op, err := env.svc.StartOperation(StartOperationRequest{ToolID: catalog.ToolDeepScan})
	require.NoError(t, err)

	progress := 140.0
	updated, err := env.svc.UpdateOperation(op.ID, OperationPatch{Progress: &progress, Logs: []string{"manual note"}})
	require.NoError(t, err)
	assert.Equal(t, float64(100), updated.Progress)
	assert.Equal(t, "manual note", updated.Logs[len(updated.Logs)-1])
	assert.Equal(t, models.StatusRunning, updated.Status)

	_, err = env.svc.UpdateOperation("missing", OperationPatch{})
	assert.ErrorIs(t, err, apperrors.ErrOperationNotFound)
}

func TestOperationService_ValidatesParams(t *testing.T) {
	env := newStalledService(t)

	tests := []struct {
		name    string
		req     StartOperationRequest
		wantErr error
	}{
		{
			name:    "unknown tool",
			req:     StartOperationRequest{ToolID: "nope"},
			wantErr: apperrors.ErrToolNotFound,
		},
		{
			name:    "tool outside category",
			req:     StartOperationRequest{ToolID: catalog.ToolDeepScan, CategoryID: "bots-ai-models"},
			wantErr: apperrors.ErrToolNotFound,
		},
		{
			name:    "missing email",
			req:     StartOperationRequest{ToolID: catalog.ToolEmailBreach},
			wantErr: apperrors.ErrInvalidParams,
		},
		{
			name: "missing scan type",
			req: StartOperationRequest{ToolID: "nmap", Params: map[string]string{
				"Target IP/Range (e.g., 192.168.1.1 or 10.0.0.0/24)": "10.0.0.1",
			}},
			wantErr: apperrors.ErrInvalidParams,
		},
		{
			name: "unknown scan type",
			req: StartOperationRequest{ToolID: "nmap", Params: map[string]string{
				"Target IP/Range (e.g., 192.168.1.1 or 10.0.0.0/24)": "10.0.0.1",
				"Scan Type": "Stealth Everything",
			}},
			wantErr: apperrors.ErrInvalidParams,
		},
		{
			name: "verbosity above max",
			req: StartOperationRequest{ToolID: "nmap", Params: map[string]string{
				"Target IP/Range (e.g., 192.168.1.1 or 10.0.0.0/24)": "10.0.0.1",
				"Scan Type":                  "Quick Scan (-T4 -F)",
				"Output Verbosity (-v level)": "7",
			}},
			wantErr: apperrors.ErrInvalidParams,
		},
		{
			name: "verbosity not a number",
			req: StartOperationRequest{ToolID: "nmap", Params: map[string]string{
				"Target IP/Range (e.g., 192.168.1.1 or 10.0.0.0/24)": "10.0.0.1",
				"Scan Type":                  "Quick Scan (-T4 -F)",
				"Output Verbosity (-v level)": "loud",
			}},
			wantErr: apperrors.ErrInvalidParams,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.StartOperation(tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, env.svc.ListOperations())
}

func TestOperationService_ParamsStoredWithDefaults(t *testing.T) {
	env := newStalledService(t)

	op, err := env.svc.StartOperation(StartOperationRequest{ToolID: "nmap", Params: map[string]string{
		"Target IP/Range (e.g., 192.168.1.1 or 10.0.0.0/24)": " 10.0.0.1 ",
		"Scan Type": "Quick Scan (-T4 -F)",
	}})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", op.Params["Target IP/Range (e.g., 192.168.1.1 or 10.0.0.0/24)"])
	assert.Equal(t, "1", op.Params["Output Verbosity (-v level)"])
	assert.Contains(t, op.Logs[0], "Operation started with params: ")

	email, err := env.svc.StartOperation(StartOperationRequest{
		ToolID: catalog.ToolEmailBreach,
		Params: map[string]string{"Email Address to Check": "user@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email.Params["Email Address to Check"])
	assert.Equal(t, "Email Breach Lookup", email.ToolName)
}

func TestOperationService_StatsAndDelete(t *testing.T) {
	env := newStalledService(t)
	sub, unsubscribe := env.events.Subscribe()
	defer unsubscribe()

	first, err := env.svc.StartOperation(StartOperationRequest{ToolID: catalog.ToolDeepScan})
	require.NoError(t, err)
	second, err := env.svc.StartOperation(StartOperationRequest{ToolID: catalog.ToolDeepScan})
	require.NoError(t, err)
	_, err = env.svc.ApplyAction(second.ID, ActionPause)
	require.NoError(t, err)

	stats := env.svc.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Running)
	assert.Equal(t, 1, stats.Paused)
	assert.Equal(t, 4, stats.MaxConcurrent)

	require.NoError(t, env.svc.DeleteOperation(first.ID))
	_, err = env.svc.GetOperation(first.ID)
	assert.ErrorIs(t, err, apperrors.ErrOperationNotFound)
	assert.Len(t, env.svc.ListOperations(), 1)

	err = env.svc.DeleteOperation(first.ID)
	assert.ErrorIs(t, err, apperrors.ErrOperationNotFound)

	deadline := time.After(time.Second)
	for {
		select {
		case ev := <-sub:
			if deleted, ok := ev.Data.(OperationDeleted); ok {
				assert.Equal(t, TopicOperationUpdated, ev.Topic)
				assert.Equal(t, first.ID, deleted.ID)
				assert.True(t, deleted.Deleted)
				return
			}
		case <-deadline:
			t.Fatal("deletion event not published")
		}
	}
}
