package services

import (
	"fmt"
	"testing"

	"knoxshield/internal/catalog"
	"knoxshield/internal/dao"
	"knoxshield/internal/models"
	"knoxshield/pkg/engine"
	apperrors "knoxshield/pkg/errors"
	"knoxshield/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusTestEnv struct {
	registry *operationRegistry
	manager  *OperationStatusManager
	store    *dao.Store
}

func newStatusTestEnv(t *testing.T) statusTestEnv {
	t.Helper()
	store := dao.NewMemoryStore()
	registry := newOperationRegistry(MaxOperations)
	manager := newOperationStatusManager(registry, store.Operations, newTestCatalog(t, nil),
		NewEventBroker(16), logger.NewDiscardLogger(), newTestClock().Now)
	return statusTestEnv{registry: registry, manager: manager, store: store}
}

func (env statusTestEnv) start(t *testing.T, id string) *liveOperation {
	t.Helper()
	op := &models.Operation{
		ID:     id,
		ToolID: "nmap",
		Status: models.StatusRunning,
		Logs:   []string{"Operation started: sweep"},
	}
	require.NoError(t, env.store.Operations.SaveOperation(op.Clone()))
	e := newLiveOperation(op, func() {}, midRand())
	env.registry.insert(e)
	return e
}

func TestStatusManager_FinalRecordKeepsFullHistory(t *testing.T) {
	tests := []struct {
		name      string
		ticks     int
		wantLines int
		wantFirst string
	}{
		{name: "short run keeps every line", ticks: 30, wantLines: 32, wantFirst: "Operation started: sweep"},
		{name: "long run keeps the last fifty", ticks: 80, wantLines: FinalLogLimit, wantFirst: "line 32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newStatusTestEnv(t)
			env.start(t, "op-1")

			for i := 1; i <= tt.ticks; i++ {
				env.manager.MarkProgress("op-1", engine.StepResult{
					Progress: float64(i),
					Logs:     []string{fmt.Sprintf("line %d", i)},
				})
				running, ok := env.registry.snapshot("op-1")
				require.True(t, ok)
				assert.LessOrEqual(t, len(running.Logs), RunningLogLimit)
			}

			final := env.manager.MarkCompleted("op-1")
			require.NotNil(t, final)
			assert.Len(t, final.Logs, tt.wantLines)
			assert.Equal(t, tt.wantFirst, final.Logs[0])
			assert.Contains(t, final.Logs[len(final.Logs)-1], "Operation completed successfully.")

			stored, err := env.store.Operations.GetOperation("op-1")
			require.NoError(t, err)
			assert.Len(t, stored.Logs, tt.wantLines)
		})
	}
}

func TestStatusManager_TickAfterPauseIsKept(t *testing.T) {
	env := newStatusTestEnv(t)
	e := env.start(t, "op-1")

	_, err := env.registry.update("op-1", func(e *liveOperation) error {
		e.op.Status = models.StatusReadyToRun
		e.ctl.Pause()
		return nil
	})
	require.NoError(t, err)

	env.manager.MarkProgress("op-1", engine.StepResult{Progress: 42, Logs: []string{"late line"}})

	op, ok := env.registry.snapshot("op-1")
	require.True(t, ok)
	assert.Equal(t, models.StatusReadyToRun, op.Status)
	assert.Equal(t, 42.0, op.Progress)
	assert.Equal(t, "late line", op.Logs[len(op.Logs)-1])
	assert.False(t, e.finished())

	env.manager.MarkFailedWithReason("op-1", "stopped")
	env.manager.MarkProgress("op-1", engine.StepResult{Progress: 60, Logs: []string{"too late"}})
	op, _ = env.registry.snapshot("op-1")
	assert.Equal(t, models.StatusError, op.Status)
	assert.NotContains(t, op.Logs, "too late")
}

func TestOperationService_PauseRefusedOnceFinishing(t *testing.T) {
	env := newStalledService(t)

	op, err := env.svc.StartOperation(StartOperationRequest{ToolID: catalog.ToolDeepScan})
	require.NoError(t, err)

	full := 100.0
	_, err = env.svc.UpdateOperation(op.ID, OperationPatch{Progress: &full})
	require.NoError(t, err)

	_, err = env.svc.ApplyAction(op.ID, ActionPause)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	_, err = env.svc.ApplyAction(op.ID, ActionStop)
	require.NoError(t, err)
}
