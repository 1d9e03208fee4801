package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"knoxshield/pkg/engine"
	"knoxshield/pkg/hooks"
	"knoxshield/pkg/logger"
)

const hookTimeout = 30 * time.Second

// OperationExecutor runs one simulation inside a queue slot.
type OperationExecutor struct {
	queue  *engine.Queue
	driver *engine.Driver
	status *OperationStatusManager
	hooks  *hooks.Registry
	logger *logger.Logger
}

func newOperationExecutor(queue *engine.Queue, driver *engine.Driver, status *OperationStatusManager, hookRegistry *hooks.Registry, log *logger.Logger) *OperationExecutor {
	return &OperationExecutor{
		queue:  queue,
		driver: driver,
		status: status,
		hooks:  hookRegistry,
		logger: log,
	}
}

func (e *OperationExecutor) Execute(ctx context.Context, opID, toolID string, sim engine.Simulation, ctl *engine.Control) {
	opLogger := e.logger.WithOperation(opID, toolID)

	defer func() {
		if r := recover(); r != nil {
			panicMsg := fmt.Sprintf("panic in operation: %v", r)
			opLogger.WithField("panic", r).Error(panicMsg)
			e.status.MarkFailedWithReason(opID, panicMsg)
		}
	}()

	err := e.queue.ExecuteWithQueue(ctx, func() error {
		e.status.MarkRunning(opID)
		run := e.driver.Start(ctx, sim, ctl, func(res engine.StepResult) {
			e.status.MarkProgress(opID, res)
		})
		return run.Wait()
	})

	var panicErr *engine.PanicError
	switch {
	case errors.As(err, &panicErr):
		opLogger.WithField("panic", panicErr.Value).Error(panicErr.Error())
		e.status.MarkFailedWithReason(opID, panicErr.Error())
	case err == nil:
		op := e.status.MarkCompleted(opID)
		if op == nil || e.hooks == nil {
			return
		}
		hookCtx, cancel := context.WithTimeout(context.Background(), hookTimeout)
		defer cancel()
		if errs := e.hooks.Run(hookCtx, op); len(errs) > 0 {
			opLogger.WithField("failed_hooks", len(errs)).Debug("Post hooks finished with errors")
		}
	case errors.Is(err, context.Canceled):
		opLogger.Debug("Operation execution cancelled")
	default:
		opLogger.WithError(err).Error("Operation execution failed")
		e.status.MarkFailedWithReason(opID, fmt.Sprintf("Execution failed: %v", err))
	}
}
