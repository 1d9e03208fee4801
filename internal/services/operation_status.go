package services

import (
	"errors"
	"time"

	"knoxshield/internal/dao"
	"knoxshield/internal/models"
	"knoxshield/pkg/engine"
	"knoxshield/pkg/logger"
)

// persistInterval throttles progress writes to the DAO.
const persistInterval = 2 * time.Second

// AlertEvent is published on TopicAlert when a run raises a notification.
type AlertEvent struct {
	OperationID string `json:"operationId"`
	ToolID      string `json:"toolId"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

// OperationDeleted is published on TopicOperationUpdated when an operation is removed.
type OperationDeleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// OperationStatusManager applies simulation results and final states to the
// registry, then persists and publishes them.
type OperationStatusManager struct {
	registry *operationRegistry
	opDao    dao.OperationDAO
	catalog  CatalogServiceMethods
	events   Publisher
	logger   *logger.Logger
	now      func() time.Time
}

func newOperationStatusManager(registry *operationRegistry, opDao dao.OperationDAO, catalog CatalogServiceMethods, events Publisher, log *logger.Logger, now func() time.Time) *OperationStatusManager {
	return &OperationStatusManager{
		registry: registry,
		opDao:    opDao,
		catalog:  catalog,
		events:   events,
		logger:   log,
		now:      now,
	}
}

// MarkRunning is called once the operation holds a queue slot.
func (m *OperationStatusManager) MarkRunning(opID string) {
	op, ok := m.registry.snapshot(opID)
	if !ok || op.Status.Terminal() {
		return
	}
	m.logger.WithOperation(op.ID, op.ToolID).Debug("Operation acquired a run slot")
	m.project(op)
}

// MarkProgress records one tick. Ticks for operations that have already ended
// are dropped. A tick that lands just after a pause is still recorded.
func (m *OperationStatusManager) MarkProgress(opID string, res engine.StepResult) {
	persist := false
	op, err := m.registry.update(opID, func(e *liveOperation) error {
		if e.op.Status.Terminal() {
			return errSkipUpdate
		}
		e.op.Progress = engine.ClampProgress(res.Progress)
		e.appendLogs(res.Logs...)
		if res.ScanResults != nil {
			sr := *res.ScanResults
			sr.ThreatsFound = append([]models.ThreatDetails(nil), res.ScanResults.ThreatsFound...)
			e.op.ScanResults = &sr
		}
		if now := m.now(); now.Sub(e.lastPersist) >= persistInterval {
			e.lastPersist = now
			persist = true
		}
		return nil
	})
	if err != nil {
		return
	}

	if persist {
		m.persist(op)
	}
	m.project(op)

	if res.Alert != nil {
		m.logger.WithOperation(op.ID, op.ToolID).Warn(res.Alert.Body)
		m.events.Publish(TopicAlert, AlertEvent{
			OperationID: op.ID,
			ToolID:      op.ToolID,
			Title:       res.Alert.Title,
			Body:        res.Alert.Body,
		})
	}
	m.events.Publish(TopicOperationUpdated, op)
}

// MarkCompleted draws the final outcome of a run that reached 100%. It returns
// nil when the operation was stopped or removed first.
func (m *OperationStatusManager) MarkCompleted(opID string) *models.Operation {
	op, err := m.registry.update(opID, func(e *liveOperation) error {
		if e.op.Status.Terminal() {
			return errSkipUpdate
		}
		status, msg := engine.FinalOutcome(e.rng)
		now := m.now()
		e.op.Status = status
		e.op.Progress = 100
		e.op.EndTime = &now
		e.appendLogs(engine.Stamp(now, msg))
		e.finish()
		return nil
	})
	if err != nil {
		if !errors.Is(err, errSkipUpdate) {
			m.logger.WithError(err).WithField("operation_id", opID).Warn("Operation gone before completion")
		}
		return nil
	}

	m.logger.WithOperation(op.ID, op.ToolID).WithField("status", op.Status).Info("Operation finished")
	m.persist(op)
	m.project(op)
	m.events.Publish(TopicOperationUpdated, op)
	return op
}

func (m *OperationStatusManager) MarkFailedWithReason(opID, reason string) {
	op, err := m.registry.update(opID, func(e *liveOperation) error {
		if e.op.Status.Terminal() {
			return errSkipUpdate
		}
		now := m.now()
		e.op.Status = models.StatusError
		e.op.EndTime = &now
		e.appendLogs(engine.Stamp(now, reason))
		e.finish()
		return nil
	})
	if err != nil {
		return
	}

	m.logger.WithOperation(op.ID, op.ToolID).WithField("reason", reason).Error("Operation marked as failed")
	m.persist(op)
	m.project(op)
	m.events.Publish(TopicOperationUpdated, op)
}

func (m *OperationStatusManager) persist(op *models.Operation) {
	if err := m.opDao.UpdateOperation(op); err != nil {
		m.logger.WithOperation(op.ID, op.ToolID).WithError(err).Error("Failed to persist operation")
	}
}

// project mirrors the operation state onto its catalog tool.
func (m *OperationStatusManager) project(op *models.Operation) {
	progress := op.Progress
	if _, err := m.catalog.Project(op.CategoryID, op.ToolID, op.Status, &progress); err != nil {
		m.logger.WithOperation(op.ID, op.ToolID).WithError(err).Debug("Tool projection skipped")
	}
}
