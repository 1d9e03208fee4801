package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"knoxshield/internal/catalog"
	"knoxshield/internal/dao"
	"knoxshield/internal/i18n"
	"knoxshield/internal/models"
	"knoxshield/pkg/engine"
	apperrors "knoxshield/pkg/errors"
	"knoxshield/pkg/hooks"
	"knoxshield/pkg/logger"
)

const (
	ActionPause     = "pause"
	ActionResume    = "resume"
	ActionStop      = "stop"
	ActionForceStop = "force_stop"
)

// StartOperationRequest describes a new tool run. Params are keyed by the
// run-form label.
type StartOperationRequest struct {
	ToolID     string            `json:"tool_id"`
	CategoryID string            `json:"category_id,omitempty"`
	Task       string            `json:"task"`
	Params     map[string]string `json:"params,omitempty"`
	Lang       string            `json:"lang,omitempty"`
}

// OperationPatch changes a live operation. Nil fields are left alone; Logs are appended.
type OperationPatch struct {
	Status   *models.ToolStatus `json:"status,omitempty"`
	Progress *float64           `json:"progress,omitempty"`
	Logs     []string           `json:"logs,omitempty"`
}

type OperationServiceMethods interface {
	StartOperation(req StartOperationRequest) (*models.Operation, error)
	ListOperations() []models.Operation
	History() ([]models.Operation, error)
	GetOperation(id string) (*models.Operation, error)
	UpdateOperation(id string, patch OperationPatch) (*models.Operation, error)
	ApplyAction(id, action string) (*models.Operation, error)
	Stats() models.OperationStats
	DeleteOperation(id string) error
	Wait(ctx context.Context, id string) (*models.Operation, error)
	Shutdown()
}

// OperationDeps wires the operation service. Only DAO and Catalog are required.
type OperationDeps struct {
	DAO      dao.OperationDAO
	Catalog  CatalogServiceMethods
	Queue    *engine.Queue
	Driver   *engine.Driver
	Threats  *catalog.ThreatDB
	Events   Publisher
	Hooks    *hooks.Registry
	Logger   *logger.Logger
	Language func() string
	NewRand  func() *rand.Rand
	Now      func() time.Time
}

type operationService struct {
	opDao    dao.OperationDAO
	catalog  CatalogServiceMethods
	queue    *engine.Queue
	threats  *catalog.ThreatDB
	events   Publisher
	logger   *logger.Logger
	language func() string
	newRand  func() *rand.Rand
	now      func() time.Time

	registry      *operationRegistry
	statusManager *OperationStatusManager
	executor      *OperationExecutor

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOperationService(deps OperationDeps) OperationServiceMethods {
	if deps.Logger == nil {
		deps.Logger = logger.Default()
	}
	if deps.Events == nil {
		deps.Events = NewEventBroker(0)
	}
	if deps.Queue == nil {
		deps.Queue = engine.NewQueue(0, deps.Logger)
	}
	if deps.Driver == nil {
		deps.Driver = engine.NewDriver(engine.WithLogger(deps.Logger))
	}
	if deps.Language == nil {
		deps.Language = func() string { return i18n.English }
	}
	if deps.NewRand == nil {
		deps.NewRand = newRandFactory()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &operationService{
		opDao:    deps.DAO,
		catalog:  deps.Catalog,
		queue:    deps.Queue,
		threats:  deps.Threats,
		events:   deps.Events,
		logger:   deps.Logger,
		language: deps.Language,
		newRand:  deps.NewRand,
		now:      deps.Now,
		registry: newOperationRegistry(MaxOperations),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.statusManager = newOperationStatusManager(s.registry, deps.DAO, deps.Catalog, deps.Events, deps.Logger, deps.Now)
	s.executor = newOperationExecutor(deps.Queue, deps.Driver, s.statusManager, deps.Hooks, deps.Logger)
	return s
}

// newRandFactory hands every operation its own source seeded from a shared one.
func newRandFactory() func() *rand.Rand {
	var mu sync.Mutex
	seed := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func() *rand.Rand {
		mu.Lock()
		defer mu.Unlock()
		return rand.New(rand.NewSource(seed.Int63()))
	}
}

func (s *operationService) StartOperation(req StartOperationRequest) (*models.Operation, error) {
	tool, err := s.catalog.FindTool(req.ToolID)
	if err != nil {
		return nil, err
	}
	if req.CategoryID != "" && req.CategoryID != tool.CategoryID {
		return nil, fmt.Errorf("%w: %s/%s", apperrors.ErrToolNotFound, req.CategoryID, req.ToolID)
	}

	lang := req.Lang
	if lang == "" {
		lang = s.language()
	}
	texts := i18n.New(lang)

	params, err := validateParams(*tool, req.Params, texts)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rng := s.newRand()
	sim := engine.NewSimulation(tool.ID, params, engine.Env{
		Texts:   texts,
		Threats: s.threats,
		Rand:    rng,
		Now:     s.now,
	})

	task := strings.TrimSpace(req.Task)
	toolName := displayName(tool.Name, lang)
	if task == "" {
		task = toolName
	}

	first := "Operation started: " + task
	if len(params) > 0 {
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encode params: %w", err)
		}
		first = "Operation started with params: " + string(encoded)
	}

	op := &models.Operation{
		ID:              s.newID(now, tool.ID),
		ToolID:          tool.ID,
		ToolName:        toolName,
		CategoryID:      tool.CategoryID,
		TaskDescription: task,
		Params:          params,
		Status:          models.StatusRunning,
		StartTime:       now,
		Logs:            append([]string{engine.Stamp(now, first)}, sim.Begin()...),
	}

	if err := s.opDao.SaveOperation(op.Clone()); err != nil {
		s.logger.WithOperation(op.ID, op.ToolID).WithError(err).Error("Failed to save operation")
		return nil, fmt.Errorf("save operation: %w", err)
	}

	ctx, cancel := context.WithCancel(s.ctx)
	entry := newLiveOperation(op, cancel, rng)
	entry.lastPersist = now
	for _, old := range s.registry.insert(entry) {
		old.cancel()
		old.finish()
		s.logger.WithOperation(old.op.ID, old.op.ToolID).Debug("Operation evicted from live list")
	}

	snapshot := op.Clone()
	s.logger.WithOperation(op.ID, op.ToolID).WithField("task", task).Info("Operation started")
	s.statusManager.project(snapshot)
	s.events.Publish(TopicOperationUpdated, snapshot)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.executor.Execute(ctx, op.ID, op.ToolID, sim, entry.ctl)
	}()

	return snapshot, nil
}

func (s *operationService) newID(now time.Time, toolID string) string {
	id := fmt.Sprintf("op-%d-%s", now.UnixMilli(), toolID)
	candidate := id
	for n := 2; s.registry.has(candidate); n++ {
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	return candidate
}

// validateParams checks the run form and fills defaults. It returns a copy.
func validateParams(tool models.Tool, given map[string]string, texts *i18n.Translator) (map[string]string, error) {
	params := make(map[string]string, len(given))
	for k, v := range given {
		params[k] = strings.TrimSpace(v)
	}

	for _, p := range tool.SampleExecutionParams {
		label := texts.Get(p.Label)
		value := engine.LookupParam(params, p.Label, texts)
		if value == "" && p.DefaultValue != "" {
			value = p.DefaultValue
			params[label] = value
		}
		if value == "" {
			if p.Required {
				return nil, apperrors.NewParamError(label, "is required")
			}
			continue
		}

		switch p.Type {
		case models.ParamNumber:
			n, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, apperrors.NewParamError(label, "must be a number")
			}
			if p.Min != nil && n < *p.Min {
				return nil, apperrors.NewParamError(label, fmt.Sprintf("must be at least %v", *p.Min))
			}
			if p.Max != nil && n > *p.Max {
				return nil, apperrors.NewParamError(label, fmt.Sprintf("must be at most %v", *p.Max))
			}
		case models.ParamSelect:
			if len(p.Options) > 0 && !validOption(p.Options, value, texts) {
				return nil, apperrors.NewParamError(label, "is not one of the allowed options")
			}
		}
	}

	if len(params) == 0 {
		return nil, nil
	}
	return params, nil
}

func validOption(options []string, value string, texts *i18n.Translator) bool {
	for _, opt := range options {
		if value == opt || value == texts.Get(opt) || value == i18n.New(i18n.English).Get(opt) {
			return true
		}
	}
	return false
}

func (s *operationService) ListOperations() []models.Operation {
	return s.registry.list()
}

func (s *operationService) History() ([]models.Operation, error) {
	return s.opDao.ListOperations()
}

func (s *operationService) GetOperation(id string) (*models.Operation, error) {
	if op, ok := s.registry.snapshot(id); ok {
		return op, nil
	}
	return s.opDao.GetOperation(id)
}

func (s *operationService) UpdateOperation(id string, patch OperationPatch) (*models.Operation, error) {
	var cancel context.CancelFunc
	op, err := s.registry.update(id, func(e *liveOperation) error {
		cancel = s.applyPatch(e, patch, true)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.afterMutation(op, cancel), nil
}

// applyPatch mutates e and returns the cancel func when the run must stop.
func (s *operationService) applyPatch(e *liveOperation, patch OperationPatch, logStatus bool) context.CancelFunc {
	now := s.now()
	var cancel context.CancelFunc

	if patch.Progress != nil {
		e.op.Progress = engine.ClampProgress(*patch.Progress)
	}
	lines := append([]string(nil), patch.Logs...)

	if patch.Status != nil && *patch.Status != e.op.Status {
		e.op.Status = *patch.Status
		if logStatus {
			lines = append(lines, engine.Stamp(now, "Status updated: "+string(e.op.Status)))
		}
		switch e.op.Status {
		case models.StatusReadyToRun:
			e.ctl.Pause()
		case models.StatusRunning:
			e.ctl.Resume()
		case models.StatusCompleted, models.StatusError:
			if e.op.EndTime == nil {
				e.op.EndTime = &now
			}
			cancel = e.cancel
			e.finish()
		}
	}

	e.appendLogs(lines...)
	return cancel
}

func (s *operationService) afterMutation(op *models.Operation, cancel context.CancelFunc) *models.Operation {
	if cancel != nil {
		cancel()
	}
	s.statusManager.persist(op)
	s.statusManager.project(op)
	s.events.Publish(TopicOperationUpdated, op)
	return op
}

func (s *operationService) ApplyAction(id, action string) (*models.Operation, error) {
	var cancel context.CancelFunc
	op, err := s.registry.update(id, func(e *liveOperation) error {
		status := e.op.Status
		switch action {
		case ActionPause:
			if status != models.StatusRunning {
				return fmt.Errorf("%w: cannot pause a %s operation", apperrors.ErrInvalidState, status)
			}
			if e.op.Progress >= 100 {
				return fmt.Errorf("%w: operation is finishing", apperrors.ErrInvalidState)
			}
			cancel = s.applyPatch(e, OperationPatch{Status: statusPtr(models.StatusReadyToRun)}, true)
		case ActionResume:
			if status != models.StatusReadyToRun || e.finished() {
				return fmt.Errorf("%w: cannot resume a %s operation", apperrors.ErrInvalidState, status)
			}
			cancel = s.applyPatch(e, OperationPatch{Status: statusPtr(models.StatusRunning)}, true)
		case ActionStop:
			if status.Terminal() {
				return fmt.Errorf("%w: operation already %s", apperrors.ErrInvalidState, status)
			}
			cancel = s.applyPatch(e, OperationPatch{Status: statusPtr(models.StatusError)}, true)
		case ActionForceStop:
			stamp := engine.Stamp(s.now(), "Operation cleared by user.")
			cancel = s.applyPatch(e, OperationPatch{
				Status: statusPtr(models.StatusCompleted),
				Logs:   []string{stamp},
			}, false)
			if cancel == nil {
				cancel = e.cancel
			}
		default:
			return fmt.Errorf("%w: %q", apperrors.ErrInvalidAction, action)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithOperation(op.ID, op.ToolID).WithField("action", action).Info("Operation action applied")
	return s.afterMutation(op, cancel), nil
}

func statusPtr(status models.ToolStatus) *models.ToolStatus {
	return &status
}

func (s *operationService) Stats() models.OperationStats {
	var stats models.OperationStats
	for _, op := range s.registry.list() {
		stats.Total++
		switch op.Status {
		case models.StatusRunning:
			stats.Running++
		case models.StatusReadyToRun:
			stats.Paused++
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusError:
			stats.Failed++
		}
	}
	stats.QueueRunning, stats.QueueWaiting, stats.MaxConcurrent = s.queue.GetStatus()
	return stats
}

func (s *operationService) DeleteOperation(id string) error {
	entry, live := s.registry.remove(id)
	if live {
		entry.cancel()
		entry.finish()
	}

	err := s.opDao.DeleteOperation(id)
	if err != nil && !(live && errors.Is(err, apperrors.ErrOperationNotFound)) {
		return err
	}

	if live {
		progress := 0.0
		if _, perr := s.catalog.Project(entry.op.CategoryID, entry.op.ToolID, models.StatusReadyToRun, &progress); perr != nil {
			s.logger.WithError(perr).Debug("Tool projection skipped")
		}
	}
	s.logger.WithField("operation_id", id).Info("Operation deleted")
	s.events.Publish(TopicOperationUpdated, OperationDeleted{ID: id, Deleted: true})
	return nil
}

// Wait blocks until the operation reaches a final state or ctx ends.
func (s *operationService) Wait(ctx context.Context, id string) (*models.Operation, error) {
	entry, ok := s.registry.get(id)
	if !ok {
		return s.opDao.GetOperation(id)
	}
	select {
	case <-entry.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.GetOperation(id)
}

// Shutdown cancels every live run and waits for the executors to return.
func (s *operationService) Shutdown() {
	s.cancel()
	for _, entry := range s.registry.all() {
		entry.finish()
	}
	s.wg.Wait()
	s.logger.Info("Operation service stopped")
}
