package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"knoxshield/internal/models"
	"knoxshield/pkg/engine"
	apperrors "knoxshield/pkg/errors"
)

const (
	// MaxOperations bounds the live operation list.
	MaxOperations   = 50
	RunningLogLimit = 20
	FinalLogLimit   = 50
)

// errSkipUpdate aborts an update without reporting a failure.
var errSkipUpdate = errors.New("skip update")

type liveOperation struct {
	op *models.Operation
	// logs is the full log history, capped at FinalLogLimit. op.Logs is the
	// visible tail of it.
	logs        []string
	ctl         *engine.Control
	cancel      context.CancelFunc
	rng         *rand.Rand
	done        chan struct{}
	once        sync.Once
	lastPersist time.Time
}

func newLiveOperation(op *models.Operation, cancel context.CancelFunc, rng *rand.Rand) *liveOperation {
	e := &liveOperation{
		op:     op,
		ctl:    engine.NewControl(),
		cancel: cancel,
		rng:    rng,
		done:   make(chan struct{}),
		logs:   truncateLogs(append([]string(nil), op.Logs...), FinalLogLimit),
	}
	e.syncLogs()
	return e
}

func (e *liveOperation) appendLogs(lines ...string) {
	e.logs = truncateLogs(append(e.logs, lines...), FinalLogLimit)
	e.syncLogs()
}

// syncLogs shows the last RunningLogLimit lines while the operation is live
// and the last FinalLogLimit once it has ended.
func (e *liveOperation) syncLogs() {
	limit := RunningLogLimit
	if e.op.Status.Terminal() {
		limit = FinalLogLimit
	}
	e.op.Logs = append([]string(nil), truncateLogs(e.logs, limit)...)
}

// finish releases waiters. The simulation is cancelled separately.
func (e *liveOperation) finish() {
	e.once.Do(func() { close(e.done) })
}

func (e *liveOperation) finished() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// operationRegistry is the in-memory list of live operations, newest first.
type operationRegistry struct {
	mu    sync.RWMutex
	order []*liveOperation
	byID  map[string]*liveOperation
	limit int
}

func newOperationRegistry(limit int) *operationRegistry {
	if limit <= 0 {
		limit = MaxOperations
	}
	return &operationRegistry{
		byID:  make(map[string]*liveOperation),
		limit: limit,
	}
}

// insert puts e at the front and returns the entries pushed past the limit.
func (r *operationRegistry) insert(e *liveOperation) []*liveOperation {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = append([]*liveOperation{e}, r.order...)
	r.byID[e.op.ID] = e

	var evicted []*liveOperation
	if len(r.order) > r.limit {
		evicted = append(evicted, r.order[r.limit:]...)
		r.order = r.order[:r.limit]
		for _, old := range evicted {
			delete(r.byID, old.op.ID)
		}
	}
	return evicted
}

func (r *operationRegistry) get(id string) (*liveOperation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	return e, ok
}

func (r *operationRegistry) has(id string) bool {
	_, ok := r.get(id)
	return ok
}

// snapshot returns a copy of one operation.
func (r *operationRegistry) snapshot(id string) (*models.Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return e.op.Clone(), true
}

// update runs fn under the registry lock and returns a copy of the result.
func (r *operationRegistry) update(id string, fn func(e *liveOperation) error) (*models.Operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrOperationNotFound, id)
	}
	if err := fn(e); err != nil {
		return nil, err
	}
	return e.op.Clone(), nil
}

func (r *operationRegistry) remove(id string) (*liveOperation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	delete(r.byID, id)
	for i, cur := range r.order {
		if cur == e {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return e, true
}

func (r *operationRegistry) list() []models.Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Operation, 0, len(r.order))
	for _, e := range r.order {
		out = append(out, *e.op.Clone())
	}
	return out
}

func (r *operationRegistry) all() []*liveOperation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*liveOperation(nil), r.order...)
}

// truncateLogs keeps the last n lines.
func truncateLogs(logs []string, n int) []string {
	if len(logs) <= n {
		return logs
	}
	return append([]string(nil), logs[len(logs)-n:]...)
}
