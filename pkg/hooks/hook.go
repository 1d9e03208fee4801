// Package hooks runs follow-up actions once an operation has finished.
package hooks

import (
	"context"
	"fmt"
	"sync"

	"knoxshield/internal/models"

	log "github.com/sirupsen/logrus"
)

// Context is what a hook sees about the finished operation.
type Context struct {
	Ctx       context.Context
	Operation *models.Operation
	// Data lets earlier hooks hand results to later ones, e.g. the report path.
	Data map[string]interface{}
}

const DataReportPath = "report_path"

type Hook interface {
	Name() string
	PostHook(ctx Context) error
}

// Registry runs hooks in registration order.
type Registry struct {
	mu    sync.RWMutex
	hooks []Hook
	names map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{names: make(map[string]bool)}
}

func (r *Registry) Register(hook Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.names[hook.Name()] {
		log.Error(fmt.Sprintf("hook %s already registered", hook.Name()))
		return
	}
	r.names[hook.Name()] = true
	r.hooks = append(r.hooks, hook)
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.hooks))
	for _, h := range r.hooks {
		names = append(names, h.Name())
	}
	return names
}

// Run calls every hook for op. A failing hook does not stop the others.
func (r *Registry) Run(ctx context.Context, op *models.Operation) []error {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	hooks := append([]Hook(nil), r.hooks...)
	r.mu.RUnlock()

	hctx := Context{
		Ctx:       ctx,
		Operation: op,
		Data:      make(map[string]interface{}),
	}

	var errs []error
	for _, h := range hooks {
		if err := h.PostHook(hctx); err != nil {
			log.WithFields(log.Fields{
				"hook":         h.Name(),
				"operation_id": op.ID,
			}).WithError(err).Warn("Post hook failed")
			errs = append(errs, fmt.Errorf("%s: %w", h.Name(), err))
		}
	}
	return errs
}
