// Package engine drives simulated tool runs and bounds how many run at once.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"knoxshield/pkg/logger"
)

// Control pauses and resumes a running simulation.
type Control struct {
	mu     sync.Mutex
	paused bool
}

func NewControl() *Control {
	return &Control{}
}

func (c *Control) Pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
}

func (c *Control) Resume() {
	c.mu.Lock()
	c.paused = false
	c.mu.Unlock()
}

func (c *Control) Paused() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Driver ticks simulations on a timer.
type Driver struct {
	driverOpts
}

func NewDriver(opts ...OptFunc) *Driver {
	o := driverOpts{
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Driver{driverOpts: o}
}

// Run ticks sim until it reports Done or ctx is cancelled. Ticks are skipped
// while ctl is paused, and a run that reports Done while paused only returns
// once it is resumed. tick receives every step with progress clamped.
func (d *Driver) Run(ctx context.Context, sim Simulation, ctl *Control, tick func(StepResult)) error {
	interval := d.interval
	if interval <= 0 {
		interval = sim.Timing().Interval()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	finished := false
	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("Simulation cancelled")
			return ctx.Err()
		case <-ticker.C:
			if ctl.Paused() {
				continue
			}
			if finished {
				return nil
			}
			res := sim.Step()
			res.Progress = ClampProgress(res.Progress)
			if tick != nil {
				tick(res)
			}
			if res.Done {
				if !ctl.Paused() {
					return nil
				}
				finished = true
			}
		}
	}
}

// PanicError is returned by Handle.Wait when the simulation panicked.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in operation: %v", e.Value)
}

// Handle is a simulation started in its own goroutine.
type Handle struct {
	*Control
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Start runs sim in a new goroutine. A nil ctl gets a fresh Control.
func (d *Driver) Start(ctx context.Context, sim Simulation, ctl *Control, tick func(StepResult)) *Handle {
	if ctl == nil {
		ctl = NewControl()
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		Control: ctl,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go func() {
		defer close(h.done)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				h.err = &PanicError{Value: r}
			}
		}()
		h.err = d.Run(ctx, sim, h.Control, tick)
	}()
	return h
}

// Stop cancels the run. It does not wait for the goroutine to exit.
func (h *Handle) Stop() {
	h.cancel()
}

// Wait blocks until the run ends and returns ctx.Err() when it was cancelled.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

func (h *Handle) Done() <-chan struct{} {
	return h.done
}
