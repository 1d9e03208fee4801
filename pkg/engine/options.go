package engine

import (
	"time"

	"knoxshield/pkg/logger"
)

type driverOpts struct {
	logger   *logger.Logger
	interval time.Duration
}

type OptFunc func(*driverOpts)

func WithLogger(l *logger.Logger) OptFunc {
	return func(o *driverOpts) {
		o.logger = l
	}
}

// WithTickInterval overrides the simulation pacing. Zero keeps the simulation's own interval.
func WithTickInterval(d time.Duration) OptFunc {
	return func(o *driverOpts) {
		o.interval = d
	}
}
