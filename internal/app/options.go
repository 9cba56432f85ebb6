package app

import (
	"io"
	"log/slog"
	"time"
)

// DefaultCompensationTimeout bounds the rollback of a failed payment step.
const DefaultCompensationTimeout = 10 * time.Second

type options struct {
	logger              *slog.Logger
	compensationTimeout time.Duration
}

// Option configures the services of this package.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCompensationTimeout bounds how long step-4 compensations may run.
func WithCompensationTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.compensationTimeout = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		compensationTimeout: DefaultCompensationTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
