package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neomorfeo/botecoflow/internal/domain"
)

// sagaStep is one action of a saga and the compensation that undoes it.
// compensate may be nil for actions with nothing to undo.
type sagaStep struct {
	name       string
	action     func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// saga runs actions in order. When an action fails, the compensations of
// every action that already completed run newest-first, and the action's
// error is returned.
type saga struct {
	steps   []sagaStep
	logger  *slog.Logger
	timeout time.Duration
}

func newSaga(logger *slog.Logger, compensationTimeout time.Duration) *saga {
	return &saga{logger: logger, timeout: compensationTimeout}
}

func (s *saga) add(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, sagaStep{name: name, action: action, compensate: compensate})
}

// run executes the saga. Compensations use a context detached from ctx so
// an aborted request still rolls back, bounded by the saga timeout.
// If any compensation fails the result is a *domain.CompensationError that
// still reads as the original failure.
func (s *saga) run(ctx context.Context) error {
	for i, step := range s.steps {
		err := protect(step.name, func() error { return step.action(ctx) })
		if err == nil {
			continue
		}

		s.logger.ErrorContext(ctx, "saga step failed, compensating",
			"step", step.name,
			"error", err,
		)

		if compErr := s.compensate(ctx, s.steps[:i]); compErr != nil {
			return &domain.CompensationError{Err: err, Compensation: compErr}
		}
		return err
	}
	return nil
}

func (s *saga) compensate(ctx context.Context, done []sagaStep) error {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	var errs []error
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.compensate == nil {
			continue
		}
		if err := protect(step.name, func() error { return step.compensate(cctx) }); err != nil {
			s.logger.ErrorContext(ctx, "compensation failed",
				"step", step.name,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("compensating %s: %w", step.name, err))
		}
	}
	return errors.Join(errs...)
}

// protect turns a panic inside fn into an error so compensation still runs.
func protect(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", name, r)
		}
	}()
	return fn()
}
