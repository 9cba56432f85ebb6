package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/neomorfeo/botecoflow/internal/domain"
)

// Step outcome values recorded on the onboarding.step.transitions counter.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// MeteredStepValidator counts every wizard transition attempt by event,
// current step and outcome.
type MeteredStepValidator struct {
	next        domain.StepValidator
	transitions metric.Int64Counter
}

var _ domain.StepValidator = (*MeteredStepValidator)(nil)

// NewMeteredStepValidator wraps next with a counter from mp.
func NewMeteredStepValidator(next domain.StepValidator, mp metric.MeterProvider) (*MeteredStepValidator, error) {
	counter, err := mp.Meter(tracerName).Int64Counter("onboarding.step.transitions",
		metric.WithDescription("Wizard step transition attempts"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating step counter: %w", err)
	}
	return &MeteredStepValidator{next: next, transitions: counter}, nil
}

func (v *MeteredStepValidator) Apply(ctx context.Context, current domain.Step, event domain.Event) (domain.Step, error) {
	next, err := v.next.Apply(ctx, current, event)

	outcome := OutcomeAccepted
	if err != nil {
		outcome = OutcomeRejected
	}
	v.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("onboarding.event", string(event)),
		attribute.String("onboarding.step", current.String()),
		attribute.String("onboarding.outcome", outcome),
	))

	return next, err
}
