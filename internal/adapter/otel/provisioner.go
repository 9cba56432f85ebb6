package otel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/botecoflow/internal/domain"
)

// TracingProvisioner wraps a domain.Provisioner with OpenTelemetry tracing.
type TracingProvisioner struct {
	next   domain.Provisioner
	tracer trace.Tracer
}

// Compile-time check: TracingProvisioner implements domain.Provisioner.
var _ domain.Provisioner = (*TracingProvisioner)(nil)

// NewTracingProvisioner creates a tracing decorator around the given provisioner.
func NewTracingProvisioner(next domain.Provisioner) *TracingProvisioner {
	return &TracingProvisioner{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (p *TracingProvisioner) ProvisionSchema(ctx context.Context, botecoUsername string) error {
	ctx, span := p.tracer.Start(ctx, "Provisioner.ProvisionSchema",
		trace.WithAttributes(attribute.String("boteco.username", botecoUsername)),
	)
	defer span.End()

	err := p.next.ProvisionSchema(ctx, botecoUsername)
	if err != nil {
		var pe *domain.ProvisioningError
		if errors.As(err, &pe) && pe.StatusCode != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", pe.StatusCode))
		}
		recordError(span, err)
	}
	return err
}
