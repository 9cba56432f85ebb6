package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/botecoflow/internal/domain"
)

const tracerName = "github.com/neomorfeo/botecoflow/internal/adapter/otel"

// TracingGateway wraps a domain.Gateway with OpenTelemetry tracing.
// Each method creates a span with the table name and records errors.
type TracingGateway struct {
	next   domain.Gateway
	tracer trace.Tracer
}

// Compile-time check: TracingGateway implements domain.Gateway.
var _ domain.Gateway = (*TracingGateway)(nil)

// NewTracingGateway creates a tracing decorator around the given gateway.
func NewTracingGateway(next domain.Gateway) *TracingGateway {
	return &TracingGateway{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (g *TracingGateway) Insert(ctx context.Context, table domain.Table, record domain.Row) (domain.Row, error) {
	ctx, span := g.tracer.Start(ctx, "Gateway.Insert",
		trace.WithAttributes(attribute.String("db.table", string(table))),
	)
	defer span.End()

	row, err := g.next.Insert(ctx, table, record)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.String("row.id", row.ID()))
	}
	return row, err
}

func (g *TracingGateway) Upsert(ctx context.Context, table domain.Table, record domain.Row, conflictKey string) (domain.Row, error) {
	ctx, span := g.tracer.Start(ctx, "Gateway.Upsert",
		trace.WithAttributes(
			attribute.String("db.table", string(table)),
			attribute.String("db.conflict_key", conflictKey),
		),
	)
	defer span.End()

	row, err := g.next.Upsert(ctx, table, record, conflictKey)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.String("row.id", row.ID()))
	}
	return row, err
}

func (g *TracingGateway) DeleteByID(ctx context.Context, table domain.Table, id string) error {
	ctx, span := g.tracer.Start(ctx, "Gateway.DeleteByID",
		trace.WithAttributes(
			attribute.String("db.table", string(table)),
			attribute.String("row.id", id),
		),
	)
	defer span.End()

	err := g.next.DeleteByID(ctx, table, id)
	if err != nil {
		recordError(span, err)
	}
	return err
}

func (g *TracingGateway) Select(ctx context.Context, table domain.Table, filters []domain.Filter, limit int) ([]domain.Row, error) {
	ctx, span := g.tracer.Start(ctx, "Gateway.Select",
		trace.WithAttributes(
			attribute.String("db.table", string(table)),
			attribute.StringSlice("filter.columns", filterColumns(filters)),
			attribute.Int("filter.limit", limit),
		),
	)
	defer span.End()

	rows, err := g.next.Select(ctx, table, filters, limit)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.Int("result.count", len(rows)))
	}
	return rows, err
}

func (g *TracingGateway) Count(ctx context.Context, table domain.Table, filters []domain.Filter) (int, error) {
	ctx, span := g.tracer.Start(ctx, "Gateway.Count",
		trace.WithAttributes(
			attribute.String("db.table", string(table)),
			attribute.StringSlice("filter.columns", filterColumns(filters)),
		),
	)
	defer span.End()

	n, err := g.next.Count(ctx, table, filters)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.Int("result.count", n))
	}
	return n, err
}

// filterColumns lists filter columns only; values may hold personal data.
func filterColumns(filters []domain.Filter) []string {
	cols := make([]string, 0, len(filters))
	for _, f := range filters {
		cols = append(cols, f.Column)
	}
	return cols
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
