package database

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Instrument wraps repository calls in client spans and flags slow ones.
type Instrument struct {
	system string
	slow   time.Duration
	log    *slog.Logger
	tracer trace.Tracer
}

// NewInstrument returns an Instrument for system ("postgresql", "redis").
// A zero slow threshold disables slow-query warnings.
func NewInstrument(system string, slow time.Duration, l *slog.Logger) *Instrument {
	return &Instrument{
		system: system,
		slow:   slow,
		log:    l,
		tracer: otel.Tracer("github.com/alfonso816/Tienda/pkg/database"),
	}
}

// Start opens a span named db.<op>. Call the returned func with the
// operation's error when it finishes:
//
//	ctx, end := inst.Start(ctx, "ListProducts", query)
//	defer func() { end(err) }()
func (in *Instrument) Start(ctx context.Context, op, statement string) (context.Context, func(error)) {
	if in == nil {
		return ctx, func(error) {}
	}
	start := time.Now()
	ctx, span := in.tracer.Start(ctx, "db."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", in.system),
			attribute.String("db.operation", op),
			attribute.String("db.statement", statement),
		),
	)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if in.slow <= 0 || in.log == nil {
			return
		}
		if elapsed := time.Since(start); elapsed >= in.slow {
			in.log.WarnContext(ctx, "slow query",
				slog.String("db.system", in.system),
				slog.String("operation", op),
				slog.Duration("duration", elapsed),
			)
		}
	}
}
