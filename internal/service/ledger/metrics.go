package ledger

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Alijeyrad/vitum_backend/internal/service/ledger"

type metrics struct {
	operations metric.Int64Counter
	credits    metric.Int64Counter
}

func newMetrics() metrics {
	meter := otel.Meter(meterName)

	operations, _ := meter.Int64Counter(
		"ledger_operations_total",
		metric.WithDescription("Appointment transitions by operation and result"),
		metric.WithUnit("{operation}"),
	)
	credits, _ := meter.Int64Counter(
		"ledger_credits_deducted_total",
		metric.WithDescription("Package sessions consumed on completion"),
		metric.WithUnit("{session}"),
	)
	return metrics{operations: operations, credits: credits}
}

func (m metrics) record(ctx context.Context, op, result string, virtual bool) {
	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("result", result),
		attribute.Bool("virtual", virtual),
	))
}

func (m metrics) deducted(ctx context.Context) {
	m.credits.Add(ctx, 1)
}
