package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type vendorInstruments struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

var (
	instruments *vendorInstruments
	once        sync.Once
)

// Instruments are created against the global meter provider; calls made
// before InitTelemetry go to the otel no-op provider and are delegated later.
func vendorMetrics() *vendorInstruments {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter(ServiceName)
		m := &vendorInstruments{}
		var err error

		m.requests, err = meter.Int64Counter(
			"vendor_requests_total",
			metric.WithDescription("Calls to external vendors by vendor, operation and outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			slog.Error("Metrics: failed to create vendor_requests_total", slog.Any("error", err))
		}

		m.duration, err = meter.Float64Histogram(
			"vendor_request_duration_seconds",
			metric.WithDescription("Latency of external vendor calls"),
			metric.WithUnit("s"),
		)
		if err != nil {
			slog.Error("Metrics: failed to create vendor_request_duration_seconds", slog.Any("error", err))
		}
		instruments = m
	})
	return instruments
}

// StartVendorSpan opens a span for one vendor call. The returned finish func
// records the outcome on the span and the vendor metrics.
func StartVendorSpan(ctx context.Context, vendor, operation string, attrs ...attribute.KeyValue) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := otel.Tracer(ServiceName+"/"+vendor).Start(ctx, operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs, attribute.String("vendor", vendor))...),
	)

	return ctx, func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()

		m := vendorMetrics()
		set := metric.WithAttributes(
			attribute.String("vendor", vendor),
			attribute.String("operation", operation),
			attribute.String("outcome", outcome),
		)
		if m.requests != nil {
			m.requests.Add(ctx, 1, set)
		}
		if m.duration != nil {
			m.duration.Record(ctx, time.Since(start).Seconds(), set)
		}
	}
}
