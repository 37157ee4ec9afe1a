package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records outbound call metrics through OpenTelemetry. The
// Prometheus exporter registers on the default registry, so the numbers show
// up on the same /metrics endpoint as the promauto collectors.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	callCounter   otelmetric.Int64Counter
	callDuration  otelmetric.Float64Histogram
}

var (
	once     sync.Once
	instance *Observability
)

// New returns the process-wide Observability, creating it on first use. The
// exporter can only register its collector once per registry.
func New(serviceName string) *Observability {
	once.Do(func() {
		instance = build(serviceName)
	})
	return instance
}

func build(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		otel.Handle(err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	callCounter, _ := meter.Int64Counter(
		"calls.placed",
		otelmetric.WithDescription("Number of outbound calls requested"),
	)

	callDuration, _ := meter.Float64Histogram(
		"calls.create.duration",
		otelmetric.WithDescription("Outbound call creation latency"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		callCounter:   callCounter,
		callDuration:  callDuration,
	}
}

func (o *Observability) RecordCallPlaced(ctx context.Context, mode, status string) {
	if o == nil || o.callCounter == nil {
		return
	}
	o.callCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordCallDuration(ctx context.Context, duration time.Duration, status string) {
	if o == nil || o.callDuration == nil {
		return
	}
	o.callDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("status", status),
	))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
