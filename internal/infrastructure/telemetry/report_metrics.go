package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// ReportMetrics records snapshot lookups, generations and report computations.
type ReportMetrics struct {
	lookups       metric.Int64Counter
	generated     metric.Int64Counter
	genDuration   metric.Float64Histogram
	reportLatency metric.Float64Histogram
	reportErrors  metric.Int64Counter
}

// NewReportMetrics registers the instruments on meter.
func NewReportMetrics(meter metric.Meter) (*ReportMetrics, error) {
	m := &ReportMetrics{}
	var err error

	if m.lookups, err = meter.Int64Counter("report_snapshot_lookups_total",
		metric.WithDescription("Profit/loss snapshot lookups by outcome")); err != nil {
		return nil, err
	}
	if m.generated, err = meter.Int64Counter("report_snapshots_generated_total",
		metric.WithDescription("Profit/loss snapshots persisted")); err != nil {
		return nil, err
	}
	if m.genDuration, err = meter.Float64Histogram("report_snapshot_generation_seconds",
		metric.WithDescription("Time spent computing and storing a snapshot"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.reportLatency, err = meter.Float64Histogram("report_compute_seconds",
		metric.WithDescription("Time spent computing a read-only report"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.reportErrors, err = meter.Int64Counter("report_compute_errors_total",
		metric.WithDescription("Report computations that failed")); err != nil {
		return nil, err
	}
	return m, nil
}

// NopReportMetrics returns metrics backed by a no-op meter.
func NopReportMetrics() *ReportMetrics {
	m, _ := NewReportMetrics(noop.NewMeterProvider().Meter(InstrumentationName))
	return m
}

// SnapshotLookup counts a lookup; hit is false for a miss.
func (m *ReportMetrics) SnapshotLookup(ctx context.Context, period string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("period", period),
		attribute.String("result", result),
	))
}

// SnapshotGenerated counts a persisted snapshot and its duration.
func (m *ReportMetrics) SnapshotGenerated(ctx context.Context, period string, took time.Duration) {
	attrs := metric.WithAttributes(attribute.String("period", period))
	m.generated.Add(ctx, 1, attrs)
	m.genDuration.Record(ctx, took.Seconds(), attrs)
}

// ReportComputed records the latency of a named report and whether it failed.
func (m *ReportMetrics) ReportComputed(ctx context.Context, name string, took time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("report", name))
	m.reportLatency.Record(ctx, took.Seconds(), attrs)
	if err != nil {
		m.reportErrors.Add(ctx, 1, attrs)
	}
}
