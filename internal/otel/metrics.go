package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "tmux-window-name"

// Run outcomes recorded by RecordRun.
const (
	OutcomeRenamed = "renamed"
	OutcomeBusy    = "busy" // another run held the guard
	OutcomeError   = "error"
)

// Label sources recorded by RecordLabel. SourceProgram and SourcePath
// mirror naming.SourceProgram and naming.SourcePath.
const (
	SourceProgram  = "program"
	SourcePath     = "path"
	SourceDisabled = "disabled" // window opted out via @tmux_window_name_enabled
)

// Metrics holds all OTEL metric instruments for tmux-window-name.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// Runs partitioned by outcome (renamed, busy, error)
	Runs metric.Int64Counter
	// RunDuration is the wall time of one rename pass.
	RunDuration metric.Float64Histogram

	// WindowsRenamed counts rename-window calls that succeeded.
	WindowsRenamed metric.Int64Counter
	// Labels partitioned by source (program, path, disabled)
	Labels metric.Int64Counter
	// ResolveFailures counts runs aborted because a pane could not be
	// matched against the process table.
	ResolveFailures metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Runs, err = meter.Int64Counter("runs.total",
		metric.WithDescription("Rename passes partitioned by outcome (renamed, busy, error)"))
	if err != nil {
		return nil, err
	}

	m.RunDuration, err = meter.Float64Histogram("run.duration",
		metric.WithDescription("Wall time of one rename pass"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	m.WindowsRenamed, err = meter.Int64Counter("windows.renamed",
		metric.WithDescription("Windows renamed"),
		metric.WithUnit("{window}"))
	if err != nil {
		return nil, err
	}

	m.Labels, err = meter.Int64Counter("labels.total",
		metric.WithDescription("Window labels computed, partitioned by source (program, path, disabled)"))
	if err != nil {
		return nil, err
	}

	m.ResolveFailures, err = meter.Int64Counter("resolve.failures",
		metric.WithDescription("Runs aborted because a pane could not be matched against the process table"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordRun records a finished rename pass.
func (m *Metrics) RecordRun(ctx context.Context, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("run.outcome", outcome))
	m.Runs.Add(ctx, 1, attrs)
	m.RunDuration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}

// RecordRename records a successful window rename.
func (m *Metrics) RecordRename(ctx context.Context) {
	if m == nil {
		return
	}
	m.WindowsRenamed.Add(ctx, 1)
}

// RecordLabel records a computed label with the given source.
func (m *Metrics) RecordLabel(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.Labels.Add(ctx, 1, metric.WithAttributes(
		attribute.String("label.source", source),
	))
}

// RecordResolveFailure records a run aborted by a failed pane lookup.
func (m *Metrics) RecordResolveFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.ResolveFailures.Add(ctx, 1)
}
