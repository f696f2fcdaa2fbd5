package otel

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		raw  string
		want map[string]string
	}{
		{"", map[string]string{}},
		{"Authorization=Basic abc", map[string]string{"Authorization": "Basic abc"}},
		{" a = 1 , b=2=3 ", map[string]string{"a": "1", "b": "2=3"}},
		{"=novalue,junk", map[string]string{}},
	}
	for _, tt := range tests {
		got := parseHeaders(tt.raw)
		if len(got) != len(tt.want) {
			t.Errorf("parseHeaders(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for k, v := range tt.want {
			if got[k] != v {
				t.Errorf("parseHeaders(%q)[%q] = %q, want %q", tt.raw, k, got[k], v)
			}
		}
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		raw      string
		host     string
		path     string
		insecure bool
	}{
		{"http://localhost:4318", "localhost:4318", "", true},
		{"https://otlp.example.com/otlp/", "otlp.example.com", "/otlp", false},
	}
	for _, tt := range tests {
		got, err := parseEndpoint(tt.raw, "x-team=ops")
		if err != nil {
			t.Fatalf("parseEndpoint(%q): %v", tt.raw, err)
		}
		if got.host != tt.host || got.path != tt.path || got.insecure != tt.insecure {
			t.Errorf("parseEndpoint(%q) = %+v", tt.raw, got)
		}
		if got.headers["x-team"] != "ops" {
			t.Errorf("parseEndpoint(%q) headers = %v", tt.raw, got.headers)
		}
	}
}

func TestParseEndpoint_Invalid(t *testing.T) {
	for _, raw := range []string{"http://[::1", "localhost:4318", "grpc://collector:4317", "http://"} {
		if _, err := parseEndpoint(raw, ""); err == nil {
			t.Errorf("parseEndpoint(%q): expected error", raw)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource(context.Background(), Options{Version: "1.2.3", Socket: "work"})
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}
	set := res.Set()
	if v, ok := set.Value(SocketKey); !ok || v.AsString() != "work" {
		t.Errorf("tmux.socket = %v, %v", v.AsString(), ok)
	}
	if v, _ := set.Value(attribute.Key("service.version")); v.AsString() != "1.2.3" {
		t.Errorf("service.version = %q", v.AsString())
	}

	res, err = newResource(context.Background(), Options{})
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}
	if _, ok := res.Set().Value(SocketKey); ok {
		t.Error("tmux.socket set outside tmux")
	}
	if v, _ := res.Set().Value(attribute.Key("service.version")); v.AsString() != "dev" {
		t.Errorf("default service.version = %q", v.AsString())
	}
}

func TestInitWithoutEndpoint(t *testing.T) {
	ctx := context.Background()
	tel, err := Init(ctx, Options{Socket: "default"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if tel.Metrics == nil {
		t.Fatal("expected no-op metrics")
	}
	tel.Metrics.RecordRun(ctx, OutcomeRenamed, time.Millisecond)
	if err := tel.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestNilSafe(t *testing.T) {
	ctx := context.Background()
	var m *Metrics
	m.RecordRun(ctx, OutcomeError, 0)
	m.RecordRename(ctx)
	m.RecordLabel(ctx, SourcePath)
	m.RecordResolveFailure(ctx)

	var tel *Telemetry
	if err := tel.Shutdown(ctx); err != nil {
		t.Errorf("nil Shutdown: %v", err)
	}
}

func TestInitInvalidEndpoint(t *testing.T) {
	if _, err := Init(context.Background(), Options{Endpoint: "http://[::1"}); err == nil {
		t.Error("expected error for invalid endpoint URL")
	}
}

func TestResolveFailuresCountsRuns(t *testing.T) {
	prev := otel.GetMeterProvider()
	defer otel.SetMeterProvider(prev)

	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	m, err := NewMetrics()
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	ctx := context.Background()
	m.RecordResolveFailure(ctx)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != "resolve.failures" {
				continue
			}
			if md.Description != "Runs aborted because a pane could not be matched against the process table" {
				t.Errorf("description = %q", md.Description)
			}
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok || len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 1 {
				t.Errorf("data = %+v", md.Data)
			}
			return
		}
	}
	t.Fatal("resolve.failures not collected")
}
