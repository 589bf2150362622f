package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/football-api/internal/config"
	"github.com/riskibarqy/football-api/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewUptraceLogCore_Disabled(t *testing.T) {
	t.Parallel()

	cases := []config.Config{
		{},
		{UptraceEnabled: true, UptraceDSN: "https://token@api.uptrace.dev"},
		{UptraceEnabled: true, UptraceLogsEnabled: true},
	}
	for _, cfg := range cases {
		if core := newUptraceLogCore(cfg); core != nil {
			t.Fatalf("expected nil core for %+v", cfg)
		}
	}

	core := newUptraceLogCore(config.Config{
		UptraceEnabled:     true,
		UptraceLogsEnabled: true,
		UptraceDSN:         "https://token@api.uptrace.dev",
		LogLevel:           logging.LevelWarn,
	})
	if core == nil {
		t.Fatalf("expected uptrace core")
	}
	if core.Enabled(zapcore.InfoLevel) || !core.Enabled(zapcore.ErrorLevel) {
		t.Fatalf("core must follow the configured log level")
	}
}

func TestShouldSkipUptraceLog(t *testing.T) {
	t.Parallel()

	if !shouldSkipUptraceLog("http request", map[string]any{"path": "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if !shouldSkipUptraceLog("http request", map[string]any{"path": "/metrics"}) {
		t.Fatalf("expected metrics scrape log to be skipped")
	}
	if shouldSkipUptraceLog("http request", map[string]any{"path": "/v1/teams/sync/1"}) {
		t.Fatalf("did not expect sync request log to be skipped")
	}
	if shouldSkipUptraceLog("sync teams failed", map[string]any{"path": "/healthz"}) {
		t.Fatalf("did not expect non-request event to be skipped")
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	t.Parallel()

	values := encodeLogFields(
		[]zapcore.Field{zap.String("service", "football-api")},
		[]zapcore.Field{
			zap.Int64("league_id", 7),
			zap.Int("attempt", 2),
			zap.NamedError("error", errors.New("boom")),
			zap.String("trace_id", "4bf92f3577b34da6a3ce929d0e0e4736"),
		},
	)
	attrs := buildOTelLogAttributes(values)

	got := make(map[string]otellog.Value, len(attrs))
	for _, attr := range attrs {
		got[attr.Key] = attr.Value
	}
	if len(attrs) != 4 {
		t.Fatalf("expected 4 attributes, got %d: %+v", len(attrs), attrs)
	}
	if attrs[0].Key != "attempt" {
		t.Fatalf("expected sorted keys, first=%q", attrs[0].Key)
	}
	if got["league_id"].AsInt64() != 7 || got["error"].AsString() != "boom" || got["service"].AsString() != "football-api" {
		t.Fatalf("unexpected attributes: %+v", attrs)
	}
	if _, ok := got["trace_id"]; ok {
		t.Fatalf("trace_id must travel in the record context, not as attribute")
	}
}

func TestContextFromLogFields(t *testing.T) {
	t.Parallel()

	ctx := contextFromLogFields(map[string]any{
		"trace_id": "4bf92f3577b34da6a3ce929d0e0e4736",
		"span_id":  "00f067aa0ba902b7",
	})
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() || spanCtx.TraceID().String() != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("unexpected span context: %+v", spanCtx)
	}

	if trace.SpanContextFromContext(contextFromLogFields(map[string]any{"trace_id": "nope"})).IsValid() {
		t.Fatalf("expected invalid span context for malformed ids")
	}
}

func TestToOTelLogValue(t *testing.T) {
	t.Parallel()

	v := toOTelLogValue(map[string]any{"created": 11, "skipped": []string{"a", "b"}}, 0)
	if v.Kind() != otellog.KindMap || len(v.AsMap()) != 2 {
		t.Fatalf("expected map value with 2 items, got %s", v.Kind())
	}
	if got := toOTelLogValue(1500*time.Millisecond, 0).AsString(); got != "1.5s" {
		t.Fatalf("unexpected duration value: %q", got)
	}
	if got := toOTelLogValue(uint64(1)<<63, 0).Kind(); got != otellog.KindString {
		t.Fatalf("expected overflowing uint as string, got %s", got)
	}
	var nilPtr *int
	if got := toOTelLogValue(nilPtr, 0).Kind(); got != otellog.KindEmpty {
		t.Fatalf("expected empty value for nil pointer, got %s", got)
	}
}
