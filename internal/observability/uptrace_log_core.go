package observability

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/football-api/internal/config"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

const (
	uptraceLogInstrumentation = "github.com/riskibarqy/football-api/internal/platform/logging"
	maxLogValueDepth          = 3
)

// uptraceLogCore forwards zap entries to the global OpenTelemetry logger
// provider, which Uptrace installs once InitUptrace runs. Entries written
// before that are dropped by the global delegate.
type uptraceLogCore struct {
	zapcore.LevelEnabler
	logger otellog.Logger
	fields []zapcore.Field
}

func newUptraceLogCore(cfg config.Config) zapcore.Core {
	if !cfg.UptraceEnabled || !cfg.UptraceLogsEnabled || strings.TrimSpace(cfg.UptraceDSN) == "" {
		return nil
	}
	return &uptraceLogCore{
		LevelEnabler: cfg.LogLevel,
		logger: otelglobal.Logger(
			uptraceLogInstrumentation,
			otellog.WithInstrumentationVersion(cfg.ServiceVersion),
		),
	}
}

func (c *uptraceLogCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &uptraceLogCore{LevelEnabler: c.LevelEnabler, logger: c.logger, fields: merged}
}

func (c *uptraceLogCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *uptraceLogCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	values := encodeLogFields(c.fields, fields)
	if shouldSkipUptraceLog(entry.Message, values) {
		return nil
	}

	ctx := contextFromLogFields(values)
	severity := toOTelSeverity(entry.Level)
	if !c.logger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: entry.Message}) {
		return nil
	}

	record := otellog.Record{}
	record.SetTimestamp(entry.Time)
	record.SetObservedTimestamp(time.Now().UTC())
	record.SetSeverity(severity)
	record.SetSeverityText(entry.Level.CapitalString())
	record.SetEventName(entry.Message)
	record.SetBody(otellog.StringValue(entry.Message))
	if entry.LoggerName != "" {
		record.AddAttributes(otellog.String("logger", entry.LoggerName))
	}
	if attrs := buildOTelLogAttributes(values); len(attrs) > 0 {
		record.AddAttributes(attrs...)
	}

	c.logger.Emit(ctx, record)
	return nil
}

func (c *uptraceLogCore) Sync() error {
	return nil
}

func encodeLogFields(groups ...[]zapcore.Field) map[string]any {
	enc := zapcore.NewMapObjectEncoder()
	for _, fields := range groups {
		for _, field := range fields {
			field.AddTo(enc)
		}
	}
	return enc.Fields
}

// Request logs of probes and scrapes are noise in Uptrace.
func shouldSkipUptraceLog(msg string, values map[string]any) bool {
	if msg != "http request" {
		return false
	}
	path, _ := values["path"].(string)
	return path == "/healthz" || path == "/metrics"
}

// contextFromLogFields rebuilds the span context from the trace_id and
// span_id fields the logging facade adds, so records correlate with traces.
func contextFromLogFields(values map[string]any) context.Context {
	ctx := context.Background()
	rawTrace, _ := values["trace_id"].(string)
	rawSpan, _ := values["span_id"].(string)
	traceID, err := trace.TraceIDFromHex(rawTrace)
	if err != nil {
		return ctx
	}
	spanID, err := trace.SpanIDFromHex(rawSpan)
	if err != nil {
		return ctx
	}
	return trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}))
}

func buildOTelLogAttributes(values map[string]any) []otellog.KeyValue {
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		if key == "trace_id" || key == "span_id" {
			continue
		}
		// zap adds "<key>Verbose" next to errors that implement fmt.Formatter.
		if base, ok := strings.CutSuffix(key, "Verbose"); ok {
			if _, hasBase := values[base]; hasBase {
				continue
			}
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	attrs := make([]otellog.KeyValue, 0, len(keys))
	for _, key := range keys {
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: toOTelLogValue(values[key], 0)})
	}
	return attrs
}

func toOTelSeverity(level zapcore.Level) otellog.Severity {
	switch {
	case level <= zapcore.DebugLevel:
		return otellog.SeverityDebug
	case level == zapcore.InfoLevel:
		return otellog.SeverityInfo
	case level == zapcore.WarnLevel:
		return otellog.SeverityWarn
	case level >= zapcore.DPanicLevel:
		return otellog.SeverityFatal
	default:
		return otellog.SeverityError
	}
}

func toOTelLogValue(value any, depth int) otellog.Value {
	if value == nil {
		return otellog.Value{}
	}
	if depth >= maxLogValueDepth {
		return otellog.StringValue(fmt.Sprint(value))
	}

	switch v := value.(type) {
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return otellog.StringValue(v.String())
	case []byte:
		return otellog.BytesValue(append([]byte(nil), v...))
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return otellog.StringValue(rv.String())
	case reflect.Bool:
		return otellog.BoolValue(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return otellog.Int64Value(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return otellog.Int64Value(int64(u))
		}
		return otellog.StringValue(fmt.Sprint(value))
	case reflect.Float32, reflect.Float64:
		return otellog.Float64Value(rv.Float())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return otellog.Value{}
		}
		return toOTelLogValue(rv.Elem().Interface(), depth+1)
	case reflect.Slice, reflect.Array:
		items := make([]otellog.Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items = append(items, toOTelLogValue(rv.Index(i).Interface(), depth+1))
		}
		return otellog.SliceValue(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return otellog.StringValue(fmt.Sprint(value))
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		kvs := make([]otellog.KeyValue, 0, len(keys))
		for _, key := range keys {
			kvs = append(kvs, otellog.KeyValue{
				Key:   key.String(),
				Value: toOTelLogValue(rv.MapIndex(key).Interface(), depth+1),
			})
		}
		return otellog.MapValue(kvs...)
	default:
		return otellog.StringValue(fmt.Sprint(value))
	}
}
