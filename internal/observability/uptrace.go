package observability

import (
	"context"
	"errors"
	"strings"

	"github.com/riskibarqy/football-api/internal/config"
	"github.com/riskibarqy/football-api/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// InitUptrace installs the global OpenTelemetry providers exporting to
// Uptrace. The returned func flushes pending spans and logs before shutdown.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	noop := func(context.Context) error { return nil }

	if !cfg.UptraceEnabled {
		logger.Info("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
		return noop, nil
	}
	if strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.Info("uptrace disabled", "reason", "UPTRACE_DSN empty")
		return noop, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(uptraceResource(cfg)...),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"logs_enabled", cfg.UptraceLogsEnabled,
	)

	return func(ctx context.Context) error {
		return errors.Join(uptrace.ForceFlush(ctx), uptrace.Shutdown(ctx))
	}, nil
}

func uptraceResource(cfg config.Config) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("football.storage_driver", cfg.StorageDriver),
		attribute.String("football.provider", cfg.FootballAPIBaseURL),
	}
	if cfg.SyncSeasonTag != "" {
		attrs = append(attrs, attribute.String("football.season", cfg.SyncSeasonTag))
	}
	return attrs
}
