package observability

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/riskibarqy/football-api/internal/config"
	"github.com/riskibarqy/football-api/internal/platform/logging"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the service logger: JSON on stdout, fanned out to Better
// Stack and Uptrace when those are enabled. The returned func drains shipped
// logs and syncs the logger.
func NewLogger(cfg config.Config) (*logging.Logger, func(context.Context) error, error) {
	return newLogger(cfg, logging.NewJSONCore(cfg.LogLevel, zapcore.Lock(os.Stdout)))
}

func newLogger(cfg config.Config, base zapcore.Core) (*logging.Logger, func(context.Context) error, error) {
	cores := []zapcore.Core{base}

	betterStack, drainBetterStack, err := newBetterStackCore(cfg)
	if err != nil {
		return nil, nil, err
	}
	if betterStack != nil {
		cores = append(cores, betterStack)
	}
	uptrace := newUptraceLogCore(cfg)
	if uptrace != nil {
		cores = append(cores, uptrace)
	}

	logger := logging.NewFromCores(cores...).With(
		"service", cfg.ServiceName,
		"env", cfg.AppEnv,
	)
	logger.Info("logger configured",
		"level", cfg.LogLevel.String(),
		"betterstack_enabled", betterStack != nil,
		"uptrace_logs_enabled", uptrace != nil,
	)

	return logger, func(ctx context.Context) error {
		drainCtx := ctx
		if drainCtx == nil {
			drainCtx = context.Background()
		}
		if _, hasDeadline := drainCtx.Deadline(); !hasDeadline {
			withTimeout, cancel := context.WithTimeout(drainCtx, 5*time.Second)
			defer cancel()
			drainCtx = withTimeout
		}
		if err := drainBetterStack(drainCtx); err != nil {
			return err
		}
		if err := logger.Sync(); err != nil && !isIgnorableLoggerSyncError(err) {
			return err
		}
		return nil
	}, nil
}

func isIgnorableLoggerSyncError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad file descriptor") || strings.Contains(msg, "invalid argument")
}
