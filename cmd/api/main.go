package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/football-api/internal/app"
	"github.com/riskibarqy/football-api/internal/config"
	"github.com/riskibarqy/football-api/internal/observability"
	"github.com/riskibarqy/football-api/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLogger, err := observability.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	code := run(cfg, logger)
	if err := closeLogger(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "close logger: %v\n", err)
	}
	os.Exit(code)
}

func run(cfg config.Config, logger *logging.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		return 1
	}
	pprofServer := observability.StartPprofServer(cfg, logger)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := observability.StopPprofServer(shutdownCtx, pprofServer, logger); err != nil {
			logger.Warn("stop pprof server failed", "error", err)
		}
		if err := stopPyroscope(); err != nil {
			logger.Warn("stop pyroscope failed", "error", err)
		}
		if err := shutdownUptrace(shutdownCtx); err != nil {
			logger.Warn("shutdown uptrace failed", "error", err)
		}
	}()

	rt, err := app.NewRuntime(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("build runtime", "error", err)
		return 1
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn("close runtime failed", "error", err)
		}
	}()

	srv, err := rt.NewHTTPServer()
	if err != nil {
		logger.Error("build http server", "error", err)
		return 1
	}
	scheduler := rt.NewScheduler()

	serveErr := make(chan error, 1)
	var wg conc.WaitGroup
	wg.Go(func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			stop()
		}
	})
	if scheduler != nil {
		wg.Go(func() {
			_ = scheduler.Run(ctx)
		})
	}

	<-ctx.Done()

	code := 0
	select {
	case err := <-serveErr:
		logger.Error("http server failed", "error", err)
		code = 1
	default:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		code = 1
	}
	wg.Wait()

	logger.Info("http server stopped")
	return code
}
