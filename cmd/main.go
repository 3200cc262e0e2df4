package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gonum.org/v1/plot/vg"

	"github.com/okian/restitution/internal/adapters/http/api"
	"github.com/okian/restitution/internal/adapters/http/swagger"
	"github.com/okian/restitution/internal/adapters/report/chart"
	"github.com/okian/restitution/internal/adapters/report/console"
	service "github.com/okian/restitution/internal/app"
	"github.com/okian/restitution/internal/config"
	"github.com/okian/restitution/pkg/logger"
	"github.com/okian/restitution/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		// Logger isn't available yet.
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logging: " + err.Error() + "\n")
		}
	}()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout); err != nil {
		logger.Get().Error(ctx, "restitution analysis failed", logger.Error(err))
		stop()
		os.Exit(1) //nolint:gocritic // deferred stop already called
	}
}

// run loads configuration, solves every trial, prints the tables and writes
// the optional chart, metrics dump and HTTP report.
func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	trials, err := cfg.Trials()
	if err != nil {
		return err
	}

	svc := service.New(
		service.WithLogger(log.Named("analysis")),
		service.WithHeight(cfg.HeightM),
		service.WithTrend(cfg.Trend),
	)
	report, err := svc.Run(ctx, trials)
	if err != nil {
		return fmt.Errorf("run analysis: %w", err)
	}

	if err := console.Write(stdout, report); err != nil {
		return err
	}

	renderer := chart.New(
		chart.WithSize(vg.Length(cfg.ChartWidthCM)*vg.Centimeter, vg.Length(cfg.ChartHeightCM)*vg.Centimeter),
		chart.WithXRange(cfg.XMin, cfg.XMax),
		chart.WithYRange(cfg.YMin, cfg.YMax),
	)
	if cfg.ChartPath != "" {
		if err := renderer.Save(report, cfg.ChartPath); err != nil {
			// A report with nothing solved still prints its rejections.
			if !errors.Is(err, chart.ErrEmptyReport) {
				return err
			}
			log.Warn(ctx, "chart skipped", logger.Error(err))
		} else {
			log.Info(ctx, "chart written", logger.String("path", cfg.ChartPath))
		}
	}

	if cfg.MetricsPath != "" {
		if err := metrics.WriteTextfile(cfg.MetricsPath, metrics.GetRegistry()); err != nil {
			return err
		}
		log.Info(ctx, "metrics written", logger.String("path", cfg.MetricsPath))
	}

	if cfg.Addr == "" {
		return nil
	}
	return serve(ctx, cfg.Addr, svc, renderer)
}

// serve exposes the last report over HTTP until ctx is cancelled.
func serve(ctx context.Context, addr string, svc *service.Service, renderer *chart.Renderer) error {
	log := logger.Get()

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, renderer).Register(ctx, mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info(ctx, "server stopped")
	return nil
}
