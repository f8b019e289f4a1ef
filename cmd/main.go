package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/warcut/internal/adapters/http/api"
	"github.com/okian/warcut/internal/adapters/http/swagger"
	"github.com/okian/warcut/internal/adapters/output"
	"github.com/okian/warcut/internal/adapters/torn"
	app "github.com/okian/warcut/internal/app"
	"github.com/okian/warcut/internal/config"
	"github.com/okian/warcut/internal/domain/cut"
	"github.com/okian/warcut/internal/domain/model"
	"github.com/okian/warcut/internal/domain/report"
	"github.com/okian/warcut/pkg/logger"
	"github.com/okian/warcut/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// Process exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitIntegrity = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return exitFailure
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return exitFailure
	}

	if cfg.LogFile != "" {
		closer, err := logger.InitWithFile(cfg.LogFile)
		if err != nil {
			_, _ = os.Stderr.WriteString("failed to open log file: " + err.Error() + "\n")
			return exitFailure
		}
		defer func() { _ = closer.Close() }()
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to build service", logger.Error(err))
		return exitFailure
	}

	code := exitCode(ctx, log, runOnce(ctx, svc))
	if !cfg.Serve || code != exitOK {
		return code
	}

	if err := serve(ctx, cfg, svc, log); err != nil {
		log.Error(ctx, "HTTP server failed", logger.Error(err))
		return exitFailure
	}
	return exitOK
}

func runOnce(ctx context.Context, svc *app.Service) error {
	_, err := svc.Run(ctx)
	return err
}

// exitCode maps a run error to a process exit code. A war without chains or
// hits is not a failure.
func exitCode(ctx context.Context, log logger.Logger, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, report.ErrNoChains), errors.Is(err, report.ErrNoActions):
		log.Warn(ctx, "nothing to score", logger.Error(err))
		return exitOK
	case errors.Is(err, cut.ErrIntegrity):
		return exitIntegrity
	default:
		return exitFailure
	}
}

// newService wires the API client and the configured outputs into a Service.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	client, err := torn.New(cfg.APIKey, cfg.FactionID,
		torn.WithBaseURL(cfg.BaseURL),
		torn.WithTimeout(cfg.RequestTimeout()),
		torn.WithRequestsPerMinute(cfg.RequestsPerMinute),
		torn.WithConcurrency(cfg.FetchConcurrency),
		torn.WithPageSize(cfg.PageSize),
		torn.WithUntrackedGroup(cfg.UntrackedGroup),
		torn.WithLogger(log.Named("torn")),
	)
	if err != nil {
		return nil, err
	}

	opts := []app.Option{
		app.WithLogger(log),
		app.WithGracePeriod(cfg.GracePeriod()),
	}

	if cfg.OutputDir != "" {
		csvWriter, err := output.NewCSVWriter(cfg.OutputDir, log.Named("csv"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithSinks(csvWriter))
	}

	if cfg.SheetsEnabled() {
		creds, err := os.ReadFile(cfg.SheetsCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read sheets credentials: %w", err)
		}
		sheetsClient, err := output.NewSheetsClient(ctx, creds, cfg.SheetsURL, cfg.SheetName)
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithSinks(sheetsClient))
	}

	if cfg.HasWindowOverride() {
		opts = append(opts, app.WithWar(model.War{
			ID:              "manual",
			StartedAt:       cfg.WindowStart,
			EndedAt:         cfg.WindowEnd,
			OpposingFaction: cfg.OpposingFaction,
		}))
	}

	return app.New(client, opts...)
}

// newServer builds the HTTP server exposing the latest report.
func newServer(ctx context.Context, cfg *config.Config, svc *app.Service) *http.Server {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, cfg.MaxLeaderboardLimit).Register(ctx, mux)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// serve blocks until ctx is cancelled, then shuts the server down.
func serve(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) error {
	go startSystemMetricsUpdater(ctx)

	srv := newServer(ctx, cfg, svc)
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info(ctx, "server stopped")
	return nil
}

// startSystemMetricsUpdater refreshes process metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
