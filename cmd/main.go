package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/gestus/internal/adapters/http/api"
	"github.com/okian/gestus/internal/adapters/http/swagger"
	service "github.com/okian/gestus/internal/app"
	"github.com/okian/gestus/internal/config"
	"github.com/okian/gestus/pkg/logger"
	"github.com/okian/gestus/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

// Process exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errNoInput = errors.New("no input stream: set -input or GESTUS_INPUT")

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(exitError)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()

	if err := logger.Sync(); err != nil {
		_, _ = os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
	}
	os.Exit(code)
}

// run analyzes one perception stream and returns the process exit code.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("gestus", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		input       = flags.String("input", "", "Perception stream (JSON Lines); overrides GESTUS_INPUT")
		output      = flags.String("output", "", "Annotated output path; the report is written next to it")
		jsonSummary = flags.String("json-summary", "", "Optional path for a JSON copy of the summary")
	)
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	loggerInstance := logger.Get()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = io.WriteString(stderr, "failed to load config: "+err.Error()+"\n")
		return exitError
	}
	applyFlags(cfg, *input, *output, *jsonSummary)
	if cfg.Input == "" {
		_, _ = io.WriteString(stderr, errNoInput.Error()+"\n")
		flags.Usage()
		return exitUsage
	}

	// Apply configured log level (Load already rejected invalid values)
	_ = logger.SetLevelString(cfg.LogLevel)

	svc := service.New(
		service.WithLogger(loggerInstance),
		service.WithEngine(service.NewEngine(cfg)),
		service.WithQueueSize(cfg.QueueSize),
		service.WithTimelineCapacity(cfg.TimelineCapacity),
		service.WithProgressEvery(cfg.ProgressEvery),
	)

	metricsCtx, stopMetrics := context.WithCancel(ctx)
	defer stopMetrics()

	// Start system metrics updater
	go startSystemMetricsUpdater(metricsCtx)

	// Start service metrics updater
	go startServiceMetricsUpdater(metricsCtx, svc)

	if cfg.Addr != "" {
		srv := newHTTPServer(ctx, cfg.Addr, svc)
		go func() {
			loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			}
		}()
		defer shutdownHTTPServer(ctx, srv)
	}

	summary, err := svc.Analyze(ctx, cfg.Input, cfg.Output, cfg.JSONSummary)
	if err != nil {
		loggerInstance.Error(ctx, "analysis failed", logger.String("input", cfg.Input), logger.Error(err))
		return exitError
	}

	loggerInstance.Info(ctx, "analysis complete",
		logger.Int("frames", summary.Frames),
		logger.Int("waves", summary.Waves),
		logger.Int("handshakes", summary.Handshakes),
		logger.Int("dances", summary.Dances),
		logger.Int("anomalies", summary.AnomalyCount))
	return exitOK
}

// applyFlags overrides configured paths with non-empty command line values.
func applyFlags(cfg *config.Config, input, output, jsonSummary string) {
	if input != "" {
		cfg.Input = input
	}
	if output != "" {
		cfg.Output = output
	}
	if jsonSummary != "" {
		cfg.JSONSummary = jsonSummary
	}
}

// newHTTPServer wires the monitoring API for svc.
func newHTTPServer(ctx context.Context, addr string, svc *service.Service) *http.Server {
	mux := http.NewServeMux()

	// Register the OpenAPI document
	swagger.Register(ctx, mux)

	// Register monitoring routes with the service dependency.
	api.NewServer(svc, svc.Timeline()).Register(ctx, mux)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// shutdownHTTPServer stops srv gracefully with a timeout.
func shutdownHTTPServer(ctx context.Context, srv *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Get().Error(ctx, "server shutdown failed", logger.Error(err))
		return
	}
	logger.Get().Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that refreshes
// queue gauges from the service.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystem(m.Alloc, runtime.NumGoroutine())
}

// updateServiceMetrics updates service-level metrics. GetStats refreshes
// the queue gauges as a side effect.
func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()
	if motion, ok := stats["motionHistory"].(int); ok {
		metrics.UpdateMotionHistorySize(motion)
	}
}
