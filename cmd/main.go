package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/passmap/internal/adapters/http/api"
	"github.com/okian/passmap/internal/adapters/http/site"
	"github.com/okian/passmap/internal/adapters/http/swagger"
	"github.com/okian/passmap/internal/adapters/http/ws"
	service "github.com/okian/passmap/internal/app"
	"github.com/okian/passmap/internal/config"
	"github.com/okian/passmap/internal/domain/render"
	"github.com/okian/passmap/pkg/logger"
	"github.com/okian/passmap/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithFormat(cfg.LogFormat, os.Stdout); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := metrics.StartSystemCollector(ctx); err != nil {
		log.Warn(ctx, "system metrics collector not started", logger.Error(err))
	}

	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		// Without its dataset the dashboard has nothing to serve.
		_, _ = os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer svc.Stop()

	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	log.Info(shutdownCtx, "server stopped")
}

// newService builds the dashboard service from configuration.
func newService(cfg *config.Config, log logger.Logger) *service.Service {
	return service.New(
		service.WithLogger(log),
		service.WithPassesPath(cfg.PassesPath()),
		service.WithMatchesPath(cfg.MatchesPath()),
		service.WithPitchMargin(cfg.PitchMargin),
		service.WithMaxSessions(cfg.SessionCacheSize),
		service.WithSlider(render.Slider{
			Min:   cfg.XTRangeMin,
			Max:   cfg.XTRangeMax,
			Step:  cfg.XTRangeStep,
			Value: render.Range{Lo: cfg.XTRangeMin, Hi: cfg.XTRangeMax},
		}),
	)
}

// newMux mounts every HTTP surface of the dashboard.
func newMux(ctx context.Context, cfg *config.Config, svc *service.Service) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	ws.NewHandler(svc, ws.WithMaxMessageBytes(cfg.WSMaxMessageBytes)).Register(ctx, mux)
	swagger.Register(ctx, mux)
	site.Register(ctx, mux, site.DefaultBootstrap(svc.Slider()))
	return mux
}

// startServiceMetricsUpdater refreshes service gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats refreshes the live session gauge.
			_ = svc.GetStats()
		}
	}
}
