package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"localcast/internal/catalog"
	"localcast/internal/filesystem"
	"localcast/internal/handlers"
	"localcast/internal/logging"
	"localcast/internal/media"
	"localcast/internal/memory"
	"localcast/internal/metrics"
	"localcast/internal/middleware"
	"localcast/internal/sandbox"
	"localcast/internal/startup"
	"localcast/internal/watcher"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout   = 30 * time.Second
	collectorInterval = time.Minute
)

func main() {
	startTime := time.Now()

	memResult := memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	startup.LogMemoryConfig(startup.MemoryConfig(memResult))
	metrics.GoMemLimit.Set(float64(memResult.GoMemLimit))

	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, runtime.Version())

	filesystem.SetObserver(metrics.NewFilesystemObserver())
	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"media": config.MediaRoot,
	}))

	sb := sandbox.New(config.MediaRoot)
	cat := catalog.New(sb, config.AllowedExtensions)
	logLibrary(cat, config.MediaRoot)

	h := handlers.New(sb, cat, config)
	router := h.NewRouter()
	router.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	srv := &http.Server{
		Addr:              config.Addr(),
		Handler:           buildHandler(router, config),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0, // media streams are long-lived
		IdleTimeout:       60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsMux.HandleFunc("/health", h.HealthCheck)
		metricsSrv = &http.Server{
			Addr:              net.JoinHostPort(config.Host, config.MetricsPort),
			Handler:           metricsMux,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	var libWatcher *watcher.Watcher
	if config.WatchLibrary {
		libWatcher, err = watcher.New(config.MediaRoot, nil)
		startup.LogWatcherInit(true, err)
	} else {
		startup.LogWatcherInit(false, nil)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return waitForSignal(ctx)
	})

	g.Go(func() error {
		return serve(srv)
	})

	if metricsSrv != nil {
		g.Go(func() error {
			return serve(metricsSrv)
		})
		g.Go(func() error {
			return metrics.NewCollector(cat, collectorInterval).Run(ctx)
		})
	}

	if libWatcher != nil {
		g.Go(func() error {
			return libWatcher.Run(ctx)
		})
	}

	// Shutdown runs once any member returns, including the signal handler.
	g.Go(func() error {
		<-ctx.Done()
		return shutdown(srv, metricsSrv)
	})

	startup.LogServerStarted(startup.ServerConfig{
		Host:            config.Host,
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		PublicBaseURL:   config.PublicBaseURL,
		StartupDuration: time.Since(startTime),
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdownSignal) {
		startup.LogFatal("Server error: %v", err)
	}
	startup.LogShutdownComplete()
}

// buildHandler wraps the router in the outer middleware chain. Metrics are
// attached to the router itself so they see the matched route.
func buildHandler(router *mux.Router, config *startup.Config) http.Handler {
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks

	var handler http.Handler = router
	handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)
	handler = middleware.RateLimit(middleware.DefaultRateLimitConfig(config.RateLimit))(handler)
	handler = middleware.Logger(loggingConfig)(handler)
	handler = middleware.RequestID(handler)
	return handler
}

func logLibrary(cat *catalog.Catalog, root string) {
	ctx := context.Background()

	collections, err := cat.Collections(ctx)
	if err != nil {
		logging.Warn("Failed to list collections: %v", err)
	}
	common, err := cat.List(ctx, media.ScopeCommon, "")
	if err != nil {
		logging.Warn("Failed to list common media: %v", err)
	}
	startup.LogLibraryInit(root, len(collections), len(common))
}

var errShutdownSignal = errors.New("shutdown signal received")

func waitForSignal(ctx context.Context) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		return nil
	case sig := <-sigChan:
		startup.LogShutdownInitiated(sig.String())
		return errShutdownSignal
	}
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	return nil
}

func shutdown(srv, metricsSrv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}
	return nil
}
