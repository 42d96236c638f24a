package internal

import (
	"context"
	"errors"
	"fmt"
	"ghstats/internal/controllers"
	"ghstats/internal/providers"
	"ghstats/internal/statistic/interfaces"
	"ghstats/internal/structures"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer  *http.Server
	scheduler  interfaces.SchedulerInterface
	store      interfaces.BlobStore
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	conf       *structures.Config
}

// NewApp assembles the HTTP server: the instrumented, CORS-enabled API mux behind an
// outer mux that serves the landing page, /health and, when enabled, /metrics.
func NewApp(indexController *controllers.IndexController, healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, store interfaces.BlobStore, compressor interfaces.CompressorInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	instrumentedAPI := providers.MetricsMiddleware(metrics, router.Mux())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", indexController.Index)
	mux.HandleFunc("GET /health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	mux.Handle("/", providers.CORSMiddleware(conf, instrumentedAPI))

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		scheduler:  scheduler,
		store:      store,
		compressor: compressor,
		logger:     logger,
		conf:       conf,
	}
}

// Run serves until SIGINT/SIGTERM or a listener failure, then shuts down gracefully.
func (a *App) Run() error {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)
	a.scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	a.scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.WebServer.Shutdown(ctx); err != nil && runErr == nil {
		runErr = err
	}
	if runErr == nil {
		a.logger.Infof(providers.TypeApp, "gracefully stopped")
	}
	a.release()
	return runErr
}

// release closes the snapshot store, the compressor and the log files, in that order.
func (a *App) release() {
	if err := a.store.Close(); err != nil {
		a.logger.Warnf(providers.TypeApp, "Failed to close %s snapshot store: %s", a.store.Name(), err)
	}
	a.compressor.Close()
	a.logger.Close()
}
