package internal

import (
	"context"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"os"
	"os/signal"
	"promod/internal/controllers"
	"promod/internal/providers"
	"promod/internal/structures"
	"promod/internal/transient/interfaces"
	"strconv"
	"syscall"
	"time"
)

type App struct {
	WebServer *http.Server
	conf      *structures.Config
	logger    providers.Logger
	scheduler interfaces.SchedulerInterface
}

func NewApp(healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	// Inner mux: promotion routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	instrumentedAPI := providers.RequestMiddleware(metrics, logger, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		conf:      conf,
		logger:    logger,
		scheduler: scheduler,
	}
}

// Run serves until SIGINT/SIGTERM or a listener error, then shuts down and
// writes a final transient snapshot.
func (a *App) Run() error {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)
	if err := a.scheduler.Restore(); err != nil {
		a.logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}
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

	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		a.scheduler.Stop()
		return fmt.Errorf("server error: %w", err)
	}

	a.scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.WebServer.Shutdown(ctx); err != nil {
		return err
	}
	if err := a.scheduler.Persist(); err != nil {
		return err
	}
	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}
