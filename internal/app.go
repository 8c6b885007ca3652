package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sa03134/soomgo-competitor-tracker/internal/collector"
	"github.com/sa03134/soomgo-competitor-tracker/internal/collector/interfaces"
	"github.com/sa03134/soomgo-competitor-tracker/internal/controllers"
	"github.com/sa03134/soomgo-competitor-tracker/internal/fetcher"
	"github.com/sa03134/soomgo-competitor-tracker/internal/models"
	"github.com/sa03134/soomgo-competitor-tracker/internal/providers"
	"github.com/sa03134/soomgo-competitor-tracker/internal/structures"
)

// ErrNothingCollected is returned by a single pass in which every entity failed.
var ErrNothingCollected = errors.New("no entity could be collected")

type App struct {
	conf      *structures.Config
	logger    providers.Logger
	scheduler interfaces.SchedulerInterface
	fetcher   fetcher.Fetcher
	archive   *collector.ColdArchive
	out       io.Writer
	WebServer *http.Server
}

func NewApp(
	healthController *controllers.HealthController,
	scheduler interfaces.SchedulerInterface,
	f fetcher.Fetcher,
	archive *collector.ColdArchive,
	conf *structures.Config,
	logger providers.Logger,
	router providers.RouterProviderInterface,
	metrics providers.MetricsProviderInterface,
) *App {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	endpoints := make([]string, 0, len(router.GetRoutes()))
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
		endpoints = append(endpoints, route.Url)
	}

	// Wrap API routes with metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, logger, endpoints, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	return &App{
		conf:      conf,
		logger:    logger,
		scheduler: scheduler,
		fetcher:   f,
		archive:   archive,
		out:       os.Stdout,
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Run performs a single pass when the app was started with --once, otherwise
// it keeps collecting until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof(providers.TypeApp, "Starting %s with %d entities", a.conf.AppName, len(a.conf.Entities))
	if a.conf.Once {
		return a.runOnce(ctx)
	}
	return a.runContinuous(ctx)
}

func (a *App) runOnce(ctx context.Context) error {
	report := a.scheduler.RunOnce(ctx)
	collector.RenderReport(a.out, report, a.conf.Entities)

	failed := report.Count(models.OutcomeFetchFailed) + report.Count(models.OutcomeFailed)
	if len(report.Entities) > 0 && failed == len(report.Entities) {
		return ErrNothingCollected
	}
	return nil
}

func (a *App) runContinuous(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverErr := make(chan error, 1)
	if a.conf.WebServer.Enabled {
		go func() {
			a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
			if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()
	}

	schedulerDone := make(chan error, 1)
	go func() {
		schedulerDone <- a.scheduler.Run(runCtx)
	}()

	var err error
	select {
	case err = <-schedulerDone:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case serr := <-serverErr:
		err = fmt.Errorf("server error: %w", serr)
		cancel()
		<-schedulerDone
	}

	if a.conf.WebServer.Enabled {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if serr := a.WebServer.Shutdown(shutdownCtx); serr != nil && err == nil {
			err = serr
		}
	}
	if err == nil {
		a.logger.Infof(providers.TypeApp, "gracefully stopped")
	}
	return err
}

// Close releases the browser, the archive encoder and the log file.
func (a *App) Close() {
	if err := a.fetcher.Close(); err != nil {
		a.logger.Warnf(providers.TypeApp, "Closing fetcher: %s", err)
	}
	a.archive.Close()
	a.logger.Close()
}
