package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"reactbot/internal/backup/interfaces"
	"reactbot/internal/controllers"
	"reactbot/internal/discord"
	"reactbot/internal/providers"
	"reactbot/internal/services"
	"reactbot/internal/structures"
	"strconv"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

type App struct {
	WebServer *http.Server
	Client    *bot.Client
}

// NewApp starts the HTTP server and the gateway connection and blocks until
// a shutdown signal arrives or one of them fails.
func NewApp(
	healthController *controllers.HealthController,
	scheduler interfaces.SchedulerInterface,
	client *bot.Client,
	handler *discord.Handler,
	dispatcher services.DispatcherInterface,
	conf *structures.Config,
	logger providers.Logger,
	router providers.RouterProviderInterface,
	metrics providers.MetricsProviderInterface,
) (*App, error) {
	mux := NewMux(healthController, conf, logger, router, metrics)

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	err := scheduler.Restore()
	if err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Client: client,
	}

	scheduler.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = discord.SyncCommands(client, conf, logger); err != nil {
		logger.Errorf(providers.TypeBot, "Command sync failed: %s", err)
	}
	handler.Attach(ctx, client)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := client.OpenGateway(gctx); err != nil {
			return fmt.Errorf("open gateway: %w", err)
		}
		logger.Infof(providers.TypeBot, "Gateway connected")
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			logger.Infof(providers.TypeApp, "Shutdown signal received")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client.Close(shutdownCtx)
		return app.WebServer.Shutdown(shutdownCtx)
	})

	runErr := g.Wait()

	// In-flight triggers still write to the store.
	dispatcher.Wait()
	scheduler.Stop()
	if err = scheduler.Persist(); err != nil {
		return nil, err
	}
	if runErr != nil {
		return nil, runErr
	}

	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}

// NewMux mounts the API routes behind the metrics middleware next to the
// health and metrics endpoints.
func NewMux(healthController *controllers.HealthController, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *http.ServeMux {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		apiMux.Handle(route.Url, route.Handler)
	}

	// Wrap API routes with metrics middleware
	instrumentedAPI := providers.MetricsMiddleware(metrics, logger, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)
	return mux
}
