// Package main runs the product service: HTTP API, product event publisher and subscriber.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "net/http/pprof"

	"github.com/abgdnv/skuservice/internal/app"
	"github.com/abgdnv/skuservice/internal/config"
	"github.com/abgdnv/skuservice/pkg/bootstrap"
	"github.com/abgdnv/skuservice/pkg/config/configloader"
	"github.com/abgdnv/skuservice/pkg/telemetry"
	"golang.org/x/sync/errgroup"
)

const serviceName = "product"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run initializes the application and starts the HTTP server, the event subscriber and the pprof server.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	telemetry.SetPropagator()
	metrics, err := telemetry.NewMeterProvider(serviceName)
	if err != nil {
		return fmt.Errorf("failed to create meter provider: %w", err)
	}
	defer shutdownWithTimeout(cfg, logger, "meter provider", metrics.Provider.Shutdown)

	if cfg.Telemetry.Traces.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, serviceName, cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to create tracer provider: %w", err)
		}
		defer shutdownWithTimeout(cfg, logger, "tracer provider", tp.Shutdown)
	}

	productStore, closeStore, err := app.NewStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open product store: %w", err)
	}
	defer closeStore()

	broker, err := app.NewBroker(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to message broker: %w", err)
	}
	defer broker.Close()

	deps := app.SetupDependencies(productStore, broker.Publisher, cfg, logger)
	deps.Metrics = metrics.Handler
	httpServer := app.SetupHttpServer(deps, cfg)

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the product event subscriber if enabled
	if cfg.Subscriber.Enabled {
		g.Go(func() error {
			err := broker.Subscribe(gCtx, deps.Consumer)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("subscriber failed", "error", err)
				return err
			}
			logger.Info("subscriber stopped gracefully.")
			return nil
		})
	}

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		pprofServer := &http.Server{
			Addr: cfg.PProf.Addr,
		}
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// shutdownWithTimeout flushes a telemetry provider within the shutdown timeout.
func shutdownWithTimeout(cfg *config.Config, logger *slog.Logger, name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Warn("Failed to shut down "+name, "error", err)
	}
}
