// Package app contains the application setup for the product service.
package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/skuservice/internal/config"
	"github.com/abgdnv/skuservice/internal/consumer"
	"github.com/abgdnv/skuservice/internal/service"
	"github.com/abgdnv/skuservice/internal/store"
	"github.com/abgdnv/skuservice/internal/transport/rest"
	"github.com/abgdnv/skuservice/pkg/messaging"
	"github.com/abgdnv/skuservice/pkg/server"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serverName = "product-service"

type Dependencies struct {
	ProductService service.ProductService
	Consumer       *consumer.Consumer
	Store          store.ProductStore
	// Metrics serves /metrics when set.
	Metrics        http.Handler
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// SetupDependencies builds the service graph once at startup. The publisher is wrapped with
// the configured retry and circuit breaker policies.
func SetupDependencies(productStore store.ProductStore, publisher messaging.Publisher, cfg *config.Config, logger *slog.Logger) *Dependencies {
	resilient := messaging.NewResilientPublisher(publisher, cfg.Resilience, logger)
	return &Dependencies{
		ProductService: service.NewService(productStore, resilient, cfg.Broker.Subject, logger),
		Consumer:       consumer.New(nil, logger),
		Store:          productStore,
		RequestTimeout: cfg.HTTPServer.Timeout.Request,
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the router, middleware and routes of the product service.
// Used by E2E tests to serve the application from an httptest.Server.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return otelhttp.NewHandler(mux, serverName)
}

// wireRoutes sets up the HTTP routes of the product service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Store, deps.RequestTimeout, deps.Logger)
	productHandler.RegisterRoutes(mux)
	if deps.Metrics != nil {
		mux.Handle("/metrics", deps.Metrics)
	}
}

// SetupHttpServer creates and configures the HTTP server of the product service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
