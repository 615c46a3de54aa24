// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/abgdnv/skuservice/internal/service"
	"github.com/abgdnv/skuservice/pkg/web"
	"github.com/go-chi/chi/v5"
)

// Pinger reports whether a dependency is ready to serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	service        service.ProductService
	ready          Pinger
	requestTimeout time.Duration
	logger         *slog.Logger
}

// NewHandler creates a new instance of the product API with the provided service.
func NewHandler(service service.ProductService, ready Pinger, requestTimeout time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		service:        service,
		ready:          ready,
		requestTimeout: requestTimeout,
		logger:         logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{sku}", h.GetBySku)
	})

	r.Get("/healthz", h.HealthCheck)
	r.Get("/readyz", h.ReadinessCheck)
}

// Create handles the creation of a new product.
// Request and trace ids are added to log records by the context handler.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var productCreateDto service.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&productCreateDto); err != nil {
		h.logger.WarnContext(ctx, "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Product validation failed", ErrorCodeValidation, "Request body must be a JSON object with sku and name")
		return
	}
	h.logger.DebugContext(ctx, "Received request to create product", "sku", productCreateDto.SKU, "name", productCreateDto.Name)

	created, err := h.service.Create(ctx, productCreateDto)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	w.Header().Set("Location", "/products/"+url.PathEscape(created.SKU))
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// GetBySku retrieves a product by its SKU.
func (h *Handler) GetBySku(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	sku := r.PathValue("sku")
	h.logger.DebugContext(ctx, "Received request to find product by SKU", "sku", sku)
	found, err := h.service.GetBySku(ctx, sku)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ReadinessCheck pings the storage and answers 503 while it is unavailable.
func (h *Handler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()
	if err := h.ready.Ping(ctx); err != nil {
		h.logger.WarnContext(ctx, "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
