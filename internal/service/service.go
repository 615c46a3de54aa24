// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	producterrors "github.com/abgdnv/skuservice/internal/errors"
	"github.com/abgdnv/skuservice/internal/events"
	"github.com/abgdnv/skuservice/internal/store"
	"github.com/abgdnv/skuservice/pkg/messaging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// ProductService defines the methods for managing products.
// Failures are returned as *producterrors.Error.
type ProductService interface {
	// Create validates the request, persists a new product and publishes a creation event.
	// A publish failure does not fail the creation.
	Create(ctx context.Context, product ProductCreateDto) (*ProductView, error)

	// GetBySku retrieves an active product by its SKU.
	GetBySku(ctx context.Context, sku string) (*ProductView, error)
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// ProductView is the outbound representation of a product.
type ProductView struct {
	ID        uuid.UUID  `json:"id"`
	SKU       string     `json:"sku"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository     store.ProductStore
	publisher      messaging.Publisher
	gate           *Gate
	subject        string
	logger         *slog.Logger
	createdCounter metric.Int64Counter
	publishFailed  metric.Int64Counter
}

// NewService creates a new instance of ProductService. Creation events are published on subject.
func NewService(repo store.ProductStore, publisher messaging.Publisher, subject string, logger *slog.Logger) *Service {
	meter := otel.Meter("product-service")
	createdCounter, err := meter.Int64Counter("products_created", metric.WithDescription("Total number of created products"))
	if err != nil {
		panic(fmt.Sprintf("failed to create products_created counter: %v", err))
	}
	publishFailed, err := meter.Int64Counter("product_events_publish_failed", metric.WithDescription("Total number of product events that could not be published"))
	if err != nil {
		panic(fmt.Sprintf("failed to create product_events_publish_failed counter: %v", err))
	}
	return &Service{
		repository:     repo,
		publisher:      publisher,
		gate:           NewGate(),
		subject:        subject,
		logger:         logger.With("component", "product_service"),
		createdCounter: createdCounter,
		publishFailed:  publishFailed,
	}
}

// Create runs lookup, persist, publish and projection strictly in this order.
func (s *Service) Create(ctx context.Context, dto ProductCreateDto) (*ProductView, error) {
	if violations := s.gate.Validate(&dto); len(violations) > 0 {
		s.logger.InfoContext(ctx, "product validation failed", "sku", dto.SKU, "violations", violations)
		return nil, producterrors.ValidationFailed(violations)
	}

	_, err := s.repository.FindBySkuOrName(ctx, dto.SKU, dto.Name)
	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "product already exists", "sku", dto.SKU, "name", dto.Name)
		return nil, producterrors.AlreadyExists(dto.SKU, dto.Name, nil)
	case !errors.Is(err, producterrors.ErrProductNotFound):
		s.logger.ErrorContext(ctx, "failed to check product uniqueness", "sku", dto.SKU, "error", err)
		return nil, producterrors.Unclassified("failed to check product uniqueness", err)
	}

	product, err := s.repository.InsertUnique(ctx, dto.SKU, dto.Name)
	if err != nil {
		if errors.Is(err, producterrors.ErrProductConflict) {
			// lost a race against a concurrent create
			s.logger.InfoContext(ctx, "product already exists", "sku", dto.SKU, "name", dto.Name, "error", err)
			return nil, producterrors.AlreadyExists(dto.SKU, dto.Name, err)
		}
		s.logger.ErrorContext(ctx, "failed to create product", "sku", dto.SKU, "error", err)
		return nil, producterrors.Unclassified("failed to create product", err)
	}
	s.createdCounter.Add(ctx, 1)
	s.logger.InfoContext(ctx, "product created", "id", product.ID, "sku", product.SKU)

	view := toView(product)
	s.publishCreated(ctx, view)
	return view, nil
}

// GetBySku retrieves a product by its SKU and returns it as a ProductView.
func (s *Service) GetBySku(ctx context.Context, sku string) (*ProductView, error) {
	product, err := s.repository.FindBySku(ctx, sku)
	if err != nil {
		if errors.Is(err, producterrors.ErrProductNotFound) {
			return nil, producterrors.NotFound(sku)
		}
		s.logger.ErrorContext(ctx, "failed to fetch product", "sku", sku, "error", err)
		return nil, producterrors.Unclassified("failed to fetch product", err)
	}
	return toView(product), nil
}

// publishCreated emits the creation event. The product is already committed, so a failure
// is only logged and counted.
func (s *Service) publishCreated(ctx context.Context, view *ProductView) {
	event := events.NewProductCreatedEvent(s.subject, events.ProductCreated{
		ID:        view.ID,
		SKU:       view.SKU,
		Name:      view.Name,
		CreatedAt: view.CreatedAt,
		UpdatedAt: view.UpdatedAt,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		perr := producterrors.PublishFailed(view.SKU, err)
		s.publishFailed.Add(ctx, 1)
		s.logger.ErrorContext(ctx, "failed to publish product created event",
			"kind", perr.Kind.String(),
			"subject", event.Subject(),
			"sku", view.SKU,
			"error", perr,
		)
		return
	}
	s.logger.InfoContext(ctx, "product created event published", "subject", event.Subject(), "sku", view.SKU)
}

func toView(p *store.Product) *ProductView {
	return &ProductView{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
