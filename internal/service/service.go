// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/productcrud/internal/store"
	"github.com/abgdnv/productcrud/pkg/messaging"
	"github.com/abgdnv/productcrud/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*ProductDto, error)

	// FindAll returns all available products.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Create validates and adds a new product to the system.
	// Returns a *ValidationError if a required field is missing.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update replaces the provided fields of an existing product and returns the result.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id string, product ProductUpdateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID and returns the removed product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id string) (*ProductDto, error)

	// Ping reports whether the underlying store is reachable.
	Ping(ctx context.Context) error
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository      store.ProductStore
	publisher       messaging.Publisher
	validate        *productValidator
	productsCounter metric.Int64Counter
	now             func() time.Time
}

var _ ProductService = (*Service)(nil)

// NewService creates a new instance of ProductService with the provided repository.
// A nil publisher disables event publishing.
func NewService(repo store.ProductStore, publisher messaging.Publisher) *Service {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	meter := otel.Meter("product-service")
	productsCounter, err := meter.Int64Counter("products_created", metric.WithDescription("Total number of created products"))
	if err != nil {
		panic(fmt.Sprintf("failed to create products_created counter: %v", err))
	}
	return &Service{
		repository:      repo,
		publisher:       publisher,
		validate:        newProductValidator(),
		productsCounter: productsCounter,
		now:             time.Now,
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required"`
}

// ProductUpdateDto carries a partial update. Absent fields keep their stored value.
type ProductUpdateDto struct {
	Name        *string `json:"name"        validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=1"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id string) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}

	return toDto(product), nil
}

// FindAll retrieves a list of all products and returns them as ProductDTOs.
// Returns an empty slice if no products exist or error if the retrieval fails.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}

	return productDTOs, nil
}

// Create creates a new product and returns it as a ProductDto.
// Returns a *ValidationError if the product cannot be validated.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	if err := s.validate.Struct(product); err != nil {
		return nil, err
	}
	p, err := s.repository.Create(ctx, product.Name, product.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.productsCounter.Add(ctx, 1)
	s.publish(ctx, events.ProductCreated, p)
	return toDto(p), nil
}

// Update modifies an existing product's details and returns the updated product as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) Update(ctx context.Context, id string, product ProductUpdateDto) (*ProductDto, error) {
	if err := s.validate.Struct(product); err != nil {
		return nil, err
	}
	updated, err := s.repository.Update(ctx, id, store.ProductUpdate{
		Name:        product.Name,
		Description: product.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %s: %w", id, err)
	}

	s.publish(ctx, events.ProductUpdated, updated)
	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID and returns the deleted product.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id string) (*ProductDto, error) {
	deleted, err := s.repository.DeleteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete product with ID %s: %w", id, err)
	}

	s.publish(ctx, events.ProductDeleted, deleted)
	return toDto(deleted), nil
}

// Ping checks the store.
func (s *Service) Ping(ctx context.Context) error {
	return s.repository.Ping(ctx)
}

// publish sends a product event. Failures are logged only: the change is already stored.
func (s *Service) publish(ctx context.Context, eventType events.ProductEventType, product *store.Product) {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	event := events.ProductEvent{
		Carrier:     carrier,
		Type:        eventType,
		ProductID:   product.ID,
		Name:        product.Name,
		Description: product.Description,
		OccurredAt:  s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish product event", "type", eventType, "product_id", product.ID, "error", err)
	}
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
	}
}
