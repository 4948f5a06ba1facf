// Package store provides an interface for product storage operations.
package store

import (
	"context"
)

// modelName is the document model reported in store errors.
const modelName = "Product"

// Product represents a product document in the store.
type Product struct {
	ID          string
	Name        string
	Description string
}

// ProductUpdate lists the fields replaced by an update. Nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
}

// IsEmpty reports whether the update changes nothing.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID,
	// or a *CastError if the ID is not a valid key for the backend.
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindAll returns all products in the store's natural order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// Create adds a new product and returns it with its assigned ID.
	Create(ctx context.Context, name, description string) (*Product, error)

	// Update applies the given field replacements and returns the product after the update.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id string, update ProductUpdate) (*Product, error)

	// DeleteByID removes a product and returns the removed document.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id string) (*Product, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
