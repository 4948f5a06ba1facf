package store

import (
	"context"
	"slices"
	"sync"

	perrors "github.com/abgdnv/productcrud/internal/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore implements ProductStore using an in-memory map.
// IDs are ObjectID hex strings so that clients see the same id shape as with MongoDB.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]Product
	order    []string
}

var _ ProductStore = (*MemoryStore)(nil)

// NewMemoryStore creates a new, empty instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]Product),
	}
}

// FindByID retrieves a product by its ID.
func (s *MemoryStore) FindByID(_ context.Context, id string) (*Product, error) {
	id, err := normalizeObjectID(id)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	return &p, nil
}

// FindAll retrieves all products in insertion order.
func (s *MemoryStore) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.products[id])
	}
	return list, nil
}

// Create creates a new product and returns it.
func (s *MemoryStore) Create(_ context.Context, name, description string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:          primitive.NewObjectID().Hex(),
		Name:        name,
		Description: description,
	}
	s.products[product.ID] = product
	s.order = append(s.order, product.ID)

	return &product, nil
}

// Update replaces the non-nil fields and returns the updated product.
func (s *MemoryStore) Update(_ context.Context, id string, update ProductUpdate) (*Product, error) {
	id, err := normalizeObjectID(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	s.products[id] = p
	return &p, nil
}

// DeleteByID deletes a product by its ID and returns the deleted product.
func (s *MemoryStore) DeleteByID(_ context.Context, id string) (*Product, error) {
	id, err := normalizeObjectID(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.products[id]
	if !exists {
		return nil, perrors.ErrProductNotFound
	}
	delete(s.products, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return &p, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// normalizeObjectID rejects ids that are not 24-character hex ObjectIDs and
// returns the canonical lowercase form used as the map key.
func normalizeObjectID(id string) (string, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return "", err
	}
	return oid.Hex(), nil
}
