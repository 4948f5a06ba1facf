package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/productcrud/internal/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// createTableSQL lays out the products collection as a table. Only used to
// provision an empty database, there is no migration history.
const createTableSQL = `
CREATE TABLE IF NOT EXISTS products (
    id          UUID PRIMARY KEY,
    name        TEXT NOT NULL CHECK (name <> ''),
    description TEXT NOT NULL CHECK (description <> ''),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
)`

const (
	findByIDSQL = `SELECT id, name, description FROM products WHERE id = $1`
	findAllSQL  = `SELECT id, name, description FROM products ORDER BY created_at, id`
	createSQL   = `INSERT INTO products (id, name, description) VALUES ($1, $2, $3) RETURNING id, name, description`
	updateSQL   = `UPDATE products
SET name = COALESCE($2, name), description = COALESCE($3, description)
WHERE id = $1
RETURNING id, name, description`
	deleteSQL = `DELETE FROM products WHERE id = $1 RETURNING id, name, description`
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

var _ ProductStore = (*PgStore)(nil)

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// EnsureSchema creates the products table if it does not exist yet.
func (p *PgStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id string) (*Product, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	product, err := scanProduct(p.db.QueryRow(ctx, findByIDSQL, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// FindAll retrieves all products in insertion order.
// It returns a slice of products, which may be empty if no products exist.
func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx, findAllSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Product, error) {
		product, err := scanProduct(row)
		if err != nil {
			return Product{}, err
		}
		return *product, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// Create adds a new product to the system.
// Returns an error if the product cannot be created.
func (p *PgStore) Create(ctx context.Context, name, description string) (*Product, error) {
	product, err := scanProduct(p.db.QueryRow(ctx, createSQL, uuid.New(), name, description))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Update modifies the provided fields of an existing product.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, id string, update ProductUpdate) (*Product, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	product, err := scanProduct(p.db.QueryRow(ctx, updateSQL, uid, update.Name, update.Description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteByID removes a product by its unique identifier and returns it.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) DeleteByID(ctx context.Context, id string) (*Product, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	product, err := scanProduct(p.db.QueryRow(ctx, deleteSQL, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to delete product by ID: %w", err)
	}
	return product, nil
}

// Ping checks that a connection can be acquired.
func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func scanProduct(row pgx.Row) (*Product, error) {
	var (
		id      uuid.UUID
		product Product
	)
	if err := row.Scan(&id, &product.Name, &product.Description); err != nil {
		return nil, err
	}
	product.ID = id.String()
	return &product, nil
}

// parseUUID converts an id into a UUID or returns a *CastError.
func parseUUID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, &perrors.CastError{
			Model: modelName,
			Kind:  "UUID",
			Value: id,
			Path:  "id",
			Err:   err,
		}
	}
	return uid, nil
}
