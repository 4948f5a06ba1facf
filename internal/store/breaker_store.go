package store

import (
	"context"
	"errors"

	perrors "github.com/abgdnv/productcrud/internal/errors"
	"github.com/abgdnv/productcrud/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// BreakerStore wraps a ProductStore in a circuit breaker. Once the breaker opens,
// calls fail fast with gobreaker.ErrOpenState until the open timeout elapses.
type BreakerStore struct {
	next ProductStore
	cb   *gobreaker.CircuitBreaker[any]
}

var _ ProductStore = (*BreakerStore)(nil)

// NewBreakerStore decorates next with a circuit breaker configured from cfg.
func NewBreakerStore(next ProductStore, cfg config.CircuitBreakerConfig) *BreakerStore {
	st := gobreaker.Settings{
		Name:        "product-store-cb",
		MaxRequests: 3,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: isStoreSuccess,
	}
	return &BreakerStore{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[any](st),
	}
}

// isStoreSuccess treats caller mistakes as successes: only backend failures trip the breaker.
func isStoreSuccess(err error) bool {
	if err == nil || errors.Is(err, perrors.ErrProductNotFound) {
		return true
	}
	var castErr *perrors.CastError
	var validationErr *perrors.ValidationError
	return errors.As(err, &castErr) || errors.As(err, &validationErr)
}

// State returns the current state of the breaker.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerStore) FindByID(ctx context.Context, id string) (*Product, error) {
	return execute(b.cb, func() (*Product, error) { return b.next.FindByID(ctx, id) })
}

func (b *BreakerStore) FindAll(ctx context.Context) ([]Product, error) {
	return execute(b.cb, func() ([]Product, error) { return b.next.FindAll(ctx) })
}

func (b *BreakerStore) Create(ctx context.Context, name, description string) (*Product, error) {
	return execute(b.cb, func() (*Product, error) { return b.next.Create(ctx, name, description) })
}

func (b *BreakerStore) Update(ctx context.Context, id string, update ProductUpdate) (*Product, error) {
	return execute(b.cb, func() (*Product, error) { return b.next.Update(ctx, id, update) })
}

func (b *BreakerStore) DeleteByID(ctx context.Context, id string) (*Product, error) {
	return execute(b.cb, func() (*Product, error) { return b.next.DeleteByID(ctx, id) })
}

// Ping bypasses the breaker so that readiness reflects the backend itself.
func (b *BreakerStore) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

func execute[T any](cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}
