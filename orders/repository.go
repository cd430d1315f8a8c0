// Package orders stores placed orders and simulates their delivery.
package orders

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"freshcart/models"
	"freshcart/schemas"
)

// VisibleTo reports whether session may see o. Orders without a session are
// the shared mock history.
func VisibleTo(o models.OrderDetails, session string) bool {
	return o.Session == "" || o.Session == session
}

var ErrNotFound = errors.New("order not found")

// Repository persists orders by id.
type Repository interface {
	Get(ctx context.Context, id string) (models.OrderDetails, error)
	List(ctx context.Context) ([]models.OrderDetails, error)
	Save(ctx context.Context, o models.OrderDetails) error
}

type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]models.OrderDetails
}

// NewMemoryRepository returns a repository holding the given seed orders.
// Seeds failing validation are logged and skipped.
func NewMemoryRepository(logger *zap.Logger, seed ...models.OrderDetails) *MemoryRepository {
	r := &MemoryRepository{orders: make(map[string]models.OrderDetails)}
	for _, o := range seed {
		if err := schemas.Order(o); err != nil {
			logger.Warn("skipping seed order", zap.String("id", o.ID), zap.Error(err))
			continue
		}
		r.orders[o.ID] = clone(o)
	}
	return r
}

func (r *MemoryRepository) Get(_ context.Context, id string) (models.OrderDetails, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return models.OrderDetails{}, ErrNotFound
	}
	return clone(o), nil
}

// List returns orders newest first.
func (r *MemoryRepository) List(_ context.Context) ([]models.OrderDetails, error) {
	r.mu.RLock()
	out := make([]models.OrderDetails, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, clone(o))
	}
	r.mu.RUnlock()
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepository) Save(_ context.Context, o models.OrderDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = clone(o)
	return nil
}

func sortNewestFirst(out []models.OrderDetails) {
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PlacedAt.Equal(out[j].PlacedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].PlacedAt.After(out[j].PlacedAt)
	})
}

func clone(o models.OrderDetails) models.OrderDetails {
	o.Progress = append([]models.ProgressStep(nil), o.Progress...)
	o.Items = append([]models.OrderLine(nil), o.Items...)
	return o
}
