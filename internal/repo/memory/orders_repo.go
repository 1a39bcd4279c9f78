package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/mealhub/internal/domain/meal"
	"github.com/geocoder89/mealhub/internal/domain/order"
	"github.com/geocoder89/mealhub/internal/domain/user"
)

// OrdersRepo is the append-only order ledger. Ids come from a counter owned by the
// ledger, so they stay unique even if orders are ever filtered or removed.
type OrdersRepo struct {
	mu     sync.RWMutex
	items  []order.Order
	lastID int
	now    func() time.Time
}

func NewOrdersRepo() *OrdersRepo {
	return NewOrdersRepoWithClock(time.Now)
}

func NewOrdersRepoWithClock(now func() time.Time) *OrdersRepo {
	if now == nil {
		now = time.Now
	}
	return &OrdersRepo{now: now}
}

func (r *OrdersRepo) AddOrder(_ context.Context, m meal.Meal, current *user.Profile) (order.Order, error) {
	if current == nil {
		return order.Order{}, order.ErrNoActiveSession
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	o := order.New(r.lastID, m, current.ID, r.now())
	r.items = append(r.items, o)

	return o, nil
}

func (r *OrdersRepo) ListOrders(_ context.Context) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]order.Order, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *OrdersRepo) ListOrdersForUser(_ context.Context, userID string) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]order.Order, 0)
	for _, o := range r.items {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}
