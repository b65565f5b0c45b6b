package ledger

// Package ledger owns the persisted order collection: it is the only code
// that reads or writes the store key, and every merge is a single
// read-merge-write sequence. The caller serializes scans; the ledger does
// not lock across processes.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/priyakud/zeplens/pkg/compare"
	"github.com/priyakud/zeplens/pkg/models"
	"github.com/priyakud/zeplens/pkg/store"
)

// ordersKey is the store key holding the order collection.
const ordersKey = "orders"

type Ledger struct {
	store  store.Store
	logger *log.Logger
}

func New(st store.Store, logger *log.Logger) *Ledger {
	return &Ledger{
		store:  st,
		logger: logger,
	}
}

// Orders returns the persisted collection in merge order, oldest first. An
// absent key is an empty collection, not an error.
func (l *Ledger) Orders(ctx context.Context) ([]models.Order, error) {
	raw, ok, err := l.store.Get(ctx, ordersKey)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var orders []models.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// Merge appends every incoming order whose (date, price) identity is not
// already present — in the persisted collection or earlier in the same
// batch — persists the result, and returns the number added along with the
// merged collection. Re-merging the same batch adds nothing.
func (l *Ledger) Merge(ctx context.Context, incoming []models.Order) (int, []models.Order, error) {
	orders, err := l.Orders(ctx)
	if err != nil {
		return 0, nil, err
	}

	added := 0
	for i := range incoming {
		if contains(orders, &incoming[i]) {
			l.logger.Debug("duplicate order skipped", "date", incoming[i].Date, "price", incoming[i].Price)
			continue
		}
		orders = append(orders, incoming[i])
		added++
	}

	if added == 0 {
		return 0, orders, nil
	}

	raw, err := json.Marshal(orders)
	if err != nil {
		return 0, nil, fmt.Errorf("encode orders: %w", err)
	}
	if err := l.store.Set(ctx, ordersKey, raw); err != nil {
		return 0, nil, fmt.Errorf("persist orders: %w", err)
	}

	return added, orders, nil
}

// Clear drops the persisted collection.
func (l *Ledger) Clear(ctx context.Context) error {
	if err := l.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear orders: %w", err)
	}
	return nil
}

func contains(orders []models.Order, candidate *models.Order) bool {
	for i := range orders {
		if compare.Equal(&orders[i], candidate) {
			return true
		}
	}
	return false
}
