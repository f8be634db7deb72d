package store

import (
	"fmt"
	"strings"

	"fleet-client/internal/domain"

	"github.com/shopspring/decimal"
)

type InventoryStore struct {
	*Store[domain.InventoryItem]
}

func NewInventoryStore() *InventoryStore {
	return &InventoryStore{
		Store: New(WithUnique(func(i domain.InventoryItem) string {
			return strings.ToUpper(strings.TrimSpace(i.SKU))
		}, ErrDuplicateSKU)),
	}
}

// CheckAdjustment reports whether AdjustStock(id, delta) would succeed
// without changing anything.
func (s *InventoryStore) CheckAdjustment(id string, delta int) error {
	item, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if item.Quantity+delta < 0 {
		return fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, id, item.Quantity, -delta)
	}
	return nil
}

// AdjustStock adds delta to the item's quantity. Removing more than is on
// hand fails with ErrInsufficientStock and leaves the quantity unchanged.
func (s *InventoryStore) AdjustStock(id string, delta int) (domain.InventoryItem, error) {
	var updated domain.InventoryItem
	err := s.Mutate(id, func(i *domain.InventoryItem) error {
		if i.Quantity+delta < 0 {
			return fmt.Errorf("%w: %s has %d, requested %d", ErrInsufficientStock, id, i.Quantity, -delta)
		}
		i.Quantity += delta
		updated = *i
		return nil
	})
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("adjust stock: %w", err)
	}
	return updated, nil
}

func (s *InventoryStore) BySKU(sku string) (domain.InventoryItem, bool) {
	sku = strings.TrimSpace(sku)
	return s.Find(func(i domain.InventoryItem) bool { return strings.EqualFold(i.SKU, sku) })
}

func (s *InventoryStore) LowStock() []domain.InventoryItem {
	return s.Filter(domain.InventoryItem.LowStock)
}

// Search matches SKU, name and warehouse location.
func (s *InventoryStore) Search(q string) []domain.InventoryItem {
	return s.Filter(func(i domain.InventoryItem) bool {
		return matchesQuery(q, i.SKU, i.Name, i.Location)
	})
}

// TotalValue is the sum of quantity * unit price over all items.
func (s *InventoryStore) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, i := range s.All() {
		total = total.Add(i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))))
	}
	return total
}
