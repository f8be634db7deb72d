package store

import (
	"testing"

	"fleet-client/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustStockRejectsOverdraw(t *testing.T) {
	s := NewInventoryStore()
	require.NoError(t, s.Add(domain.InventoryItem{ID: "INV-1", SKU: "PAL-01", Quantity: 5, ReorderLevel: 2}))

	require.ErrorIs(t, s.CheckAdjustment("INV-1", -6), ErrInsufficientStock)
	_, err := s.AdjustStock("INV-1", -6)
	require.ErrorIs(t, err, ErrInsufficientStock)

	got, _ := s.Get("INV-1")
	assert.Equal(t, 5, got.Quantity)

	item, err := s.AdjustStock("INV-1", -5)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity)

	item, err = s.AdjustStock("INV-1", 12)
	require.NoError(t, err)
	assert.Equal(t, 12, item.Quantity)

	require.ErrorIs(t, s.CheckAdjustment("INV-404", 1), ErrNotFound)
}

func TestInventorySelectors(t *testing.T) {
	s := NewInventoryStore()
	require.NoError(t, s.SetAll([]domain.InventoryItem{
		{ID: "INV-1", SKU: "PAL-01", Name: "Pallet", Quantity: 3, ReorderLevel: 5, UnitPrice: decimal.NewFromInt(10)},
		{ID: "INV-2", SKU: "BOX-02", Name: "Carton", Quantity: 100, ReorderLevel: 20, UnitPrice: decimal.RequireFromString("0.5")},
	}))

	assert.Equal(t, []string{"INV-1"}, ids(s.LowStock()))
	assert.True(t, decimal.NewFromInt(80).Equal(s.TotalValue()))

	got, ok := s.BySKU("box-02")
	require.True(t, ok)
	assert.Equal(t, "INV-2", got.ID)

	assert.ErrorIs(t, s.Add(domain.InventoryItem{ID: "INV-3", SKU: "pal-01"}), ErrDuplicateSKU)
}
