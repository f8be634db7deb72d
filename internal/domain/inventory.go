package domain

import "github.com/shopspring/decimal"

// InventoryItem is a stock-keeping unit held at a warehouse location.
type InventoryItem struct {
	ID           string          `json:"id" validate:"required"`
	SKU          string          `json:"sku" validate:"required"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
	ReorderLevel int             `json:"reorderLevel" validate:"gte=0"`
	Location     string          `json:"location,omitempty"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
}

func (i InventoryItem) GetID() string { return i.ID }

func (i InventoryItem) Clone() InventoryItem { return i }

func (i InventoryItem) LowStock() bool { return i.Quantity <= i.ReorderLevel }

// Quantity is absent: stock only moves through InventoryStore.AdjustStock.
type InventoryPatch struct {
	Name         *string          `json:"name,omitempty"`
	ReorderLevel *int             `json:"reorderLevel,omitempty"`
	Location     *string          `json:"location,omitempty"`
	UnitPrice    *decimal.Decimal `json:"unitPrice,omitempty"`
}

func (p InventoryPatch) Apply(i *InventoryItem) {
	setIf(&i.Name, p.Name)
	setIf(&i.ReorderLevel, p.ReorderLevel)
	setIf(&i.Location, p.Location)
	setIf(&i.UnitPrice, p.UnitPrice)
}

// StockAdjustment is the body of an adjust-stock request. Negative deltas remove stock.
type StockAdjustment struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason,omitempty"`
}
