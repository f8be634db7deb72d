package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Older API versions and screens used different names for the same states.
var orderStatusAliases = map[string]OrderStatus{
	"confirmed":  OrderProcessing,
	"in_transit": OrderShipped,
	"in-transit": OrderShipped,
}

// UnmarshalText accepts the canonical names and their legacy aliases.
func (s *OrderStatus) UnmarshalText(b []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(b)))
	if alias, ok := orderStatusAliases[v]; ok {
		*s = alias
		return nil
	}
	*s = OrderStatus(v)
	return nil
}

// Terminal reports whether no further transitions are allowed out of s.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var priorityAliases = map[string]Priority{
	"medium":  PriorityNormal,
	"express": PriorityUrgent,
}

func (p *Priority) UnmarshalText(b []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(b)))
	if alias, ok := priorityAliases[v]; ok {
		*p = alias
		return nil
	}
	*p = Priority(v)
	return nil
}

// LineItem is one ordered product line.
type LineItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity" validate:"gte=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Order is a customer order moving from pending through delivery.
// DeliveryDate is set exactly when the status is delivered.
type Order struct {
	ID                string          `json:"id" validate:"required"`
	CustomerName      string          `json:"customerName"`
	CustomerPhone     string          `json:"customerPhone,omitempty"`
	CustomerEmail     string          `json:"customerEmail,omitempty"`
	Status            OrderStatus     `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
	Total             decimal.Decimal `json:"total"`
	Items             []LineItem      `json:"items" validate:"dive"`
	PickupAddress     string          `json:"pickupAddress,omitempty"`
	DeliveryAddress   string          `json:"deliveryAddress,omitempty"`
	AssignedVehicleID *string         `json:"assignedVehicleId"`
	AssignedDriverID  *string         `json:"assignedDriverId"`
	Priority          Priority        `json:"priority,omitempty" validate:"omitempty,oneof=low normal high urgent"`
	CreatedAt         time.Time       `json:"createdAt"`
	DeliveryDate      *Date           `json:"deliveryDate"`
}

func (o Order) GetID() string { return o.ID }

// Clone returns a deep copy so stored records never share slices or pointers with callers.
func (o Order) Clone() Order {
	c := o
	if o.Items != nil {
		c.Items = append([]LineItem(nil), o.Items...)
	}
	c.AssignedVehicleID = cloneString(o.AssignedVehicleID)
	c.AssignedDriverID = cloneString(o.AssignedDriverID)
	if o.DeliveryDate != nil {
		d := *o.DeliveryDate
		c.DeliveryDate = &d
	}
	return c
}

// ItemsTotal sums quantity * unit price over all line items.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// OrderPatch is a shallow partial update. Nil fields are left untouched.
// Status and DeliveryDate only change through OrderStore.UpdateStatus.
type OrderPatch struct {
	CustomerName    *string          `json:"customerName,omitempty"`
	CustomerPhone   *string          `json:"customerPhone,omitempty"`
	CustomerEmail   *string          `json:"customerEmail,omitempty"`
	Total           *decimal.Decimal `json:"total,omitempty"`
	Items           []LineItem       `json:"items,omitempty"`
	PickupAddress   *string          `json:"pickupAddress,omitempty"`
	DeliveryAddress *string          `json:"deliveryAddress,omitempty"`
	Priority        *Priority        `json:"priority,omitempty"`
}

func (p OrderPatch) Apply(o *Order) {
	setIf(&o.CustomerName, p.CustomerName)
	setIf(&o.CustomerPhone, p.CustomerPhone)
	setIf(&o.CustomerEmail, p.CustomerEmail)
	setIf(&o.Total, p.Total)
	if p.Items != nil {
		o.Items = append([]LineItem(nil), p.Items...)
	}
	setIf(&o.PickupAddress, p.PickupAddress)
	setIf(&o.DeliveryAddress, p.DeliveryAddress)
	setIf(&o.Priority, p.Priority)
}

func setIf[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
