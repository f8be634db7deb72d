package store

import (
	"fmt"

	"fleet-client/internal/domain"

	"github.com/shopspring/decimal"
)

// OrderStore holds orders and owns the status transition rules.
type OrderStore struct {
	*Store[domain.Order]
	clock Clock
}

func NewOrderStore(clock Clock) *OrderStore {
	return &OrderStore{
		Store: New(WithCheck(checkOrderDelivery)),
		clock: clock,
	}
}

// UpdateStatus moves an order to status. Entering delivered stamps DeliveryDate
// with today's date; repeating the same status is a no-op, so a second
// delivered transition leaves DeliveryDate untouched. Delivered and cancelled
// orders cannot move to another status.
func (s *OrderStore) UpdateStatus(id string, status domain.OrderStatus) (domain.Order, error) {
	var updated domain.Order
	err := s.Mutate(id, func(o *domain.Order) error {
		if o.Status == status {
			updated = *o
			return nil
		}
		if o.Status.Terminal() {
			return fmt.Errorf("%w: order %s is %s", ErrInvalidTransition, id, o.Status)
		}

		o.Status = status
		if status == domain.OrderDelivered {
			d := domain.DateOf(s.clock.now())
			o.DeliveryDate = &d
		}
		updated = *o
		return nil
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}
	return updated.Clone(), nil
}

// AssignVehicle sets the vehicle and driver references. Empty strings clear them.
// References are not checked against the fleet store.
func (s *OrderStore) AssignVehicle(id, vehicleID, driverID string) error {
	err := s.Mutate(id, func(o *domain.Order) error {
		o.AssignedVehicleID = optional(vehicleID)
		o.AssignedDriverID = optional(driverID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("assign vehicle: %w", err)
	}
	return nil
}

// ClearVehicle drops every assignment to vehicleID and returns how many orders changed.
func (s *OrderStore) ClearVehicle(vehicleID string) int {
	ids := make([]string, 0)
	for _, o := range s.ByVehicle(vehicleID) {
		ids = append(ids, o.ID)
	}

	cleared := 0
	for _, id := range ids {
		err := s.Mutate(id, func(o *domain.Order) error {
			if o.AssignedVehicleID == nil || *o.AssignedVehicleID != vehicleID {
				return ErrNotFound
			}
			o.AssignedVehicleID = nil
			o.AssignedDriverID = nil
			return nil
		})
		if err == nil {
			cleared++
		}
	}
	return cleared
}

func (s *OrderStore) ByStatus(status domain.OrderStatus) []domain.Order {
	return s.Filter(func(o domain.Order) bool { return o.Status == status })
}

func (s *OrderStore) ByVehicle(vehicleID string) []domain.Order {
	return s.Filter(func(o domain.Order) bool {
		return o.AssignedVehicleID != nil && *o.AssignedVehicleID == vehicleID
	})
}

// Search matches id, customer contact fields and delivery address.
func (s *OrderStore) Search(q string) []domain.Order {
	return s.Filter(func(o domain.Order) bool {
		return matchesQuery(q, o.ID, o.CustomerName, o.CustomerPhone, o.CustomerEmail, o.DeliveryAddress)
	})
}

// FilterBy combines a status filter (empty = any) with a search query.
func (s *OrderStore) FilterBy(status domain.OrderStatus, q string) []domain.Order {
	return s.Filter(func(o domain.Order) bool {
		if status != "" && o.Status != status {
			return false
		}
		return matchesQuery(q, o.ID, o.CustomerName, o.CustomerPhone, o.CustomerEmail, o.DeliveryAddress)
	})
}

func (s *OrderStore) CountByStatus() map[domain.OrderStatus]int {
	counts := make(map[domain.OrderStatus]int)
	for _, o := range s.All() {
		counts[o.Status]++
	}
	return counts
}

// DeliveredRevenue sums the totals of delivered orders.
func (s *OrderStore) DeliveredRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, o := range s.ByStatus(domain.OrderDelivered) {
		total = total.Add(o.Total)
	}
	return total
}

// checkOrderDelivery requires a delivery date on delivered orders and on
// no others.
func checkOrderDelivery(o domain.Order) error {
	delivered := o.Status == domain.OrderDelivered
	switch {
	case delivered && o.DeliveryDate == nil:
		return fmt.Errorf("delivered order %s has no delivery date", o.ID)
	case !delivered && o.DeliveryDate != nil:
		return fmt.Errorf("%s order %s has a delivery date", o.Status, o.ID)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
