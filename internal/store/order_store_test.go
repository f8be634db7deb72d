package store

import (
	"testing"
	"time"

	"fleet-client/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestUpdateOrderStatusToDeliveredSetsDeliveryDateOnce(t *testing.T) {
	now := time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)
	clock := now
	s := NewOrderStore(func() time.Time { return clock })

	require.NoError(t, s.Add(domain.Order{
		ID:     "ORD-100",
		Status: domain.OrderPending,
		Total:  decimal.RequireFromString("100.00"),
	}))

	before, _ := s.Get("ORD-100")
	require.Nil(t, before.DeliveryDate)

	got, err := s.UpdateStatus("ORD-100", domain.OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderDelivered, got.Status)
	require.NotNil(t, got.DeliveryDate)
	assert.Equal(t, "2026-10-15", got.DeliveryDate.Format(time.DateOnly))

	// A later repeat must not move the date.
	clock = now.Add(72 * time.Hour)
	again, err := s.UpdateStatus("ORD-100", domain.OrderDelivered)
	require.NoError(t, err)
	require.NotNil(t, again.DeliveryDate)
	assert.Equal(t, "2026-10-15", again.DeliveryDate.Format(time.DateOnly))
}

func TestOrderDeliveryDateMatchesStatus(t *testing.T) {
	s := NewOrderStore(fixedClock(time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)))
	stale := domain.DateOf(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	err := s.Add(domain.Order{ID: "ORD-1", Status: domain.OrderPending, DeliveryDate: &stale})
	require.ErrorIs(t, err, ErrInvalidRecord)

	err = s.Add(domain.Order{ID: "ORD-2", Status: domain.OrderDelivered})
	require.ErrorIs(t, err, ErrInvalidRecord)

	err = s.Put(domain.Order{ID: "ORD-3", Status: domain.OrderShipped, DeliveryDate: &stale})
	require.ErrorIs(t, err, ErrInvalidRecord)

	err = s.SetAll([]domain.Order{{ID: "ORD-4", Status: domain.OrderDelivered}})
	require.ErrorIs(t, err, ErrInvalidRecord)
	assert.Zero(t, s.Len())

	require.NoError(t, s.Add(domain.Order{ID: "ORD-5", Status: domain.OrderPending}))
	got, err := s.UpdateStatus("ORD-5", domain.OrderDelivered)
	require.NoError(t, err)
	require.NotNil(t, got.DeliveryDate)
	assert.Equal(t, "2026-10-15", got.DeliveryDate.String())
}

func TestUpdateOrderStatusRefusesToLeaveTerminalStates(t *testing.T) {
	s := NewOrderStore(fixedClock(time.Now()))
	day := domain.DateOf(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.SetAll([]domain.Order{
		{ID: "ORD-1", Status: domain.OrderDelivered, DeliveryDate: &day},
		{ID: "ORD-2", Status: domain.OrderCancelled},
	}))

	_, err := s.UpdateStatus("ORD-1", domain.OrderPending)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.UpdateStatus("ORD-2", domain.OrderShipped)
	require.ErrorIs(t, err, ErrInvalidTransition)

	got, _ := s.Get("ORD-1")
	assert.Equal(t, domain.OrderDelivered, got.Status)
}

func TestUpdateOrderStatusUnknownOrderOrStatus(t *testing.T) {
	s := NewOrderStore(nil)
	require.NoError(t, s.Add(domain.Order{ID: "ORD-1", Status: domain.OrderPending}))

	_, err := s.UpdateStatus("ORD-404", domain.OrderShipped)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateStatus("ORD-1", "teleported")
	require.ErrorIs(t, err, ErrInvalidRecord)
}

func TestOrderSelectors(t *testing.T) {
	s := NewOrderStore(nil)
	day := domain.DateOf(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.SetAll([]domain.Order{
		{ID: "ORD-1", CustomerName: "Acme", Status: domain.OrderPending, Total: decimal.NewFromInt(10)},
		{ID: "ORD-2", CustomerName: "Blue Freight", Status: domain.OrderDelivered, Total: decimal.NewFromInt(25), DeliveryDate: &day},
		{ID: "ORD-3", CustomerName: "acme west", Status: domain.OrderDelivered, Total: decimal.NewFromInt(5), DeliveryDate: &day},
	}))

	assert.Equal(t, []string{"ORD-2", "ORD-3"}, ids(s.ByStatus(domain.OrderDelivered)))
	assert.Equal(t, []string{"ORD-1", "ORD-3"}, ids(s.Search("ACME")))
	assert.Equal(t, []string{"ORD-3"}, ids(s.FilterBy(domain.OrderDelivered, "acme")))
	assert.True(t, decimal.NewFromInt(30).Equal(s.DeliveredRevenue()))
	assert.Equal(t, 2, s.CountByStatus()[domain.OrderDelivered])
}

func TestAssignAndClearVehicle(t *testing.T) {
	s := NewOrderStore(nil)
	require.NoError(t, s.SetAll([]domain.Order{
		{ID: "ORD-1", Status: domain.OrderPending},
		{ID: "ORD-2", Status: domain.OrderPending},
	}))

	require.NoError(t, s.AssignVehicle("ORD-1", "VEH-1", "DRV-1"))
	require.NoError(t, s.AssignVehicle("ORD-2", "VEH-2", ""))

	assert.Equal(t, []string{"ORD-1"}, ids(s.ByVehicle("VEH-1")))
	assert.Equal(t, 1, s.ClearVehicle("VEH-1"))

	o1, _ := s.Get("ORD-1")
	assert.Nil(t, o1.AssignedVehicleID)
	assert.Nil(t, o1.AssignedDriverID)

	o2, _ := s.Get("ORD-2")
	require.NotNil(t, o2.AssignedVehicleID)
	assert.Equal(t, "VEH-2", *o2.AssignedVehicleID)
	assert.Nil(t, o2.AssignedDriverID)
}
