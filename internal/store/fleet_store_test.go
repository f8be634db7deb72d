package store

import (
	"testing"

	"fleet-client/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vehicle(id string, fuel float64, status domain.VehicleStatus) domain.Vehicle {
	return domain.Vehicle{
		ID:                 id,
		RegistrationNumber: "MH-01-" + id,
		Type:               "truck",
		Status:             status,
		FuelLevel:          fuel,
	}
}

func TestFuelLevelStaysInRange(t *testing.T) {
	s := NewFleetStore()
	require.NoError(t, s.Add(vehicle("VEH-1", 50, domain.VehicleAvailable)))

	for _, level := range []float64{-0.1, 100.01, 250} {
		err := s.UpdateFuelLevel("VEH-1", level)
		require.ErrorIs(t, err, ErrFuelOutOfRange, "level %v", level)
	}

	require.NoError(t, s.UpdateFuelLevel("VEH-1", 0))
	require.NoError(t, s.UpdateFuelLevel("VEH-1", 100))
	got, _ := s.Get("VEH-1")
	assert.Equal(t, 100.0, got.FuelLevel)

	require.ErrorIs(t, s.Add(vehicle("VEH-2", 101, domain.VehicleIdle)), ErrInvalidRecord)
}

func TestFleetSelectors(t *testing.T) {
	s := NewFleetStore()
	require.NoError(t, s.SetAll([]domain.Vehicle{
		vehicle("VEH-1", 80, domain.VehicleAvailable),
		vehicle("VEH-2", 10, domain.VehicleInTransit),
		vehicle("VEH-3", 30, domain.VehicleAvailable),
	}))

	assert.Equal(t, []string{"VEH-1", "VEH-3"}, ids(s.Available()))
	assert.Equal(t, []string{"VEH-2"}, ids(s.LowFuel(15)))
	assert.InDelta(t, 40.0, s.AverageFuel(), 0.001)
	assert.Equal(t, []string{"VEH-2"}, ids(s.Search("mh-01-veh-2")))

	require.NoError(t, s.UpdateStatus("VEH-1", domain.VehicleMaintenance))
	require.ErrorIs(t, s.UpdateStatus("VEH-1", "scrapped"), ErrInvalidRecord)
	assert.Equal(t, []string{"VEH-3"}, ids(s.Available()))

	require.NoError(t, s.AssignDriver("VEH-3", "DRV-9"))
	got, _ := s.Get("VEH-3")
	require.NotNil(t, got.AssignedDriverID)
	assert.Equal(t, "DRV-9", *got.AssignedDriverID)
}

func TestAverageFuelEmptyFleet(t *testing.T) {
	assert.Zero(t, NewFleetStore().AverageFuel())
}
