package store

import (
	"fmt"

	"fleet-client/internal/domain"
)

// FleetStore holds vehicles.
type FleetStore struct {
	*Store[domain.Vehicle]
}

func NewFleetStore() *FleetStore {
	return &FleetStore{Store: New[domain.Vehicle]()}
}

func (s *FleetStore) UpdateStatus(id string, status domain.VehicleStatus) error {
	err := s.Mutate(id, func(v *domain.Vehicle) error {
		v.Status = status
		return nil
	})
	if err != nil {
		return fmt.Errorf("update vehicle status: %w", err)
	}
	return nil
}

// UpdateFuelLevel sets the fuel percentage. Values outside [0, 100] are
// rejected with ErrFuelOutOfRange.
func (s *FleetStore) UpdateFuelLevel(id string, level float64) error {
	if level < domain.MinFuelLevel || level > domain.MaxFuelLevel {
		return fmt.Errorf("update fuel level: %w: %v", ErrFuelOutOfRange, level)
	}

	err := s.Mutate(id, func(v *domain.Vehicle) error {
		v.FuelLevel = level
		return nil
	})
	if err != nil {
		return fmt.Errorf("update fuel level: %w", err)
	}
	return nil
}

// AssignDriver sets the driver reference; an empty driverID unassigns.
func (s *FleetStore) AssignDriver(id, driverID string) error {
	err := s.Mutate(id, func(v *domain.Vehicle) error {
		v.AssignedDriverID = optional(driverID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("assign driver: %w", err)
	}
	return nil
}

func (s *FleetStore) ByStatus(status domain.VehicleStatus) []domain.Vehicle {
	return s.Filter(func(v domain.Vehicle) bool { return v.Status == status })
}

func (s *FleetStore) Available() []domain.Vehicle {
	return s.ByStatus(domain.VehicleAvailable)
}

// LowFuel lists vehicles at or below threshold percent.
func (s *FleetStore) LowFuel(threshold float64) []domain.Vehicle {
	return s.Filter(func(v domain.Vehicle) bool { return v.NeedsRefuel(threshold) })
}

// Search matches id, registration number and vehicle type.
func (s *FleetStore) Search(q string) []domain.Vehicle {
	return s.Filter(func(v domain.Vehicle) bool {
		return matchesQuery(q, v.ID, v.RegistrationNumber, v.Type)
	})
}

// AverageFuel is the mean fuel level across the fleet, 0 for an empty fleet.
func (s *FleetStore) AverageFuel() float64 {
	all := s.All()
	if len(all) == 0 {
		return 0
	}
	var sum float64
	for _, v := range all {
		sum += v.FuelLevel
	}
	return sum / float64(len(all))
}
