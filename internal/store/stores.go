package store

import (
	"encoding/json"
	"fmt"
	"os"

	"fleet-client/internal/domain"
)

// Stores bundles one handle per entity store. It is created once at start-up
// and passed to whatever needs it.
type Stores struct {
	Orders    *OrderStore
	Shipments *ShipmentStore
	Fleet     *FleetStore
	Customers *CustomerStore
	Inventory *InventoryStore
	Analytics *AnalyticsStore
	UI        *UIStore
}

func NewStores(clock Clock) *Stores {
	return &Stores{
		Orders:    NewOrderStore(clock),
		Shipments: NewShipmentStore(clock),
		Fleet:     NewFleetStore(),
		Customers: NewCustomerStore(),
		Inventory: NewInventoryStore(),
		Analytics: NewAnalyticsStore(),
		UI:        NewUIStore(clock),
	}
}

// Dataset is the serialized form of the entity stores, used for JSON seed
// files and for the offline payload.
type Dataset struct {
	Orders    []domain.Order            `json:"orders"`
	Shipments []domain.Shipment         `json:"shipments"`
	Vehicles  []domain.Vehicle          `json:"vehicles"`
	Customers []domain.Customer         `json:"customers"`
	Inventory []domain.InventoryItem    `json:"inventory"`
	Analytics *domain.AnalyticsSnapshot `json:"analytics,omitempty"`
}

// Export copies the current contents of every entity store.
func (s *Stores) Export() Dataset {
	d := Dataset{
		Orders:    s.Orders.All(),
		Shipments: s.Shipments.All(),
		Vehicles:  s.Fleet.All(),
		Customers: s.Customers.All(),
		Inventory: s.Inventory.All(),
	}
	if snap, ok := s.Analytics.Snapshot(); ok {
		d.Analytics = &snap
	}
	return d
}

// Load replaces store contents with d. Every collection is checked before
// any store is touched, so an invalid dataset changes nothing.
func (s *Stores) Load(d Dataset) error {
	checks := []struct {
		name string
		err  error
	}{
		{"orders", s.Orders.Check(d.Orders)},
		{"shipments", s.Shipments.Check(d.Shipments)},
		{"vehicles", s.Fleet.Check(d.Vehicles)},
		{"customers", s.Customers.Check(d.Customers)},
		{"inventory", s.Inventory.Check(d.Inventory)},
	}
	for _, c := range checks {
		if c.err != nil {
			return fmt.Errorf("load dataset: %s: %w", c.name, c.err)
		}
	}

	if err := s.Orders.SetAll(d.Orders); err != nil {
		return fmt.Errorf("load dataset: orders: %w", err)
	}
	if err := s.Shipments.SetAll(d.Shipments); err != nil {
		return fmt.Errorf("load dataset: shipments: %w", err)
	}
	if err := s.Fleet.SetAll(d.Vehicles); err != nil {
		return fmt.Errorf("load dataset: vehicles: %w", err)
	}
	if err := s.Customers.SetAll(d.Customers); err != nil {
		return fmt.Errorf("load dataset: customers: %w", err)
	}
	if err := s.Inventory.SetAll(d.Inventory); err != nil {
		return fmt.Errorf("load dataset: inventory: %w", err)
	}
	if d.Analytics != nil {
		s.Analytics.Replace(*d.Analytics)
	}
	return nil
}

// SeedFromJSON populates the stores with mock data from a JSON file.
func SeedFromJSON(s *Stores, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed stores: read %q: %w", jsonPath, err)
	}

	var data Dataset
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed stores: parse json: %w", err)
	}

	if err := s.Load(data); err != nil {
		return fmt.Errorf("seed stores: %w", err)
	}
	return nil
}
