package domain

import (
	"strings"
	"time"
)

type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleIdle        VehicleStatus = "idle"
	VehicleInTransit   VehicleStatus = "in_transit"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleOffline     VehicleStatus = "offline"
)

func (s *VehicleStatus) UnmarshalText(b []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(b)))
	switch v {
	case "active":
		v = string(VehicleAvailable)
	case "in-transit":
		v = string(VehicleInTransit)
	}
	*s = VehicleStatus(v)
	return nil
}

const (
	MinFuelLevel = 0
	MaxFuelLevel = 100
)

// Fleet vehicle. FuelLevel is a percentage in [0, 100].
type Vehicle struct {
	ID                 string        `json:"id" validate:"required"`
	RegistrationNumber string        `json:"registrationNumber"`
	Type               string        `json:"type"`
	Status             VehicleStatus `json:"status" validate:"required,oneof=available idle in_transit maintenance offline"`
	AssignedDriverID   *string       `json:"assignedDriverId"`
	FuelLevel          float64       `json:"fuelLevel" validate:"gte=0,lte=100"`
	Location           *Coordinates  `json:"location,omitempty" validate:"omitempty"`
	LastServiceDate    *time.Time    `json:"lastServiceDate,omitempty"`
}

func (v Vehicle) GetID() string { return v.ID }

func (v Vehicle) Clone() Vehicle {
	c := v
	c.AssignedDriverID = cloneString(v.AssignedDriverID)
	if v.Location != nil {
		loc := *v.Location
		c.Location = &loc
	}
	if v.LastServiceDate != nil {
		t := *v.LastServiceDate
		c.LastServiceDate = &t
	}
	return c
}

// NeedsRefuel reports whether the tank is at or below threshold percent.
func (v Vehicle) NeedsRefuel(threshold float64) bool {
	return v.FuelLevel <= threshold
}

// VehiclePatch changes descriptive fields. Status and fuel go through FleetStore.
type VehiclePatch struct {
	RegistrationNumber *string      `json:"registrationNumber,omitempty"`
	Type               *string      `json:"type,omitempty"`
	Location           *Coordinates `json:"location,omitempty"`
	LastServiceDate    *time.Time   `json:"lastServiceDate,omitempty"`
}

func (p VehiclePatch) Apply(v *Vehicle) {
	setIf(&v.RegistrationNumber, p.RegistrationNumber)
	setIf(&v.Type, p.Type)
	if p.Location != nil {
		loc := *p.Location
		v.Location = &loc
	}
	if p.LastServiceDate != nil {
		t := *p.LastServiceDate
		v.LastServiceDate = &t
	}
}
