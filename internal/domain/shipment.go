package domain

import (
	"strings"
	"time"
)

type ShipmentStatus string

const (
	ShipmentPending   ShipmentStatus = "pending"
	ShipmentInTransit ShipmentStatus = "in-transit"
	ShipmentDelivered ShipmentStatus = "delivered"
	ShipmentDelayed   ShipmentStatus = "delayed"
	ShipmentFailed    ShipmentStatus = "failed"
)

func (s *ShipmentStatus) UnmarshalText(b []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(b)))
	if v == "in_transit" {
		v = string(ShipmentInTransit)
	}
	*s = ShipmentStatus(v)
	return nil
}

// TrackingEvent is one entry of a shipment's tracking history.
type TrackingEvent struct {
	Location  string         `json:"location" validate:"required"`
	Status    ShipmentStatus `json:"status" validate:"required,oneof=pending in-transit delivered delayed failed"`
	Timestamp time.Time      `json:"timestamp"`
	Note      string         `json:"note,omitempty"`
}

// Shipment tracks a consignment between two places.
// TrackingHistory is append-only and CurrentLocation mirrors its last entry.
type Shipment struct {
	ID                string          `json:"id" validate:"required"`
	TrackingNumber    string          `json:"trackingNumber" validate:"required"`
	CustomerName      string          `json:"customerName"`
	Origin            string          `json:"origin"`
	Destination       string          `json:"destination"`
	Status            ShipmentStatus  `json:"status" validate:"required,oneof=pending in-transit delivered delayed failed"`
	CurrentLocation   string          `json:"currentLocation,omitempty"`
	TrackingHistory   []TrackingEvent `json:"trackingHistory" validate:"dive"`
	EstimatedDelivery *time.Time      `json:"estimatedDelivery,omitempty"`
}

func (s Shipment) GetID() string { return s.ID }

func (s Shipment) Clone() Shipment {
	c := s
	if s.TrackingHistory != nil {
		c.TrackingHistory = append([]TrackingEvent(nil), s.TrackingHistory...)
	}
	if s.EstimatedDelivery != nil {
		t := *s.EstimatedDelivery
		c.EstimatedDelivery = &t
	}
	return c
}

// LastEvent returns the most recent tracking event, if any.
func (s Shipment) LastEvent() (TrackingEvent, bool) {
	if len(s.TrackingHistory) == 0 {
		return TrackingEvent{}, false
	}
	return s.TrackingHistory[len(s.TrackingHistory)-1], true
}

// ShipmentPatch excludes Status, CurrentLocation and TrackingHistory,
// which move together through ShipmentStore transitions.
type ShipmentPatch struct {
	CustomerName      *string    `json:"customerName,omitempty"`
	Origin            *string    `json:"origin,omitempty"`
	Destination       *string    `json:"destination,omitempty"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
}

func (p ShipmentPatch) Apply(s *Shipment) {
	setIf(&s.CustomerName, p.CustomerName)
	setIf(&s.Origin, p.Origin)
	setIf(&s.Destination, p.Destination)
	if p.EstimatedDelivery != nil {
		t := *p.EstimatedDelivery
		s.EstimatedDelivery = &t
	}
}
