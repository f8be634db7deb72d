package store

import (
	"fmt"
	"strings"

	"fleet-client/internal/domain"
)

// ShipmentStore holds shipments. Tracking history only grows, and the
// current location always follows its last event.
type ShipmentStore struct {
	*Store[domain.Shipment]
	clock Clock
}

func NewShipmentStore(clock Clock) *ShipmentStore {
	return &ShipmentStore{
		Store: New(
			WithCheck(checkShipmentLocation),
			WithUnique(func(s domain.Shipment) string {
				return strings.ToUpper(strings.TrimSpace(s.TrackingNumber))
			}, ErrDuplicateTrackingNumber),
			WithReplaceCheck(checkHistoryExtends),
		),
		clock: clock,
	}
}

func checkShipmentLocation(s domain.Shipment) error {
	last, ok := s.LastEvent()
	if !ok || s.CurrentLocation == "" {
		return nil
	}
	if last.Location != s.CurrentLocation {
		return fmt.Errorf("current location %q does not match last tracking event %q",
			s.CurrentLocation, last.Location)
	}
	return nil
}

// checkHistoryExtends accepts a replacement only when the stored history is a
// prefix of the incoming one, so a stale copy cannot drop events.
func checkHistoryExtends(old, next domain.Shipment) error {
	if len(next.TrackingHistory) < len(old.TrackingHistory) {
		return fmt.Errorf("tracking history would shrink from %d to %d events",
			len(old.TrackingHistory), len(next.TrackingHistory))
	}
	for i, ev := range old.TrackingHistory {
		if !sameEvent(ev, next.TrackingHistory[i]) {
			return fmt.Errorf("tracking event #%d would change", i+1)
		}
	}
	return nil
}

func sameEvent(a, b domain.TrackingEvent) bool {
	return a.Location == b.Location && a.Status == b.Status &&
		a.Note == b.Note && a.Timestamp.Equal(b.Timestamp)
}

// UpdateStatus records a status change as a new tracking event at location.
// An empty location reuses the current location, then the origin.
func (s *ShipmentStore) UpdateStatus(id string, status domain.ShipmentStatus, location string) (domain.Shipment, error) {
	var updated domain.Shipment
	err := s.Mutate(id, func(sh *domain.Shipment) error {
		loc := firstNonEmpty(location, sh.CurrentLocation, sh.Origin)
		if loc == "" {
			return fmt.Errorf("%w: shipment %s has no known location", ErrInvalidRecord, id)
		}

		appendEvent(sh, domain.TrackingEvent{
			Location:  loc,
			Status:    status,
			Timestamp: s.clock.now(),
		})
		updated = *sh
		return nil
	})
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("update shipment status: %w", err)
	}
	return updated.Clone(), nil
}

// AddTrackingUpdate appends ev to the history. A zero timestamp is stamped
// with the current time and an empty status keeps the shipment's status.
func (s *ShipmentStore) AddTrackingUpdate(id string, ev domain.TrackingEvent) (domain.Shipment, error) {
	var updated domain.Shipment
	err := s.Mutate(id, func(sh *domain.Shipment) error {
		if strings.TrimSpace(ev.Location) == "" {
			return fmt.Errorf("%w: tracking event needs a location", ErrInvalidRecord)
		}
		if ev.Timestamp.IsZero() {
			ev.Timestamp = s.clock.now()
		}
		if ev.Status == "" {
			ev.Status = sh.Status
		}

		appendEvent(sh, ev)
		updated = *sh
		return nil
	})
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("add tracking update: %w", err)
	}
	return updated.Clone(), nil
}

func appendEvent(sh *domain.Shipment, ev domain.TrackingEvent) {
	sh.TrackingHistory = append(sh.TrackingHistory, ev)
	sh.CurrentLocation = ev.Location
	sh.Status = ev.Status
}

// ByTrackingNumber looks a shipment up by tracking number, ignoring case.
func (s *ShipmentStore) ByTrackingNumber(trackingNumber string) (domain.Shipment, bool) {
	tn := strings.TrimSpace(trackingNumber)
	return s.Find(func(sh domain.Shipment) bool {
		return strings.EqualFold(sh.TrackingNumber, tn)
	})
}

func (s *ShipmentStore) ByStatus(status domain.ShipmentStatus) []domain.Shipment {
	return s.Filter(func(sh domain.Shipment) bool { return sh.Status == status })
}

// Search matches tracking number, customer name, origin and destination.
func (s *ShipmentStore) Search(q string) []domain.Shipment {
	return s.Filter(func(sh domain.Shipment) bool {
		return matchesQuery(q, sh.TrackingNumber, sh.CustomerName, sh.Origin, sh.Destination)
	})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
