package store

import (
	"math/rand/v2"
	"testing"
	"time"

	"fleet-client/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shipment(id, tracking string) domain.Shipment {
	return domain.Shipment{
		ID:             id,
		TrackingNumber: tracking,
		CustomerName:   "Acme",
		Origin:         "Mumbai",
		Destination:    "Delhi",
		Status:         domain.ShipmentPending,
	}
}

func TestShipmentHistoryIsAppendOnly(t *testing.T) {
	s := NewShipmentStore(fixedClock(time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, s.Add(shipment("SHP-1", "TRK-1")))

	locations := []string{"Mumbai", "Surat", "Vadodara", "Jaipur", "Delhi"}
	statuses := []domain.ShipmentStatus{domain.ShipmentInTransit, domain.ShipmentDelayed, domain.ShipmentInTransit}
	rng := rand.New(rand.NewPCG(7, 11))

	prevLen := 0
	prevHistory := []domain.TrackingEvent{}
	for i := 0; i < 40; i++ {
		loc := locations[rng.IntN(len(locations))]

		var got domain.Shipment
		var err error
		if rng.IntN(2) == 0 {
			got, err = s.UpdateStatus("SHP-1", statuses[rng.IntN(len(statuses))], loc)
		} else {
			got, err = s.AddTrackingUpdate("SHP-1", domain.TrackingEvent{Location: loc, Note: "scan"})
		}
		require.NoError(t, err)

		require.Len(t, got.TrackingHistory, prevLen+1)
		assert.Equal(t, prevHistory, got.TrackingHistory[:prevLen], "earlier events must not change")

		last, ok := got.LastEvent()
		require.True(t, ok)
		assert.Equal(t, loc, last.Location)
		assert.Equal(t, last.Location, got.CurrentLocation)

		prevLen = len(got.TrackingHistory)
		prevHistory = got.TrackingHistory
	}
}

func TestShipmentPutCannotDropHistory(t *testing.T) {
	s := NewShipmentStore(fixedClock(time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, s.Add(shipment("SHP-1", "TRK-1")))
	_, err := s.UpdateStatus("SHP-1", domain.ShipmentInTransit, "Surat")
	require.NoError(t, err)
	before, err := s.UpdateStatus("SHP-1", domain.ShipmentDelayed, "Vadodara")
	require.NoError(t, err)
	require.Len(t, before.TrackingHistory, 2)

	err = s.Put(shipment("SHP-1", "TRK-1"))
	require.ErrorIs(t, err, ErrInvalidRecord)

	rewritten := before.Clone()
	rewritten.TrackingHistory[0].Location = "Pune"
	err = s.Put(rewritten)
	require.ErrorIs(t, err, ErrInvalidRecord)

	got, _ := s.Get("SHP-1")
	assert.Len(t, got.TrackingHistory, 2)
	assert.Equal(t, "Vadodara", got.CurrentLocation)

	extended := before.Clone()
	extended.TrackingHistory = append(extended.TrackingHistory,
		domain.TrackingEvent{Location: "Jaipur", Status: domain.ShipmentInTransit, Timestamp: time.Date(2026, 10, 15, 11, 0, 0, 0, time.UTC)})
	extended.CurrentLocation = "Jaipur"
	require.NoError(t, s.Put(extended))

	got, _ = s.Get("SHP-1")
	assert.Len(t, got.TrackingHistory, 3)
}

func TestShipmentUpdateStatusDefaultsLocation(t *testing.T) {
	s := NewShipmentStore(nil)
	require.NoError(t, s.Add(shipment("SHP-1", "TRK-1")))

	got, err := s.UpdateStatus("SHP-1", domain.ShipmentInTransit, "")
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", got.CurrentLocation)
	assert.Equal(t, domain.ShipmentInTransit, got.Status)

	got, err = s.UpdateStatus("SHP-1", domain.ShipmentDelayed, "")
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", got.CurrentLocation)
	assert.Len(t, got.TrackingHistory, 2)
}

func TestShipmentRejectsInconsistentRecords(t *testing.T) {
	s := NewShipmentStore(nil)

	bad := shipment("SHP-1", "TRK-1")
	bad.TrackingHistory = []domain.TrackingEvent{{Location: "Pune", Status: domain.ShipmentInTransit}}
	bad.CurrentLocation = "Nagpur"
	require.ErrorIs(t, s.Add(bad), ErrInvalidRecord)

	require.NoError(t, s.Add(shipment("SHP-2", "TRK-2")))
	require.ErrorIs(t, s.Add(shipment("SHP-3", "trk-2")), ErrDuplicateTrackingNumber)

	_, err := s.AddTrackingUpdate("SHP-2", domain.TrackingEvent{Location: " "})
	require.ErrorIs(t, err, ErrInvalidRecord)

	got, _ := s.Get("SHP-2")
	assert.Empty(t, got.TrackingHistory)
}

func TestShipmentSelectors(t *testing.T) {
	s := NewShipmentStore(nil)
	require.NoError(t, s.SetAll([]domain.Shipment{
		shipment("SHP-1", "TRK-AAA"),
		shipment("SHP-2", "TRK-BBB"),
	}))
	_, err := s.UpdateStatus("SHP-2", domain.ShipmentDelayed, "Indore")
	require.NoError(t, err)

	got, ok := s.ByTrackingNumber("trk-bbb")
	require.True(t, ok)
	assert.Equal(t, "SHP-2", got.ID)

	assert.Equal(t, []string{"SHP-2"}, ids(s.ByStatus(domain.ShipmentDelayed)))
	assert.Len(t, s.Search("delhi"), 2)
	assert.Equal(t, []string{"SHP-1"}, ids(s.Search("aaa")))
}
