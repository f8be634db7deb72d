package store

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fleet-client/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockInOut(t *testing.T) {
	now := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	s := NewAttendanceStore(func() time.Time { return now })

	in, err := s.ClockIn(domain.ClockRequest{EmployeeID: "E1", Location: "Depot"})
	require.NoError(t, err)
	assert.True(t, in.Open())
	assert.Equal(t, now, in.ClockIn)

	_, err = s.ClockIn(domain.ClockRequest{EmployeeID: "E1"})
	require.ErrorIs(t, err, ErrAlreadyClockedIn)

	now = now.Add(8 * time.Hour)
	out, err := s.ClockOut(domain.ClockRequest{EmployeeID: "E1"})
	require.NoError(t, err)
	require.NotNil(t, out.ClockOut)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, now, *out.ClockOut)

	_, err = s.ClockOut(domain.ClockRequest{EmployeeID: "E1"})
	require.ErrorIs(t, err, ErrNotClockedIn)

	_, err = s.ClockIn(domain.ClockRequest{EmployeeID: " "})
	require.ErrorIs(t, err, ErrInvalidRecord)

	assert.Len(t, s.History("E1"), 1)
	assert.Empty(t, s.History("E2"))
}

func TestClockOutBeforeClockInRejected(t *testing.T) {
	s := NewAttendanceStore(nil)
	at := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	_, err := s.ClockIn(domain.ClockRequest{EmployeeID: "E1", Timestamp: at})
	require.NoError(t, err)

	_, err = s.ClockOut(domain.ClockRequest{EmployeeID: "E1", Timestamp: at.Add(-time.Hour)})
	require.ErrorIs(t, err, ErrInvalidRecord)
}

func TestConcurrentClockInOpensOneRecord(t *testing.T) {
	s := NewAttendanceStore(nil)

	const workers = 32
	var ok, rejected atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := s.ClockIn(domain.ClockRequest{EmployeeID: "E1"})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrAlreadyClockedIn):
				rejected.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(workers-1), rejected.Load())
	assert.Len(t, s.History("E1"), 1)

	wg.Add(workers)
	var closed atomic.Int32
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := s.ClockOut(domain.ClockRequest{EmployeeID: "E1"}); err == nil {
				closed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), closed.Load())
}
