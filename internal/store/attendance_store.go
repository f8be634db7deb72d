package store

import (
	"errors"
	"fmt"
	"strings"

	"fleet-client/internal/domain"

	"github.com/google/uuid"
)

// AttendanceStore tracks shifts. An employee has at most one open record.
type AttendanceStore struct {
	*Store[domain.AttendanceRecord]
	clock Clock
}

func NewAttendanceStore(clock Clock) *AttendanceStore {
	return &AttendanceStore{
		Store: New(WithCheck(func(a domain.AttendanceRecord) error {
			if a.ClockOut != nil && a.ClockOut.Before(a.ClockIn) {
				return fmt.Errorf("clock out %s before clock in %s", a.ClockOut, a.ClockIn)
			}
			return nil
		})),
		clock: clock,
	}
}

func (s *AttendanceStore) open(employeeID string) (domain.AttendanceRecord, bool) {
	return s.Find(func(a domain.AttendanceRecord) bool {
		return a.EmployeeID == employeeID && a.Open()
	})
}

func (s *AttendanceStore) ClockIn(req domain.ClockRequest) (domain.AttendanceRecord, error) {
	emp := strings.TrimSpace(req.EmployeeID)
	if emp == "" {
		return domain.AttendanceRecord{}, fmt.Errorf("clock in: %w: employee id required", ErrInvalidRecord)
	}
	at := req.Timestamp
	if at.IsZero() {
		at = s.clock.now()
	}
	rec := domain.AttendanceRecord{
		ID:         "ATT-" + strings.ToUpper(uuid.NewString()[:8]),
		EmployeeID: emp,
		ClockIn:    at,
		Location:   req.Location,
	}
	err := s.AddUnless(rec, func(a domain.AttendanceRecord) bool {
		return a.EmployeeID == emp && a.Open()
	}, fmt.Errorf("clock in: %w: %s", ErrAlreadyClockedIn, emp))
	if err != nil {
		if errors.Is(err, ErrAlreadyClockedIn) {
			return domain.AttendanceRecord{}, err
		}
		return domain.AttendanceRecord{}, fmt.Errorf("clock in: %w", err)
	}
	return rec, nil
}

func (s *AttendanceStore) ClockOut(req domain.ClockRequest) (domain.AttendanceRecord, error) {
	emp := strings.TrimSpace(req.EmployeeID)
	cur, ok := s.open(emp)
	if !ok {
		return domain.AttendanceRecord{}, fmt.Errorf("clock out: %w: %s", ErrNotClockedIn, emp)
	}

	at := req.Timestamp
	if at.IsZero() {
		at = s.clock.now()
	}

	var updated domain.AttendanceRecord
	err := s.Mutate(cur.ID, func(a *domain.AttendanceRecord) error {
		if !a.Open() {
			return fmt.Errorf("%w: %s", ErrNotClockedIn, emp)
		}
		a.ClockOut = &at
		updated = *a
		return nil
	})
	if err != nil {
		return domain.AttendanceRecord{}, fmt.Errorf("clock out: %w", err)
	}
	return updated.Clone(), nil
}

func (s *AttendanceStore) History(employeeID string) []domain.AttendanceRecord {
	return s.Filter(func(a domain.AttendanceRecord) bool { return a.EmployeeID == employeeID })
}
