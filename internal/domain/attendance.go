package domain

import "time"

// AttendanceRecord is one clock-in/clock-out span for an employee.
// ClockOut stays nil while the employee is on shift.
type AttendanceRecord struct {
	ID         string     `json:"id" validate:"required"`
	EmployeeID string     `json:"employeeId" validate:"required"`
	ClockIn    time.Time  `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut"`
	Location   string     `json:"location,omitempty"`
}

func (a AttendanceRecord) GetID() string { return a.ID }

func (a AttendanceRecord) Clone() AttendanceRecord {
	c := a
	if a.ClockOut != nil {
		t := *a.ClockOut
		c.ClockOut = &t
	}
	return c
}

// Open reports whether the employee has not clocked out yet.
func (a AttendanceRecord) Open() bool { return a.ClockOut == nil }

// ClockRequest is the body of clock-in and clock-out calls. A zero Timestamp means now.
type ClockRequest struct {
	EmployeeID string    `json:"employeeId"`
	Location   string    `json:"location,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
