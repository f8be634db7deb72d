package store

import "errors"

// Invariant violations reported by store operations. Match with errors.Is.
var (
	ErrNotFound                = errors.New("record not found")
	ErrDuplicateID             = errors.New("duplicate id")
	ErrDuplicateTrackingNumber = errors.New("duplicate tracking number")
	ErrDuplicateSKU            = errors.New("duplicate sku")
	ErrInvalidRecord           = errors.New("invalid record")
	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrFuelOutOfRange          = errors.New("fuel level out of range")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrAlreadyClockedIn        = errors.New("employee already clocked in")
	ErrNotClockedIn            = errors.New("employee not clocked in")
)
