package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date is a calendar day. It is sent on the wire as "2006-01-02"; full
// RFC 3339 timestamps are accepted on decode and truncated to their day.
type Date struct {
	time.Time
}

// DateOf returns the calendar day of t in t's location, as a UTC midnight.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string { return d.Format(time.DateOnly) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.DateOnly))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		*d = DateOf(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	*d = DateOf(t)
	return nil
}
