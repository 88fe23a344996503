package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateOnly carries a calendar date with no time-of-day component, encoded
// as ISO-8601 YYYY-MM-DD on the wire.
type DateOnly struct {
	time.Time
}

// NewDateOnly truncates t to its calendar date in UTC.
func NewDateOnly(t time.Time) DateOnly {
	y, m, d := t.Date()
	return DateOnly{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDateOnly parses a YYYY-MM-DD string.
func ParseDateOnly(s string) (DateOnly, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return DateOnly{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOnly{t}, nil
}

// AddDays returns the date shifted by n days (n may be negative).
func (d DateOnly) AddDays(n int) DateOnly {
	return DateOnly{d.Time.AddDate(0, 0, n)}
}

// Before reports whether d precedes o.
func (d DateOnly) Before(o DateOnly) bool { return d.Time.Before(o.Time) }

// After reports whether d follows o.
func (d DateOnly) After(o DateOnly) bool { return d.Time.After(o.Time) }

// DaysUntil returns the number of days from d to o (may be negative).
func (d DateOnly) DaysUntil(o DateOnly) int {
	return int(o.Time.Sub(d.Time).Hours() / 24)
}

func (d DateOnly) String() string {
	return d.Time.Format("2006-01-02")
}

// UnmarshalJSON implements custom JSON unmarshaling for DateOnly.
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err == nil {
		d.Time = t
		return nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err == nil {
		d.Time = t
		return nil
	}
	return fmt.Errorf("invalid date format: %s", s)
}

// MarshalJSON implements custom JSON marshaling for DateOnly.
func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("\"%s\"", d.Time.Format("2006-01-02"))), nil
}

// Value implements driver.Valuer for storage by the postgres source adapter.
func (d DateOnly) Value() (driver.Value, error) {
	if d.Time.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// Scan implements sql.Scanner for retrieval by the postgres source adapter.
func (d *DateOnly) Scan(value interface{}) error {
	if value == nil {
		d.Time = time.Time{}
		return nil
	}
	if t, ok := value.(time.Time); ok {
		d.Time = t
		return nil
	}
	return fmt.Errorf("cannot scan %T into DateOnly", value)
}
