package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// DateLayout is the wire format for Date.
const DateLayout = "2006-01-02"

// Date is a calendar date stored in a SQL DATE column.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date.
func NewDate(t time.Time) *Date {
	y, m, d := t.Date()
	return &Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (*Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &Date{Time: t}, nil
}

// Scan implements the Scanner interface
func (d *Date) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	t, ok := value.(time.Time)
	if !ok {
		return errors.New("failed to scan Date")
	}
	d.Time = t
	return nil
}

// Value implements the Valuer interface
func (d *Date) Value() (driver.Value, error) {
	if d == nil || d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// String returns the date as YYYY-MM-DD, or "" for the zero date.
func (d *Date) String() string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler
func (d *Date) MarshalJSON() ([]byte, error) {
	if d == nil || d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == "null" || str == `""` {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	// Accept full timestamps as well as plain dates
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = NewDate(t).Time
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
