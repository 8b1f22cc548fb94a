package models

import (
	"bytes"
	"encoding/json"
	"time"

	"scaffold-backend/internal/timeutil"
)

// Date is a calendar date that travels as "2006-01-02" on the wire.
// Full RFC 3339 timestamps are accepted too.
type Date struct {
	time.Time
}

// NewDate wraps t as a Date
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(timeutil.DateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := timeutil.ParseInBusiness(timeutil.DateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	d.Time = t
	return nil
}
