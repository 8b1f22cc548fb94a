package timeutil

import (
	"sync"
	"time"
	_ "time/tzdata"
)

// DefaultZone is the business timezone used when none is configured
const DefaultZone = "Asia/Muscat"

var (
	mu       sync.RWMutex
	location = loadOrFixed(DefaultZone)
	clock    = time.Now
)

func loadOrFixed(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Fallback: Gulf Standard Time if tzdata is not available
		return time.FixedZone("GST", 4*60*60)
	}
	return loc
}

// SetLocation switches the business timezone
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	mu.Lock()
	location = loc
	mu.Unlock()
	return nil
}

// Location returns the business timezone
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return location
}

// SetClock replaces the wall clock, returning a func that restores it.
// Used by tests that need a fixed "today".
func SetClock(now func() time.Time) (restore func()) {
	mu.Lock()
	prev := clock
	clock = now
	mu.Unlock()
	return func() {
		mu.Lock()
		clock = prev
		mu.Unlock()
	}
}

// Now returns the current time in the business timezone
func Now() time.Time {
	mu.RLock()
	now := clock
	mu.RUnlock()
	return now().In(Location())
}

// Today returns the start of the current business day
func Today() time.Time {
	return StartOfDay(Now())
}

// ParseInBusiness parses a time string in the business timezone
func ParseInBusiness(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, Location())
}

// StartOfDay returns midnight of t's calendar day in the business timezone
func StartOfDay(t time.Time) time.Time {
	b := t.In(Location())
	return time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, Location())
}

// DaysBetween returns the number of calendar days from a to b, counting
// dates only. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006"
)
