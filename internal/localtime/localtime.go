// Package localtime does calendar arithmetic against a fixed UTC offset.
// The host time zone is never consulted.
package localtime

import (
	"fmt"
	"time"
)

// Band is a time-of-day bucket.
type Band int

const (
	BandLate Band = iota
	BandEarly
	BandMidday
	BandAfterHours
)

const (
	earlyStart      = 5 * 60
	middayStart     = 11 * 60
	afterHoursStart = 16 * 60
	lateStart       = 21 * 60

	// MinutesPerDay is the number of minutes in a calendar day.
	MinutesPerDay = 24 * 60
)

func (b Band) String() string {
	switch b {
	case BandEarly:
		return "early"
	case BandMidday:
		return "midday"
	case BandAfterHours:
		return "after-hours"
	default:
		return "late"
	}
}

// BandOf maps a minute of the day (0..1439) to its band. Each band includes
// its start minute and excludes its end minute.
func BandOf(minute int) Band {
	switch {
	case minute >= earlyStart && minute < middayStart:
		return BandEarly
	case minute >= middayStart && minute < afterHoursStart:
		return BandMidday
	case minute >= afterHoursStart && minute < lateStart:
		return BandAfterHours
	default:
		return BandLate
	}
}

// Clock converts UTC instants into wall time at a fixed offset.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New creates a clock for the given offset in minutes east of UTC.
func New(offsetMinutes int) *Clock {
	return &Clock{
		loc: time.FixedZone(zoneName(offsetMinutes), offsetMinutes*60),
		now: time.Now,
	}
}

// WithClock overrides the time source (for testing).
func (c *Clock) WithClock(now func() time.Time) *Clock {
	if now != nil {
		c.now = now
	}
	return c
}

// Location returns the fixed zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in UTC.
func (c *Clock) Now() time.Time {
	return c.now().UTC()
}

// Local returns t as wall time at the configured offset.
func (c *Clock) Local(t time.Time) time.Time {
	return t.In(c.loc)
}

// MinuteOfDay returns the minutes since local midnight for t.
func (c *Clock) MinuteOfDay(t time.Time) int {
	l := c.Local(t)
	return l.Hour()*60 + l.Minute()
}

// CurrentBand returns the band of the current local time.
func (c *Clock) CurrentBand() Band {
	return BandOf(c.MinuteOfDay(c.Now()))
}

// Today returns the current local date as YYYY-MM-DD.
func (c *Clock) Today() string {
	return c.Local(c.Now()).Format(time.DateOnly)
}

// DayLabel renders t relative to the current local day: "Today",
// "Yesterday", or YYYY/MM/DD.
func (c *Clock) DayLabel(t time.Time) string {
	day := c.midnight(t)
	today := c.midnight(c.Now())

	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return day.Format("2006/01/02")
	}
}

func (c *Clock) midnight(t time.Time) time.Time {
	l := c.Local(t)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, c.loc)
}

func zoneName(offsetMinutes int) string {
	sign := '+'
	if offsetMinutes < 0 {
		sign = '-'
		offsetMinutes = -offsetMinutes
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offsetMinutes/60, offsetMinutes%60)
}
