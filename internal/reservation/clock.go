package reservation

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	SlotLayout = "15:04"
)

// Clock supplies the current instant. Occupancy and sweep decisions always use the
// server clock, never a client supplied time.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// Calendar pairs a Clock with the fixed civil timezone the business works in.
type Calendar struct {
	clock Clock
	loc   *time.Location
}

func NewCalendar(clock Clock, loc *time.Location) *Calendar {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{clock: clock, loc: loc}
}

// LoadCalendar resolves an IANA zone name such as "America/Sao_Paulo".
func LoadCalendar(clock Clock, zone string) (*Calendar, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", zone, err)
	}
	return NewCalendar(clock, loc), nil
}

func (c *Calendar) Now() time.Time { return c.clock.Now() }

func (c *Calendar) Location() *time.Location { return c.loc }

// Today returns the current local civil date as UTC midnight.
func (c *Calendar) Today() time.Time {
	y, m, d := c.clock.Now().In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SlotInstant interprets (date, slot) in the local timezone.
func (c *Calendar) SlotInstant(date time.Time, slot string) (time.Time, error) {
	offset, err := ParseSlot(slot)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc).Add(offset), nil
}

// ParseDate parses an ISO calendar date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// ParseSlot returns the offset from midnight of an "HH:MM" slot value.
func ParseSlot(s string) (time.Duration, error) {
	t, err := time.Parse(SlotLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid slot %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// CanonicalSlot normalizes a slot value to zero padded "HH:MM".
func CanonicalSlot(s string) (string, error) {
	offset, err := ParseSlot(s)
	if err != nil {
		return "", err
	}
	return formatOffset(offset), nil
}
