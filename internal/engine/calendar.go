package engine

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar date in the engine's location, formatted YYYY-MM-DD.
// The zero value means "never".
type Day string

func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	return Day(t.In(loc).Format(dayLayout))
}

func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(dayLayout, s); err != nil {
		return "", fmt.Errorf("invalid day: %q", s)
	}
	return Day(s), nil
}

func (d Day) IsZero() bool { return d == "" }

func (d Day) date() (time.Time, bool) {
	t, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AddDays returns the day n calendar days after d.
func (d Day) AddDays(n int) Day {
	t, ok := d.date()
	if !ok {
		return d
	}
	return Day(t.AddDate(0, 0, n).Format(dayLayout))
}

// DaysUntil returns the number of calendar days from d to other
// (negative when other is earlier). Unparseable days yield 0.
func (d Day) DaysUntil(other Day) int {
	a, ok := d.date()
	if !ok {
		return 0
	}
	b, ok := other.date()
	if !ok {
		return 0
	}
	// Both are UTC midnights, so the division is exact.
	return int(b.Sub(a).Hours() / 24)
}

// Start returns midnight of d in loc.
func (d Day) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dayLayout, string(d), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Day) Before(other Day) bool { return d < other }
func (d Day) After(other Day) bool  { return d > other }

// Clock supplies "now" to the host. The engine itself only ever receives
// times as arguments.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock returns a settable instant; tests advance it to simulate day
// rollovers and boost expiry.
type FixedClock struct {
	t time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time { return c.t }

func (c *FixedClock) Set(t time.Time) { c.t = t }

func (c *FixedClock) Advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}
