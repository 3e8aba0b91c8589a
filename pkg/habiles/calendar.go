// Package habiles implements business-day (día hábil) arithmetic over a
// Gregorian calendar with a configurable holiday set and weekend definition.
// All computations are pure; holiday maintenance lives elsewhere.
package habiles

import "time"

// Calendar computes business days for a given holiday set.
type Calendar struct {
	holidays map[string]struct{}
	weekend  map[time.Weekday]struct{}
}

// Option customises a Calendar.
type Option func(*Calendar)

// WithWeekend overrides the default Saturday/Sunday weekend.
func WithWeekend(days ...time.Weekday) Option {
	return func(c *Calendar) {
		c.weekend = make(map[time.Weekday]struct{}, len(days))
		for _, d := range days {
			c.weekend[d] = struct{}{}
		}
	}
}

// New builds a Calendar from the supplied non-business dates.
func New(holidays []time.Time, opts ...Option) *Calendar {
	c := &Calendar{
		holidays: make(map[string]struct{}, len(holidays)),
		weekend: map[time.Weekday]struct{}{
			time.Saturday: {},
			time.Sunday:   {},
		},
	}
	for _, h := range holidays {
		c.holidays[dateKey(h)] = struct{}{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsHabil reports whether the date is a business day.
func (c *Calendar) IsHabil(date time.Time) bool {
	if _, ok := c.weekend[date.Weekday()]; ok {
		return false
	}
	_, holiday := c.holidays[dateKey(date)]
	return !holiday
}

// AddHabiles returns the date n business days after start. The start day
// itself does not count; counting begins at the next calendar day, matching
// how statutory plazos run (Art. 89 CPC).
func (c *Calendar) AddHabiles(start time.Time, n int) time.Time {
	date := truncate(start)
	for remaining := n; remaining > 0; {
		date = date.AddDate(0, 0, 1)
		if c.IsHabil(date) {
			remaining--
		}
	}
	return date
}

// SiguienteHabil returns date itself when it is a business day, otherwise
// the next business day after it.
func (c *Calendar) SiguienteHabil(date time.Time) time.Time {
	d := truncate(date)
	for !c.IsHabil(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// HabilesHasta counts the business days from `from` (exclusive) up to `until`
// (inclusive). The count is negative when `until` is already in the past, so
// callers can treat the sign as an overdue indicator.
func (c *Calendar) HabilesHasta(from, until time.Time) int {
	a := truncate(from)
	b := truncate(until)
	if a.Equal(b) {
		return 0
	}
	sign := 1
	if b.Before(a) {
		a, b = b, a
		sign = -1
	}
	count := 0
	for d := a.AddDate(0, 0, 1); !d.After(b); d = d.AddDate(0, 0, 1) {
		if c.IsHabil(d) {
			count++
		}
	}
	return sign * count
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
