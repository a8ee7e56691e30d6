// Package clock provides the timestamp source for stored account state.
//
// The deployed system records timestamps at a fixed offset from UTC
// (historically +5h30m). The offset is configuration, not policy: set it to
// zero to store plain UTC.
package clock

import "time"

// Clock yields the current time for persisted timestamps.
type Clock struct {
	offset time.Duration
	now    func() time.Time
}

// New returns a Clock that applies offset to the platform UTC clock.
func New(offset time.Duration) *Clock {
	return &Clock{offset: offset, now: time.Now}
}

// NewFixed returns a Clock frozen at t. Intended for tests.
func NewFixed(t time.Time) *Clock {
	return &Clock{now: func() time.Time { return t }}
}

// Now returns the current UTC time shifted by the configured offset.
func (c *Clock) Now() time.Time {
	return c.now().UTC().Add(c.offset)
}
