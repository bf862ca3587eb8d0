package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// DateLayout is the ISO date format of the date field.
const DateLayout = "2006-01-02"

// clock is a package-level time source so tests can freeze time via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock.
func Now() time.Time {
	return clock.Now()
}

// Today returns the current UTC date formatted for the date field.
func Today() string {
	return clock.Now().UTC().Format(DateLayout)
}
