package clock

import "time"

// Clock abstracts time.Now so room expiry can be tested with a fake.
type Clock interface {
	Now() time.Time
}

// Real implements Clock using the system clock.
type Real struct{}

// New returns a system-clock backed Clock.
func New() Real {
	return Real{}
}

// Now returns the current time.
func (Real) Now() time.Time {
	return time.Now()
}
