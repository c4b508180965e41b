// Package clock abstracts delayed calls so timing-dependent components can
// be driven by a fake clock in tests.
package clock

import "time"

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs functions after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Real returns a Scheduler backed by the time package.
func Real() Scheduler {
	return wallClock{}
}
