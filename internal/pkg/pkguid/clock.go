package pkguid

import (
	"errors"
	"time"
)

// Tick is the generator's unit of time: 100 nanosecond intervals.
//
// UUIDv1 needs this resolution by definition (RFC 4122 counts 100 ns
// intervals since the gregorian epoch); the short shapes derive their
// coarser timestamps from the same unit so all shapes share one clock.
const (
	// gregorianOffset is the number of 100 ns ticks between the
	// gregorian reform (1582-10-15) and the Unix epoch (1970-01-01).
	gregorianOffset uint64 = 0x01B21DD213814000

	// coarseShift converts a 100 ns tick into the coarse tick used by
	// the 96 and 64 bit shapes: one coarse tick is 819.2 microseconds.
	coarseShift = 13
)

var (
	// ErrClock indicates the time source could not be read, moved
	// before the Unix epoch, or produced a tick outside the range a
	// shape's time field can represent.
	ErrClock = errors.New("pkguid: time source unavailable or out of range")

	// ErrInvalidEpoch indicates a caller-supplied epoch offset that
	// rebases the current time to a negative value or past the end of
	// the shape's time field.
	ErrInvalidEpoch = errors.New("pkguid: epoch offset rebases time out of range")

	// ErrCounterExhausted indicates the same-tick disambiguation
	// counter saturated before the clock advanced.
	ErrCounterExhausted = errors.New("pkguid: sequence exhausted within one tick")
)

// Clock supplies time to a Generator as 100 ns ticks since the Unix
// epoch. Implementations other than SystemClock exist so tests can
// drive the generator with deterministic ticks.
type Clock interface {
	Ticks() (int64, error)
}

// SystemClock reads the host wall clock.
type SystemClock struct{}

// Ticks returns the current time in 100 ns ticks since the Unix epoch.
func (SystemClock) Ticks() (int64, error) {
	now := time.Now().UnixNano()
	if now < 0 {
		return 0, ErrClock
	}
	return now / 100, nil
}
