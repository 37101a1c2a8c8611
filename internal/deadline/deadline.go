package deadline

import "time"

// Deadline allows for a run to stop when it takes too long. A nil or
// zero Deadline is never reached.
type Deadline struct {
	unixNano int64
	hit      bool
}

// New returns a new deadline object
func New(deadline time.Time) *Deadline {
	if deadline.IsZero() {
		return &Deadline{}
	}
	return &Deadline{unixNano: deadline.UnixNano()}
}

// After returns a deadline d from now. Zero or less never expires.
func After(d time.Duration) *Deadline {
	if d <= 0 {
		return &Deadline{}
	}
	return New(time.Now().Add(d))
}

// Reached checks the deadline. Once reached it stays reached.
func (deadline *Deadline) Reached() bool {
	if deadline == nil || deadline.unixNano == 0 {
		return false
	}
	if !deadline.hit && time.Now().UnixNano() > deadline.unixNano {
		deadline.hit = true
	}
	return deadline.hit
}

// Time returns the deadline, or the zero time when there is none.
func (deadline *Deadline) Time() time.Time {
	if deadline == nil || deadline.unixNano == 0 {
		return time.Time{}
	}
	return time.Unix(0, deadline.unixNano)
}
