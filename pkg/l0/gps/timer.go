package gps

import "time"

// HardwareTimer is the one-shot timer contract of the board.
type HardwareTimer interface {
	// Arm (re)starts the timer.
	Arm(milliseconds uint32)
	// IsExpired reports whether the armed period has elapsed.
	// An expired timer stays expired until armed again.
	IsExpired() bool
}

// ClockTimer implements HardwareTimer on a clock.
type ClockTimer struct {
	Now func() time.Time

	deadline time.Time
	armed    bool
}

// NewClockTimer creates a ClockTimer on the wall clock.
func NewClockTimer() *ClockTimer {
	return &ClockTimer{Now: time.Now}
}

// Arm implements HardwareTimer.
func (t *ClockTimer) Arm(milliseconds uint32) {
	t.deadline = t.now().Add(time.Duration(milliseconds) * time.Millisecond)
	t.armed = true
}

// IsExpired implements HardwareTimer.
func (t *ClockTimer) IsExpired() bool {
	return t.armed && !t.now().Before(t.deadline)
}

func (t *ClockTimer) now() time.Time {
	if t.Now == nil {
		return time.Now()
	}
	return t.Now()
}
