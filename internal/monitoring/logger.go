package monitoring

import (
	"log"
	"sync"
	"time"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Throttle rate-limits a repeating diagnostic to at most one emission per
// interval. Suppressed emissions are counted and reported on the next
// emitted line so bursts remain visible in the log.
type Throttle struct {
	mu         sync.Mutex
	interval   time.Duration
	lastEmit   time.Time
	suppressed int
	now        func() time.Time
}

// NewThrottle creates a Throttle with the given minimum interval between
// emissions. A zero or negative interval disables throttling.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval, now: time.Now}
}

// SetNowFunc overrides the time source. Used by tests.
func (t *Throttle) SetNowFunc(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// Logf emits via the package logger unless an emission already happened
// within the configured interval. Returns true if the line was emitted.
func (t *Throttle) Logf(format string, v ...interface{}) bool {
	t.mu.Lock()
	now := t.now()
	if t.interval > 0 && !t.lastEmit.IsZero() && now.Sub(t.lastEmit) < t.interval {
		t.suppressed++
		t.mu.Unlock()
		return false
	}
	suppressed := t.suppressed
	t.suppressed = 0
	t.lastEmit = now
	t.mu.Unlock()

	if suppressed > 0 {
		v = append(v, suppressed)
		Logf(format+" (%d similar suppressed)", v...)
	} else {
		Logf(format, v...)
	}
	return true
}
