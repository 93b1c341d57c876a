// Package timing provides scoped wall-clock timers for pipeline stages and
// the per-run timing log files.
package timing

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Ledger aggregates named stage timings for the lifetime of the process.
type Ledger struct {
	mu     sync.Mutex
	stages map[string]*stageStats
}

type stageStats struct {
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{stages: make(map[string]*stageStats)}
}

// Timer is a running scoped timer. Stop records the elapsed duration
// against the ledger under the timer's stage name.
type Timer struct {
	ledger *Ledger
	name   string
	start  time.Time
	done   bool
}

// Start begins a scoped timer for the named stage.
func (l *Ledger) Start(name string) *Timer {
	return &Timer{ledger: l, name: name, start: time.Now()}
}

// Stop records the elapsed time. Stopping twice records only once.
func (t *Timer) Stop() time.Duration {
	if t == nil || t.done {
		return 0
	}
	t.done = true
	d := time.Since(t.start)
	t.ledger.Record(t.name, d)
	return d
}

// Record adds one observation for the named stage.
func (l *Ledger) Record(name string, d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.stages[name]
	if !ok {
		s = &stageStats{min: d, max: d}
		l.stages[name] = s
	}
	s.count++
	s.total += d
	if d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
}

// Count returns the number of observations recorded for a stage.
func (l *Ledger) Count(name string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.stages[name]; ok {
		return s.count
	}
	return 0
}

// Print formats the ledger as one line per stage, sorted by name:
// name: count, total, mean, min, max.
func (l *Ledger) Print() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make([]string, 0, len(l.stages))
	for name := range l.stages {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Stage timings\n")
	for _, name := range names {
		s := l.stages[name]
		mean := time.Duration(int64(s.total) / s.count)
		fmt.Fprintf(&b, "  %-28s %6d calls, total %12v, mean %10v, min %10v, max %10v\n",
			name, s.count, s.total, mean, s.min, s.max)
	}
	return b.String()
}

// Reset clears all recorded stages.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stages = make(map[string]*stageStats)
}
