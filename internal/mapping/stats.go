package mapping

import (
	"fmt"
	"sync"
	"time"

	"github.com/meridian-robotics/voxmap/internal/monitoring"
)

// FrameStats tracks ingestion and pipeline counters with thread-safe operations.
type FrameStats struct {
	mu         sync.Mutex
	accepted   int64 // frames past the throttle, enqueued
	throttled  int64 // frames rejected by the throttle
	delivered  int64 // frames drained with a resolved pose
	evicted    int64 // frames dropped by queue overflow
	integrated int64 // frames handed to the fusion engine
	published  int64 // submaps published to peers
	received   int64 // submaps merged from peers
	malformed  int64 // inbound messages dropped as undecodable
	lastReset  time.Time
}

// NewFrameStats creates a new FrameStats instance.
func NewFrameStats() *FrameStats {
	return &FrameStats{lastReset: time.Now()}
}

// AddAccepted increments the accepted frame count.
func (fs *FrameStats) AddAccepted() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.accepted++
}

// AddThrottled increments the throttled frame count.
func (fs *FrameStats) AddThrottled() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.throttled++
}

// AddDelivered increments the delivered frame count.
func (fs *FrameStats) AddDelivered() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.delivered++
}

// AddEvicted adds n to the evicted frame count.
func (fs *FrameStats) AddEvicted(n int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.evicted += int64(n)
}

// AddIntegrated increments the integrated frame count.
func (fs *FrameStats) AddIntegrated() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.integrated++
}

// AddPublished increments the published submap count.
func (fs *FrameStats) AddPublished() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.published++
}

// AddReceived increments the received submap count.
func (fs *FrameStats) AddReceived() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.received++
}

// AddMalformed increments the malformed message count.
func (fs *FrameStats) AddMalformed() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.malformed++
}

// Snapshot holds one interval's counters.
type Snapshot struct {
	Accepted   int64
	Throttled  int64
	Delivered  int64
	Evicted    int64
	Integrated int64
	Published  int64
	Received   int64
	Malformed  int64
	Duration   time.Duration
}

// GetAndReset returns current stats and resets counters.
func (fs *FrameStats) GetAndReset() Snapshot {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	now := time.Now()
	snap := Snapshot{
		Accepted:   fs.accepted,
		Throttled:  fs.throttled,
		Delivered:  fs.delivered,
		Evicted:    fs.evicted,
		Integrated: fs.integrated,
		Published:  fs.published,
		Received:   fs.received,
		Malformed:  fs.malformed,
		Duration:   now.Sub(fs.lastReset),
	}

	fs.accepted = 0
	fs.throttled = 0
	fs.delivered = 0
	fs.evicted = 0
	fs.integrated = 0
	fs.published = 0
	fs.received = 0
	fs.malformed = 0
	fs.lastReset = now

	return snap
}

// LogStats logs formatted statistics for the last interval and resets.
func (fs *FrameStats) LogStats() {
	snap := fs.GetAndReset()
	if snap.Accepted == 0 && snap.Throttled == 0 && snap.Received == 0 {
		return
	}

	secs := snap.Duration.Seconds()
	if secs <= 0 {
		secs = 1
	}
	logMsg := fmt.Sprintf("Mapping stats (/sec): %.1f frames in, %.1f integrated",
		float64(snap.Accepted)/secs, float64(snap.Integrated)/secs)
	if snap.Throttled > 0 {
		logMsg += fmt.Sprintf(", %d throttled", snap.Throttled)
	}
	if snap.Evicted > 0 {
		logMsg += fmt.Sprintf(", %d evicted", snap.Evicted)
	}
	if snap.Published > 0 || snap.Received > 0 {
		logMsg += fmt.Sprintf(", submaps %d sent / %d received", snap.Published, snap.Received)
	}
	if snap.Malformed > 0 {
		logMsg += fmt.Sprintf(", %d malformed dropped", snap.Malformed)
	}

	monitoring.Logf("%s", logMsg)
}
