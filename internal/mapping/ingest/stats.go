package ingest

import (
	"sync"
	"time"

	"github.com/meridian-robotics/voxmap/internal/monitoring"
)

// PacketStats tracks UDP ingest statistics.
type PacketStats struct {
	mu            sync.Mutex
	packets       int64
	bytes         int64
	points        int64
	malformed     int64
	framesEmitted int64
	framesDropped int64
	lastReset     time.Time
}

// NewPacketStats creates a new statistics tracker.
func NewPacketStats() *PacketStats {
	return &PacketStats{lastReset: time.Now()}
}

// AddPacket records a received packet.
func (ps *PacketStats) AddPacket(bytes int) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.packets++
	ps.bytes += int64(bytes)
}

// AddPoints records parsed points.
func (ps *PacketStats) AddPoints(count int) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.points += int64(count)
}

// AddMalformed records a packet that failed to parse.
func (ps *PacketStats) AddMalformed() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.malformed++
}

// AddFrameEmitted records a fully assembled frame.
func (ps *PacketStats) AddFrameEmitted() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.framesEmitted++
}

// AddFrameDropped records an incomplete frame superseded by a newer one.
func (ps *PacketStats) AddFrameDropped() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.framesDropped++
}

// LogStats logs formatted statistics for the last interval and resets.
func (ps *PacketStats) LogStats() {
	ps.mu.Lock()
	packets := ps.packets
	bytes := ps.bytes
	points := ps.points
	malformed := ps.malformed
	emitted := ps.framesEmitted
	dropped := ps.framesDropped
	elapsed := time.Since(ps.lastReset)

	ps.packets = 0
	ps.bytes = 0
	ps.points = 0
	ps.malformed = 0
	ps.framesEmitted = 0
	ps.framesDropped = 0
	ps.lastReset = time.Now()
	ps.mu.Unlock()

	seconds := elapsed.Seconds()
	if seconds <= 0 {
		seconds = 1
	}
	monitoring.Logf("[Ingest] Stats: packets=%d (%.1f/s) bytes=%d points=%d malformed=%d frames=%d dropped_frames=%d",
		packets, float64(packets)/seconds, bytes, points, malformed, emitted, dropped)
}
