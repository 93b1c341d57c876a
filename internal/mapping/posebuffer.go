package mapping

import (
	"sort"
	"sync"
	"time"
)

// DefaultPoseTolerance is how far a frame timestamp may sit from the
// nearest buffered pose and still resolve.
const DefaultPoseTolerance = 50 * time.Millisecond

// DefaultPoseCapacity bounds the buffer; the oldest entries are evicted
// first.
const DefaultPoseCapacity = 512

type poseEntry struct {
	stamp time.Time
	pose  Pose
}

// PoseBuffer is a PoseSource backed by a time-ordered window of sensor
// poses, typically fed from an external odometry stream. A lookup
// resolves to the nearest buffered pose once the stream has advanced
// past the query timestamp; until then the frame stays queued, which
// gives the synchronizer its wait-for-pose behaviour.
type PoseBuffer struct {
	mu          sync.Mutex
	sensorFrame string
	worldFrame  string
	tolerance   time.Duration
	capacity    int
	entries     []poseEntry // ascending by stamp
}

// NewPoseBuffer creates a buffer for poses of sensorFrame relative to
// worldFrame.
func NewPoseBuffer(sensorFrame, worldFrame string) *PoseBuffer {
	return &PoseBuffer{
		sensorFrame: sensorFrame,
		worldFrame:  worldFrame,
		tolerance:   DefaultPoseTolerance,
		capacity:    DefaultPoseCapacity,
	}
}

// SetTolerance overrides the match tolerance.
func (b *PoseBuffer) SetTolerance(d time.Duration) {
	b.mu.Lock()
	b.tolerance = d
	b.mu.Unlock()
}

// Insert adds one timestamped pose. Out-of-order inserts are sorted in;
// the oldest entries are evicted past capacity.
func (b *PoseBuffer) Insert(stamp time.Time, pose Pose) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := sort.Search(len(b.entries), func(i int) bool {
		return b.entries[i].stamp.After(stamp)
	})
	b.entries = append(b.entries, poseEntry{})
	copy(b.entries[i+1:], b.entries[i:])
	b.entries[i] = poseEntry{stamp: stamp, pose: pose}

	if len(b.entries) > b.capacity {
		n := len(b.entries) - b.capacity
		b.entries = append(b.entries[:0], b.entries[n:]...)
	}
}

// Len returns the number of buffered poses.
func (b *PoseBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Lookup resolves the pose of sourceFrame in targetFrame at stamp. It
// fails when the frames don't match the buffer, when the pose stream
// has not yet reached stamp, or when the nearest pose is further than
// the tolerance.
func (b *PoseBuffer) Lookup(sourceFrame, targetFrame string, stamp time.Time) (Pose, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sourceFrame != b.sensorFrame || targetFrame != b.worldFrame {
		return Pose{}, false
	}
	if len(b.entries) == 0 {
		return Pose{}, false
	}
	// The stream must have caught up with the query; otherwise a better
	// pose may still arrive and the frame should wait.
	if b.entries[len(b.entries)-1].stamp.Before(stamp) {
		return Pose{}, false
	}

	i := sort.Search(len(b.entries), func(i int) bool {
		return !b.entries[i].stamp.Before(stamp)
	})
	best := b.entries[i]
	if i > 0 {
		prev := b.entries[i-1]
		if stamp.Sub(prev.stamp) < best.stamp.Sub(stamp) {
			best = prev
		}
	}

	dt := best.stamp.Sub(stamp)
	if dt < 0 {
		dt = -dt
	}
	if dt > b.tolerance {
		return Pose{}, false
	}

	pose := best.pose
	pose.FromFrame = sourceFrame
	pose.ToFrame = targetFrame
	return pose, true
}

var _ PoseSource = (*PoseBuffer)(nil)
