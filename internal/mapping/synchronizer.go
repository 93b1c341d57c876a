package mapping

import (
	"sync"
	"time"

	"github.com/meridian-robotics/voxmap/internal/monitoring"
)

// Synchronizer defaults.
const (
	// DefaultQueueSize bounds the number of frames waiting for a pose.
	DefaultQueueSize = 10

	// DefaultOverflowWarnInterval rate-limits the queue overflow diagnostic.
	DefaultOverflowWarnInterval = 60 * time.Second
)

// PendingFrame is a queue element: a frame waiting for its pose. The
// resolved pose is cached once a lookup succeeds so the element can be
// popped without a second lookup.
type PendingFrame struct {
	Frame        *PointFrame
	ResolvedPose *Pose
}

// FrameSynchronizerConfig configures a FrameSynchronizer.
type FrameSynchronizerConfig struct {
	PoseSource       PoseSource    // required
	WorldFrame       string        // target frame for pose lookups (default "world")
	QueueSize        int           // max pending frames (default 10)
	MinFrameInterval time.Duration // throttle between accepted frames (default 0 = accept all)
	Stats            *FrameStats   // optional
}

// FrameSynchronizer pairs incoming point frames with asynchronously
// arriving poses. Frames enter through Enqueue subject to a timestamp
// throttle and leave through Drain in strict FIFO order once their pose
// resolves. When the front frame's pose stays unresolved and the queue
// reaches capacity, the oldest frames are evicted.
type FrameSynchronizer struct {
	mu               sync.Mutex
	queue            []PendingFrame
	lastAccepted     time.Time
	poseSource       PoseSource
	worldFrame       string
	queueSize        int
	minFrameInterval time.Duration
	stats            *FrameStats
	overflowWarn     *monitoring.Throttle
}

// NewFrameSynchronizer creates a FrameSynchronizer with the given configuration.
func NewFrameSynchronizer(config FrameSynchronizerConfig) *FrameSynchronizer {
	if config.QueueSize == 0 {
		config.QueueSize = DefaultQueueSize
	}
	if config.WorldFrame == "" {
		config.WorldFrame = "world"
	}
	return &FrameSynchronizer{
		poseSource:       config.PoseSource,
		worldFrame:       config.WorldFrame,
		queueSize:        config.QueueSize,
		minFrameInterval: config.MinFrameInterval,
		stats:            config.Stats,
		overflowWarn:     monitoring.NewThrottle(DefaultOverflowWarnInterval),
	}
}

// Enqueue accepts a frame if its timestamp exceeds the last accepted
// timestamp by more than the throttle interval, otherwise the frame is
// discarded. Returns true if the frame was queued.
func (s *FrameSynchronizer) Enqueue(frame *PointFrame) bool {
	if frame == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lastAccepted.IsZero() && frame.Timestamp.Sub(s.lastAccepted) <= s.minFrameInterval {
		if s.stats != nil {
			s.stats.AddThrottled()
		}
		return false
	}

	s.lastAccepted = frame.Timestamp
	s.queue = append(s.queue, PendingFrame{Frame: frame})
	if s.stats != nil {
		s.stats.AddAccepted()
	}

	// Keep the bound even if the caller never drains.
	if over := len(s.queue) - s.queueSize; over > 0 {
		s.evictLocked(over)
	}
	return true
}

// Drain attempts to resolve poses for queued frames in FIFO order, calling
// yield for each frame whose pose is available. It stops at the first frame
// whose pose is still unresolved; if the queue is at capacity at that
// point, the oldest entries are evicted until it is below capacity again.
// Returns the number of frames delivered.
func (s *FrameSynchronizer) Drain(yield func(frame *PointFrame, pose Pose)) int {
	delivered := 0
	for {
		frame, pose, ok := s.next()
		if !ok {
			return delivered
		}
		delivered++
		if s.stats != nil {
			s.stats.AddDelivered()
		}
		yield(frame, pose)
	}
}

// next pops the front frame if its pose resolves, applying the overflow
// policy when it does not.
func (s *FrameSynchronizer) next() (*PointFrame, Pose, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return nil, Pose{}, false
	}

	front := &s.queue[0]
	pose, ok := s.poseSource.Lookup(front.Frame.SensorFrameID, s.worldFrame, front.Frame.Timestamp)
	if !ok {
		if len(s.queue) >= s.queueSize {
			evict := len(s.queue) - s.queueSize + 1
			s.evictLocked(evict)
			s.overflowWarn.Logf("Frame queue at capacity with unresolved poses; dropped %d oldest frame(s). "+
				"Pose lookups are lagging or processing is too slow.", evict)
		}
		return nil, Pose{}, false
	}

	front.ResolvedPose = &pose
	frame := front.Frame
	s.queue = s.queue[1:]
	return frame, pose, true
}

// evictLocked drops n entries from the front of the queue. Caller holds mu.
func (s *FrameSynchronizer) evictLocked(n int) {
	if n > len(s.queue) {
		n = len(s.queue)
	}
	s.queue = s.queue[n:]
	if s.stats != nil {
		s.stats.AddEvicted(n)
	}
}

// QueueLen returns the number of frames waiting for a pose.
func (s *FrameSynchronizer) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
