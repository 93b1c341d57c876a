package mapping

import (
	"testing"
	"time"
)

// stubPoseSource resolves poses for an allowlist of timestamps.
type stubPoseSource struct {
	available map[int64]bool // unix nanos -> resolvable
	lookups   int
}

func (s *stubPoseSource) Lookup(sourceFrame, targetFrame string, stamp time.Time) (Pose, bool) {
	s.lookups++
	if s.available[stamp.UnixNano()] {
		return IdentityPose(sourceFrame, targetFrame), true
	}
	return Pose{}, false
}

func frameAt(ts time.Time) *PointFrame {
	return &PointFrame{
		Timestamp:     ts,
		SensorFrameID: "camera/front",
		Points:        []Point3{{X: 1}},
	}
}

func TestEnqueueThrottle(t *testing.T) {
	src := &stubPoseSource{available: map[int64]bool{}}
	s := NewFrameSynchronizer(FrameSynchronizerConfig{
		PoseSource:       src,
		MinFrameInterval: 100 * time.Millisecond,
	})

	t0 := time.Unix(10, 0)
	if !s.Enqueue(frameAt(t0)) {
		t.Fatal("first frame must be accepted")
	}
	// Exactly at the interval: not strictly greater, rejected.
	if s.Enqueue(frameAt(t0.Add(100 * time.Millisecond))) {
		t.Fatal("frame at exactly min_interval must be throttled")
	}
	if s.Enqueue(frameAt(t0.Add(50 * time.Millisecond))) {
		t.Fatal("frame within min_interval must be throttled")
	}
	if !s.Enqueue(frameAt(t0.Add(101 * time.Millisecond))) {
		t.Fatal("frame past min_interval must be accepted")
	}
	// Throttled frames must not affect the queue.
	if got := s.QueueLen(); got != 2 {
		t.Fatalf("queue len = %d, want 2", got)
	}
	// lastAccepted advanced to t0+101ms, not to a throttled timestamp.
	if s.Enqueue(frameAt(t0.Add(150 * time.Millisecond))) {
		t.Fatal("frame within interval of last accepted must be throttled")
	}
}

func TestDrainDeliversFIFOOnce(t *testing.T) {
	t0 := time.Unix(10, 0)
	t1 := t0.Add(time.Second)
	t2 := t1.Add(time.Second)
	src := &stubPoseSource{available: map[int64]bool{
		t0.UnixNano(): true,
		t1.UnixNano(): true,
		t2.UnixNano(): true,
	}}
	s := NewFrameSynchronizer(FrameSynchronizerConfig{PoseSource: src})

	for _, ts := range []time.Time{t0, t1, t2} {
		s.Enqueue(frameAt(ts))
	}

	var delivered []time.Time
	n := s.Drain(func(frame *PointFrame, pose Pose) {
		delivered = append(delivered, frame.Timestamp)
		if !pose.IsValidTransform() {
			t.Error("delivered pose is not valid")
		}
	})

	if n != 3 || len(delivered) != 3 {
		t.Fatalf("delivered %d frames, want 3", n)
	}
	for i, want := range []time.Time{t0, t1, t2} {
		if !delivered[i].Equal(want) {
			t.Fatalf("delivery order broken at %d: got %v want %v", i, delivered[i], want)
		}
	}

	// Nothing left; a second drain delivers nothing (no duplication).
	if n := s.Drain(func(*PointFrame, Pose) {}); n != 0 {
		t.Fatalf("second drain delivered %d frames", n)
	}
}

func TestDrainStopsAtUnresolvedFrame(t *testing.T) {
	t0 := time.Unix(10, 0)
	t1 := t0.Add(time.Second)
	t2 := t1.Add(time.Second)
	// t1's pose never resolves; t2's does. FIFO forbids skipping ahead.
	src := &stubPoseSource{available: map[int64]bool{
		t0.UnixNano(): true,
		t2.UnixNano(): true,
	}}
	s := NewFrameSynchronizer(FrameSynchronizerConfig{PoseSource: src})

	for _, ts := range []time.Time{t0, t1, t2} {
		s.Enqueue(frameAt(ts))
	}

	var delivered []time.Time
	s.Drain(func(frame *PointFrame, pose Pose) {
		delivered = append(delivered, frame.Timestamp)
	})

	if len(delivered) != 1 || !delivered[0].Equal(t0) {
		t.Fatalf("delivered %v, want just t0", delivered)
	}
	if got := s.QueueLen(); got != 2 {
		t.Fatalf("queue len = %d, want 2 (t1, t2 still pending)", got)
	}

	// Pose for t1 arrives; the next drain delivers the rest in order.
	src.available[t1.UnixNano()] = true
	s.Drain(func(frame *PointFrame, pose Pose) {
		delivered = append(delivered, frame.Timestamp)
	})
	if len(delivered) != 3 || !delivered[1].Equal(t1) || !delivered[2].Equal(t2) {
		t.Fatalf("delivered %v, want t0,t1,t2", delivered)
	}
}

func TestQueueOverflowEvictsOldest(t *testing.T) {
	src := &stubPoseSource{available: map[int64]bool{}}
	stats := NewFrameStats()
	s := NewFrameSynchronizer(FrameSynchronizerConfig{
		PoseSource: src,
		QueueSize:  3,
		Stats:      stats,
	})

	base := time.Unix(10, 0)
	for i := 0; i < 5; i++ {
		s.Enqueue(frameAt(base.Add(time.Duration(i) * time.Second)))
	}
	// Enqueue keeps the bound.
	if got := s.QueueLen(); got != 3 {
		t.Fatalf("queue len = %d, want 3", got)
	}

	// Drain with all poses unresolved: queue at capacity, evict below it.
	s.Drain(func(*PointFrame, Pose) { t.Fatal("nothing should be delivered") })
	if got := s.QueueLen(); got != 2 {
		t.Fatalf("queue len after overflow eviction = %d, want 2", got)
	}

	// The survivors are the two newest frames: t3, t4.
	src.available[base.Add(3 * time.Second).UnixNano()] = true
	src.available[base.Add(4 * time.Second).UnixNano()] = true
	var delivered []time.Time
	s.Drain(func(frame *PointFrame, pose Pose) {
		delivered = append(delivered, frame.Timestamp)
	})
	if len(delivered) != 2 ||
		!delivered[0].Equal(base.Add(3*time.Second)) ||
		!delivered[1].Equal(base.Add(4*time.Second)) {
		t.Fatalf("survivors %v, want t3,t4", delivered)
	}

	snap := stats.GetAndReset()
	if snap.Evicted != 3 {
		t.Fatalf("evicted count = %d, want 3", snap.Evicted)
	}
}

func TestDrainEmptyQueue(t *testing.T) {
	src := &stubPoseSource{available: map[int64]bool{}}
	s := NewFrameSynchronizer(FrameSynchronizerConfig{PoseSource: src})
	if n := s.Drain(func(*PointFrame, Pose) {}); n != 0 {
		t.Fatalf("drain of empty queue delivered %d", n)
	}
	if src.lookups != 0 {
		t.Fatalf("lookup called %d times on empty queue", src.lookups)
	}
}
