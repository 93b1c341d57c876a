package mapping

import (
	"fmt"
	"testing"
	"time"

	"github.com/meridian-robotics/voxmap/internal/timeutil"
)

// fakeMap is a minimal in-memory FusionEngine + SubmapCollection that
// records the order of lifecycle operations.
type fakeMap struct {
	submaps    map[SubmapID]*Submap
	layers     map[SubmapID]*VolumetricLayer
	nextID     SubmapID
	activeID   SubmapID
	hasActive  bool
	integrated []SubmapID // which submap each frame went into
	switches   int
	log        []string // operation order: create/publish entries
}

func newFakeMap() *fakeMap {
	return &fakeMap{
		submaps: map[SubmapID]*Submap{},
		layers:  map[SubmapID]*VolumetricLayer{},
	}
}

func (f *fakeMap) Integrate(pose Pose, points []Point3, colors []Color) error {
	if !f.hasActive {
		return fmt.Errorf("no active submap")
	}
	f.integrated = append(f.integrated, f.activeID)
	return nil
}

func (f *fakeMap) CreateSubmap(basePose Pose) SubmapID {
	id := f.nextID
	f.nextID++
	f.submaps[id] = &Submap{ID: id, BasePose: basePose, State: SubmapActive}
	f.layers[id] = NewVolumetricLayer(0.1, 8)
	f.activeID = id
	f.hasActive = true
	f.log = append(f.log, fmt.Sprintf("create %d", id))
	return id
}

func (f *fakeMap) SwitchActiveSubmap() { f.switches++ }

func (f *fakeMap) ActiveSubmapID() (SubmapID, bool) { return f.activeID, f.hasActive }
func (f *fakeMap) Exists(id SubmapID) bool          { _, ok := f.submaps[id]; return ok }
func (f *fakeMap) Submap(id SubmapID) (*Submap, bool) {
	s, ok := f.submaps[id]
	return s, ok
}
func (f *fakeMap) Layer(id SubmapID) (*VolumetricLayer, bool) {
	l, ok := f.layers[id]
	return l, ok
}
func (f *fakeMap) MergedGlobalLayer() *VolumetricLayer { return NewVolumetricLayer(0.1, 8) }
func (f *fakeMap) Put(submap *Submap, layer *VolumetricLayer) {
	f.submaps[submap.ID] = submap
	f.layers[submap.ID] = layer
}
func (f *fakeMap) IDs() []SubmapID {
	ids := make([]SubmapID, 0, len(f.submaps))
	for id := SubmapID(0); id < f.nextID; id++ {
		if _, ok := f.submaps[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
func (f *fakeMap) Size() int { return len(f.submaps) }

// publishRecorder records publish calls into the fakeMap's operation log.
type publishRecorder struct {
	m   *fakeMap
	ids []SubmapID
}

func (p *publishRecorder) PublishSubmap(id SubmapID) error {
	p.ids = append(p.ids, id)
	p.m.log = append(p.m.log, fmt.Sprintf("publish %d", id))
	return nil
}

func testFrame() *PointFrame {
	return &PointFrame{
		Timestamp:     time.Unix(100, 0),
		SensorFrameID: "camera/front",
		Points:        []Point3{{X: 1, Y: 2, Z: 3}},
	}
}

func TestFirstFrameInitializesMap(t *testing.T) {
	fm := newFakeMap()
	sg := NewSubmapSegmenter(SubmapSegmenterConfig{
		Engine:          fm,
		Collection:      fm,
		FramesPerSubmap: 5,
	})

	if sg.State() != SegmenterUninitialized {
		t.Fatal("segmenter must start uninitialized")
	}

	pose := IdentityPose("camera/front", "world")
	if err := sg.IntegrateFrame(pose, testFrame()); err != nil {
		t.Fatalf("IntegrateFrame: %v", err)
	}

	if sg.State() != SegmenterActive {
		t.Fatal("segmenter must be active after first frame")
	}
	if fm.Size() != 1 {
		t.Fatalf("submap count = %d, want 1", fm.Size())
	}
	sm, _ := fm.Submap(0)
	if sm.State != SubmapActive {
		t.Fatal("first submap must be active")
	}
	if sm.RecordingStartedAt.IsZero() {
		t.Fatal("recording start not stamped")
	}
	if fm.switches != 1 {
		t.Fatalf("SwitchActiveSubmap called %d times, want 1", fm.switches)
	}
}

func TestThresholdCutSequence(t *testing.T) {
	// Threshold 2: frames t0,t1,t2 land in submap 0 (the cut triggers when
	// the 3rd integration exceeds 2), t3 lands in submap 1. Submap 0 must
	// be published before submap 1 is created.
	fm := newFakeMap()
	pub := &publishRecorder{m: fm}
	clock := timeutil.NewMockClock(time.Unix(100, 0))
	sg := NewSubmapSegmenter(SubmapSegmenterConfig{
		Engine:          fm,
		Collection:      fm,
		Publisher:       pub,
		FramesPerSubmap: 2,
		Clock:           clock,
	})

	pose := IdentityPose("camera/front", "world")
	for i := 0; i < 4; i++ {
		clock.Advance(time.Second)
		if err := sg.IntegrateFrame(pose, testFrame()); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}

	want := []SubmapID{0, 0, 0, 1}
	if len(fm.integrated) != len(want) {
		t.Fatalf("integrated into %v, want %v", fm.integrated, want)
	}
	for i := range want {
		if fm.integrated[i] != want[i] {
			t.Fatalf("frame %d integrated into submap %d, want %d", i, fm.integrated[i], want[i])
		}
	}

	if len(pub.ids) != 1 || pub.ids[0] != 0 {
		t.Fatalf("published %v, want [0]", pub.ids)
	}

	// Ordering: create 0, publish 0, create 1.
	wantLog := []string{"create 0", "publish 0", "create 1"}
	if len(fm.log) != len(wantLog) {
		t.Fatalf("op log %v, want %v", fm.log, wantLog)
	}
	for i := range wantLog {
		if fm.log[i] != wantLog[i] {
			t.Fatalf("op log %v, want %v", fm.log, wantLog)
		}
	}

	sm0, _ := fm.Submap(0)
	if sm0.State != SubmapFinalized {
		t.Fatal("submap 0 must be finalized after cut")
	}
	if sm0.RecordingEndedAt.IsZero() {
		t.Fatal("submap 0 recording end not stamped")
	}
	if sm0.IntegratedFrameCount != 3 {
		t.Fatalf("submap 0 frame count = %d, want 3", sm0.IntegratedFrameCount)
	}

	sm1, _ := fm.Submap(1)
	if sm1.State != SubmapActive {
		t.Fatal("submap 1 must be active")
	}
	if sm1.IntegratedFrameCount != 1 {
		t.Fatalf("submap 1 frame count = %d, want 1", sm1.IntegratedFrameCount)
	}
}

func TestCutSubmapBootstrapSkipsFinalize(t *testing.T) {
	fm := newFakeMap()
	pub := &publishRecorder{m: fm}
	sg := NewSubmapSegmenter(SubmapSegmenterConfig{
		Engine:     fm,
		Collection: fm,
		Publisher:  pub,
	})

	sg.CutSubmap(IdentityPose("camera/front", "world"))

	if fm.Size() != 1 {
		t.Fatalf("submap count = %d, want 1", fm.Size())
	}
	if len(pub.ids) != 0 {
		t.Fatalf("bootstrap cut published %v, want none", pub.ids)
	}
}

func TestCutResetsFrameCounter(t *testing.T) {
	fm := newFakeMap()
	clock := timeutil.NewMockClock(time.Unix(100, 0))
	sg := NewSubmapSegmenter(SubmapSegmenterConfig{
		Engine:          fm,
		Collection:      fm,
		FramesPerSubmap: 1,
		Clock:           clock,
	})

	pose := IdentityPose("camera/front", "world")
	// Threshold 1: each submap takes 2 frames before the cut.
	for i := 0; i < 6; i++ {
		if err := sg.IntegrateFrame(pose, testFrame()); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}

	want := []SubmapID{0, 0, 1, 1, 2, 2}
	for i := range want {
		if fm.integrated[i] != want[i] {
			t.Fatalf("integration targets %v, want %v", fm.integrated, want)
		}
	}
}

type recordingSink struct {
	created   []SubmapID
	finalized []SubmapID
}

func (r *recordingSink) SubmapCreated(s *Submap)   { r.created = append(r.created, s.ID) }
func (r *recordingSink) SubmapFinalized(s *Submap) { r.finalized = append(r.finalized, s.ID) }

func TestEventSinkNotifications(t *testing.T) {
	fm := newFakeMap()
	sink := &recordingSink{}
	sg := NewSubmapSegmenter(SubmapSegmenterConfig{
		Engine:          fm,
		Collection:      fm,
		EventSink:       sink,
		FramesPerSubmap: 1,
	})

	pose := IdentityPose("camera/front", "world")
	for i := 0; i < 3; i++ {
		if err := sg.IntegrateFrame(pose, testFrame()); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}

	if len(sink.created) != 2 || sink.created[0] != 0 || sink.created[1] != 1 {
		t.Fatalf("created events %v, want [0 1]", sink.created)
	}
	if len(sink.finalized) != 1 || sink.finalized[0] != 0 {
		t.Fatalf("finalized events %v, want [0]", sink.finalized)
	}
}
