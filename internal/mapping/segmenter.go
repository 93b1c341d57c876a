package mapping

import (
	"fmt"

	"github.com/meridian-robotics/voxmap/internal/monitoring"
	"github.com/meridian-robotics/voxmap/internal/timeutil"
)

// DefaultFramesPerSubmap is the default segmentation threshold.
const DefaultFramesPerSubmap = 20

// SegmenterState tags the segmenter's lifecycle.
type SegmenterState int

const (
	// SegmenterUninitialized means no submap exists yet; the first
	// pose-resolved frame initializes the map.
	SegmenterUninitialized SegmenterState = iota
	// SegmenterActive means a submap is receiving integrations.
	SegmenterActive
)

// SubmapPublisher is notified when a finalized submap should be sent to
// peers. The exchange publisher implements this. A publish failure does
// not abort the cut; the caller logs it and moves on.
type SubmapPublisher interface {
	PublishSubmap(id SubmapID) error
}

// SubmapEventSink receives lifecycle notifications for diagnostics.
// Implementations must not block; failures are the sink's problem.
type SubmapEventSink interface {
	SubmapCreated(submap *Submap)
	SubmapFinalized(submap *Submap)
}

// SubmapSegmenterConfig configures a SubmapSegmenter.
type SubmapSegmenterConfig struct {
	Engine          FusionEngine     // required
	Collection      SubmapCollection // required
	Publisher       SubmapPublisher  // optional; nil skips publishing
	EventSink       SubmapEventSink  // optional
	FramesPerSubmap int              // segmentation threshold (default 20)
	Clock           timeutil.Clock   // default RealClock
	Stats           *FrameStats      // optional
	Verbose         bool
}

// SubmapSegmenter decides submap boundaries. It routes pose-resolved
// frames into the fusion engine, counts integrations into the active
// submap, and cuts a new submap once the count exceeds the threshold.
// Finalize always precedes create; publish happens between the two so the
// published message carries the finalized recording duration.
type SubmapSegmenter struct {
	state           SegmenterState
	engine          FusionEngine
	collection      SubmapCollection
	publisher       SubmapPublisher
	eventSink       SubmapEventSink
	framesPerSubmap int
	framesInCurrent int
	clock           timeutil.Clock
	stats           *FrameStats
	verbose         bool
}

// NewSubmapSegmenter creates a SubmapSegmenter with the given configuration.
func NewSubmapSegmenter(config SubmapSegmenterConfig) *SubmapSegmenter {
	if config.FramesPerSubmap == 0 {
		config.FramesPerSubmap = DefaultFramesPerSubmap
	}
	if config.Clock == nil {
		config.Clock = timeutil.RealClock{}
	}
	return &SubmapSegmenter{
		state:           SegmenterUninitialized,
		engine:          config.Engine,
		collection:      config.Collection,
		publisher:       config.Publisher,
		eventSink:       config.EventSink,
		framesPerSubmap: config.FramesPerSubmap,
		clock:           config.Clock,
		stats:           config.Stats,
		verbose:         config.Verbose,
	}
}

// State returns the segmenter state.
func (sg *SubmapSegmenter) State() SegmenterState {
	return sg.state
}

// IntegrateFrame fuses one pose-resolved frame into the active submap,
// creating the first submap on the first call, and cuts a new submap when
// the integration count exceeds the threshold.
func (sg *SubmapSegmenter) IntegrateFrame(pose Pose, frame *PointFrame) error {
	if sg.state == SegmenterUninitialized {
		monitoring.Logf("Initializing map.")
		sg.CutSubmap(pose)
		sg.state = SegmenterActive
	}

	if err := sg.engine.Integrate(pose, frame.Points, frame.Colors); err != nil {
		return fmt.Errorf("integrate frame: %w", err)
	}
	sg.onFrameIntegrated(pose)
	return nil
}

// onFrameIntegrated increments the active submap's counter and triggers a
// cut once the threshold is exceeded.
func (sg *SubmapSegmenter) onFrameIntegrated(pose Pose) {
	sg.framesInCurrent++
	if sg.stats != nil {
		sg.stats.AddIntegrated()
	}

	if id, ok := sg.collection.ActiveSubmapID(); ok {
		if submap, ok := sg.collection.Submap(id); ok {
			submap.IntegratedFrameCount = sg.framesInCurrent
		}
		if sg.verbose {
			layer, _ := sg.collection.Layer(id)
			monitoring.Logf("Integrated frame %d into submap %d (%d blocks allocated)",
				sg.framesInCurrent, id, layer.BlockCount())
		}
	}

	if sg.framesInCurrent > sg.framesPerSubmap {
		sg.CutSubmap(pose)
	}
}

// CutSubmap finalizes the active submap (if one exists), publishes it, and
// creates a new active submap based at the given pose. On bootstrap, when
// no submap exists yet, only the create step runs.
func (sg *SubmapSegmenter) CutSubmap(pose Pose) {
	sg.finishSubmap()

	id := sg.engine.CreateSubmap(pose)
	sg.engine.SwitchActiveSubmap()
	sg.framesInCurrent = 0

	if submap, ok := sg.collection.Submap(id); ok {
		submap.RecordingStartedAt = sg.clock.Now()
		submap.State = SubmapActive
		if sg.eventSink != nil {
			sg.eventSink.SubmapCreated(submap)
		}
	}

	monitoring.Logf("Created a new submap with id: %d. Total submap number: %d",
		id, sg.collection.Size())
}

// finishSubmap finalizes and publishes the currently active submap, if any.
func (sg *SubmapSegmenter) finishSubmap() {
	id, ok := sg.collection.ActiveSubmapID()
	if !ok || !sg.collection.Exists(id) {
		return
	}

	submap, ok := sg.collection.Submap(id)
	if !ok {
		return
	}
	submap.State = SubmapFinalized
	submap.RecordingEndedAt = sg.clock.Now()
	if sg.eventSink != nil {
		sg.eventSink.SubmapFinalized(submap)
	}

	// Publish after finalize: the message carries the finalized
	// recording duration.
	if sg.publisher != nil {
		if err := sg.publisher.PublishSubmap(id); err != nil {
			monitoring.Logf("[Segmenter] Publish of submap %d failed: %v", id, err)
		}
	}
}
