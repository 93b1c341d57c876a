package mapping

import "time"

// PoseSource resolves the pose of a sensor frame relative to a target frame
// at a given timestamp. Lookups never block: either the pose is available
// now, or ok is false and the caller retries on a later drain cycle.
type PoseSource interface {
	Lookup(sourceFrame, targetFrame string, stamp time.Time) (Pose, bool)
}

// FusionEngine is the integration boundary to the volumetric fusion
// library. The engine owns the active-submap targeting; CreateSubmap
// allocates a new submap in the collection and SwitchActiveSubmap
// re-targets integration at whichever submap the collection marks active.
type FusionEngine interface {
	// Integrate fuses one posed frame into the active submap.
	Integrate(pose Pose, points []Point3, colors []Color) error

	// CreateSubmap allocates a new submap with the given base pose and
	// makes it the collection's active submap.
	CreateSubmap(basePose Pose) SubmapID

	// SwitchActiveSubmap re-targets the integrator at the collection's
	// active submap. Called after CreateSubmap.
	SwitchActiveSubmap()
}

// SubmapCollection owns the submaps and their volumetric layers. It is
// mutated only from the pipeline event loop (segmenter and exchange);
// implementations still guard state for the diagnostic read paths.
type SubmapCollection interface {
	// ActiveSubmapID returns the id of the active submap. ok is false
	// before the first submap is created.
	ActiveSubmapID() (SubmapID, bool)

	// Exists reports whether a submap with the given id exists.
	Exists(id SubmapID) bool

	// Submap returns the submap record for id.
	Submap(id SubmapID) (*Submap, bool)

	// Layer returns the volumetric layer for id.
	Layer(id SubmapID) (*VolumetricLayer, bool)

	// MergedGlobalLayer flattens all submaps into a single layer in the
	// global frame.
	MergedGlobalLayer() *VolumetricLayer

	// Put inserts or overwrites a submap and its layer, keyed by
	// submap.ID. Used by the exchange receive path; last write wins.
	Put(submap *Submap, layer *VolumetricLayer)

	// IDs returns all submap ids in ascending order.
	IDs() []SubmapID

	// Size returns the number of submaps.
	Size() int
}
