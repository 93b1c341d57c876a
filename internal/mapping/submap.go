package mapping

import "time"

// SubmapID identifies a submap within a collection. IDs are allocated
// monotonically by the fusion engine, starting at 0.
type SubmapID int64

// GlobalSubmapID is the sentinel id used when exchanging a merged global
// layer instead of an individual submap.
const GlobalSubmapID SubmapID = 0

// SubmapState tags where a submap is in its lifecycle.
type SubmapState int

const (
	// SubmapActive is the single submap currently receiving integrations.
	SubmapActive SubmapState = iota
	// SubmapFinalized submaps no longer change and may be published.
	SubmapFinalized
)

// String returns a human-readable state name.
func (s SubmapState) String() string {
	switch s {
	case SubmapActive:
		return "active"
	case SubmapFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Submap is the bookkeeping record for one bounded unit of the volumetric
// map. The voxel data itself lives in the collection's VolumetricLayer;
// Submap carries identity, base pose and recording metadata.
//
// At most one submap is Active at any time once mapping has started.
// IntegratedFrameCount only increases while Active.
type Submap struct {
	ID                   SubmapID
	BasePose             Pose
	IntegratedFrameCount int
	RecordingStartedAt   time.Time
	RecordingEndedAt     time.Time // zero until finalized
	State                SubmapState
}

// RecordingDuration returns how long the submap was recording. For a still
// active submap it returns the duration up to now.
func (s *Submap) RecordingDuration(now time.Time) time.Duration {
	if s.RecordingStartedAt.IsZero() {
		return 0
	}
	end := s.RecordingEndedAt
	if end.IsZero() {
		end = now
	}
	return end.Sub(s.RecordingStartedAt)
}
