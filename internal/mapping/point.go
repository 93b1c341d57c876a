// Package mapping contains the core submap pipeline: frame ingestion and
// pose synchronization, submap segmentation, and the collaborator
// interfaces to the volumetric fusion engine.
package mapping

import "time"

// Point3 is a Cartesian point in meters.
// Coordinate convention: X=right, Y=forward, Z=up.
type Point3 struct {
	X, Y, Z float64
}

// Color is an 8-bit RGB color attached to a point.
type Color struct {
	R, G, B uint8
}

// PointFrame is an immutable snapshot of one sensor sweep: the points and
// colors observed at a single timestamp, expressed in the sensor frame.
// A frame is consumed exactly once by the fusion stage.
type PointFrame struct {
	Timestamp     time.Time // sensor timestamp of the sweep
	SensorFrameID string    // frame the points are expressed in, e.g. "camera/front"
	Points        []Point3
	Colors        []Color // same length as Points, or empty when the sensor has no color
}

// PointCount returns the number of points in the frame.
func (f *PointFrame) PointCount() int {
	if f == nil {
		return 0
	}
	return len(f.Points)
}
