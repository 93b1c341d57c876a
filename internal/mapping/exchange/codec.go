// Package exchange implements the gRPC submap exchange: streaming
// finished submaps to connected peers, subscribing to a remote node's
// stream, and archiving a whole collection to disk.
package exchange

import (
	"errors"
	"fmt"
	"time"

	"github.com/meridian-robotics/voxmap/internal/mapping"
	"github.com/meridian-robotics/voxmap/internal/mapping/exchange/pb"
)

func nanosToTime(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}

// ErrMalformedSubmap is wrapped by all decode failures. Receivers drop
// the offending message and keep the stream alive.
var ErrMalformedSubmap = errors.New("malformed submap message")

// SubmapToProto encodes a submap record and its layer into the wire form.
// The layer may be nil for a submap whose voxel data is not being sent.
func SubmapToProto(sm *mapping.Submap, layer *mapping.VolumetricLayer) *pb.Submap {
	msg := &pb.Submap{
		SubmapId:             int64(sm.ID),
		TGS:                  append([]float64(nil), sm.BasePose.T[:]...),
		IntegratedFrameCount: int32(sm.IntegratedFrameCount),
	}
	if !sm.RecordingStartedAt.IsZero() {
		msg.RecordingStartedNs = sm.RecordingStartedAt.UnixNano()
	}
	if !sm.RecordingEndedAt.IsZero() {
		msg.RecordingEndedNs = sm.RecordingEndedAt.UnixNano()
	}
	if layer != nil {
		msg.Layer = LayerToProto(layer)
	}
	return msg
}

// LayerToProto encodes a volumetric layer. Block order is unspecified.
func LayerToProto(layer *mapping.VolumetricLayer) *pb.VolumetricLayer {
	out := &pb.VolumetricLayer{
		VoxelSize:     layer.VoxelSize,
		VoxelsPerSide: uint32(layer.VoxelsPerSide),
		Blocks:        make([]*pb.VoxelBlock, 0, len(layer.Blocks)),
	}
	for idx, blk := range layer.Blocks {
		colors := make([]byte, 0, len(blk.Colors)*3)
		for _, c := range blk.Colors {
			colors = append(colors, c.R, c.G, c.B)
		}
		out.Blocks = append(out.Blocks, &pb.VoxelBlock{
			X:         idx.X,
			Y:         idx.Y,
			Z:         idx.Z,
			Distances: blk.Distances,
			Weights:   blk.Weights,
			Colors:    colors,
		})
	}
	return out
}

// SubmapFromProto decodes a received submap message, validating it before
// anything touches the collection. worldFrame names the frame the base
// pose maps into.
func SubmapFromProto(msg *pb.Submap, worldFrame string) (*mapping.Submap, *mapping.VolumetricLayer, error) {
	if msg == nil {
		return nil, nil, fmt.Errorf("%w: nil message", ErrMalformedSubmap)
	}
	if msg.SubmapId < 0 {
		return nil, nil, fmt.Errorf("%w: negative submap id %d", ErrMalformedSubmap, msg.SubmapId)
	}
	if len(msg.TGS) != 16 {
		return nil, nil, fmt.Errorf("%w: transform has %d elements, want 16", ErrMalformedSubmap, len(msg.TGS))
	}
	pose := mapping.Pose{
		FromFrame: fmt.Sprintf("submap/%d", msg.SubmapId),
		ToFrame:   worldFrame,
	}
	copy(pose.T[:], msg.TGS)
	if !pose.IsValidTransform() {
		return nil, nil, fmt.Errorf("%w: transform is not rigid", ErrMalformedSubmap)
	}
	layer, err := LayerFromProto(msg.Layer)
	if err != nil {
		return nil, nil, err
	}

	sm := &mapping.Submap{
		ID:                   mapping.SubmapID(msg.SubmapId),
		BasePose:             pose,
		IntegratedFrameCount: int(msg.IntegratedFrameCount),
		State:                mapping.SubmapFinalized,
	}
	if msg.RecordingStartedNs != 0 {
		sm.RecordingStartedAt = nanosToTime(msg.RecordingStartedNs)
	}
	if msg.RecordingEndedNs != 0 {
		sm.RecordingEndedAt = nanosToTime(msg.RecordingEndedNs)
	}
	return sm, layer, nil
}

// LayerFromProto decodes and validates a layer. Every block must carry
// exactly voxelsPerSide³ distances and weights, and either no colors or
// one RGB triplet per voxel.
func LayerFromProto(msg *pb.VolumetricLayer) (*mapping.VolumetricLayer, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: missing layer", ErrMalformedSubmap)
	}
	if msg.VoxelSize <= 0 {
		return nil, fmt.Errorf("%w: voxel size %v", ErrMalformedSubmap, msg.VoxelSize)
	}
	if msg.VoxelsPerSide == 0 || msg.VoxelsPerSide > 64 {
		return nil, fmt.Errorf("%w: voxels per side %d", ErrMalformedSubmap, msg.VoxelsPerSide)
	}

	layer := mapping.NewVolumetricLayer(msg.VoxelSize, int(msg.VoxelsPerSide))
	perBlock := layer.VoxelsPerBlock()
	for _, blk := range msg.Blocks {
		idx := mapping.BlockIndex{X: blk.X, Y: blk.Y, Z: blk.Z}
		if _, dup := layer.Blocks[idx]; dup {
			return nil, fmt.Errorf("%w: duplicate block (%d,%d,%d)", ErrMalformedSubmap, blk.X, blk.Y, blk.Z)
		}
		if len(blk.Distances) != perBlock || len(blk.Weights) != perBlock {
			return nil, fmt.Errorf("%w: block (%d,%d,%d) has %d distances and %d weights, want %d",
				ErrMalformedSubmap, blk.X, blk.Y, blk.Z, len(blk.Distances), len(blk.Weights), perBlock)
		}
		if len(blk.Colors) != 0 && len(blk.Colors) != perBlock*3 {
			return nil, fmt.Errorf("%w: block (%d,%d,%d) has %d color bytes, want 0 or %d",
				ErrMalformedSubmap, blk.X, blk.Y, blk.Z, len(blk.Colors), perBlock*3)
		}

		out := &mapping.VoxelBlock{
			Distances: append([]float32(nil), blk.Distances...),
			Weights:   append([]float32(nil), blk.Weights...),
		}
		if len(blk.Colors) > 0 {
			out.Colors = make([]mapping.Color, perBlock)
			for i := range out.Colors {
				out.Colors[i] = mapping.Color{
					R: blk.Colors[i*3],
					G: blk.Colors[i*3+1],
					B: blk.Colors[i*3+2],
				}
			}
		}
		layer.Blocks[idx] = out
	}
	return layer, nil
}
