package exchange

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-robotics/voxmap/internal/mapping"
	"github.com/meridian-robotics/voxmap/internal/mapping/exchange/pb"
)

func testLayer(t *testing.T) *mapping.VolumetricLayer {
	t.Helper()
	layer := mapping.NewVolumetricLayer(0.05, 2) // 8 voxels per block
	blk := layer.Block(mapping.BlockIndex{X: 1, Y: -2, Z: 3})
	blk.Distances[0] = 0.04
	blk.Weights[0] = 2
	blk.Colors[0] = mapping.Color{R: 200, G: 100, B: 50}
	blk.Distances[7] = -0.01
	blk.Weights[7] = 1
	return layer
}

func TestSubmapRoundTrip(t *testing.T) {
	pose := mapping.IdentityPose("submap/3", "world")
	pose.T[3] = 1.5 // x translation
	started := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	orig := &mapping.Submap{
		ID:                   3,
		BasePose:             pose,
		IntegratedFrameCount: 21,
		RecordingStartedAt:   started,
		RecordingEndedAt:     started.Add(4 * time.Second),
		State:                mapping.SubmapFinalized,
	}
	layer := testLayer(t)

	msg := SubmapToProto(orig, layer)
	got, gotLayer, err := SubmapFromProto(msg, "world")
	require.NoError(t, err)

	if diff := cmp.Diff(orig, got); diff != "" {
		t.Errorf("submap mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(layer, gotLayer); diff != "" {
		t.Errorf("layer mismatch (-want +got):\n%s", diff)
	}
}

func TestLayerRoundTripWithoutColors(t *testing.T) {
	layer := mapping.NewVolumetricLayer(0.1, 2)
	blk := layer.Block(mapping.BlockIndex{})
	blk.Weights[3] = 1
	blk.Colors = nil

	got, err := LayerFromProto(LayerToProto(layer))
	require.NoError(t, err)
	assert.Nil(t, got.Blocks[mapping.BlockIndex{}].Colors)
	assert.Equal(t, float32(1), got.Blocks[mapping.BlockIndex{}].Weights[3])
}

func validMessage(t *testing.T) *pb.Submap {
	t.Helper()
	sm := &mapping.Submap{ID: 1, BasePose: mapping.IdentityPose("submap/1", "world")}
	return SubmapToProto(sm, testLayer(t))
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*pb.Submap) *pb.Submap
	}{
		{"nil message", func(*pb.Submap) *pb.Submap { return nil }},
		{"negative id", func(m *pb.Submap) *pb.Submap { m.SubmapId = -1; return m }},
		{"short transform", func(m *pb.Submap) *pb.Submap { m.TGS = m.TGS[:12]; return m }},
		{"non-rigid transform", func(m *pb.Submap) *pb.Submap { m.TGS = make([]float64, 16); return m }},
		{"missing layer", func(m *pb.Submap) *pb.Submap { m.Layer = nil; return m }},
		{"zero voxel size", func(m *pb.Submap) *pb.Submap { m.Layer.VoxelSize = 0; return m }},
		{"huge voxels per side", func(m *pb.Submap) *pb.Submap { m.Layer.VoxelsPerSide = 512; return m }},
		{"truncated distances", func(m *pb.Submap) *pb.Submap {
			m.Layer.Blocks[0].Distances = m.Layer.Blocks[0].Distances[:3]
			return m
		}},
		{"bad color length", func(m *pb.Submap) *pb.Submap {
			m.Layer.Blocks[0].Colors = m.Layer.Blocks[0].Colors[:5]
			return m
		}},
		{"duplicate block", func(m *pb.Submap) *pb.Submap {
			m.Layer.Blocks = append(m.Layer.Blocks, m.Layer.Blocks[0])
			return m
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.mutate(validMessage(t))
			_, _, err := SubmapFromProto(msg, "world")
			if !errors.Is(err, ErrMalformedSubmap) {
				t.Fatalf("want ErrMalformedSubmap, got %v", err)
			}
		})
	}
}

func TestDecodeSetsFrames(t *testing.T) {
	sm := &mapping.Submap{ID: 7, BasePose: mapping.IdentityPose("submap/7", "map")}
	got, _, err := SubmapFromProto(SubmapToProto(sm, testLayer(t)), "map")
	require.NoError(t, err)
	assert.Equal(t, "submap/7", got.BasePose.FromFrame)
	assert.Equal(t, "map", got.BasePose.ToFrame)
	assert.Equal(t, mapping.SubmapFinalized, got.State)
}
