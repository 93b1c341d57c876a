package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-robotics/voxmap/internal/mapping"
)

func sweepPacket(frameSeq uint32, packetSeq, packetCount uint16, points ...mapping.Point3) *Packet {
	return &Packet{
		Header: PacketHeader{
			FrameSeq:      frameSeq,
			PacketSeq:     packetSeq,
			PacketCount:   packetCount,
			Timestamp:     testStamp,
			SensorFrameID: "lidar",
		},
		Points: points,
	}
}

func collectFrames(frames *[]*mapping.PointFrame) FrameSink {
	return FrameSinkFunc(func(f *mapping.PointFrame) {
		*frames = append(*frames, f)
	})
}

func TestAssemblerEmitsCompleteSweep(t *testing.T) {
	var frames []*mapping.PointFrame
	stats := NewPacketStats()
	a := NewFrameAssembler(collectFrames(&frames), stats)

	a.AddPacket(sweepPacket(1, 0, 3, mapping.Point3{X: 1}))
	a.AddPacket(sweepPacket(1, 1, 3, mapping.Point3{X: 2}))
	assert.Empty(t, frames, "incomplete sweep must not emit")
	a.AddPacket(sweepPacket(1, 2, 3, mapping.Point3{X: 3}))

	require.Len(t, frames, 1)
	assert.Equal(t, []mapping.Point3{{X: 1}, {X: 2}, {X: 3}}, frames[0].Points)
	assert.Equal(t, "lidar", frames[0].SensorFrameID)
	assert.True(t, frames[0].Timestamp.Equal(testStamp))
}

func TestAssemblerReordersPackets(t *testing.T) {
	var frames []*mapping.PointFrame
	a := NewFrameAssembler(collectFrames(&frames), nil)

	a.AddPacket(sweepPacket(4, 1, 2, mapping.Point3{X: 2}))
	a.AddPacket(sweepPacket(4, 0, 2, mapping.Point3{X: 1}))

	require.Len(t, frames, 1)
	assert.Equal(t, []mapping.Point3{{X: 1}, {X: 2}}, frames[0].Points, "points follow packet seq, not arrival order")
}

func TestAssemblerDropsSupersededSweep(t *testing.T) {
	var frames []*mapping.PointFrame
	stats := NewPacketStats()
	a := NewFrameAssembler(collectFrames(&frames), stats)

	a.AddPacket(sweepPacket(1, 0, 2, mapping.Point3{X: 1}))
	// Frame 2 arrives before frame 1 completed.
	a.AddPacket(sweepPacket(2, 0, 1, mapping.Point3{X: 9}))

	require.Len(t, frames, 1)
	assert.Equal(t, []mapping.Point3{{X: 9}}, frames[0].Points)
}

func TestAssemblerIgnoresLateAndDuplicate(t *testing.T) {
	var frames []*mapping.PointFrame
	a := NewFrameAssembler(collectFrames(&frames), nil)

	a.AddPacket(sweepPacket(5, 0, 2, mapping.Point3{X: 1}))
	a.AddPacket(sweepPacket(5, 0, 2, mapping.Point3{X: 99})) // duplicate
	a.AddPacket(sweepPacket(4, 0, 1, mapping.Point3{X: 42})) // late, older sweep
	a.AddPacket(sweepPacket(5, 1, 2, mapping.Point3{X: 2}))

	require.Len(t, frames, 1)
	assert.Equal(t, []mapping.Point3{{X: 1}, {X: 2}}, frames[0].Points)
}

func TestAssemblerFlush(t *testing.T) {
	var frames []*mapping.PointFrame
	a := NewFrameAssembler(collectFrames(&frames), nil)

	a.AddPacket(sweepPacket(1, 0, 3, mapping.Point3{X: 1}))
	a.Flush()

	require.Len(t, frames, 1)
	assert.Equal(t, []mapping.Point3{{X: 1}}, frames[0].Points)

	// Flush with nothing buffered is a no-op.
	a.Flush()
	assert.Len(t, frames, 1)
}

func TestAssemblerSequenceWraparound(t *testing.T) {
	var frames []*mapping.PointFrame
	a := NewFrameAssembler(collectFrames(&frames), nil)

	a.AddPacket(sweepPacket(0xFFFFFFFF, 0, 1, mapping.Point3{X: 1}))
	a.AddPacket(sweepPacket(0, 0, 1, mapping.Point3{X: 2})) // wraps, still newer

	require.Len(t, frames, 2)
	assert.Equal(t, []mapping.Point3{{X: 2}}, frames[1].Points)
}

func TestListenerHandlePacket(t *testing.T) {
	var frames []*mapping.PointFrame
	stats := NewPacketStats()
	a := NewFrameAssembler(collectFrames(&frames), stats)
	l := NewUDPListener(UDPListenerConfig{Address: ":0", Stats: stats, Assembler: a})

	data := colorPacket(t, 1, 0, 1, []mapping.Point3{{X: 1, Y: 2, Z: 3}})
	require.NoError(t, l.handlePacket(data))
	require.Len(t, frames, 1)

	err := l.handlePacket([]byte("garbage"))
	assert.Error(t, err)
	assert.Len(t, frames, 1)
}

func TestListenerRoutesPosePackets(t *testing.T) {
	var frames []*mapping.PointFrame
	type posePair struct {
		frame string
		stamp time.Time
	}
	var poses []posePair
	stats := NewPacketStats()
	a := NewFrameAssembler(collectFrames(&frames), stats)
	l := NewUDPListener(UDPListenerConfig{
		Address:   ":0",
		Stats:     stats,
		Assembler: a,
		PoseSink: PoseSinkFunc(func(frame string, stamp time.Time, tf [16]float64) {
			poses = append(poses, posePair{frame: frame, stamp: stamp})
			assert.Equal(t, 1.0, tf[0])
		}),
	})

	var tf [16]float64
	tf[0], tf[5], tf[10], tf[15] = 1, 1, 1, 1
	data, err := MarshalPacket(&Packet{
		Header: PacketHeader{
			Flags:         FlagHasPose,
			FrameSeq:      2,
			PacketCount:   1,
			Timestamp:     testStamp,
			SensorFrameID: "lidar",
		},
		PoseT: &tf,
	})
	require.NoError(t, err)

	require.NoError(t, l.handlePacket(data))
	require.Len(t, poses, 1)
	assert.Equal(t, "lidar", poses[0].frame)
	assert.True(t, poses[0].stamp.Equal(testStamp))
	assert.Empty(t, frames)
}
