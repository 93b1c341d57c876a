package ingest

import (
	"time"

	"github.com/meridian-robotics/voxmap/internal/mapping"
	"github.com/meridian-robotics/voxmap/internal/monitoring"
)

// FrameSink consumes assembled point frames.
type FrameSink interface {
	HandleFrame(frame *mapping.PointFrame)
}

// FrameSinkFunc adapts a function to FrameSink.
type FrameSinkFunc func(frame *mapping.PointFrame)

// HandleFrame calls f.
func (f FrameSinkFunc) HandleFrame(frame *mapping.PointFrame) { f(frame) }

// FrameAssembler reassembles sensor sweeps from their wire packets. One
// sweep is split across Header.PacketCount packets sharing a FrameSeq;
// the assembler buffers the current sweep and emits it once every packet
// has arrived.
//
// Sweeps arrive in order from a live sensor, so only one sweep is
// buffered at a time: a packet from a newer FrameSeq abandons the
// incomplete current sweep. Late packets from older sweeps are ignored.
// Not safe for concurrent use; the listener owns it.
type FrameAssembler struct {
	sink  FrameSink
	stats *PacketStats
	warn  *monitoring.Throttle

	started  bool
	frameSeq uint32
	header   PacketHeader
	slots    []*Packet
	received int
}

// NewFrameAssembler creates an assembler emitting into sink. stats may
// be nil.
func NewFrameAssembler(sink FrameSink, stats *PacketStats) *FrameAssembler {
	return &FrameAssembler{
		sink:  sink,
		stats: stats,
		warn:  monitoring.NewThrottle(10 * time.Second),
	}
}

// AddPacket feeds one parsed packet into the current sweep.
func (a *FrameAssembler) AddPacket(pkt *Packet) {
	h := pkt.Header

	switch {
	case !a.started || seqNewer(h.FrameSeq, a.frameSeq):
		if a.started && a.received > 0 {
			if a.stats != nil {
				a.stats.AddFrameDropped()
			}
			a.warn.Logf("[Ingest] Dropping incomplete frame %d (%d/%d packets)", a.frameSeq, a.received, a.header.PacketCount)
		}
		a.begin(h)
	case h.FrameSeq != a.frameSeq:
		// Late packet from an already emitted or abandoned sweep.
		return
	case h.PacketCount != a.header.PacketCount:
		a.warn.Logf("[Ingest] Frame %d packet count changed mid-frame (%d -> %d), dropping frame", h.FrameSeq, a.header.PacketCount, h.PacketCount)
		a.reset()
		return
	}

	if int(h.PacketSeq) >= len(a.slots) || a.slots[h.PacketSeq] != nil {
		return // duplicate
	}
	a.slots[h.PacketSeq] = pkt
	a.received++

	if a.received == int(a.header.PacketCount) {
		a.emit()
	}
}

// Flush emits the current sweep if complete-so-far data should be
// delivered regardless, e.g. at end of a PCAP replay. Incomplete sweeps
// with at least one packet are emitted with the points received.
func (a *FrameAssembler) Flush() {
	if a.started && a.received > 0 {
		a.emit()
	}
}

func (a *FrameAssembler) begin(h PacketHeader) {
	a.started = true
	a.frameSeq = h.FrameSeq
	a.header = h
	a.slots = make([]*Packet, h.PacketCount)
	a.received = 0
}

func (a *FrameAssembler) reset() {
	a.slots = nil
	a.received = 0
}

func (a *FrameAssembler) emit() {
	frame := &mapping.PointFrame{
		Timestamp:     a.header.Timestamp,
		SensorFrameID: a.header.SensorFrameID,
	}
	hasColor := a.header.HasColor()
	for _, pkt := range a.slots {
		if pkt == nil {
			continue
		}
		frame.Points = append(frame.Points, pkt.Points...)
		if hasColor {
			frame.Colors = append(frame.Colors, pkt.Colors...)
		}
	}
	a.reset()

	if len(frame.Points) == 0 {
		return
	}
	if a.stats != nil {
		a.stats.AddFrameEmitted()
	}
	a.sink.HandleFrame(frame)
}

// seqNewer reports whether a is newer than b under uint32 wraparound.
func seqNewer(a, b uint32) bool {
	return int32(a-b) > 0
}
