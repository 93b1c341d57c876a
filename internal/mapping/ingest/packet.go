// Package ingest receives sensor point frames over UDP: packet parsing,
// multi-packet frame assembly, and optional PCAP replay for offline runs.
package ingest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/meridian-robotics/voxmap/internal/mapping"
)

// Wire format, little-endian. One UDP packet carries a slice of one
// sensor sweep; a sweep spans PacketCount packets sharing a FrameSeq.
//
//	offset  size  field
//	0       4     magic "VXPF"
//	4       1     version (1)
//	5       1     flags (bit 0: per-point RGB, bit 1: pose payload)
//	6       4     frame sequence
//	10      2     packet sequence within frame
//	12      2     packet count for frame
//	14      8     frame timestamp, unix nanos
//	22      16    sensor frame id, NUL padded
//	38      2     point count in this packet
//	40      ...   point records: x,y,z float32 [+ r,g,b uint8]
const (
	packetMagic   = "VXPF"
	packetVersion = 1
	headerSize    = 40

	// FlagHasColor marks packets carrying RGB per point.
	FlagHasColor = 0x01

	// FlagHasPose marks pose packets: instead of point records the
	// payload is one row-major 4x4 sensor-to-world transform as 16
	// float32 values, and the point count must be zero.
	FlagHasPose = 0x02

	// MaxPointsPerPacket keeps a full packet under the usual 1500-byte
	// MTU with margin for headers.
	MaxPointsPerPacket = 96

	pointSize      = 12
	pointColorSize = 15
	poseSize       = 64
)

// PacketHeader is the decoded fixed prefix of one wire packet.
type PacketHeader struct {
	Version       uint8
	Flags         uint8
	FrameSeq      uint32
	PacketSeq     uint16
	PacketCount   uint16
	Timestamp     time.Time
	SensorFrameID string
	PointCount    int
}

// Packet is one fully decoded wire packet.
type Packet struct {
	Header PacketHeader
	Points []mapping.Point3
	Colors []mapping.Color // nil unless FlagHasColor
	PoseT  *[16]float64    // nil unless FlagHasPose
}

// HasColor reports whether per-point colors are present.
func (h *PacketHeader) HasColor() bool {
	return h.Flags&FlagHasColor != 0
}

// HasPose reports whether this is a pose packet.
func (h *PacketHeader) HasPose() bool {
	return h.Flags&FlagHasPose != 0
}

// ParsePacket decodes one UDP payload. Any structural violation is an
// error; callers drop the packet and keep listening.
func ParsePacket(data []byte) (*Packet, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("packet too short: %d bytes", len(data))
	}
	if string(data[0:4]) != packetMagic {
		return nil, fmt.Errorf("bad magic %q", data[0:4])
	}

	h := PacketHeader{
		Version: data[4],
		Flags:   data[5],
	}
	if h.Version != packetVersion {
		return nil, fmt.Errorf("unsupported version %d", h.Version)
	}

	h.FrameSeq = binary.LittleEndian.Uint32(data[6:10])
	h.PacketSeq = binary.LittleEndian.Uint16(data[10:12])
	h.PacketCount = binary.LittleEndian.Uint16(data[12:14])
	h.Timestamp = time.Unix(0, int64(binary.LittleEndian.Uint64(data[14:22]))).UTC()
	h.SensorFrameID = string(bytes.TrimRight(data[22:38], "\x00"))
	h.PointCount = int(binary.LittleEndian.Uint16(data[38:40]))

	if h.PacketCount == 0 {
		return nil, fmt.Errorf("zero packet count")
	}
	if h.PacketSeq >= h.PacketCount {
		return nil, fmt.Errorf("packet seq %d out of range (count %d)", h.PacketSeq, h.PacketCount)
	}
	if h.SensorFrameID == "" {
		return nil, fmt.Errorf("empty sensor frame id")
	}
	if h.PointCount > MaxPointsPerPacket {
		return nil, fmt.Errorf("point count %d exceeds max %d", h.PointCount, MaxPointsPerPacket)
	}

	if h.HasPose() {
		return parsePosePacket(data, h)
	}

	recordSize := pointSize
	if h.HasColor() {
		recordSize = pointColorSize
	}
	want := headerSize + h.PointCount*recordSize
	if len(data) != want {
		return nil, fmt.Errorf("packet length %d, want %d for %d points", len(data), want, h.PointCount)
	}

	pkt := &Packet{
		Header: h,
		Points: make([]mapping.Point3, h.PointCount),
	}
	if h.HasColor() {
		pkt.Colors = make([]mapping.Color, h.PointCount)
	}

	off := headerSize
	for i := 0; i < h.PointCount; i++ {
		x := math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		z := math.Float32frombits(binary.LittleEndian.Uint32(data[off+8 : off+12]))
		if !finite(x) || !finite(y) || !finite(z) {
			return nil, fmt.Errorf("non-finite coordinate in point %d", i)
		}
		pkt.Points[i] = mapping.Point3{X: float64(x), Y: float64(y), Z: float64(z)}
		off += pointSize
		if h.HasColor() {
			pkt.Colors[i] = mapping.Color{R: data[off], G: data[off+1], B: data[off+2]}
			off += 3
		}
	}
	return pkt, nil
}

func parsePosePacket(data []byte, h PacketHeader) (*Packet, error) {
	if h.HasColor() {
		return nil, fmt.Errorf("pose packet with color flag")
	}
	if h.PointCount != 0 {
		return nil, fmt.Errorf("pose packet with %d points", h.PointCount)
	}
	want := headerSize + poseSize
	if len(data) != want {
		return nil, fmt.Errorf("pose packet length %d, want %d", len(data), want)
	}

	var t [16]float64
	off := headerSize
	for i := range t {
		v := math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
		if !finite(v) {
			return nil, fmt.Errorf("non-finite transform element %d", i)
		}
		t[i] = float64(v)
		off += 4
	}
	return &Packet{Header: h, PoseT: &t}, nil
}

func finite(f float32) bool {
	f64 := float64(f)
	return !math.IsNaN(f64) && !math.IsInf(f64, 0)
}

// MarshalPacket encodes a packet into wire form. Used by replay tooling
// and tests.
func MarshalPacket(pkt *Packet) ([]byte, error) {
	h := pkt.Header
	if len(pkt.Points) > MaxPointsPerPacket {
		return nil, fmt.Errorf("too many points: %d", len(pkt.Points))
	}
	if h.HasColor() && len(pkt.Colors) != len(pkt.Points) {
		return nil, fmt.Errorf("color count %d, point count %d", len(pkt.Colors), len(pkt.Points))
	}
	if len(h.SensorFrameID) > 16 {
		return nil, fmt.Errorf("sensor frame id too long: %q", h.SensorFrameID)
	}

	if h.HasPose() {
		if pkt.PoseT == nil {
			return nil, fmt.Errorf("pose flag set without transform")
		}
		if len(pkt.Points) != 0 {
			return nil, fmt.Errorf("pose packet with %d points", len(pkt.Points))
		}
		buf := make([]byte, headerSize+poseSize)
		marshalHeader(buf, h, 0)
		off := headerSize
		for _, v := range pkt.PoseT {
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(v)))
			off += 4
		}
		return buf, nil
	}

	recordSize := pointSize
	if h.HasColor() {
		recordSize = pointColorSize
	}
	buf := make([]byte, headerSize+len(pkt.Points)*recordSize)
	marshalHeader(buf, h, len(pkt.Points))

	off := headerSize
	for i, p := range pkt.Points {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(p.X)))
		binary.LittleEndian.PutUint32(buf[off+4:off+8], math.Float32bits(float32(p.Y)))
		binary.LittleEndian.PutUint32(buf[off+8:off+12], math.Float32bits(float32(p.Z)))
		off += pointSize
		if h.HasColor() {
			buf[off] = pkt.Colors[i].R
			buf[off+1] = pkt.Colors[i].G
			buf[off+2] = pkt.Colors[i].B
			off += 3
		}
	}
	return buf, nil
}

func marshalHeader(buf []byte, h PacketHeader, pointCount int) {
	copy(buf[0:4], packetMagic)
	buf[4] = packetVersion
	buf[5] = h.Flags
	binary.LittleEndian.PutUint32(buf[6:10], h.FrameSeq)
	binary.LittleEndian.PutUint16(buf[10:12], h.PacketSeq)
	binary.LittleEndian.PutUint16(buf[12:14], h.PacketCount)
	binary.LittleEndian.PutUint64(buf[14:22], uint64(h.Timestamp.UnixNano()))
	copy(buf[22:38], h.SensorFrameID)
	binary.LittleEndian.PutUint16(buf[38:40], uint16(pointCount))
}
