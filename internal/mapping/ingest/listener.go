package ingest

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/meridian-robotics/voxmap/internal/monitoring"
)

// PoseSink receives decoded pose packets, typically a pose buffer that
// the frame synchronizer queries.
type PoseSink interface {
	HandlePose(sensorFrame string, stamp time.Time, t [16]float64)
}

// PoseSinkFunc adapts a function to the PoseSink interface.
type PoseSinkFunc func(sensorFrame string, stamp time.Time, t [16]float64)

// HandlePose calls f.
func (f PoseSinkFunc) HandlePose(sensorFrame string, stamp time.Time, t [16]float64) {
	f(sensorFrame, stamp, t)
}

// UDPListenerConfig contains configuration options for the UDP listener.
type UDPListenerConfig struct {
	Address     string
	RcvBuf      int
	LogInterval time.Duration
	Stats       *PacketStats
	Assembler   *FrameAssembler
	PoseSink    PoseSink
}

// UDPListener receives sensor packets from UDP and feeds the frame
// assembler.
type UDPListener struct {
	address     string
	rcvBuf      int
	logInterval time.Duration
	conn        *net.UDPConn
	stats       *PacketStats
	assembler   *FrameAssembler
	poseSink    PoseSink
	parseWarn   *monitoring.Throttle
}

// NewUDPListener creates a new UDP listener with the provided configuration.
func NewUDPListener(config UDPListenerConfig) *UDPListener {
	stats := config.Stats
	if stats == nil {
		stats = NewPacketStats()
	}
	logInterval := config.LogInterval
	if logInterval == 0 {
		logInterval = time.Minute
	}
	return &UDPListener{
		address:     config.Address,
		rcvBuf:      config.RcvBuf,
		logInterval: logInterval,
		stats:       stats,
		assembler:   config.Assembler,
		poseSink:    config.PoseSink,
		parseWarn:   monitoring.NewThrottle(10 * time.Second),
	}
}

// Start begins listening for UDP packets and processing them. It blocks
// until ctx is cancelled.
func (l *UDPListener) Start(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", l.address)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on UDP address: %w", err)
	}
	l.conn = conn
	defer conn.Close()

	if l.rcvBuf > 0 {
		if err := conn.SetReadBuffer(l.rcvBuf); err != nil {
			monitoring.Logf("Warning: Failed to set UDP receive buffer size to %d: %v", l.rcvBuf, err)
		}
	}

	monitoring.Logf("UDP listener started on %s with receive buffer %d bytes", l.address, l.rcvBuf)

	go l.startStatsLogging(ctx)

	buffer := make([]byte, 2048)
	for {
		select {
		case <-ctx.Done():
			monitoring.Logf("UDP listener stopping due to context cancellation")
			return ctx.Err()
		default:
			conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))

			n, addr, err := conn.ReadFromUDP(buffer)
			if err != nil {
				if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
					continue // Continue on timeout to check context
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				monitoring.Logf("UDP read error: %v", err)
				continue
			}

			if err := l.handlePacket(buffer[:n]); err != nil {
				l.parseWarn.Logf("Error handling packet from %v: %v", addr, err)
			}
		}
	}
}

// startStatsLogging periodically logs packet statistics. An initial
// report fires shortly after startup to avoid a long silence on first
// run.
func (l *UDPListener) startStatsLogging(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
		l.stats.LogStats()
	}

	ticker := time.NewTicker(l.logInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.stats.LogStats()
		}
	}
}

// handlePacket processes a single received UDP packet.
func (l *UDPListener) handlePacket(data []byte) error {
	l.stats.AddPacket(len(data))

	pkt, err := ParsePacket(data)
	if err != nil {
		l.stats.AddMalformed()
		return err
	}
	if pkt.Header.HasPose() {
		if l.poseSink != nil {
			l.poseSink.HandlePose(pkt.Header.SensorFrameID, pkt.Header.Timestamp, *pkt.PoseT)
		}
		return nil
	}
	l.stats.AddPoints(len(pkt.Points))

	if l.assembler != nil {
		l.assembler.AddPacket(pkt)
	}
	return nil
}

// Close closes the UDP listener and releases resources.
func (l *UDPListener) Close() error {
	if l.conn != nil {
		return l.conn.Close()
	}
	return nil
}
