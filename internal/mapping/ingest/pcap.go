//go:build pcap
// +build pcap

package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/meridian-robotics/voxmap/internal/monitoring"
)

// ReplayPCAPFile reads sensor packets from a PCAP capture and feeds them
// through the assembler as if they had arrived over UDP. Only packets on
// udpPort are considered. The assembler is flushed at end of file so a
// trailing partial sweep is still delivered.
// This function is only available when building with the 'pcap' build tag.
func ReplayPCAPFile(ctx context.Context, pcapFile string, udpPort int, assembler *FrameAssembler, poseSink PoseSink, stats *PacketStats) error {
	handle, err := pcap.OpenOffline(pcapFile)
	if err != nil {
		return fmt.Errorf("failed to open PCAP file %s: %w", pcapFile, err)
	}
	defer handle.Close()

	filterStr := fmt.Sprintf("udp port %d", udpPort)
	if err := handle.SetBPFFilter(filterStr); err != nil {
		return fmt.Errorf("failed to set BPF filter %q: %w", filterStr, err)
	}
	monitoring.Logf("PCAP BPF filter set: %s", filterStr)

	packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
	packetCount := 0
	malformed := 0
	startTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			monitoring.Logf("PCAP reader stopping due to context cancellation (processed %d packets)", packetCount)
			return ctx.Err()
		case packet := <-packetSource.Packets():
			if packet == nil {
				assembler.Flush()
				monitoring.Logf("PCAP file reading complete: %d packets processed (%d malformed) in %v",
					packetCount, malformed, time.Since(startTime))
				return nil
			}

			udpLayer := packet.Layer(layers.LayerTypeUDP)
			if udpLayer == nil {
				continue // Skip non-UDP packets (shouldn't happen with BPF filter)
			}
			payload := udpLayer.(*layers.UDP).Payload
			packetCount++

			if stats != nil {
				stats.AddPacket(len(payload))
			}
			pkt, err := ParsePacket(payload)
			if err != nil {
				malformed++
				if stats != nil {
					stats.AddMalformed()
				}
				continue
			}
			if pkt.Header.HasPose() {
				if poseSink != nil {
					poseSink.HandlePose(pkt.Header.SensorFrameID, pkt.Header.Timestamp, *pkt.PoseT)
				}
				continue
			}
			if stats != nil {
				stats.AddPoints(len(pkt.Points))
			}
			assembler.AddPacket(pkt)
		}
	}
}
