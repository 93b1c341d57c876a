package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-robotics/voxmap/internal/config"
	"github.com/meridian-robotics/voxmap/internal/fsutil"
	"github.com/meridian-robotics/voxmap/internal/mapping"
	"github.com/meridian-robotics/voxmap/internal/mapping/exchange"
	"github.com/meridian-robotics/voxmap/internal/mapping/ingest"
	"github.com/meridian-robotics/voxmap/internal/mapping/memfusion"
	"github.com/meridian-robotics/voxmap/internal/mapping/pipeline"
	"github.com/meridian-robotics/voxmap/internal/mapping/storage/sqlite"
	"github.com/meridian-robotics/voxmap/internal/mapping/timing"
	"github.com/meridian-robotics/voxmap/internal/monitoring"
	"github.com/meridian-robotics/voxmap/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to JSON tuning config (defaults apply when empty)")
	pcapFile    = flag.String("pcap", "", "Replay sensor packets from a PCAP file instead of listening on UDP")
	loadMap     = flag.String("load-map", "", "Load a map archive at startup and publish the merged result")
	statsPeriod = flag.Duration("stats-interval", time.Minute, "How often to log pipeline statistics")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("voxmapd %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	cfg := config.EmptyMappingConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadMappingConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", *configPath, err)
		}
		monitoring.Logf("Loaded config from %s", *configPath)
	}

	stats := mapping.NewFrameStats()
	ledger := timing.NewLedger()
	writer := timing.NewWriter(cfg.GetTimingLogDir(), ledger)
	if dir := cfg.GetTimingLogDir(); dir != "" {
		monitoring.Logf("Timing logs for run %s under %s", writer.RunID(), dir)
	}

	engine := memfusion.NewEngine(memfusion.Config{
		VoxelSize:     cfg.GetVoxelSize(),
		VoxelsPerSide: cfg.GetVoxelsPerSide(),
	})

	poses := mapping.NewPoseBuffer(cfg.GetSensorFrame(), cfg.GetWorldFrame())
	synchronizer := mapping.NewFrameSynchronizer(mapping.FrameSynchronizerConfig{
		PoseSource:       poses,
		WorldFrame:       cfg.GetWorldFrame(),
		QueueSize:        cfg.GetQueueSize(),
		MinFrameInterval: cfg.GetMinFrameInterval(),
		Stats:            stats,
	})

	publisher := exchange.NewPublisher(exchange.Config{
		ListenAddr:    cfg.GetExchangeListenAddr(),
		WorldFrame:    cfg.GetWorldFrame(),
		MergeToGlobal: cfg.GetMergeToGlobal(),
	}, engine, ledger, writer, stats)

	var eventSink mapping.SubmapEventSink
	var remoteEvents pipeline.RemoteEventSink
	if path := cfg.GetEventDBPath(); path != "" {
		eventDB, err := sqlite.Open(path)
		if err != nil {
			log.Fatalf("Failed to open event store %s: %v", path, err)
		}
		defer eventDB.Close()
		sink := sqlite.NewEventSink(sqlite.NewEventStore(eventDB, writer.RunID()), engine)
		eventSink = sink
		remoteEvents = sink
		publisher.SetEventSink(sink)
		monitoring.Logf("Submap event store at %s (run %s)", path, writer.RunID())
	}

	segmenter := mapping.NewSubmapSegmenter(mapping.SubmapSegmenterConfig{
		Engine:          engine,
		Collection:      engine,
		Publisher:       publisher,
		EventSink:       eventSink,
		FramesPerSubmap: cfg.GetFramesPerSubmap(),
		Stats:           stats,
	})

	server, err := pipeline.NewServer(pipeline.ServerConfig{
		Synchronizer: synchronizer,
		Segmenter:    segmenter,
		Collection:   engine,
		Publisher:    publisher,
		Archiver:     exchange.NewArchiver(fsutil.OSFileSystem{}, cfg.GetWorldFrame()),
		MeshPath:     cfg.GetMeshPath(),
		MeshInterval: cfg.GetMeshUpdateInterval(),
		RemoteEvents: remoteEvents,
		Stats:        stats,
	})
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	if err := publisher.Start(); err != nil {
		log.Fatalf("Failed to start exchange publisher on %s: %v", cfg.GetExchangeListenAddr(), err)
	}
	defer publisher.Stop()

	packetStats := ingest.NewPacketStats()
	assembler := ingest.NewFrameAssembler(ingest.FrameSinkFunc(server.HandleFrame), packetStats)
	poseSink := ingest.PoseSinkFunc(func(sensorFrame string, stamp time.Time, t [16]float64) {
		if sensorFrame != cfg.GetSensorFrame() {
			return
		}
		poses.Insert(stamp, mapping.Pose{
			FromFrame: sensorFrame,
			ToFrame:   cfg.GetWorldFrame(),
			T:         t,
		})
	})

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run the pipeline event loop; everything below only posts commands to it
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("pipeline loop terminated: %v", err)
		}
		log.Print("pipeline routine terminated")
	}()

	if *loadMap != "" {
		if err := server.LoadMap(*loadMap); err != nil {
			log.Printf("failed to load map archive %s: %v", *loadMap, err)
		}
	}

	// sensor frames in: either a live UDP listener or a PCAP replay
	wg.Add(1)
	go func() {
		defer wg.Done()
		if *pcapFile != "" {
			port, err := ingestPort(cfg.GetIngestListenAddr())
			if err != nil {
				log.Printf("cannot replay PCAP: %v", err)
				return
			}
			if err := ingest.ReplayPCAPFile(ctx, *pcapFile, port, assembler, poseSink, packetStats); err != nil && err != context.Canceled {
				log.Printf("PCAP replay failed: %v", err)
			}
			return
		}
		listener := ingest.NewUDPListener(ingest.UDPListenerConfig{
			Address:   cfg.GetIngestListenAddr(),
			RcvBuf:    cfg.GetIngestRcvBuf(),
			Stats:     packetStats,
			Assembler: assembler,
			PoseSink:  poseSink,
		})
		if err := listener.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("UDP listener failed: %v", err)
		}
		log.Print("ingest routine terminated")
	}()

	// subscribe to a peer's submap stream when one is configured
	if peer := cfg.GetPeerAddr(); peer != "" {
		subscriber := exchange.NewSubscriber(exchange.SubscriberConfig{
			PeerAddr:   peer,
			LocalID:    localID(),
			WorldFrame: cfg.GetWorldFrame(),
		}, server, ledger, writer, stats)
		if err := subscriber.Start(ctx); err != nil {
			log.Fatalf("Failed to start exchange subscriber for %s: %v", peer, err)
		}
		defer subscriber.Stop()
		monitoring.Logf("Subscribed to peer exchange at %s", peer)
	}

	// periodic pipeline stats, separate from the listener's packet stats
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(*statsPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats.LogStats()
			}
		}
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}

// ingestPort extracts the UDP port from a listen address like ":2368".
func ingestPort(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("bad ingest listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("bad ingest port %q: %w", portStr, err)
	}
	return port, nil
}

// localID identifies this node to peers it subscribes to.
func localID() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return uuid.NewString()
}
