// Package pipeline is the composition root of the mapping server: a
// single event loop that serializes frame integration, inbound exchange
// messages, mesh refresh ticks and operator commands. Every mutation of
// the submap collection happens on the loop goroutine.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meridian-robotics/voxmap/internal/mapping"
	"github.com/meridian-robotics/voxmap/internal/mapping/exchange"
	"github.com/meridian-robotics/voxmap/internal/monitoring"
	"github.com/meridian-robotics/voxmap/internal/timeutil"
)

// MeshExporter renders the collection's geometry to mesh files. The
// concrete meshing backend lives behind this interface.
type MeshExporter interface {
	// ExportSeparated writes one mesh file per submap under dir.
	ExportSeparated(collection mapping.SubmapCollection, dir string) error

	// ExportCombined writes all submaps into a single mesh file.
	ExportCombined(collection mapping.SubmapCollection, path string) error
}

// MapPublisher broadcasts the merged global map to connected peers.
// The exchange publisher implements this alongside per-submap publishing.
type MapPublisher interface {
	PublishMergedMap() error
}

// RemoteEventSink is notified when a remote submap has been absorbed.
type RemoteEventSink interface {
	SubmapReceived(submap *mapping.Submap)
}

// TrajectoryPoint is one resolved sensor pose, recorded per integrated
// frame.
type TrajectoryPoint struct {
	Stamp time.Time
	Pose  mapping.Pose
}

// ServerConfig holds the pipeline's collaborators.
type ServerConfig struct {
	Synchronizer *mapping.FrameSynchronizer // required
	Segmenter    *mapping.SubmapSegmenter   // required
	Collection   mapping.SubmapCollection   // required
	Publisher    MapPublisher               // optional; used for publish-after-load
	Archiver     *exchange.Archiver         // optional; SaveMap/LoadMap fail without it
	Mesh         MeshExporter               // optional
	MeshPath     string                     // mesh output location; empty disables mesh commands
	MeshInterval time.Duration              // 0 disables the periodic mesh tick
	RemoteEvents RemoteEventSink            // optional
	Stats        *mapping.FrameStats
	Clock        timeutil.Clock
	CommandDepth int // command channel buffer, default 64
}

// Server owns the event loop. External goroutines (ingest, gRPC
// subscriber, operator surfaces) only post commands; the loop goroutine
// is the sole caller of the synchronizer, segmenter and collection.
type Server struct {
	cfg     ServerConfig
	clock   timeutil.Clock
	cmds    chan func()
	stopped chan struct{}

	mu         sync.Mutex
	trajectory []TrajectoryPoint
}

// NewServer creates a pipeline server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Synchronizer == nil || cfg.Segmenter == nil || cfg.Collection == nil {
		return nil, fmt.Errorf("pipeline: synchronizer, segmenter and collection are required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	depth := cfg.CommandDepth
	if depth <= 0 {
		depth = 64
	}
	return &Server{
		cfg:     cfg,
		clock:   clock,
		cmds:    make(chan func(), depth),
		stopped: make(chan struct{}),
	}, nil
}

// Run drains the event loop until ctx is cancelled. The in-flight
// command completes; queued commands are abandoned.
func (s *Server) Run(ctx context.Context) error {
	defer close(s.stopped)

	var meshTick timeutil.Ticker
	var meshC <-chan time.Time
	if s.cfg.Mesh != nil && s.cfg.MeshInterval > 0 {
		meshTick = s.clock.NewTicker(s.cfg.MeshInterval)
		defer meshTick.Stop()
		meshC = meshTick.C()
	}

	monitoring.Logf("[Pipeline] Event loop started")
	for {
		select {
		case <-ctx.Done():
			monitoring.Logf("[Pipeline] Event loop stopping: %v", ctx.Err())
			return ctx.Err()
		case cmd := <-s.cmds:
			cmd()
		case <-meshC:
			s.refreshMesh()
		}
	}
}

// post queues a command for the loop. Posts after shutdown are dropped.
func (s *Server) post(cmd func()) bool {
	select {
	case s.cmds <- cmd:
		return true
	case <-s.stopped:
		return false
	}
}

// call posts cmd and waits for the loop to run it.
func (s *Server) call(cmd func() error) error {
	done := make(chan error, 1)
	if !s.post(func() { done <- cmd() }) {
		return fmt.Errorf("pipeline stopped")
	}
	select {
	case err := <-done:
		return err
	case <-s.stopped:
		return fmt.Errorf("pipeline stopped")
	}
}

// HandleFrame accepts one assembled sensor frame. It is the ingest
// listener's FrameSink: the frame is throttled and queued immediately,
// integration happens on the loop goroutine.
func (s *Server) HandleFrame(frame *mapping.PointFrame) {
	s.post(func() {
		if !s.cfg.Synchronizer.Enqueue(frame) {
			return
		}
		s.drainFrames()
	})
}

// drainFrames integrates every frame whose pose is now resolvable.
func (s *Server) drainFrames() {
	s.cfg.Synchronizer.Drain(func(frame *mapping.PointFrame, pose mapping.Pose) {
		s.recordTrajectory(frame.Timestamp, pose)
		if err := s.cfg.Segmenter.IntegrateFrame(pose, frame); err != nil {
			monitoring.Logf("[Pipeline] Frame integration failed: %v", err)
		}
	})
}

// HandleRemoteSubmap absorbs one decoded remote submap. It implements
// exchange.InboundHandler; the subscriber goroutine blocks here until
// the loop has applied the message, which keeps remote submaps strictly
// in order.
func (s *Server) HandleRemoteSubmap(sm *mapping.Submap, layer *mapping.VolumetricLayer) (int, error) {
	size := 0
	err := s.call(func() error {
		s.cfg.Collection.Put(sm, layer)
		size = s.cfg.Collection.Size()
		if s.cfg.RemoteEvents != nil {
			s.cfg.RemoteEvents.SubmapReceived(sm)
		}
		monitoring.Logf("[Pipeline] Absorbed remote submap %d (%d blocks, collection size %d)",
			sm.ID, layer.BlockCount(), size)
		return nil
	})
	return size, err
}

// SaveMap archives the whole collection to path.
func (s *Server) SaveMap(path string) error {
	return s.call(func() error {
		if s.cfg.Archiver == nil {
			return fmt.Errorf("save map: no archiver configured")
		}
		return s.cfg.Archiver.SaveMap(path, s.cfg.Collection)
	})
}

// LoadMap restores a collection archive from path; loaded submaps
// overwrite same-id entries. After a successful load the merged global
// map is published to connected peers.
func (s *Server) LoadMap(path string) error {
	return s.call(func() error {
		if s.cfg.Archiver == nil {
			return fmt.Errorf("load map: no archiver configured")
		}
		loaded, err := s.cfg.Archiver.LoadMap(path, s.cfg.Collection)
		if err != nil {
			return err
		}
		if s.cfg.Publisher != nil && len(loaded) > 0 {
			if err := s.cfg.Publisher.PublishMergedMap(); err != nil {
				monitoring.Logf("[Pipeline] Publish after load failed: %v", err)
			}
		}
		return nil
	})
}

// GenerateSeparatedMesh writes one mesh per submap. Fails when no mesh
// path or exporter is configured.
func (s *Server) GenerateSeparatedMesh() error {
	return s.call(func() error {
		if err := s.meshReady(); err != nil {
			return err
		}
		return s.cfg.Mesh.ExportSeparated(s.cfg.Collection, s.cfg.MeshPath)
	})
}

// GenerateCombinedMesh writes all submaps into one mesh.
func (s *Server) GenerateCombinedMesh() error {
	return s.call(func() error {
		if err := s.meshReady(); err != nil {
			return err
		}
		return s.cfg.Mesh.ExportCombined(s.cfg.Collection, s.cfg.MeshPath)
	})
}

func (s *Server) meshReady() error {
	if s.cfg.Mesh == nil {
		return fmt.Errorf("mesh generation failed: no mesh exporter configured")
	}
	if s.cfg.MeshPath == "" {
		return fmt.Errorf("mesh generation failed: no mesh path configured")
	}
	return nil
}

// refreshMesh handles the periodic tick. Best effort.
func (s *Server) refreshMesh() {
	if err := s.meshReady(); err != nil {
		return
	}
	if err := s.cfg.Mesh.ExportCombined(s.cfg.Collection, s.cfg.MeshPath); err != nil {
		monitoring.Logf("[Pipeline] Periodic mesh refresh failed: %v", err)
	}
}

func (s *Server) recordTrajectory(stamp time.Time, pose mapping.Pose) {
	s.mu.Lock()
	s.trajectory = append(s.trajectory, TrajectoryPoint{Stamp: stamp, Pose: pose})
	s.mu.Unlock()
}

// Trajectory returns a copy of the resolved pose history.
func (s *Server) Trajectory() []TrajectoryPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TrajectoryPoint(nil), s.trajectory...)
}
