package exchange

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"google.golang.org/grpc"

	"github.com/meridian-robotics/voxmap/internal/mapping"
	"github.com/meridian-robotics/voxmap/internal/mapping/exchange/pb"
	"github.com/meridian-robotics/voxmap/internal/mapping/timing"
	"github.com/meridian-robotics/voxmap/internal/monitoring"
	"github.com/meridian-robotics/voxmap/internal/timeutil"
)

// Config holds configuration for the submap exchange server.
type Config struct {
	// ListenAddr is the address to listen on (e.g., "localhost:50061")
	ListenAddr string

	// WorldFrame names the global frame submap base poses map into.
	WorldFrame string

	// MergeToGlobal overrides PublishSubmap to merged-map mode: instead
	// of the finished submap, every publish sends the whole collection
	// flattened into one global layer under the reserved submap id 0.
	// PublishMergedMap sends the flattened map regardless of this flag.
	MergeToGlobal bool

	// MaxClients is the maximum number of concurrent streaming peers
	MaxClients int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		ListenAddr: "localhost:50061",
		WorldFrame: "world",
		MaxClients: 5,
	}
}

// Voxel layers for large submaps exceed the 4MB gRPC default.
const maxMsgSize = 64 * 1024 * 1024 // 64 MB

// PublishEventSink is notified after a submap has been handed to the
// broadcast loop. Implementations must not block.
type PublishEventSink interface {
	SubmapPublished(id mapping.SubmapID)
}

// Publisher manages the gRPC server and submap streaming. It implements
// mapping.SubmapPublisher: the segmenter hands it finished submap ids and
// the publisher encodes and broadcasts them to every connected peer.
//
// When no peer is connected a publish is skipped entirely, so a node
// running standalone pays no encoding cost.
type Publisher struct {
	config     Config
	collection mapping.SubmapCollection
	ledger     *timing.Ledger
	writer     *timing.Writer
	stats      *mapping.FrameStats
	clock      timeutil.Clock
	events     PublishEventSink

	server   *grpc.Server
	listener net.Listener

	submapChan chan *pb.Submap
	clients    map[string]*clientStream
	clientsMu  sync.RWMutex

	publishCount  atomic.Uint64
	clientCount   atomic.Int32
	droppedFrames atomic.Uint64

	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// clientStream represents a connected streaming peer.
type clientStream struct {
	id       string
	peerID   string
	submapCh chan *pb.Submap
	doneCh   chan struct{}
}

// NewPublisher creates a Publisher over the given collection. The ledger
// and writer record per-publish timing; both may be shared with the
// subscriber. stats may be nil.
func NewPublisher(cfg Config, collection mapping.SubmapCollection, ledger *timing.Ledger, writer *timing.Writer, stats *mapping.FrameStats) *Publisher {
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = DefaultConfig().MaxClients
	}
	return &Publisher{
		config:     cfg,
		collection: collection,
		ledger:     ledger,
		writer:     writer,
		stats:      stats,
		clock:      timeutil.RealClock{},
		submapChan: make(chan *pb.Submap, 16),
		clients:    make(map[string]*clientStream),
		stopCh:     make(chan struct{}),
	}
}

// SetClock overrides the wall clock. Test hook.
func (p *Publisher) SetClock(c timeutil.Clock) {
	p.clock = c
}

// SetEventSink attaches a lifecycle sink notified per publish. Call
// before Start.
func (p *Publisher) SetEventSink(events PublishEventSink) {
	p.events = events
}

// Start starts the gRPC server.
func (p *Publisher) Start() error {
	if p.running.Load() {
		return fmt.Errorf("publisher already running")
	}

	lis, err := net.Listen("tcp", p.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	p.listener = lis

	p.server = grpc.NewServer(
		grpc.MaxRecvMsgSize(maxMsgSize),
		grpc.MaxSendMsgSize(maxMsgSize),
	)
	pb.RegisterSubmapExchangeServer(p.server, &exchangeService{pub: p})

	p.running.Store(true)

	p.wg.Add(1)
	go p.broadcastLoop()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		monitoring.Logf("[Exchange] gRPC server listening on %s", p.config.ListenAddr)
		if err := p.server.Serve(lis); err != nil && p.running.Load() {
			monitoring.Logf("[Exchange] gRPC server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully stops the gRPC server.
func (p *Publisher) Stop() {
	if !p.running.Load() {
		return
	}
	p.running.Store(false)
	close(p.stopCh)

	if p.server != nil {
		p.server.GracefulStop()
	}
	if p.listener != nil {
		p.listener.Close()
	}

	p.wg.Wait()
	monitoring.Logf("[Exchange] gRPC server stopped")
}

// SubscriberCount returns the number of connected streaming peers.
func (p *Publisher) SubscriberCount() int {
	return int(p.clientCount.Load())
}

// PublishSubmap encodes the submap with the given id and broadcasts it.
// With no subscribers the call is a no-op. With the merge-to-global
// override set every publish sends the flattened map instead.
func (p *Publisher) PublishSubmap(id mapping.SubmapID) error {
	return p.publish(id, p.config.MergeToGlobal)
}

// PublishMergedMap flattens the whole collection and broadcasts it under
// the reserved global id with an identity base pose. Used after a map
// load to send one consolidated representation instead of every
// historical submap.
func (p *Publisher) PublishMergedMap() error {
	return p.publish(mapping.GlobalSubmapID, true)
}

func (p *Publisher) publish(id mapping.SubmapID, merged bool) error {
	if p.SubscriberCount() == 0 {
		return nil
	}

	msg, err := p.buildOutbound(id, merged)
	if err != nil {
		return err
	}

	if p.writer != nil {
		p.writer.WriteEvent(timing.DirectionSent, p.collection.Size(), p.clock.Now())
	}
	if p.stats != nil {
		p.stats.AddPublished()
	}
	if p.events != nil {
		p.events.SubmapPublished(id)
	}

	select {
	case p.submapChan <- msg:
		p.publishCount.Add(1)
	default:
		dropped := p.droppedFrames.Add(1)
		monitoring.Logf("[Exchange] DROPPED submap %d (total dropped: %d), channel full", id, dropped)
	}
	return nil
}

// buildOutbound assembles the wire message for one publish.
func (p *Publisher) buildOutbound(id mapping.SubmapID, merged bool) (*pb.Submap, error) {
	var t *timing.Timer
	if p.ledger != nil {
		t = p.ledger.Start("exchange/encode_submap")
		defer t.Stop()
	}

	if merged {
		flat := p.collection.MergedGlobalLayer()
		sm := &mapping.Submap{
			ID:       mapping.GlobalSubmapID,
			BasePose: mapping.IdentityPose(p.config.WorldFrame, p.config.WorldFrame),
			State:    mapping.SubmapFinalized,
		}
		return SubmapToProto(sm, flat), nil
	}

	sm, ok := p.collection.Submap(id)
	if !ok {
		return nil, fmt.Errorf("publish submap %d: no such submap", id)
	}
	layer, ok := p.collection.Layer(id)
	if !ok {
		return nil, fmt.Errorf("publish submap %d: no layer", id)
	}
	return SubmapToProto(sm, layer), nil
}

// broadcastLoop distributes encoded submaps to all connected peers.
func (p *Publisher) broadcastLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return
		case msg := <-p.submapChan:
			p.clientsMu.RLock()
			for _, client := range p.clients {
				select {
				case client.submapCh <- msg:
				default:
					// Peer is slow, drop this submap for it.
					p.droppedFrames.Add(1)
				}
			}
			p.clientsMu.RUnlock()
		}
	}
}

// addClient registers a new streaming peer.
func (p *Publisher) addClient(id, peerID string) (*clientStream, error) {
	if int(p.clientCount.Load()) >= p.config.MaxClients {
		return nil, fmt.Errorf("too many peers (max %d)", p.config.MaxClients)
	}

	client := &clientStream{
		id:       id,
		peerID:   peerID,
		submapCh: make(chan *pb.Submap, 4),
		doneCh:   make(chan struct{}),
	}

	p.clientsMu.Lock()
	p.clients[id] = client
	p.clientsMu.Unlock()

	p.clientCount.Add(1)
	monitoring.Logf("[Exchange] Peer connected: %s (total: %d)", peerID, p.clientCount.Load())
	return client, nil
}

// removeClient unregisters a streaming peer.
func (p *Publisher) removeClient(id string) {
	p.clientsMu.Lock()
	client, ok := p.clients[id]
	if ok {
		close(client.doneCh)
		delete(p.clients, id)
	}
	p.clientsMu.Unlock()
	if ok {
		p.clientCount.Add(-1)
		monitoring.Logf("[Exchange] Peer disconnected: %s (remaining: %d)", client.peerID, p.clientCount.Load())
	}
}

// Stats returns current publisher statistics.
func (p *Publisher) Stats() PublisherStats {
	return PublisherStats{
		PublishCount: p.publishCount.Load(),
		PeerCount:    p.clientCount.Load(),
		Dropped:      p.droppedFrames.Load(),
		Running:      p.running.Load(),
	}
}

// PublisherStats contains publisher statistics.
type PublisherStats struct {
	PublishCount uint64
	PeerCount    int32
	Dropped      uint64
	Running      bool
}

var _ mapping.SubmapPublisher = (*Publisher)(nil)
