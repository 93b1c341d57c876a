package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/meridian-robotics/voxmap/internal/mapping"
	"github.com/meridian-robotics/voxmap/internal/mapping/exchange/pb"
	"github.com/meridian-robotics/voxmap/internal/mapping/timing"
	"github.com/meridian-robotics/voxmap/internal/monitoring"
	"github.com/meridian-robotics/voxmap/internal/timeutil"
)

const (
	reconnectMinBackoff = time.Second
	reconnectMaxBackoff = 30 * time.Second
)

// InboundHandler consumes decoded remote submaps. Apply returns the
// collection size after the submap has been absorbed; the subscriber
// records it in the exchange event log.
type InboundHandler interface {
	HandleRemoteSubmap(sm *mapping.Submap, layer *mapping.VolumetricLayer) (collectionSize int, err error)
}

// SubscriberConfig holds configuration for a peer subscription.
type SubscriberConfig struct {
	// PeerAddr is the remote exchange server address.
	PeerAddr string

	// LocalID identifies this node to the peer.
	LocalID string

	// WorldFrame names the global frame for decoded base poses.
	WorldFrame string
}

// Subscriber maintains a client connection to a peer's submap stream,
// decoding each received submap and handing it to the handler. The
// connection is retried with exponential backoff until Stop.
type Subscriber struct {
	config  SubscriberConfig
	handler InboundHandler
	ledger  *timing.Ledger
	writer  *timing.Writer
	stats   *mapping.FrameStats
	clock   timeutil.Clock

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSubscriber creates a Subscriber. ledger, writer and stats may be nil.
func NewSubscriber(cfg SubscriberConfig, handler InboundHandler, ledger *timing.Ledger, writer *timing.Writer, stats *mapping.FrameStats) *Subscriber {
	return &Subscriber{
		config:  cfg,
		handler: handler,
		ledger:  ledger,
		writer:  writer,
		stats:   stats,
		clock:   timeutil.RealClock{},
	}
}

// SetClock overrides the wall clock. Test hook.
func (s *Subscriber) SetClock(c timeutil.Clock) {
	s.clock = c
}

// Start launches the receive loop. It returns immediately.
func (s *Subscriber) Start(ctx context.Context) error {
	if s.config.PeerAddr == "" {
		return fmt.Errorf("subscriber: no peer address")
	}
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run(ctx)
	return nil
}

// Stop tears down the connection and waits for the receive loop to exit.
func (s *Subscriber) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Subscriber) run(ctx context.Context) {
	defer s.wg.Done()

	backoff := reconnectMinBackoff
	for {
		if ctx.Err() != nil {
			return
		}
		err := s.streamOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			monitoring.Logf("[Exchange] Peer stream %s ended: %v (retrying in %v)", s.config.PeerAddr, err, backoff)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > reconnectMaxBackoff {
			backoff = reconnectMaxBackoff
		}
	}
}

// streamOnce dials the peer and drains one stream until it breaks.
func (s *Subscriber) streamOnce(ctx context.Context) error {
	conn, err := grpc.NewClient(s.config.PeerAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(maxMsgSize)),
	)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.config.PeerAddr, err)
	}
	defer conn.Close()

	client := pb.NewSubmapExchangeClient(conn)
	stream, err := client.StreamSubmaps(ctx, &pb.StreamRequest{PeerId: s.config.LocalID})
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	monitoring.Logf("[Exchange] Subscribed to peer %s", s.config.PeerAddr)

	for {
		msg, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		s.handleMessage(msg)
	}
}

// handleMessage decodes and applies one inbound submap. Malformed
// messages are counted and dropped without touching the collection.
func (s *Subscriber) handleMessage(msg *pb.Submap) {
	// Stamp the arrival before decoding and merging so the receive log
	// reflects network latency, not local processing time.
	arrival := s.clock.Now()

	var t *timing.Timer
	if s.ledger != nil {
		t = s.ledger.Start("exchange/decode_submap")
	}
	sm, layer, err := SubmapFromProto(msg, s.config.WorldFrame)
	if t != nil {
		t.Stop()
	}
	if err != nil {
		if s.stats != nil {
			s.stats.AddMalformed()
		}
		monitoring.Logf("[Exchange] Dropping inbound submap: %v", err)
		return
	}

	size, err := s.handler.HandleRemoteSubmap(sm, layer)
	if err != nil {
		monitoring.Logf("[Exchange] Inbound submap %d rejected: %v", sm.ID, err)
		return
	}
	if s.stats != nil {
		s.stats.AddReceived()
	}
	if s.writer != nil {
		s.writer.WriteEvent(timing.DirectionReceived, size, arrival)
	}
}
