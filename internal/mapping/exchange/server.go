package exchange

import (
	"github.com/google/uuid"

	"github.com/meridian-robotics/voxmap/internal/mapping/exchange/pb"
	"github.com/meridian-robotics/voxmap/internal/monitoring"
)

// exchangeService implements pb.SubmapExchangeServer on top of the
// publisher's client registry.
type exchangeService struct {
	pb.UnimplementedSubmapExchangeServer
	pub *Publisher
}

// StreamSubmaps registers the caller as a peer and streams every
// published submap to it until the peer disconnects or the server stops.
func (s *exchangeService) StreamSubmaps(req *pb.StreamRequest, stream pb.SubmapExchange_StreamSubmapsServer) error {
	peerID := req.GetPeerId()
	if peerID == "" {
		peerID = "anonymous"
	}

	client, err := s.pub.addClient(uuid.NewString(), peerID)
	if err != nil {
		monitoring.Logf("[Exchange] Rejecting peer %s: %v", peerID, err)
		return err
	}
	defer s.pub.removeClient(client.id)

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.pub.stopCh:
			return nil
		case msg := <-client.submapCh:
			if err := stream.Send(msg); err != nil {
				monitoring.Logf("[Exchange] Send to peer %s failed: %v", peerID, err)
				return err
			}
		}
	}
}
