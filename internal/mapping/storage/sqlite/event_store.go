package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-robotics/voxmap/internal/mapping"
	"github.com/meridian-robotics/voxmap/internal/monitoring"
)

// Event types recorded by the store.
const (
	EventCreated   = "created"
	EventFinalized = "finalized"
	EventPublished = "published"
	EventReceived  = "received"
)

// SubmapEvent is one persisted lifecycle transition.
type SubmapEvent struct {
	EventID    string           `json:"event_id"`
	RunID      string           `json:"run_id"`
	SubmapID   mapping.SubmapID `json:"submap_id"`
	EventType  string           `json:"event_type"`
	FrameCount int              `json:"frame_count"`
	BlockCount int              `json:"block_count"`
	BasePose   []float64        `json:"base_pose,omitempty"` // row-major 4x4, finalized events only
	CreatedAt  int64            `json:"created_at"`          // unix nanos
}

// EventStore persists submap lifecycle events for one process run.
type EventStore struct {
	db    *sql.DB
	runID string
}

// NewEventStore creates an EventStore writing rows tagged with runID.
func NewEventStore(db *sql.DB, runID string) *EventStore {
	return &EventStore{db: db, runID: runID}
}

// RunID returns the run id rows are tagged with.
func (s *EventStore) RunID() string {
	return s.runID
}

// Insert persists one event. If EventID is empty a UUID is generated;
// RunID and CreatedAt default likewise.
func (s *EventStore) Insert(ev *SubmapEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.New().String()
	}
	if ev.RunID == "" {
		ev.RunID = s.runID
	}
	if ev.CreatedAt == 0 {
		ev.CreatedAt = time.Now().UnixNano()
	}

	var poseStr interface{}
	if len(ev.BasePose) > 0 {
		data, err := json.Marshal(ev.BasePose)
		if err != nil {
			return fmt.Errorf("marshal base pose: %w", err)
		}
		poseStr = string(data)
	}

	err := retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO submap_events (
				event_id, run_id, submap_id, event_type,
				frame_count, block_count, base_pose, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			ev.EventID, ev.RunID, int64(ev.SubmapID), ev.EventType,
			ev.FrameCount, ev.BlockCount, poseStr, ev.CreatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting submap event %s: %w", ev.EventID, err)
	}
	return nil
}

// ListByRun returns all events for a run in chronological order.
func (s *EventStore) ListByRun(runID string) ([]*SubmapEvent, error) {
	rows, err := s.db.Query(`
		SELECT event_id, run_id, submap_id, event_type,
		       frame_count, block_count, base_pose, created_at
		FROM submap_events
		WHERE run_id = ?
		ORDER BY created_at ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query submap events: %w", err)
	}
	defer rows.Close()

	var events []*SubmapEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// ListBySubmap returns all events for one submap within a run.
func (s *EventStore) ListBySubmap(runID string, id mapping.SubmapID) ([]*SubmapEvent, error) {
	rows, err := s.db.Query(`
		SELECT event_id, run_id, submap_id, event_type,
		       frame_count, block_count, base_pose, created_at
		FROM submap_events
		WHERE run_id = ? AND submap_id = ?
		ORDER BY created_at ASC`, runID, int64(id))
	if err != nil {
		return nil, fmt.Errorf("query submap events: %w", err)
	}
	defer rows.Close()

	var events []*SubmapEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// SubmapPoses returns the last recorded base pose per submap in a run,
// keyed by submap id. Submaps whose events never carried a pose are
// omitted.
func (s *EventStore) SubmapPoses(runID string) (map[mapping.SubmapID][]float64, error) {
	events, err := s.ListByRun(runID)
	if err != nil {
		return nil, err
	}
	poses := make(map[mapping.SubmapID][]float64)
	for _, ev := range events {
		if len(ev.BasePose) > 0 {
			poses[ev.SubmapID] = ev.BasePose
		}
	}
	return poses, nil
}

func scanEvent(rows *sql.Rows) (*SubmapEvent, error) {
	var ev SubmapEvent
	var submapID int64
	var poseStr sql.NullString
	if err := rows.Scan(
		&ev.EventID, &ev.RunID, &submapID, &ev.EventType,
		&ev.FrameCount, &ev.BlockCount, &poseStr, &ev.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan submap event: %w", err)
	}
	ev.SubmapID = mapping.SubmapID(submapID)
	if poseStr.Valid && poseStr.String != "" {
		if err := json.Unmarshal([]byte(poseStr.String), &ev.BasePose); err != nil {
			return nil, fmt.Errorf("unmarshal base pose: %w", err)
		}
	}
	return &ev, nil
}

// EventSink adapts the store to the segmenter's lifecycle notifications
// and the exchange paths. Insert failures are logged and swallowed: the
// store is diagnostic and must never stall the pipeline.
type EventSink struct {
	store      *EventStore
	collection mapping.SubmapCollection
}

// NewEventSink creates a sink over the store. collection may be nil;
// block counts then stay zero.
func NewEventSink(store *EventStore, collection mapping.SubmapCollection) *EventSink {
	return &EventSink{store: store, collection: collection}
}

// SubmapCreated records a created event.
func (es *EventSink) SubmapCreated(submap *mapping.Submap) {
	es.record(&SubmapEvent{
		SubmapID:  submap.ID,
		EventType: EventCreated,
	})
}

// SubmapFinalized records a finalized event with the submap's frame
// count, block count and base pose.
func (es *EventSink) SubmapFinalized(submap *mapping.Submap) {
	es.record(&SubmapEvent{
		SubmapID:   submap.ID,
		EventType:  EventFinalized,
		FrameCount: submap.IntegratedFrameCount,
		BlockCount: es.blockCount(submap.ID),
		BasePose:   append([]float64(nil), submap.BasePose.T[:]...),
	})
}

// SubmapPublished records a published event.
func (es *EventSink) SubmapPublished(id mapping.SubmapID) {
	es.record(&SubmapEvent{
		SubmapID:  id,
		EventType: EventPublished,
	})
}

// SubmapReceived records a received event.
func (es *EventSink) SubmapReceived(submap *mapping.Submap) {
	es.record(&SubmapEvent{
		SubmapID:   submap.ID,
		EventType:  EventReceived,
		FrameCount: submap.IntegratedFrameCount,
		BlockCount: es.blockCount(submap.ID),
	})
}

func (es *EventSink) blockCount(id mapping.SubmapID) int {
	if es.collection == nil {
		return 0
	}
	layer, ok := es.collection.Layer(id)
	if !ok {
		return 0
	}
	return layer.BlockCount()
}

func (es *EventSink) record(ev *SubmapEvent) {
	if err := es.store.Insert(ev); err != nil {
		monitoring.Logf("[EventStore] Failed to record %s event for submap %d: %v", ev.EventType, ev.SubmapID, err)
	}
}

var _ mapping.SubmapEventSink = (*EventSink)(nil)
