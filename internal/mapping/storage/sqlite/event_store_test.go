package sqlite

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-robotics/voxmap/internal/mapping"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndListByRun(t *testing.T) {
	db := setupTestDB(t)
	store := NewEventStore(db, "run-1")

	require.NoError(t, store.Insert(&SubmapEvent{SubmapID: 0, EventType: EventCreated}))
	require.NoError(t, store.Insert(&SubmapEvent{SubmapID: 0, EventType: EventFinalized, FrameCount: 21, BlockCount: 14}))
	require.NoError(t, store.Insert(&SubmapEvent{SubmapID: 1, EventType: EventCreated}))

	events, err := store.ListByRun("run-1")
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, EventCreated, events[0].EventType)
	assert.Equal(t, EventFinalized, events[1].EventType)
	assert.Equal(t, 21, events[1].FrameCount)
	assert.Equal(t, 14, events[1].BlockCount)
	assert.NotEmpty(t, events[0].EventID)
	assert.Equal(t, "run-1", events[0].RunID)
	assert.NotZero(t, events[0].CreatedAt)
}

func TestListBySubmap(t *testing.T) {
	db := setupTestDB(t)
	store := NewEventStore(db, "run-1")

	require.NoError(t, store.Insert(&SubmapEvent{SubmapID: 0, EventType: EventCreated}))
	require.NoError(t, store.Insert(&SubmapEvent{SubmapID: 1, EventType: EventCreated}))
	require.NoError(t, store.Insert(&SubmapEvent{SubmapID: 1, EventType: EventPublished}))

	events, err := store.ListBySubmap("run-1", 1)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventPublished, events[1].EventType)
}

func TestRunsAreIsolated(t *testing.T) {
	db := setupTestDB(t)
	a := NewEventStore(db, "run-a")
	b := NewEventStore(db, "run-b")

	require.NoError(t, a.Insert(&SubmapEvent{SubmapID: 0, EventType: EventCreated}))
	require.NoError(t, b.Insert(&SubmapEvent{SubmapID: 0, EventType: EventCreated}))

	events, err := a.ListByRun("run-a")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestInsertRejectsUnknownEventType(t *testing.T) {
	db := setupTestDB(t)
	store := NewEventStore(db, "run-1")
	err := store.Insert(&SubmapEvent{SubmapID: 0, EventType: "exploded"})
	assert.Error(t, err, "CHECK constraint must reject unknown event types")
}

func TestBasePoseRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	store := NewEventStore(db, "run-1")

	pose := mapping.IdentityPose("submap/2", "world")
	pose.T[7] = -3.5
	require.NoError(t, store.Insert(&SubmapEvent{
		SubmapID:  2,
		EventType: EventFinalized,
		BasePose:  pose.T[:],
	}))

	poses, err := store.SubmapPoses("run-1")
	require.NoError(t, err)
	require.Contains(t, poses, mapping.SubmapID(2))
	assert.Equal(t, -3.5, poses[mapping.SubmapID(2)][7])
}

func TestEventSinkRecordsLifecycle(t *testing.T) {
	db := setupTestDB(t)
	store := NewEventStore(db, "run-1")
	sink := NewEventSink(store, nil)

	sm := &mapping.Submap{
		ID:                   3,
		BasePose:             mapping.IdentityPose("submap/3", "world"),
		IntegratedFrameCount: 7,
	}
	sink.SubmapCreated(sm)
	sink.SubmapFinalized(sm)
	sink.SubmapPublished(sm.ID)

	events, err := store.ListBySubmap("run-1", 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, EventCreated, events[0].EventType)
	assert.Equal(t, EventFinalized, events[1].EventType)
	assert.Equal(t, 7, events[1].FrameCount)
	assert.Len(t, events[1].BasePose, 16)
	assert.Equal(t, EventPublished, events[2].EventType)
}

func TestRetryOnBusyPassesThroughOtherErrors(t *testing.T) {
	calls := 0
	wantErr := errors.New("constraint violation")
	err := retryOnBusy(func() error {
		calls++
		return wantErr
	})
	assert.Equal(t, 1, calls, "non-busy errors must not be retried")
	assert.ErrorIs(t, err, wantErr)
}

func TestRetryOnBusyRetries(t *testing.T) {
	calls := 0
	err := retryOnBusy(func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}
