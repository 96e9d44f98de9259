package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "visaflow/pkg/domain"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	userID := id.UserID(uuid.New())
	err := pub.Emit(context.Background(), Event{UserID: userID, Action: string(EventDocumentReviewed)})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(EventDocumentReviewed), events[0].Action)
	assert.Equal(t, CategoryCompliance, events[0].Category)
	assert.False(t, events[0].ID.IsNil())
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	userID := id.UserID(uuid.New())
	for range 10 {
		require.NoError(t, pub.Emit(context.Background(), Event{UserID: userID, Action: string(EventDocumentAttached)}))
	}

	pub.Close()
	pub.Close()

	events, err := store.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
	assert.Equal(t, CategoryOperations, events[0].Category)
}

func TestPublisher_EmitAfterClose(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(4))
	pub.Close()

	userID := id.UserID(uuid.New())
	assert.NotPanics(t, func() {
		err := pub.Emit(context.Background(), Event{UserID: userID, Action: string(EventDocumentAttached)})
		assert.ErrorIs(t, err, ErrClosed)
	})

	events, err := store.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestPublisher_ConcurrentEmitAndClose(t *testing.T) {
	pub := NewPublisher(NewInMemoryStore(), WithAsyncBuffer(8))
	userID := id.UserID(uuid.New())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 200 {
			err := pub.Emit(context.Background(), Event{UserID: userID, Action: "x"})
			if err != nil && !errors.Is(err, ErrClosed) && !errors.Is(err, ErrBufferFull) {
				t.Errorf("unexpected emit error: %v", err)
			}
		}
	}()
	pub.Close()
	<-done
}

func TestPublisher_BufferFull(t *testing.T) {
	store := &blockingStore{release: make(chan struct{})}
	pub := NewPublisher(store, WithAsyncBuffer(1))

	userID := id.UserID(uuid.New())
	var full bool
	for range 5 {
		if err := pub.Emit(context.Background(), Event{UserID: userID, Action: "x"}); errors.Is(err, ErrBufferFull) {
			full = true
		}
	}
	close(store.release)
	pub.Close()

	assert.True(t, full, "a blocked worker with a one-slot queue must reject some events")
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)

	userID := id.UserID(uuid.New())
	before := time.Now()
	require.NoError(t, pub.Emit(context.Background(), Event{UserID: userID, Action: string(EventRouteChosen)}))
	after := time.Now()

	custom := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(context.Background(), Event{UserID: userID, Action: string(EventRouteChosen), Timestamp: custom}))

	events, err := pub.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.False(t, events[0].Timestamp.Before(before))
	assert.False(t, events[0].Timestamp.After(after))
	assert.Equal(t, custom, events[1].Timestamp)
}

func TestTeeStore(t *testing.T) {
	primary := NewInMemoryStore()
	mirror := NewInMemoryStore()
	failing := &failingSink{err: errors.New("broker down")}
	tee := NewTeeStore(primary, mirror, failing)

	userID := id.UserID(uuid.New())
	err := tee.Append(context.Background(), Event{UserID: userID, Action: "x"})
	assert.ErrorIs(t, err, failing.err)

	fromPrimary, _ := tee.ListByUser(context.Background(), userID)
	fromMirror, _ := mirror.ListByUser(context.Background(), userID)
	assert.Len(t, fromPrimary, 1)
	assert.Len(t, fromMirror, 1)
}

func TestWorkerStopsWhenInboxCloses(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 2)
	inbox <- Event{UserID: id.UserID(uuid.New()), Action: "a"}
	close(inbox)

	err := NewWorker(store, inbox, nil).Run(context.Background())
	assert.NoError(t, err)
}

func TestWorkerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewWorker(NewInMemoryStore(), make(chan Event), nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type blockingStore struct {
	release chan struct{}
}

func (s *blockingStore) Append(context.Context, Event) error {
	<-s.release
	return nil
}

func (s *blockingStore) ListByUser(context.Context, id.UserID) ([]Event, error) {
	return nil, nil
}

type failingSink struct{ err error }

func (f *failingSink) Append(context.Context, Event) error { return f.err }
