package progress

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/roadmap"
	"github.com/meikuraledutech/roadmap/events"
	"github.com/meikuraledutech/roadmap/memory"
	"github.com/meikuraledutech/roadmap/storetest"
)

func TestAsyncSink_PersistsInOrderAndPublishes(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	_, err := store.CreateRoadmap(ctx, storetest.Phased())
	require.NoError(t, err)
	rec := &events.Recorder{}

	sink := NewAsyncSink(store, rec, nil, 16)
	update := sink.For("frontend", "u1")
	update("html", roadmap.StatusInProgress)
	update("html", roadmap.StatusCompleted)
	update("css", roadmap.StatusSkipped)
	update("css", roadmap.StatusPending)
	sink.Close()

	got, err := store.GetProgress(ctx, "frontend", "u1")
	require.NoError(t, err)
	assert.Equal(t, roadmap.StatusMap{"html": roadmap.StatusCompleted}, got)

	msgs := rec.Messages()
	require.Len(t, msgs, 4)
	for _, m := range msgs {
		assert.Equal(t, events.TopicProgressUpdated, m.Topic)
	}
	last := msgs[3].Event.(events.ProgressUpdated)
	assert.Equal(t, "css", last.NodeID)
	assert.Equal(t, roadmap.StatusPending, last.Status)
	assert.Equal(t, "u1", last.UserID)
	assert.False(t, last.At.IsZero())
}

func TestAsyncSink_FailedPersistIsLoggedNotPublished(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	rec := &events.Recorder{}

	sink := NewAsyncSink(memory.New(), rec, logger, 4)
	sink.Enqueue(Update{RoadmapID: "missing", UserID: "u1", NodeID: "x", Status: roadmap.StatusCompleted})
	sink.Close()

	assert.Empty(t, rec.Messages())
	assert.Contains(t, buf.String(), "failed to persist progress")
}

// blockingStore holds the worker inside SetProgress until released.
type blockingStore struct {
	roadmap.Store
	release chan struct{}
	once    sync.Once
	entered chan struct{}
}

func (b *blockingStore) SetProgress(ctx context.Context, roadmapID, userID, nodeID string, status roadmap.Status) error {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return nil
}

func TestAsyncSink_DropsWhenFull(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	store := &blockingStore{Store: memory.New(), release: make(chan struct{}), entered: make(chan struct{})}

	sink := NewAsyncSink(store, nil, logger, 1)
	require.True(t, sink.Enqueue(Update{NodeID: "a"}))
	<-store.entered
	require.True(t, sink.Enqueue(Update{NodeID: "b"}))
	assert.False(t, sink.Enqueue(Update{NodeID: "c"}))
	assert.Contains(t, buf.String(), "progress sink full")

	close(store.release)
	sink.Close()
	assert.False(t, sink.Enqueue(Update{NodeID: "d"}))
	sink.Close()
}

func TestSinkFunc(t *testing.T) {
	var got []string
	var s interface {
		ProgressUpdated(string, roadmap.Status)
	} = SinkFunc(func(id string, st roadmap.Status) { got = append(got, id+"="+st.String()) })
	s.ProgressUpdated("a", roadmap.StatusSkipped)
	assert.Equal(t, []string{"a=skipped"}, got)
}
