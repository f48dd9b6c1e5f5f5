package events

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/roadmap"
)

func TestNoopPublisher(t *testing.T) {
	var pub Publisher = &NoopPublisher{}
	assert.NoError(t, pub.Publish(context.Background(), TopicProgressUpdated, ProgressUpdated{}))
	assert.NoError(t, pub.Close())
}

func TestNATSPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*NATSPublisher)(nil)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Publish(context.Background(), TopicProgressUpdated, ProgressUpdated{NodeID: "a"}))
	msgs := r.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, TopicProgressUpdated, msgs[0].Topic)
	assert.Equal(t, "a", msgs[0].Event.(ProgressUpdated).NodeID)
}

func TestProgressUpdated_JSON(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	b, err := json.Marshal(ProgressUpdated{RoadmapID: "fe", UserID: "u1", NodeID: "css", Status: roadmap.StatusCompleted, At: at})
	require.NoError(t, err)
	assert.JSONEq(t, `{"roadmap_id":"fe","user_id":"u1","node_id":"css","status":"completed","at":"2025-03-01T12:00:00Z"}`, string(b))
}

// Runs against a live server when ROADMAP_TEST_NATS_URL is set.
func TestNATSPublisher_Publish(t *testing.T) {
	url := os.Getenv("ROADMAP_TEST_NATS_URL")
	if url == "" {
		t.Skip("ROADMAP_TEST_NATS_URL not set")
	}

	pub, err := NewNATSPublisher(url)
	require.NoError(t, err)
	defer pub.Close()

	nc, err := nats.Connect(url)
	require.NoError(t, err)
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe(TopicProgressUpdated, ch)
	require.NoError(t, err)
	defer sub.Unsubscribe() //nolint:errcheck
	require.NoError(t, nc.Flush())

	require.NoError(t, pub.Publish(context.Background(), TopicProgressUpdated, ProgressUpdated{NodeID: "css", Status: roadmap.StatusSkipped}))
	require.NoError(t, pub.conn.Flush())

	select {
	case msg := <-ch:
		var got ProgressUpdated
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, "css", got.NodeID)
		assert.Equal(t, roadmap.StatusSkipped, got.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}
