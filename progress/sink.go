package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/meikuraledutech/roadmap"
	"github.com/meikuraledutech/roadmap/events"
)

// SinkFunc adapts a function to the viewer's progress sink.
type SinkFunc func(nodeID string, status roadmap.Status)

func (f SinkFunc) ProgressUpdated(nodeID string, status roadmap.Status) { f(nodeID, status) }

// Update is one status change waiting to be persisted.
type Update struct {
	RoadmapID string
	UserID    string
	NodeID    string
	Status    roadmap.Status
	At        time.Time
}

// DefaultBuffer is the queue length used when NewAsyncSink gets a non-positive size.
const DefaultBuffer = 256

// AsyncSink persists status changes on a single background worker, in the
// order they were enqueued, and publishes a ProgressUpdated event for each.
// Enqueue never blocks: when the queue is full the update is dropped with a
// warning.
type AsyncSink struct {
	store   roadmap.Store
	pub     events.Publisher
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Update
	done   chan struct{}
}

// NewAsyncSink starts the worker. store and pub may be nil.
func NewAsyncSink(store roadmap.Store, pub events.Publisher, logger *slog.Logger, buffer int) *AsyncSink {
	if pub == nil {
		pub = &events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	s := &AsyncSink{
		store:   store,
		pub:     pub,
		logger:  logger,
		timeout: 5 * time.Second,
		queue:   make(chan Update, buffer),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Enqueue schedules u and reports whether it was accepted.
func (s *AsyncSink) Enqueue(u Update) bool {
	if u.At.IsZero() {
		u.At = time.Now().UTC()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.logger.Warn("progress sink closed, dropping update", "roadmap", u.RoadmapID, "node", u.NodeID)
		return false
	}
	select {
	case s.queue <- u:
		return true
	default:
		s.logger.Warn("progress sink full, dropping update",
			"roadmap", u.RoadmapID, "user", u.UserID, "node", u.NodeID, "status", u.Status.String())
		return false
	}
}

// For binds the sink to one learner on one roadmap.
func (s *AsyncSink) For(roadmapID, userID string) SinkFunc {
	return func(nodeID string, status roadmap.Status) {
		s.Enqueue(Update{RoadmapID: roadmapID, UserID: userID, NodeID: nodeID, Status: status})
	}
}

// Close stops accepting updates and waits for the queue to drain.
func (s *AsyncSink) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	<-s.done
}

func (s *AsyncSink) run() {
	defer close(s.done)
	for u := range s.queue {
		s.persist(u)
	}
}

func (s *AsyncSink) persist(u Update) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if s.store != nil {
		if err := s.store.SetProgress(ctx, u.RoadmapID, u.UserID, u.NodeID, u.Status); err != nil {
			s.logger.Warn("failed to persist progress",
				"roadmap", u.RoadmapID, "user", u.UserID, "node", u.NodeID, "error", err)
			return
		}
	}
	event := events.ProgressUpdated{
		RoadmapID: u.RoadmapID, UserID: u.UserID, NodeID: u.NodeID, Status: u.Status, At: u.At,
	}
	if err := s.pub.Publish(ctx, events.TopicProgressUpdated, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", events.TopicProgressUpdated, "node", u.NodeID, "error", err)
	}
}
