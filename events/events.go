// Package events publishes learner progress changes to an event bus.
package events

import (
	"context"
	"time"

	"github.com/meikuraledutech/roadmap"
)

// TopicProgressUpdated carries a ProgressUpdated for every persisted status change.
const TopicProgressUpdated = "roadmap.progress.updated"

type ProgressUpdated struct {
	RoadmapID string         `json:"roadmap_id"`
	UserID    string         `json:"user_id"`
	NodeID    string         `json:"node_id"`
	Status    roadmap.Status `json:"status"`
	At        time.Time      `json:"at"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
