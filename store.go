package roadmap

import (
	"context"
	"errors"
)

var (
	ErrRoadmapNotFound = errors.New("roadmap: roadmap not found")
	ErrNodeNotFound    = errors.New("roadmap: node not found")
	ErrCycleDetected   = errors.New("roadmap: cycle detected, edges are not acyclic")
	ErrDuplicateNode   = errors.New("roadmap: duplicate node id")
	ErrInvalidStatus   = errors.New("roadmap: invalid status")
)

// Summary is the listing view of a stored roadmap.
type Summary struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Description         string `json:"description,omitempty"`
	TotalEstimatedHours int    `json:"total_estimated_hours,omitempty"`
	NodeCount           int    `json:"node_count"`
}

// Store defines the contract for persisting roadmap documents and per-user progress.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Roadmaps (whole-document operations)
	CreateRoadmap(ctx context.Context, r *Roadmap) (*Roadmap, error)
	GetRoadmap(ctx context.Context, roadmapID string) (*Roadmap, error)
	DeleteRoadmap(ctx context.Context, roadmapID string) error
	ListRoadmaps(ctx context.Context) ([]Summary, error)

	// Nodes
	GetNode(ctx context.Context, roadmapID, nodeID string) (*Node, error)

	// Progress
	GetProgress(ctx context.Context, roadmapID, userID string) (StatusMap, error)
	SetProgress(ctx context.Context, roadmapID, userID, nodeID string, status Status) error
	ResetProgress(ctx context.Context, roadmapID, userID string) error
}

// Summarize returns the listing view of r.
func (r *Roadmap) Summarize() Summary {
	return Summary{
		ID:                  r.ID,
		Title:               r.Title,
		Description:         r.Description,
		TotalEstimatedHours: r.TotalEstimatedHours,
		NodeCount:           len(r.NodeIDs()),
	}
}

// AssignIDs fills missing roadmap, node and edge ids with values from newID.
func (r *Roadmap) AssignIDs(newID func() string) {
	if r.ID == "" {
		r.ID = newID()
	}
	fill := func(n *Node) {
		if n.ID == "" {
			n.ID = newID()
		}
	}
	if r.Root != nil {
		walkPtr(r.Root, fill)
	}
	for i := range r.Nodes {
		fill(&r.Nodes[i])
	}
	for i := range r.Edges {
		if r.Edges[i].ID == "" {
			r.Edges[i].ID = newID()
		}
	}
}
