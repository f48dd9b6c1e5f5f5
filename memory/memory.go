// Package memory is an in-process roadmap.Store. It backs tests, the CLI, and
// the server when no database is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/meikuraledutech/roadmap"
)

type progressKey struct {
	roadmapID string
	userID    string
}

// Store implements roadmap.Store with maps guarded by a mutex. Documents are
// copied on the way in and out.
type Store struct {
	mu       sync.RWMutex
	roadmaps map[string]*roadmap.Roadmap
	order    []string
	progress map[progressKey]roadmap.StatusMap
}

// New returns an empty store.
func New() *Store {
	return &Store{
		roadmaps: make(map[string]*roadmap.Roadmap),
		progress: make(map[progressKey]roadmap.StatusMap),
	}
}

var _ roadmap.Store = (*Store)(nil)

// CreateSchema is a no-op; the maps always exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	return nil
}

// DropSchema discards every roadmap and all progress.
func (s *Store) DropSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roadmaps = make(map[string]*roadmap.Roadmap)
	s.order = nil
	s.progress = make(map[progressKey]roadmap.StatusMap)
	return nil
}

// CreateRoadmap stores r, replacing any roadmap with the same id.
// Missing ids are generated. Documents with duplicate node ids or cyclic
// edges are rejected. Progress on nodes that no longer exist is dropped.
func (s *Store) CreateRoadmap(ctx context.Context, r *roadmap.Roadmap) (*roadmap.Roadmap, error) {
	r.AssignIDs(uuid.NewString)
	if _, err := r.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roadmaps[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.roadmaps[r.ID] = r.Clone()

	index := r.Index()
	for k, m := range s.progress {
		if k.roadmapID != r.ID {
			continue
		}
		for id := range m {
			if _, ok := index[id]; !ok {
				delete(m, id)
			}
		}
	}
	return r, nil
}

// GetRoadmap returns nil, nil if the roadmap doesn't exist.
func (s *Store) GetRoadmap(ctx context.Context, roadmapID string) (*roadmap.Roadmap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roadmaps[roadmapID]
	if !ok {
		return nil, nil
	}
	return r.Clone(), nil
}

// DeleteRoadmap removes the roadmap and its progress. No error if it doesn't exist.
func (s *Store) DeleteRoadmap(ctx context.Context, roadmapID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roadmaps[roadmapID]; !ok {
		return nil
	}
	delete(s.roadmaps, roadmapID)
	for i, id := range s.order {
		if id == roadmapID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for k := range s.progress {
		if k.roadmapID == roadmapID {
			delete(s.progress, k)
		}
	}
	return nil
}

// ListRoadmaps returns summaries in creation order, never nil.
func (s *Store) ListRoadmaps(ctx context.Context) ([]roadmap.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]roadmap.Summary, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.roadmaps[id].Summarize())
	}
	return out, nil
}

// GetNode returns nil, nil if the node doesn't exist.
func (s *Store) GetNode(ctx context.Context, roadmapID, nodeID string) (*roadmap.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roadmaps[roadmapID]
	if !ok {
		return nil, nil
	}
	n := r.Find(nodeID)
	if n == nil {
		return nil, nil
	}
	out := *n
	out.Keywords = append([]string(nil), n.Keywords...)
	out.Children = nil
	return &out, nil
}

// GetProgress returns an empty map when the learner has no progress yet.
func (s *Store) GetProgress(ctx context.Context, roadmapID, userID string) (roadmap.StatusMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.roadmaps[roadmapID]; !ok {
		return nil, roadmap.ErrRoadmapNotFound
	}
	return s.progress[progressKey{roadmapID, userID}].Clone(), nil
}

// SetProgress records status for one node. Pending clears the entry.
func (s *Store) SetProgress(ctx context.Context, roadmapID, userID, nodeID string, status roadmap.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.roadmaps[roadmapID]
	if !ok {
		return roadmap.ErrRoadmapNotFound
	}
	if r.Find(nodeID) == nil {
		return fmt.Errorf("%w: %q", roadmap.ErrNodeNotFound, nodeID)
	}
	key := progressKey{roadmapID, userID}
	m := s.progress[key]
	if m == nil {
		m = make(roadmap.StatusMap)
		s.progress[key] = m
	}
	if status == roadmap.StatusPending {
		delete(m, nodeID)
	} else {
		m[nodeID] = status
	}
	return nil
}

// ResetProgress forgets every status of one learner on one roadmap.
func (s *Store) ResetProgress(ctx context.Context, roadmapID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.progress, progressKey{roadmapID, userID})
	return nil
}
