// Package storetest holds behaviour tests shared by every roadmap.Store.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/roadmap"
)

// Phased returns a small flat document grouped into two phases.
func Phased() *roadmap.Roadmap {
	return &roadmap.Roadmap{
		ID:                  "frontend",
		Title:               "Frontend Developer",
		Description:         "From markup to frameworks",
		TotalEstimatedHours: 120,
		Phases: []roadmap.Group{
			{ID: "p1", Title: "Basics", Order: 1},
			{ID: "p2", Title: "Frameworks", Order: 2},
		},
		Nodes: []roadmap.Node{
			{ID: "html", Title: "HTML", PhaseID: "p1", Keywords: []string{"html", "semantics"}, Difficulty: roadmap.DifficultyBeginner},
			{ID: "css", Title: "CSS", PhaseID: "p1", Type: roadmap.TypeCore},
			{ID: "js", Title: "JavaScript", PhaseID: "p1", EstimatedHours: 40},
			{ID: "react", Title: "React", PhaseID: "p2", Keywords: []string{"react", "hooks"}},
			{ID: "vue", Title: "Vue", PhaseID: "p2", Type: roadmap.TypeAlternative},
		},
		Edges: []roadmap.Edge{
			{ID: "e1", Source: "html", Target: "css"},
			{ID: "e2", Source: "css", Target: "js"},
			{ID: "e3", Source: "js", Target: "react"},
			{ID: "e4", Source: "js", Target: "vue"},
		},
	}
}

// Tree returns a small tree document.
func Tree() *roadmap.Roadmap {
	return &roadmap.Roadmap{
		ID:    "backend",
		Title: "Backend",
		Root: &roadmap.Node{ID: "be", Title: "Backend", Children: []roadmap.Node{
			{ID: "lang", Title: "Pick a language", Children: []roadmap.Node{
				{ID: "go", Title: "Go", Type: roadmap.TypeCore},
				{ID: "python", Title: "Python", Type: roadmap.TypeAlternative},
			}},
			{ID: "db", Title: "Databases", Type: roadmap.TypeOptional},
		}},
	}
}

// Run exercises newStore against the roadmap.Store contract. newStore must
// return a store with an empty, created schema.
func Run(t *testing.T, newStore func(t *testing.T) roadmap.Store) {
	ctx := context.Background()

	t.Run("CreateAndGetPhased", func(t *testing.T) {
		s := newStore(t)
		_, err := s.CreateRoadmap(ctx, Phased())
		require.NoError(t, err)

		got, err := s.GetRoadmap(ctx, "frontend")
		require.NoError(t, err)
		require.NotNil(t, got)
		want := Phased()
		assert.Equal(t, want.Title, got.Title)
		assert.Equal(t, want.TotalEstimatedHours, got.TotalEstimatedHours)
		assert.Equal(t, want.Phases, got.Phases)
		assert.Equal(t, want.Nodes, got.Nodes)
		assert.Equal(t, want.Edges, got.Edges)
		assert.Nil(t, got.Root)
	})

	t.Run("CreateAndGetTree", func(t *testing.T) {
		s := newStore(t)
		_, err := s.CreateRoadmap(ctx, Tree())
		require.NoError(t, err)

		got, err := s.GetRoadmap(ctx, "backend")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.Root)
		assert.Equal(t, *Tree().Root, *got.Root)
	})

	t.Run("MissingIDsAreGenerated", func(t *testing.T) {
		s := newStore(t)
		doc := &roadmap.Roadmap{Title: "Anon", Nodes: []roadmap.Node{{Title: "a"}, {Title: "b"}}}
		created, err := s.CreateRoadmap(ctx, doc)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.NotEmpty(t, created.Nodes[0].ID)
		assert.NotEqual(t, created.Nodes[0].ID, created.Nodes[1].ID)
	})

	t.Run("CreateReplaces", func(t *testing.T) {
		s := newStore(t)
		_, err := s.CreateRoadmap(ctx, Phased())
		require.NoError(t, err)

		smaller := Phased()
		smaller.Nodes = smaller.Nodes[:2]
		smaller.Edges = smaller.Edges[:1]
		_, err = s.CreateRoadmap(ctx, smaller)
		require.NoError(t, err)

		got, err := s.GetRoadmap(ctx, "frontend")
		require.NoError(t, err)
		assert.Len(t, got.Nodes, 2)
		assert.Len(t, got.Edges, 1)

		list, err := s.ListRoadmaps(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("RejectsCyclesAndDuplicates", func(t *testing.T) {
		s := newStore(t)
		cyclic := Phased()
		cyclic.Edges = append(cyclic.Edges, roadmap.Edge{ID: "back", Source: "react", Target: "html"})
		_, err := s.CreateRoadmap(ctx, cyclic)
		assert.ErrorIs(t, err, roadmap.ErrCycleDetected)

		dup := Phased()
		dup.Nodes = append(dup.Nodes, roadmap.Node{ID: "css"})
		_, err = s.CreateRoadmap(ctx, dup)
		assert.ErrorIs(t, err, roadmap.ErrDuplicateNode)

		got, err := s.GetRoadmap(ctx, "frontend")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		got, err := s.GetRoadmap(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)

		n, err := s.GetNode(ctx, "nope", "html")
		require.NoError(t, err)
		assert.Nil(t, n)
	})

	t.Run("ListAndDelete", func(t *testing.T) {
		s := newStore(t)
		_, err := s.CreateRoadmap(ctx, Phased())
		require.NoError(t, err)
		_, err = s.CreateRoadmap(ctx, Tree())
		require.NoError(t, err)

		list, err := s.ListRoadmaps(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, roadmap.Summary{
			ID: "frontend", Title: "Frontend Developer", Description: "From markup to frameworks",
			TotalEstimatedHours: 120, NodeCount: 5,
		}, list[0])
		assert.Equal(t, 5, list[1].NodeCount)

		require.NoError(t, s.DeleteRoadmap(ctx, "frontend"))
		require.NoError(t, s.DeleteRoadmap(ctx, "frontend"))
		list, err = s.ListRoadmaps(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "backend", list[0].ID)
	})

	t.Run("GetNode", func(t *testing.T) {
		s := newStore(t)
		_, err := s.CreateRoadmap(ctx, Tree())
		require.NoError(t, err)

		n, err := s.GetNode(ctx, "backend", "python")
		require.NoError(t, err)
		require.NotNil(t, n)
		assert.Equal(t, "Python", n.Title)
		assert.Equal(t, roadmap.TypeAlternative, n.Type)

		n, err = s.GetNode(ctx, "backend", "lang")
		require.NoError(t, err)
		require.NotNil(t, n)
		assert.Empty(t, n.Children)

		n, err = s.GetNode(ctx, "backend", "ghost")
		require.NoError(t, err)
		assert.Nil(t, n)
	})

	t.Run("Progress", func(t *testing.T) {
		s := newStore(t)
		_, err := s.CreateRoadmap(ctx, Phased())
		require.NoError(t, err)

		got, err := s.GetProgress(ctx, "frontend", "u1")
		require.NoError(t, err)
		assert.Empty(t, got)

		require.NoError(t, s.SetProgress(ctx, "frontend", "u1", "html", roadmap.StatusCompleted))
		require.NoError(t, s.SetProgress(ctx, "frontend", "u1", "css", roadmap.StatusInProgress))
		require.NoError(t, s.SetProgress(ctx, "frontend", "u1", "css", roadmap.StatusSkipped))
		require.NoError(t, s.SetProgress(ctx, "frontend", "u2", "js", roadmap.StatusLocked))

		got, err = s.GetProgress(ctx, "frontend", "u1")
		require.NoError(t, err)
		assert.Equal(t, roadmap.StatusMap{"html": roadmap.StatusCompleted, "css": roadmap.StatusSkipped}, got)

		require.NoError(t, s.SetProgress(ctx, "frontend", "u1", "html", roadmap.StatusPending))
		got, err = s.GetProgress(ctx, "frontend", "u1")
		require.NoError(t, err)
		assert.Equal(t, roadmap.StatusMap{"css": roadmap.StatusSkipped}, got)

		require.NoError(t, s.ResetProgress(ctx, "frontend", "u1"))
		got, err = s.GetProgress(ctx, "frontend", "u1")
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = s.GetProgress(ctx, "frontend", "u2")
		require.NoError(t, err)
		assert.Equal(t, roadmap.StatusLocked, got.Get("js"))
	})

	t.Run("ProgressErrors", func(t *testing.T) {
		s := newStore(t)
		_, err := s.CreateRoadmap(ctx, Phased())
		require.NoError(t, err)

		err = s.SetProgress(ctx, "frontend", "u1", "ghost", roadmap.StatusCompleted)
		assert.ErrorIs(t, err, roadmap.ErrNodeNotFound)
		err = s.SetProgress(ctx, "nope", "u1", "html", roadmap.StatusCompleted)
		assert.ErrorIs(t, err, roadmap.ErrRoadmapNotFound)
		_, err = s.GetProgress(ctx, "nope", "u1")
		assert.ErrorIs(t, err, roadmap.ErrRoadmapNotFound)
	})

	t.Run("DeleteDropsProgress", func(t *testing.T) {
		s := newStore(t)
		_, err := s.CreateRoadmap(ctx, Phased())
		require.NoError(t, err)
		require.NoError(t, s.SetProgress(ctx, "frontend", "u1", "html", roadmap.StatusCompleted))
		require.NoError(t, s.DeleteRoadmap(ctx, "frontend"))

		_, err = s.CreateRoadmap(ctx, Phased())
		require.NoError(t, err)
		got, err := s.GetProgress(ctx, "frontend", "u1")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
