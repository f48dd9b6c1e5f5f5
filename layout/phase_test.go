package layout

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/meikuraledutech/roadmap"
)

func frontend() *roadmap.Roadmap {
	return &roadmap.Roadmap{
		ID:    "fe",
		Title: "Frontend",
		Phases: []roadmap.Group{
			{ID: "p2", Title: "Frameworks", Order: 2},
			{ID: "p1", Title: "Basics", Order: 1},
		},
		Nodes: []roadmap.Node{
			{ID: "html", PhaseID: "p1"},
			{ID: "css", PhaseID: "p1"},
			{ID: "js", PhaseID: "p1"},
			{ID: "react", PhaseID: "p2"},
			{ID: "vue", PhaseID: "p2"},
			{ID: "stray"},
		},
		Edges: []roadmap.Edge{
			{ID: "e1", Source: "html", Target: "css"},
			{ID: "e2", Source: "css", Target: "js"},
			{Source: "js", Target: "react"},
			{ID: "e4", Source: "js", Target: "vue"},
			{ID: "ghost", Source: "js", Target: "nowhere"},
		},
	}
}

func TestPhases_GroupsStackInOrder(t *testing.T) {
	res := Phases(frontend(), Options{})

	require.Len(t, res.Groups, 3)
	assert.Equal(t, GroupBox{ID: "p1", Title: "Basics", X: 50, Y: 50, W: 1100, H: 198}, res.Groups[0])
	assert.Equal(t, "p2", res.Groups[1].ID)
	assert.InDelta(t, 288, res.Groups[1].Y, eps)
	assert.Equal(t, roadmap.UngroupedID, res.Groups[2].ID)
	assert.True(t, res.Groups[2].Implicit)
	assert.InDelta(t, 514, res.Height, eps)

	html, _ := res.Find("html")
	css, _ := res.Find("css")
	js, _ := res.Find("js")
	assert.Equal(t, Position{ID: "html", X: 525, Y: 78, W: 150, H: 40, Depth: 0, Group: "p1"}, html)
	assert.Equal(t, 1, css.Depth)
	assert.Equal(t, 2, js.Depth)
	assert.InDelta(t, 208, js.Y, eps)

	react, _ := res.Find("react")
	vue, _ := res.Find("vue")
	assert.Equal(t, react.Y, vue.Y, "no edge inside the phase, so one rank")
	assert.InDelta(t, 444, react.X, eps)
	assert.InDelta(t, 606, vue.X, eps)

	stray, _ := res.Find("stray")
	assert.Equal(t, roadmap.UngroupedID, stray.Group)
}

func TestPhases_EdgesDropUnknownEndpoints(t *testing.T) {
	res := Phases(frontend(), Options{})

	ids := make([]string, 0, len(res.Edges))
	for _, e := range res.Edges {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"e1", "e2", "edge-js-react", "e4"}, ids)
}

func TestPhases_RowsWrap(t *testing.T) {
	doc := &roadmap.Roadmap{}
	for i := range 10 {
		doc.Nodes = append(doc.Nodes, roadmap.Node{ID: fmt.Sprintf("n%d", i)})
	}
	res := Phases(doc, Options{})

	// (1200 - 100 + 12) / 162 fits six per row
	rows := map[float64]int{}
	for _, p := range res.Nodes {
		rows[p.Y]++
	}
	assert.Equal(t, map[float64]int{50: 6, 115: 4}, rows)
	require.Len(t, res.Groups, 1)
	assert.Empty(t, res.Groups[0].Title)
	assert.InDelta(t, 115+40+50, res.Height, eps)
}

func TestPhases_CycleKeepsDeclaredOrder(t *testing.T) {
	doc := &roadmap.Roadmap{
		Nodes: []roadmap.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []roadmap.Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
			{Source: "c", Target: "a"},
		},
	}
	res := Phases(doc, Options{})
	require.Len(t, res.Nodes, 3)
	for i, id := range []string{"a", "b", "c"} {
		assert.Equal(t, id, res.Nodes[i].ID)
		assert.Equal(t, 0, res.Nodes[i].Depth)
	}
	assert.Len(t, res.Edges, 3)
}

func TestPhases_NilAndEmpty(t *testing.T) {
	res := Phases(nil, Options{})
	assert.Empty(t, res.Nodes)
	assert.InDelta(t, 100, res.Height, eps)

	res = Phases(&roadmap.Roadmap{}, Options{})
	assert.Empty(t, res.Nodes)
	assert.Empty(t, res.Groups)
}

func TestPhasesProperty_EveryNodeOnceWithoutOverlap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(t, "n")
		groups := rapid.IntRange(0, 4).Draw(t, "groups")
		doc := &roadmap.Roadmap{}
		for g := range groups {
			doc.Phases = append(doc.Phases, roadmap.Group{ID: fmt.Sprintf("p%d", g), Title: fmt.Sprintf("Phase %d", g), Order: g})
		}
		for i := range n {
			node := roadmap.Node{ID: fmt.Sprintf("n%d", i)}
			if groups > 0 {
				if g := rapid.IntRange(-1, groups-1).Draw(t, fmt.Sprintf("group_%d", i)); g >= 0 {
					node.PhaseID = fmt.Sprintf("p%d", g)
				}
			}
			doc.Nodes = append(doc.Nodes, node)
		}
		if n > 1 {
			edges := rapid.IntRange(0, 2*n).Draw(t, "edges")
			for i := range edges {
				s := rapid.IntRange(0, n-1).Draw(t, fmt.Sprintf("src_%d", i))
				d := rapid.IntRange(0, n-1).Draw(t, fmt.Sprintf("dst_%d", i))
				doc.Edges = append(doc.Edges, roadmap.Edge{Source: fmt.Sprintf("n%d", s), Target: fmt.Sprintf("n%d", d)})
			}
		}

		res := Phases(doc, Options{})
		if len(res.Nodes) != n {
			t.Fatalf("positioned %d of %d nodes", len(res.Nodes), n)
		}
		seen := map[string]bool{}
		for i, p := range res.Nodes {
			if seen[p.ID] {
				t.Fatalf("%s positioned twice", p.ID)
			}
			seen[p.ID] = true
			for _, q := range res.Nodes[:i] {
				if p.X < q.X+q.W && q.X < p.X+p.W && p.Y < q.Y+q.H && q.Y < p.Y+p.H {
					t.Fatalf("%s overlaps %s", p.ID, q.ID)
				}
			}
		}
		if !assert.ObjectsAreEqual(res, Phases(doc, Options{})) {
			t.Fatalf("layout differs between runs")
		}
	})
}
