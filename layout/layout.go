// Package layout turns roadmap documents into absolute node positions.
//
// Two engines are provided. Tree lays out a rooted tree as a centred,
// non-overlapping vertical (or horizontal) flow whose shape depends on which
// nodes are expanded. Phases lays out a flat node list grouped into phases or
// sections, stacking the groups top to bottom. Both are pure functions of their
// input: identical input always yields identical output.
package layout

import "math"

// Position is the placement of one node. X and Y are the top-left corner.
type Position struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
	Depth int     `json:"depth"`
	Group string  `json:"group,omitempty"`
}

// Center returns the centre point of the node box.
func (p Position) Center() (float64, float64) {
	return p.X + p.W/2, p.Y + p.H/2
}

// Edge is a rendered connection between two positioned nodes.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// GroupBox is the band occupied by one phase or section.
type GroupBox struct {
	ID       string  `json:"id"`
	Title    string  `json:"title,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	Implicit bool    `json:"implicit,omitempty"`
}

// Rect is an axis aligned box.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Result is the output of a layout engine.
type Result struct {
	Nodes  []Position `json:"nodes"`
	Edges  []Edge     `json:"edges"`
	Groups []GroupBox `json:"groups,omitempty"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
}

// Find returns the position of id.
func (r Result) Find(id string) (Position, bool) {
	for _, p := range r.Nodes {
		if p.ID == id {
			return p, true
		}
	}
	return Position{}, false
}

// Bounds is the smallest box containing every node. Empty results have zero bounds.
func (r Result) Bounds() Rect {
	if len(r.Nodes) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range r.Nodes {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X+p.W)
		maxY = math.Max(maxY, p.Y+p.H)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Set is a set of node ids, used for the expanded nodes of a tree.
type Set map[string]bool

// NewSet returns a set holding ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Has reports whether id is in the set. A nil set is empty.
func (s Set) Has(id string) bool {
	return s[id]
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		if v {
			out[k] = true
		}
	}
	return out
}
