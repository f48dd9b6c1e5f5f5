package layout

import (
	"math"

	"github.com/meikuraledutech/roadmap"
)

// Tree lays out a rooted tree.
//
// The root's centre sits at (ContainerWidth/2, Padding). Every node occupies
// NodeWidth x NodeHeight; siblings are HorizontalGap apart and depth levels
// VerticalGap apart. A node that is a leaf or is not in expanded takes exactly
// NodeWidth; otherwise its subtree is as wide as its children side by side.
// Children of collapsed nodes are neither positioned nor edged.
//
// With Horizontal orientation the same algorithm runs with the axes swapped:
// depth grows to the right from Padding and the root is centred on
// ContainerHeight/2.
func Tree(root roadmap.Node, expanded Set, opts Options) Result {
	opts = opts.WithDefaults()
	ax := newAxes(opts)

	var f fragment
	if ax.horizontal {
		f = ax.place(root, opts.ContainerHeight/2, opts.Padding, 0, expanded)
	} else {
		f = ax.place(root, opts.ContainerWidth/2, opts.Padding, 0, expanded)
	}

	res := Result{Nodes: f.nodes, Edges: f.edges}
	if ax.horizontal {
		res.Width = f.far + opts.Padding
		res.Height = opts.ContainerHeight
	} else {
		res.Width = opts.ContainerWidth
		res.Height = f.far + opts.Padding
	}
	if res.Edges == nil {
		res.Edges = []Edge{}
	}
	return res
}

// fragment is the layout of one subtree. far is the largest depth-axis
// coordinate reached by any node box (bottom edge when vertical).
type fragment struct {
	nodes []Position
	edges []Edge
	far   float64
}

func (f *fragment) merge(o fragment) {
	f.nodes = append(f.nodes, o.nodes...)
	f.edges = append(f.edges, o.edges...)
	f.far = math.Max(f.far, o.far)
}

// axes maps the breadth/depth layout onto x/y.
type axes struct {
	horizontal bool
	breadth    float64 // node size along the sibling axis
	depthSize  float64 // node size along the depth axis
	gap        float64 // gap between sibling subtrees
	step       float64 // distance between depth levels
	reserve    bool
	w, h       float64
}

func newAxes(o Options) axes {
	if o.Orientation == Horizontal {
		return axes{
			horizontal: true,
			breadth:    o.NodeHeight,
			depthSize:  o.NodeWidth,
			gap:        o.VerticalGap,
			step:       o.NodeWidth + o.HorizontalGap,
			reserve:    o.ReserveCollapsed,
			w:          o.NodeWidth,
			h:          o.NodeHeight,
		}
	}
	return axes{
		breadth:   o.NodeWidth,
		depthSize: o.NodeHeight,
		gap:       o.HorizontalGap,
		step:      o.NodeHeight + o.VerticalGap,
		reserve:   o.ReserveCollapsed,
		w:         o.NodeWidth,
		h:         o.NodeHeight,
	}
}

// width is the breadth of the subtree rooted at n.
func (ax axes) width(n roadmap.Node, expanded Set) float64 {
	if len(n.Children) == 0 || (!ax.reserve && !expanded.Has(n.ID)) {
		return ax.breadth
	}
	return math.Max(ax.breadth, ax.childrenWidth(n, expanded))
}

func (ax axes) childrenWidth(n roadmap.Node, expanded Set) float64 {
	total := float64(len(n.Children)-1) * ax.gap
	for _, c := range n.Children {
		total += ax.width(c, expanded)
	}
	return total
}

// place positions n with its centre at breadth b and its leading edge at depth d.
func (ax axes) place(n roadmap.Node, b, d float64, depth int, expanded Set) fragment {
	pos := Position{ID: n.ID, W: ax.w, H: ax.h, Depth: depth}
	if ax.horizontal {
		pos.X, pos.Y = d, b-ax.h/2
	} else {
		pos.X, pos.Y = b-ax.w/2, d
	}
	f := fragment{nodes: []Position{pos}, far: d + ax.depthSize}

	if len(n.Children) == 0 || !expanded.Has(n.ID) {
		return f
	}

	offset := b - ax.childrenWidth(n, expanded)/2
	for _, c := range n.Children {
		w := ax.width(c, expanded)
		f.edges = append(f.edges, Edge{ID: "edge-" + n.ID + "-" + c.ID, Source: n.ID, Target: c.ID})
		f.merge(ax.place(c, offset+w/2, d+ax.step, depth+1, expanded))
		offset += w + ax.gap
	}
	return f
}
