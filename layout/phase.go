package layout

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/meikuraledutech/roadmap"
)

// Phases lays out a flat roadmap grouped by sections, phases, or nothing.
//
// Groups stack top to bottom in declaration order, GroupGap apart, each with a
// LabelHeight label row when it has a title. Inside a group nodes are ranked
// by longest path over the edges between members; every rank fills one or
// more centred rows of as many nodes as fit in ContainerWidth. A group whose
// edges form a cycle keeps its declared order in a single rank. Every node of
// the document is positioned exactly once. Edges pass through, minus those
// whose endpoints are unknown.
func Phases(doc *roadmap.Roadmap, opts Options) Result {
	opts = opts.WithDefaults()
	res := Result{Width: opts.ContainerWidth, Nodes: []Position{}, Edges: []Edge{}}
	if doc == nil {
		res.Height = 2 * opts.Padding
		return res
	}

	perRow := int(math.Floor((opts.ContainerWidth - 2*opts.Padding + opts.HorizontalGap) /
		(opts.NodeWidth + opts.HorizontalGap)))
	if perRow < 1 {
		perRow = 1
	}

	y := opts.Padding
	bottom := opts.Padding
	for _, g := range doc.ResolveGroups() {
		top := y
		if g.Title != "" {
			y += opts.LabelHeight
		}
		rowsEnd := y
		for rank, layer := range rankMembers(g.NodeIDs, doc.Edges) {
			for start := 0; start < len(layer); start += perRow {
				row := layer[start:min(start+perRow, len(layer))]
				rowW := float64(len(row))*opts.NodeWidth + float64(len(row)-1)*opts.HorizontalGap
				x := (opts.ContainerWidth - rowW) / 2
				for _, id := range row {
					res.Nodes = append(res.Nodes, Position{
						ID: id, X: x, Y: y, W: opts.NodeWidth, H: opts.NodeHeight,
						Depth: rank, Group: g.ID,
					})
					x += opts.NodeWidth + opts.HorizontalGap
				}
				rowsEnd = y + opts.NodeHeight
				y = rowsEnd + opts.VerticalGap
			}
		}
		res.Groups = append(res.Groups, GroupBox{
			ID: g.ID, Title: g.Title, Implicit: g.Implicit,
			X: opts.Padding, Y: top, W: opts.ContainerWidth - 2*opts.Padding, H: rowsEnd - top,
		})
		bottom = rowsEnd
		y = rowsEnd + opts.GroupGap
	}
	res.Height = bottom + opts.Padding

	known := make(map[string]bool, len(res.Nodes))
	for _, p := range res.Nodes {
		known[p.ID] = true
	}
	for _, e := range doc.Edges {
		if !known[e.Source] || !known[e.Target] {
			continue
		}
		id := e.ID
		if id == "" {
			id = "edge-" + e.Source + "-" + e.Target
		}
		res.Edges = append(res.Edges, Edge{ID: id, Source: e.Source, Target: e.Target})
	}
	return res
}

// rankMembers splits ids into ranks by longest path over the edges between
// them, keeping declared order inside each rank.
func rankMembers(ids []string, edges []roadmap.Edge) [][]string {
	if len(ids) == 0 {
		return nil
	}
	at := make(map[string]int64, len(ids))
	g := simple.NewDirectedGraph()
	for i, id := range ids {
		at[id] = int64(i)
		g.AddNode(simple.Node(i))
	}
	for _, e := range edges {
		s, ok := at[e.Source]
		if !ok {
			continue
		}
		t, ok := at[e.Target]
		if !ok || s == t || g.HasEdgeFromTo(s, t) {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(s), simple.Node(t)))
	}

	sorted, err := topo.SortStabilized(g, func(nodes []graph.Node) {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	})
	if err != nil {
		return [][]string{ids}
	}

	rank := make([]int, len(ids))
	maxRank := 0
	for _, n := range sorted {
		from := n.ID()
		succ := g.From(from)
		for succ.Next() {
			to := succ.Node().ID()
			if rank[from]+1 > rank[to] {
				rank[to] = rank[from] + 1
				maxRank = max(maxRank, rank[to])
			}
		}
	}

	layers := make([][]string, maxRank+1)
	for i, id := range ids {
		layers[rank[i]] = append(layers[rank[i]], id)
	}
	return layers
}
