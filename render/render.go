// Package render draws laid out roadmaps as SVG or PNG.
package render

import (
	"fmt"
	"image/color"

	"github.com/meikuraledutech/roadmap"
	"github.com/meikuraledutech/roadmap/layout"
	"github.com/meikuraledutech/roadmap/progress"
)

var (
	colorBackdrop  = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorGroupBG   = color.RGBA{0xf1, 0xf5, 0xf9, 0xff}
	colorGroupLine = color.RGBA{0xcb, 0xd5, 0xe1, 0xff}
	colorEdge      = color.RGBA{0x94, 0xa3, 0xb8, 0xff}
	colorText      = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle    = color.RGBA{0x66, 0x66, 0x66, 0xff}

	colorCore        = color.RGBA{0xe0, 0xe7, 0xff, 0xff}
	colorOptional    = color.RGBA{0xf1, 0xf5, 0xf9, 0xff}
	colorBeginner    = color.RGBA{0xdc, 0xfc, 0xe7, 0xff}
	colorAlternative = color.RGBA{0xf3, 0xe8, 0xff, 0xff}
	colorProject     = color.RGBA{0xfe, 0xf3, 0xc7, 0xff}

	colorStroke     = color.RGBA{0x47, 0x55, 0x69, 0xff}
	colorCompleted  = color.RGBA{0x16, 0xa3, 0x4a, 0xff}
	colorInProgress = color.RGBA{0xf9, 0x73, 0x16, 0xff}
	colorLocked     = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
)

// typeColor is the node fill for each node type.
func typeColor(t roadmap.NodeType) color.RGBA {
	switch t {
	case roadmap.TypeCore:
		return colorCore
	case roadmap.TypeOptional:
		return colorOptional
	case roadmap.TypeBeginner:
		return colorBeginner
	case roadmap.TypeAlternative:
		return colorAlternative
	case roadmap.TypeProject:
		return colorProject
	}
	return colorCore
}

// style is the status overlay of one node.
type style struct {
	fill    color.RGBA
	stroke  color.RGBA
	width   float64
	opacity float64
	dashed  bool
	check   bool
}

func nodeStyle(t roadmap.NodeType, s roadmap.Status) style {
	st := style{fill: typeColor(t), stroke: colorStroke, width: 1.2, opacity: 1}
	switch s {
	case roadmap.StatusCompleted:
		st.stroke, st.width, st.check = colorCompleted, 2, true
	case roadmap.StatusInProgress:
		st.stroke, st.width = colorInProgress, 3
	case roadmap.StatusSkipped:
		st.opacity = 0.45
	case roadmap.StatusLocked:
		st.fill, st.dashed = colorLocked, true
	case roadmap.StatusPending:
	}
	return st
}

// sceneNode is a positioned node ready to draw.
type sceneNode struct {
	layout.Position
	Title  string
	Type   roadmap.NodeType
	Status roadmap.Status
	Style  style
}

type sceneEdge struct {
	X1, Y1, X2, Y2 float64
}

type scene struct {
	Width, Height int
	Header        string
	Groups        []layout.GroupBox
	Nodes         []sceneNode
	Edges         []sceneEdge
}

func buildScene(res layout.Result, doc *roadmap.Roadmap, statuses roadmap.StatusMap) scene {
	sc := scene{
		Width:  int(res.Width + 0.5),
		Height: int(res.Height + 0.5),
		Groups: res.Groups,
	}
	var index map[string]*roadmap.Node
	if doc != nil {
		index = doc.Index()
		if !doc.IsTree() {
			tree := doc.Tree()
			indexSynthetic(&tree, index)
		}
		sum := progress.Summarize(doc.NodeIDs(), statuses)
		sc.Header = fmt.Sprintf("%s  %d/%d done (%d%%)", doc.Title, sum.Done, sum.Total, sum.Percentage)
	}

	pos := make(map[string]layout.Position, len(res.Nodes))
	for _, p := range res.Nodes {
		pos[p.ID] = p
		n := sceneNode{Position: p, Title: p.ID, Status: statuses.Get(p.ID)}
		if node, ok := index[p.ID]; ok {
			n.Title, n.Type = node.Title, node.Type
		}
		n.Style = nodeStyle(n.Type, n.Status)
		sc.Nodes = append(sc.Nodes, n)
	}

	for _, e := range res.Edges {
		from, ok := pos[e.Source]
		if !ok {
			continue
		}
		to, ok := pos[e.Target]
		if !ok {
			continue
		}
		sc.Edges = append(sc.Edges, connect(from, to))
	}
	return sc
}

// indexSynthetic adds the root and group nodes a flat document gains when
// shown as a tree.
func indexSynthetic(n *roadmap.Node, index map[string]*roadmap.Node) {
	if _, ok := index[n.ID]; !ok {
		index[n.ID] = n
	}
	for i := range n.Children {
		indexSynthetic(&n.Children[i], index)
	}
}

// connect joins two boxes bottom to top when the target is below the source,
// side to side otherwise.
func connect(from, to layout.Position) sceneEdge {
	switch {
	case to.Y >= from.Y+from.H:
		return sceneEdge{from.X + from.W/2, from.Y + from.H, to.X + to.W/2, to.Y}
	case to.Y+to.H <= from.Y:
		return sceneEdge{from.X + from.W/2, from.Y, to.X + to.W/2, to.Y + to.H}
	case to.X >= from.X+from.W:
		return sceneEdge{from.X + from.W, from.Y + from.H/2, to.X, to.Y + to.H/2}
	default:
		return sceneEdge{from.X, from.Y + from.H/2, to.X + to.W, to.Y + to.H/2}
	}
}

// fit shortens s to what a box of width w can hold at roughly 7px per rune.
func fit(s string, w float64) string {
	return truncate(s, int((w-16)/7))
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// fade blends c toward the backdrop.
func fade(c color.RGBA, opacity float64) color.RGBA {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*opacity + float64(b)*(1-opacity) + 0.5)
	}
	return color.RGBA{mix(c.R, colorBackdrop.R), mix(c.G, colorBackdrop.G), mix(c.B, colorBackdrop.B), 0xff}
}
