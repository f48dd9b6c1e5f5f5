package render

import (
	"fmt"
	"html"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/meikuraledutech/roadmap"
	"github.com/meikuraledutech/roadmap/layout"
)

// SVG writes res as an SVG document. doc supplies titles and types and may
// be nil; statuses may be nil.
func SVG(w io.Writer, res layout.Result, doc *roadmap.Roadmap, statuses roadmap.StatusMap) error {
	sc := buildScene(res, doc, statuses)
	canvas := svg.New(w)
	canvas.Start(sc.Width, sc.Height)
	canvas.Rect(0, 0, sc.Width, sc.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))

	if sc.Header != "" {
		canvas.Text(16, 28, sc.Header, fmt.Sprintf("fill:%s;font-size:15px;font-family:sans-serif;font-weight:bold", css(colorText)))
	}

	for _, g := range sc.Groups {
		canvas.Roundrect(int(g.X), int(g.Y), int(g.W), int(g.H), 10, 10,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorGroupBG), css(colorGroupLine)))
		if g.Title != "" {
			canvas.Text(int(g.X)+12, int(g.Y)+19, g.Title,
				fmt.Sprintf("fill:%s;font-size:13px;font-family:sans-serif;font-weight:bold", css(colorSubtle)))
		}
	}

	for _, e := range sc.Edges {
		canvas.Line(int(e.X1), int(e.Y1), int(e.X2), int(e.Y2),
			fmt.Sprintf("stroke:%s;stroke-width:1.5", css(colorEdge)))
	}

	for _, n := range sc.Nodes {
		drawNodeSVG(canvas, n)
	}

	canvas.End()
	return nil
}

func drawNodeSVG(canvas *svg.SVG, n sceneNode) {
	st := n.Style
	canvas.Group(fmt.Sprintf(`class="node type-%s status-%s" data-id="%s" opacity="%.2f"`,
		n.Type, n.Status, html.EscapeString(n.ID), st.opacity))

	rect := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%.1f", css(st.fill), css(st.stroke), st.width)
	if st.dashed {
		rect += ";stroke-dasharray:4,3"
	}
	x, y, w, h := int(n.X), int(n.Y), int(n.W), int(n.H)
	canvas.Roundrect(x, y, w, h, 6, 6, rect)
	canvas.Text(x+w/2, y+h/2+4, fit(n.Title, n.W),
		fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif;text-anchor:middle", css(colorText)))

	if st.check {
		cx, cy := x+w-9, y+9
		canvas.Circle(cx, cy, 6, fmt.Sprintf("fill:%s", css(colorCompleted)))
		canvas.Polyline([]int{cx - 3, cx - 1, cx + 3}, []int{cy, cy + 2, cy - 2},
			"fill:none;stroke:#ffffff;stroke-width:1.5")
	}
	canvas.Gend()
}
