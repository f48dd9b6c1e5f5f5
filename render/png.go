package render

import (
	"fmt"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/meikuraledutech/roadmap"
	"github.com/meikuraledutech/roadmap/layout"
)

// PNG rasterizes res. Arguments are as for SVG.
func PNG(w io.Writer, res layout.Result, doc *roadmap.Roadmap, statuses roadmap.StatusMap) error {
	sc := buildScene(res, doc, statuses)
	if sc.Width <= 0 || sc.Height <= 0 {
		return fmt.Errorf("render: empty canvas %dx%d", sc.Width, sc.Height)
	}

	dc := gg.NewContext(sc.Width, sc.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if sc.Header != "" {
		dc.SetColor(colorText)
		dc.DrawStringAnchored(sc.Header, 16, 24, 0, 0.5)
	}

	for _, g := range sc.Groups {
		dc.SetColor(colorGroupBG)
		dc.DrawRoundedRectangle(g.X, g.Y, g.W, g.H, 10)
		dc.Fill()
		dc.SetColor(colorGroupLine)
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(g.X, g.Y, g.W, g.H, 10)
		dc.Stroke()
		if g.Title != "" {
			dc.SetColor(colorSubtle)
			dc.DrawStringAnchored(g.Title, g.X+12, g.Y+14, 0, 0.5)
		}
	}

	dc.SetColor(colorEdge)
	dc.SetLineWidth(1.5)
	for _, e := range sc.Edges {
		dc.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		dc.Stroke()
	}

	for _, n := range sc.Nodes {
		drawNodePNG(dc, n)
	}
	return dc.EncodePNG(w)
}

func drawNodePNG(dc *gg.Context, n sceneNode) {
	st := n.Style
	fill := st.fill
	if st.opacity < 1 {
		fill = fade(fill, st.opacity)
	}
	dc.SetColor(fill)
	dc.DrawRoundedRectangle(n.X, n.Y, n.W, n.H, 6)
	dc.Fill()

	dc.SetColor(st.stroke)
	dc.SetLineWidth(st.width)
	if st.dashed {
		dc.SetDash(4, 3)
	}
	dc.DrawRoundedRectangle(n.X, n.Y, n.W, n.H, 6)
	dc.Stroke()
	dc.SetDash()

	dc.SetColor(colorText)
	dc.DrawStringAnchored(fit(n.Title, n.W), n.X+n.W/2, n.Y+n.H/2, 0.5, 0.5)

	if st.check {
		cx, cy := n.X+n.W-9, n.Y+9
		dc.SetColor(colorCompleted)
		dc.DrawCircle(cx, cy, 6)
		dc.Fill()
	}
}
