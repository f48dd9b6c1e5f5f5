package loader

import (
	"fmt"
	"math"
	"strings"

	"github.com/meikuraledutech/roadmap"
)

// NodeType maps a wire node type, including generator synonyms, to a NodeType.
// Unknown values report false and map to core.
func NodeType(s string) (roadmap.NodeType, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "required", "essential", "must", "must-know":
		return roadmap.TypeCore, true
	case "elective", "nice-to-have", "nice_to_have", "extra":
		return roadmap.TypeOptional, true
	case "fundamental", "fundamentals", "basic", "basics", "prerequisite":
		return roadmap.TypeBeginner, true
	case "alternate", "alternative-option", "or":
		return roadmap.TypeAlternative, true
	case "practice", "hands-on", "hands_on", "exercise":
		return roadmap.TypeProject, true
	}
	t, err := roadmap.ParseNodeType(key)
	if err != nil {
		return roadmap.TypeCore, false
	}
	return t, true
}

// Difficulty maps a wire difficulty, including localized labels, to a
// Difficulty. Unknown values become empty.
func Difficulty(s string) roadmap.Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner", "basic", "easy", "cơ bản":
		return roadmap.DifficultyBeginner
	case "intermediate", "medium", "trung cấp":
		return roadmap.DifficultyIntermediate
	case "advanced", "hard", "expert", "nâng cao":
		return roadmap.DifficultyAdvanced
	}
	return ""
}

// SuggestedType maps a learning resource kind to video, doc or project.
func SuggestedType(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video", "videos", "course", "courses":
		return "video"
	case "doc", "docs", "documentation", "article", "reading":
		return "doc"
	case "project", "projects", "practice":
		return "project"
	}
	return ""
}

// Normalize fills the defaults a renderable document needs: node titles,
// group titles and order, edge ids and the total estimate.
func Normalize(doc *roadmap.Roadmap) {
	fill := func(n *roadmap.Node) {
		if strings.TrimSpace(n.Title) == "" {
			n.Title = n.ID
		}
	}
	if doc.Root != nil {
		walk(doc.Root, fill)
	}
	for i := range doc.Nodes {
		fill(&doc.Nodes[i])
	}

	normalizeGroups(doc.Phases, "Phase")
	normalizeGroups(doc.Sections, "Section")

	for i := range doc.Edges {
		e := &doc.Edges[i]
		if e.ID == "" {
			e.ID = "edge-" + e.Source + "-" + e.Target
		}
	}

	if doc.Title == "" && doc.Root != nil {
		doc.Title = doc.Root.Title
	}
	if doc.TotalEstimatedHours == 0 {
		total := 0
		for _, id := range doc.NodeIDs() {
			total += doc.Find(id).EstimatedHours
		}
		doc.TotalEstimatedHours = total
	}
}

func normalizeGroups(gs []roadmap.Group, kind string) {
	ordered := false
	for _, g := range gs {
		if g.Order != 0 {
			ordered = true
		}
	}
	for i := range gs {
		g := &gs[i]
		if g.ID == "" {
			g.ID = fmt.Sprintf("%s-%d", strings.ToLower(kind), i+1)
		}
		if !ordered {
			g.Order = i + 1
		}
		if strings.TrimSpace(g.Title) == "" {
			g.Title = fmt.Sprintf("%s %d", kind, i+1)
		}
	}
}

func walk(n *roadmap.Node, fn func(*roadmap.Node)) {
	fn(n)
	for i := range n.Children {
		walk(&n.Children[i], fn)
	}
}

func hours(f float64) int {
	return int(math.Round(f))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
