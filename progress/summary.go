package progress

import (
	"math"

	"github.com/meikuraledutech/roadmap"
)

// Summary counts statuses over a set of nodes.
type Summary struct {
	Total      int `json:"total"`
	Done       int `json:"done"`
	Learning   int `json:"learning"`
	Skipped    int `json:"skipped"`
	Locked     int `json:"locked"`
	Percentage int `json:"percentage"`
}

// Summarize counts the statuses of ids, each id once. Percentage is the rounded
// share of completed nodes, 0 for an empty set.
func Summarize(ids []string, statuses roadmap.StatusMap) Summary {
	var s Summary
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		s.Total++
		switch statuses.Get(id) {
		case roadmap.StatusCompleted:
			s.Done++
		case roadmap.StatusInProgress:
			s.Learning++
		case roadmap.StatusSkipped:
			s.Skipped++
		case roadmap.StatusLocked:
			s.Locked++
		}
	}
	if s.Total > 0 {
		s.Percentage = int(math.Round(float64(s.Done) / float64(s.Total) * 100))
	}
	return s
}

// GroupSummary is the sub-total of one phase or section.
type GroupSummary struct {
	GroupID string `json:"group_id"`
	Title   string `json:"title,omitempty"`
	Summary
}

// SummarizeGroups sub-totals every resolved group of doc, in layout order.
func SummarizeGroups(doc *roadmap.Roadmap, statuses roadmap.StatusMap) []GroupSummary {
	if doc == nil {
		return nil
	}
	groups := doc.ResolveGroups()
	out := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupSummary{GroupID: g.ID, Title: g.Title, Summary: Summarize(g.NodeIDs, statuses)})
	}
	return out
}
