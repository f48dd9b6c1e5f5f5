package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/roadmap"
)

func TestSummarize(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	statuses := roadmap.StatusMap{
		"a": roadmap.StatusCompleted,
		"b": roadmap.StatusCompleted,
		"c": roadmap.StatusCompleted,
		"d": roadmap.StatusInProgress,
		"e": roadmap.StatusInProgress,
		"f": roadmap.StatusLocked,
		"zz": roadmap.StatusCompleted,
	}
	assert.Equal(t, Summary{Total: 10, Done: 3, Learning: 2, Locked: 1, Percentage: 30}, Summarize(ids, statuses))
}

func TestSummarize_CompletedAndSkipped(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	statuses := roadmap.StatusMap{
		"a": roadmap.StatusCompleted,
		"b": roadmap.StatusCompleted,
		"c": roadmap.StatusCompleted,
		"d": roadmap.StatusSkipped,
		"e": roadmap.StatusSkipped,
	}
	assert.Equal(t, Summary{Total: 10, Done: 3, Learning: 0, Skipped: 2, Percentage: 30}, Summarize(ids, statuses))
}

func TestSummarize_EdgeCases(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil, nil))

	s := Summarize([]string{"a", "a", "b", "c"}, roadmap.StatusMap{"a": roadmap.StatusCompleted})
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 33, s.Percentage)

	s = Summarize([]string{"a", "b", "c"}, roadmap.StatusMap{"a": roadmap.StatusCompleted, "b": roadmap.StatusCompleted})
	assert.Equal(t, 67, s.Percentage)

	s = Summarize([]string{"a"}, roadmap.StatusMap{"a": roadmap.StatusSkipped})
	assert.Equal(t, Summary{Total: 1, Skipped: 1}, s)
}

func TestSummarizeGroups(t *testing.T) {
	doc := &roadmap.Roadmap{
		Phases: []roadmap.Group{{ID: "p1", Title: "Basics", NodeIDs: []string{"a", "b"}}},
		Nodes:  []roadmap.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
	}
	got := SummarizeGroups(doc, roadmap.StatusMap{"a": roadmap.StatusCompleted, "c": roadmap.StatusCompleted})
	require.Len(t, got, 2)
	assert.Equal(t, GroupSummary{GroupID: "p1", Title: "Basics", Summary: Summary{Total: 2, Done: 1, Percentage: 50}}, got[0])
	assert.Equal(t, roadmap.UngroupedID, got[1].GroupID)
	assert.Equal(t, 100, got[1].Percentage)

	assert.Nil(t, SummarizeGroups(nil, nil))
}
