package roadmap

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func phased() *Roadmap {
	return &Roadmap{
		ID:    "fe",
		Title: "Frontend",
		Phases: []Group{
			{ID: "p2", Title: "Frameworks", Order: 2},
			{ID: "p1", Title: "Basics", Order: 1},
		},
		Nodes: []Node{
			{ID: "html", Title: "HTML", PhaseID: "p1"},
			{ID: "css", Title: "CSS", PhaseID: "p1"},
			{ID: "js", Title: "JavaScript", PhaseID: "p1"},
			{ID: "react", Title: "React", PhaseID: "p2"},
			{ID: "vue", Title: "Vue", PhaseID: "p2", Type: TypeAlternative},
			{ID: "stray", Title: "Stray"},
		},
		Edges: []Edge{
			{ID: "e1", Source: "html", Target: "css"},
			{ID: "e2", Source: "css", Target: "js"},
			{ID: "e3", Source: "js", Target: "react"},
			{ID: "e4", Source: "js", Target: "vue"},
		},
	}
}

func TestParseStatus_Synonyms(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"", StatusPending},
		{"pending", StatusPending},
		{"available", StatusPending},
		{"in_progress", StatusInProgress},
		{"current", StatusInProgress},
		{"learning", StatusInProgress},
		{"completed", StatusCompleted},
		{"done", StatusCompleted},
		{"DONE", StatusCompleted},
		{"skipped", StatusSkipped},
		{"locked", StatusLocked},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseStatus("finished-ish")
	assert.True(t, errors.Is(err, ErrInvalidStatus))
}

func TestStatus_JSONRoundTripUsesCanonicalNames(t *testing.T) {
	in := map[string]Status{"a": StatusInProgress}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"in_progress"}`, string(b))

	var out map[string]Status
	require.NoError(t, json.Unmarshal([]byte(`{"a":"done","b":"learning"}`), &out))
	assert.Equal(t, StatusCompleted, out["a"])
	assert.Equal(t, StatusInProgress, out["b"])
}

func TestParseNodeType(t *testing.T) {
	for _, nt := range NodeTypes() {
		got, err := ParseNodeType(nt.String())
		require.NoError(t, err)
		assert.Equal(t, nt, got)
		assert.NotEqual(t, "Topic", nt.Label())
	}
	_, err := ParseNodeType("required")
	assert.Error(t, err)
}

func TestNodeIDs_TreeIsPreOrderAndDeduplicated(t *testing.T) {
	r := &Roadmap{Root: &Node{ID: "a", Children: []Node{
		{ID: "b", Children: []Node{{ID: "d"}}},
		{ID: "c"},
	}}, Nodes: []Node{{ID: "c"}, {ID: "e"}}}

	assert.Equal(t, []string{"a", "b", "d", "c", "e"}, r.NodeIDs())
	require.NotNil(t, r.Find("d"))
	assert.Nil(t, r.Find("zzz"))
}

func TestResolveGroups_PhasesOrderedWithUngroupedTail(t *testing.T) {
	groups := phased().ResolveGroups()
	require.Len(t, groups, 3)

	assert.Equal(t, "p1", groups[0].ID)
	assert.Equal(t, []string{"html", "css", "js"}, groups[0].NodeIDs)
	assert.Equal(t, "p2", groups[1].ID)
	assert.Equal(t, []string{"react", "vue"}, groups[1].NodeIDs)
	assert.Equal(t, UngroupedID, groups[2].ID)
	assert.True(t, groups[2].Implicit)
	assert.Equal(t, []string{"stray"}, groups[2].NodeIDs)
}

func TestResolveGroups_SectionsWinAndFirstClaimWins(t *testing.T) {
	r := phased()
	r.Sections = []Group{
		{ID: "s1", Title: "One", NodeIDs: []string{"js", "ghost", "html"}},
		{ID: "s2", Title: "Two", NodeIDs: []string{"html", "react"}},
	}
	groups := r.ResolveGroups()
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"js", "html"}, groups[0].NodeIDs)
	assert.Equal(t, []string{"react"}, groups[1].NodeIDs)
	assert.Equal(t, []string{"css", "vue", "stray"}, groups[2].NodeIDs)
}

func TestResolveGroups_NoGrouping(t *testing.T) {
	r := &Roadmap{Nodes: []Node{{ID: "x"}, {ID: "y"}}}
	groups := r.ResolveGroups()
	require.Len(t, groups, 1)
	assert.True(t, groups[0].Implicit)
	assert.Empty(t, groups[0].Title)
	assert.Equal(t, []string{"x", "y"}, groups[0].NodeIDs)

	assert.Nil(t, (&Roadmap{}).ResolveGroups())
}

func TestValidate(t *testing.T) {
	r := phased()
	r.Edges = append(r.Edges, Edge{ID: "bad", Source: "html", Target: "ghost"})
	r.Phases[0].NodeIDs = []string{"react", "nobody"}

	issues, err := r.Validate()
	require.NoError(t, err)
	kinds := map[string]int{}
	for _, is := range issues {
		kinds[is.Kind]++
	}
	assert.Equal(t, 1, kinds[IssueDanglingEdge])
	assert.Equal(t, 1, kinds[IssueUnknownMember])
}

func TestValidate_Rejects(t *testing.T) {
	r := phased()
	r.Edges = append(r.Edges, Edge{Source: "react", Target: "html"})
	_, err := r.Validate()
	assert.ErrorIs(t, err, ErrCycleDetected)

	r = phased()
	r.Nodes = append(r.Nodes, Node{ID: "css"})
	_, err = r.Validate()
	assert.ErrorIs(t, err, ErrDuplicateNode)
}

func TestTree_ConvertsPhasedDocument(t *testing.T) {
	tree := phased().Tree()

	assert.Equal(t, RootID, tree.ID)
	assert.Equal(t, "Frontend", tree.Title)
	require.Len(t, tree.Children, 3)

	basics := tree.Children[0]
	assert.Equal(t, "p1", basics.ID)
	require.Len(t, basics.Children, 1)
	assert.Equal(t, "html", basics.Children[0].ID)
	require.Len(t, basics.Children[0].Children, 1)
	assert.Equal(t, "css", basics.Children[0].Children[0].ID)
	assert.Equal(t, "js", basics.Children[0].Children[0].Children[0].ID)
	// react and vue live in another phase, so js has no children here.
	assert.Empty(t, basics.Children[0].Children[0].Children[0].Children)

	frameworks := tree.Children[1]
	require.Len(t, frameworks.Children, 2)
	assert.Equal(t, TypeAlternative, frameworks.Children[1].Type)

	assert.Equal(t, UngroupedID, tree.Children[2].ID)

	seen := map[string]int{}
	walk(tree, func(n *Node) { seen[n.ID]++ })
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestTree_CycleMembersStillPlaced(t *testing.T) {
	r := &Roadmap{
		Nodes: []Node{{ID: "a"}, {ID: "b"}},
		Edges: []Edge{{Source: "a", Target: "b"}, {Source: "b", Target: "a"}},
	}
	tree := r.Tree()
	assert.Equal(t, []string{RootID, "a", "b"}, (&Roadmap{Root: &tree}).NodeIDs())
}

func TestTree_TreeDocumentIsCopied(t *testing.T) {
	r := &Roadmap{Root: &Node{ID: "a", Children: []Node{{ID: "b"}}}}
	tree := r.Tree()
	tree.Children[0].ID = "changed"
	assert.Equal(t, "b", r.Root.Children[0].ID)
}
