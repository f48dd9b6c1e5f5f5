package roadmap

import (
	"fmt"
	"sort"
)

// Issue is a non-fatal problem found in a document. Engines tolerate every
// issue kind; stores refuse documents whose Validate returns an error.
type Issue struct {
	Kind   string `json:"kind"`
	NodeID string `json:"node_id,omitempty"`
	Detail string `json:"detail"`
}

const (
	IssueDanglingEdge  = "dangling_edge"
	IssueUnknownMember = "unknown_member"
	IssueDoubleMember  = "double_member"
)

// Validate checks structural soundness. It returns ErrDuplicateNode or
// ErrCycleDetected for documents that must be rejected, and the list of
// tolerated issues otherwise.
func (r *Roadmap) Validate() ([]Issue, error) {
	seen := make(map[string]bool)
	var dup string
	visit := func(n *Node) {
		if seen[n.ID] && dup == "" {
			dup = n.ID
		}
		seen[n.ID] = true
	}
	if r.Root != nil {
		walkPtr(r.Root, visit)
	}
	for i := range r.Nodes {
		visit(&r.Nodes[i])
	}
	if dup != "" {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, dup)
	}

	var issues []Issue
	var valid []Edge
	for _, e := range r.Edges {
		switch {
		case !seen[e.Source]:
			issues = append(issues, Issue{Kind: IssueDanglingEdge, NodeID: e.Source,
				Detail: fmt.Sprintf("edge %s: unknown source %q", e.ID, e.Source)})
		case !seen[e.Target]:
			issues = append(issues, Issue{Kind: IssueDanglingEdge, NodeID: e.Target,
				Detail: fmt.Sprintf("edge %s: unknown target %q", e.ID, e.Target)})
		default:
			valid = append(valid, e)
		}
	}
	if err := validateAcyclic(r.NodeIDs(), valid); err != nil {
		return issues, err
	}

	claimed := make(map[string]string)
	for _, groups := range [][]Group{r.Sections, r.Phases} {
		for _, g := range groups {
			for _, id := range g.NodeIDs {
				if !seen[id] {
					issues = append(issues, Issue{Kind: IssueUnknownMember, NodeID: id,
						Detail: fmt.Sprintf("group %s: unknown node %q", g.ID, id)})
					continue
				}
				if prev, ok := claimed[id]; ok && prev != g.ID {
					issues = append(issues, Issue{Kind: IssueDoubleMember, NodeID: id,
						Detail: fmt.Sprintf("node %q is in %s and %s", id, prev, g.ID)})
					continue
				}
				claimed[id] = g.ID
			}
		}
		if len(groups) > 0 {
			// Sections win over phases; phases are ignored when sections exist.
			break
		}
	}
	return issues, nil
}

// validateAcyclic checks that the edges don't form a cycle using DFS.
func validateAcyclic(ids []string, edges []Edge) error {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	state := make(map[string]int, len(ids))
	for _, id := range ids {
		state[id] = unvisited
	}

	var dfs func(id string) bool
	dfs = func(id string) bool {
		state[id] = visiting
		for _, next := range adj[id] {
			switch state[next] {
			case visiting:
				return true
			case unvisited:
				if dfs(next) {
					return true
				}
			}
		}
		state[id] = visited
		return false
	}

	// Deterministic start order so the reported error does not depend on map iteration.
	order := append([]string(nil), ids...)
	sort.Strings(order)
	for _, id := range order {
		if state[id] == unvisited && dfs(id) {
			return ErrCycleDetected
		}
	}
	return nil
}
