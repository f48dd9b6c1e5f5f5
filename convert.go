package roadmap

import "fmt"

// RootID is the id of the synthetic root produced by Tree for flat documents.
const RootID = "root"

// Tree returns the document as a tree. Tree documents return a copy of Root.
// Flat documents become root -> one node per group -> the group's entry nodes
// (no incoming edge from the same group) -> their same-group successors.
// Every document node appears exactly once; a node reachable from several
// parents hangs under the first one visited. Unlabeled groups attach their
// nodes directly to the root.
func (r *Roadmap) Tree() Node {
	if r.Root != nil {
		return cloneNode(*r.Root)
	}

	root := Node{ID: RootID, Title: r.Title, Description: r.Description, Type: TypeCore}
	if r.TotalEstimatedHours > 0 {
		root.Duration = fmt.Sprintf("%dh total", r.TotalEstimatedHours)
	}

	index := r.Index()
	succ := make(map[string][]string)
	for _, e := range r.Edges {
		if _, ok := index[e.Target]; ok {
			succ[e.Source] = append(succ[e.Source], e.Target)
		}
	}
	placed := make(map[string]bool)

	for gi, g := range r.ResolveGroups() {
		inGroup := make(map[string]bool, len(g.NodeIDs))
		for _, id := range g.NodeIDs {
			inGroup[id] = true
		}
		hasParent := make(map[string]bool)
		for _, id := range g.NodeIDs {
			for _, t := range succ[id] {
				if inGroup[t] && t != id {
					hasParent[t] = true
				}
			}
		}

		var build func(id string) Node
		build = func(id string) Node {
			placed[id] = true
			n := *index[id]
			n.Children = nil
			for _, t := range succ[id] {
				if inGroup[t] && !placed[t] {
					n.Children = append(n.Children, build(t))
				}
			}
			return n
		}

		var entries []Node
		for _, id := range g.NodeIDs {
			if !hasParent[id] && !placed[id] {
				entries = append(entries, build(id))
			}
		}
		// Members caught in a cycle have a parent but are unreachable from an entry.
		for _, id := range g.NodeIDs {
			if !placed[id] {
				entries = append(entries, build(id))
			}
		}

		if g.Implicit && g.ID == "" {
			root.Children = append(root.Children, entries...)
			continue
		}
		root.Children = append(root.Children, Node{
			ID:          g.ID,
			Title:       g.Title,
			Description: fmt.Sprintf("Phase %d", gi+1),
			Type:        TypeCore,
			Children:    entries,
		})
	}
	return root
}

func cloneNode(n Node) Node {
	out := n
	out.Keywords = append([]string(nil), n.Keywords...)
	if n.Children != nil {
		out.Children = make([]Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = cloneNode(c)
		}
	}
	return out
}
