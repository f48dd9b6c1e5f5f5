package roadmap

import "sort"

// UngroupedID is the id of the implicit trailing group that collects nodes no
// declared phase or section claims.
const UngroupedID = "ungrouped"

// ResolvedGroup is a phase or section with its final, deduplicated membership.
type ResolvedGroup struct {
	ID       string
	Title    string
	Implicit bool
	NodeIDs  []string
}

// ResolveGroups applies the grouping policy: sections if present, otherwise
// phases ordered by Order, otherwise a single unlabeled group holding every
// node. A node is claimed by the first group that lists it; ids that match no
// node are skipped; nodes nobody claims land in a trailing implicit group.
func (r *Roadmap) ResolveGroups() []ResolvedGroup {
	ids := r.NodeIDs()
	if !r.Grouped() {
		if len(ids) == 0 {
			return nil
		}
		return []ResolvedGroup{{Implicit: true, NodeIDs: ids}}
	}

	groups := r.Sections
	memberOf := func(n *Node) string { return n.SectionID }
	if len(groups) == 0 {
		groups = append([]Group(nil), r.Phases...)
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Order < groups[j].Order })
		memberOf = func(n *Node) string { return n.PhaseID }
	}

	index := r.Index()
	claimed := make(map[string]bool, len(ids))
	out := make([]ResolvedGroup, 0, len(groups)+1)
	for _, g := range groups {
		rg := ResolvedGroup{ID: g.ID, Title: g.Title}
		members := g.NodeIDs
		if len(members) == 0 {
			for _, id := range ids {
				if memberOf(index[id]) == g.ID {
					members = append(members, id)
				}
			}
		}
		for _, id := range members {
			if _, ok := index[id]; !ok || claimed[id] {
				continue
			}
			claimed[id] = true
			rg.NodeIDs = append(rg.NodeIDs, id)
		}
		out = append(out, rg)
	}

	var rest []string
	for _, id := range ids {
		if !claimed[id] {
			rest = append(rest, id)
		}
	}
	if len(rest) > 0 {
		out = append(out, ResolvedGroup{ID: UngroupedID, Title: "Ungrouped", Implicit: true, NodeIDs: rest})
	}
	return out
}
