package roadmap

// Roadmap is a learning roadmap document: either a strict tree rooted at Root,
// or a flat node list plus edges grouped by phases or sections.
type Roadmap struct {
	ID                  string  `json:"id" yaml:"id"`
	Title               string  `json:"title" yaml:"title"`
	Description         string  `json:"description,omitempty" yaml:"description,omitempty"`
	TotalEstimatedHours int     `json:"total_estimated_hours,omitempty" yaml:"total_estimated_hours,omitempty"`
	Phases              []Group `json:"phases,omitempty" yaml:"phases,omitempty"`
	Sections            []Group `json:"sections,omitempty" yaml:"sections,omitempty"`
	Nodes               []Node  `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Edges               []Edge  `json:"edges,omitempty" yaml:"edges,omitempty"`
	Root                *Node   `json:"root,omitempty" yaml:"root,omitempty"`
}

// Node is a single topic, skill or project. Progress is tracked outside the node.
type Node struct {
	ID             string     `json:"id" yaml:"id"`
	Title          string     `json:"title" yaml:"title"`
	Description    string     `json:"description,omitempty" yaml:"description,omitempty"`
	Type           NodeType   `json:"type" yaml:"type"`
	Duration       string     `json:"duration,omitempty" yaml:"duration,omitempty"`
	EstimatedHours int        `json:"estimated_hours,omitempty" yaml:"estimated_hours,omitempty"`
	Difficulty     Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Keywords       []string   `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	SuggestedType  string     `json:"suggested_type,omitempty" yaml:"suggested_type,omitempty"`
	PhaseID        string     `json:"phase_id,omitempty" yaml:"phase_id,omitempty"`
	SectionID      string     `json:"section_id,omitempty" yaml:"section_id,omitempty"`
	Children       []Node     `json:"children,omitempty" yaml:"children,omitempty"`
}

// Edge is a directed source -> target connection between two node ids.
type Edge struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Group is a phase or a section: an ordered, titled cluster of nodes.
// NodeIDs may be empty, in which case membership comes from Node.PhaseID or Node.SectionID.
type Group struct {
	ID      string   `json:"id" yaml:"id"`
	Title   string   `json:"title" yaml:"title"`
	Order   int      `json:"order,omitempty" yaml:"order,omitempty"`
	NodeIDs []string `json:"node_ids,omitempty" yaml:"node_ids,omitempty"`
}

// Difficulty is a coarse, display-only effort label.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// IsTree reports whether the document is tree shaped.
func (r *Roadmap) IsTree() bool {
	return r.Root != nil
}

// Grouped reports whether the document declares sections or phases.
func (r *Roadmap) Grouped() bool {
	return len(r.Sections) > 0 || len(r.Phases) > 0
}

// NodeIDs returns every known node id once, in document order.
// Tree documents are walked depth first; flat documents use the node list.
func (r *Roadmap) NodeIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if r.Root != nil {
		walk(*r.Root, func(n *Node) { add(n.ID) })
	}
	for i := range r.Nodes {
		add(r.Nodes[i].ID)
	}
	return ids
}

// Index maps node ids to the nodes of the document. The first occurrence wins.
func (r *Roadmap) Index() map[string]*Node {
	idx := make(map[string]*Node)
	if r.Root != nil {
		walkPtr(r.Root, func(n *Node) {
			if _, ok := idx[n.ID]; !ok {
				idx[n.ID] = n
			}
		})
	}
	for i := range r.Nodes {
		if _, ok := idx[r.Nodes[i].ID]; !ok {
			idx[r.Nodes[i].ID] = &r.Nodes[i]
		}
	}
	return idx
}

// Find returns the node with the given id, or nil.
func (r *Roadmap) Find(id string) *Node {
	return r.Index()[id]
}

// walk visits n and its descendants depth first, pre-order.
func walk(n Node, fn func(*Node)) {
	fn(&n)
	for _, c := range n.Children {
		walk(c, fn)
	}
}

func walkPtr(n *Node, fn func(*Node)) {
	fn(n)
	for i := range n.Children {
		walkPtr(&n.Children[i], fn)
	}
}

// Clone returns a deep copy of the document.
func (r *Roadmap) Clone() *Roadmap {
	out := *r
	out.Phases = cloneGroups(r.Phases)
	out.Sections = cloneGroups(r.Sections)
	if r.Nodes != nil {
		out.Nodes = make([]Node, len(r.Nodes))
		for i, n := range r.Nodes {
			out.Nodes[i] = cloneNode(n)
		}
	}
	out.Edges = append([]Edge(nil), r.Edges...)
	if r.Root != nil {
		root := cloneNode(*r.Root)
		out.Root = &root
	}
	return &out
}

func cloneGroups(gs []Group) []Group {
	if gs == nil {
		return nil
	}
	out := make([]Group, len(gs))
	for i, g := range gs {
		out[i] = g
		out[i].NodeIDs = append([]string(nil), g.NodeIDs...)
	}
	return out
}
