package loader

// The wire types accept every document shape the roadmap generators emit:
// canonical documents, AI generated documents whose node fields live under
// "data", and bare trees whose top level is the root node.

type wireDoc struct {
	ID                  string      `json:"id"`
	Title               string      `json:"title"`
	RoadmapTitle        string      `json:"roadmap_title"`
	Description         string      `json:"description"`
	RoadmapDescription  string      `json:"roadmap_description"`
	TotalEstimatedHours float64     `json:"total_estimated_hours"`
	Phases              []wireGroup `json:"phases"`
	Sections            []wireGroup `json:"sections"`
	Nodes               []wireNode  `json:"nodes"`
	Edges               []wireEdge  `json:"edges"`
	Root                *wireNode   `json:"root"`
}

type wireGroup struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Name    string   `json:"name"`
	Order   int      `json:"order"`
	NodeIDs []string `json:"node_ids"`
}

type wireResources struct {
	Keywords      []string `json:"keywords"`
	SuggestedType string   `json:"suggested_type"`
}

type wireNodeData struct {
	Label             string         `json:"label"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	EstimatedHours    float64        `json:"estimated_hours"`
	Difficulty        string         `json:"difficulty"`
	Duration          string         `json:"duration"`
	Keywords          []string       `json:"keywords"`
	LearningResources *wireResources `json:"learning_resources"`
}

type wireNode struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Label             string         `json:"label"`
	Description       string         `json:"description"`
	Type              string         `json:"type"`
	Status            string         `json:"status"`
	Duration          string         `json:"duration"`
	EstimatedHours    float64        `json:"estimated_hours"`
	Difficulty        string         `json:"difficulty"`
	Keywords          []string       `json:"keywords"`
	Technologies      []string       `json:"technologies"`
	SuggestedType     string         `json:"suggested_type"`
	LearningResources *wireResources `json:"learning_resources"`
	PhaseID           string         `json:"phase_id"`
	SectionID         string         `json:"section_id"`
	Data              *wireNodeData  `json:"data"`
	Children          []wireNode     `json:"children"`
}

type wireEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type wireProgress struct {
	NodeID string `json:"node_id"`
	Status string `json:"status"`
}
