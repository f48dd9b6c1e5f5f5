// Package loader decodes roadmap documents and progress maps from JSON or YAML.
//
// Generators disagree on field names and vocabulary; the loader is the only
// place that knows about those differences. Everything it returns uses the
// canonical roadmap types.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/meikuraledutech/roadmap"
)

// Format is a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf guesses the format from a file extension. Anything that is not
// .yaml or .yml is JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Document is a decoded roadmap plus the statuses embedded in its nodes.
type Document struct {
	Roadmap  *roadmap.Roadmap
	Progress roadmap.StatusMap
	Warnings []string
}

// FromFile decodes the document at path.
func FromFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open: %w", err)
	}
	defer f.Close()
	doc, err := Decode(f, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return doc, nil
}

// Decode reads one document. Envelopes such as {"data": {"roadmap": ...}}
// are unwrapped, a top level node with children is taken as a tree root, and
// the result is normalized.
func Decode(r io.Reader, format Format) (*Document, error) {
	raw, err := readJSON(r, format)
	if err != nil {
		return nil, err
	}
	raw, err = unwrap(raw)
	if err != nil {
		return nil, err
	}

	var w wireDoc
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("loader: decode roadmap: %w", err)
	}
	if w.Root == nil && len(w.Nodes) == 0 {
		var root wireNode
		if err := json.Unmarshal(raw, &root); err == nil && len(root.Children) > 0 {
			w = wireDoc{ID: root.ID, Title: firstNonEmpty(root.Title, root.Label), Root: &root}
		}
	}

	c := &converter{progress: roadmap.StatusMap{}}
	doc := c.roadmap(w)
	Normalize(doc)
	return &Document{Roadmap: doc, Progress: c.progress, Warnings: c.warnings}, nil
}

// DecodeProgress reads a progress map, either {"nodeId": "status"} or a list
// of {"node_id", "status"} records. Pending entries are dropped.
func DecodeProgress(r io.Reader, format Format) (roadmap.StatusMap, error) {
	raw, err := readJSON(r, format)
	if err != nil {
		return nil, err
	}
	raw, err = unwrap(raw)
	if err != nil {
		return nil, err
	}

	out := roadmap.StatusMap{}
	set := func(id, status string) error {
		s, err := roadmap.ParseStatus(status)
		if err != nil {
			return fmt.Errorf("loader: node %q: %w", id, err)
		}
		if s != roadmap.StatusPending {
			out[id] = s
		}
		return nil
	}

	var byID map[string]string
	if err := json.Unmarshal(raw, &byID); err == nil {
		for id, status := range byID {
			if err := set(id, status); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	var records []wireProgress
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("loader: decode progress: %w", err)
	}
	for _, rec := range records {
		if err := set(rec.NodeID, rec.Status); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// readJSON returns the input as JSON, converting YAML first.
func readJSON(r io.Reader, format Format) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("loader: read: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("loader: empty document")
	}
	if format != YAML {
		return data, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("loader: parse yaml: %w", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("loader: convert yaml: %w", err)
	}
	return out, nil
}

// unwrap strips API envelopes until it reaches an object that looks like a
// document or a node.
func unwrap(raw []byte) ([]byte, error) {
	for range 4 {
		var env struct {
			Data     json.RawMessage `json:"data"`
			Roadmap  json.RawMessage `json:"roadmap"`
			Nodes    json.RawMessage `json:"nodes"`
			Root     json.RawMessage `json:"root"`
			Children json.RawMessage `json:"children"`
			Error    string          `json:"error"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			// Not an object: a list or a scalar is handed back as is.
			return raw, nil
		}
		switch {
		case env.Nodes != nil || env.Root != nil || env.Children != nil:
			return raw, nil
		case env.Roadmap != nil:
			raw = env.Roadmap
		case env.Data != nil:
			raw = env.Data
		case env.Error != "":
			return nil, fmt.Errorf("loader: upstream error: %s", env.Error)
		default:
			return raw, nil
		}
	}
	return raw, nil
}

type converter struct {
	progress roadmap.StatusMap
	warnings []string
}

func (c *converter) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func (c *converter) roadmap(w wireDoc) *roadmap.Roadmap {
	doc := &roadmap.Roadmap{
		ID:                  w.ID,
		Title:               firstNonEmpty(w.Title, w.RoadmapTitle),
		Description:         firstNonEmpty(w.Description, w.RoadmapDescription),
		TotalEstimatedHours: hours(w.TotalEstimatedHours),
		Phases:              groups(w.Phases),
		Sections:            groups(w.Sections),
	}
	for _, n := range w.Nodes {
		doc.Nodes = append(doc.Nodes, c.node(n))
	}
	for _, e := range w.Edges {
		doc.Edges = append(doc.Edges, roadmap.Edge{ID: e.ID, Source: e.Source, Target: e.Target})
	}
	if w.Root != nil {
		root := c.node(*w.Root)
		doc.Root = &root
	}
	return doc
}

func groups(ws []wireGroup) []roadmap.Group {
	if len(ws) == 0 {
		return nil
	}
	out := make([]roadmap.Group, 0, len(ws))
	for _, g := range ws {
		out = append(out, roadmap.Group{
			ID:      g.ID,
			Title:   firstNonEmpty(g.Title, g.Name),
			Order:   g.Order,
			NodeIDs: g.NodeIDs,
		})
	}
	return out
}

func (c *converter) node(w wireNode) roadmap.Node {
	d := w.Data
	if d == nil {
		d = &wireNodeData{}
	}
	res := w.LearningResources
	if res == nil {
		res = d.LearningResources
	}
	if res == nil {
		res = &wireResources{}
	}

	n := roadmap.Node{
		ID:             w.ID,
		Title:          firstNonEmpty(w.Title, w.Label, d.Title, d.Label),
		Description:    firstNonEmpty(w.Description, d.Description),
		Duration:       firstNonEmpty(w.Duration, d.Duration),
		EstimatedHours: hours(w.EstimatedHours),
		PhaseID:        w.PhaseID,
		SectionID:      w.SectionID,
		SuggestedType:  SuggestedType(firstNonEmpty(w.SuggestedType, res.SuggestedType)),
	}
	if n.EstimatedHours == 0 {
		n.EstimatedHours = hours(d.EstimatedHours)
	}

	t, ok := NodeType(w.Type)
	if !ok {
		c.warnf("node %s: unknown type %q, using core", w.ID, w.Type)
	}
	n.Type = t

	diff := firstNonEmpty(w.Difficulty, d.Difficulty)
	n.Difficulty = Difficulty(diff)
	if diff != "" && n.Difficulty == "" {
		c.warnf("node %s: unknown difficulty %q", w.ID, diff)
	}

	for _, list := range [][]string{w.Keywords, w.Technologies, d.Keywords, res.Keywords} {
		if len(list) > 0 {
			n.Keywords = append([]string(nil), list...)
			break
		}
	}

	if w.Status != "" {
		s, err := roadmap.ParseStatus(w.Status)
		switch {
		case err != nil:
			c.warnf("node %s: %v", w.ID, err)
		case s != roadmap.StatusPending && w.ID != "":
			c.progress[w.ID] = s
		}
	}

	for _, child := range w.Children {
		n.Children = append(n.Children, c.node(child))
	}
	return n
}

// StoreLoader serves roadmaps and one learner's progress from a Store.
type StoreLoader struct {
	Store  roadmap.Store
	UserID string
}

// LoadDocument returns roadmap.ErrRoadmapNotFound for unknown ids.
func (l StoreLoader) LoadDocument(ctx context.Context, roadmapID string) (*roadmap.Roadmap, error) {
	doc, err := l.Store.GetRoadmap(ctx, roadmapID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %q", roadmap.ErrRoadmapNotFound, roadmapID)
	}
	return doc, nil
}

func (l StoreLoader) LoadProgress(ctx context.Context, roadmapID string) (roadmap.StatusMap, error) {
	return l.Store.GetProgress(ctx, roadmapID, l.UserID)
}
