// Package detail builds the information panel shown for one selected node.
package detail

import (
	"context"
	"net/url"
	"strings"

	"github.com/meikuraledutech/roadmap"
	"github.com/meikuraledutech/roadmap/progress"
)

// RecommendLimit is the number of courses requested for a panel.
const RecommendLimit = 3

// Course is a recommended course from the catalogue.
type Course struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	ThumbnailURL string  `json:"thumbnail_url,omitempty"`
	Level        string  `json:"level,omitempty"`
	MatchScore   float64 `json:"match_score,omitempty"`
}

// Recommender looks up courses for a keyword list.
type Recommender interface {
	Recommend(ctx context.Context, keywords []string, limit int) ([]Course, error)
}

// SearchLinks are external search pages for the node's keywords.
type SearchLinks struct {
	Google  string `json:"google"`
	YouTube string `json:"youtube"`
}

// MarkCompleteFunc toggles completion of a node and returns the transition.
type MarkCompleteFunc func(nodeID string) (progress.Transition, error)

// Panel is the detail view of one node.
type Panel struct {
	NodeID          string             `json:"node_id"`
	Title           string             `json:"title"`
	Description     string             `json:"description,omitempty"`
	Type            roadmap.NodeType   `json:"type"`
	TypeLabel       string             `json:"type_label"`
	Difficulty      roadmap.Difficulty `json:"difficulty,omitempty"`
	DifficultyLabel string             `json:"difficulty_label"`
	Duration        string             `json:"duration,omitempty"`
	EstimatedHours  int                `json:"estimated_hours,omitempty"`
	Keywords        []string           `json:"keywords"`
	Status          roadmap.Status     `json:"status"`
	Links           SearchLinks        `json:"links"`
	Courses         []Course           `json:"courses"`

	open         bool
	markComplete MarkCompleteFunc
}

// Build assembles the panel for node. Recommendation failures leave Courses
// empty. The returned panel is open.
func Build(ctx context.Context, node roadmap.Node, status roadmap.Status, rec Recommender) *Panel {
	keywords := append([]string{}, node.Keywords...)
	p := &Panel{
		NodeID:          node.ID,
		Title:           node.Title,
		Description:     node.Description,
		Type:            node.Type,
		TypeLabel:       node.Type.Label(),
		Difficulty:      node.Difficulty,
		DifficultyLabel: difficultyLabel(node.Difficulty),
		Duration:        node.Duration,
		EstimatedHours:  node.EstimatedHours,
		Keywords:        keywords,
		Status:          status,
		Courses:         []Course{},
		open:            true,
	}
	query := strings.Join(keywords, " ")
	if query == "" {
		query = node.Title
	}
	p.Links = Links(query)

	if rec != nil && len(keywords) > 0 {
		if courses, err := rec.Recommend(ctx, keywords, RecommendLimit); err == nil {
			if len(courses) > RecommendLimit {
				courses = courses[:RecommendLimit]
			}
			p.Courses = append(p.Courses, courses...)
		}
	}
	return p
}

// OnMarkComplete sets the callback behind MarkComplete.
func (p *Panel) OnMarkComplete(fn MarkCompleteFunc) {
	p.markComplete = fn
}

// MarkComplete toggles completion through the callback and refreshes Status.
// Without a callback it does nothing.
func (p *Panel) MarkComplete() (progress.Transition, error) {
	if p.markComplete == nil {
		return progress.Transition{NodeID: p.NodeID, Gesture: progress.MarkComplete, From: p.Status, To: p.Status}, nil
	}
	tr, err := p.markComplete(p.NodeID)
	if err != nil {
		return tr, err
	}
	p.Status = tr.To
	return tr, nil
}

func (p *Panel) Open()        { p.open = true }
func (p *Panel) Close()       { p.open = false }
func (p *Panel) IsOpen() bool { return p.open }

// Links builds the Google and YouTube search URLs for query.
func Links(query string) SearchLinks {
	enc := encodeComponent(query)
	return SearchLinks{
		Google:  "https://www.google.com/search?q=" + enc,
		YouTube: "https://www.youtube.com/results?search_query=" + enc,
	}
}

// componentFixups turns url.QueryEscape output into encodeURIComponent form.
var componentFixups = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeComponent(s string) string {
	return componentFixups.Replace(url.QueryEscape(s))
}

func difficultyLabel(d roadmap.Difficulty) string {
	switch d {
	case roadmap.DifficultyBeginner:
		return "Beginner"
	case roadmap.DifficultyIntermediate:
		return "Intermediate"
	case roadmap.DifficultyAdvanced:
		return "Advanced"
	}
	return "Unknown"
}
