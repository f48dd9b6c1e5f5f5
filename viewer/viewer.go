// Package viewer is the composition root of an interactive roadmap.
//
// A Viewer owns one learner's status map for one document, picks a layout
// engine, routes gestures through a progress.Tracker, and tells its Sink about
// every change. All methods are safe for concurrent use; gestures apply in
// the order they acquire the viewer.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/meikuraledutech/roadmap"
	"github.com/meikuraledutech/roadmap/detail"
	"github.com/meikuraledutech/roadmap/layout"
	"github.com/meikuraledutech/roadmap/progress"
)

var (
	ErrNoDocument  = errors.New("viewer: no roadmap document")
	ErrNoMatch     = errors.New("viewer: no node matches the search")
	ErrNoSelection = errors.New("viewer: no node selected")
	ErrHeading     = errors.New("viewer: node is a layout heading and has no status")
)

type Viewer struct {
	mu sync.Mutex

	doc  *roadmap.Roadmap
	mode Mode
	opts layout.Options

	// tree is the rendered tree in tree mode; parent maps each of its nodes
	// to the parent id. nodes holds every displayed node, steps only those of
	// the document itself.
	tree   roadmap.Node
	parent map[string]string
	nodes  map[string]*roadmap.Node
	steps  map[string]*roadmap.Node

	initial  roadmap.StatusMap
	tracker  *progress.Tracker
	expanded layout.Set
	selected string
	cached   *layout.Result

	sink        Sink
	notifier    Notifier
	surface     Surface
	recommender detail.Recommender
}

// New builds a viewer for doc. A nil doc yields ErrNoDocument.
func New(doc *roadmap.Roadmap, opts ...Option) (*Viewer, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	v := &Viewer{doc: doc.Clone(), opts: layout.DefaultOptions()}
	for _, opt := range opts {
		opt(v)
	}
	v.opts = v.opts.WithDefaults()
	v.tracker = progress.NewTracker(v.initial)
	v.initial = nil

	if v.mode == ModeAuto {
		if v.doc.IsTree() && !v.doc.Grouped() {
			v.mode = ModeTree
		} else {
			v.mode = ModePhases
		}
	}

	v.steps = v.doc.Index()
	v.nodes = make(map[string]*roadmap.Node, len(v.steps))
	for id, n := range v.steps {
		v.nodes[id] = n
	}
	if v.mode == ModeTree {
		v.tree = v.doc.Tree()
		v.parent = make(map[string]string)
		v.indexTree(&v.tree, "")
	}
	if v.expanded == nil {
		v.expanded = layout.NewSet(v.allIDs()...)
	}
	return v, nil
}

func (v *Viewer) indexTree(n *roadmap.Node, parent string) {
	if _, ok := v.nodes[n.ID]; !ok {
		v.nodes[n.ID] = n
	}
	if _, ok := v.parent[n.ID]; !ok {
		v.parent[n.ID] = parent
	}
	for i := range n.Children {
		v.indexTree(&n.Children[i], n.ID)
	}
}

// allIDs lists node ids in display order.
func (v *Viewer) allIDs() []string {
	if v.mode != ModeTree {
		return v.doc.NodeIDs()
	}
	var ids []string
	var visit func(n *roadmap.Node)
	visit = func(n *roadmap.Node) {
		ids = append(ids, n.ID)
		for i := range n.Children {
			visit(&n.Children[i])
		}
	}
	visit(&v.tree)
	return ids
}

// Fork returns an independent viewer over the same document, seeded with the
// current statuses, layout options and recommender, with every node expanded.
// It has no sink, notifier or surface. opts apply on top.
func (v *Viewer) Fork(opts ...Option) (*Viewer, error) {
	v.mu.Lock()
	base := []Option{
		WithLayout(v.opts),
		WithInitialProgress(v.tracker.Statuses()),
		WithRecommender(v.recommender),
	}
	doc := v.doc
	v.mu.Unlock()
	return New(doc, append(base, opts...)...)
}

// Mode reports the engine in use. It is never ModeAuto.
func (v *Viewer) Mode() Mode {
	return v.mode
}

// Document returns a copy of the document being viewed.
func (v *Viewer) Document() *roadmap.Roadmap {
	return v.doc.Clone()
}

// Layout returns the positions for the current shape and expansion. Results
// are cached until expansion changes; status changes never move nodes.
func (v *Viewer) Layout() layout.Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.layoutLocked()
}

func (v *Viewer) layoutLocked() layout.Result {
	if v.cached == nil {
		var res layout.Result
		if v.mode == ModeTree {
			res = layout.Tree(v.tree, v.expanded, v.opts)
		} else {
			res = layout.Phases(v.doc, v.opts)
		}
		v.cached = &res
	}
	return *v.cached
}

func (v *Viewer) known(id string) error {
	if _, ok := v.nodes[id]; !ok {
		return fmt.Errorf("%w: %q", roadmap.ErrNodeNotFound, id)
	}
	return nil
}

// step is known restricted to document nodes. The root and phase headings
// added by the tree conversion can be selected and expanded but carry no status.
func (v *Viewer) step(id string) error {
	if _, ok := v.steps[id]; ok {
		return nil
	}
	if err := v.known(id); err != nil {
		return err
	}
	return fmt.Errorf("%w: %q", ErrHeading, id)
}

// Handle applies a gesture to node id. A primary gesture selects the node
// unless it is locked.
func (v *Viewer) Handle(g progress.Gesture, id string) (progress.Transition, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	check := v.step
	if g == progress.Primary {
		check = v.known
	}
	if err := check(id); err != nil {
		return progress.Transition{}, err
	}
	tr, changed := v.tracker.Apply(g, id)
	if g == progress.Primary && tr.From != roadmap.StatusLocked {
		v.selected = id
	}
	if changed {
		v.publish(id, tr.To)
	}
	return tr, nil
}

// SetStatus overwrites the status of id, bypassing toggles and locks. It is
// how nodes get locked and unlocked.
func (v *Viewer) SetStatus(id string, s roadmap.Status) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.step(id); err != nil {
		return err
	}
	if v.tracker.Get(id) == s {
		return nil
	}
	v.tracker.Set(id, s)
	v.publish(id, s)
	return nil
}

// publish hands a change to the sink. A panicking sink is reported to the
// notifier; the local status stands either way.
func (v *Viewer) publish(id string, s roadmap.Status) {
	if v.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			v.notify(fmt.Errorf("viewer: progress sink failed for %s: %v", id, r))
		}
	}()
	v.sink.ProgressUpdated(id, s)
}

func (v *Viewer) notify(err error) {
	if v.notifier != nil {
		v.notifier.Notify(err)
	}
}

// Status returns the status of id.
func (v *Viewer) Status(id string) roadmap.Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tracker.Get(id)
}

// Statuses returns a copy of the status map.
func (v *Viewer) Statuses() roadmap.StatusMap {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tracker.Statuses()
}

// Progress summarizes the document's nodes.
func (v *Viewer) Progress() progress.Summary {
	v.mu.Lock()
	defer v.mu.Unlock()
	return progress.Summarize(v.doc.NodeIDs(), v.tracker.Statuses())
}

// GroupProgress sub-totals each phase or section.
func (v *Viewer) GroupProgress() []progress.GroupSummary {
	v.mu.Lock()
	defer v.mu.Unlock()
	return progress.SummarizeGroups(v.doc, v.tracker.Statuses())
}

// Expand marks id expanded.
func (v *Viewer) Expand(id string) error {
	return v.setExpanded(id, true)
}

// Collapse marks id collapsed, hiding its descendants in tree mode.
func (v *Viewer) Collapse(id string) error {
	return v.setExpanded(id, false)
}

// ToggleExpand flips id and reports whether it is now expanded.
func (v *Viewer) ToggleExpand(id string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.known(id); err != nil {
		return false, err
	}
	now := !v.expanded.Has(id)
	v.setExpandedLocked(id, now)
	return now, nil
}

func (v *Viewer) setExpanded(id string, on bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.known(id); err != nil {
		return err
	}
	v.setExpandedLocked(id, on)
	return nil
}

func (v *Viewer) setExpandedLocked(id string, on bool) {
	if v.expanded.Has(id) == on {
		return
	}
	if on {
		v.expanded[id] = true
	} else {
		delete(v.expanded, id)
	}
	v.cached = nil
}

// ExpandAll expands every node.
func (v *Viewer) ExpandAll() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.expanded = layout.NewSet(v.allIDs()...)
	v.cached = nil
}

// CollapseAll collapses every node except the root, leaving its children visible.
func (v *Viewer) CollapseAll() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.expanded = layout.Set{}
	if v.mode == ModeTree {
		v.expanded[v.tree.ID] = true
	}
	v.cached = nil
}

// Expanded lists the expanded node ids, sorted.
func (v *Viewer) Expanded() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	ids := make([]string, 0, len(v.expanded))
	for id := range v.expanded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FitView asks the surface to fit every laid out node.
func (v *Viewer) FitView() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.surface == nil {
		return
	}
	v.surface.FitBounds(v.layoutLocked().Bounds())
}

// Search finds the first node, in display order, whose title contains query
// ignoring case. Collapsed ancestors are expanded so the node is visible, and
// the surface is centred on it.
func (v *Viewer) Search(query string) (layout.Position, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return layout.Position{}, ErrNoMatch
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	match := ""
	for _, id := range v.allIDs() {
		if strings.Contains(strings.ToLower(v.nodes[id].Title), q) {
			match = id
			break
		}
	}
	if match == "" {
		return layout.Position{}, fmt.Errorf("%w: %q", ErrNoMatch, query)
	}

	if v.mode == ModeTree {
		for p := v.parent[match]; p != ""; p = v.parent[p] {
			v.setExpandedLocked(p, true)
		}
	}
	pos, ok := v.layoutLocked().Find(match)
	if !ok {
		return layout.Position{}, fmt.Errorf("%w: %q", ErrNoMatch, query)
	}
	if v.surface != nil {
		v.surface.CenterOn(pos.Center())
	}
	return pos, nil
}

// Select opens the detail selection on id.
func (v *Viewer) Select(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.known(id); err != nil {
		return err
	}
	v.selected = id
	return nil
}

func (v *Viewer) Deselect() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = ""
}

// Selected returns the selected node id, if any.
func (v *Viewer) Selected() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected, v.selected != ""
}

// Detail builds the panel for the selected node. The panel's mark complete
// action goes through Handle.
func (v *Viewer) Detail(ctx context.Context) (*detail.Panel, error) {
	v.mu.Lock()
	if v.selected == "" {
		v.mu.Unlock()
		return nil, ErrNoSelection
	}
	node := *v.nodes[v.selected]
	status := v.tracker.Get(node.ID)
	rec := v.recommender
	v.mu.Unlock()

	node.Children = nil
	p := detail.Build(ctx, node, status, rec)
	p.OnMarkComplete(func(id string) (progress.Transition, error) {
		return v.Handle(progress.MarkComplete, id)
	})
	return p, nil
}

// DetailFor builds the panel for id without changing the selection.
func (v *Viewer) DetailFor(ctx context.Context, id string) (*detail.Panel, error) {
	v.mu.Lock()
	if err := v.known(id); err != nil {
		v.mu.Unlock()
		return nil, err
	}
	node := *v.nodes[id]
	status := v.tracker.Get(id)
	rec := v.recommender
	v.mu.Unlock()

	node.Children = nil
	p := detail.Build(ctx, node, status, rec)
	p.OnMarkComplete(func(id string) (progress.Transition, error) {
		return v.Handle(progress.MarkComplete, id)
	})
	return p, nil
}
