package viewer

import (
	"context"

	"github.com/meikuraledutech/roadmap"
	"github.com/meikuraledutech/roadmap/detail"
	"github.com/meikuraledutech/roadmap/layout"
)

// Mode selects the layout engine.
type Mode int

const (
	// ModeAuto uses the phase engine for grouped or flat documents and the
	// tree engine for tree documents.
	ModeAuto Mode = iota
	// ModeTree always uses the tree engine, converting flat documents.
	ModeTree
	// ModePhases always uses the phase engine.
	ModePhases
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeTree:
		return "tree"
	case ModePhases:
		return "phases"
	}
	return "unknown"
}

// ParseMode accepts auto, tree and phases. Anything else is ModeAuto.
func ParseMode(s string) Mode {
	switch s {
	case "tree":
		return ModeTree
	case "phases", "phase", "sections":
		return ModePhases
	}
	return ModeAuto
}

// Sink receives every local status change. It must not block.
type Sink interface {
	ProgressUpdated(nodeID string, status roadmap.Status)
}

// Notifier is told about failures the viewer absorbs.
type Notifier interface {
	Notify(err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(err error)

func (f NotifierFunc) Notify(err error) { f(err) }

// Surface is the rendering surface the viewer steers.
type Surface interface {
	FitBounds(r layout.Rect)
	CenterOn(x, y float64)
}

// DocumentLoader supplies roadmap documents.
type DocumentLoader interface {
	LoadDocument(ctx context.Context, roadmapID string) (*roadmap.Roadmap, error)
}

// ProgressLoader supplies the initial statuses of a roadmap.
type ProgressLoader interface {
	LoadProgress(ctx context.Context, roadmapID string) (roadmap.StatusMap, error)
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithInitialProgress seeds the status map.
func WithInitialProgress(m roadmap.StatusMap) Option {
	return func(v *Viewer) { v.initial = m }
}

func WithSink(s Sink) Option {
	return func(v *Viewer) { v.sink = s }
}

func WithNotifier(n Notifier) Option {
	return func(v *Viewer) { v.notifier = n }
}

func WithSurface(s Surface) Option {
	return func(v *Viewer) { v.surface = s }
}

func WithRecommender(r detail.Recommender) Option {
	return func(v *Viewer) { v.recommender = r }
}

// WithLayout overrides the layout constants.
func WithLayout(o layout.Options) Option {
	return func(v *Viewer) { v.opts = o }
}

func WithMode(m Mode) Option {
	return func(v *Viewer) { v.mode = m }
}

// WithExpanded sets the initially expanded nodes. By default every node is expanded.
func WithExpanded(ids ...string) Option {
	return func(v *Viewer) { v.expanded = layout.NewSet(ids...) }
}
