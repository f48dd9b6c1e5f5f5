package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Orientation is the growth direction of a tree layout.
type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// Options holds the layout constants. Zero fields take the defaults.
type Options struct {
	NodeWidth       float64     `yaml:"node_width,omitempty" json:"node_width,omitempty"`
	NodeHeight      float64     `yaml:"node_height,omitempty" json:"node_height,omitempty"`
	HorizontalGap   float64     `yaml:"horizontal_gap,omitempty" json:"horizontal_gap,omitempty"`
	VerticalGap     float64     `yaml:"vertical_gap,omitempty" json:"vertical_gap,omitempty"`
	ContainerWidth  float64     `yaml:"container_width,omitempty" json:"container_width,omitempty"`
	ContainerHeight float64     `yaml:"container_height,omitempty" json:"container_height,omitempty"`
	Padding         float64     `yaml:"padding,omitempty" json:"padding,omitempty"`
	GroupGap        float64     `yaml:"group_gap,omitempty" json:"group_gap,omitempty"`
	LabelHeight     float64     `yaml:"label_height,omitempty" json:"label_height,omitempty"`
	Orientation     Orientation `yaml:"orientation,omitempty" json:"orientation,omitempty"`

	// ReserveCollapsed sizes every subtree as if fully expanded, so that
	// collapsing a node never moves the nodes that stay visible.
	ReserveCollapsed bool `yaml:"reserve_collapsed,omitempty" json:"reserve_collapsed,omitempty"`
}

// DefaultOptions returns the compact single-screen constants.
func DefaultOptions() Options {
	return Options{
		NodeWidth:       150,
		NodeHeight:      40,
		HorizontalGap:   12,
		VerticalGap:     25,
		ContainerWidth:  1200,
		ContainerHeight: 800,
		Padding:         50,
		GroupGap:        40,
		LabelHeight:     28,
		Orientation:     Vertical,
	}
}

// WithDefaults fills zero fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.NodeWidth <= 0 {
		o.NodeWidth = d.NodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = d.NodeHeight
	}
	if o.HorizontalGap <= 0 {
		o.HorizontalGap = d.HorizontalGap
	}
	if o.VerticalGap <= 0 {
		o.VerticalGap = d.VerticalGap
	}
	if o.ContainerWidth <= 0 {
		o.ContainerWidth = d.ContainerWidth
	}
	if o.ContainerHeight <= 0 {
		o.ContainerHeight = d.ContainerHeight
	}
	if o.Padding <= 0 {
		o.Padding = d.Padding
	}
	if o.GroupGap <= 0 {
		o.GroupGap = d.GroupGap
	}
	if o.LabelHeight <= 0 {
		o.LabelHeight = d.LabelHeight
	}
	if o.Orientation != Horizontal {
		o.Orientation = Vertical
	}
	return o
}

// LoadOptions reads YAML overrides from path on top of DefaultOptions.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("layout: read options: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("layout: parse options %s: %w", path, err)
	}
	switch opts.Orientation {
	case "", Vertical, Horizontal:
	default:
		return opts, fmt.Errorf("layout: unknown orientation %q", opts.Orientation)
	}
	return opts.WithDefaults(), nil
}
