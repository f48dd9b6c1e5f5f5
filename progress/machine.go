// Package progress tracks learner status per node and aggregates it.
//
// A Tracker applies user gestures as toggles: a gesture that targets the
// status a node already has sends it back to pending. Locked nodes ignore
// every gesture; only Set can lock or unlock them. The Tracker is not safe
// for concurrent use; callers serialise access.
package progress

import (
	"fmt"
	"strings"

	"github.com/meikuraledutech/roadmap"
)

// Gesture is a user interaction with a node.
type Gesture uint8

const (
	// Primary opens the node's details and never changes status.
	Primary Gesture = iota
	// Context toggles completed.
	Context
	// Shift toggles in progress.
	Shift
	// Alt toggles skipped.
	Alt
	// MarkComplete is the detail panel button; it toggles completed.
	MarkComplete
	// Checkbox toggles completed.
	Checkbox
)

func (g Gesture) String() string {
	switch g {
	case Primary:
		return "primary"
	case Context:
		return "context"
	case Shift:
		return "shift"
	case Alt:
		return "alt"
	case MarkComplete:
		return "mark_complete"
	case Checkbox:
		return "checkbox"
	}
	return fmt.Sprintf("Gesture(%d)", uint8(g))
}

// ParseGesture maps a wire gesture name.
func ParseGesture(s string) (Gesture, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "click", "primary":
		return Primary, nil
	case "context", "right_click", "contextmenu":
		return Context, nil
	case "shift", "shift_click":
		return Shift, nil
	case "alt", "alt_click":
		return Alt, nil
	case "mark_complete":
		return MarkComplete, nil
	case "checkbox":
		return Checkbox, nil
	}
	return Primary, fmt.Errorf("progress: unknown gesture %q", s)
}

func (g Gesture) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Gesture) UnmarshalText(b []byte) error {
	v, err := ParseGesture(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// target is the status a gesture toggles. Primary has none.
func (g Gesture) target() (roadmap.Status, bool) {
	switch g {
	case Context, MarkComplete, Checkbox:
		return roadmap.StatusCompleted, true
	case Shift:
		return roadmap.StatusInProgress, true
	case Alt:
		return roadmap.StatusSkipped, true
	}
	return roadmap.StatusPending, false
}

// Transition records the effect of one gesture.
type Transition struct {
	NodeID  string         `json:"node_id"`
	Gesture Gesture        `json:"gesture"`
	From    roadmap.Status `json:"from"`
	To      roadmap.Status `json:"to"`
}

// Changed reports whether the status moved.
func (t Transition) Changed() bool { return t.From != t.To }

// Tracker owns the status map of one learner on one roadmap.
type Tracker struct {
	statuses roadmap.StatusMap
}

// NewTracker seeds a tracker with a copy of initial.
func NewTracker(initial roadmap.StatusMap) *Tracker {
	return &Tracker{statuses: initial.Clone()}
}

// Get returns the status of id. Unknown ids are pending.
func (t *Tracker) Get(id string) roadmap.Status {
	return t.statuses.Get(id)
}

// Set overwrites the status of id without any toggle or lock rule.
func (t *Tracker) Set(id string, s roadmap.Status) {
	if s == roadmap.StatusPending {
		delete(t.statuses, id)
		return
	}
	t.statuses[id] = s
}

// Statuses returns a copy of the current map. Pending nodes are absent.
func (t *Tracker) Statuses() roadmap.StatusMap {
	return t.statuses.Clone()
}

// Apply runs gesture g on node id and reports whether the status changed.
func (t *Tracker) Apply(g Gesture, id string) (Transition, bool) {
	from := t.Get(id)
	tr := Transition{NodeID: id, Gesture: g, From: from, To: from}
	if from == roadmap.StatusLocked {
		return tr, false
	}
	target, ok := g.target()
	if !ok {
		return tr, false
	}
	if from == target {
		tr.To = roadmap.StatusPending
	} else {
		tr.To = target
	}
	t.Set(id, tr.To)
	return tr, true
}
