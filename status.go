package roadmap

import (
	"fmt"
	"strings"
)

// Status is a learner's progress state for one node. The zero value is StatusPending.
type Status uint8

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
	StatusSkipped
	StatusLocked
)

// StatusMap maps node ids to statuses. Absent ids are StatusPending.
type StatusMap map[string]Status

// Get returns the status of id, defaulting to StatusPending.
func (m StatusMap) Get(id string) Status {
	return m[id]
}

// Clone returns an independent copy of m.
func (m StatusMap) Clone() StatusMap {
	out := make(StatusMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusSkipped:
		return "skipped"
	case StatusLocked:
		return "locked"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// ParseStatus maps a wire status to a Status. It is the single place where the
// legacy synonyms are understood: "available" is pending, "current" and
// "learning" are in progress, "done" is completed.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pending", "available":
		return StatusPending, nil
	case "in_progress", "in-progress", "current", "learning":
		return StatusInProgress, nil
	case "completed", "done":
		return StatusCompleted, nil
	case "skipped":
		return StatusSkipped, nil
	case "locked":
		return StatusLocked, nil
	}
	return StatusPending, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
