package roadmap

import "fmt"

// NodeType is the visual category of a node. It never affects behaviour.
type NodeType uint8

const (
	TypeCore NodeType = iota
	TypeOptional
	TypeBeginner
	TypeAlternative
	TypeProject
)

// NodeTypes lists every node type in legend order.
func NodeTypes() []NodeType {
	return []NodeType{TypeCore, TypeOptional, TypeBeginner, TypeAlternative, TypeProject}
}

func (t NodeType) String() string {
	switch t {
	case TypeCore:
		return "core"
	case TypeOptional:
		return "optional"
	case TypeBeginner:
		return "beginner"
	case TypeAlternative:
		return "alternative"
	case TypeProject:
		return "project"
	}
	return fmt.Sprintf("NodeType(%d)", uint8(t))
}

// Label is the human readable legend entry for the type.
func (t NodeType) Label() string {
	switch t {
	case TypeCore:
		return "Core knowledge"
	case TypeOptional:
		return "Optional knowledge"
	case TypeBeginner:
		return "Fundamentals"
	case TypeAlternative:
		return "Alternative"
	case TypeProject:
		return "Hands-on project"
	}
	return "Topic"
}

// ParseNodeType accepts only the canonical names. An empty string is TypeCore.
func ParseNodeType(s string) (NodeType, error) {
	switch s {
	case "", "core":
		return TypeCore, nil
	case "optional":
		return TypeOptional, nil
	case "beginner":
		return TypeBeginner, nil
	case "alternative":
		return TypeAlternative, nil
	case "project":
		return TypeProject, nil
	}
	return TypeCore, fmt.Errorf("roadmap: unknown node type %q", s)
}

func (t NodeType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *NodeType) UnmarshalText(b []byte) error {
	v, err := ParseNodeType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
