package dag

import "fmt"

// EdgeKind is a rendering hint for how an edge should be drawn. Layout never
// branches on it; it is copied onto the edge's route as-is.
type EdgeKind int

const (
	EdgeKindDefault    EdgeKind = iota // Renderer's default curve
	EdgeKindSmoothStep                 // Orthogonal with rounded corners
	EdgeKindStep                       // Orthogonal with sharp corners
	EdgeKindStraight                   // Single straight segment
)

var edgeKindNames = [...]string{
	EdgeKindDefault:    "default",
	EdgeKindSmoothStep: "smoothstep",
	EdgeKindStep:       "step",
	EdgeKindStraight:   "straight",
}

func (k EdgeKind) String() string {
	if k < 0 || int(k) >= len(edgeKindNames) {
		return fmt.Sprintf("EdgeKind(%d)", int(k))
	}
	return edgeKindNames[k]
}

// ParseEdgeKind returns the kind with the given name. The empty string maps
// to [EdgeKindDefault].
func ParseEdgeKind(s string) (EdgeKind, error) {
	if s == "" {
		return EdgeKindDefault, nil
	}
	for k, name := range edgeKindNames {
		if name == s {
			return EdgeKind(k), nil
		}
	}
	return EdgeKindDefault, fmt.Errorf("unknown edge kind %q", s)
}

func (k EdgeKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(edgeKindNames) {
		return nil, fmt.Errorf("unknown edge kind %d", int(k))
	}
	return []byte(edgeKindNames[k]), nil
}

func (k *EdgeKind) UnmarshalText(text []byte) error {
	parsed, err := ParseEdgeKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
