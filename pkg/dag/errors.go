package dag

import (
	"fmt"
	"strings"
)

// ValidationError describes malformed graph input. Err is always one of the
// package's sentinel errors, so callers can match with errors.Is:
//
//	if errors.Is(err, dag.ErrUnknownTargetNode) { ... }
type ValidationError struct {
	Err    error  // Sentinel describing the failure
	Node   string // Offending node ID, if any
	Edge   string // Offending edge ID, if any
	Detail string // Extra context, e.g. the rejected option value
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Edge != "" {
		fmt.Fprintf(&b, ": edge %q", e.Edge)
	}
	if e.Node != "" {
		fmt.Fprintf(&b, ": node %q", e.Node)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// CycleError reports a directed cycle. Nodes lists the cycle in path order
// without repeating the first node: [A B C] means A -> B -> C -> A.
type CycleError struct {
	Nodes []string
}

func (e *CycleError) Error() string {
	if len(e.Nodes) == 0 {
		return ErrGraphHasCycle.Error()
	}
	return fmt.Sprintf("%s: %s -> %s", ErrGraphHasCycle, strings.Join(e.Nodes, " -> "), e.Nodes[0])
}

func (e *CycleError) Unwrap() error { return ErrGraphHasCycle }
