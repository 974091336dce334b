// Package flowgraph defines the interprocedural control-flow graph consumed by
// the analysis: procedures with entry nodes, nodes with ordered outgoing
// edges, and the ordered list of tracked variables.
//
// The analysis attaches its artifacts directly to the graph: every edge it
// reaches caches its transition matrices in Edge.Transitions and every node
// it initializes owns a generator set in Node.Generators. These are the
// outputs read by presentation code.
//
// A Program is not safe for concurrent mutation. Build it, then hand it to
// a single analysis run.
//
// Errors:
//
//	ErrEmptyNodeID         - node ID is the empty string.
//	ErrNodeNotFound        - requested node does not exist.
//	ErrEntryNotFound       - no procedure with the requested name.
//	ErrDuplicateProcedure  - procedure name registered twice.
//	ErrEmptyVariable       - empty variable name in the tracked list.
//	ErrDuplicateVariable   - variable listed twice.
package flowgraph

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/affrel/expr"
	"github.com/katalvlaran/affrel/genset"
	"github.com/katalvlaran/affrel/ring"
)

// Sentinel errors for graph construction and lookup.
var (
	// ErrEmptyNodeID indicates that a node ID is empty.
	ErrEmptyNodeID = errors.New("flowgraph: node ID is empty")

	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("flowgraph: node not found")

	// ErrEntryNotFound indicates that no procedure has the requested name.
	ErrEntryNotFound = errors.New("flowgraph: entry procedure not found")

	// ErrDuplicateProcedure indicates a procedure name was registered twice.
	ErrDuplicateProcedure = errors.New("flowgraph: duplicate procedure")

	// ErrEmptyVariable indicates an empty name in the tracked variable list.
	ErrEmptyVariable = errors.New("flowgraph: variable name is empty")

	// ErrDuplicateVariable indicates the tracked variable list repeats a name.
	ErrDuplicateVariable = errors.New("flowgraph: duplicate variable")
)

// graphErrorf tags err with the failing method.
func graphErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Node is a program point.
type Node struct {
	// ID uniquely identifies this node within its Program.
	ID string

	// Edges lists outgoing edges in insertion order.
	Edges []*Edge

	// Generators is attached by the analysis; nil until then.
	Generators *genset.Set
}

// Edge is one control-flow transition From→To.
type Edge struct {
	// ID is generated by the Program ("e0", "e1", ...).
	ID string

	// From and To are the endpoints; To is never nil.
	From, To *Node

	// Expr is the statement executed along the edge. nil means a pure
	// control transfer; a non-assignment expression is a branch guard.
	Expr expr.Expr

	// Transitions caches the edge's transition matrices. nil means "not yet
	// computed"; the analysis fills it once per word size.
	Transitions []*ring.Matrix

	// TransitionWidth is the word size Transitions were reduced under.
	TransitionWidth int
}

// Name renders the edge as "from->to" for diagnostics.
func (e *Edge) Name() string {
	return e.From.ID + "->" + e.To.ID
}

// Program is the graph plus the tracked variable list.
type Program struct {
	vars     []string       // ordered, duplicate-free
	varIndex map[string]int // name → 1-based state column

	nodes      map[string]*Node
	order      []*Node // insertion order, for deterministic listings
	edges      []*Edge
	procedures map[string]*Node
	nextEdgeID uint64
}
