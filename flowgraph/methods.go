package flowgraph

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/katalvlaran/affrel/expr"
)

// NewProgram creates an empty Program tracking vars, in that order.
// Variable i (0-based) occupies state column i+1; column 0 is the constant.
// Returns ErrEmptyVariable or ErrDuplicateVariable for an invalid list.
// Complexity: O(len(vars)).
func NewProgram(vars []string) (*Program, error) {
	p := &Program{
		vars:       make([]string, 0, len(vars)),
		varIndex:   make(map[string]int, len(vars)),
		nodes:      make(map[string]*Node),
		procedures: make(map[string]*Node),
	}
	for _, v := range vars {
		if v == "" {
			return nil, graphErrorf("NewProgram", ErrEmptyVariable)
		}
		if _, dup := p.varIndex[v]; dup {
			return nil, graphErrorf("NewProgram", fmt.Errorf("%w: %q", ErrDuplicateVariable, v))
		}
		p.vars = append(p.vars, v)
		p.varIndex[v] = len(p.vars)
	}

	return p, nil
}

// Vars returns a copy of the tracked variable list.
func (p *Program) Vars() []string {
	out := make([]string, len(p.vars))
	copy(out, p.vars)
	return out
}

// NumVars returns n, the number of tracked variables.
func (p *Program) NumVars() int { return len(p.vars) }

// VarIndex returns the 1-based state column of name, or 0 if name is not
// tracked.
func (p *Program) VarIndex(name string) int { return p.varIndex[name] }

// AddNode adds a node with the given ID, or returns the existing one.
func (p *Program) AddNode(id string) (*Node, error) {
	if id == "" {
		return nil, graphErrorf("AddNode", ErrEmptyNodeID)
	}
	if n, ok := p.nodes[id]; ok {
		return n, nil
	}
	n := &Node{ID: id}
	p.nodes[id] = n
	p.order = append(p.order, n)

	return n, nil
}

// Node returns the node with the given ID.
func (p *Program) Node(id string) (*Node, error) {
	n, ok := p.nodes[id]
	if !ok {
		return nil, graphErrorf("Node", fmt.Errorf("%w: %q", ErrNodeNotFound, id))
	}
	return n, nil
}

// HasNode reports whether a node with the given ID exists.
func (p *Program) HasNode(id string) bool {
	_, ok := p.nodes[id]
	return ok
}

// AddEdge appends an edge from→to carrying e (nil for a control edge).
// Missing endpoints are created automatically. Edge IDs are sequential.
// Complexity: O(1) amortized.
func (p *Program) AddEdge(from, to string, e expr.Expr) (*Edge, error) {
	src, err := p.AddNode(from)
	if err != nil {
		return nil, graphErrorf("AddEdge", err)
	}
	dst, err := p.AddNode(to)
	if err != nil {
		return nil, graphErrorf("AddEdge", err)
	}
	edge := &Edge{
		ID:   "e" + strconv.FormatUint(p.nextEdgeID, 10),
		From: src,
		To:   dst,
		Expr: e,
	}
	p.nextEdgeID++
	src.Edges = append(src.Edges, edge)
	p.edges = append(p.edges, edge)

	return edge, nil
}

// AddProcedure registers name with entry node entryID, creating the node if
// needed.
func (p *Program) AddProcedure(name, entryID string) error {
	if _, dup := p.procedures[name]; dup {
		return graphErrorf("AddProcedure", fmt.Errorf("%w: %q", ErrDuplicateProcedure, name))
	}
	n, err := p.AddNode(entryID)
	if err != nil {
		return graphErrorf("AddProcedure", err)
	}
	p.procedures[name] = n

	return nil
}

// Entry returns the entry node of procedure name.
func (p *Program) Entry(name string) (*Node, error) {
	n, ok := p.procedures[name]
	if !ok {
		return nil, graphErrorf("Entry", fmt.Errorf("%w: %q", ErrEntryNotFound, name))
	}
	return n, nil
}

// Procedures returns the registered procedure names, sorted.
func (p *Program) Procedures() []string {
	out := make([]string, 0, len(p.procedures))
	for name := range p.procedures {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Nodes returns every node in insertion order.
func (p *Program) Nodes() []*Node {
	out := make([]*Node, len(p.order))
	copy(out, p.order)
	return out
}

// Edges returns every edge in insertion order.
func (p *Program) Edges() []*Edge {
	out := make([]*Edge, len(p.edges))
	copy(out, p.edges)
	return out
}
