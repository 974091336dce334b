// SPDX-License-Identifier: MIT

package analysis

import (
	"fmt"

	"github.com/katalvlaran/affrel/flowgraph"
	"github.com/katalvlaran/affrel/genset"
	"github.com/katalvlaran/affrel/ring"
	"github.com/katalvlaran/affrel/transition"
)

// Analyzer computes, for every node reachable from the entry procedure, a
// generating set of the submodule of (Z/2^w)^(n+1) spanned by the reachable
// augmented states (1, x_1, ..., x_n). Affine relations valid at a node are
// exactly the vectors orthogonal to that submodule.
type Analyzer struct {
	r    *ring.Ring
	n    int
	opts Options
}

// New builds an Analyzer for word size w and n tracked variables.
// Returns ErrInvalidConfig for w ≤ 0, w > 64 or n < 0, and
// ErrOptionViolation for bad options.
func New(w, n int, opts ...Option) (*Analyzer, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: variable count %d", ErrInvalidConfig, n)
	}
	r, err := ring.New(w)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	return &Analyzer{r: r, n: n, opts: o}, nil
}

// Ring returns the arithmetic the analyzer runs in.
func (a *Analyzer) Ring() *ring.Ring { return a.r }

// workItem is a pending propagation of vec out of node.
type workItem struct {
	node *flowgraph.Node
	vec  genset.LeadVector
}

// walker holds the mutable state of one Run.
type walker struct {
	a     *Analyzer
	prog  *flowgraph.Program
	queue []workItem
	res   *Result
}

// Run analyzes p.
//
// Implementation:
//   - Stage 1: breadth-first from the entry, build and cache the transition
//     matrices of every reachable edge that has none yet, or whose cache was
//     built for another word size.
//   - Stage 2: breadth-first from every procedure entry, attach an empty
//     generator set to each reachable node.
//   - Stage 3: insert the n+1 unit vectors at the entry and queue them. The
//     seeds are recorded in the entry's own generator set as well as queued,
//     so the entry reports the full module instead of staying empty unless
//     some edge loops back to it.
//   - Stage 4: pop (node, v); for every outgoing edge and each of its
//     matrices M, insert v·M into the target's set and queue it if accepted.
//
// Termination: an accepted insertion either fills a new leading index or
// lowers the valuation stored at one, and there are n+1 indices with at most
// w+1 states each, so the worklist receives finitely many items.
//
// Call edges get no special treatment; they are transitions like any other.
func (a *Analyzer) Run(p *flowgraph.Program) (*Result, error) {
	if p == nil {
		return nil, ErrProgramNil
	}
	if p.NumVars() != a.n {
		return nil, fmt.Errorf("%w: program tracks %d, analyzer expects %d", ErrVarCount, p.NumVars(), a.n)
	}
	entry, err := p.Entry(a.opts.Entry)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	w := &walker{a: a, prog: p, res: &Result{Entry: entry}}
	if err = w.materialize(entry); err != nil {
		return nil, err
	}
	w.initGenerators()
	w.seed(entry)
	if err = w.loop(); err != nil {
		return nil, err
	}

	return w.res, nil
}

// materialize builds the matrix set of each reachable edge once. A cache
// built under another word size is rebuilt: its entries were reduced modulo
// a different 2^w.
func (w *walker) materialize(entry *flowgraph.Node) error {
	width := w.a.r.Width()
	visited := map[*flowgraph.Node]bool{entry: true}
	queue := []*flowgraph.Node{entry}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, e := range n.Edges {
			if e.Transitions == nil || e.TransitionWidth != width {
				ms, err := transition.Build(w.a.r, e.Expr, w.prog)
				if err != nil {
					return fmt.Errorf("%w: edge %s: %v", ErrInternal, e.Name(), err)
				}
				e.Transitions = ms
				e.TransitionWidth = width
				w.res.Stats.Edges++
				w.a.opts.Observer.MatricesComputed(e)
			}
			if !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return nil
}

// initGenerators gives every node reachable from any procedure entry a fresh
// empty generator set.
func (w *walker) initGenerators() {
	visited := make(map[*flowgraph.Node]bool)
	for _, name := range w.prog.Procedures() {
		start, _ := w.prog.Entry(name)
		if visited[start] {
			continue
		}
		visited[start] = true
		queue := []*flowgraph.Node{start}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			n.Generators = genset.New(w.a.r, w.a.n+1)
			w.res.Stats.Nodes++
			for _, e := range n.Edges {
				if !visited[e.To] {
					visited[e.To] = true
					queue = append(queue, e.To)
				}
			}
		}
	}
}

// seed records the unit vectors e_0..e_n at the entry: before any statement
// runs, the constant slot is 1 and every variable is arbitrary.
func (w *walker) seed(entry *flowgraph.Node) {
	for i := 0; i <= w.a.n; i++ {
		v := make(ring.Vector, w.a.n+1)
		v[i] = 1
		w.accept(entry, genset.NewLeadVector(v))
	}
}

// accept inserts v at n and queues it when the set changed.
func (w *walker) accept(n *flowgraph.Node, v genset.LeadVector) {
	if !n.Generators.Insert(v) {
		return
	}
	w.res.Stats.Accepted++
	w.a.opts.Observer.GeneratorsChanged(n)
	w.queue = append(w.queue, workItem{node: n, vec: v})
}

// loop processes the worklist until it is empty.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Stats.Pops++

		for _, e := range item.node.Edges {
			for _, m := range e.Transitions {
				next, err := w.a.r.MatVec(m, item.vec.Vector())
				if err != nil {
					return fmt.Errorf("%w: edge %s: %v", ErrInternal, e.Name(), err)
				}
				lv := genset.NewLeadVector(next)
				if lv.IsZero() {
					continue
				}
				w.accept(e.To, lv)
			}
		}
	}
	return nil
}
