// Package analysis runs the affine-relation fixpoint over a flowgraph.Program.
package analysis

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/affrel/flowgraph"
)

// DefaultEntry is the procedure analyzed when WithEntry is not given.
const DefaultEntry = "main"

// Sentinel errors for analysis setup and execution.
var (
	// ErrInvalidConfig is returned by New for w ≤ 0, w > 64 or n < 0.
	ErrInvalidConfig = errors.New("analysis: invalid configuration")

	// ErrProgramNil is returned if a nil program is passed to Run.
	ErrProgramNil = errors.New("analysis: program is nil")

	// ErrVarCount is returned when the program tracks a different number of
	// variables than the Analyzer was built for.
	ErrVarCount = errors.New("analysis: variable count mismatch")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("analysis: invalid option supplied")

	// ErrInternal marks a broken internal invariant (a matrix/vector shape
	// mismatch). It indicates a bug, not bad input.
	ErrInternal = errors.New("analysis: internal invariant violated")
)

// Observer receives side-effect-only notifications during a run. It must not
// mutate the graph; the result of the analysis does not depend on it.
type Observer interface {
	// MatricesComputed is called once per edge, right after its transition
	// matrices were built and cached in e.Transitions.
	MatricesComputed(e *flowgraph.Edge)

	// GeneratorsChanged is called after an accepted insertion into
	// n.Generators.
	GeneratorsChanged(n *flowgraph.Node)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) MatricesComputed(*flowgraph.Edge)  {}
func (NopObserver) GeneratorsChanged(*flowgraph.Node) {}

// ObserverFuncs adapts plain functions to Observer; nil fields are skipped.
type ObserverFuncs struct {
	OnMatrices   func(e *flowgraph.Edge)
	OnGenerators func(n *flowgraph.Node)
}

func (f ObserverFuncs) MatricesComputed(e *flowgraph.Edge) {
	if f.OnMatrices != nil {
		f.OnMatrices(e)
	}
}

func (f ObserverFuncs) GeneratorsChanged(n *flowgraph.Node) {
	if f.OnGenerators != nil {
		f.OnGenerators(n)
	}
}

// Option configures a run via functional arguments. An invalid Option is
// recorded and surfaced as ErrOptionViolation by New.
type Option func(*Options)

// Options holds the parameters of an Analyzer.
type Options struct {
	// Entry names the procedure whose entry node is seeded.
	Entry string

	// Observer receives diagnostics; never nil after option parsing.
	Observer Observer

	err error
}

// DefaultOptions returns Entry "main" and a NopObserver.
func DefaultOptions() Options {
	return Options{Entry: DefaultEntry, Observer: NopObserver{}}
}

// WithEntry selects the analyzed procedure. An empty name is a violation.
func WithEntry(name string) Option {
	return func(o *Options) {
		if name == "" {
			o.err = fmt.Errorf("%w: entry name is empty", ErrOptionViolation)
			return
		}
		o.Entry = name
	}
}

// WithObserver installs obs; nil keeps the current observer.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		if obs != nil {
			o.Observer = obs
		}
	}
}

// Stats counts the work done by one Run.
type Stats struct {
	// Edges is the number of edges whose matrices were built in this run.
	Edges int
	// Nodes is the number of nodes given a fresh generator set.
	Nodes int
	// Pops is the number of worklist items processed.
	Pops int
	// Accepted is the number of insertions that changed a generator set,
	// including the seeds accepted at the entry.
	Accepted int
}

// Result is returned by Run. The generator sets and transition matrices
// themselves stay attached to the program's nodes and edges.
type Result struct {
	Entry *flowgraph.Node
	Stats Stats
}
