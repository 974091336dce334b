package analysis_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/affrel/analysis"
	"github.com/katalvlaran/affrel/expr"
	"github.com/katalvlaran/affrel/flowgraph"
	"github.com/katalvlaran/affrel/ring"
)

// edgeLit is a compact edge literal for test programs.
type edgeLit struct{ from, to, stmt string }

func buildProgram(t *testing.T, vars []string, entry string, edges ...edgeLit) *flowgraph.Program {
	t.Helper()
	p, err := flowgraph.NewProgram(vars)
	require.NoError(t, err)
	require.NoError(t, p.AddProcedure("main", entry))
	for _, e := range edges {
		var st expr.Expr
		if e.stmt != "" {
			st = expr.MustParse(e.stmt)
		}
		_, err = p.AddEdge(e.from, e.to, st)
		require.NoError(t, err)
	}
	return p
}

func generators(t *testing.T, p *flowgraph.Program, id string) []ring.Vector {
	t.Helper()
	n, err := p.Node(id)
	require.NoError(t, err)
	require.NotNil(t, n.Generators, "node %s has no generator set", id)
	var out []ring.Vector
	for _, g := range n.Generators.Vectors() {
		out = append(out, g.Vector())
	}
	return out
}

// holds reports whether the affine relation a·(1, x...) = 0 is satisfied by
// every generator.
func holds(r *ring.Ring, gens []ring.Vector, a ring.Vector) bool {
	for _, g := range gens {
		var acc uint64
		for i := range g {
			acc = r.Add(acc, r.MulElem(g[i], a[i]))
		}
		if acc != 0 {
			return false
		}
	}
	return true
}

func TestNew_Invalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		w, n int
	}{
		{"zero width", 0, 1},
		{"negative width", -3, 1},
		{"too wide", 65, 1},
		{"negative vars", 8, -1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := analysis.New(tc.w, tc.n)
			require.ErrorIs(t, err, analysis.ErrInvalidConfig)
		})
	}

	_, err := analysis.New(8, 1, analysis.WithEntry(""))
	require.ErrorIs(t, err, analysis.ErrOptionViolation)
}

func TestRun_Preconditions(t *testing.T) {
	a, err := analysis.New(8, 1)
	require.NoError(t, err)

	_, err = a.Run(nil)
	require.ErrorIs(t, err, analysis.ErrProgramNil)

	p2 := buildProgram(t, []string{"x", "y"}, "s")
	_, err = a.Run(p2)
	require.ErrorIs(t, err, analysis.ErrVarCount)

	p, err := flowgraph.NewProgram([]string{"x"})
	require.NoError(t, err)
	require.NoError(t, p.AddProcedure("other", "s"))
	_, err = a.Run(p)
	require.ErrorIs(t, err, flowgraph.ErrEntryNotFound)
}

func TestRun_Increment(t *testing.T) {
	p := buildProgram(t, []string{"x1"}, "n0", edgeLit{"n0", "n1", "x1 = x1 + 1"})
	a, err := analysis.New(8, 1)
	require.NoError(t, err)

	res, err := a.Run(p)
	require.NoError(t, err)
	assert.Equal(t, "n0", res.Entry.ID)

	r := a.Ring()
	want := []ring.Vector{r.Vec(1, 1), r.Vec(0, 1)}
	if diff := cmp.Diff(want, generators(t, p, "n1")); diff != "" {
		t.Fatalf("exit generators mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []ring.Vector{r.Vec(1, 0), r.Vec(0, 1)}, generators(t, p, "n0"))

	assert.Equal(t, analysis.Stats{Edges: 1, Nodes: 2, Pops: 4, Accepted: 4}, res.Stats)

	e := p.Edges()[0]
	require.Len(t, e.Transitions, 1)
	m, err := r.FromRows([][]int64{{1, 1}, {0, 1}})
	require.NoError(t, err)
	assert.True(t, m.Equal(e.Transitions[0]))
}

func TestRun_CopyRelation(t *testing.T) {
	p := buildProgram(t, []string{"x", "y"}, "a", edgeLit{"a", "b", "y = 2*x"})
	a, err := analysis.New(8, 2)
	require.NoError(t, err)
	_, err = a.Run(p)
	require.NoError(t, err)

	r := a.Ring()
	gens := generators(t, p, "b")
	assert.Equal(t, []ring.Vector{r.Vec(1, 0, 0), r.Vec(0, 1, 2)}, gens)
	// y - 2x = 0 holds after the edge, x = 0 does not.
	assert.True(t, holds(r, gens, r.Vec(0, -2, 1)))
	assert.False(t, holds(r, gens, r.Vec(0, 1, 0)))
}

func TestRun_EvenLoopCounter(t *testing.T) {
	p := buildProgram(t, []string{"x"}, "n0",
		edgeLit{"n0", "n1", "x = 0"},
		edgeLit{"n1", "n1", "x = x + 2"},
	)
	a, err := analysis.New(8, 1)
	require.NoError(t, err)
	res, err := a.Run(p)
	require.NoError(t, err)

	r := a.Ring()
	gens := generators(t, p, "n1")
	assert.Equal(t, []ring.Vector{r.Vec(1, 0), r.Vec(0, 2)}, gens)
	// x stays even: 128·x = 0 mod 256.
	assert.True(t, holds(r, gens, r.Vec(0, 128)))
	assert.False(t, holds(r, gens, r.Vec(0, 64)))

	assert.Equal(t, analysis.Stats{Edges: 2, Nodes: 2, Pops: 4, Accepted: 4}, res.Stats)
}

func TestRun_UnrecognizedJoinsBothBrackets(t *testing.T) {
	p := buildProgram(t, []string{"x"}, "n0", edgeLit{"n0", "n1", "x = x * x"})
	a, err := analysis.New(8, 1)
	require.NoError(t, err)
	_, err = a.Run(p)
	require.NoError(t, err)

	r := a.Ring()
	assert.Equal(t, []ring.Vector{r.Vec(1, 0), r.Vec(0, 1)}, generators(t, p, "n1"))
}

func TestRun_OtherProceduresGetEmptySets(t *testing.T) {
	p := buildProgram(t, []string{"x"}, "m0", edgeLit{"m0", "m1", "x = 1"})
	require.NoError(t, p.AddProcedure("helper", "h0"))
	_, err := p.AddEdge("h0", "h1", expr.MustParse("x = 2"))
	require.NoError(t, err)

	a, err := analysis.New(8, 1)
	require.NoError(t, err)
	res, err := a.Run(p)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Stats.Nodes)
	assert.Equal(t, 1, res.Stats.Edges, "edges outside main are not materialized")
	assert.Empty(t, generators(t, p, "h1"))

	h0, err := p.Node("h0")
	require.NoError(t, err)
	assert.Nil(t, h0.Edges[0].Transitions)
}

func TestRun_ObserverAndReuse(t *testing.T) {
	p := buildProgram(t, []string{"x"}, "n0",
		edgeLit{"n0", "n1", ""},
		edgeLit{"n1", "n0", "x = x + 1"},
	)
	var matrices, changes int
	obs := analysis.ObserverFuncs{
		OnMatrices:   func(*flowgraph.Edge) { matrices++ },
		OnGenerators: func(*flowgraph.Node) { changes++ },
	}
	a, err := analysis.New(4, 1, analysis.WithObserver(obs))
	require.NoError(t, err)

	res, err := a.Run(p)
	require.NoError(t, err)
	assert.Equal(t, 2, matrices)
	assert.Equal(t, res.Stats.Accepted, changes)
	first := generators(t, p, "n1")

	// A second run reuses the cached matrices and rebuilds the same sets.
	res, err = a.Run(p)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Stats.Edges)
	assert.Equal(t, 2, matrices)
	assert.Equal(t, first, generators(t, p, "n1"))
}

func TestRun_RebuildsMatricesForNewWidth(t *testing.T) {
	p := buildProgram(t, []string{"x"}, "n0", edgeLit{"n0", "n1", "x = x - 1"})

	narrow, err := analysis.New(4, 1)
	require.NoError(t, err)
	_, err = narrow.Run(p)
	require.NoError(t, err)
	r4 := narrow.Ring()
	assert.Equal(t, []ring.Vector{r4.Vec(1, 15), r4.Vec(0, 1)}, generators(t, p, "n1"))

	wide, err := analysis.New(8, 1)
	require.NoError(t, err)
	res, err := wide.Run(p)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Edges, "matrices built under w=4 must be rebuilt")
	assert.Equal(t, 8, p.Edges()[0].TransitionWidth)

	r8 := wide.Ring()
	want := []ring.Vector{r8.Vec(1, -1), r8.Vec(0, 1)}
	if diff := cmp.Diff(want, generators(t, p, "n1")); diff != "" {
		t.Fatalf("w=8 generators after a w=4 run (-want +got):\n%s", diff)
	}
}

func TestLogObserver(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := buildProgram(t, []string{"x"}, "n0", edgeLit{"n0", "n1", "x = x * x"})

	a, err := analysis.New(8, 1, analysis.WithObserver(analysis.NewLogObserver(zap.New(core), true, false)))
	require.NoError(t, err)
	_, err = a.Run(p)
	require.NoError(t, err)

	entries := logs.FilterMessage("transition matrix").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "n0->n1", entries[0].ContextMap()["edge"])
	assert.Equal(t, 0, logs.FilterMessage("generators changed").Len())

	core, logs = observer.New(zap.InfoLevel)
	p = buildProgram(t, []string{"x"}, "n0", edgeLit{"n0", "n1", "x = x + 1"})
	a, err = analysis.New(8, 1, analysis.WithObserver(analysis.NewLogObserver(zap.New(core), false, true)))
	require.NoError(t, err)
	res, err := a.Run(p)
	require.NoError(t, err)
	assert.Equal(t, res.Stats.Accepted, logs.FilterMessage("generators changed").Len())
	assert.Equal(t, 0, logs.FilterMessage("transition matrix").Len())
}
