package analysis

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/affrel/flowgraph"
)

// LogObserver writes diagnostics to a zap logger. Matrix and generator
// traces are independent switches; with both off it logs nothing.
type LogObserver struct {
	log        *zap.Logger
	matrices   bool
	generators bool
}

// NewLogObserver returns an observer logging through l. A nil l yields a
// no-op logger.
func NewLogObserver(l *zap.Logger, traceMatrices, traceGenerators bool) *LogObserver {
	if l == nil {
		l = zap.NewNop()
	}
	return &LogObserver{log: l, matrices: traceMatrices, generators: traceGenerators}
}

// MatricesComputed logs every transition matrix of e.
func (o *LogObserver) MatricesComputed(e *flowgraph.Edge) {
	if !o.matrices {
		return
	}
	for i, m := range e.Transitions {
		o.log.Info("transition matrix",
			zap.String("edge", e.Name()),
			zap.Stringer("stmt", stmtOf(e)),
			zap.Int("index", i),
			zap.Int("of", len(e.Transitions)),
			zap.Stringer("matrix", m),
		)
	}
}

// GeneratorsChanged logs the new contents of n's generator set.
func (o *LogObserver) GeneratorsChanged(n *flowgraph.Node) {
	if !o.generators {
		return
	}
	o.log.Info("generators changed",
		zap.String("node", n.ID),
		zap.Int("size", n.Generators.Len()),
		zap.Stringer("set", n.Generators),
	)
}

type stmt struct{ e *flowgraph.Edge }

func (s stmt) String() string {
	if s.e.Expr == nil {
		return "skip"
	}
	return s.e.Expr.String()
}

func stmtOf(e *flowgraph.Edge) stmt { return stmt{e} }
