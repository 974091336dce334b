package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/affrel/analysis"
	"github.com/katalvlaran/affrel/flowgraph"
	"github.com/katalvlaran/affrel/ring"
)

// report is the printable outcome of one analysis run.
type report struct {
	Ring  string         `yaml:"ring"`
	Vars  []string       `yaml:"vars"`
	Entry string         `yaml:"entry"`
	Stats analysis.Stats `yaml:"stats"`
	Nodes []nodeReport   `yaml:"nodes"`
}

type nodeReport struct {
	ID         string     `yaml:"id"`
	Reached    bool       `yaml:"reached"`
	Generators [][]uint64 `yaml:"generators,flow,omitempty"`
}

func newReport(r *ring.Ring, p *flowgraph.Program, res *analysis.Result) *report {
	rep := &report{
		Ring:  r.String(),
		Vars:  p.Vars(),
		Entry: res.Entry.ID,
		Stats: res.Stats,
	}
	for _, n := range p.Nodes() {
		nr := nodeReport{ID: n.ID, Reached: n.Generators != nil}
		if n.Generators != nil {
			for _, g := range n.Generators.Vectors() {
				nr.Generators = append(nr.Generators, g.Vector())
			}
		}
		rep.Nodes = append(rep.Nodes, nr)
	}
	return rep
}

func (rep *report) writeText(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("%s, vars %v, entry %s\n", rep.Ring, rep.Vars, rep.Entry)
	for _, n := range rep.Nodes {
		switch {
		case !n.Reached:
			ew.printf("%s: not reached\n", n.ID)
		case len(n.Generators) == 0:
			ew.printf("%s: {}\n", n.ID)
		default:
			ew.printf("%s:\n", n.ID)
			for _, g := range n.Generators {
				ew.printf("  %s\n", ring.Vector(g))
			}
		}
	}
	s := rep.Stats
	ew.printf("edges=%d nodes=%d pops=%d accepted=%d\n", s.Edges, s.Nodes, s.Pops, s.Accepted)
	return ew.err
}

func (rep *report) writeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return errors.Wrap(err, "encoding report")
	}
	return enc.Close()
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
