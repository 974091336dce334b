// Package loader reads program graphs from YAML documents.
//
//	vars: [i, j]
//	procedures:
//	  main: entry
//	edges:
//	  - {from: entry, to: loop, stmt: "i = 0"}
//	  - {from: loop, to: loop, stmt: "i = i + 2"}
//	  - {from: loop, to: exit, stmt: "i >= 10"}
//	  - {from: loop, to: exit}
//
// An edge without stmt is a pure control transfer. The optional nodes list
// declares nodes up front, which fixes their listing order and allows
// isolated nodes.
package loader

import (
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/affrel/expr"
	"github.com/katalvlaran/affrel/flowgraph"
)

// ErrInvalid is wrapped by every structural problem in a document.
var ErrInvalid = errors.New("loader: invalid program document")

// Document is the YAML form of a program.
type Document struct {
	Vars       []string          `yaml:"vars"`
	Procedures map[string]string `yaml:"procedures"`
	Nodes      []string          `yaml:"nodes,omitempty"`
	Edges      []EdgeDoc         `yaml:"edges"`
}

// EdgeDoc is one edge of a Document.
type EdgeDoc struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Stmt string `yaml:"stmt,omitempty"`
}

// Load reads and builds the program stored at path.
func Load(path string) (*flowgraph.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loader: opening %s", path)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return p, nil
}

// Decode reads a single YAML document from r. Unknown fields are rejected.
func Decode(r io.Reader) (*flowgraph.Program, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.Wrap(ErrInvalid, "empty document")
		}
		return nil, errors.Wrap(err, "loader: decoding yaml")
	}
	return Build(&doc)
}

// Build turns doc into a Program.
func Build(doc *Document) (*flowgraph.Program, error) {
	if len(doc.Procedures) == 0 {
		return nil, errors.Wrap(ErrInvalid, "no procedures")
	}
	p, err := flowgraph.NewProgram(doc.Vars)
	if err != nil {
		return nil, errors.Wrap(ErrInvalid, err.Error())
	}
	for _, id := range doc.Nodes {
		if _, err := p.AddNode(id); err != nil {
			return nil, errors.Wrap(ErrInvalid, err.Error())
		}
	}

	names := make([]string, 0, len(doc.Procedures))
	for name := range doc.Procedures {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := p.AddProcedure(name, doc.Procedures[name]); err != nil {
			return nil, errors.Wrapf(ErrInvalid, "procedure %q: %v", name, err)
		}
	}

	for i, e := range doc.Edges {
		if e.From == "" || e.To == "" {
			return nil, errors.Wrapf(ErrInvalid, "edge %d: from and to are required", i)
		}
		var st expr.Expr
		if e.Stmt != "" {
			if st, err = expr.Parse(e.Stmt); err != nil {
				return nil, errors.Wrapf(err, "loader: edge %d (%s->%s)", i, e.From, e.To)
			}
		}
		if _, err = p.AddEdge(e.From, e.To, st); err != nil {
			return nil, errors.Wrapf(ErrInvalid, "edge %d: %v", i, err)
		}
	}

	return p, nil
}
