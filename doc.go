// Package affrel infers affine relations between the integer variables of a
// program, with arithmetic carried out exactly modulo 2^w the way machine
// words behave.
//
// What does it compute?
//
//	For every program point it builds a generating set of the module spanned
//	by the reachable states (1, x1, ..., xn) over Z/2^w. A relation
//	c0 + c1·x1 + ... + cn·xn ≡ 0 (mod 2^w) holds at that point exactly when
//	(c0, ..., cn) is orthogonal to every generator.
//
// Z/2^w is not a field: even numbers have no inverse, so plain Gaussian
// elimination loses information. The generator sets are kept in a
// leading-index-unique form built with 2-adic valuations, valuation-weighted
// resolvents and "even companions" that capture torsion.
//
// Packages:
//
//	ring/       - Z/2^w arithmetic, valuations, vectors and dense matrices
//	expr/       - statement AST (Number, Variable, BinaryOp) and a small parser
//	flowgraph/  - procedures, nodes and edges; carries the analysis results
//	transition/ - statement → transition matrices
//	genset/     - LeadVector and the canonical generator set
//	analysis/   - the worklist fixpoint and its observers
//	normalform/ - diagonal normal form T·A·S = D of square matrices
//	config/     - TOML settings
//	loader/     - YAML program files
//	logging/    - zap logger construction
//	cmd/affrel  - command-line front end
//
// Quick example (w = 8):
//
//	n0 ──[x1 = x1 + 1]──▶ n1
//
//	n1 generators: (1, 1), (0, 1)
//
// The two generators span the whole module, so no relation pins x1 at n1,
// while the constant slot stays 1.
package affrel
