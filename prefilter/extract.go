// Package prefilter extracts literal structure from a compiled pattern's
// AST and uses it to accelerate FindAll with an Aho-Corasick automaton.
// It never changes which matches are reported — only how quickly the
// scanner gets to them, keeping "real" matching and the literal
// skip-ahead prefilter as separate, independently-correct concerns.
package prefilter

import "github.com/coregx/coregex-classic/ast"

// Literals describes a required literal alternation found inside a
// pattern's top-level concatenation: at byte offset FixedOffset from
// the start of any match, one of Alternatives must appear verbatim.
//
// FixedOffset is only known because every AST node before the
// alternation in the top-level sequence was itself an exact literal
// (see literalExact) — anything variable-length or optional ahead of it
// would make the offset unknowable, so extraction stops at the first
// node it can't reduce to an exact literal.
type Literals struct {
	FixedOffset int
	Alternatives [][]byte
}

// Extract walks node's top-level concatenation spine looking for a
// required literal alternation at a statically-known offset. It returns
// ok=false if node contains no such structure (e.g. no Alt node at all,
// or the first Alt found has a non-literal branch, or variable-length
// material precedes it).
func Extract(node ast.Node) (Literals, bool) {
	seq := flattenConcat(node)
	offset := 0
	for _, n := range seq {
		if alts, ok := literalAlternatives(n); ok && len(alts) >= 2 {
			return Literals{FixedOffset: offset, Alternatives: alts}, true
		}
		lit, ok := literalExact(n)
		if !ok {
			return Literals{}, false
		}
		offset += len(lit)
	}
	return Literals{}, false
}

func flattenConcat(n ast.Node) []ast.Node {
	if c, ok := n.(*ast.Concat); ok {
		return append(flattenConcat(c.L), flattenConcat(c.R)...)
	}
	return []ast.Node{n}
}

// literalExact returns the exact (fixed, unique) string n matches, if n
// has no variability at all: a Char, an Empty, a Group wrapping an
// exact literal, a RepeatExact of an exact literal, or a Concat of
// exact literals.
func literalExact(n ast.Node) ([]byte, bool) {
	switch v := n.(type) {
	case *ast.Char:
		return []byte{v.C}, true
	case *ast.Empty:
		return []byte{}, true
	case *ast.Group:
		return literalExact(v.Child)
	case *ast.Concat:
		l, ok := literalExact(v.L)
		if !ok {
			return nil, false
		}
		r, ok := literalExact(v.R)
		if !ok {
			return nil, false
		}
		return append(l, r...), true
	case *ast.RepeatExact:
		if v.N < 0 {
			return nil, false
		}
		sub, ok := literalExact(v.Child)
		if !ok {
			return nil, false
		}
		out := make([]byte, 0, len(sub)*v.N)
		for i := 0; i < v.N; i++ {
			out = append(out, sub...)
		}
		return out, true
	default:
		return nil, false
	}
}

// literalAlternatives returns the exact literal string of every branch
// of n, if n is an Alt tree (possibly nested) whose every branch
// reduces to an exact literal.
func literalAlternatives(n ast.Node) ([][]byte, bool) {
	if g, ok := n.(*ast.Group); ok {
		return literalAlternatives(g.Child)
	}
	alt, ok := n.(*ast.Alt)
	if !ok {
		return nil, false
	}
	var branches []ast.Node
	var collect func(ast.Node)
	collect = func(x ast.Node) {
		if a, ok := x.(*ast.Alt); ok {
			collect(a.L)
			collect(a.R)
			return
		}
		branches = append(branches, x)
	}
	collect(alt)

	out := make([][]byte, 0, len(branches))
	for _, b := range branches {
		lit, ok := literalExact(b)
		if !ok {
			return nil, false
		}
		out = append(out, lit)
	}
	return out, true
}
