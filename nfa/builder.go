package nfa

import (
	"fmt"

	"github.com/coregx/coregex-classic/ast"
)

// fragment is a self-contained NFA piece with one start state and a set
// of final states not yet wired into anything enclosing it. Thompson
// construction composes fragments bottom-up; a fragment's finals are
// only ever promoted to the whole-NFA final set once, by Build, for the
// outermost fragment.
type fragment struct {
	start  StateID
	finals []StateID
}

// Builder constructs an NFA via Thompson construction over an AST. The
// state-id counter is local to the Builder (and therefore to one
// compile), never process-global, so repeated compiles are reproducible
// and independent (§4.4, §9 "State-id generation").
type Builder struct {
	states      []State
	maxStates   int // 0 means unlimited
	maxAlphabet int // 0 means use the default maxExpandedAlphabet ceiling
}

// NewBuilder returns a Builder that rejects NFAs exceeding maxStates
// states, and Range/CharSet nodes whose expansion exceeds maxAlphabet
// transitions. maxStates <= 0 disables the state limit; maxAlphabet <= 0
// falls back to the package's default ceiling.
func NewBuilder(maxStates, maxAlphabet int) *Builder {
	return &Builder{maxStates: maxStates, maxAlphabet: maxAlphabet}
}

// Build compiles node into a complete NFA. maxAlphabet <= 0 falls back to
// the package's default Range/CharSet expansion ceiling (see
// maxExpandedAlphabet); callers that need Config.MaxAlphabetSize
// enforced should pass it through here.
func Build(node ast.Node, maxStates, maxAlphabet int) (*NFA, error) {
	b := NewBuilder(maxStates, maxAlphabet)
	frag, err := b.build(node)
	if err != nil {
		return nil, err
	}
	finals := make(map[StateID]bool, len(frag.finals))
	for _, f := range frag.finals {
		finals[f] = true
	}
	return &NFA{start: frag.start, finals: finals, states: b.states}, nil
}

func (b *Builder) newState() (StateID, error) {
	if b.maxStates > 0 && len(b.states) >= b.maxStates {
		return InvalidState, &BuildError{Message: fmt.Sprintf("NFA exceeds configured state limit (%d)", b.maxStates), StateID: InvalidState}
	}
	id := StateID(len(b.states))
	b.states = append(b.states, State{id: id, transitions: make(map[Symbol][]StateID)})
	return id, nil
}

func (b *Builder) addTransition(from StateID, sym Symbol, to StateID) {
	st := &b.states[from]
	st.transitions[sym] = append(st.transitions[sym], to)
}

func (b *Builder) build(node ast.Node) (fragment, error) {
	switch node.Kind() {
	case ast.KindChar:
		n := node.(*ast.Char)
		return b.buildChar(n.C)
	case ast.KindEmpty:
		return b.buildEmpty()
	case ast.KindConcat:
		n := node.(*ast.Concat)
		l, err := b.build(n.L)
		if err != nil {
			return fragment{}, err
		}
		r, err := b.build(n.R)
		if err != nil {
			return fragment{}, err
		}
		return b.concat(l, r), nil
	case ast.KindAlt:
		n := node.(*ast.Alt)
		l, err := b.build(n.L)
		if err != nil {
			return fragment{}, err
		}
		r, err := b.build(n.R)
		if err != nil {
			return fragment{}, err
		}
		return b.alt(l, r)
	case ast.KindStar:
		n := node.(*ast.Star)
		c, err := b.build(n.Child)
		if err != nil {
			return fragment{}, err
		}
		return b.star(c)
	case ast.KindGroup:
		n := node.(*ast.Group)
		// Groups are transparent to the finite-state structure: capturing
		// vs. non-capturing and group numbering matter only to backref
		// validation, never to the shape of the automaton.
		return b.build(n.Child)
	case ast.KindRepeat:
		return b.buildRepeat(node.(*ast.Repeat))
	case ast.KindRepeatExact:
		return b.buildRepeatExact(node.(*ast.RepeatExact))
	case ast.KindRange:
		return b.buildRange(node.(*ast.Range))
	case ast.KindCharSet:
		return b.buildCharSet(node.(*ast.CharSet))
	case ast.KindBackref:
		n := node.(*ast.Backref)
		return fragment{}, &BuildError{Message: fmt.Sprintf(
			`backreference \%d is rejected at compile time: the core's matching model is purely finite-state and the language of a pattern with backreferences is not regular`, n.GroupNum),
			StateID: InvalidState}
	default:
		return fragment{}, &BuildError{Message: fmt.Sprintf("unhandled AST node kind %s", node.Kind()), StateID: InvalidState}
	}
}

func (b *Builder) buildChar(c byte) (fragment, error) {
	start, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	end, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	b.addTransition(start, Symbol(c), end)
	return fragment{start: start, finals: []StateID{end}}, nil
}

func (b *Builder) buildEmpty() (fragment, error) {
	start, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	end, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	b.addTransition(start, Epsilon, end)
	return fragment{start: start, finals: []StateID{end}}, nil
}

// concat splices l and r: an epsilon transition from each of l's finals
// to r's start. The combined fragment's finals are r's finals — l's
// finals stop being "final" simply by virtue of no longer being
// returned as anything's finals, with no in-place flag to clear.
func (b *Builder) concat(l, r fragment) fragment {
	for _, f := range l.finals {
		b.addTransition(f, Epsilon, r.start)
	}
	return fragment{start: l.start, finals: r.finals}
}

func (b *Builder) alt(l, r fragment) (fragment, error) {
	start, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	end, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	b.addTransition(start, Epsilon, l.start)
	b.addTransition(start, Epsilon, r.start)
	for _, f := range l.finals {
		b.addTransition(f, Epsilon, end)
	}
	for _, f := range r.finals {
		b.addTransition(f, Epsilon, end)
	}
	return fragment{start: start, finals: []StateID{end}}, nil
}

func (b *Builder) star(c fragment) (fragment, error) {
	start, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	end, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	b.addTransition(start, Epsilon, c.start)
	b.addTransition(start, Epsilon, end)
	for _, f := range c.finals {
		b.addTransition(f, Epsilon, c.start)
		b.addTransition(f, Epsilon, end)
	}
	return fragment{start: start, finals: []StateID{end}}, nil
}

// buildRepeatExact concatenates n fresh builds of child. Rebuilding
// child means re-invoking the builder on the AST subtree, producing
// genuinely disjoint state sets — copies never share states.
func (b *Builder) buildRepeatExact(n *ast.RepeatExact) (fragment, error) {
	if n.N < 0 {
		return fragment{}, &BuildError{Message: fmt.Sprintf("negative exact repeat count: %d", n.N), StateID: InvalidState}
	}
	if n.N == 0 {
		return b.buildEmpty()
	}
	result, err := b.build(n.Child)
	if err != nil {
		return fragment{}, err
	}
	for i := 1; i < n.N; i++ {
		next, err := b.build(n.Child)
		if err != nil {
			return fragment{}, err
		}
		result = b.concat(result, next)
	}
	return result, nil
}

// buildRepeat handles Repeat(child, min, max). The first min copies are
// mandatory; beyond that, an unbounded max splices a Star(child) tail,
// while a finite max splices (max-min) optional "(child|ε)" copies.
func (b *Builder) buildRepeat(n *ast.Repeat) (fragment, error) {
	if n.Min < 0 {
		return fragment{}, &BuildError{Message: fmt.Sprintf("negative repeat minimum: %d", n.Min), StateID: InvalidState}
	}
	if n.Max != nil && n.Min > *n.Max {
		return fragment{}, &BuildError{Message: fmt.Sprintf("repeat minimum %d exceeds maximum %d", n.Min, *n.Max), StateID: InvalidState}
	}

	if n.Min == 0 && n.Max == nil {
		c, err := b.build(n.Child)
		if err != nil {
			return fragment{}, err
		}
		return b.star(c)
	}

	var result fragment
	haveResult := false
	if n.Min > 0 {
		exact, err := b.buildRepeatExact(&ast.RepeatExact{Child: n.Child, N: n.Min})
		if err != nil {
			return fragment{}, err
		}
		result = exact
		haveResult = true
	}

	if n.Max == nil {
		c, err := b.build(n.Child)
		if err != nil {
			return fragment{}, err
		}
		tail, err := b.star(c)
		if err != nil {
			return fragment{}, err
		}
		if !haveResult {
			return tail, nil
		}
		return b.concat(result, tail), nil
	}

	extra := *n.Max - n.Min
	for i := 0; i < extra; i++ {
		c, err := b.build(n.Child)
		if err != nil {
			return fragment{}, err
		}
		e, err := b.buildEmpty()
		if err != nil {
			return fragment{}, err
		}
		opt, err := b.alt(c, e)
		if err != nil {
			return fragment{}, err
		}
		if !haveResult {
			result = opt
			haveResult = true
		} else {
			result = b.concat(result, opt)
		}
	}

	if !haveResult {
		// min == 0 && max == 0
		return b.buildEmpty()
	}
	return result, nil
}

// buildRange builds a single (start, end) fragment with a direct
// transition for every character the class covers. Negation is computed
// against the printable-character universe defined for ANY_CHAR.
func (b *Builder) buildRange(n *ast.Range) (fragment, error) {
	chars, err := expandRangeItems(n.Items, b.alphabetLimit())
	if err != nil {
		return fragment{}, err
	}
	if n.Negated {
		universe := make(map[byte]bool, int(ast.PrintableHi-ast.PrintableLo)+1)
		for c := int(ast.PrintableLo); c <= int(ast.PrintableHi); c++ {
			universe[byte(c)] = true
		}
		for _, c := range chars {
			delete(universe, c)
		}
		negated := make([]byte, 0, len(universe))
		for c := range universe {
			negated = append(negated, c)
		}
		chars = negated
	}
	return b.buildCharList(chars)
}

func (b *Builder) buildCharSet(n *ast.CharSet) (fragment, error) {
	if limit := b.alphabetLimit(); len(n.Chars) > limit {
		return fragment{}, &BuildError{Message: fmt.Sprintf(
			"character class expands to %d transitions, exceeding the %d-transition limit", len(n.Chars), limit),
			StateID: InvalidState}
	}
	return b.buildCharList(n.Chars)
}

func (b *Builder) buildCharList(chars []byte) (fragment, error) {
	start, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	end, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	seen := make(map[byte]bool, len(chars))
	for _, c := range chars {
		if seen[c] {
			continue
		}
		seen[c] = true
		b.addTransition(start, Symbol(c), end)
	}
	return fragment{start: start, finals: []StateID{end}}, nil
}

// maxExpandedAlphabet is the absolute ceiling on how many individual
// byte transitions a single Range node may expand into, regardless of
// Config.MaxAlphabetSize — a backstop against pathological blowup from
// wide ranges repeated many times (§5, e.g. [\x00-\xff]{100}) in case a
// caller passes a non-positive or unusually large maxAlphabet.
const maxExpandedAlphabet = 1 << 16

// alphabetLimit returns the expansion ceiling Range/CharSet nodes must
// respect: b.maxAlphabet (Config.MaxAlphabetSize, when threaded through
// Build) if set and tighter than the package default, else
// maxExpandedAlphabet.
func (b *Builder) alphabetLimit() int {
	if b.maxAlphabet > 0 && b.maxAlphabet < maxExpandedAlphabet {
		return b.maxAlphabet
	}
	return maxExpandedAlphabet
}

func expandRangeItems(items []ast.RangeItem, limit int) ([]byte, error) {
	total := 0
	for _, it := range items {
		total += int(it.Hi) - int(it.Lo) + 1
	}
	if total > limit {
		return nil, &BuildError{Message: fmt.Sprintf(
			"character class expands to %d transitions, exceeding the %d-transition limit", total, limit),
			StateID: InvalidState}
	}
	out := make([]byte, 0, total)
	for _, it := range items {
		for c := int(it.Lo); c <= int(it.Hi); c++ {
			out = append(out, byte(c))
		}
	}
	return out, nil
}
