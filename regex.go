// Package coregex implements a classical regular expression engine:
// lexer and recursive-descent parser build an AST, Thompson construction
// turns the AST into an NFA, subset construction determinizes it, and
// Hopcroft-style partition refinement minimizes the result. Matching,
// FindAll, Complement and Stats all run against the minimized DFA;
// RecoverRegex runs Kleene state elimination to synthesize a pattern
// text from any DFA, including ones produced by Complement.
//
// Basic usage:
//
//	re, err := coregex.Compile(`[a-c]{2}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	re.FindAllString("xabcy") // ["ab"]
package coregex

import (
	"sync/atomic"

	"github.com/coregx/coregex-classic/ast"
	"github.com/coregx/coregex-classic/dfa"
	"github.com/coregx/coregex-classic/lexer"
	"github.com/coregx/coregex-classic/nfa"
	"github.com/coregx/coregex-classic/parser"
	"github.com/coregx/coregex-classic/prefilter"
	"github.com/coregx/coregex-classic/recovery"
)

// Stats holds read-only, non-authoritative counters describing a
// compiled pattern's automaton sizes and how often its prefilter has
// been consulted. They exist for diagnostics only — nothing in the
// package consults them to change matching behavior.
type Stats struct {
	NFAStates       int
	DFAStates       int
	MinimizedStates int
	// PrefilterHits counts Match and FindAll calls accelerated by the
	// literal alternation prefilter; PrefilterMisses counts calls that fell
	// back to the plain DFA scan, either because no prefilter was
	// built or EnablePrefilter is false.
	PrefilterHits   uint64
	PrefilterMisses uint64
}

// Regex is a compiled pattern, ready for matching.
//
// A Regex is safe to use concurrently from multiple goroutines: Match
// and FindAll only read the compiled DFA, and the only mutable state
// (the prefilter hit/miss counters) is updated atomically.
type Regex struct {
	pattern   string
	config    Config
	ast       ast.Node
	automaton *dfa.DFA
	alphabet  []byte
	pf        *prefilter.Prefilter
	nfaStates int
	rawStates int

	prefilterHits   uint64
	prefilterMisses uint64
}

// Compile compiles pattern with DefaultConfig.
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles pattern and panics if it fails.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("coregex: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles pattern under a custom Config, running
// every stage of the pipeline: lex, parse, build the Thompson NFA,
// determinize by subset construction, and minimize.
func CompileWithConfig(pattern string, config Config) (*Regex, error) {
	if err := config.Validate(); err != nil {
		return nil, &CompileError{Stage: StageConfig, Position: -1, Err: err}
	}

	tree, err := parser.Parse(pattern)
	if err != nil {
		return nil, wrapParseError(err)
	}

	n, err := nfa.Build(tree, config.MaxNFAStates, config.MaxAlphabetSize)
	if err != nil {
		return nil, &CompileError{Stage: StageNFA, Position: -1, Err: err}
	}

	raw := dfa.FromNFA(n)
	minimized := dfa.Minimize(raw)

	alphabet := fullAlphabet(config.MaxAlphabetSize)

	re := &Regex{
		pattern:   pattern,
		config:    config,
		ast:       tree,
		automaton: minimized,
		alphabet:  alphabet,
		nfaStates: n.NumStates(),
		rawStates: raw.NumStates(),
	}

	if config.EnablePrefilter {
		if lits, ok := prefilter.Extract(tree); ok && prefilter.Worthwhile(lits) {
			pf, err := prefilter.Build(lits)
			if err == nil {
				re.pf = pf
			}
		}
	}

	return re, nil
}

// wrapParseError attaches position information from a *lexer.Error or
// *parser.Error to a CompileError; parser.Parse only ever returns one
// of those two concrete types (or nil).
func wrapParseError(err error) error {
	if le, ok := err.(*lexer.Error); ok {
		return &CompileError{Stage: StageLexer, Position: le.Pos, Err: err}
	}
	if pe, ok := err.(*parser.Error); ok {
		return &CompileError{Stage: StageParser, Position: pe.Pos, Err: err}
	}
	return &CompileError{Stage: StageParser, Position: -1, Err: err}
}

func fullAlphabet(size int) []byte {
	if size > 256 {
		size = 256
	}
	out := make([]byte, size)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

// compiled reports whether r is safe to query: not nil, and not a
// zero-value Regex built some way other than through Compile or
// CompileWithConfig.
func (r *Regex) compiled() bool {
	return r != nil && r.automaton != nil
}

// Match reports whether s contains a match of the pattern anywhere
// (equivalently, whether FindAllString(s) would be non-empty). Match
// returns false, without panicking, if r was never successfully
// compiled (a nil or zero-value Regex). Like FindAll, it consults the
// literal-alternation prefilter when one was built, so a non-matching
// haystack is rejected by the same skip-ahead scan rather than a plain
// byte-by-byte DFA walk.
func (r *Regex) Match(s string) bool {
	if !r.compiled() {
		return false
	}
	if r.pf != nil {
		atomic.AddUint64(&r.prefilterHits, 1)
		return r.pf.FindFirst(r.automaton, s, 0)
	}
	atomic.AddUint64(&r.prefilterMisses, 1)
	return r.scanFirst(s)
}

// MatchString is an alias of Match kept for familiarity with stdlib
// regexp's naming.
func (r *Regex) MatchString(s string) bool {
	return r.Match(s)
}

func (r *Regex) scanFirst(s string) bool {
	for i := 0; i <= len(s); i++ {
		if _, ok := r.automaton.LongestMatchAt(s, i); ok {
			return true
		}
	}
	return false
}

// FindAll returns every non-overlapping, leftmost-longest match of the
// pattern in s, in order. It returns nil if there are none, or if r was
// never successfully compiled.
func (r *Regex) FindAll(s string) []dfa.Match {
	if !r.compiled() {
		return nil
	}
	if r.pf != nil {
		atomic.AddUint64(&r.prefilterHits, 1)
		return r.pf.FindAll(r.automaton, s)
	}
	atomic.AddUint64(&r.prefilterMisses, 1)
	return r.automaton.FindAll(s)
}

// FindAllString returns the matched substrings only, discarding
// position information.
func (r *Regex) FindAllString(s string) []string {
	matches := r.FindAll(s)
	if matches == nil {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Text
	}
	return out
}

// FindAllIndex returns the [start, end) byte ranges of every match,
// without the matched text itself.
func (r *Regex) FindAllIndex(s string) [][2]int {
	matches := r.FindAll(s)
	if matches == nil {
		return nil
	}
	out := make([][2]int, len(matches))
	for i, m := range matches {
		out[i] = [2]int{m.Start, m.End}
	}
	return out
}

// Complement returns a new Regex matching exactly the strings s for
// which r.Match(s) is false, over the byte alphabet r was compiled
// with. It completes r's DFA with an explicit sink state before
// flipping finality, so the result is sound for every byte in that
// alphabet (§4.7). It returns a *RuntimeError if r was never
// successfully compiled. The result's Stats().NFAStates mirrors r's,
// since no new Thompson construction happens; DFAStates reflects the
// completed-and-complemented automaton before minimization.
func (r *Regex) Complement() (*Regex, error) {
	if !r.compiled() {
		return nil, &RuntimeError{}
	}
	completed := r.automaton.Complete(r.alphabet)
	complemented, err := completed.Complement(r.alphabet)
	if err != nil {
		return nil, err
	}
	minimized := dfa.Minimize(complemented)
	return &Regex{
		pattern:   "~(" + r.pattern + ")",
		config:    r.config,
		automaton: minimized,
		alphabet:  r.alphabet,
		nfaStates: r.nfaStates,
		rawStates: complemented.NumStates(),
	}, nil
}

// RecoverRegex synthesizes a pattern string accepting exactly r's
// language, by Kleene state elimination over r's minimized DFA (§4.8).
// It is not guaranteed to reproduce r.String() verbatim — only to
// denote the same language — and is most useful after Complement,
// where no source pattern exists at all. It returns "" if r was never
// successfully compiled.
func (r *Regex) RecoverRegex() string {
	if !r.compiled() {
		return ""
	}
	return recovery.Recover(r.automaton)
}

// String returns the source text used to compile the pattern. For a
// Regex produced by Complement, this is a synthetic "~(...)" label, not
// a pattern that coregex itself can parse — use RecoverRegex for that.
// It returns "" if r was never successfully compiled.
func (r *Regex) String() string {
	if !r.compiled() {
		return ""
	}
	return r.pattern
}

// Stats reports diagnostic counters about the compiled automaton and
// prefilter usage. The returned value is a snapshot, not a live view.
// It returns the zero Stats if r was never successfully compiled.
func (r *Regex) Stats() Stats {
	if !r.compiled() {
		return Stats{}
	}
	return Stats{
		NFAStates:       r.nfaStates,
		DFAStates:       r.rawStates,
		MinimizedStates: r.automaton.NumStates(),
		PrefilterHits:   atomic.LoadUint64(&r.prefilterHits),
		PrefilterMisses: atomic.LoadUint64(&r.prefilterMisses),
	}
}
