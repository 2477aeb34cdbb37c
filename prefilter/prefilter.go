package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/coregx/coregex-classic/dfa"
)

// Prefilter accelerates FindAll for patterns whose top-level structure
// begins with a fixed literal prefix followed by a required literal
// alternation — e.g. "GET /(users|orders|invoices)/" — by jumping
// straight to the next place any alternative could start instead of
// probing the DFA at every byte offset. It can only ever narrow the set
// of positions LongestMatchAt is tried at; the DFA walk it defers to
// remains the sole source of truth for what matches, adapted from "any
// of N literal patterns" to "any of N mandatory alternation branches at
// a known offset".
type Prefilter struct {
	automaton   *ahocorasick.Automaton
	fixedOffset int
}

// Build constructs a Prefilter from lits. It returns (nil, nil) if
// lits has fewer than two alternatives, since a single mandatory
// literal is already handled by the DFA's own transition structure with
// no help needed from a separate automaton.
func Build(lits Literals) (*Prefilter, error) {
	if len(lits.Alternatives) < 2 {
		return nil, nil
	}
	builder := ahocorasick.NewBuilder()
	for _, alt := range lits.Alternatives {
		builder.AddPattern(alt)
	}
	automaton, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &Prefilter{automaton: automaton, fixedOffset: lits.FixedOffset}, nil
}

// FindFirst reports whether s contains any match at or after start,
// using the same Aho-Corasick skip-ahead as FindAll but stopping at the
// first candidate the DFA confirms. It exists so Match/MatchString can
// get the same jump-ahead speedup as FindAll without materializing a
// full match list.
func (p *Prefilter) FindFirst(d *dfa.DFA, s string, start int) bool {
	if p == nil {
		for i := start; i <= len(s); i++ {
			if _, ok := d.LongestMatchAt(s, i); ok {
				return true
			}
		}
		return false
	}
	b := []byte(s)
	pos := start
	for pos <= len(b) {
		m := p.automaton.Find(b, pos)
		if m == nil {
			return false
		}
		candidate := m.Start - p.fixedOffset
		if candidate < start {
			pos = m.Start + 1
			continue
		}
		if _, ok := d.LongestMatchAt(s, candidate); ok {
			return true
		}
		pos = m.Start + 1
	}
	return false
}

// FindAll runs an accelerated non-overlapping, leftmost, longest-match
// scan: each Aho-Corasick hit for one of the alternation's branches is
// translated back to a candidate match start (hit.Start - fixedOffset),
// and the DFA is consulted only at that candidate, never at positions in
// between. A hit too close to the start of s to have a valid candidate
// start, or whose candidate start falls inside the previous match, is
// skipped, not treated as a rejection.
func (p *Prefilter) FindAll(d *dfa.DFA, s string) []dfa.Match {
	if p == nil {
		return d.FindAll(s)
	}
	b := []byte(s)
	var matches []dfa.Match
	pos := 0
	lastEnd := 0
	for pos <= len(b) {
		m := p.automaton.Find(b, pos)
		if m == nil {
			break
		}
		candidate := m.Start - p.fixedOffset
		if candidate < lastEnd {
			pos = m.Start + 1
			continue
		}
		if end, ok := d.LongestMatchAt(s, candidate); ok {
			matches = append(matches, dfa.Match{Start: candidate, End: end, Text: s[candidate:end]})
			lastEnd = end
			pos = end
			if pos <= m.Start {
				pos = m.Start + 1
			}
		} else {
			pos = m.Start + 1
		}
	}
	return matches
}
