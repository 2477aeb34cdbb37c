package dfa

import (
	"testing"

	"github.com/coregx/coregex-classic/ast"
	"github.com/coregx/coregex-classic/nfa"
)

func compileDFA(t *testing.T, node ast.Node) *DFA {
	t.Helper()
	n, err := nfa.Build(node, 0, 0)
	if err != nil {
		t.Fatalf("nfa.Build error: %v", err)
	}
	return Minimize(FromNFA(n))
}

func TestFromNFADeterminism(t *testing.T) {
	node := &ast.Alt{L: &ast.Char{C: 'a'}, R: &ast.Char{C: 'b'}}
	n, err := nfa.Build(node, 0, 0)
	if err != nil {
		t.Fatalf("nfa.Build error: %v", err)
	}
	d := FromNFA(n)
	for i := range d.states {
		seen := make(map[byte]bool)
		for _, sym := range d.states[i].Symbols() {
			if seen[sym] {
				t.Errorf("state %d has more than one transition for symbol %q", i, sym)
			}
			seen[sym] = true
		}
	}
}

func TestMatchScenarios(t *testing.T) {
	tests := []struct {
		name    string
		node    ast.Node
		accept  []string
		reject  []string
	}{
		{
			name:   "a|b",
			node:   &ast.Alt{L: &ast.Char{C: 'a'}, R: &ast.Char{C: 'b'}},
			accept: []string{"a", "b"},
			reject: []string{"", "c", "ab"},
		},
		{
			name:   "a*",
			node:   &ast.Star{Child: &ast.Char{C: 'a'}},
			accept: []string{"", "a", "aaaa"},
			reject: []string{"b", "aab"},
		},
		{
			name:   "[a-c]{2}",
			node:   &ast.RepeatExact{Child: &ast.Range{Items: []ast.RangeItem{{Lo: 'a', Hi: 'c'}}}, N: 2},
			accept: []string{"ab", "cc", "ba"},
			reject: []string{"a", "abc", "ad"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := compileDFA(t, tc.node)
			for _, s := range tc.accept {
				if !d.Match(s) {
					t.Errorf("Match(%q) = false, want true", s)
				}
			}
			for _, s := range tc.reject {
				if d.Match(s) {
					t.Errorf("Match(%q) = true, want false", s)
				}
			}
		})
	}
}

func TestFindAllLeftmostLongestNonOverlapping(t *testing.T) {
	// [a-c]{2} on "xabcy" -> ["ab"]: "bc" starts inside the first match
	// and is skipped, matching the non-overlap rule.
	node := &ast.RepeatExact{Child: &ast.Range{Items: []ast.RangeItem{{Lo: 'a', Hi: 'c'}}}, N: 2}
	d := compileDFA(t, node)
	matches := d.FindAll("xabcy")
	if len(matches) != 1 || matches[0].Text != "ab" {
		t.Fatalf("FindAll(xabcy) = %v, want a single match \"ab\"", matches)
	}
}

func TestFindAllSuppressesZeroWidth(t *testing.T) {
	node := &ast.Star{Child: &ast.Char{C: 'a'}}
	d := compileDFA(t, node)
	if matches := d.FindAll(""); matches != nil {
		t.Fatalf("FindAll(\"\") = %v, want nil (a* should never emit a zero-width match)", matches)
	}
	matches := d.FindAll("bab")
	if len(matches) != 1 || matches[0].Text != "a" {
		t.Fatalf("FindAll(bab) = %v, want a single match \"a\"", matches)
	}
}

func TestCompleteAndComplement(t *testing.T) {
	node := &ast.Char{C: 'a'}
	d := compileDFA(t, node)
	alphabet := []byte{'a', 'b'}

	if _, err := d.Complement(alphabet); err == nil {
		t.Fatal("Complement on an incomplete DFA should fail")
	}

	completed := d.Complete(alphabet)
	complement, err := completed.Complement(alphabet)
	if err != nil {
		t.Fatalf("Complement error: %v", err)
	}
	if complement.Match("a") {
		t.Error("complement should not match \"a\"")
	}
	if !complement.Match("b") || !complement.Match("") || !complement.Match("aa") {
		t.Error("complement should match everything \"a\" alone does not match")
	}
}

func TestComplementOfComplementRecoversOriginal(t *testing.T) {
	node := &ast.Alt{L: &ast.Char{C: 'a'}, R: &ast.Char{C: 'b'}}
	d := compileDFA(t, node)
	alphabet := []byte{'a', 'b', 'c'}

	once, err := d.Complete(alphabet).Complement(alphabet)
	if err != nil {
		t.Fatalf("first Complement error: %v", err)
	}
	twice, err := once.Complete(alphabet).Complement(alphabet)
	if err != nil {
		t.Fatalf("second Complement error: %v", err)
	}
	for _, s := range []string{"", "a", "b", "c", "ab", "cc"} {
		if d.Match(s) != twice.Match(s) {
			t.Errorf("Match(%q): original=%v, complement-of-complement=%v", s, d.Match(s), twice.Match(s))
		}
	}
}

func TestMinimizeIsIdempotent(t *testing.T) {
	node := &ast.Repeat{Child: &ast.Alt{L: &ast.Char{C: 'a'}, R: &ast.Char{C: 'b'}}, Min: 0, Max: nil}
	d := compileDFA(t, node)
	again := Minimize(d)
	if d.NumStates() != again.NumStates() {
		t.Errorf("Minimize is not idempotent: %d states, then %d", d.NumStates(), again.NumStates())
	}
}

func TestMinimizeReducesRedundantStates(t *testing.T) {
	// (a|a) has two parallel branches that subset construction may or may
	// not already merge; minimization must end up with the same few
	// states as its single-path equivalent "a" regardless.
	node := &ast.Alt{L: &ast.Char{C: 'a'}, R: &ast.Char{C: 'a'}}
	n, err := nfa.Build(node, 0, 0)
	if err != nil {
		t.Fatalf("nfa.Build error: %v", err)
	}
	raw := FromNFA(n)
	minimized := Minimize(raw)
	if minimized.NumStates() > raw.NumStates() {
		t.Errorf("minimized DFA has more states (%d) than the raw one (%d)", minimized.NumStates(), raw.NumStates())
	}
	if single := compileDFA(t, &ast.Char{C: 'a'}); minimized.NumStates() != single.NumStates() {
		t.Errorf("minimized a|a has %d states, want %d like the single-path \"a\"", minimized.NumStates(), single.NumStates())
	}
	if !minimized.Match("a") || minimized.Match("b") {
		t.Error("minimization must preserve the original language")
	}
}
