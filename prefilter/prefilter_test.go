package prefilter

import (
	"testing"

	"github.com/coregx/coregex-classic/dfa"
	"github.com/coregx/coregex-classic/nfa"
)

func buildMinimizedDFA(t *testing.T, pattern string) *dfa.DFA {
	t.Helper()
	node := parseOrFatal(t, pattern)
	n, err := nfa.Build(node, 0, 0)
	if err != nil {
		t.Fatalf("nfa.Build(%q) error: %v", pattern, err)
	}
	return dfa.Minimize(dfa.FromNFA(n))
}

func TestBuildReturnsNilBelowTwoAlternatives(t *testing.T) {
	pf, err := Build(Literals{FixedOffset: 0, Alternatives: [][]byte{[]byte("cat")}})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if pf != nil {
		t.Error("Build with fewer than two alternatives should return a nil Prefilter")
	}
}

func TestBuildWithTwoAlternatives(t *testing.T) {
	pf, err := Build(Literals{FixedOffset: 0, Alternatives: [][]byte{[]byte("cat"), []byte("dog")}})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if pf == nil {
		t.Fatal("Build with two alternatives should return a non-nil Prefilter")
	}
}

func TestPrefilterFindAllMatchesDirectScan(t *testing.T) {
	pattern := "GET(cat|dog|bird)"
	lits, ok := Extract(parseOrFatal(t, pattern))
	if !ok {
		t.Fatalf("Extract(%q) returned ok=false", pattern)
	}
	pf, err := Build(lits)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if pf == nil {
		t.Fatal("expected a non-nil Prefilter for a 3-way alternation")
	}

	d := buildMinimizedDFA(t, pattern)
	text := "xxGETcatyyGETbirdzzGETfishqq"

	direct := d.FindAll(text)
	accelerated := pf.FindAll(d, text)

	if len(direct) != len(accelerated) {
		t.Fatalf("direct=%v accelerated=%v: different match counts", direct, accelerated)
	}
	for i := range direct {
		if direct[i] != accelerated[i] {
			t.Errorf("match %d: direct=%v accelerated=%v", i, direct[i], accelerated[i])
		}
	}
	if len(direct) != 2 {
		t.Fatalf("expected exactly 2 matches (GETcat, GETbird), got %v", direct)
	}
}

func TestPrefilterFindAllNoHitsReturnsNil(t *testing.T) {
	pattern := "GET(cat|dog|bird)"
	lits, _ := Extract(parseOrFatal(t, pattern))
	pf, err := Build(lits)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	d := buildMinimizedDFA(t, pattern)
	if got := pf.FindAll(d, "nothing here matches"); got != nil {
		t.Errorf("FindAll with no hits = %v, want nil", got)
	}
}

func TestPrefilterFindAllNilReceiverFallsBackToDirectScan(t *testing.T) {
	pattern := "a|b"
	d := buildMinimizedDFA(t, pattern)
	var pf *Prefilter
	got := pf.FindAll(d, "xaybz")
	want := d.FindAll("xaybz")
	if len(got) != len(want) {
		t.Fatalf("nil-receiver FindAll = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("match %d: got=%v want=%v", i, got[i], want[i])
		}
	}
}
