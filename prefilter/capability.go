package prefilter

import "golang.org/x/sys/cpu"

// MinPatternAlternatives is the smallest alternation branch count at
// which building an Aho-Corasick automaton is worth its construction
// cost relative to just letting the DFA's own transition table do the
// work. Modern CPUs make the automaton's per-byte dispatch relatively
// cheaper, so the bar is lower when wide vector instruction sets are
// available, using the common "probe CPU features once at init, branch
// on a package-level value" idiom, adapted here to a single scalar
// threshold since this engine carries no assembly kernels of its own
// (see DESIGN.md).
var MinPatternAlternatives = defaultMinPatternAlternatives()

func defaultMinPatternAlternatives() int {
	if cpu.X86.HasAVX2 || cpu.X86.HasSSE42 || cpu.ARM64.HasASIMD {
		return 2
	}
	return 4
}

// Worthwhile reports whether building a Prefilter over lits is likely
// to pay for itself, given the current capability threshold.
func Worthwhile(lits Literals) bool {
	return len(lits.Alternatives) >= MinPatternAlternatives
}
