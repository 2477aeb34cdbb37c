package dfa

// Match describes one substring match produced by FindAll: the
// half-open byte range [Start, End) and its text.
type Match struct {
	Start, End int
	Text       string
}

// Match walks s and reports whether the DFA accepts it: the empty
// string matches iff the start state is final; otherwise each byte
// follows the unique transition from the current state, and the
// absence of a transition is an immediate rejection (§4.7).
func (d *DFA) Match(s string) bool {
	cur := d.start
	for i := 0; i < len(s); i++ {
		next, ok := d.states[cur].Transition(s[i])
		if !ok {
			return false
		}
		cur = next
	}
	return d.states[cur].isFinal
}

// LongestMatchAt walks s from position i and reports the end of the
// longest match starting exactly at i, if any. ok is false if no final
// state is reachable from i at all (including the zero-width case,
// which LongestMatchAt deliberately does not report — see FindAll).
func (d *DFA) LongestMatchAt(s string, i int) (end int, ok bool) {
	cur := d.start
	longestEnd := -1
	if d.states[cur].isFinal {
		longestEnd = i
	}
	j := i
	for j < len(s) {
		next, trOk := d.states[cur].Transition(s[j])
		if !trOk {
			break
		}
		cur = next
		j++
		if d.states[cur].isFinal {
			longestEnd = j
		}
	}
	if longestEnd > i {
		return longestEnd, true
	}
	return 0, false
}

// FindAll performs a non-overlapping, leftmost, longest-match scan of s.
// For each starting position it walks forward while transitions exist,
// remembering the longest position at which a final state was reached.
// A match (necessarily non-zero-width — findall never emits a zero-
// width match, see §9) resumes scanning immediately after itself;
// otherwise the scan advances by one byte (§4.7).
func (d *DFA) FindAll(s string) []Match {
	var matches []Match
	i := 0
	for i <= len(s) {
		if end, ok := d.LongestMatchAt(s, i); ok {
			matches = append(matches, Match{Start: i, End: end, Text: s[i:end]})
			i = end
		} else {
			i++
		}
	}
	return matches
}

// Complete returns a DFA in which every state has a defined transition
// for every symbol in alphabet, adding an explicit sink state for the
// missing ones. If no transition is missing, no sink is added, so the
// result never carries an unreachable sink into Minimize. This is a
// prerequisite for Complement: without it, a partial DFA's complement
// would be unsound for inputs using symbols the original left undefined
// (§4.7).
func (d *DFA) Complete(alphabet []byte) *DFA {
	needSink := false
	for i := range d.states {
		for _, a := range alphabet {
			if _, ok := d.states[i].Transition(a); !ok {
				needSink = true
			}
		}
	}
	sinkID := StateID(len(d.states))
	numStates := len(d.states)
	if needSink {
		numStates++
	}
	states := make([]State, numStates)

	for i := range d.states {
		st := State{
			id:          StateID(i),
			isFinal:     d.states[i].isFinal,
			transitions: make(map[byte]StateID, len(alphabet)),
		}
		for _, a := range alphabet {
			if target, ok := d.states[i].Transition(a); ok {
				st.transitions[a] = target
			} else {
				st.transitions[a] = sinkID
			}
		}
		states[i] = st
	}

	if needSink {
		sink := State{id: sinkID, isFinal: false, transitions: make(map[byte]StateID, len(alphabet))}
		for _, a := range alphabet {
			sink.transitions[a] = sinkID
		}
		states[sinkID] = sink
	}

	return &DFA{start: d.start, states: states}
}

// Complement returns a new DFA accepting the complement language: every
// state's finality is flipped. d must already be complete over alphabet
// (see Complete); otherwise the result would silently reject symbols the
// original had no transition for instead of accepting them.
func (d *DFA) Complement(alphabet []byte) (*DFA, error) {
	for i := range d.states {
		for _, a := range alphabet {
			if _, ok := d.states[i].Transition(a); !ok {
				return nil, ErrNotCompleted
			}
		}
	}

	states := make([]State, len(d.states))
	for i := range d.states {
		states[i] = State{
			id:          d.states[i].id,
			isFinal:     !d.states[i].isFinal,
			transitions: d.states[i].transitions,
		}
	}
	return &DFA{start: d.start, states: states}, nil
}
