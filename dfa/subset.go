package dfa

import (
	"strconv"
	"strings"

	"github.com/coregx/coregex-classic/nfa"
)

// FromNFA converts n to an equivalent DFA by subset construction: the
// DFA state set is the set of epsilon-closures reachable from
// epsilon-closure({nfa.Start()}), explored breadth-first and identified
// by the interned set of underlying NFA-state ids (§4.5).
func FromNFA(n *nfa.NFA) *DFA {
	interned := make(map[string]StateID)
	var states []State

	startClosure := n.EpsilonClosure([]nfa.StateID{n.Start()})
	startKey := closureKey(startClosure)
	startID := StateID(0)
	states = append(states, State{
		id:          startID,
		isFinal:     anyFinal(n, startClosure),
		transitions: make(map[byte]StateID),
	})
	interned[startKey] = startID

	type pending struct {
		id  StateID
		set []nfa.StateID
	}
	queue := []pending{{id: startID, set: startClosure}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, a := range n.AlphabetFrom(cur.set) {
			moved := n.Move(cur.set, a)
			if len(moved) == 0 {
				continue
			}
			closure := n.EpsilonClosure(moved)
			key := closureKey(closure)

			target, ok := interned[key]
			if !ok {
				target = StateID(len(states))
				states = append(states, State{
					id:          target,
					isFinal:     anyFinal(n, closure),
					transitions: make(map[byte]StateID),
				})
				interned[key] = target
				queue = append(queue, pending{id: target, set: closure})
			}
			states[cur.id].transitions[a] = target
		}
	}

	return &DFA{start: startID, states: states}
}

func anyFinal(n *nfa.NFA, set []nfa.StateID) bool {
	for _, s := range set {
		if n.IsFinal(s) {
			return true
		}
	}
	return false
}

// closureKey interns a (pre-sorted) set of NFA state ids as its subset-
// construction identity.
func closureKey(set []nfa.StateID) string {
	var b strings.Builder
	for i, s := range set {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(s), 10))
	}
	return b.String()
}
