// Package nfa implements the Thompson-construction NFA builder and the
// NFA data model it produces.
//
// States are held in an arena (a flat []State owned by the NFA) and
// referenced by index: O(1) lookup, trivially serializable structure,
// no pointer chasing for ownership.
package nfa

import (
	"fmt"
	"sort"

	"github.com/coregx/coregex-classic/internal/conv"
	"github.com/coregx/coregex-classic/internal/sparse"
)

// StateID uniquely identifies an NFA state within its owning NFA.
type StateID uint32

// InvalidState is returned where a well-formed StateID is expected but
// none exists (e.g. a lookup miss).
const InvalidState StateID = 0xFFFFFFFF

// Symbol labels a transition out of a state. Byte-valued symbols are in
// [0, 255]; Epsilon is the sentinel denoting an epsilon transition,
// encoded distinctly from any input byte as required by the data model.
type Symbol int32

// Epsilon is the sentinel symbol for an epsilon transition.
const Epsilon Symbol = -1

// IsEpsilon reports whether s is the epsilon sentinel.
func (s Symbol) IsEpsilon() bool { return s == Epsilon }

func (s Symbol) String() string {
	if s == Epsilon {
		return "ε"
	}
	return fmt.Sprintf("%q", byte(s))
}

// State is a single NFA state: an id plus a transition map from symbol
// to the set of states reachable on that symbol. Thompson construction
// never needs more than two targets per symbol per state, but the map
// models the general NFA contract from the data model.
type State struct {
	id          StateID
	transitions map[Symbol][]StateID
}

// ID returns the state's identifier.
func (s *State) ID() StateID { return s.id }

// Targets returns the states reachable directly from s on sym.
func (s *State) Targets(sym Symbol) []StateID { return s.transitions[sym] }

// Symbols returns every symbol s has an outgoing transition on, sorted
// for reproducible iteration (Epsilon sorts first).
func (s *State) Symbols() []Symbol {
	syms := make([]Symbol, 0, len(s.transitions))
	for sym := range s.transitions {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

func (s *State) String() string {
	return fmt.Sprintf("State(%d, %d symbols)", s.id, len(s.transitions))
}

// NFA is an immutable Thompson-construction automaton: one start state,
// a non-empty set of final states, and an arena of states connected by
// byte and epsilon transitions.
type NFA struct {
	start  StateID
	finals map[StateID]bool
	states []State
}

// Start returns the NFA's unique start state.
func (n *NFA) Start() StateID { return n.start }

// IsFinal reports whether id is one of the NFA's final states.
func (n *NFA) IsFinal(id StateID) bool { return n.finals[id] }

// Finals returns the NFA's final states, sorted by id for reproducible
// iteration.
func (n *NFA) Finals() []StateID {
	out := make([]StateID, 0, len(n.finals))
	for id := range n.finals {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// State returns the state with the given id, or nil if id is out of
// range.
func (n *NFA) State(id StateID) *State {
	if int(id) < 0 || int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// NumStates returns the number of states in the NFA's arena.
func (n *NFA) NumStates() int { return len(n.states) }

func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, start: %d, finals: %d}", len(n.states), n.start, len(n.finals))
}

// EpsilonClosure returns the least fixed point of adding any state
// reachable from states via epsilon transitions, including the
// originals (§4.5). The result is sorted for a reproducible, internable
// identity (subset construction interns closures by their state-id
// set).
func (n *NFA) EpsilonClosure(states []StateID) []StateID {
	set := sparse.NewSparseSet(conv.IntToUint32(len(n.states)))
	stack := make([]StateID, 0, len(states))
	for _, s := range states {
		set.Insert(uint32(s))
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range n.State(s).Targets(Epsilon) {
			if !set.Contains(uint32(t)) {
				set.Insert(uint32(t))
				stack = append(stack, t)
			}
		}
	}
	out := make([]StateID, 0, set.Size())
	set.Iter(func(v uint32) { out = append(out, StateID(v)) })
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Move returns the union of every a-target reachable from any state in
// states (§4.5's move(D, a)).
func (n *NFA) Move(states []StateID, a byte) []StateID {
	set := sparse.NewSparseSet(conv.IntToUint32(len(n.states)))
	var out []StateID
	for _, s := range states {
		for _, t := range n.State(s).Targets(Symbol(a)) {
			if !set.Contains(uint32(t)) {
				set.Insert(uint32(t))
				out = append(out, t)
			}
		}
	}
	return out
}

// AlphabetFrom returns every byte symbol appearing on an outgoing edge
// of any state in states, sorted.
func (n *NFA) AlphabetFrom(states []StateID) []byte {
	seen := make(map[byte]bool)
	for _, s := range states {
		for _, sym := range n.State(s).Symbols() {
			if !sym.IsEpsilon() {
				seen[byte(sym)] = true
			}
		}
	}
	out := make([]byte, 0, len(seen))
	for b := range seen {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
