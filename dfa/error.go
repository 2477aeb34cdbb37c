package dfa

import "errors"

// ErrNotCompleted is returned by Complement when asked to complement a
// DFA that has not been completed with an explicit sink state first —
// completing is required so the complement is sound over every byte,
// not just the ones the original DFA happened to define transitions
// for (§4.7).
var ErrNotCompleted = errors.New("dfa: complement requires a completed DFA (call Complete first)")
