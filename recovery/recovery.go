// Package recovery implements regex recovery from a DFA by state
// elimination (Kleene's algorithm), §4.8.
package recovery

import (
	"strings"

	"github.com/coregx/coregex-classic/dfa"
)

// label is a regular expression over the DFA's alphabet, or the empty
// language ∅. ∅ is tracked with its own flag rather than overloading the
// empty string, because the empty string is itself a valid label — it
// denotes an epsilon edge (matches the empty string), which is a
// different thing from "no such edge exists".
type label struct {
	empty bool // true means ∅ (the label denotes no strings at all)
	text  string
}

var emptyLanguage = label{empty: true}
var epsilon = label{text: ""}

func orLabel(a, b label) label {
	if a.empty {
		return b
	}
	if b.empty {
		return a
	}
	if a.text == b.text {
		return a
	}
	return label{text: a.text + "|" + b.text}
}

func concatLabel(a, b label) label {
	if a.empty || b.empty {
		return emptyLanguage
	}
	if a.text == "" {
		return b
	}
	if b.text == "" {
		return a
	}
	return label{text: groupIfAlternation(a.text) + groupIfAlternation(b.text)}
}

func starLabel(a label) label {
	if a.empty || a.text == "" {
		return epsilon
	}
	return label{text: wrapForStar(a.text) + "*"}
}

// Recover builds a regular expression accepting the same language as d,
// by successively eliminating states and compounding their incident
// edge labels (§4.8):
//
//  1. introduce a fresh start s (ε -> d.Start()) and a fresh accept f
//     (ε from every final state);
//  2. label edges by a regex over the alphabet, combining parallel
//     edges by alternation;
//  3. eliminate every original state k in ascending id order, folding
//     R_ik . (R_kk)* . R_kj into R_ij for every surviving pair (i, j);
//  4. the label surviving on s -> f is the answer.
//
// An empty or unreachable accept set recovers to the empty string; this
// is not an error (§7).
func Recover(d *dfa.DFA) string {
	n := d.NumStates()
	total := n + 2
	start, accept := n, n+1

	edges := make([][]label, total)
	for i := range edges {
		edges[i] = make([]label, total)
		for j := range edges[i] {
			edges[i][j] = emptyLanguage
		}
	}

	edges[start][int(d.Start())] = orLabel(edges[start][int(d.Start())], epsilon)
	for i := 0; i < n; i++ {
		st := d.State(dfa.StateID(i))
		for _, b := range st.Symbols() {
			t, ok := st.Transition(b)
			if !ok {
				continue
			}
			edges[i][int(t)] = orLabel(edges[i][int(t)], label{text: escapeChar(b)})
		}
		if st.IsFinal() {
			edges[i][accept] = orLabel(edges[i][accept], epsilon)
		}
	}

	eliminated := make([]bool, total)
	for k := 0; k < n; k++ {
		selfStar := starLabel(edges[k][k])
		for i := 0; i < total; i++ {
			if i == k || eliminated[i] || edges[i][k].empty {
				continue
			}
			for j := 0; j < total; j++ {
				if j == k || eliminated[j] || edges[k][j].empty {
					continue
				}
				through := concatLabel(concatLabel(edges[i][k], selfStar), edges[k][j])
				edges[i][j] = orLabel(edges[i][j], through)
			}
		}
		eliminated[k] = true
	}

	result := edges[start][accept]
	if result.empty {
		return ""
	}
	return result.text
}

// metacharacters that carry meaning at the top level of this engine's
// pattern grammar and must be escaped to appear as literals in a
// recovered pattern.
const metacharacters = `|*+?(){},.[]$\`

func escapeChar(c byte) string {
	if strings.IndexByte(metacharacters, c) >= 0 {
		return "\\" + string(c)
	}
	return string(c)
}

// containsTopLevelAlternation reports whether text has an unescaped '|'
// outside of any parenthesized group.
func containsTopLevelAlternation(text string) bool {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
		case '|':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

func groupIfAlternation(text string) string {
	if containsTopLevelAlternation(text) {
		return "(?:" + text + ")"
	}
	return text
}

// isFullyGrouped reports whether text is already a single balanced
// (?:...) group spanning its whole length.
func isFullyGrouped(text string) bool {
	if !strings.HasPrefix(text, "(?:") || !strings.HasSuffix(text, ")") {
		return false
	}
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(text)-1 {
				return false
			}
		}
	}
	return depth == 0
}

func isSingleAtom(text string) bool {
	if len(text) == 1 {
		return true
	}
	if len(text) == 2 && text[0] == '\\' {
		return true
	}
	return isFullyGrouped(text)
}

func wrapForStar(text string) string {
	if isSingleAtom(text) {
		return text
	}
	return "(?:" + text + ")"
}
