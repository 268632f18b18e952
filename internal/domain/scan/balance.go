package scan

import (
	m "precheck.dev/pkg/precheck/internal/model"
)

// Pair is an opening/closing delimiter couple.
type Pair struct {
	Open  rune
	Close rune
	Name  string
}

var (
	// Braces is {}.
	Braces = Pair{Open: '{', Close: '}', Name: "braces"}
	// Parens is ().
	Parens = Pair{Open: '(', Close: ')', Name: "parentheses"}
	// Brackets is [].
	Brackets = Pair{Open: '[', Close: ']', Name: "brackets"}
)

// StandardPairs are the three pairs checked by default.
var StandardPairs = []Pair{Braces, Parens, Brackets}

// CheckBalance reports whether open/close are balanced in text, ignoring
// characters inside quoted literals. It fails as soon as a closer appears
// without an opener.
func CheckBalance(text string, open, close rune) bool {
	var q QuoteTracker

	count := 0

	for _, r := range text {
		if q.Step(r) {
			continue
		}

		switch r {
		case open:
			count++
		case close:
			count--
			if count < 0 {
				return false
			}
		}
	}

	return count == 0
}

// BalanceDiagnostics runs CheckBalance for each pair and returns one
// file-level UnbalancedDelimiter error per unbalanced pair.
func BalanceDiagnostics(text string, pairs ...Pair) []m.Diagnostic {
	if len(pairs) == 0 {
		pairs = StandardPairs
	}

	var diags []m.Diagnostic

	for _, p := range pairs {
		if !CheckBalance(text, p.Open, p.Close) {
			diags = append(diags, m.NewError(m.FileLevel, m.UnbalancedDelimiter,
				"unbalanced %s %c %c", p.Name, p.Open, p.Close))
		}
	}

	return diags
}
