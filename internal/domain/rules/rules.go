// Package rules holds the per-language heuristic rule sets. Each rule set
// is a pure function from file content to diagnostics; none of them builds
// a parse tree.
package rules

import (
	"regexp"

	m "precheck.dev/pkg/precheck/internal/model"
)

// RuleSet validates the content of one file.
type RuleSet func(content string) []m.Diagnostic

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func isIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}
