package domain

import (
	"strings"
	"unicode/utf8"

	"precheck.dev/pkg/precheck/internal/domain/rules"
	m "precheck.dev/pkg/precheck/internal/model"
)

// ruleSets is the static dispatch table. Kinds without an entry are
// pass-through; JavaScript is never validated heuristically.
var ruleSets = map[m.LanguageKind]rules.RuleSet{
	m.Shell:  rules.Shell,
	m.Python: rules.Python,
	m.Perl:   rules.Perl,
	m.Java:   rules.Java,
	m.Ruby:   rules.Ruby,
	m.HTML:   rules.HTML,
}

// Validate runs the rule set for kind over content and aggregates the
// diagnostics into a report ordered by line. It is a pure function.
func Validate(content string, kind m.LanguageKind) m.ValidationReport {
	ruleSet, ok := ruleSets[kind]
	if !ok {
		return m.NewReport(nil)
	}

	if !utf8.ValidString(content) || strings.ContainsRune(content, 0) {
		return m.NewReport([]m.Diagnostic{
			m.NewError(m.FileLevel, m.MalformedInputStructure, "content is not text: invalid UTF-8 or NUL bytes"),
		})
	}

	return m.NewReport(ruleSet(content))
}

// HasRuleSet reports whether kind has heuristic checks.
func HasRuleSet(kind m.LanguageKind) bool {
	_, ok := ruleSets[kind]
	return ok
}
