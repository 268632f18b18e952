package rules

import (
	"regexp"
	"strings"

	"precheck.dev/pkg/precheck/internal/domain/scan"
	m "precheck.dev/pkg/precheck/internal/model"
)

// perlBadSigil matches a variable whose name starts with a digit but is
// not a plain capture group ($1, @2).
var perlBadSigil = regexp.MustCompile(`(^|[^\\$@%\w])([$@%]\d+[A-Za-z_]\w*)`)

// perlBareSigil matches a sigil in operand position followed by blank
// space, as in "$ = 1" or "my % = ()". A % after an operand is modulo and
// punctuation variables ($, $/ $!) never have a space after the sigil.
var perlBareSigil = regexp.MustCompile(`(^|[=(,;{\[]|\b(?:my|our|local)\s)\s*([$@%])(\s|$)`)

// Perl checks delimiter balance outside literals and comments, brace
// nesting with the line of every unclosed block, POD regions, and variable
// names.
func Perl(content string) []m.Diagnostic {
	diags := perlPod(content)

	code := scan.Strip(scan.BlankRegions(content, isPodStart, isPodEnd), "#")

	diags = append(diags, scan.BalanceDiagnostics(code, scan.Parens, scan.Brackets)...)

	var braces []int

	for _, line := range m.SplitLines(code) {
		for _, r := range line.Text {
			switch r {
			case '{':
				braces = append(braces, line.Number)
			case '}':
				if len(braces) == 0 {
					diags = append(diags, m.NewError(line.Number, m.UnbalancedDelimiter,
						"closing brace without an opening brace"))

					continue
				}

				braces = braces[:len(braces)-1]
			}
		}

		for _, match := range perlBadSigil.FindAllStringSubmatch(line.Text, -1) {
			diags = append(diags, m.NewError(line.Number, m.InvalidIdentifier,
				"invalid variable name %s", match[2]))
		}

		for _, match := range perlBareSigil.FindAllStringSubmatch(line.Text, -1) {
			diags = append(diags, m.NewError(line.Number, m.InvalidIdentifier,
				"sigil %s without a variable name", match[2]))
		}

		if strings.TrimSpace(line.Text) == "};" {
			diags = append(diags, m.NewWarning(line.Number, m.StyleWarning,
				"needless semicolon after closing brace"))
		}
	}

	for _, opened := range braces {
		diags = append(diags, m.NewError(opened, m.UnclosedBlock, "block opened here is never closed"))
	}

	return diags
}

// perlPod reports a =cut with no open POD block and a POD block that runs
// to the end of the file.
func perlPod(content string) []m.Diagnostic {
	var (
		diags  []m.Diagnostic
		openAt int
	)

	for _, line := range m.SplitLines(content) {
		trimmed := strings.TrimSpace(line.Text)

		switch {
		case openAt == 0 && isPodStart(trimmed):
			openAt = line.Number
		case isPodEnd(trimmed):
			if openAt == 0 {
				diags = append(diags, m.NewError(line.Number, m.UnexpectedClosingBlock, "=cut without an open POD block"))
			}

			openAt = 0
		}
	}

	if openAt != 0 {
		diags = append(diags, m.NewError(openAt, m.UnclosedBlock, "POD block opened here is never closed with =cut"))
	}

	return diags
}

// isPodStart accepts any POD directive (=pod, =head1, =begin...) except =cut.
func isPodStart(trimmed string) bool {
	if len(trimmed) < 2 || trimmed[0] != '=' || isPodEnd(trimmed) {
		return false
	}

	c := trimmed[1]

	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isPodEnd(trimmed string) bool {
	return scan.StartsWithKeyword(trimmed, "=cut")
}
