package rules

import (
	"strings"

	"precheck.dev/pkg/precheck/internal/domain/scan"
	m "precheck.dev/pkg/precheck/internal/model"
)

var rubyBlocks = scan.BlockConfig{
	Openers:       []string{"class", "module", "def", "if", "unless", "case", "begin", "while", "until", "for"},
	Closer:        "end",
	SuffixOpeners: []string{"do"},
	SameLineClose: true,
}

// Blocks that may carry an else branch.
var rubyElseParents = map[string]bool{
	"if": true, "unless": true, "case": true, "begin": true, "def": true, "do": true,
}

// Ruby checks delimiter balance, quote parity, =begin/=end comments and
// keyword block nesting. elsif, else and when are checked against the
// innermost open block only.
func Ruby(content string) []m.Diagnostic {
	diags := rubyEmbeddedDocs(content)

	text := scan.BlankRegions(content, isRubyDocStart, isRubyDocEnd)
	code := scan.Strip(text, "#")
	withLiterals := scan.StripComments(text, "#")

	diags = append(diags, scan.BalanceDiagnostics(code)...)
	diags = append(diags, scan.QuoteParity(withLiterals, '\'', "single-quoted string")...)
	diags = append(diags, scan.QuoteParity(withLiterals, '"', "double-quoted string")...)
	diags = append(diags, scan.CheckBlocks(m.SplitLines(code), rubyBlocks, rubyClauses)...)

	return diags
}

func rubyClauses(line m.SourceLine, trimmed string, stack []scan.BlockEntry) []m.Diagnostic {
	var diags []m.Diagnostic

	top, ok := scan.StackTop(stack)

	switch {
	case scan.StartsWithKeyword(trimmed, "elsif"):
		if !ok || top.Keyword != "if" {
			diags = append(diags, m.NewError(line.Number, m.UnexpectedClosingBlock, "'elsif' outside an 'if' block"))
		}
	case scan.StartsWithKeyword(trimmed, "else"):
		if !ok || !rubyElseParents[top.Keyword] {
			diags = append(diags, m.NewError(line.Number, m.UnexpectedClosingBlock, "misplaced 'else'"))
		}
	case scan.StartsWithKeyword(trimmed, "when"):
		if !ok || top.Keyword != "case" {
			diags = append(diags, m.NewError(line.Number, m.UnexpectedClosingBlock, "'when' outside a 'case' block"))
		}
	}

	if strings.Contains(trimmed, ";") {
		diags = append(diags, m.NewWarning(line.Number, m.StyleWarning, "semicolon is unnecessary in Ruby"))
	}

	if trimmed == "def" {
		diags = append(diags, m.NewWarning(line.Number, m.StyleWarning, "'def' without a method name"))
	}

	return diags
}

// rubyEmbeddedDocs reports =begin and =end lines that do not pair up.
func rubyEmbeddedDocs(content string) []m.Diagnostic {
	var (
		diags  []m.Diagnostic
		openAt int
	)

	for _, line := range m.SplitLines(content) {
		switch {
		case openAt == 0 && isRubyDocStart(line.Text):
			openAt = line.Number
		case isRubyDocEnd(line.Text):
			if openAt == 0 {
				diags = append(diags, m.NewError(line.Number, m.UnexpectedClosingBlock, "=end without =begin"))
			}

			openAt = 0
		}
	}

	if openAt != 0 {
		diags = append(diags, m.NewError(openAt, m.UnterminatedLiteral, "=begin comment is never closed with =end"))
	}

	return diags
}

func isRubyDocStart(text string) bool {
	return scan.StartsWithKeyword(strings.TrimSpace(text), "=begin")
}

func isRubyDocEnd(text string) bool {
	return scan.StartsWithKeyword(strings.TrimSpace(text), "=end")
}
