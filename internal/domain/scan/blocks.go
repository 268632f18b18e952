package scan

import (
	"regexp"
	"strings"

	m "precheck.dev/pkg/precheck/internal/model"
)

// BlockEntry is an open block on the keyword stack.
type BlockEntry struct {
	Keyword string
	Line    int
}

// BlockConfig describes a keyword-delimited block language.
type BlockConfig struct {
	// Openers start a block when they begin a line.
	Openers []string
	// Closer ends the innermost block. A line equal to it pops.
	Closer string
	// SuffixOpeners start a block when they end a line, optionally followed
	// by a |params| list (Ruby's "items.each do |x|").
	SuffixOpeners []string
	// SameLineClose lets a line that opens a block and ends with Closer
	// ("def foo; end") leave the stack unchanged.
	SameLineClose bool
}

// LineHook inspects a line after the stack has been updated for it. The
// stack slice must not be retained or modified.
type LineHook func(line m.SourceLine, trimmed string, stack []BlockEntry) []m.Diagnostic

// CheckBlocks validates keyword block nesting over lines that have already
// had comments and literals blanked. Blank lines are skipped.
func CheckBlocks(lines []m.SourceLine, cfg BlockConfig, hook LineHook) []m.Diagnostic {
	var (
		stack []BlockEntry
		diags []m.Diagnostic
	)

	suffix := suffixPattern(cfg.SuffixOpeners)
	sameLineEnd := regexp.MustCompile(`(^|[^A-Za-z0-9_])` + regexp.QuoteMeta(cfg.Closer) + `$`)

	for _, line := range lines {
		trimmed := strings.TrimSpace(line.Text)
		if trimmed == "" {
			continue
		}

		if opener := matchOpener(trimmed, cfg.Openers, suffix); opener != "" {
			closedInline := cfg.SameLineClose && trimmed != opener && sameLineEnd.MatchString(trimmed)
			if !closedInline {
				stack = append(stack, BlockEntry{Keyword: opener, Line: line.Number})
			}
		} else if isCloser(trimmed, cfg.Closer) {
			if len(stack) == 0 {
				diags = append(diags, m.NewError(line.Number, m.UnexpectedClosingBlock,
					"'%s' without an open block", cfg.Closer))
			} else {
				stack = stack[:len(stack)-1]
			}
		}

		if hook != nil {
			diags = append(diags, hook(line, trimmed, stack)...)
		}
	}

	for _, entry := range stack {
		diags = append(diags, m.NewError(entry.Line, m.UnclosedBlock,
			"'%s' block opened here is never closed with '%s'", entry.Keyword, cfg.Closer))
	}

	return diags
}

// StackTop returns the innermost open block.
func StackTop(stack []BlockEntry) (BlockEntry, bool) {
	if len(stack) == 0 {
		return BlockEntry{}, false
	}

	return stack[len(stack)-1], true
}

func matchOpener(trimmed string, openers []string, suffix *regexp.Regexp) string {
	for _, kw := range openers {
		if StartsWithKeyword(trimmed, kw) {
			return kw
		}
	}

	if suffix != nil {
		if match := suffix.FindStringSubmatch(trimmed); match != nil {
			return match[2]
		}
	}

	return ""
}

// isCloser accepts the closer alone or followed by a non-identifier
// character ("end.join", "end)").
func isCloser(trimmed, closer string) bool {
	return closer != "" && StartsWithKeyword(trimmed, closer)
}

func suffixPattern(keywords []string) *regexp.Regexp {
	if len(keywords) == 0 {
		return nil
	}

	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		quoted = append(quoted, regexp.QuoteMeta(kw))
	}

	return regexp.MustCompile(`(^|[^A-Za-z0-9_.])(` + strings.Join(quoted, "|") + `)(\s*\|[^|]*\|)?$`)
}
