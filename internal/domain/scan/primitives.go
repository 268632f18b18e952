// Package scan provides the language-agnostic scanning primitives and the
// generic validators (delimiter balance, block keywords, indentation, tags)
// that the per-language rule sets compose.
//
// Every function here is pure: state lives on the stack of a single call.
package scan

import (
	"strings"
	"unicode/utf8"

	m "precheck.dev/pkg/precheck/internal/model"
)

// QuoteTracker follows whether a character stream is inside a single- or
// double-quoted literal. A backslash inside a literal escapes the next
// character only.
type QuoteTracker struct {
	open    rune
	escape  bool
	started int
}

// Step advances the tracker over r and reports whether r belongs to a
// literal, delimiting quotes included.
func (q *QuoteTracker) Step(r rune) bool {
	if q.open == 0 {
		if r == '"' || r == '\'' {
			q.open = r
			return true
		}

		return false
	}

	if q.escape {
		q.escape = false
		return true
	}

	switch r {
	case '\\':
		q.escape = true
	case q.open:
		q.open = 0
	}

	return true
}

// StepAt is Step that also remembers the line where a literal was opened.
func (q *QuoteTracker) StepAt(r rune, line int) bool {
	wasOpen := q.open != 0

	in := q.Step(r)
	if !wasOpen && q.open != 0 {
		q.started = line
	}

	return in
}

// InLiteral reports whether the tracker is currently inside a literal.
func (q *QuoteTracker) InLiteral() bool {
	return q.open != 0
}

// Quote returns the quote character of the open literal, or 0.
func (q *QuoteTracker) Quote() rune {
	return q.open
}

// OpenedAt returns the line recorded by StepAt for the open literal.
func (q *QuoteTracker) OpenedAt() int {
	return q.started
}

// Strip blanks out quoted literals and single-line comments starting with
// any of commentPrefixes. Line breaks are kept and every other blanked rune
// becomes one space, so line numbers and columns of the remaining code are
// unchanged. A comment prefix directly after '$' is not a comment ($#array).
func Strip(text string, commentPrefixes ...string) string {
	return strip(text, true, commentPrefixes)
}

// StripComments is Strip without blanking literals: only comments go.
func StripComments(text string, commentPrefixes ...string) string {
	return strip(text, false, commentPrefixes)
}

func strip(text string, blankLiterals bool, commentPrefixes []string) string {
	var (
		b         strings.Builder
		q         QuoteTracker
		inComment bool
		prev      rune
	)

	b.Grow(len(text))

	for i, r := range text {
		if r == '\n' || r == '\r' {
			inComment = false

			b.WriteRune(r)

			prev = r

			continue
		}

		switch {
		case inComment:
			b.WriteByte(' ')
		case !q.InLiteral() && prev != '$' && hasCommentPrefix(text[i:], commentPrefixes):
			inComment = true

			b.WriteByte(' ')
		case q.Step(r):
			if blankLiterals {
				b.WriteByte(' ')
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}

		prev = r
	}

	return b.String()
}

func hasCommentPrefix(rest string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(rest, prefix) {
			return true
		}
	}

	return false
}

// BlankSpans blanks every region from open to the next close (both
// included), keeping line breaks. An unclosed region runs to the end of text.
func BlankSpans(text, open, close string) string {
	if open == "" || close == "" {
		return text
	}

	var b strings.Builder

	b.Grow(len(text))

	rest := text

	for {
		start := strings.Index(rest, open)
		if start < 0 {
			b.WriteString(rest)
			break
		}

		b.WriteString(rest[:start])

		end := strings.Index(rest[start+len(open):], close)
		if end < 0 {
			b.WriteString(blank(rest[start:]))
			break
		}

		stop := start + len(open) + end + len(close)
		b.WriteString(blank(rest[start:stop]))
		rest = rest[stop:]
	}

	return b.String()
}

// BlankRegions blanks whole-line regions: from a line for which isStart
// returns true through the next line for which isEnd returns true. Lines are
// matched on their trimmed text.
func BlankRegions(text string, isStart, isEnd func(trimmed string) bool) string {
	var b strings.Builder

	b.Grow(len(text))

	inside := false

	for rest := text; rest != ""; {
		line, lineBreak, next := cutLine(rest)
		trimmed := strings.TrimSpace(line)

		switch {
		case !inside && isStart(trimmed):
			inside = true
			line = blank(line)
		case inside:
			if isEnd(trimmed) {
				inside = false
			}

			line = blank(line)
		}

		b.WriteString(line)
		b.WriteString(lineBreak)

		rest = next
	}

	return b.String()
}

// cutLine splits off the first line of text and its line break (\n, \r\n
// or a lone \r).
func cutLine(text string) (line, lineBreak, rest string) {
	i := strings.IndexAny(text, "\r\n")
	if i < 0 {
		return text, "", ""
	}

	if strings.HasPrefix(text[i:], "\r\n") {
		return text[:i], "\r\n", text[i+2:]
	}

	return text[:i], text[i : i+1], text[i+1:]
}

// blank replaces every rune except line breaks with a space.
func blank(s string) string {
	var b strings.Builder

	b.Grow(utf8.RuneCountInString(s))

	for _, r := range s {
		if r == '\n' || r == '\r' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	return b.String()
}

// QuoteCount counts occurrences of quote not preceded by an escaping
// backslash.
func QuoteCount(text string, quote rune) int {
	count := 0
	escape := false

	for _, r := range text {
		if r == quote && !escape {
			count++
		}

		escape = r == '\\' && !escape
	}

	return count
}

// QuoteParity returns a file-level UnterminatedLiteral diagnostic when text
// holds an odd number of unescaped quote characters. The check only counts;
// it does not prove that each literal is closed where it should be.
func QuoteParity(text string, quote rune, what string) []m.Diagnostic {
	if QuoteCount(text, quote)%2 == 0 {
		return nil
	}

	return []m.Diagnostic{
		m.NewError(m.FileLevel, m.UnterminatedLiteral, "unterminated %s: odd number of %c characters", what, quote),
	}
}

// StartsWithKeyword reports whether trimmed is keyword or begins with
// keyword followed by a non-identifier character.
func StartsWithKeyword(trimmed, keyword string) bool {
	if !strings.HasPrefix(trimmed, keyword) {
		return false
	}

	if len(trimmed) == len(keyword) {
		return true
	}

	next, _ := utf8.DecodeRuneInString(trimmed[len(keyword):])

	return !isIdentRune(next)
}

// LeadingWord returns the identifier at the start of trimmed, if any.
func LeadingWord(trimmed string) string {
	for i, r := range trimmed {
		if !isIdentRune(r) {
			return trimmed[:i]
		}
	}

	return trimmed
}

func isIdentRune(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
